package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/reelforge/adgen-cli/internal/config"
	"github.com/reelforge/adgen-cli/internal/extract"
	"github.com/reelforge/adgen-cli/internal/media"
	"github.com/reelforge/adgen-cli/internal/outreach"
	"github.com/reelforge/adgen-cli/internal/research"
	"github.com/reelforge/adgen-cli/internal/storyboard"
	anthropicpkg "github.com/reelforge/adgen-cli/pkg/anthropic"
	"github.com/reelforge/adgen-cli/pkg/elevenlabs"
	"github.com/reelforge/adgen-cli/pkg/fal"
	"github.com/reelforge/adgen-cli/pkg/firecrawl"
	"github.com/reelforge/adgen-cli/pkg/muxvideo"
	"github.com/reelforge/adgen-cli/pkg/resend"
)

// Client constructors. Each checks its credential up front so a missing key
// fails at command start, not mid-pipeline.

func newFirecrawl() (firecrawl.Client, error) {
	if err := config.Require("content fetch", cfg.Firecrawl.Key); err != nil {
		return nil, err
	}
	opts := []firecrawl.Option{}
	if cfg.Firecrawl.BaseURL != "" {
		opts = append(opts, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
	}
	return firecrawl.NewClient(cfg.Firecrawl.Key, opts...), nil
}

func newAnthropic() (anthropicpkg.Client, error) {
	if err := config.Require("completion", cfg.Anthropic.Key); err != nil {
		return nil, err
	}
	return anthropicpkg.NewClient(cfg.Anthropic.Key), nil
}

func newFal() (fal.Client, error) {
	if err := config.Require("text-to-video", cfg.Fal.Key); err != nil {
		return nil, err
	}
	opts := []fal.Option{}
	if cfg.Fal.BaseURL != "" {
		opts = append(opts, fal.WithBaseURL(cfg.Fal.BaseURL))
	}
	return fal.NewClient(cfg.Fal.Key, opts...), nil
}

func newElevenLabs() (elevenlabs.Client, error) {
	if err := config.Require("text-to-speech", cfg.ElevenLabs.Key); err != nil {
		return nil, err
	}
	opts := []elevenlabs.Option{}
	if cfg.ElevenLabs.BaseURL != "" {
		opts = append(opts, elevenlabs.WithBaseURL(cfg.ElevenLabs.BaseURL))
	}
	return elevenlabs.NewClient(cfg.ElevenLabs.Key, opts...), nil
}

func newMux() (muxvideo.Client, error) {
	if err := config.Require("video host", cfg.Mux.TokenID+cfg.Mux.TokenSecret); err != nil {
		return nil, err
	}
	opts := []muxvideo.Option{}
	if cfg.Mux.BaseURL != "" {
		opts = append(opts, muxvideo.WithBaseURL(cfg.Mux.BaseURL))
	}
	return muxvideo.NewClient(cfg.Mux.TokenID, cfg.Mux.TokenSecret, opts...), nil
}

func newResend() (resend.Client, error) {
	if err := config.Require("email delivery", cfg.Resend.Key); err != nil {
		return nil, err
	}
	opts := []resend.Option{}
	if cfg.Resend.BaseURL != "" {
		opts = append(opts, resend.WithBaseURL(cfg.Resend.BaseURL))
	}
	return resend.NewClient(cfg.Resend.Key, opts...), nil
}

// Stage constructors over the clients.

func newOrchestrator(fc firecrawl.Client, ai anthropicpkg.Client) (*research.Orchestrator, error) {
	catalog, err := extract.LoadBrandCatalog()
	if err != nil {
		return nil, eris.Wrap(err, "load brand catalog")
	}
	extractor := extract.New(cfg.Extractor, catalog)
	return research.New(fc, ai, extractor, catalog, cfg.Research, cfg.Anthropic, cfg.Firecrawl.SearchLimit), nil
}

func newStoryboard(ai anthropicpkg.Client) *storyboard.Generator {
	return storyboard.New(ai, cfg.Anthropic)
}

func newMediaPipeline() (*media.Pipeline, error) {
	video, err := newFal()
	if err != nil {
		return nil, err
	}
	tts, err := newElevenLabs()
	if err != nil {
		return nil, err
	}
	host, err := newMux()
	if err != nil {
		return nil, err
	}
	return media.NewPipeline(video, tts, host, cfg.Fal, cfg.ElevenLabs, cfg.Media), nil
}

func newFinder(fc firecrawl.Client, ai anthropicpkg.Client) *outreach.Finder {
	return outreach.NewFinder(fc, ai, cfg.Outreach, cfg.Anthropic, cfg.Firecrawl.SearchLimit)
}

// Artifact IO. Stages communicate through JSON files so each subcommand can
// run on its own.

func writeArtifact(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal artifact")
	}
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}

func readArtifact(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "parse %s", path)
	}
	return nil
}
