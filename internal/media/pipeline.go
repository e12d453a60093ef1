// Package media renders storyboard clips into a hosted advertisement video:
// parallel text-to-video jobs plus a single voiceover track, local ffmpeg
// assembly in a scratch directory, then a direct upload to the video host.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/reelforge/adgen-cli/internal/config"
	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/pkg/elevenlabs"
	"github.com/reelforge/adgen-cli/pkg/fal"
	"github.com/reelforge/adgen-cli/pkg/muxvideo"
)

// Pipeline turns a storyboard into a published AdVideo.
type Pipeline struct {
	video     fal.Client
	tts       elevenlabs.Client
	host      muxvideo.Client
	assembler Assembler
	download  *http.Client

	falCfg   config.FalConfig
	ttsCfg   config.ElevenLabsConfig
	mediaCfg config.MediaConfig
}

// Option overrides a Pipeline dependency.
type Option func(*Pipeline)

// WithAssembler replaces the ffmpeg assembler.
func WithAssembler(a Assembler) Option {
	return func(p *Pipeline) {
		p.assembler = a
	}
}

// WithDownloadClient replaces the HTTP client used to fetch rendered scenes.
func WithDownloadClient(hc *http.Client) Option {
	return func(p *Pipeline) {
		p.download = hc
	}
}

// NewPipeline creates a Pipeline with all collaborators.
func NewPipeline(
	video fal.Client,
	tts elevenlabs.Client,
	host muxvideo.Client,
	falCfg config.FalConfig,
	ttsCfg config.ElevenLabsConfig,
	mediaCfg config.MediaConfig,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		video:     video,
		tts:       tts,
		host:      host,
		assembler: NewAssembler(mediaCfg.FFmpegPath),
		download:  &http.Client{Timeout: 5 * time.Minute},
		falCfg:    falCfg,
		ttsCfg:    ttsCfg,
		mediaCfg:  mediaCfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// sceneResult is one finished render, tagged with its storyboard index.
type sceneResult struct {
	index int
	url   string
	err   error
}

// Generate renders every clip, synthesizes the voiceover, assembles the final
// video locally, and uploads it. Any scene or audio failure aborts the run
// before assembly; no upload happens after a failure. Fewer than four clips
// runs in degraded mode (the single-clip case skips concatenation entirely);
// zero clips is a precondition error.
func (p *Pipeline) Generate(ctx context.Context, clips []model.VideoClip) (*model.AdVideo, error) {
	if len(clips) == 0 {
		return nil, eris.New("media: no clips to render")
	}
	if len(clips) < model.SceneCount {
		zap.L().Warn("media: running in degraded mode", zap.Int("scenes", len(clips)))
	}

	log := zap.L().With(zap.Int("scenes", len(clips)))
	log.Info("media: starting render")

	scenes, audio, audioDur, err := p.renderAll(ctx, clips)
	if err != nil {
		return nil, err
	}

	scratch := filepath.Join(os.TempDir(), "adgen-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, eris.Wrap(err, "media: create scratch dir")
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			zap.L().Warn("media: scratch cleanup failed", zap.String("dir", scratch), zap.Error(rmErr))
		}
	}()

	finalPath, err := p.assemble(ctx, scratch, scenes, audio)
	if err != nil {
		return nil, err
	}

	playbackID, assetID, err := p.publish(ctx, finalPath)
	if err != nil {
		return nil, err
	}

	log.Info("media: video published", zap.String("playback_id", playbackID))
	return &model.AdVideo{
		PlaybackID:    playbackID,
		AssetID:       assetID,
		SceneCount:    len(clips),
		AudioDuration: audioDur,
	}, nil
}

// renderAll runs every scene render and the voiceover synthesis concurrently.
// All failures are collected so the error names every failed scene, not just
// the first one.
func (p *Pipeline) renderAll(ctx context.Context, clips []model.VideoClip) (sceneURLs []string, audio []byte, audioDur float64, err error) {
	results := make(chan sceneResult, len(clips))
	var wg sync.WaitGroup

	for i, clip := range clips {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url, renderErr := p.renderScene(ctx, clip)
			results <- sceneResult{index: i, url: url, err: renderErr}
		}()
	}

	var audioErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		audio, audioDur, audioErr = p.synthesize(ctx, clips)
	}()

	wg.Wait()
	close(results)

	byIndex := make([]sceneResult, 0, len(clips))
	for r := range results {
		byIndex = append(byIndex, r)
	}
	sort.Slice(byIndex, func(a, b int) bool { return byIndex[a].index < byIndex[b].index })

	var failures []string
	sceneURLs = make([]string, len(clips))
	for _, r := range byIndex {
		if r.err != nil {
			failures = append(failures, fmt.Sprintf("Video: scene %d: %v", r.index, r.err))
			continue
		}
		sceneURLs[r.index] = r.url
	}
	if audioErr != nil {
		failures = append(failures, fmt.Sprintf("Audio: %v", audioErr))
	}
	if len(failures) > 0 {
		return nil, nil, 0, eris.New("media: generation failed: " + strings.Join(failures, "; "))
	}
	return sceneURLs, audio, audioDur, nil
}

// renderScene submits one text-to-video job and polls it to completion.
func (p *Pipeline) renderScene(ctx context.Context, clip model.VideoClip) (string, error) {
	req := fal.VideoRequest{
		Prompt:      clip.Prompt,
		AspectRatio: p.falCfg.AspectRatio,
	}
	if p.falCfg.DurationSecs > 0 {
		req.Duration = strconv.Itoa(p.falCfg.DurationSecs)
	}

	sub, err := p.video.Submit(ctx, p.falCfg.Model, req)
	if err != nil {
		return "", err
	}

	res, err := fal.PollResult(ctx, p.video, p.falCfg.Model, sub.RequestID)
	if err != nil {
		return "", err
	}
	if res.Video.URL == "" {
		return "", eris.Errorf("empty video URL for request %s", sub.RequestID)
	}
	return res.Video.URL, nil
}

// synthesize builds the full voiceover from the clip lines in storyboard
// order, joined by single spaces.
func (p *Pipeline) synthesize(ctx context.Context, clips []model.VideoClip) ([]byte, float64, error) {
	lines := make([]string, 0, len(clips))
	for _, c := range clips {
		if s := strings.TrimSpace(c.Voiceover); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return nil, 0, eris.New("no voiceover text")
	}

	resp, err := p.tts.Synthesize(ctx, elevenlabs.SynthesizeRequest{
		Text:       strings.Join(lines, " "),
		VoiceID:    p.ttsCfg.VoiceID,
		ModelID:    p.ttsCfg.Model,
		Stability:  p.ttsCfg.Stability,
		Similarity: p.ttsCfg.Similarity,
	})
	if err != nil {
		return nil, 0, err
	}
	return resp.Audio, resp.Duration(), nil
}

// assemble downloads the rendered scenes into the scratch dir, concatenates
// them, and muxes the voiceover. A single scene skips the concat step.
func (p *Pipeline) assemble(ctx context.Context, scratch string, sceneURLs []string, audio []byte) (string, error) {
	sceneFiles := make([]string, len(sceneURLs))
	for i, url := range sceneURLs {
		path := filepath.Join(scratch, fmt.Sprintf("scene_%d.mp4", i))
		if err := p.downloadFile(ctx, url, path); err != nil {
			return "", eris.Wrapf(err, "media: download scene %d", i)
		}
		sceneFiles[i] = path
	}

	audioPath := filepath.Join(scratch, "voiceover.mp3")
	if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
		return "", eris.Wrap(err, "media: write voiceover")
	}

	videoPath := sceneFiles[0]
	if len(sceneFiles) > 1 {
		videoPath = filepath.Join(scratch, "concat.mp4")
		if err := p.assembler.Concat(ctx, sceneFiles, videoPath); err != nil {
			return "", err
		}
	}

	finalPath := filepath.Join(scratch, "final.mp4")
	if err := p.assembler.Mux(ctx, videoPath, audioPath, finalPath); err != nil {
		return "", err
	}
	return finalPath, nil
}

func (p *Pipeline) downloadFile(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	resp, err := p.download.Do(req)
	if err != nil {
		return eris.Wrap(err, "fetch")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("HTTP %d fetching %s", resp.StatusCode, url)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return eris.Wrap(err, "write file")
	}
	return nil
}

// publish uploads the assembled video and waits for the asset to be ready.
func (p *Pipeline) publish(ctx context.Context, filePath string) (playbackID, assetID string, err error) {
	upload, err := p.host.CreateUpload(ctx)
	if err != nil {
		return "", "", eris.Wrap(err, "media: provision upload")
	}

	if err := p.host.PutFile(ctx, upload.URL, filePath); err != nil {
		return "", "", eris.Wrap(err, "media: upload video")
	}

	interval := time.Duration(p.mediaCfg.PollIntervalSecs) * time.Second
	if interval <= 0 {
		interval = 3 * time.Second
	}
	attempts := p.mediaCfg.PollMaxAttempts
	if attempts <= 0 {
		attempts = 100
	}

	asset, err := muxvideo.WaitForAsset(ctx, p.host, upload.ID, interval, attempts)
	if err != nil {
		return "", "", eris.Wrap(err, "media: wait for asset")
	}
	if len(asset.PlaybackIDs) == 0 {
		return "", "", eris.Errorf("media: asset %s has no playback ID", asset.ID)
	}
	return asset.PlaybackIDs[0].ID, asset.ID, nil
}
