package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/internal/outreach"
	"github.com/reelforge/adgen-cli/internal/research"
	anthropicpkg "github.com/reelforge/adgen-cli/pkg/anthropic"
	"github.com/reelforge/adgen-cli/pkg/firecrawl"
)

// runResult is the end-to-end pipeline output.
type runResult struct {
	Product     *model.ProductInfo    `json:"product"`
	Research    *model.MarketResearch `json:"research"`
	Creative    *model.CreativeOutput `json:"creative"`
	Video       *model.AdVideo        `json:"video,omitempty"`
	Influencers []model.Influencer    `json:"influencers,omitempty"`
	Drafts      []model.EmailDraft    `json:"drafts,omitempty"`
}

var (
	runProductURL   string
	runSkipVideo    bool
	runSkipOutreach bool
	runSendEmails   bool
	runOut          string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline for one product URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if runProductURL == "" {
			return eris.New("--url is required")
		}

		fc, err := newFirecrawl()
		if err != nil {
			return err
		}
		ai, err := newAnthropic()
		if err != nil {
			return err
		}

		result, err := runPipeline(ctx, fc, ai, runProductURL, runSkipVideo, runSkipOutreach, runSendEmails)
		if err != nil {
			return err
		}
		return writeArtifact(runOut, result)
	},
}

// runPipeline executes every stage in order. Video and outreach are optional;
// a video failure downgrades to a warning so research and outreach results
// are not lost with it.
func runPipeline(ctx context.Context, fc firecrawl.Client, ai anthropicpkg.Client, productURL string, skipVideo, skipOutreach, sendEmails bool) (*runResult, error) {
	product, err := research.FetchProduct(ctx, fc, productURL)
	if err != nil {
		return nil, err
	}

	orch, err := newOrchestrator(fc, ai)
	if err != nil {
		return nil, err
	}
	marketResearch, err := orch.Run(ctx, product.Title, product.Brand, product.Category)
	if err != nil {
		return nil, err
	}

	creative, err := newStoryboard(ai).Generate(ctx, product, marketResearch)
	if err != nil {
		return nil, err
	}

	result := &runResult{
		Product:  product,
		Research: marketResearch,
		Creative: creative,
	}

	videoURL := ""
	if !skipVideo {
		pipeline, err := newMediaPipeline()
		if err != nil {
			return nil, err
		}
		video, err := pipeline.Generate(ctx, creative.Clips)
		if err != nil {
			zap.L().Warn("video generation failed, continuing without it", zap.Error(err))
		} else {
			result.Video = video
			videoURL = "https://stream.mux.com/" + video.PlaybackID + ".m3u8"
		}
	}

	if !skipOutreach {
		found, err := newFinder(fc, ai).Find(ctx, product.Title, product.Category, product.Brand)
		if err != nil {
			return nil, err
		}
		result.Influencers = found

		if len(found) > 0 {
			drafter := outreach.NewDrafter(ai, cfg.Anthropic, cfg.Outreach.DraftsPerMinute)
			drafts, err := drafter.Draft(ctx, found, product, videoURL)
			if err != nil {
				return nil, err
			}

			if sendEmails {
				mail, err := newResend()
				if err != nil {
					return nil, err
				}
				sender := outreach.NewSender(mail)
				for i := range drafts {
					status, sendErr := sender.Send(ctx, &drafts[i], cfg.Resend.From, videoURL)
					if sendErr != nil {
						zap.L().Warn("send skipped or failed",
							zap.String("influencer", drafts[i].Influencer.Name),
							zap.Error(sendErr),
						)
					}
					drafts[i].Status = status
					if status == model.DraftStatusSent {
						now := time.Now().UTC()
						drafts[i].SentAt = &now
					}
				}
			}
			result.Drafts = drafts
		}
	}

	return result, nil
}

func init() {
	runCmd.Flags().StringVar(&runProductURL, "url", "", "product page URL")
	runCmd.Flags().BoolVar(&runSkipVideo, "skip-video", false, "skip video rendering and publishing")
	runCmd.Flags().BoolVar(&runSkipOutreach, "skip-outreach", false, "skip influencer discovery and drafting")
	runCmd.Flags().BoolVar(&runSendEmails, "send", false, "send drafted outreach emails")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "-", "output file (default stdout)")
	rootCmd.AddCommand(runCmd)
}
