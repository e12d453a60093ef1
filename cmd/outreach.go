package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/internal/outreach"
)

// outreachArtifact is the output of the outreach stage.
type outreachArtifact struct {
	Drafts []model.EmailDraft `json:"drafts"`
}

var (
	outreachIn       string
	outreachVideoURL string
	outreachSend     bool
	outreachFrom     string
	outreachOut      string
)

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Draft collaboration emails for discovered influencers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var in influencersArtifact
		if err := readArtifact(outreachIn, &in); err != nil {
			return err
		}
		if len(in.Influencers) == 0 {
			zap.L().Warn("no influencers to contact")
			return writeArtifact(outreachOut, outreachArtifact{})
		}

		ai, err := newAnthropic()
		if err != nil {
			return err
		}

		drafter := outreach.NewDrafter(ai, cfg.Anthropic, cfg.Outreach.DraftsPerMinute)
		drafts, err := drafter.Draft(ctx, in.Influencers, in.Product, outreachVideoURL)
		if err != nil {
			return err
		}

		if outreachSend {
			mail, err := newResend()
			if err != nil {
				return err
			}
			from := outreachFrom
			if from == "" {
				from = cfg.Resend.From
			}

			sender := outreach.NewSender(mail)
			for i := range drafts {
				status, err := sender.Send(ctx, &drafts[i], from, outreachVideoURL)
				if err != nil {
					zap.L().Warn("send skipped or failed",
						zap.String("influencer", drafts[i].Influencer.Name),
						zap.Error(err),
					)
				}
				drafts[i].Status = status
				if status == model.DraftStatusSent {
					now := time.Now().UTC()
					drafts[i].SentAt = &now
				}
			}
		}

		return writeArtifact(outreachOut, outreachArtifact{Drafts: drafts})
	},
}

func init() {
	outreachCmd.Flags().StringVarP(&outreachIn, "influencers", "i", "influencers.json", "influencers artifact file")
	outreachCmd.Flags().StringVar(&outreachVideoURL, "video-url", "", "published ad video URL to include")
	outreachCmd.Flags().BoolVar(&outreachSend, "send", false, "send the drafted emails")
	outreachCmd.Flags().StringVar(&outreachFrom, "from", "", "sender address (default from config)")
	outreachCmd.Flags().StringVarP(&outreachOut, "out", "o", "-", "output file (default stdout)")
	rootCmd.AddCommand(outreachCmd)
}
