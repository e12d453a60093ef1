package outreach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/reelforge/adgen-cli/internal/config"
	"github.com/reelforge/adgen-cli/internal/model"
	"github.com/reelforge/adgen-cli/pkg/anthropic"
	"github.com/reelforge/adgen-cli/pkg/resend"
)

const draftPrompt = `Write a short, personal influencer collaboration email.

Creator: %s (%s on %s)
Niche: %s
Bio: %s

Product: %s
Brand: %s
Description: %s
%s
Tone: warm, specific to this creator, no generic flattery, under 150 words.
Return ONLY a JSON object, no markdown fences:
{"subject": "<subject line>", "body": "<plain-text email body>"}`

// Drafter generates one personalized email per influencer. Drafting is
// strictly sequential and rate limited; a per-influencer failure is skipped,
// never fatal.
type Drafter struct {
	ai      anthropic.Client
	aiCfg   config.AnthropicConfig
	limiter *rate.Limiter
}

// NewDrafter creates a Drafter. draftsPerMinute caps completion calls.
func NewDrafter(ai anthropic.Client, aiCfg config.AnthropicConfig, draftsPerMinute int) *Drafter {
	if draftsPerMinute <= 0 {
		draftsPerMinute = 6
	}
	every := time.Minute / time.Duration(draftsPerMinute)
	return &Drafter{
		ai:      ai,
		aiCfg:   aiCfg,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}
}

// Draft produces one EmailDraft per influencer, in the given order. Each
// draft starts in DraftStatusDraft. Influencers whose draft generation fails
// are logged and omitted from the result.
func (d *Drafter) Draft(ctx context.Context, influencers []model.Influencer, product *model.ProductInfo, videoURL string) ([]model.EmailDraft, error) {
	drafts := make([]model.EmailDraft, 0, len(influencers))
	for _, inf := range influencers {
		if err := d.limiter.Wait(ctx); err != nil {
			return drafts, eris.Wrap(err, "outreach: draft rate limit wait")
		}

		subject, body, err := d.draftOne(ctx, inf, product, videoURL)
		if err != nil {
			zap.L().Warn("outreach: draft generation failed, skipping influencer",
				zap.String("influencer", inf.Name), zap.Error(err))
			continue
		}

		drafts = append(drafts, model.EmailDraft{
			ID:         uuid.NewString(),
			Influencer: inf,
			Subject:    subject,
			Body:       body,
			Status:     model.DraftStatusDraft,
		})
	}

	zap.L().Info("outreach: drafting complete",
		zap.Int("influencers", len(influencers)), zap.Int("drafts", len(drafts)))
	return drafts, nil
}

func (d *Drafter) draftOne(ctx context.Context, inf model.Influencer, product *model.ProductInfo, videoURL string) (subject, body string, err error) {
	videoLine := ""
	if videoURL != "" {
		videoLine = fmt.Sprintf("Mention that a sample ad video is available at %s.\n", videoURL)
	}

	prompt := fmt.Sprintf(draftPrompt,
		inf.Name, inf.Handle, inf.Platform,
		inf.Niche, inf.Bio,
		product.Title, product.Brand, product.Description,
		videoLine,
	)

	req := anthropic.MessageRequest{
		Model:     d.aiCfg.Model,
		MaxTokens: int64(d.aiCfg.MaxTokens),
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	}
	if d.aiCfg.Temperature > 0 {
		req.Temperature = &d.aiCfg.Temperature
	}

	resp, err := d.ai.CreateMessage(ctx, req)
	if err != nil {
		return "", "", err
	}

	var parsed struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.Unmarshal([]byte(anthropic.CleanJSON(resp.Text())), &parsed); err != nil {
		return "", "", eris.Wrap(err, "parse draft")
	}
	if strings.TrimSpace(parsed.Subject) == "" || strings.TrimSpace(parsed.Body) == "" {
		return "", "", eris.New("draft missing subject or body")
	}
	return parsed.Subject, parsed.Body, nil
}

// Sender delivers drafts through the email service.
type Sender struct {
	mail resend.Client
}

// NewSender creates a Sender.
func NewSender(mail resend.Client) *Sender {
	return &Sender{mail: mail}
}

// Send delivers one draft. The influencer must have an email address; a
// draft without one is a precondition error and no send is attempted. The
// returned status is terminal: DraftStatusSent on acceptance,
// DraftStatusFailed on any delivery error. There is no retry; a failed draft
// is only retried by drafting anew.
func (s *Sender) Send(ctx context.Context, draft *model.EmailDraft, from, videoURL string) (model.DraftStatus, error) {
	if draft.Status != model.DraftStatusDraft {
		return draft.Status, eris.Errorf("outreach: draft %s already %s", draft.ID, draft.Status)
	}
	if strings.TrimSpace(draft.Influencer.Email) == "" {
		return model.DraftStatusDraft, eris.Errorf("outreach: influencer %s has no email address", draft.Influencer.Name)
	}

	resp, err := s.mail.Send(ctx, resend.SendRequest{
		From:    from,
		To:      []string{draft.Influencer.Email},
		Subject: draft.Subject,
		HTML:    renderHTML(draft.Body, videoURL),
	})
	if err != nil {
		zap.L().Warn("outreach: send failed",
			zap.String("draft", draft.ID),
			zap.String("influencer", draft.Influencer.Name),
			zap.Error(err),
		)
		return model.DraftStatusFailed, eris.Wrap(err, "outreach: send email")
	}

	zap.L().Info("outreach: email sent",
		zap.String("draft", draft.ID), zap.String("message_id", resp.ID))
	return model.DraftStatusSent, nil
}

// renderHTML converts the plain-text body into minimal HTML paragraphs and
// appends the ad video link when one exists.
func renderHTML(body, videoURL string) string {
	var b strings.Builder
	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(para, "\n", "<br>"))
		b.WriteString("</p>")
	}
	if videoURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Watch the ad concept</a></p>`, videoURL)
	}
	return b.String()
}
