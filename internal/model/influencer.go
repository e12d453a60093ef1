package model

import "time"

// Platform identifies a social platform for influencer discovery.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformTwitter   Platform = "twitter"
	PlatformYouTube   Platform = "youtube"
)

// ValidPlatform reports whether p is one of the known platforms.
func ValidPlatform(p Platform) bool {
	switch p {
	case PlatformInstagram, PlatformTikTok, PlatformTwitter, PlatformYouTube:
		return true
	}
	return false
}

// Influencer is a ranked creator candidate for outreach.
type Influencer struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Handle         string   `json:"handle"`
	Platform       Platform `json:"platform"`
	Followers      string   `json:"followers,omitempty"`
	Niche          string   `json:"niche,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	ProfileURL     string   `json:"profile_url"`
	Email          string   `json:"email,omitempty"`
	RelevanceScore int      `json:"relevance_score"` // 1 (weak fit) to 10 (ideal fit)
	Reasoning      string   `json:"reasoning"`
}

// DraftStatus is the delivery state of an outreach email. Transitions are
// one-way: draft -> sent or draft -> failed, both terminal. A failed draft is
// retried only by generating a new draft, never by resending the same one.
type DraftStatus string

const (
	DraftStatusDraft  DraftStatus = "draft"
	DraftStatusSent   DraftStatus = "sent"
	DraftStatusFailed DraftStatus = "failed"
)

// EmailDraft is a personalized outreach email for one influencer.
type EmailDraft struct {
	ID         string      `json:"id"`
	Influencer Influencer  `json:"influencer"`
	Subject    string      `json:"subject"`
	Body       string      `json:"body"`
	Status     DraftStatus `json:"status"`
	SentAt     *time.Time  `json:"sent_at,omitempty"`
}
