package model

import "time"

// Canonical scene labels, in narrative order. Every storyboard has exactly
// one clip per label.
var SceneLabels = [4]string{"Hook", "Problem", "Solution", "CTA"}

// SceneCount is the number of clips in one ad narrative.
const SceneCount = 4

// VideoClip is one narrative beat of the advertisement. Order within a
// CreativeOutput is semantically meaningful and must be preserved end to end.
type VideoClip struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Prompt    string `json:"prompt"`
	Voiceover string `json:"voiceover"`
}

// CreativeOutput is the generated ad narrative. Immutable once produced;
// regenerating replaces it wholesale.
type CreativeOutput struct {
	Clips       []VideoClip `json:"clips"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// AdVideo is the published result of the scene media pipeline.
type AdVideo struct {
	PlaybackID    string  `json:"playback_id"`
	AssetID       string  `json:"asset_id"`
	SceneCount    int     `json:"scene_count"`
	AudioDuration float64 `json:"audio_duration"`
}
