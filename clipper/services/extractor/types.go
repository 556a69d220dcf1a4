package extractor

import "time"

// Outcome statuses. Exactly one of Full/Basic is set per request; the
// status tag tells the clip assembler which path to run.
const (
	StatusFull  = "full"
	StatusBasic = "basic"
)

// Full is the heavy-path result: main content plus the merged image list
// and whatever author identity the page exposed.
type Full struct {
	Title        string
	RawText      string
	HTMLContent  string
	Images       []string
	Author       string
	AuthorAvatar string
	AuthorHandle string
	FinalURL     string
}

// Basic is the degraded result produced by the lightweight fallback.
type Basic struct {
	Title        string
	Description  string
	PreviewImage string
}

// Outcome is what the orchestrator hands to clip assembly.
type Outcome struct {
	Status  string
	Full    *Full
	Basic   *Basic
	Elapsed time.Duration
}
