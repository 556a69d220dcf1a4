// clipper/types/ingest.go
package types

// IngestOptions tunes how a single clip is assembled.
type IngestOptions struct {
	SkipAI         bool   `json:"skipAI"`
	SkipImageCache bool   `json:"skipImageCache"`
	FallbackTitle  string `json:"fallbackTitle,omitempty"`
}

// IngestRequest is immutable once accepted; one per HTTP call.
type IngestRequest struct {
	URL      string        `json:"url"`
	Language string        `json:"language,omitempty"`
	Options  IngestOptions `json:"options"`
}

// IngestMeta rides along the 201 response as "_meta".
type IngestMeta struct {
	Status           string `json:"status"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}

// ErrorResponse is the JSON error body for 4xx/5xx.
type ErrorResponse struct {
	Error   string `json:"error"`
	Hint    string `json:"hint,omitempty"`
	Details string `json:"details,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
}

type CreateAPIKeyRequest struct {
	Label string `json:"label,omitempty"`
}
