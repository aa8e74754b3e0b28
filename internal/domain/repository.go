package domain

import "context"

// PageFetcher defines the interface for retrieving web pages
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// ChatCompleter defines the interface for the generative text backend.
// Complete sends one prompt to one model and returns the raw text content;
// implementations must surface ErrQuotaExceeded and ErrRateLimited distinctly
// so the cascade can decide how to advance.
type ChatCompleter interface {
	Complete(ctx context.Context, model, prompt string) (*ChatResponse, error)
}

// VideoMetadataClient defines the interface for video platform lookups.
// Lookup is best-effort: callers treat any error as "no enrichment".
type VideoMetadataClient interface {
	Lookup(ctx context.Context, videoURL string) (*VideoMetadata, error)
}
