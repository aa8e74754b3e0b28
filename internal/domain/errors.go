package domain

import "errors"

var (
	// ErrInvalidRequest is returned when the caller supplied no URL or a malformed one
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrPageFetch is returned when the target page is unreachable or non-2xx.
	// Fatal for the whole extraction: with no page text there is no fallback.
	ErrPageFetch = errors.New("failed to fetch page")

	// ErrBackendUnavailable is returned when no AI backend is configured.
	// Not fatal; the pipeline falls through to the heuristic parser.
	ErrBackendUnavailable = errors.New("AI backend not configured")

	// ErrBackendFailure is returned when an AI call errored or returned
	// unparsable content. Cascades to the next model, then to the heuristic.
	ErrBackendFailure = errors.New("AI backend request failed")

	// ErrQuotaExceeded is returned when the backend reports exhausted quota.
	// Triggers an immediate skip to the next cascade entry, never a retry.
	ErrQuotaExceeded = errors.New("AI backend quota exceeded")

	// ErrRateLimited is returned when a rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNoRecipeFound is returned when the backend explicitly reports that
	// the page contains no recipe. A content decision, not a transport failure.
	ErrNoRecipeFound = errors.New("no recipe found")

	// ErrNoVideoMetadata is returned when video metadata lookup yields nothing usable
	ErrNoVideoMetadata = errors.New("no video metadata available")

	// ErrNoStructuredData is returned when a page carries no usable JSON-LD recipe
	ErrNoStructuredData = errors.New("no structured recipe data found")
)
