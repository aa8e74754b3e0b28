package domain

// ExtractedRecipe is the output contract of the extraction pipeline.
// It is constructed fresh per extraction call and handed to the client
// for review; persistence happens only on an explicit user save.
type ExtractedRecipe struct {
	Title                 string                 `json:"title,omitempty"`
	Description           string                 `json:"description,omitempty"`
	Ingredients           []string               `json:"ingredients"`
	StructuredIngredients []StructuredIngredient `json:"structuredIngredients,omitempty"`
	Instructions          []string               `json:"instructions"`
	CookTime              int                    `json:"cookTime,omitempty"` // minutes
	Servings              int                    `json:"servings,omitempty"`
	Image                 string                 `json:"image,omitempty"`
	Source                string                 `json:"source"` // "structured-data", "ai", or "heuristic"
}

// StructuredIngredient is an ingredient split into name/amount/unit fields.
// Amount keeps the original textual form ("1 1/2", "0.5"), never SI-normalized.
// Amount and Unit may both be empty; Name is never empty for a kept entry.
type StructuredIngredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// ExtractRequest is the request body for an extraction call.
type ExtractRequest struct {
	URL string `json:"url" binding:"required"`
}

// VideoMetadata is the best-effort text substitute for a hosted-video URL.
// Any field may be empty; an all-empty value means no enrichment was possible.
type VideoMetadata struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	IsShort     bool   `json:"isShort"`
}

// ChatResponse is the parsed payload of a generative-backend call.
type ChatResponse struct {
	Content string
	Model   string
}
