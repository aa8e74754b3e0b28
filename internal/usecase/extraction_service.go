package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/recipeclip/backend/internal/domain"
	"github.com/recipeclip/backend/internal/infrastructure/youtube"
)

// ExtractionServiceConfig holds configuration for the extraction service
type ExtractionServiceConfig struct {
	Models        []string
	MaxInputChars int
}

// ExtractionService sequences the pipeline: fetch, structured-data check,
// video/page text selection, AI cascade, heuristic fallback, structuring.
// The ordering is strict precision-over-recall: exact structured data beats
// AI inference beats blind heuristics, and every branch converges on the
// same output contract so the caller is branch-agnostic.
type ExtractionService struct {
	fetcher    domain.PageFetcher
	video      domain.VideoMetadataClient
	extractor  *AIExtractor
	structurer *Structurer
}

// NewExtractionService creates an extraction service with dependencies.
// completer and video may be nil; the matching stages are then skipped.
func NewExtractionService(
	fetcher domain.PageFetcher,
	completer domain.ChatCompleter,
	video domain.VideoMetadataClient,
	config ExtractionServiceConfig,
) *ExtractionService {
	structuringModel := ""
	if len(config.Models) > 0 {
		structuringModel = config.Models[0]
	}

	return &ExtractionService{
		fetcher:    fetcher,
		video:      video,
		extractor:  NewAIExtractor(completer, config.Models, config.MaxInputChars),
		structurer: NewStructurer(completer, structuringModel),
	}
}

// ExtractFromURL runs the full pipeline for one URL. Only an invalid URL or
// an unfetchable page is fatal; every other failure falls through to the
// next stage, so the caller sees success, ErrNoRecipeFound, or a fetch error.
func (s *ExtractionService) ExtractFromURL(ctx context.Context, pageURL string) (*domain.ExtractedRecipe, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, domain.ErrInvalidRequest
	}

	// Best-effort video enrichment; any failure just means no substitute text
	var videoMeta *domain.VideoMetadata
	if s.video != nil && youtube.IsVideoURL(pageURL) {
		meta, err := s.video.Lookup(ctx, pageURL)
		if err != nil {
			log.Printf("[EXTRACT] Video lookup yielded nothing for %s: %v", pageURL, err)
		} else {
			videoMeta = meta
		}
	}

	rawHTML, err := s.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	// Structured data short-circuits the lossy paths entirely
	if structured, err := ExtractStructuredData(rawHTML); err == nil {
		log.Printf("[EXTRACT] Structured data hit for %s: %d ingredients, %d instructions",
			pageURL, len(structured.Ingredients), len(structured.Instructions))
		recipe := &domain.ExtractedRecipe{
			Title:        structured.Title,
			Description:  structured.Description,
			Ingredients:  structured.Ingredients,
			Instructions: structured.Instructions,
			CookTime:     structured.CookTime,
			Servings:     structured.Servings,
			Image:        structured.Image,
			Source:       "structured-data",
		}
		return s.finish(ctx, recipe, videoMeta), nil
	}

	// Choose input text: resolved video description, else normalized page text
	var text string
	if videoMeta != nil && strings.TrimSpace(videoMeta.Description) != "" {
		text = videoMeta.Title + "\n\n" + videoMeta.Description
	} else {
		text = NormalizeHTML(rawHTML)
	}

	recipe, err := s.extractor.Extract(ctx, text)
	if err != nil {
		if errors.Is(err, domain.ErrNoRecipeFound) {
			return nil, err
		}
		// Backend unavailable or every cascade entry failed: heuristics.
		// Even zero heuristic yield is a success with empty arrays.
		parsed := ParseHeuristic(text)
		recipe = &domain.ExtractedRecipe{
			Title:        parsed.Title,
			Ingredients:  parsed.Ingredients,
			Instructions: parsed.Instructions,
			Servings:     1,
			Source:       "heuristic",
		}
	}

	return s.finish(ctx, recipe, videoMeta), nil
}

// finish runs ingredient structuring over whichever flat list the branch
// produced and layers optional video enrichment onto empty fields.
// The list fields always serialize as arrays, never null, so nil lists
// from any branch are normalized here.
func (s *ExtractionService) finish(ctx context.Context, recipe *domain.ExtractedRecipe, videoMeta *domain.VideoMetadata) *domain.ExtractedRecipe {
	if recipe.Ingredients == nil {
		recipe.Ingredients = []string{}
	}
	if recipe.Instructions == nil {
		recipe.Instructions = []string{}
	}
	recipe.StructuredIngredients = s.structurer.Structure(ctx, recipe.Ingredients)

	if videoMeta != nil {
		if recipe.Title == "" {
			recipe.Title = videoMeta.Title
		}
		if recipe.Image == "" {
			recipe.Image = videoMeta.Thumbnail
		}
	}
	if recipe.Servings <= 0 {
		recipe.Servings = 1
	}
	return recipe
}
