package main

import (
	"fmt"
	"log"
	"os"

	"github.com/recipeclip/backend/config"
	httpDelivery "github.com/recipeclip/backend/internal/delivery/http"
	"github.com/recipeclip/backend/internal/domain"
	"github.com/recipeclip/backend/internal/infrastructure/fetch"
	"github.com/recipeclip/backend/internal/infrastructure/openai"
	"github.com/recipeclip/backend/internal/infrastructure/youtube"
	"github.com/recipeclip/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting RecipeClip Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	fetcher := fetch.NewClient(cfg.Fetch.UserAgent, cfg.Fetch.Timeout)

	var completer domain.ChatCompleter
	if cfg.OpenAI.APIKey != "" {
		completer = openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
		log.Printf("AI backend configured: %s, cascade: %v", cfg.OpenAI.BaseURL, cfg.OpenAI.Models)
	} else {
		log.Printf("WARNING: No OpenAI API key configured - extraction will rely on structured data and heuristics only")
	}

	videoClient := youtube.NewClient(cfg.YouTube.APIKey, cfg.Fetch.UserAgent)
	if cfg.YouTube.APIKey != "" {
		log.Printf("YouTube Data API configured")
	} else {
		log.Printf("YouTube Data API key not set - using oEmbed and watch-page fallbacks")
	}

	// Initialize usecase layer
	extractionService := usecase.NewExtractionService(
		fetcher,
		completer,
		videoClient,
		usecase.ExtractionServiceConfig{
			Models:        cfg.OpenAI.Models,
			MaxInputChars: cfg.OpenAI.MaxInputChars,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(extractionService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
