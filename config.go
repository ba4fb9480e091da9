package main

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Configuration constants
var (
	// PrimaryAPIKey is the API key for the primary inference provider
	PrimaryAPIKey string

	// PrimaryAPIURL is the chat-completions endpoint of the primary provider
	PrimaryAPIURL = "https://api.cerebras.ai/v1/chat/completions"

	// PrimaryModel is the model used for all discussion calls by default
	PrimaryModel = "llama-3.3-70b"

	// FallbackAPIKey is the API key for the fallback provider (optional)
	FallbackAPIKey string

	// FallbackAPIURL is the chat-completions endpoint of the fallback provider
	FallbackAPIURL = "https://openrouter.ai/api/v1/chat/completions"

	// FallbackModel is the model used when the primary provider fails
	FallbackModel = "google/gemini-2.5-flash"

	// Timeout constants
	ModelCallTimeout      = 60 * time.Second
	ReferenceFetchTimeout = 30 * time.Second

	// MaxPanelSize caps how many specialists join a single discussion
	MaxPanelSize = 5

	// TranscriptContextWindow bounds how many prior messages are included
	// in each agent prompt. The full transcript is never sent.
	TranscriptContextWindow = 6

	// CORS allowed origins (configurable via environment)
	// In development (empty/default), allows any localhost port
	// In production, set CORS_ALLOWED_ORIGINS environment variable
	CORSAllowedOrigins = []string{}

	// MaxRequestBodySize is the maximum allowed request body size (1MB)
	MaxRequestBodySize int64 = 1 << 20

	// ReferenceCacheTTL is the time-to-live for fetched reference content
	ReferenceCacheTTL = 5 * time.Minute
)

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Load .env file - try multiple locations
	envLocations := []string{
		".env",    // Current directory
		"../.env", // Parent directory
	}

	envLoaded := false
	for _, envPath := range envLocations {
		absPath, err := filepath.Abs(envPath)
		if err != nil {
			continue
		}

		if _, err := os.Stat(absPath); err == nil {
			if err := godotenv.Load(absPath); err == nil {
				log.Printf("Loaded .env from: %s", absPath)
				envLoaded = true
				break
			}
		}
	}

	if !envLoaded {
		log.Printf("Warning: .env file not found in any expected location")
	}

	// Primary provider key is required; CEREBRAS_API_KEY kept as an alias
	PrimaryAPIKey = os.Getenv("PRIMARY_API_KEY")
	if PrimaryAPIKey == "" {
		PrimaryAPIKey = os.Getenv("CEREBRAS_API_KEY")
	}
	if PrimaryAPIKey == "" {
		log.Fatal("PRIMARY_API_KEY (or CEREBRAS_API_KEY) environment variable is required")
	}

	// Fallback provider is optional; without it a primary failure is final
	FallbackAPIKey = os.Getenv("FALLBACK_API_KEY")
	if FallbackAPIKey == "" {
		FallbackAPIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if FallbackAPIKey == "" {
		log.Printf("Warning: no fallback provider key configured, running primary-only")
	}

	if v := os.Getenv("PRIMARY_API_URL"); v != "" {
		PrimaryAPIURL = v
	}
	if v := os.Getenv("PRIMARY_MODEL"); v != "" {
		PrimaryModel = v
	}
	if v := os.Getenv("FALLBACK_API_URL"); v != "" {
		FallbackAPIURL = v
	}
	if v := os.Getenv("FALLBACK_MODEL"); v != "" {
		FallbackModel = v
	}

	if v := os.Getenv("MAX_PANEL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			MaxPanelSize = n
		} else {
			log.Printf("Warning: ignoring invalid MAX_PANEL_SIZE=%q", v)
		}
	}

	// Load CORS origins from environment if provided
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		CORSAllowedOrigins = []string{}
		for _, origin := range filepath.SplitList(corsOrigins) {
			if origin != "" {
				CORSAllowedOrigins = append(CORSAllowedOrigins, origin)
			}
		}
	}

	log.Println("Configuration loaded successfully")
}
