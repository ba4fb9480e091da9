//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Simple test program to verify the model gateway works
// Run with: go run test_gateway_client.go config.go models.go gateway.go
func main() {
	fmt.Println("=== Model Gateway Test ===\n")

	// Load .env from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Get API keys
	PrimaryAPIKey = os.Getenv("PRIMARY_API_KEY")
	if PrimaryAPIKey == "" {
		PrimaryAPIKey = os.Getenv("CEREBRAS_API_KEY")
	}
	if PrimaryAPIKey == "" {
		log.Fatal("PRIMARY_API_KEY environment variable is required")
	}
	FallbackAPIKey = os.Getenv("FALLBACK_API_KEY")
	if FallbackAPIKey == "" {
		FallbackAPIKey = os.Getenv("OPENROUTER_API_KEY")
	}

	ctx := context.Background()

	// Test 1: Plain generation
	fmt.Println("Test 1: Plain generation...")
	start := time.Now()
	text, err := Generate(ctx, "Say hello in exactly 5 words.", GenerateOptions{Temperature: 0.7, MaxTokens: 50})
	elapsed := time.Since(start)

	if err != nil {
		log.Fatalf("❌ Generation failed: %v", err)
	}

	fmt.Printf("✅ Success! (%.2fs)\n", elapsed.Seconds())
	fmt.Printf("Response: %s\n\n", text)

	// Test 2: Structured generation
	fmt.Println("Test 2: Structured generation...")
	start = time.Now()
	text, err = Generate(ctx, `Respond ONLY with a JSON object: {"content": "a one-line greeting", "confidence": 0.9}`, GenerateOptions{Temperature: 0.3, MaxTokens: 100})
	elapsed = time.Since(start)

	if err != nil {
		log.Fatalf("❌ Structured generation failed: %v", err)
	}

	resp, ok := TryParseStructured[AgentResponse](text)
	if !ok {
		log.Fatalf("❌ Could not parse structured response from: %s", text)
	}

	fmt.Printf("✅ Success! (%.2fs)\n", elapsed.Seconds())
	fmt.Printf("Parsed content: %s (confidence %.2f)\n", resp.Content, resp.Confidence)

	fmt.Println("\n=== Test Complete ===")
}
