package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ChatMessage represents a message for a chat-completions API
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest represents a request to a chat-completions API
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// chatAPIResponse represents the provider response structure
type chatAPIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateOptions tunes a single generation call
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// QueryProvider queries one chat-completions provider with the given timeout.
// Returns the generated text or an error if the request fails.
func QueryProvider(ctx context.Context, apiURL, apiKey, model string, messages []ChatMessage, opts GenerateOptions, timeout time.Duration) (string, error) {
	client := &http.Client{
		Timeout: timeout,
	}

	payload := chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResponse chatAPIResponse
	if err := json.Unmarshal(bodyBytes, &apiResponse); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return apiResponse.Choices[0].Message.Content, nil
}

// Generate asks the model gateway for text. The primary provider is tried
// first; on any error the fallback provider (when configured) takes over.
// The provider policy is process-wide configuration, not per-discussion state.
func Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	return GenerateWithRole(ctx, "", prompt, opts)
}

// GenerateWithRole is Generate with an optional system prompt carrying the
// specialist role.
func GenerateWithRole(ctx context.Context, systemPrompt, prompt string, opts GenerateOptions) (string, error) {
	var messages []ChatMessage
	if systemPrompt != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: prompt})

	text, primaryErr := QueryProvider(ctx, PrimaryAPIURL, PrimaryAPIKey, PrimaryModel, messages, opts, ModelCallTimeout)
	if primaryErr == nil {
		return text, nil
	}

	if FallbackAPIKey == "" {
		return "", fmt.Errorf("primary provider failed: %w", primaryErr)
	}

	log.Printf("Primary provider failed, trying fallback: %v", primaryErr)
	text, fallbackErr := QueryProvider(ctx, FallbackAPIURL, FallbackAPIKey, FallbackModel, messages, opts, ModelCallTimeout)
	if fallbackErr != nil {
		return "", fmt.Errorf("primary provider failed (%v); fallback provider failed: %w", primaryErr, fallbackErr)
	}

	return text, nil
}

// TryParseStructured extracts the first well-formed JSON value of type T
// from otherwise-noisy model output (prose, markdown fencing). Returns the
// zero value and false when nothing parses; call sites must supply their
// own fallback — parse failure never propagates as an error.
func TryParseStructured[T any](text string) (T, bool) {
	var zero T
	for _, candidate := range jsonCandidates(text) {
		var v T
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v, true
		}
	}
	return zero, false
}

// jsonCandidates returns the balanced top-level JSON objects and arrays
// found in text, in order of appearance.
func jsonCandidates(text string) []string {
	var candidates []string
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '{' && c != '[' {
			continue
		}
		if end := matchBalanced(text, i); end > i {
			candidates = append(candidates, text[i:end+1])
			i = end
		}
	}
	return candidates
}

// matchBalanced returns the index of the bracket closing the JSON value
// opening at start, honoring string literals and escapes. Returns -1 when
// the value never closes.
func matchBalanced(text string, start int) int {
	depth := 0
	inString := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParseAgentResponse decodes a specialist reply. When the model ignored the
// JSON instruction, the raw text becomes the content with a default
// confidence so a usable message always results.
func ParseAgentResponse(text string) AgentResponse {
	if resp, ok := TryParseStructured[AgentResponse](text); ok && resp.Content != "" {
		if resp.Confidence < 0 {
			resp.Confidence = 0
		}
		if resp.Confidence > 1 {
			resp.Confidence = 1
		}
		return resp
	}
	return AgentResponse{
		Content:    strings.TrimSpace(text),
		Confidence: 0.75,
	}
}
