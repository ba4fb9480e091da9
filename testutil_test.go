package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestHelper provides utilities for tests
type TestHelper struct {
	t *testing.T
}

// NewTestHelper creates a new test helper
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, message string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", message, got, want)
	}
}

// AssertNoError checks if an error is nil
func (h *TestHelper) AssertNoError(err error, message string) {
	if err != nil {
		h.t.Errorf("%s: unexpected error: %v", message, err)
	}
}

// AssertError checks if an error is not nil
func (h *TestHelper) AssertError(err error, message string) {
	if err == nil {
		h.t.Errorf("%s: expected error, got nil", message)
	}
}

// UseMockProvider points the primary provider at a mock server, disables the
// fallback, and restores the original configuration when the test ends.
func UseMockProvider(t *testing.T, server *httptest.Server) {
	origURL, origKey, origFallbackKey := PrimaryAPIURL, PrimaryAPIKey, FallbackAPIKey
	PrimaryAPIURL = server.URL
	PrimaryAPIKey = "test-key"
	FallbackAPIKey = ""

	t.Cleanup(func() {
		PrimaryAPIURL, PrimaryAPIKey, FallbackAPIKey = origURL, origKey, origFallbackKey
	})
}

// UseMockProviders points both providers at mock servers and restores the
// original configuration when the test ends.
func UseMockProviders(t *testing.T, primary, fallback *httptest.Server) {
	origPURL, origPKey := PrimaryAPIURL, PrimaryAPIKey
	origFURL, origFKey := FallbackAPIURL, FallbackAPIKey
	PrimaryAPIURL = primary.URL
	PrimaryAPIKey = "test-key"
	FallbackAPIURL = fallback.URL
	FallbackAPIKey = "test-fallback-key"

	t.Cleanup(func() {
		PrimaryAPIURL, PrimaryAPIKey = origPURL, origPKey
		FallbackAPIURL, FallbackAPIKey = origFURL, origFKey
	})
}

// CreateMockProviderHandler creates a handler that returns the given text as
// the model's reply
func CreateMockProviderHandler(t *testing.T, response string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Verify headers
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		if r.Header.Get("Authorization") == "" {
			t.Errorf("Missing Authorization header")
		}

		writeMockReply(w, response)
	}
}

// CreateMockProviderErrorHandler creates a handler that returns errors
func CreateMockProviderErrorHandler(statusCode int, errorMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write([]byte(errorMsg))
	}
}

// decodeBody unmarshals a request body for mock-server assertions
func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeMockReply writes a chat-completions response carrying the given text
func writeMockReply(w http.ResponseWriter, text string) {
	var apiResponse chatAPIResponse
	apiResponse.Choices = make([]struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}, 1)
	apiResponse.Choices[0].Message.Content = text

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(apiResponse)
}

// StructuredAgentReply serializes an agent-shaped JSON reply for mock servers
func StructuredAgentReply(content string, confidence float64, deferTo string) string {
	reply := AgentResponse{
		Content:         content,
		Confidence:      confidence,
		Reasoning:       "test reasoning",
		Recommendations: []string{"test recommendation"},
		Alerts:          []string{},
		Defer:           deferTo,
	}
	data, _ := json.Marshal(reply)
	return string(data)
}

// SamplePatientCase creates a sample case for testing
func SamplePatientCase() PatientCase {
	return PatientCase{
		ChiefComplaint: "Chest pain and shortness of breath for 2 hours",
		History:        "58-year-old with hypertension and diabetes. Troponin: 0.8, WBC: 22000, Lactate: 4.2",
		Vitals: &Vitals{
			BP:   "88/54",
			HR:   "121",
			Temp: "38.9",
			SpO2: "91%",
		},
		Medications: []string{"metformin", "lisinopril"},
		PMH:         []string{"hypertension", "type 2 diabetes"},
	}
}

// SampleTranscript creates a short transcript for testing
func SampleTranscript() []AgentMessage {
	return []AgentMessage{
		{
			ID:         "msg-1",
			AgentID:    "cardiology",
			AgentName:  "Dr. Chen (Cardiology)",
			Content:    "Elevated troponin with hypotension suggests acute coronary syndrome with cardiogenic shock.",
			Phase:      PhaseOpening,
			Timestamp:  1700000000000,
			Confidence: 0.85,
		},
		{
			ID:         "msg-2",
			AgentID:    "infectious",
			AgentName:  "Dr. Okafor (Infectious Disease)",
			Content:    "Fever, leukocytosis and lactate 4.2 point to septic shock; troponin may be demand ischemia.",
			Phase:      PhaseOpening,
			Timestamp:  1700000001000,
			Confidence: 0.8,
		},
	}
}

// collectEvents runs a discussion and gathers every emitted event
func collectEvents(t *testing.T, req TeamDiscussionRequest) []TeamDiscussionEvent {
	t.Helper()

	var events []TeamDiscussionEvent
	RunDiscussion(context.Background(), req, func(event TeamDiscussionEvent) bool {
		events = append(events, event)
		return true
	})
	return events
}

// eventTypes extracts the type sequence from an event slice
func eventTypes(events []TeamDiscussionEvent) []string {
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

// eventData asserts the event's Data is the map emitters produce
func eventData(t *testing.T, event TeamDiscussionEvent) map[string]interface{} {
	t.Helper()

	data, ok := event.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("event %s: Data is %T, want map", event.Type, event.Data)
	}
	return data
}

// formatEvents renders an event type sequence for failure messages
func formatEvents(events []TeamDiscussionEvent) string {
	return fmt.Sprintf("%v", eventTypes(events))
}
