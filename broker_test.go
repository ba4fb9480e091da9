package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnswerBrokerQuery(t *testing.T) {
	server := httptest.NewServer(CreateMockProviderHandler(t,
		StructuredAgentReply("Per Surviving Sepsis, antibiotics within one hour of recognition.", 0.9, "")))
	defer server.Close()
	UseMockProvider(t, server)

	resp, err := AnswerBrokerQuery(context.Background(), BrokerQueryRequest{
		Query:               "What is the recommended antibiotic timing in septic shock?",
		Context:             SamplePatientCase(),
		ConversationHistory: SampleTranscript(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !resp.Success {
		t.Error("expected success")
	}
	if resp.Message.AgentID != "broker" {
		t.Errorf("agent: got %q, want broker", resp.Message.AgentID)
	}
	if resp.Message.ID == "" {
		t.Error("message id not set")
	}
	if resp.Message.Content == "" {
		t.Error("empty content")
	}
	if resp.Alerts == nil || resp.Recommendations == nil {
		t.Error("alerts and recommendations must be non-nil slices")
	}
}

func TestAnswerBrokerQueryProviderFailure(t *testing.T) {
	server := httptest.NewServer(CreateMockProviderErrorHandler(http.StatusServiceUnavailable, "down"))
	defer server.Close()
	UseMockProvider(t, server)

	_, err := AnswerBrokerQuery(context.Background(), BrokerQueryRequest{
		Query:   "Any question",
		Context: SamplePatientCase(),
	})
	if err == nil {
		t.Fatal("expected error when provider is down")
	}
}

func TestAnswerFollowUpRoutesBySpecialty(t *testing.T) {
	server := httptest.NewServer(CreateMockProviderHandler(t,
		StructuredAgentReply("Serial troponins and an urgent echo.", 0.85, "")))
	defer server.Close()
	UseMockProvider(t, server)

	resp, err := AnswerFollowUp(context.Background(), FollowUpRequest{
		Question:            "Should we trend the troponin given the chest pain?",
		Context:             SamplePatientCase(),
		ConversationHistory: SampleTranscript(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Message.AgentID != "cardiology" {
		t.Errorf("agent: got %q, want cardiology via keyword routing", resp.Message.AgentID)
	}
}

func TestAnswerFollowUpHonorsTargetAgent(t *testing.T) {
	server := httptest.NewServer(CreateMockProviderHandler(t,
		StructuredAgentReply("Renal dosing applies here.", 0.8, "")))
	defer server.Close()
	UseMockProvider(t, server)

	resp, err := AnswerFollowUp(context.Background(), FollowUpRequest{
		Question:    "Should we trend the troponin?",
		Context:     SamplePatientCase(),
		TargetAgent: "Nephrology",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Message.AgentID != "nephrology" {
		t.Errorf("agent: got %q, want pinned nephrology", resp.Message.AgentID)
	}
}

func TestPickFollowUpAgent(t *testing.T) {
	tests := []struct {
		name string
		req  FollowUpRequest
		want string
	}{
		{
			name: "valid target agent wins",
			req:  FollowUpRequest{Question: "chest pain?", TargetAgent: "hematology"},
			want: "hematology",
		},
		{
			name: "coordination target is ignored",
			req:  FollowUpRequest{Question: "troponin trend?", TargetAgent: "broker"},
			want: "cardiology",
		},
		{
			name: "unknown target falls through to keywords",
			req:  FollowUpRequest{Question: "wheezing and low spo2", TargetAgent: "surgery"},
			want: "pulmonology",
		},
		{
			name: "nothing matches falls back to orchestrator",
			req:  FollowUpRequest{Question: "what happens next?"},
			want: "orchestrator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickFollowUpAgent(tt.req); got.ID != tt.want {
				t.Errorf("got %q, want %q", got.ID, tt.want)
			}
		})
	}
}
