package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AnswerBrokerQuery answers a free-form knowledge question in the broker
// role: cited, educational content rather than a diagnostic opinion. It is
// stateless with respect to any running discussion and never touches a
// discussion's phase or transcript.
func AnswerBrokerQuery(ctx context.Context, req BrokerQueryRequest) (SideChannelResponse, error) {
	def, _ := GetAgent("broker")

	text, err := GenerateWithRole(ctx, def.RolePrompt, BuildBrokerPrompt(req), GenerateOptions{
		Temperature: 0.4,
		MaxTokens:   1500,
	})
	if err != nil {
		return SideChannelResponse{}, fmt.Errorf("broker query failed: %w", err)
	}

	resp := ParseAgentResponse(text)
	return sideChannelResponse(def, resp), nil
}

// AnswerFollowUp answers a follow-up question in the voice of the most
// appropriate specialist. The caller may pin a target agent; otherwise the
// keyword heuristic is scored against the question text alone.
func AnswerFollowUp(ctx context.Context, req FollowUpRequest) (SideChannelResponse, error) {
	def := pickFollowUpAgent(req)

	text, err := GenerateWithRole(ctx, def.RolePrompt, BuildFollowUpPrompt(req), GenerateOptions{
		Temperature: 0.5,
		MaxTokens:   1500,
	})
	if err != nil {
		return SideChannelResponse{}, fmt.Errorf("follow-up failed: %w", err)
	}

	resp := ParseAgentResponse(text)
	return sideChannelResponse(def, resp), nil
}

// pickFollowUpAgent resolves which specialist answers a follow-up
func pickFollowUpAgent(req FollowUpRequest) AgentDefinition {
	if req.TargetAgent != "" {
		if def, ok := GetAgent(strings.ToLower(req.TargetAgent)); ok && def.Tier != TierCoordination {
			return def
		}
	}

	if ids := ScoreAgents(req.Question); len(ids) > 0 {
		if def, ok := GetAgent(ids[0]); ok {
			return def
		}
	}

	// Nothing matched the question text; the orchestrator answers generically
	def, _ := GetAgent("orchestrator")
	return def
}

func sideChannelResponse(def AgentDefinition, resp AgentResponse) SideChannelResponse {
	return SideChannelResponse{
		Success: true,
		Message: AgentMessage{
			ID:         uuid.New().String(),
			AgentID:    def.ID,
			AgentName:  def.Name,
			Content:    resp.Content,
			Phase:      PhaseAnalysis,
			Timestamp:  nowMillis(),
			Confidence: resp.Confidence,
			Reasoning:  resp.Reasoning,
		},
		Alerts:          orEmpty(resp.Alerts),
		Recommendations: orEmpty(resp.Recommendations),
	}
}
