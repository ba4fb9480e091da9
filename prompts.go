package main

import (
	"fmt"
	"strings"
)

// BuildCaseSummary formats a patient case for model consumption
func BuildCaseSummary(pc PatientCase) string {
	parts := []string{fmt.Sprintf("CHIEF COMPLAINT: %s", pc.ChiefComplaint)}

	if pc.History != "" {
		parts = append(parts, fmt.Sprintf("HISTORY: %s", pc.History))
	}

	if pc.Vitals != nil {
		var vitals []string
		if pc.Vitals.BP != "" {
			vitals = append(vitals, "BP: "+pc.Vitals.BP)
		}
		if pc.Vitals.HR != "" {
			vitals = append(vitals, "HR: "+pc.Vitals.HR)
		}
		if pc.Vitals.Temp != "" {
			vitals = append(vitals, "Temp: "+pc.Vitals.Temp)
		}
		if pc.Vitals.RR != "" {
			vitals = append(vitals, "RR: "+pc.Vitals.RR)
		}
		if pc.Vitals.SpO2 != "" {
			vitals = append(vitals, "SpO2: "+pc.Vitals.SpO2)
		}
		if len(vitals) > 0 {
			parts = append(parts, "VITALS: "+strings.Join(vitals, ", "))
		}
	}

	if len(pc.Labs) > 0 {
		parts = append(parts, "LABS:\n"+FormatLabValues(pc.Labs))
	}

	if pc.Imaging != "" {
		parts = append(parts, "IMAGING: "+pc.Imaging)
	}

	if len(pc.Medications) > 0 {
		parts = append(parts, "MEDICATIONS: "+strings.Join(pc.Medications, ", "))
	}

	if len(pc.Allergies) > 0 {
		parts = append(parts, "ALLERGIES: "+strings.Join(pc.Allergies, ", "))
	}

	if len(pc.PMH) > 0 {
		parts = append(parts, "PAST MEDICAL HISTORY: "+strings.Join(pc.PMH, ", "))
	}

	return strings.Join(parts, "\n\n")
}

// phaseInstructions keys the per-phase instruction text on the phase enum.
// The prompt is the only thing that differs between the discussion phases.
var phaseInstructions = map[DiscussionPhase]string{
	PhaseOpening: `Provide your initial impressions of this case from your specialty's perspective:
1. The findings that catch your attention
2. Your preliminary differential considerations
3. What you would want to know more about`,

	PhaseAnalysis: `Analyze the case in depth from your specialty's perspective:
1. Your detailed interpretation of the available data
2. Your ranked differential diagnoses with reasoning
3. The workup you recommend to discriminate between them`,

	PhaseDebate: `Review the prior specialists' positions carefully. Explicitly agree or disagree with them:
1. Name the points where you concur and why
2. Name the points where you disagree, with your counter-reasoning
3. If you disagree with a specific specialist, set the "defer" field to their agent id`,

	PhaseSynthesis: `Work toward a shared assessment:
1. State your final position for this case
2. Concede points where other specialists have convinced you
3. Name the single most important next action from your perspective`,
}

// structuredReplyInstruction is appended to every specialist prompt so
// responses come back machine-readable.
const structuredReplyInstruction = `Respond ONLY with a single JSON object in this exact shape:
{"content": "your clinical analysis", "confidence": 0.0-1.0, "reasoning": "one-line basis", "recommendations": ["..."], "alerts": ["..."], "defer": "agent id you disagree with, or empty string"}`

// FormatTranscript serializes messages as "[speaker] (confidence): content"
// lines, the shape fed back into prompts and into consensus building.
func FormatTranscript(messages []AgentMessage) string {
	var lines []string
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("[%s] (%.2f): %s", msg.AgentName, msg.Confidence, msg.Content))
	}
	return strings.Join(lines, "\n")
}

// recentMessages returns the last n transcript messages; prompts never
// carry the full transcript.
func recentMessages(messages []AgentMessage, n int) []AgentMessage {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}

// BuildAgentPrompt assembles one specialist's instruction for one phase,
// including the recent transcript so later speakers can respond to
// earlier ones.
func BuildAgentPrompt(def AgentDefinition, pc PatientCase, phase DiscussionPhase, transcript []AgentMessage) string {
	var b strings.Builder

	b.WriteString(BuildCaseSummary(pc))
	b.WriteString("\n\n")

	recent := recentMessages(transcript, TranscriptContextWindow)
	if len(recent) > 0 {
		b.WriteString("DISCUSSION SO FAR (most recent):\n")
		b.WriteString(FormatTranscript(recent))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("Current discussion phase: %s.\n", phase))
	b.WriteString(phaseInstructions[phase])
	b.WriteString("\n\n")
	b.WriteString(structuredReplyInstruction)

	return b.String()
}

// BuildSelectionPrompt asks the model to pick the relevant specialists
func BuildSelectionPrompt(pc PatientCase) string {
	var roster []string
	for _, def := range SelectableAgents() {
		roster = append(roster, fmt.Sprintf("- %s: %s", def.ID, def.Specialty))
	}

	return fmt.Sprintf(`You are triaging a clinical case for a multidisciplinary board.

%s

Available specialists:
%s

Pick up to %d specialist ids most relevant to this case.
Respond ONLY with a JSON array of ids, e.g. ["cardiology", "infectious"].`,
		BuildCaseSummary(pc), strings.Join(roster, "\n"), MaxPanelSize)
}

// BuildConsensusPrompt asks for the final structured synthesis of the
// whole discussion.
func BuildConsensusPrompt(pc PatientCase, transcript []AgentMessage) string {
	return fmt.Sprintf(`You are the Chief Medical Officer synthesizing a multidisciplinary case review.

%s

SPECIALIST DISCUSSION:
%s

Synthesize the discussion into a single consensus. Respond ONLY with a JSON object in this exact shape:
{
  "primaryDiagnosis": "most likely diagnosis",
  "differentialDiagnoses": [{"diagnosis": "...", "probability": 0.0-1.0, "supportingAgents": ["agent ids"]}],
  "recommendedActions": ["prioritized next steps"],
  "urgentAlerts": ["life-threatening findings, if any"],
  "disagreements": [{"topic": "...", "positions": {"agentId": "their position"}}],
  "confidence": 0.0-1.0
}
Probabilities are independent confidence estimates and need not sum to 1.`,
		BuildCaseSummary(pc), FormatTranscript(transcript))
}

// BuildBrokerPrompt frames a knowledge query for the broker role
func BuildBrokerPrompt(req BrokerQueryRequest) string {
	var b strings.Builder

	b.WriteString("Patient Context:\n")
	b.WriteString(BuildCaseSummary(req.Context))
	b.WriteString("\n\n")

	recent := recentMessages(req.ConversationHistory, TranscriptContextWindow)
	if len(recent) > 0 {
		b.WriteString("Recent Discussion:\n")
		b.WriteString(FormatTranscript(recent))
		b.WriteString("\n\n")
	}

	b.WriteString("Query: " + req.Query + "\n\n")
	b.WriteString(`Provide an evidence-based response with:
1. A direct answer to the query
2. The relevant clinical guidelines or evidence, with sources named
3. How this applies to the current case
4. Important caveats or considerations

`)
	b.WriteString(structuredReplyInstruction)

	return b.String()
}

// BuildFollowUpPrompt frames a follow-up question for the chosen specialist
func BuildFollowUpPrompt(req FollowUpRequest) string {
	var b strings.Builder

	b.WriteString("Patient Context:\n")
	b.WriteString(BuildCaseSummary(req.Context))
	b.WriteString("\n\n")

	recent := recentMessages(req.ConversationHistory, TranscriptContextWindow)
	if len(recent) > 0 {
		b.WriteString("Previous Discussion:\n")
		b.WriteString(FormatTranscript(recent))
		b.WriteString("\n\n")
	}

	b.WriteString("Follow-up Question: " + req.Question + "\n\n")
	b.WriteString("Answer within your specialty's voice, clinically specific and actionable.\n\n")
	b.WriteString(structuredReplyInstruction)

	return b.String()
}
