package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmitFunc delivers one discussion event to the caller, in order. It
// reports whether the caller is still listening; once it returns false the
// discussion stops scheduling further model calls. An in-flight call is
// allowed to complete and its result is discarded.
type EmitFunc func(TeamDiscussionEvent) bool

// discussionPhases are the phases in which selected specialists speak,
// in order. Agents within a phase run strictly sequentially: each prompt
// carries the earlier speakers' output, so later agents can debate them.
var discussionPhases = []DiscussionPhase{
	PhaseOpening,
	PhaseAnalysis,
	PhaseDebate,
	PhaseSynthesis,
}

// phaseAnnouncements is the human-readable message attached to each
// phase_change event.
var phaseAnnouncements = map[DiscussionPhase]string{
	PhaseTriage:    "Analyzing case and identifying specialists...",
	PhaseOpening:   "Specialists providing initial impressions...",
	PhaseAnalysis:  "Specialists analyzing in detail...",
	PhaseDebate:    "Specialists debating points of disagreement...",
	PhaseSynthesis: "Specialists converging on a shared assessment...",
	PhaseConsensus: "Building interdisciplinary consensus...",
	PhaseClosing:   "Discussion complete",
}

// Discussion is one board run. Each run is independent: no state is shared
// between concurrent discussions beyond the read-only agent catalog.
type Discussion struct {
	ID         string
	Case       PatientCase
	Urgency    string
	Panel      []string
	Transcript []AgentMessage

	emit EmitFunc
}

// RunDiscussion drives a discussion from triage through closing, emitting
// the ordered event stream. It returns when the discussion finishes, fails
// terminally, or the caller stops listening.
func RunDiscussion(ctx context.Context, req TeamDiscussionRequest, emit EmitFunc) {
	urgency := req.Urgency
	if urgency == "" {
		urgency = "routine"
	}

	d := &Discussion{
		ID:      uuid.New().String(),
		Case:    req.Case,
		Urgency: urgency,
		emit:    emit,
	}

	// Phase 1: triage
	if !d.emitEvent(EventPhaseChange, map[string]interface{}{
		"phase":   PhaseTriage,
		"message": phaseAnnouncements[PhaseTriage],
	}) {
		return
	}

	d.deriveLabs()

	if ctx.Err() != nil {
		return
	}

	// Model-assisted selection with heuristic fallback; a selection failure
	// is never surfaced to the caller.
	d.Panel = SelectAgents(ctx, d.Case, req.ExcludeAgents)

	// Phases 2-5: the specialists speak
	for _, phase := range discussionPhases {
		data := map[string]interface{}{
			"phase":   phase,
			"message": phaseAnnouncements[phase],
		}
		if phase == PhaseOpening {
			// Triage outcome rides on the first speaking phase's
			// announcement: the selected panel and initial assessment.
			data["relevantAgents"] = d.Panel
			data["urgencyLevel"] = d.Urgency
			data["keyFindings"] = d.keyFindings()
			data["initialAssessment"] = d.initialAssessment()
		}
		if !d.emitEvent(EventPhaseChange, data) {
			return
		}

		if !d.runPhase(ctx, phase) {
			return
		}
	}

	// Phase 6: consensus
	if !d.emitEvent(EventPhaseChange, map[string]interface{}{
		"phase":   PhaseConsensus,
		"message": phaseAnnouncements[PhaseConsensus],
	}) {
		return
	}
	if !d.emitEvent(EventConsensusBuilding, map[string]interface{}{"progress": 50}) {
		return
	}

	result, err := BuildConsensus(ctx, d.Case, d.Transcript)
	if err != nil {
		// Terminal: the stream ends without consensus_complete.
		if ctx.Err() == nil {
			d.emitEvent(EventError, map[string]interface{}{
				"phase":   PhaseConsensus,
				"message": fmt.Sprintf("Failed to build consensus: %v", err),
			})
		}
		return
	}

	if !d.emitEvent(EventConsensusBuilding, map[string]interface{}{"progress": 100}) {
		return
	}
	if !d.emitEvent(EventConsensusComplete, map[string]interface{}{"consensus": result}) {
		return
	}

	// Phase 7: closing
	d.emitEvent(EventPhaseChange, map[string]interface{}{
		"phase":           PhaseClosing,
		"message":         phaseAnnouncements[PhaseClosing],
		"totalMessages":   len(d.Transcript),
		"agentsConsulted": d.Panel,
	})
}

// runPhase walks the panel in selection order for one phase. Reports false
// when the caller stopped listening or the context was cancelled.
func (d *Discussion) runPhase(ctx context.Context, phase DiscussionPhase) bool {
	for _, agentID := range d.Panel {
		def, ok := GetAgent(agentID)
		if !ok {
			continue
		}

		if ctx.Err() != nil {
			return false
		}

		if !d.emitEvent(EventAgentThinking, map[string]interface{}{
			"agentId":   def.ID,
			"agentName": def.Name,
		}) {
			return false
		}

		resp, err := d.askAgent(ctx, def, phase)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			// One specialist failing never aborts the discussion: emit a
			// scoped error, record no message, continue with the rest.
			log.Printf("Agent %s failed in phase %s: %v", def.ID, phase, err)
			if !d.emitEvent(EventError, map[string]interface{}{
				"agentId": def.ID,
				"phase":   phase,
				"message": fmt.Sprintf("%s is unavailable for this phase", def.Name),
			}) {
				return false
			}
			continue
		}

		msg := AgentMessage{
			ID:         uuid.New().String(),
			AgentID:    def.ID,
			AgentName:  def.Name,
			Content:    resp.Content,
			Phase:      phase,
			Timestamp:  nowMillis(),
			Confidence: resp.Confidence,
			Reasoning:  resp.Reasoning,
		}

		// Conflict detection is model-reported: an agent disagreeing sets
		// "defer" to the prior speaker's id. No local text diffing.
		conflictIdx := -1
		if resp.Defer != "" && !strings.EqualFold(resp.Defer, def.ID) {
			conflictIdx = d.latestMessageFrom(resp.Defer)
		}
		if conflictIdx >= 0 {
			d.Transcript[conflictIdx].IsConflict = true
			d.Transcript[conflictIdx].ConflictWith = def.ID
			msg.IsConflict = true
			msg.ConflictWith = d.Transcript[conflictIdx].AgentID
		}

		d.Transcript = append(d.Transcript, msg)

		if !d.emitEvent(EventAgentMessage, map[string]interface{}{
			"message":         msg,
			"alerts":          orEmpty(resp.Alerts),
			"recommendations": orEmpty(resp.Recommendations),
		}) {
			return false
		}

		if conflictIdx >= 0 {
			if !d.emitEvent(EventConflictDetected, map[string]interface{}{
				"agentId":      def.ID,
				"conflictWith": d.Transcript[conflictIdx].AgentID,
				"phase":        phase,
				"messageId":    msg.ID,
			}) {
				return false
			}
		}
	}

	return true
}

// askAgent runs one specialist's model call for one phase
func (d *Discussion) askAgent(ctx context.Context, def AgentDefinition, phase DiscussionPhase) (AgentResponse, error) {
	prompt := BuildAgentPrompt(def, d.Case, phase, d.Transcript)

	text, err := GenerateWithRole(ctx, def.RolePrompt, prompt, GenerateOptions{
		Temperature: 0.7,
		MaxTokens:   1200,
	})
	if err != nil {
		return AgentResponse{}, err
	}

	return ParseAgentResponse(text), nil
}

// deriveLabs extracts lab values mentioned in the case free text and
// merges them into the discussion's derived case copy. The caller's case
// object is never mutated; the merged slice is discussion-scoped.
func (d *Discussion) deriveLabs() {
	freeText := strings.Join([]string{d.Case.ChiefComplaint, d.Case.History, d.Case.Imaging}, " ")
	parsed := ParseLabValues(freeText)

	known := make(map[string]bool, len(d.Case.Labs))
	for _, lab := range d.Case.Labs {
		known[strings.ToLower(lab.Name)] = true
	}

	var added []LabValue
	for _, lab := range parsed {
		if !known[strings.ToLower(lab.Name)] {
			added = append(added, lab)
		}
	}
	if len(added) == 0 {
		return
	}

	merged := make([]LabValue, 0, len(d.Case.Labs)+len(added))
	merged = append(merged, d.Case.Labs...)
	merged = append(merged, added...)
	d.Case.Labs = merged

	d.emitEvent(EventLabParsed, map[string]interface{}{"labs": added})
}

// keyFindings lists the abnormal labs worth surfacing in the triage outcome
func (d *Discussion) keyFindings() []string {
	findings := []string{}
	for _, lab := range d.Case.Labs {
		if lab.Status == "critical" || lab.Status == "high" || lab.Status == "low" {
			findings = append(findings, fmt.Sprintf("%s %s %s (%s)", lab.Name, lab.Value, lab.Unit, lab.Status))
		}
	}
	return findings
}

// initialAssessment summarizes the triage outcome for the caller
func (d *Discussion) initialAssessment() string {
	names := make([]string, 0, len(d.Panel))
	for _, id := range d.Panel {
		if def, ok := GetAgent(id); ok {
			names = append(names, def.Specialty)
		}
	}
	return fmt.Sprintf("Consulting %s for a %s case.", strings.Join(names, ", "), d.Urgency)
}

// latestMessageFrom finds the most recent transcript message authored by
// the referenced agent (id or name, case-insensitive). Returns -1 when the
// reference matches nothing.
func (d *Discussion) latestMessageFrom(ref string) int {
	for i := len(d.Transcript) - 1; i >= 0; i-- {
		if strings.EqualFold(d.Transcript[i].AgentID, ref) || strings.EqualFold(d.Transcript[i].AgentName, ref) {
			return i
		}
	}
	return -1
}

// emitEvent wraps a payload in a timestamped event and pushes it to the
// caller, reporting whether the caller is still listening.
func (d *Discussion) emitEvent(eventType string, data interface{}) bool {
	return d.emit(TeamDiscussionEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: nowMillis(),
	})
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
