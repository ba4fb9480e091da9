package main

// DiscussionPhase is one stage of the board's state machine.
// Phases only move forward; a discussion may end early but never revisits
// an earlier phase.
type DiscussionPhase string

const (
	PhaseTriage    DiscussionPhase = "triage"
	PhaseOpening   DiscussionPhase = "opening"
	PhaseAnalysis  DiscussionPhase = "analysis"
	PhaseDebate    DiscussionPhase = "debate"
	PhaseSynthesis DiscussionPhase = "synthesis"
	PhaseConsensus DiscussionPhase = "consensus"
	PhaseClosing   DiscussionPhase = "closing"
)

// PhaseOrder lists all phases in execution order.
var PhaseOrder = []DiscussionPhase{
	PhaseTriage,
	PhaseOpening,
	PhaseAnalysis,
	PhaseDebate,
	PhaseSynthesis,
	PhaseConsensus,
	PhaseClosing,
}

// PhaseRank returns the position of a phase in the discussion order,
// or -1 for an unknown phase.
func PhaseRank(p DiscussionPhase) int {
	for i, phase := range PhaseOrder {
		if phase == p {
			return i
		}
	}
	return -1
}

// Event type constants for the discussion stream
const (
	EventPhaseChange       = "phase_change"
	EventAgentThinking     = "agent_thinking"
	EventAgentMessage      = "agent_message"
	EventConflictDetected  = "conflict_detected"
	EventConsensusBuilding = "consensus_building"
	EventConsensusComplete = "consensus_complete"
	EventLabParsed         = "lab_parsed"
	EventError             = "error"
)

// LabValue represents a single named lab measurement
type LabValue struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Unit   string `json:"unit"`
	Status string `json:"status"` // normal, low, high, critical
}

// Vitals represents the patient's vital signs
type Vitals struct {
	BP   string `json:"bp,omitempty"`
	HR   string `json:"hr,omitempty"`
	Temp string `json:"temp,omitempty"`
	RR   string `json:"rr,omitempty"`
	SpO2 string `json:"spo2,omitempty"`
}

// PatientCase is the structured input case. The board only reads it;
// derived copies (e.g. parsed labs) are discussion-scoped.
type PatientCase struct {
	ChiefComplaint string     `json:"chiefComplaint"`
	History        string     `json:"history,omitempty"`
	Vitals         *Vitals    `json:"vitals,omitempty"`
	Labs           []LabValue `json:"labs,omitempty"`
	Imaging        string     `json:"imaging,omitempty"`
	Medications    []string   `json:"medications,omitempty"`
	Allergies      []string   `json:"allergies,omitempty"`
	PMH            []string   `json:"pmh,omitempty"`
}

// AgentMessage is one specialist contribution to the transcript.
// Immutable once appended, except for conflict markers set when a later
// speaker explicitly disagrees.
type AgentMessage struct {
	ID           string          `json:"id"`
	AgentID      string          `json:"agentId"`
	AgentName    string          `json:"agentName"`
	Content      string          `json:"content"`
	Phase        DiscussionPhase `json:"phase"`
	Timestamp    int64           `json:"timestamp"`
	Confidence   float64         `json:"confidence,omitempty"`
	IsConflict   bool            `json:"isConflict,omitempty"`
	ConflictWith string          `json:"conflictWith,omitempty"`
	Reasoning    string          `json:"reasoning,omitempty"`
}

// AgentResponse is the structured shape every specialist call is asked to
// return. Defer names the agent id of a prior speaker this agent disagrees
// with; conflict detection is model-reported, not computed locally.
type AgentResponse struct {
	Content         string   `json:"content"`
	Confidence      float64  `json:"confidence"`
	Reasoning       string   `json:"reasoning,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Alerts          []string `json:"alerts,omitempty"`
	Defer           string   `json:"defer,omitempty"`
}

// DifferentialDiagnosis is one ranked alternative in the consensus.
// Probability is an independent confidence estimate; the set does not
// sum to 1.
type DifferentialDiagnosis struct {
	Diagnosis        string   `json:"diagnosis"`
	Probability      float64  `json:"probability"`
	SupportingAgents []string `json:"supportingAgents,omitempty"`
}

// Disagreement records an unresolved point of conflict in the discussion
type Disagreement struct {
	Topic     string            `json:"topic"`
	Positions map[string]string `json:"positions"` // agentId -> stated position
}

// ConsensusResult is the single synthesized recommendation produced from
// the full transcript. Created once at the consensus phase, immutable after.
type ConsensusResult struct {
	PrimaryDiagnosis       string                  `json:"primaryDiagnosis"`
	DifferentialDiagnoses  []DifferentialDiagnosis `json:"differentialDiagnoses"`
	RecommendedActions     []string                `json:"recommendedActions"`
	UrgentAlerts           []string                `json:"urgentAlerts,omitempty"`
	Disagreements          []Disagreement          `json:"disagreements,omitempty"`
	Confidence             float64                 `json:"confidence"`
	Timestamp              int64                   `json:"timestamp"`
}

// TeamDiscussionEvent is the wire-level unit pushed to callers. A caller
// reconstructs discussion state purely by folding the event sequence.
type TeamDiscussionEvent struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// TeamDiscussionRequest starts a board discussion
type TeamDiscussionRequest struct {
	Case          PatientCase `json:"case"`
	Urgency       string      `json:"urgency,omitempty"` // routine, urgent, emergent
	ExcludeAgents []string    `json:"excludeAgents,omitempty"`
}

// BrokerQueryRequest asks the knowledge broker a free-form question
type BrokerQueryRequest struct {
	Query               string         `json:"query"`
	Context             PatientCase    `json:"context"`
	ConversationHistory []AgentMessage `json:"conversationHistory,omitempty"`
}

// FollowUpRequest asks a follow-up question against an open case
type FollowUpRequest struct {
	Question            string         `json:"question"`
	Context             PatientCase    `json:"context"`
	ConversationHistory []AgentMessage `json:"conversationHistory"`
	TargetAgent         string         `json:"targetAgent,omitempty"`
}

// SideChannelResponse is the reply shape for broker and follow-up calls
type SideChannelResponse struct {
	Success         bool         `json:"success"`
	Message         AgentMessage `json:"message"`
	Alerts          []string     `json:"alerts"`
	Recommendations []string     `json:"recommendations"`
}
