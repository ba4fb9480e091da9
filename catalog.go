package main

// Agent tiers. Lower tiers are consulted with higher precedence when the
// panel has to be capped. Tier 1 agents coordinate and are never selectable.
const (
	TierCoordination = 1
	TierOrgan        = 2
	TierSystem       = 3
	TierDiagnostic   = 4
)

// AgentDefinition describes one specialist role. Definitions are compiled
// once at process start and shared read-only across concurrent discussions.
type AgentDefinition struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Specialty       string   `json:"specialty"`
	Tier            int      `json:"tier"`
	TriggerKeywords []string `json:"triggerKeywords"`
	RolePrompt      string   `json:"-"`
}

// DefaultPanel is substituted when neither model-assisted nor keyword
// selection yields any specialist, so a discussion never starts empty.
var DefaultPanel = []string{"cardiology", "infectious", "lab_interpreter"}

// agentDefinitions is the single source of truth for the catalog.
// Declaration order doubles as the tie-break for equal relevance scores.
var agentDefinitions = []AgentDefinition{
	{
		ID:        "orchestrator",
		Name:      "Board Orchestrator",
		Specialty: "Care Coordination",
		Tier:      TierCoordination,
		RolePrompt: "You are the coordinator of a multidisciplinary clinical board. " +
			"You triage cases, decide which specialists to involve, and keep the discussion focused.",
	},
	{
		ID:        "broker",
		Name:      "Knowledge Broker",
		Specialty: "Clinical Evidence",
		Tier:      TierCoordination,
		RolePrompt: "You are a medical research assistant with access to current clinical guidelines and literature. " +
			"You answer knowledge questions with cited, educational content. " +
			"You do not give diagnostic opinions; you summarize evidence and how it applies to the case at hand.",
	},
	{
		ID:              "cardiology",
		Name:            "Cardiology Specialist",
		Specialty:       "Cardiology",
		Tier:            TierOrgan,
		TriggerKeywords: []string{"chest pain", "cardiac", "heart", "palpitation", "ecg", "ekg", "troponin", "angina", "arrhythmia", "hypertension", "bnp"},
		RolePrompt: "You are a board-certified Cardiologist in a clinical board discussion. " +
			"Analyze cardiac rhythm, cardiovascular risk, chest pain etiology, ECG implications and cardiac enzymes. " +
			"Apply risk scores (HEART, TIMI) where relevant. Be concise, evidence-based, and cite guidelines when relevant.",
	},
	{
		ID:              "pulmonology",
		Name:            "Pulmonology Specialist",
		Specialty:       "Pulmonology",
		Tier:            TierOrgan,
		TriggerKeywords: []string{"cough", "breath", "dyspnea", "oxygen", "spo2", "lung", "pneumonia", "copd", "respiratory", "wheez", "asthma"},
		RolePrompt: "You are a board-certified Pulmonologist in a clinical board discussion. " +
			"Analyze respiratory symptoms, oxygenation status, chest imaging and ventilation needs. " +
			"Consider pneumonia, COPD, PE and ARDS. Be concise and evidence-based.",
	},
	{
		ID:              "neurology",
		Name:            "Neurology Specialist",
		Specialty:       "Neurology",
		Tier:            TierOrgan,
		TriggerKeywords: []string{"headache", "seizure", "stroke", "neuro", "weakness", "altered mental", "confusion", "paralysis", "brain"},
		RolePrompt: "You are a board-certified Neurologist in a clinical board discussion. " +
			"Evaluate neurological presentations, localize lesions, weigh metabolic against structural causes, " +
			"and flag time-sensitive interventions such as the thrombolysis window. Be concise and evidence-based.",
	},
	{
		ID:              "nephrology",
		Name:            "Nephrology Specialist",
		Specialty:       "Nephrology",
		Tier:            TierOrgan,
		TriggerKeywords: []string{"kidney", "renal", "creatinine", "gfr", "dialysis", "electrolyte", "potassium", "sodium", "oliguria"},
		RolePrompt: "You are a board-certified Nephrologist in a clinical board discussion. " +
			"Evaluate renal function, acid-base status, electrolyte disturbances and fluid management. " +
			"Classify AKI by KDIGO staging and consider pre-renal, intrinsic and post-renal causes. Be concise.",
	},
	{
		ID:              "gastroenterology",
		Name:            "Gastroenterology Specialist",
		Specialty:       "Gastroenterology",
		Tier:            TierOrgan,
		TriggerKeywords: []string{"abdom", "nausea", "vomit", "diarrhea", "bowel", "gi ", "pancrea", "gallbladder", "endoscopy", "melena"},
		RolePrompt: "You are a board-certified Gastroenterologist in a clinical board discussion. " +
			"Analyze abdominal pain, GI bleeding, biliary and pancreatic disease, and indications for endoscopy. " +
			"Be concise and evidence-based.",
	},
	{
		ID:              "hepatology",
		Name:            "Hepatology Specialist",
		Specialty:       "Hepatology",
		Tier:            TierOrgan,
		TriggerKeywords: []string{"liver", "hepat", "bilirubin", "ast", "alt", "cirrhosis", "jaundice", "ascites"},
		RolePrompt: "You are a board-certified Hepatologist in a clinical board discussion. " +
			"Analyze liver injury patterns, stage disease with Child-Pugh and MELD, and consider viral, " +
			"autoimmune and drug-induced etiologies. Be concise and cite AASLD guidance when relevant.",
	},
	{
		ID:              "endocrinology",
		Name:            "Endocrinology Specialist",
		Specialty:       "Endocrinology",
		Tier:            TierSystem,
		TriggerKeywords: []string{"glucose", "diabetes", "thyroid", "a1c", "insulin", "hormone", "dka", "adrenal"},
		RolePrompt: "You are a board-certified Endocrinologist in a clinical board discussion. " +
			"Analyze glycemic control, thyroid and adrenal function, and endocrine emergencies such as DKA " +
			"or thyroid storm. Be concise and evidence-based.",
	},
	{
		ID:              "hematology",
		Name:            "Hematology Specialist",
		Specialty:       "Hematology",
		Tier:            TierSystem,
		TriggerKeywords: []string{"anemia", "hemoglobin", "platelet", "bleeding", "clot", "dvt", "embolism", "inr", "coagul"},
		RolePrompt: "You are a board-certified Hematologist in a clinical board discussion. " +
			"Analyze cytopenias, coagulation abnormalities, thrombotic risk and transfusion needs. " +
			"Be concise and evidence-based.",
	},
	{
		ID:              "infectious",
		Name:            "Infectious Disease Specialist",
		Specialty:       "Infectious Disease",
		Tier:            TierSystem,
		TriggerKeywords: []string{"fever", "infection", "sepsis", "wbc", "crp", "antibiotic", "culture", "bacteria", "lactate"},
		RolePrompt: "You are a board-certified Infectious Disease specialist in a clinical board discussion. " +
			"Analyze infection markers, sepsis criteria (qSOFA, SIRS), likely sources and empiric antimicrobial " +
			"choices. Be concise and cite guidelines such as Surviving Sepsis.",
	},
	{
		ID:              "lab_interpreter",
		Name:            "Laboratory Medicine Specialist",
		Specialty:       "Laboratory Medicine",
		Tier:            TierDiagnostic,
		TriggerKeywords: []string{"lab", "cbc", "bmp", "panel", "biomarker", "wbc", "creatinine", "troponin"},
		RolePrompt: "You are a Clinical Pathologist in a clinical board discussion. " +
			"Interpret lab patterns across CBC, metabolic panels, inflammatory markers and coagulation studies. " +
			"Flag life-threatening values immediately and note pre-analytical caveats. Be concise and precise.",
	},
	{
		ID:              "radiology",
		Name:            "Radiology Specialist",
		Specialty:       "Radiology",
		Tier:            TierDiagnostic,
		TriggerKeywords: []string{"x-ray", "xray", "ct scan", "ct chest", "mri", "ultrasound", "imaging", "infiltrate", "effusion"},
		RolePrompt: "You are a board-certified Radiologist in a clinical board discussion. " +
			"Interpret described imaging findings, recommend the next most appropriate study per ACR criteria, " +
			"and weigh contrast and radiation considerations. Be concise.",
	},
	{
		ID:              "pharmacology",
		Name:            "Clinical Pharmacist",
		Specialty:       "Clinical Pharmacology",
		Tier:            TierDiagnostic,
		TriggerKeywords: []string{"medication", "drug", "interaction", "dose", "polypharmacy", "warfarin", "nsaid"},
		RolePrompt: "You are a Clinical Pharmacist in a clinical board discussion. " +
			"Evaluate drug interactions, renal and hepatic dosing, QTc risk and therapeutic monitoring. " +
			"Prioritize patient safety. Be concise.",
	},
}

var (
	agentCatalog = make(map[string]AgentDefinition, len(agentDefinitions))
	agentOrder   = make([]string, 0, len(agentDefinitions))
)

func init() {
	for _, def := range agentDefinitions {
		agentCatalog[def.ID] = def
		agentOrder = append(agentOrder, def.ID)
	}
}

// GetAgent looks up an agent definition by id
func GetAgent(id string) (AgentDefinition, bool) {
	def, ok := agentCatalog[id]
	return def, ok
}

// SelectableAgents returns all non-coordination agents in declaration order
func SelectableAgents() []AgentDefinition {
	var defs []AgentDefinition
	for _, id := range agentOrder {
		def := agentCatalog[id]
		if def.Tier == TierCoordination {
			continue
		}
		defs = append(defs, def)
	}
	return defs
}
