package main

import (
	"context"
	"log"
	"sort"
	"strings"
)

// RelevanceText concatenates the case fields the selector scores against:
// chief complaint, history, and lab names/values.
func RelevanceText(pc PatientCase) string {
	var b strings.Builder
	b.WriteString(pc.ChiefComplaint)
	if pc.History != "" {
		b.WriteString(" ")
		b.WriteString(pc.History)
	}
	for _, lab := range pc.Labs {
		b.WriteString(" ")
		b.WriteString(lab.Name)
		b.WriteString(" ")
		b.WriteString(lab.Value)
	}
	return b.String()
}

// ScoreAgents ranks catalog agents against case text. Score is the count
// of an agent's trigger keywords appearing as case-insensitive substrings;
// zero-score agents are excluded, coordination agents never participate.
// Ties are broken by catalog declaration order, which is stable.
func ScoreAgents(caseText string) []string {
	lower := strings.ToLower(caseText)

	type scored struct {
		id    string
		score int
	}
	var ranked []scored

	for _, id := range agentOrder {
		def := agentCatalog[id]
		if def.Tier == TierCoordination {
			continue
		}

		score := 0
		for _, keyword := range def.TriggerKeywords {
			if strings.Contains(lower, keyword) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{id: id, score: score})
		}
	}

	// Stable sort preserves declaration order for equal scores
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.id)
	}
	return ids
}

// SelectAgentsHeuristic is the deterministic keyword selection: ranked
// scoring capped at MaxPanelSize, with the default trio substituted when
// nothing scores.
func SelectAgentsHeuristic(pc PatientCase) []string {
	ids := ScoreAgents(RelevanceText(pc))
	if len(ids) == 0 {
		ids = append(ids, DefaultPanel...)
	}
	if len(ids) > MaxPanelSize {
		ids = ids[:MaxPanelSize]
	}
	return ids
}

// SelectAgentsModel asks the model to pick relevant specialists. Returns
// the validated agent ids, or an empty slice when the call fails or the
// response contains no usable ids — the caller falls back to the heuristic.
func SelectAgentsModel(ctx context.Context, pc PatientCase) []string {
	text, err := Generate(ctx, BuildSelectionPrompt(pc), GenerateOptions{Temperature: 0.2, MaxTokens: 300})
	if err != nil {
		log.Printf("Model-assisted selection failed: %v", err)
		return nil
	}

	raw, ok := TryParseStructured[[]string](text)
	if !ok {
		log.Printf("Model-assisted selection returned no parseable id list")
		return nil
	}

	var ids []string
	seen := make(map[string]bool)
	for _, id := range raw {
		id = strings.ToLower(strings.TrimSpace(id))
		def, known := agentCatalog[id]
		if !known || def.Tier == TierCoordination || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) > MaxPanelSize {
		ids = ids[:MaxPanelSize]
	}
	return ids
}

// SelectAgents runs model-assisted selection with heuristic fallback and
// applies the caller's exclusions. The result is never empty: if filtering
// removes everyone, the default trio (minus exclusions, then unfiltered)
// backstops the panel.
func SelectAgents(ctx context.Context, pc PatientCase, exclude []string) []string {
	ids := SelectAgentsModel(ctx, pc)
	if len(ids) == 0 {
		ids = SelectAgentsHeuristic(pc)
	}

	ids = filterAgents(ids, exclude)
	if len(ids) == 0 {
		ids = filterAgents(DefaultPanel, exclude)
	}
	if len(ids) == 0 {
		ids = append(ids, DefaultPanel...)
	}
	return ids
}

func filterAgents(ids, exclude []string) []string {
	if len(exclude) == 0 {
		return ids
	}
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[strings.ToLower(id)] = true
	}
	var kept []string
	for _, id := range ids {
		if !excluded[id] {
			kept = append(kept, id)
		}
	}
	return kept
}
