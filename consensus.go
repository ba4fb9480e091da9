package main

import (
	"context"
	"log"
)

// DegradedConsensus is the fallback result returned when the synthesis
// call fails or its response cannot be parsed. Consensus must always
// produce something displayable.
func DegradedConsensus() ConsensusResult {
	return ConsensusResult{
		PrimaryDiagnosis:      "Unable to reach consensus",
		DifferentialDiagnoses: []DifferentialDiagnosis{},
		RecommendedActions:    []string{"Review the specialist discussion and consult the care team directly"},
		Confidence:            0.5,
		Timestamp:             nowMillis(),
	}
}

// BuildConsensus reduces the full transcript into a single structured
// recommendation via one synthesis call. It returns an error only when the
// discussion itself was cancelled; every other failure degrades into a
// valid, displayable result.
func BuildConsensus(ctx context.Context, pc PatientCase, transcript []AgentMessage) (ConsensusResult, error) {
	if ctx.Err() != nil {
		return ConsensusResult{}, ctx.Err()
	}

	text, err := Generate(ctx, BuildConsensusPrompt(pc, transcript), GenerateOptions{
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ConsensusResult{}, err
		}
		log.Printf("Consensus synthesis call failed, returning degraded result: %v", err)
		return DegradedConsensus(), nil
	}

	result, ok := TryParseStructured[ConsensusResult](text)
	if !ok || result.PrimaryDiagnosis == "" {
		log.Printf("Consensus response was not parseable, returning degraded result")
		return DegradedConsensus(), nil
	}

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	if result.DifferentialDiagnoses == nil {
		result.DifferentialDiagnoses = []DifferentialDiagnosis{}
	}
	if len(result.RecommendedActions) == 0 {
		result.RecommendedActions = []string{"Review the specialist discussion for detailed recommendations"}
	}
	result.Timestamp = nowMillis()

	return result, nil
}
