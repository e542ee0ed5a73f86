package application

import (
	"encoding/json"
	"sort"

	"github.com/novascore/credit-engine/internal/adapters/security"
	"github.com/novascore/credit-engine/internal/domain"
)

// NovaScoreInputs is the UPI inflow/outflow, network-strength and GST-variance subset the façade aggregates.
type NovaScoreInputs struct {
	UPIInflow           float64 `json:"upi_inflow"`
	UPIOutflow          float64 `json:"upi_outflow"`
	NetworkStrength     float64 `json:"network_strength"`
	GSTTurnoverVariance float64 `json:"gst_turnover_variance"`
}

type canonicalAuditPayload struct {
	Score        int    `json:"score"`
	InputsDigest string `json:"inputs_digest"`
	TimestampMs  int64  `json:"timestamp_ms"`
}

// ComputeNovaScore applies the fixed rule ladder to combine these inputs into a
// single score, tier, ordered explanation list and audit hash.
func ComputeNovaScore(inputs NovaScoreInputs, timestampMs int64) (domain.NovaScoreResult, error) {
	score := 750
	explanations := make([]domain.Explanation, 0, 3)

	if inputs.UPIOutflow > 0 && inputs.UPIInflow/inputs.UPIOutflow >= 1.2 {
		score += 40
		explanations = append(explanations, domain.Explanation{
			Feature: "upi_inflow_outflow_ratio", Impact: 40,
			Reasoning: "UPI inflow to outflow ratio at or above 1.2 indicates healthy cash flow.",
		})
	} else {
		score += 10
		explanations = append(explanations, domain.Explanation{
			Feature: "upi_inflow_outflow_ratio", Impact: 10,
			Reasoning: "UPI inflow to outflow ratio below 1.2.",
		})
	}

	if inputs.NetworkStrength > 0.8 {
		score += 30
		explanations = append(explanations, domain.Explanation{
			Feature: "network_strength", Impact: 30,
			Reasoning: "Validation-derived network strength above 0.8.",
		})
	}

	if inputs.GSTTurnoverVariance > 0.15 {
		score -= 50
		explanations = append(explanations, domain.Explanation{
			Feature: "gst_bank_turnover_variance", Impact: -50,
			Reasoning: "GST-declared turnover diverges from bank-observed turnover by more than 15%.",
		})
	}

	clamped := domain.ClampScore(score)
	tier := domain.TierForScore(clamped)

	sort.SliceStable(explanations, func(i, j int) bool {
		ai, aj := abs(explanations[i].Impact), abs(explanations[j].Impact)
		if ai != aj {
			return ai > aj
		}
		return explanations[i].Feature < explanations[j].Feature
	})

	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return domain.NovaScoreResult{}, err
	}
	inputsDigest := security.SHA256Hex(inputsJSON)

	payload, err := json.Marshal(canonicalAuditPayload{
		Score:        clamped,
		InputsDigest: inputsDigest,
		TimestampMs:  timestampMs,
	})
	if err != nil {
		return domain.NovaScoreResult{}, err
	}
	auditHash := security.SHA256Hex(payload)

	confidence := confidenceFromCompleteness(inputs)

	return domain.NovaScoreResult{
		Score:        clamped,
		Tier:         tier,
		Confidence:   confidence,
		Explanations: explanations,
		AuditHash:    auditHash,
	}, nil
}

// confidenceFromCompleteness lowers confidence when an input contributing to a
// tie-break was never supplied (left at its zero value).
func confidenceFromCompleteness(inputs NovaScoreInputs) float64 {
	total := 4
	present := 0
	if inputs.UPIInflow != 0 || inputs.UPIOutflow != 0 {
		present++
	}
	if inputs.NetworkStrength != 0 {
		present++
	}
	if inputs.GSTTurnoverVariance != 0 {
		present++
	}
	present++ // base is always present
	return round4(float64(present) / float64(total))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
