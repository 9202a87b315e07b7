package strategy

import (
	"github.com/mcoot/draftboard/internal/dependencies/random"
	"github.com/mcoot/draftboard/internal/model"
)

// variabilityPool caps how many top-ranked players a variable pick considers
const variabilityPool = 10

var (
	lowVariabilityWeights    = []float64{0.6, 0.25, 0.10, 0.05}
	mediumVariabilityWeights = []float64{0.4, 0.3, 0.15, 0.10, 0.05}
	highVariabilityWeights   = []float64{0.3, 0.2, 0.15, 0.12, 0.08, 0.06, 0.04, 0.03, 0.02}
)

// VariabilityWeights returns the normalized probability of drawing each of
// the top n ranked players at the given variability
func VariabilityWeights(variability float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	n = min(n, variabilityPool)

	var base []float64
	switch {
	case variability <= 0.3:
		base = lowVariabilityWeights
	case variability <= 0.6:
		base = mediumVariabilityWeights
	default:
		base = highVariabilityWeights
	}

	weights := make([]float64, n)
	copy(weights, base)

	// flatten towards uniform at high variability
	if variability > 0.7 {
		factor := variability * 2 * 0.3
		for i := range weights {
			weights[i] = (1-factor)*weights[i] + factor/float64(n)
		}
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	for i := range weights {
		if total > 0 {
			weights[i] /= total
		} else {
			weights[i] = 1 / float64(n)
		}
	}
	return weights
}

// ApplyVariability may swap the optimal choice for another of the top ranked
// draftable players. draftable must be ordered by rank. The optimal choice is
// kept when variability is zero or it is not in draftable.
func ApplyVariability(draftable []model.Player, optimal model.PlayerID, variability float64, rnd random.Random) model.PlayerID {
	if variability <= 0 || len(draftable) == 0 {
		return optimal
	}
	found := false
	for _, p := range draftable {
		if p.ID == optimal {
			found = true
			break
		}
	}
	if !found {
		return optimal
	}

	weights := VariabilityWeights(variability, len(draftable))
	roll := rnd.Float64()
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if roll <= cumulative {
			return draftable[i].ID
		}
	}
	return draftable[0].ID
}
