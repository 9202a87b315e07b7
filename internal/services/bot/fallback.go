package bot

import "github.com/mcoot/draftboard/internal/model"

// Fallback picks without the strategy collaborator. Tier strategies take the
// lowest tier, then lowest rank, among tiered candidates; everything else
// takes the lowest rank. It returns "" only when there are no candidates.
func Fallback(candidates []model.Player, strategy string) model.PlayerID {
	if model.IsTierStrategy(strategy) {
		var pick *model.Player
		for i := range candidates {
			p := &candidates[i]
			if !p.HasTier() {
				continue
			}
			if pick == nil || p.TierValue() < pick.TierValue() ||
				(p.TierValue() == pick.TierValue() && p.Rank < pick.Rank) {
				pick = p
			}
		}
		if pick != nil {
			return pick.ID
		}
	}

	var pick *model.Player
	for i := range candidates {
		if pick == nil || candidates[i].Rank < pick.Rank {
			pick = &candidates[i]
		}
	}
	if pick == nil {
		return ""
	}
	return pick.ID
}
