package model

import "strings"

// Draft strategy names
const (
	StrategyManual     = "manual"
	StrategyBPA        = "bpa"
	StrategyTier       = "tier"
	StrategyPositional = "positional"
	StrategyBalanced   = "balanced"
	StrategyWRHeavy    = "wr_heavy"
	StrategyRBHeavy    = "rb_heavy"
	StrategyRobustRB   = "robust_rb"
	StrategyHeroRB     = "hero_rb"
	StrategyHeroWR     = "hero_wr"
	StrategyZeroRB     = "zero_rb"
	StrategyLateQB     = "late_qb"
	StrategyEarlyQB    = "early_qb"
)

// StrategyDisplayName returns a human-readable label for a strategy
func StrategyDisplayName(strategy string) string {
	switch strategy {
	case StrategyManual:
		return "Manual"
	case StrategyBPA:
		return "Best Player Available"
	case StrategyTier:
		return "Tier Based"
	case StrategyPositional:
		return "Positional Need"
	case StrategyBalanced:
		return "Balanced"
	case StrategyWRHeavy:
		return "WR Heavy"
	case StrategyRBHeavy:
		return "RB Heavy"
	case StrategyRobustRB:
		return "Robust RB"
	case StrategyHeroRB:
		return "Hero RB"
	case StrategyHeroWR:
		return "Hero WR"
	case StrategyZeroRB:
		return "Zero RB"
	case StrategyLateQB:
		return "Late QB"
	case StrategyEarlyQB:
		return "Early QB"
	default:
		return strategy
	}
}

// ValidStrategies returns all built-in strategy names, manual first
func ValidStrategies() []string {
	return []string{
		StrategyManual,
		StrategyBPA,
		StrategyTier,
		StrategyPositional,
		StrategyBalanced,
		StrategyWRHeavy,
		StrategyRBHeavy,
		StrategyRobustRB,
		StrategyHeroRB,
		StrategyHeroWR,
		StrategyZeroRB,
		StrategyLateQB,
		StrategyEarlyQB,
	}
}

// IsTierStrategy reports whether the fallback for a strategy should prefer tiers
func IsTierStrategy(strategy string) bool {
	return strings.HasPrefix(strings.ToLower(strategy), StrategyTier)
}
