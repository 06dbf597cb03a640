package game

import (
	"math/rand"
	"time"
)

// Tier weight baselines and progression steps. Advanced and Core start at
// fixed baselines and rise stepwise as the player walks farther, plays
// longer, and rescues more companions. Basic absorbs the remainder.
const (
	advancedBase = 0.20
	coreBase     = 0.05

	advancedMax = 0.45
	coreMax     = 0.25
	basicFloor  = 0.20

	distanceStep1 = 200.0 // meters
	distanceStep2 = 600.0

	durationStep1 = 5 * time.Minute
	durationStep2 = 15 * time.Minute

	companionStep1 = 1
	companionStep2 = 3
)

// Progress captures the three signals that drive reward progression.
type Progress struct {
	DistanceWalked  float64
	SessionDuration time.Duration
	Companions      int
}

// TierWeights is a probability distribution over the three tiers.
// Weights always sum to 1.
type TierWeights struct {
	Basic    float64
	Advanced float64
	Core     float64
}

// WeightsFor computes the tier distribution for the given progress.
// Each signal raises Advanced (and past its second step, Core)
// monotonically; both are clamped to fixed maxima.
func WeightsFor(p Progress) TierWeights {
	advanced := advancedBase
	core := coreBase

	if p.DistanceWalked > distanceStep1 {
		advanced += 0.10
	}
	if p.DistanceWalked > distanceStep2 {
		advanced += 0.10
		core += 0.05
	}

	if p.SessionDuration > durationStep1 {
		advanced += 0.05
	}
	if p.SessionDuration > durationStep2 {
		core += 0.05
	}

	if p.Companions >= companionStep1 {
		advanced += 0.05
	}
	if p.Companions >= companionStep2 {
		core += 0.05
	}

	if advanced > advancedMax {
		advanced = advancedMax
	}
	if core > coreMax {
		core = coreMax
	}

	basic := 1 - advanced - core
	if basic < basicFloor {
		basic = basicFloor
	}

	return TierWeights{Basic: basic, Advanced: advanced, Core: core}
}

// Roll draws a tier from the distribution.
func (w TierWeights) Roll(rng *rand.Rand) Tier {
	r := rng.Float64()
	switch {
	case r < w.Core:
		return TierCore
	case r < w.Core+w.Advanced:
		return TierAdvanced
	default:
		return TierBasic
	}
}
