package game

import "time"

// Tuning holds the gameplay thresholds and durations. All values can be
// overridden through server configuration; DefaultTuning matches the values
// the mobile client was balanced against.
type Tuning struct {
	// Spawn
	SpawnMinMeters    float64 // minimum candidate distance from the player
	SpawnMaxMeters    float64 // maximum candidate distance from the player
	SpawnBatchMin     int     // minimum nodes per spawn batch
	SpawnBatchMax     int     // maximum nodes per spawn batch
	MinActiveNodes    int     // respawn when active (uncaptured) nodes drop below this
	RespawnStepMeters float64 // respawn after walking this far since the last batch

	// Radii
	DiscoverRadius float64 // node becomes visible inside this distance
	CaptureRadius  float64 // node becomes capturable inside this distance
	HomeRadius     float64 // evac eligibility distance from origin

	// Reticle
	ReticleHalfAngle float64 // degrees off heading within which a node is targetable

	// Capture timing per tier
	CaptureDurationBasic    time.Duration
	CaptureDurationAdvanced time.Duration
	CaptureDurationCore     time.Duration

	// Phase timing
	CarryDelay      time.Duration // cosmetic carrying window after a capture
	EvacDuration    time.Duration // evac animation length
	EvacSuppression time.Duration // re-entry cooldown after "continue exploring"

	// Environment heuristic
	OutdoorAccuracyMax float64       // meters; accuracy at or under this counts as outdoor
	IndoorAccuracyMin  float64       // meters; accuracy at or over this counts toward indoor
	IndoorHold         time.Duration // continuous candidacy required before indoor flips
	MinMovingSpeed     float64       // m/s; speed above this counts as physical movement
	DefaultAccuracy    float64       // assumed accuracy when no reading is available

	// Companions
	CompanionOffsetMin float64 // meters, presentation offset lower bound
	CompanionOffsetMax float64 // meters, presentation offset upper bound
}

// DefaultTuning returns the balanced defaults.
func DefaultTuning() Tuning {
	return Tuning{
		SpawnMinMeters:    25,
		SpawnMaxMeters:    120,
		SpawnBatchMin:     3,
		SpawnBatchMax:     7,
		MinActiveNodes:    3,
		RespawnStepMeters: 80,

		DiscoverRadius: 35,
		CaptureRadius:  15,
		HomeRadius:     20,

		ReticleHalfAngle: 30,

		CaptureDurationBasic:    2 * time.Second,
		CaptureDurationAdvanced: 3500 * time.Millisecond,
		CaptureDurationCore:     5 * time.Second,

		CarryDelay:      2 * time.Second,
		EvacDuration:    5 * time.Second,
		EvacSuppression: 60 * time.Second,

		OutdoorAccuracyMax: 25,
		IndoorAccuracyMin:  30,
		IndoorHold:         5 * time.Second,
		MinMovingSpeed:     0.3,
		DefaultAccuracy:    50,

		CompanionOffsetMin: 0.8,
		CompanionOffsetMax: 2.0,
	}
}

// CaptureDuration returns the countdown length for a tier.
func (t Tuning) CaptureDuration(tier Tier) time.Duration {
	switch tier {
	case TierAdvanced:
		return t.CaptureDurationAdvanced
	case TierCore:
		return t.CaptureDurationCore
	default:
		return t.CaptureDurationBasic
	}
}
