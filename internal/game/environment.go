package game

import "time"

// Reading is one processed sensor sample. Nil pointers mean the signal was
// absent from the sample; the engine degrades rather than fails.
type Reading struct {
	Accuracy *float64 // GPS horizontal accuracy in meters, smaller = better
	Speed    *float64 // m/s
	HasFix   bool     // a compass heading fix exists
}

// Environment classifies the player's surroundings from GPS quality. Indoor
// is debounced: a candidacy must hold continuously for the configured
// duration before the flag flips, so one noisy sample near home cannot
// trigger the evac-ready phase.
type Environment struct {
	OutdoorDetected bool
	IndoorDetected  bool

	// ManualOutdoor and ManualHome are player overrides; they are mutually
	// exclusive and take precedence over detection, home over outdoor.
	ManualOutdoor bool
	ManualHome    bool

	indoorSince time.Time // zero while no candidacy is running
}

// UpdateOutdoor applies the outdoor detection rule to a sample. A good
// accuracy alone flickers near doorways; it must be paired with a heading
// fix or evidence of physical movement.
func (e *Environment) UpdateOutdoor(r Reading, t Tuning) {
	if r.Accuracy == nil || *r.Accuracy > t.OutdoorAccuracyMax {
		e.OutdoorDetected = false
		return
	}
	moving := r.Speed != nil && *r.Speed > t.MinMovingSpeed
	e.OutdoorDetected = r.HasFix || moving
}

// UpdateIndoor advances the indoor debounce. candidate should hold when the
// player is inside the home radius with degraded accuracy. The timer resets
// the instant candidacy breaks.
func (e *Environment) UpdateIndoor(now time.Time, candidate bool, t Tuning) {
	if !candidate {
		e.indoorSince = time.Time{}
		e.IndoorDetected = false
		return
	}
	if e.indoorSince.IsZero() {
		e.indoorSince = now
	}
	e.IndoorDetected = now.Sub(e.indoorSince) >= t.IndoorHold
}

// Outdoor returns the effective outdoor state after overrides.
func (e *Environment) Outdoor() bool {
	if e.ManualHome {
		return false
	}
	if e.ManualOutdoor {
		return true
	}
	return e.OutdoorDetected
}

// Indoor returns the effective indoor state. ManualHome bypasses the
// debounce entirely.
func (e *Environment) Indoor() bool {
	if e.ManualHome {
		return true
	}
	if e.ManualOutdoor {
		return false
	}
	return e.IndoorDetected
}

// SetManualOutdoor toggles the manual outdoor override, clearing the home
// override when enabling.
func (e *Environment) SetManualOutdoor(on bool) {
	e.ManualOutdoor = on
	if on {
		e.ManualHome = false
	}
}

// SetManualHome toggles the manual home override, clearing the outdoor
// override when enabling.
func (e *Environment) SetManualHome(on bool) {
	e.ManualHome = on
	if on {
		e.ManualOutdoor = false
	}
}

// Reset clears detection state and overrides.
func (e *Environment) Reset() {
	*e = Environment{}
}

// AccuracyOrDefault resolves a possibly missing accuracy reading.
func AccuracyOrDefault(acc *float64, t Tuning) float64 {
	if acc == nil {
		return t.DefaultAccuracy
	}
	return *acc
}
