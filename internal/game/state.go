package game

import "encoding/json"

// Phase is the authoritative game phase of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseOutdoorSearch
	PhaseCaptureReady
	PhaseCapturing
	PhaseCarrying
	PhaseEvacReady
	PhaseEvacAnim
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseOutdoorSearch:
		return "outdoor_search"
	case PhaseCaptureReady:
		return "capture_ready"
	case PhaseCapturing:
		return "capturing"
	case PhaseCarrying:
		return "carrying"
	case PhaseEvacReady:
		return "evac_ready"
	case PhaseEvacAnim:
		return "evac_anim"
	case PhaseResult:
		return "result"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Phase as a string.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON deserializes Phase from a string.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "outdoor_search":
		*p = PhaseOutdoorSearch
	case "capture_ready":
		*p = PhaseCaptureReady
	case "capturing":
		*p = PhaseCapturing
	case "carrying":
		*p = PhaseCarrying
	case "evac_ready":
		*p = PhaseEvacReady
	case "evac_anim":
		*p = PhaseEvacAnim
	case "result":
		*p = PhaseResult
	default:
		*p = PhaseIdle
	}
	return nil
}

// Active reports whether a session is in progress (any phase between start
// and reset).
func (p Phase) Active() bool {
	return p != PhaseIdle
}
