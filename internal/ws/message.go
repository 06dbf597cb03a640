package ws

import "encoding/json"

// Message represents a WebSocket message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types - sensor input
const (
	TypePositionUpdate    = "position_update"
	TypeOrientationUpdate = "orientation_update"
)

// Message types - player actions
const (
	TypeStart               = "start"
	TypeBeginCapture        = "begin_capture"
	TypeEndCapture          = "end_capture"
	TypeEvacuate            = "evacuate"
	TypeContinueExploring   = "continue_exploring"
	TypeReset               = "reset"
	TypeToggleManualOutdoor = "toggle_manual_outdoor"
	TypeToggleManualHome    = "toggle_manual_home"
)

// Message types - debug actions
const (
	TypeSimulateMove = "simulate_move"
	TypeSimulateTurn = "simulate_turn"
)

// Message types - server output
const (
	TypeSnapshot       = "snapshot"
	TypeNodeDiscovered = "node_discovered"
	TypeNodeCaptured   = "node_captured"
	TypeEvacStarted    = "evac_started"
	TypeError          = "error"
)

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Message string `json:"message"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg})
	return Message{Type: TypeError, Data: data}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}
