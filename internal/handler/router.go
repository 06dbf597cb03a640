package handler

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/nodewalk/nodewalk-server/internal/engine"
	"github.com/nodewalk/nodewalk-server/internal/game"
	"github.com/nodewalk/nodewalk-server/internal/geo"
	"github.com/nodewalk/nodewalk-server/internal/ws"
)

// Router owns one engine per connected client and dispatches incoming
// messages to it.
type Router struct {
	tuning game.Tuning

	engines map[string]*engine.Engine // client ID -> engine
	mu      sync.Mutex

	// seed produces the generator seed for new sessions; injectable for
	// deterministic tests.
	seed func() int64
}

// NewRouter creates a message router.
func NewRouter(tuning game.Tuning) *Router {
	return &Router{
		tuning:  tuning,
		engines: make(map[string]*engine.Engine),
		seed:    func() int64 { return time.Now().UnixNano() },
	}
}

// HandleConnect creates the client's engine and starts its tick loop.
func (r *Router) HandleConnect(client *ws.Client) {
	eng := engine.New(r.tuning, r.seed(), &clientPublisher{client: client})

	r.mu.Lock()
	r.engines[client.ID] = eng
	r.mu.Unlock()

	go eng.Run()
	slog.Info("session created", "client", client.ID, "session", eng.SessionID())
}

// HandleDisconnect stops and discards the client's engine.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.mu.Lock()
	eng := r.engines[client.ID]
	delete(r.engines, client.ID)
	r.mu.Unlock()

	if eng != nil {
		eng.Close()
		slog.Info("session closed", "client", client.ID, "session", eng.SessionID())
	}
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	eng := r.engine(cm.Client.ID)
	if eng == nil {
		cm.Client.SendMessage(ws.NewErrorMessage("no session for client"))
		return
	}

	switch msg.Type {
	case ws.TypePositionUpdate:
		r.handlePositionUpdate(cm.Client, eng, msg)
	case ws.TypeOrientationUpdate:
		r.handleOrientationUpdate(cm.Client, eng, msg)
	case ws.TypeStart:
		eng.Start()
	case ws.TypeBeginCapture:
		eng.BeginCapture()
	case ws.TypeEndCapture:
		eng.EndCapture()
	case ws.TypeEvacuate:
		eng.Evacuate()
	case ws.TypeContinueExploring:
		eng.ContinueExploring()
	case ws.TypeReset:
		eng.Reset()
	case ws.TypeToggleManualOutdoor:
		eng.ToggleManualOutdoor()
	case ws.TypeToggleManualHome:
		eng.ToggleManualHome()
	case ws.TypeSimulateMove:
		r.handleSimulateMove(cm.Client, eng, msg)
	case ws.TypeSimulateTurn:
		r.handleSimulateTurn(cm.Client, eng, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

func (r *Router) engine(clientID string) *engine.Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engines[clientID]
}

type positionUpdateRequest struct {
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	Heading  *float64 `json:"heading,omitempty"`
	Accuracy *float64 `json:"accuracy,omitempty"`
	Speed    *float64 `json:"speed,omitempty"`
}

func (r *Router) handlePositionUpdate(client *ws.Client, eng *engine.Engine, msg ws.Message) {
	var req positionUpdateRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid position data"))
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lon < -180 || req.Lon > 180 {
		client.SendMessage(ws.NewErrorMessage("coordinate out of range"))
		return
	}
	eng.HandlePosition(geo.Coordinate{Lat: req.Lat, Lon: req.Lon}, req.Heading, req.Accuracy, req.Speed)
}

type orientationUpdateRequest struct {
	Heading float64 `json:"heading"`
}

func (r *Router) handleOrientationUpdate(client *ws.Client, eng *engine.Engine, msg ws.Message) {
	var req orientationUpdateRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid orientation data"))
		return
	}
	eng.HandleOrientation(req.Heading)
}

type simulateMoveRequest struct {
	Meters float64 `json:"meters"`
}

func (r *Router) handleSimulateMove(client *ws.Client, eng *engine.Engine, msg ws.Message) {
	var req simulateMoveRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid simulate_move data"))
		return
	}
	eng.SimulateMove(req.Meters)
}

type simulateTurnRequest struct {
	Degrees float64 `json:"degrees"`
}

func (r *Router) handleSimulateTurn(client *ws.Client, eng *engine.Engine, msg ws.Message) {
	var req simulateTurnRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid simulate_turn data"))
		return
	}
	eng.SimulateTurn(req.Degrees)
}
