// Package engine serializes all session events (sensor samples, player
// actions, timer ticks) so state transitions never interleave.
package engine

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/nodewalk/nodewalk-server/internal/game"
	"github.com/nodewalk/nodewalk-server/internal/geo"
)

// TickInterval drives the capture countdown and the two scheduled phase
// transitions (carrying and evac animation).
const TickInterval = 100 * time.Millisecond

// Publisher receives the snapshot and one-shot effects produced by each
// processed event. Called outside the engine lock.
type Publisher interface {
	Publish(snap game.Snapshot, effects []game.Effect)
}

// Engine owns one Session and is its single logical thread of control.
type Engine struct {
	mu      sync.Mutex
	session *game.Session
	pub     Publisher

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates an engine around a fresh session. seed feeds the injectable
// node generator.
func New(tuning game.Tuning, seed int64, pub Publisher) *Engine {
	rng := rand.New(rand.NewSource(seed))
	gen := game.NewGenerator(rng, tuning)
	return &Engine{
		session: game.NewSession(tuning, gen),
		pub:     pub,
		stopCh:  make(chan struct{}),
	}
}

// Run drives the tick loop until Close. Ticks are no-ops while the session
// is idle.
func (e *Engine) Run() {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case now := <-ticker.C:
			e.apply(func(s *game.Session) []game.Effect { return s.Tick(now) })
		}
	}
}

// Close stops the tick loop. Safe to call more than once.
func (e *Engine) Close() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}

// SessionID returns the session's identifier.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.ID
}

// Snapshot returns the current read-only session view.
func (e *Engine) Snapshot() game.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Snapshot(time.Now())
}

func (e *Engine) Start() {
	e.apply(func(s *game.Session) []game.Effect { return s.Start(time.Now()) })
}

func (e *Engine) HandlePosition(pos geo.Coordinate, heading, accuracy, speed *float64) {
	e.apply(func(s *game.Session) []game.Effect {
		return s.HandlePosition(time.Now(), pos, heading, accuracy, speed)
	})
}

func (e *Engine) HandleOrientation(headingDegrees float64) {
	e.apply(func(s *game.Session) []game.Effect {
		return s.HandleOrientation(time.Now(), headingDegrees)
	})
}

func (e *Engine) BeginCapture() {
	e.apply(func(s *game.Session) []game.Effect { return s.BeginCapture(time.Now()) })
}

func (e *Engine) EndCapture() {
	e.apply(func(s *game.Session) []game.Effect { return s.EndCapture(time.Now()) })
}

func (e *Engine) Evacuate() {
	e.apply(func(s *game.Session) []game.Effect { return s.Evacuate(time.Now()) })
}

func (e *Engine) ContinueExploring() {
	e.apply(func(s *game.Session) []game.Effect { return s.ContinueExploring(time.Now()) })
}

func (e *Engine) Reset() {
	e.apply(func(s *game.Session) []game.Effect { return s.Reset(time.Now()) })
}

func (e *Engine) ToggleManualOutdoor() {
	e.apply(func(s *game.Session) []game.Effect { return s.ToggleManualOutdoor(time.Now()) })
}

func (e *Engine) ToggleManualHome() {
	e.apply(func(s *game.Session) []game.Effect { return s.ToggleManualHome(time.Now()) })
}

func (e *Engine) SimulateMove(meters float64) {
	e.apply(func(s *game.Session) []game.Effect { return s.SimulateMove(time.Now(), meters) })
}

func (e *Engine) SimulateTurn(degrees float64) {
	e.apply(func(s *game.Session) []game.Effect { return s.SimulateTurn(time.Now(), degrees) })
}

// apply runs one event under the lock, then publishes the resulting
// snapshot and effects.
func (e *Engine) apply(event func(*game.Session) []game.Effect) {
	e.mu.Lock()
	id := e.session.ID
	prev := e.session.Phase
	effects := event(e.session)
	phase := e.session.Phase
	snap := e.session.Snapshot(time.Now())
	e.mu.Unlock()

	if phase != prev {
		slog.Debug("phase transition", "session", id, "from", prev.String(), "to", phase.String())
	}

	// Idle sessions stay quiet between events.
	if e.pub != nil && (phase.Active() || phase != prev || len(effects) > 0) {
		e.pub.Publish(snap, effects)
	}
}
