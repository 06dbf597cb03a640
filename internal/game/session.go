package game

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nodewalk/nodewalk-server/internal/geo"
)

// EffectKind identifies a one-shot notification for the rendering/UI layer.
type EffectKind int

const (
	EffectNodeDiscovered EffectKind = iota
	EffectNodeCaptured
	EffectEvacStarted
)

func (k EffectKind) String() string {
	switch k {
	case EffectNodeDiscovered:
		return "node_discovered"
	case EffectNodeCaptured:
		return "node_captured"
	case EffectEvacStarted:
		return "evac_started"
	default:
		return "unknown"
	}
}

// Effect is a one-shot external notification emitted by a transition.
type Effect struct {
	Kind   EffectKind
	NodeID string
	Tier   Tier
}

// CaptureState binds a capture countdown to a specific target node.
type CaptureState struct {
	NodeID    string
	StartedAt time.Time
}

// Session is the full game-state aggregate for one player. All mutation
// happens through its event methods, which take the current time and return
// the one-shot effects the transition produced. The caller serializes
// events; Session itself holds no locks and no wall clock.
type Session struct {
	ID    string
	Phase Phase

	Origin geo.Coordinate
	Pos    geo.Coordinate

	Heading    float64
	HasHeading bool // a compass fix has been observed this session

	Nodes      map[string]*Node
	Companions []Companion
	Stats      SessionStats
	RewardLog  []RewardRecord

	Env Environment

	capture      *CaptureState
	TargetNodeID string

	// Scheduled-transition deadlines; zero when not pending.
	carryUntil          time.Time
	evacUntil           time.Time
	evacSuppressedUntil time.Time

	hasPos        bool
	lastReading   Reading
	lastProcessed time.Time
	lastSpawnPos  geo.Coordinate

	tuning Tuning
	gen    *Generator
}

// NewSession creates an idle session.
func NewSession(tuning Tuning, gen *Generator) *Session {
	return &Session{
		ID:     uuid.New().String(),
		Phase:  PhaseIdle,
		Nodes:  make(map[string]*Node),
		tuning: tuning,
		gen:    gen,
	}
}

// Start establishes the origin from the current position and begins the
// session. A no-op unless idle with a known position.
func (s *Session) Start(now time.Time) []Effect {
	if s.Phase != PhaseIdle || !s.hasPos {
		return nil
	}

	s.Origin = s.Pos
	s.Stats.StartTime = now
	s.lastProcessed = now
	s.lastSpawnPos = s.Pos
	s.Phase = PhaseOutdoorSearch

	s.maybeSpawn(now)
	effects := s.refreshNodes()
	s.evaluate(now)
	return effects
}

// HandlePosition processes one position sample together with its optional
// heading, accuracy, and speed readings.
func (s *Session) HandlePosition(now time.Time, pos geo.Coordinate, heading, accuracy, speed *float64) []Effect {
	if heading != nil {
		s.Heading = geo.NormalizeDegrees(*heading)
		s.HasHeading = true
	}
	s.lastReading = Reading{Accuracy: accuracy, Speed: speed, HasFix: s.HasHeading}

	if !s.Phase.Active() {
		s.Pos = pos
		s.hasPos = true
		return nil
	}

	s.accumulate(now)
	if s.hasPos {
		s.Stats.DistanceWalked += geo.DistanceMeters(s.Pos, pos)
	}
	s.Pos = pos
	s.hasPos = true

	s.Env.UpdateOutdoor(s.lastReading, s.tuning)
	s.refreshIndoor(now)

	s.maybeSpawn(now)
	effects := s.refreshNodes()
	s.evaluate(now)
	return effects
}

// HandleOrientation processes a compass heading update.
func (s *Session) HandleOrientation(now time.Time, headingDegrees float64) []Effect {
	s.Heading = geo.NormalizeDegrees(headingDegrees)
	s.HasHeading = true
	s.lastReading.HasFix = true

	if !s.Phase.Active() {
		return nil
	}

	s.accumulate(now)
	s.Env.UpdateOutdoor(s.lastReading, s.tuning)
	s.evaluate(now)
	return nil
}

// BeginCapture starts the countdown on the currently targeted node. A no-op
// without an eligible target.
func (s *Session) BeginCapture(now time.Time) []Effect {
	if s.Phase != PhaseCaptureReady || s.TargetNodeID == "" {
		return nil
	}
	node := s.Nodes[s.TargetNodeID]
	if node == nil || !s.eligible(node) {
		return nil
	}

	s.capture = &CaptureState{NodeID: node.ID, StartedAt: now}
	s.Phase = PhaseCapturing
	return nil
}

// EndCapture cancels a running capture, discarding all progress.
func (s *Session) EndCapture(now time.Time) []Effect {
	if s.Phase != PhaseCapturing {
		return nil
	}
	s.capture = nil
	s.Phase = PhaseCaptureReady
	s.evaluate(now)
	return nil
}

// Evacuate confirms evacuation from the evac-ready phase, or triggers an
// emergency evacuation from any other active phase. A no-op with nothing to
// escort home.
func (s *Session) Evacuate(now time.Time) []Effect {
	switch s.Phase {
	case PhaseEvacReady, PhaseOutdoorSearch, PhaseCaptureReady, PhaseCapturing, PhaseCarrying:
		if len(s.Companions) == 0 {
			return nil
		}
		s.capture = nil
		s.TargetNodeID = ""
		s.carryUntil = time.Time{}
		s.Phase = PhaseEvacAnim
		s.evacUntil = now.Add(s.tuning.EvacDuration)
		return []Effect{{Kind: EffectEvacStarted}}
	default:
		return nil
	}
}

// ContinueExploring leaves the evac-ready phase and suppresses automatic
// re-entry for the configured cooldown.
func (s *Session) ContinueExploring(now time.Time) []Effect {
	if s.Phase != PhaseEvacReady {
		return nil
	}
	s.Phase = PhaseOutdoorSearch
	s.evacSuppressedUntil = now.Add(s.tuning.EvacSuppression)
	s.evaluate(now)
	return nil
}

// Reset discards all session entities, stats, and pending deadlines and
// returns to idle. The last known position survives so a new session can
// start immediately.
func (s *Session) Reset(now time.Time) []Effect {
	s.Phase = PhaseIdle
	s.Origin = geo.Coordinate{}
	s.Nodes = make(map[string]*Node)
	s.Companions = nil
	s.RewardLog = nil
	s.Stats = SessionStats{}
	s.Env.Reset()
	s.capture = nil
	s.TargetNodeID = ""
	s.carryUntil = time.Time{}
	s.evacUntil = time.Time{}
	s.evacSuppressedUntil = time.Time{}
	s.HasHeading = false
	s.lastProcessed = time.Time{}
	return nil
}

// ToggleManualOutdoor flips the manual outdoor override.
func (s *Session) ToggleManualOutdoor(now time.Time) []Effect {
	s.Env.SetManualOutdoor(!s.Env.ManualOutdoor)
	if s.Phase.Active() {
		s.accumulate(now)
		s.evaluate(now)
	}
	return nil
}

// ToggleManualHome flips the manual home override.
func (s *Session) ToggleManualHome(now time.Time) []Effect {
	s.Env.SetManualHome(!s.Env.ManualHome)
	if s.Phase.Active() {
		s.accumulate(now)
		s.evaluate(now)
	}
	return nil
}

// SimulateMove synthesizes a position update the given distance along the
// current heading. Debug aid; runs through the same path as real sensors.
func (s *Session) SimulateMove(now time.Time, meters float64) []Effect {
	if !s.hasPos {
		return nil
	}
	next := geo.DestinationPoint(s.Pos, meters, s.Heading)
	return s.HandlePosition(now, next, nil, s.lastReading.Accuracy, s.lastReading.Speed)
}

// SimulateTurn synthesizes a heading update relative to the current heading.
func (s *Session) SimulateTurn(now time.Time, degrees float64) []Effect {
	return s.HandleOrientation(now, s.Heading+degrees)
}

// Tick advances the time-driven pieces: the capture countdown, the carrying
// window, the evac animation, and the indoor debounce.
func (s *Session) Tick(now time.Time) []Effect {
	if !s.Phase.Active() {
		return nil
	}

	s.accumulate(now)

	var effects []Effect
	switch s.Phase {
	case PhaseCapturing:
		if e := s.tickCapture(now); e != nil {
			effects = append(effects, *e)
		}
	case PhaseCarrying:
		if !s.carryUntil.IsZero() && !now.Before(s.carryUntil) {
			s.carryUntil = time.Time{}
			s.Phase = PhaseOutdoorSearch
		}
	case PhaseEvacAnim:
		if !s.evacUntil.IsZero() && !now.Before(s.evacUntil) {
			s.evacUntil = time.Time{}
			s.Phase = PhaseResult
		}
	}

	// The indoor hold can elapse without a new sensor sample.
	s.refreshIndoor(now)
	s.evaluate(now)
	return effects
}

// CaptureProgress returns the running capture's progress in [0, 1].
func (s *Session) CaptureProgress(now time.Time) float64 {
	if s.capture == nil {
		return 0
	}
	node := s.Nodes[s.capture.NodeID]
	if node == nil {
		return 0
	}
	total := s.tuning.CaptureDuration(node.Tier)
	if total <= 0 {
		return 1
	}
	p := float64(now.Sub(s.capture.StartedAt)) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// DistanceToHome returns the distance from the current position to the
// session origin.
func (s *Session) DistanceToHome() float64 {
	return geo.DistanceMeters(s.Pos, s.Origin)
}

// ActiveNodeCount returns the number of uncaptured nodes.
func (s *Session) ActiveNodeCount() int {
	count := 0
	for _, n := range s.Nodes {
		if n.Active() {
			count++
		}
	}
	return count
}

// Progress returns the reward-progression signals as of now.
func (s *Session) Progress(now time.Time) Progress {
	var dur time.Duration
	if !s.Stats.StartTime.IsZero() {
		dur = now.Sub(s.Stats.StartTime)
	}
	return Progress{
		DistanceWalked:  s.Stats.DistanceWalked,
		SessionDuration: dur,
		Companions:      len(s.Companions),
	}
}

// tickCapture advances the countdown and completes the capture exactly once.
// Stale ticks for an already-captured node are dropped.
func (s *Session) tickCapture(now time.Time) *Effect {
	if s.capture == nil {
		return nil
	}
	node := s.Nodes[s.capture.NodeID]
	if node == nil || node.Captured {
		s.capture = nil
		s.TargetNodeID = ""
		s.Phase = PhaseOutdoorSearch
		return nil
	}
	if now.Sub(s.capture.StartedAt) < s.tuning.CaptureDuration(node.Tier) {
		return nil
	}

	node.Captured = true
	s.capture = nil
	s.TargetNodeID = ""

	s.RewardLog = append(s.RewardLog, RewardRecord{NodeID: node.ID, Type: node.Type, Tier: node.Tier})
	s.Stats.RewardsCollected++
	s.Companions = append(s.Companions, Companion{
		ID:     uuid.New().String(),
		Tier:   node.Tier,
		Offset: s.gen.CompanionOffset(),
	})

	s.Phase = PhaseCarrying
	s.carryUntil = now.Add(s.tuning.CarryDelay)

	return &Effect{Kind: EffectNodeCaptured, NodeID: node.ID, Tier: node.Tier}
}

// evaluate reruns the reactive transition rules. Called after every
// processed input.
func (s *Session) evaluate(now time.Time) {
	switch s.Phase {
	case PhaseOutdoorSearch, PhaseCaptureReady, PhaseCapturing, PhaseCarrying:
		if s.evacEligible() && now.After(s.evacSuppressedUntil) {
			s.capture = nil
			s.TargetNodeID = ""
			s.carryUntil = time.Time{}
			s.Phase = PhaseEvacReady
			return
		}
	case PhaseEvacReady:
		// Implicit cancellation: the precondition stopped holding.
		if !s.evacEligible() {
			s.Phase = PhaseOutdoorSearch
		}
	}

	switch s.Phase {
	case PhaseOutdoorSearch, PhaseCaptureReady:
		if target := s.nearestEligible(); target != nil {
			s.Phase = PhaseCaptureReady
			s.TargetNodeID = target.ID
		} else {
			s.Phase = PhaseOutdoorSearch
			s.TargetNodeID = ""
		}
	}
}

func (s *Session) evacEligible() bool {
	return len(s.Companions) > 0 && s.DistanceToHome() < s.tuning.HomeRadius && s.Env.Indoor()
}

// eligible reports whether a node is capture-eligible from the current
// position. The reticle check only applies once a heading fix exists.
func (s *Session) eligible(n *Node) bool {
	if !n.Discovered || n.Captured {
		return false
	}
	if geo.DistanceMeters(s.Pos, n.GeoPos) >= s.tuning.CaptureRadius {
		return false
	}
	if !s.HasHeading {
		return true
	}
	bearing := geo.BearingDegrees(s.Pos, n.GeoPos)
	return geo.AngleDiffDegrees(bearing, s.Heading) <= s.tuning.ReticleHalfAngle
}

// nearestEligible returns the closest capture-eligible node, or nil.
func (s *Session) nearestEligible() *Node {
	var best *Node
	bestDist := 0.0
	for _, n := range s.Nodes {
		if !s.eligible(n) {
			continue
		}
		d := geo.DistanceMeters(s.Pos, n.GeoPos)
		if best == nil || d < bestDist {
			best = n
			bestDist = d
		}
	}
	return best
}

// refreshNodes recomputes origin-relative local positions and latches
// discoveries. Local positions are always derived fresh from geographic
// coordinates, never accumulated, so frame drift cannot build up.
func (s *Session) refreshNodes() []Effect {
	var effects []Effect
	for _, n := range s.Nodes {
		if !n.Active() {
			continue
		}
		n.LocalPos = geo.GeoToLocal(s.Origin, n.GeoPos)
		if !n.Discovered && geo.DistanceMeters(s.Pos, n.GeoPos) < s.tuning.DiscoverRadius {
			n.Discovered = true
			effects = append(effects, Effect{Kind: EffectNodeDiscovered, NodeID: n.ID, Tier: n.Tier})
		}
	}
	return effects
}

// maybeSpawn tops up the node set when too few remain active or the player
// has walked past the respawn step since the last batch.
func (s *Session) maybeSpawn(now time.Time) {
	if s.ActiveNodeCount() >= s.tuning.MinActiveNodes &&
		geo.DistanceMeters(s.Pos, s.lastSpawnPos) <= s.tuning.RespawnStepMeters {
		return
	}
	s.spawn(now)
}

func (s *Session) spawn(now time.Time) {
	for _, n := range s.gen.SpawnBatch(s.Pos, s.Heading, s.Progress(now)) {
		s.Nodes[n.ID] = n
	}
	s.lastSpawnPos = s.Pos
}

// refreshIndoor re-derives the indoor candidacy from the last readings and
// advances the debounce.
func (s *Session) refreshIndoor(now time.Time) {
	candidate := s.hasPos &&
		s.DistanceToHome() < s.tuning.HomeRadius &&
		AccuracyOrDefault(s.lastReading.Accuracy, s.tuning) >= s.tuning.IndoorAccuracyMin
	s.Env.UpdateIndoor(now, candidate, s.tuning)
}

// accumulate applies the monotonic wall-clock delta since the previously
// processed event to the time-based stats. Out-of-order timestamps
// contribute nothing.
func (s *Session) accumulate(now time.Time) {
	if s.lastProcessed.IsZero() {
		s.lastProcessed = now
		return
	}
	delta := now.Sub(s.lastProcessed)
	if delta <= 0 {
		return
	}
	s.lastProcessed = now
	if s.Env.Outdoor() {
		s.Stats.OutdoorTime += delta
	}
}

// Snapshot is the read-only view handed to the rendering/UI layer.
type Snapshot struct {
	Phase           Phase           `json:"state"`
	Nodes           []Node          `json:"nodes"`
	Companions      []Companion     `json:"companions"`
	Stats           SessionStats    `json:"stats"`
	RewardLog       []RewardRecord  `json:"reward_log"`
	Pos             geo.Coordinate  `json:"current_pos"`
	Origin          geo.Coordinate  `json:"origin_pos"`
	Heading         float64         `json:"heading"`
	HasHeading      bool            `json:"has_heading"`
	Outdoor         bool            `json:"outdoor"`
	Indoor          bool            `json:"indoor"`
	ManualOutdoor   bool            `json:"manual_outdoor"`
	ManualHome      bool            `json:"manual_home"`
	CaptureProgress float64         `json:"capture_progress"`
	TargetNodeID    string          `json:"target_node_id,omitempty"`
}

// Snapshot copies the session state for consumers. Nodes are sorted by ID
// for a stable wire order.
func (s *Session) Snapshot(now time.Time) Snapshot {
	nodes := make([]Node, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		nodes = append(nodes, *n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	companions := make([]Companion, len(s.Companions))
	copy(companions, s.Companions)

	rewards := make([]RewardRecord, len(s.RewardLog))
	copy(rewards, s.RewardLog)

	return Snapshot{
		Phase:           s.Phase,
		Nodes:           nodes,
		Companions:      companions,
		Stats:           s.Stats,
		RewardLog:       rewards,
		Pos:             s.Pos,
		Origin:          s.Origin,
		Heading:         s.Heading,
		HasHeading:      s.HasHeading,
		Outdoor:         s.Env.Outdoor(),
		Indoor:          s.Env.Indoor(),
		ManualOutdoor:   s.Env.ManualOutdoor,
		ManualHome:      s.Env.ManualHome,
		CaptureProgress: s.CaptureProgress(now),
		TargetNodeID:    s.TargetNodeID,
	}
}
