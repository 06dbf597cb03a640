package game

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nodewalk/nodewalk-server/internal/geo"
)

type NodeType int

const (
	NodeJunction NodeType = iota
	NodeOpenSpace
	NodeEdge
)

func (t NodeType) String() string {
	switch t {
	case NodeJunction:
		return "junction"
	case NodeOpenSpace:
		return "open_space"
	case NodeEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes NodeType as a string.
func (t NodeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON deserializes NodeType from a string.
func (t *NodeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "open_space":
		*t = NodeOpenSpace
	case "edge":
		*t = NodeEdge
	default:
		*t = NodeJunction
	}
	return nil
}

type Tier int

const (
	TierBasic Tier = iota
	TierAdvanced
	TierCore
)

func (t Tier) String() string {
	switch t {
	case TierAdvanced:
		return "advanced"
	case TierCore:
		return "core"
	default:
		return "basic"
	}
}

// MarshalJSON serializes Tier as a string.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON deserializes Tier from a string.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "advanced":
		*t = TierAdvanced
	case "core":
		*t = TierCore
	default:
		*t = TierBasic
	}
	return nil
}

// Node is a collectible materialized at a geographic position. Discovered
// and Captured are one-way latches: once true they never flip back, and a
// captured node is never discovery-checked or targetable again.
type Node struct {
	ID         string          `json:"id"`
	Type       NodeType        `json:"type"`
	Tier       Tier            `json:"tier"`
	GeoPos     geo.Coordinate  `json:"geo_pos"`
	LocalPos   geo.LocalVector `json:"local_pos"`
	Discovered bool            `json:"discovered"`
	Captured   bool            `json:"captured"`
}

// NewNode creates an undiscovered node at the given position.
func NewNode(typ NodeType, tier Tier, pos geo.Coordinate) *Node {
	return &Node{
		ID:     uuid.New().String(),
		Type:   typ,
		Tier:   tier,
		GeoPos: pos,
	}
}

// Active reports whether the node still participates in discovery and
// capture checks.
func (n *Node) Active() bool {
	return !n.Captured
}

// Companion is an escorted entity created once per successful capture.
// Only the presentation Offset belongs to the rendering layer.
type Companion struct {
	ID     string          `json:"id"`
	Tier   Tier            `json:"tier"`
	Offset geo.LocalVector `json:"offset"`
}

// RewardRecord is an append-only log entry written once per capture.
type RewardRecord struct {
	NodeID string   `json:"node_id"`
	Type   NodeType `json:"type"`
	Tier   Tier     `json:"tier"`
}

// SessionStats holds monotonically non-decreasing counters accumulated from
// real position deltas and elapsed outdoor time.
type SessionStats struct {
	StartTime        time.Time
	DistanceWalked   float64
	RewardsCollected int
	OutdoorTime      time.Duration
}

// MarshalJSON serializes outdoor time as milliseconds for the client.
func (s SessionStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StartTime        time.Time `json:"start_time"`
		DistanceWalked   float64   `json:"distance_walked"`
		RewardsCollected int       `json:"rewards_collected"`
		OutdoorTimeMs    int64     `json:"outdoor_time_ms"`
	}{
		StartTime:        s.StartTime,
		DistanceWalked:   s.DistanceWalked,
		RewardsCollected: s.RewardsCollected,
		OutdoorTimeMs:    s.OutdoorTime.Milliseconds(),
	})
}
