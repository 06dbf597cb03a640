package game

import (
	"math"
	"math/rand"

	"github.com/nodewalk/nodewalk-server/internal/geo"
)

// Node type draw weights (junction, open space, remainder edge).
const (
	junctionWeight  = 0.40
	openSpaceWeight = 0.35
)

// Spawn bearings are confined to a cone ahead of the player so nodes appear
// plausibly reachable in the direction of travel, not behind the player.
const spawnConeHalfAngle = 60.0

// Generator produces candidate nodes around the player. The random source
// is injected so tests can seed it.
type Generator struct {
	rng    *rand.Rand
	tuning Tuning
}

// NewGenerator creates a Generator with the given seeded source.
func NewGenerator(rng *rand.Rand, tuning Tuning) *Generator {
	return &Generator{rng: rng, tuning: tuning}
}

// Candidate picks a coordinate at a uniformly random distance within the
// spawn bounds, along a bearing within the cone ahead of heading.
func (g *Generator) Candidate(center geo.Coordinate, heading float64) geo.Coordinate {
	dist := g.tuning.SpawnMinMeters + g.rng.Float64()*(g.tuning.SpawnMaxMeters-g.tuning.SpawnMinMeters)
	bearing := geo.NormalizeDegrees(heading + (g.rng.Float64()*2-1)*spawnConeHalfAngle)
	return geo.DestinationPoint(center, dist, bearing)
}

// SpawnBatch generates a randomized batch of fresh nodes, each independently
// typed by weighted draw and tiered according to current progress.
func (g *Generator) SpawnBatch(center geo.Coordinate, heading float64, progress Progress) []*Node {
	count := g.tuning.SpawnBatchMin + g.rng.Intn(g.tuning.SpawnBatchMax-g.tuning.SpawnBatchMin+1)
	weights := WeightsFor(progress)

	nodes := make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		nodes = append(nodes, NewNode(g.rollType(), weights.Roll(g.rng), g.Candidate(center, heading)))
	}
	return nodes
}

// CompanionOffset rolls a presentation offset in the local frame within the
// configured distance bounds.
func (g *Generator) CompanionOffset() geo.LocalVector {
	dist := g.tuning.CompanionOffsetMin + g.rng.Float64()*(g.tuning.CompanionOffsetMax-g.tuning.CompanionOffsetMin)
	rad := g.rng.Float64() * 2 * math.Pi
	return geo.LocalVector{
		X: dist * math.Sin(rad),
		Z: -dist * math.Cos(rad),
	}
}

func (g *Generator) rollType() NodeType {
	r := g.rng.Float64()
	switch {
	case r < junctionWeight:
		return NodeJunction
	case r < junctionWeight+openSpaceWeight:
		return NodeOpenSpace
	default:
		return NodeEdge
	}
}
