package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewalk/nodewalk-server/internal/geo"
)

func testGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)), DefaultTuning())
}

func TestCandidate_WithinDistanceBounds(t *testing.T) {
	g := testGenerator(1)
	center := geo.Coordinate{Lat: 37.5663, Lon: 126.9779}
	tuning := DefaultTuning()

	for i := 0; i < 200; i++ {
		c := g.Candidate(center, 0)
		d := geo.DistanceMeters(center, c)
		assert.GreaterOrEqual(t, d, tuning.SpawnMinMeters-0.5)
		assert.LessOrEqual(t, d, tuning.SpawnMaxMeters+0.5)
	}
}

func TestCandidate_WithinHeadingCone(t *testing.T) {
	g := testGenerator(2)
	center := geo.Coordinate{Lat: 37.5663, Lon: 126.9779}

	headings := []float64{0, 45, 180, 315}
	for _, heading := range headings {
		for i := 0; i < 100; i++ {
			c := g.Candidate(center, heading)
			bearing := geo.BearingDegrees(center, c)
			assert.LessOrEqual(t, geo.AngleDiffDegrees(bearing, heading), spawnConeHalfAngle+1.0,
				"heading %.0f produced bearing %.1f", heading, bearing)
		}
	}
}

func TestSpawnBatch_CountAndFreshness(t *testing.T) {
	g := testGenerator(3)
	center := geo.Coordinate{Lat: 37.5663, Lon: 126.9779}
	tuning := DefaultTuning()

	for i := 0; i < 50; i++ {
		nodes := g.SpawnBatch(center, 90, Progress{})
		require.GreaterOrEqual(t, len(nodes), tuning.SpawnBatchMin)
		require.LessOrEqual(t, len(nodes), tuning.SpawnBatchMax)

		for _, n := range nodes {
			assert.NotEmpty(t, n.ID)
			assert.False(t, n.Discovered)
			assert.False(t, n.Captured)
			assert.Contains(t, []NodeType{NodeJunction, NodeOpenSpace, NodeEdge}, n.Type)
			assert.Contains(t, []Tier{TierBasic, TierAdvanced, TierCore}, n.Tier)
		}
	}
}

func TestSpawnBatch_UniqueIDs(t *testing.T) {
	g := testGenerator(4)
	center := geo.Coordinate{Lat: 0, Lon: 0}

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		for _, n := range g.SpawnBatch(center, 0, Progress{}) {
			assert.False(t, seen[n.ID], "duplicate node ID %s", n.ID)
			seen[n.ID] = true
		}
	}
}

func TestCompanionOffset_WithinBounds(t *testing.T) {
	g := testGenerator(5)
	tuning := DefaultTuning()

	for i := 0; i < 200; i++ {
		off := g.CompanionOffset()
		dist := math.Hypot(off.X, off.Z)
		assert.GreaterOrEqual(t, dist, tuning.CompanionOffsetMin-1e-9)
		assert.LessOrEqual(t, dist, tuning.CompanionOffsetMax+1e-9)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	center := geo.Coordinate{Lat: 37.5663, Lon: 126.9779}

	a := testGenerator(99).Candidate(center, 120)
	b := testGenerator(99).Candidate(center, 120)
	assert.Equal(t, a, b)
}
