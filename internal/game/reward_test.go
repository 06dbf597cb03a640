package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeightsFor_Baseline(t *testing.T) {
	w := WeightsFor(Progress{})

	assert.InDelta(t, advancedBase, w.Advanced, 1e-9)
	assert.InDelta(t, coreBase, w.Core, 1e-9)
	assert.InDelta(t, 1.0, w.Basic+w.Advanced+w.Core, 1e-9)
}

func TestWeightsFor_SumsToOne(t *testing.T) {
	progresses := []Progress{
		{},
		{DistanceWalked: 250},
		{DistanceWalked: 700},
		{SessionDuration: 6 * time.Minute},
		{SessionDuration: 20 * time.Minute},
		{Companions: 1},
		{Companions: 5},
		{DistanceWalked: 10000, SessionDuration: time.Hour, Companions: 10},
	}

	for _, p := range progresses {
		w := WeightsFor(p)
		assert.InDelta(t, 1.0, w.Basic+w.Advanced+w.Core, 1e-9, "progress %+v", p)
		for _, v := range []float64{w.Basic, w.Advanced, w.Core} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestWeightsFor_Clamped(t *testing.T) {
	w := WeightsFor(Progress{DistanceWalked: 1e6, SessionDuration: 24 * time.Hour, Companions: 100})

	assert.LessOrEqual(t, w.Advanced, advancedMax)
	assert.LessOrEqual(t, w.Core, coreMax)
	assert.GreaterOrEqual(t, w.Basic, basicFloor)
}

func TestWeightsFor_MonotonicInEachSignal(t *testing.T) {
	distances := []float64{0, 100, 201, 400, 601, 2000}
	durations := []time.Duration{0, time.Minute, 6 * time.Minute, 16 * time.Minute, time.Hour}
	companions := []int{0, 1, 2, 3, 8}

	prevMass := -1.0
	for _, d := range distances {
		w := WeightsFor(Progress{DistanceWalked: d})
		mass := w.Advanced + w.Core
		assert.GreaterOrEqual(t, mass, prevMass, "distance %.0f", d)
		prevMass = mass
	}

	prevMass = -1.0
	for _, dur := range durations {
		w := WeightsFor(Progress{SessionDuration: dur})
		mass := w.Advanced + w.Core
		assert.GreaterOrEqual(t, mass, prevMass, "duration %s", dur)
		prevMass = mass
	}

	prevMass = -1.0
	for _, c := range companions {
		w := WeightsFor(Progress{Companions: c})
		mass := w.Advanced + w.Core
		assert.GreaterOrEqual(t, mass, prevMass, "companions %d", c)
		prevMass = mass
	}
}

func TestTierWeights_RollDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	w := WeightsFor(Progress{DistanceWalked: 700, Companions: 3})

	counts := map[Tier]int{}
	const rolls = 20000
	for i := 0; i < rolls; i++ {
		counts[w.Roll(rng)]++
	}

	assert.InDelta(t, w.Basic, float64(counts[TierBasic])/rolls, 0.02)
	assert.InDelta(t, w.Advanced, float64(counts[TierAdvanced])/rolls, 0.02)
	assert.InDelta(t, w.Core, float64(counts[TierCore])/rolls, 0.02)
}
