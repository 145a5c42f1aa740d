package megasena

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHypergeometricProb(t *testing.T) {
	total := 0.0
	for k := 0; k <= TicketSize; k++ {
		total += HypergeometricProb(k)
	}
	assert.InDelta(t, 1.0, total, 1e-12)
	assert.InDelta(t, 1.0/50063860, HypergeometricProb(6), 1e-20)
	assert.InDelta(t, 21465.0/50063860, HypergeometricProb(4), 1e-15)
	assert.Zero(t, HypergeometricProb(7))
	assert.Zero(t, HypergeometricProb(-1))
}

func TestSimulateMonteCarloMatchesTheory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping a million-path simulation in short mode")
	}
	r := SimulateMonteCarlo(NewRand(2024), DefaultSimulationParams())

	require.Equal(t, 1_000_000, r.Paths)
	hits := 0
	for _, h := range r.Hits {
		hits += h
	}
	assert.Equal(t, r.Paths, hits)

	expected := float64(r.Paths) * HypergeometricProb(4)
	assert.InDelta(t, expected, r.Theoretical[4], 1e-9)
	assert.InEpsilon(t, expected, float64(r.Hits[4]), 0.15)
	assert.InEpsilon(t, float64(r.Paths)*HypergeometricProb(0), float64(r.Hits[0]), 0.01)

	rate := float64(r.Hits[4]) / float64(r.Paths)
	assert.LessOrEqual(t, r.QuadraCI.Lo, rate)
	assert.GreaterOrEqual(t, r.QuadraCI.Hi, rate)
}

func TestSimulateMonteCarloAccounting(t *testing.T) {
	p := SimulationParams{
		Paths:      20_000,
		TicketCost: 2,
		Payouts:    map[int]float64{2: 1, 3: 10, 4: 100},
	}
	r := SimulateMonteCarlo(NewRand(7), p)

	assert.Equal(t, 40_000.0, r.Cost)
	assert.Equal(t, float64(r.Hits[2])+10*float64(r.Hits[3])+100*float64(r.Hits[4]), r.Payout)
	assert.InDelta(t, (r.Payout-r.Cost)/r.Cost, r.ROI, 1e-12)
	assert.InDelta(t, HypergeometricProb(2)+10*HypergeometricProb(3)+100*HypergeometricProb(4), r.ExpectedReturn, 1e-12)
	assert.Positive(t, r.Hits[2])
}

func TestSimulateMonteCarloDefaultsAndSeed(t *testing.T) {
	p := SimulationParams{Paths: 5_000}
	first := SimulateMonteCarlo(NewRand(11), p)
	second := SimulateMonteCarlo(NewRand(11), p)

	assert.Equal(t, first.Hits, second.Hits)
	assert.Equal(t, 25_000.0, first.Cost, "default ticket cost")
	assert.InDelta(t, ExpectedReturn(DefaultSimulationParams().Payouts), first.ExpectedReturn, 1e-12)
}

func TestMergeSimulations(t *testing.T) {
	p := SimulationParams{Paths: 10_000}
	a := SimulateMonteCarlo(NewRand(1), p)
	b := SimulateMonteCarlo(NewRand(2), p)
	merged := MergeSimulations(a, b)

	assert.Equal(t, 20_000, merged.Paths)
	for k := range merged.Hits {
		assert.Equal(t, a.Hits[k]+b.Hits[k], merged.Hits[k])
		assert.InDelta(t, 20_000*HypergeometricProb(k), merged.Theoretical[k], 1e-9)
	}
	assert.Equal(t, a.Cost+b.Cost, merged.Cost)
	assert.Equal(t, a.Payout+b.Payout, merged.Payout)
	assert.InDelta(t, (merged.Payout-merged.Cost)/merged.Cost, merged.ROI, 1e-12)
	assert.Equal(t, a.ExpectedReturn, merged.ExpectedReturn)

	assert.Equal(t, SimulationResult{}, MergeSimulations())
}

func TestClopperPearson(t *testing.T) {
	ci := clopperPearson(0, 100, 0.05)
	assert.Zero(t, ci.Lo)
	assert.InDelta(t, 0.0362, ci.Hi, 1e-3)

	ci = clopperPearson(100, 100, 0.05)
	assert.Equal(t, 1.0, ci.Hi)
	assert.InDelta(t, 0.9638, ci.Lo, 1e-3)

	ci = clopperPearson(50, 100, 0.05)
	assert.Less(t, ci.Lo, 0.5)
	assert.Greater(t, ci.Hi, 0.5)

	assert.Equal(t, Interval{}, clopperPearson(0, 0, 0.05))
}

func TestSimulateMonteCarloCountsPaths(t *testing.T) {
	before := testutil.ToFloat64(simulationPaths)
	SimulateMonteCarlo(NewRand(3), SimulationParams{Paths: 1_000})
	assert.Equal(t, before+1_000, testutil.ToFloat64(simulationPaths))
}

func TestParsePayouts(t *testing.T) {
	payouts, err := ParsePayouts("4:1000|5:50000|6:50000000")
	require.NoError(t, err)
	assert.Equal(t, DefaultSimulationParams().Payouts, payouts)

	payouts, err = ParsePayouts(" 3 : 2.5 | 0:0 ")
	require.NoError(t, err)
	assert.Equal(t, map[int]float64{3: 2.5, 0: 0}, payouts)

	invalid := []string{
		"",
		"4",
		"4:1000:2",
		"x:10",
		"7:10",
		"-1:10",
		"4:abc",
		"4:-5",
		"4:1|4:2",
	}
	for _, expr := range invalid {
		_, err := ParsePayouts(expr)
		assert.Error(t, err, "expression %q", expr)
	}
}

func TestFormatPayouts(t *testing.T) {
	assert.Equal(t, "4:1000|5:50000|6:50000000", FormatPayouts(DefaultSimulationParams().Payouts))
	assert.Equal(t, "3:2.5", FormatPayouts(map[int]float64{3: 2.5}))
	assert.Empty(t, FormatPayouts(nil))

	parsed, err := ParsePayouts(FormatPayouts(map[int]float64{6: 1e7, 4: 812.34}))
	require.NoError(t, err)
	assert.Equal(t, map[int]float64{6: 1e7, 4: 812.34}, parsed)
}
