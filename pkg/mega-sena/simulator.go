package megasena

import (
	"math/bits"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// quadraMatches is the smallest intersection in the official prize table
const quadraMatches = 4

// SimulateMonteCarlo plays p.Paths random tickets against p.Paths independent random draws and
// compares the resulting prize money with the ticket spend. Zero-valued params use defaults.
func SimulateMonteCarlo(rng *rand.Rand, p SimulationParams) SimulationResult {
	startTime := time.Now()
	p = withSimulationDefaults(p)
	if rng == nil {
		rng = NewEntropyRand()
	}

	var deck [MaxNumber]int
	for i := range deck {
		deck[i] = i + 1
	}

	result := SimulationResult{Paths: p.Paths}
	for path := 0; path < p.Paths; path++ {
		ticket := randomMask(rng, &deck)
		draw := randomMask(rng, &deck)
		result.Hits[bits.OnesCount64(ticket&draw)]++
	}

	for k, prize := range p.Payouts {
		if k >= 0 && k <= TicketSize {
			result.Payout += float64(result.Hits[k]) * prize
		}
	}
	result.Cost = float64(p.Paths) * p.TicketCost
	result.ExpectedReturn = ExpectedReturn(p.Payouts)
	finalizeSimulation(&result)
	result.ProcessingTime = time.Since(startTime)

	simulationPaths.Add(float64(p.Paths))
	componentLogger(nil, "simulation").WithFields(logrus.Fields{
		"paths":   result.Paths,
		"quadras": result.Hits[4],
		"quinas":  result.Hits[5],
		"senas":   result.Hits[6],
		"roi":     result.ROI,
		"elapsed": result.ProcessingTime,
	}).Info("monte carlo simulation finished")

	return result
}

// ExpectedReturn is the closed-form expected prize of one random ticket
func ExpectedReturn(payouts map[int]float64) float64 {
	total := 0.0
	for k, v := range payouts {
		total += HypergeometricProb(k) * v
	}
	return total
}

// MergeSimulations combines independent runs made with the same params into one result
func MergeSimulations(results ...SimulationResult) SimulationResult {
	var merged SimulationResult
	for _, r := range results {
		merged.Paths += r.Paths
		for k := range r.Hits {
			merged.Hits[k] += r.Hits[k]
		}
		merged.Payout += r.Payout
		merged.Cost += r.Cost
		if merged.ExpectedReturn == 0 {
			merged.ExpectedReturn = r.ExpectedReturn
		}
		// Runs are expected to overlap in time
		if r.ProcessingTime > merged.ProcessingTime {
			merged.ProcessingTime = r.ProcessingTime
		}
	}
	finalizeSimulation(&merged)
	return merged
}

// finalizeSimulation derives theoretical counts, ROI and the quadra interval from the totals
func finalizeSimulation(r *SimulationResult) {
	for k := range r.Theoretical {
		r.Theoretical[k] = float64(r.Paths) * HypergeometricProb(k)
	}
	r.ROI = 0
	if r.Cost > 0 {
		r.ROI = (r.Payout - r.Cost) / r.Cost
	}
	r.QuadraCI = clopperPearson(r.Hits[quadraMatches], r.Paths, 0.05)
}

// clopperPearson returns the exact binomial interval for k successes in n trials
func clopperPearson(k, n int, alpha float64) Interval {
	if n <= 0 {
		return Interval{}
	}
	ci := Interval{Lo: 0, Hi: 1}
	if k > 0 {
		ci.Lo = distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	}
	if k < n {
		ci.Hi = distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)
	}
	return ci
}

func withSimulationDefaults(p SimulationParams) SimulationParams {
	defaults := DefaultSimulationParams()
	if p.Paths <= 0 {
		p.Paths = defaults.Paths
	}
	if p.TicketCost <= 0 {
		p.TicketCost = defaults.TicketCost
	}
	if p.Payouts == nil {
		p.Payouts = defaults.Payouts
	}
	return p
}
