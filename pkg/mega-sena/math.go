package megasena

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/combin"
)

// normalize divides every entry by the maximum entry; an all-zero table stays zero
func normalize(values [MaxNumber + 1]float64) [MaxNumber + 1]float64 {
	peak := 0.0
	for n := MinNumber; n <= MaxNumber; n++ {
		if values[n] > peak {
			peak = values[n]
		}
	}
	var out [MaxNumber + 1]float64
	if peak == 0 {
		return out
	}
	for n := MinNumber; n <= MaxNumber; n++ {
		out[n] = values[n] / peak
	}
	return out
}

// HypergeometricProb returns the probability that a uniformly drawn 6-of-60 ticket
// shares exactly k numbers with the draw: C(6,k)·C(54,6-k)/C(60,6)
func HypergeometricProb(k int) float64 {
	if k < 0 || k > TicketSize {
		return 0
	}
	others := MaxNumber - TicketSize
	num := float64(combin.Binomial(TicketSize, k)) * float64(combin.Binomial(others, TicketSize-k))
	return num / float64(combin.Binomial(MaxNumber, TicketSize))
}

// sampleWithoutReplacement picks k distinct entries of candidates uniformly at random.
// It returns every candidate when k >= len(candidates).
func sampleWithoutReplacement(rng *rand.Rand, candidates []int, k int) []int {
	pool := append([]int(nil), candidates...)
	if k >= len(pool) {
		return pool
	}
	// Partial Fisher-Yates
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// randomMask draws six distinct numbers in [1,60] as a bit set
func randomMask(rng *rand.Rand, deck *[MaxNumber]int) uint64 {
	var m uint64
	for i := 0; i < TicketSize; i++ {
		j := i + rng.IntN(MaxNumber-i)
		deck[i], deck[j] = deck[j], deck[i]
		m |= 1 << uint(deck[i])
	}
	return m
}
