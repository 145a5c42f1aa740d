package megasena

import "sort"

// TransitionMatrix counts, for every adjacent pair of draws, how often a number in the
// earlier draw was followed by a number in the next one
type TransitionMatrix struct {
	counts [MaxNumber + 1][MaxNumber + 1]int // [from][to] -> count
	total  int
}

// newTransitionMatrix builds the matrix from chronologically ordered draws
func newTransitionMatrix(draws []Draw) *TransitionMatrix {
	m := &TransitionMatrix{}
	for i := 0; i+1 < len(draws); i++ {
		for _, from := range draws[i].Numbers {
			for _, to := range draws[i+1].Numbers {
				m.counts[from][to]++
				m.total++
			}
		}
	}
	return m
}

// Count returns how often to was drawn right after from
func (m *TransitionMatrix) Count(from, to int) int {
	if !inRange(from) || !inRange(to) {
		return 0
	}
	return m.counts[from][to]
}

// Followers returns the numbers that have followed from at least once, most frequent first
func (m *TransitionMatrix) Followers(from int) []int {
	if !inRange(from) {
		return nil
	}
	var followers []int
	for to := MinNumber; to <= MaxNumber; to++ {
		if m.counts[from][to] > 0 {
			followers = append(followers, to)
		}
	}
	sort.SliceStable(followers, func(i, j int) bool {
		return m.counts[from][followers[i]] > m.counts[from][followers[j]]
	})
	return followers
}

// Total returns the number of counted transitions
func (m *TransitionMatrix) Total() int {
	return m.total
}

// scores sums the follower counts of every reference number and normalises by the maximum
func (m *TransitionMatrix) scores(reference []int) [MaxNumber + 1]float64 {
	var sums [MaxNumber + 1]float64
	for _, from := range reference {
		if !inRange(from) {
			continue
		}
		for to := MinNumber; to <= MaxNumber; to++ {
			sums[to] += float64(m.counts[from][to])
		}
	}
	return normalize(sums)
}
