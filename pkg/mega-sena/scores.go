package megasena

// NormalizeSelection cleans fixed and excluded numbers: out-of-range and repeated numbers are
// dropped, excluded numbers are removed from the fixed set, and fixed is cut to its first six.
func NormalizeSelection(fixed, excluded []int) (fixedOut, excludedOut []int) {
	excludedOut = uniqueInRange(excluded)
	isExcluded := make(map[int]bool, len(excludedOut))
	for _, n := range excludedOut {
		isExcluded[n] = true
	}

	for _, n := range uniqueInRange(fixed) {
		if isExcluded[n] {
			continue
		}
		fixedOut = append(fixedOut, n)
		if len(fixedOut) == TicketSize {
			break
		}
	}
	return fixedOut, excludedOut
}

// CombineScores blends the weighted model scores into one score per number. Models with
// zero weight are never computed. Excluded numbers score 0; fixed numbers are not special
// here, the sampler places them.
func CombineScores(s *Snapshot, weights WeightMap, fixed, excluded []int) Scores {
	_, excluded = NormalizeSelection(fixed, excluded)

	var combined Scores
	for _, m := range ScoringModels {
		w := weights[m]
		if w <= 0 {
			continue
		}
		modelScores := s.ModelScores(m)
		for n := MinNumber; n <= MaxNumber; n++ {
			combined[n] += w * modelScores[n]
		}
	}
	for _, n := range excluded {
		combined[n] = 0
	}
	return combined
}

// NumberScores returns the four model components for every number. A nil reference
// scores transitions against the most recent draw.
func NumberScores(s *Snapshot, reference []int) []NumberScore {
	freq := s.FrequencyScores()
	trans := s.TransitionScores(reference)
	cooc := s.CoOccurrenceScores()
	delay := s.DelayScores()

	out := make([]NumberScore, 0, MaxNumber)
	for n := MinNumber; n <= MaxNumber; n++ {
		out = append(out, NumberScore{
			Number:       n,
			Frequency:    freq[n],
			Transition:   trans[n],
			CoOccurrence: cooc[n],
			Delay:        delay[n],
		})
	}
	return out
}

// EqualWeights gives every scoring model in models the same weight 1/len(scoring models)
func EqualWeights(models []Model) WeightMap {
	var scoring []Model
	seen := make(map[Model]bool)
	for _, m := range models {
		if m.IsScoring() && !seen[m] {
			seen[m] = true
			scoring = append(scoring, m)
		}
	}
	weights := make(WeightMap, len(scoring))
	for _, m := range scoring {
		weights[m] = 1.0 / float64(len(scoring))
	}
	return weights
}
