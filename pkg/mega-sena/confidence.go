package megasena

import "math"

// Sub-score ceilings
const (
	maxFrequencyScore = 20.0
	maxSumScore       = 20.0
	maxShapeScore     = 15.0
	midShapeScore     = 10.0
	minShapeScore     = 5.0
)

// ScoreConfidence rates a ticket from 0 to 100 against the snapshot statistics. The result
// depends only on its inputs.
func ScoreConfidence(t Ticket, s *Snapshot) ConfidenceResult {
	t = NewTicket(uniqueInRange(t)...)

	sub := ConfidenceBreakdown{
		Frequency:   frequencySubScore(t, s),
		Sum:         sumSubScore(t, s),
		Parity:      paritySubScore(t),
		Quadrants:   quadrantSubScore(t),
		Consecutive: consecutiveSubScore(t),
		Delay:       delaySubScore(t, s),
	}
	score := sub.Frequency + sub.Sum + sub.Parity + sub.Quadrants + sub.Consecutive + sub.Delay

	return ConfidenceResult{
		Score:     score,
		Label:     ConfidenceLabelFor(score),
		SubScores: sub,
	}
}

// ConfidenceLabelFor maps a total score to its label
func ConfidenceLabelFor(score float64) ConfidenceLabel {
	switch {
	case score >= 85:
		return ConfidenceExcellent
	case score >= 70:
		return ConfidenceGood
	case score >= 55:
		return ConfidenceRegular
	default:
		return ConfidenceWeak
	}
}

func frequencySubScore(t Ticket, s *Snapshot) float64 {
	global := s.MeanFrequency()
	if global == 0 || len(t) == 0 {
		return 0
	}
	counts := s.FrequencyCounts()
	total := 0
	for _, n := range t {
		total += counts[n]
	}
	mean := float64(total) / float64(len(t))
	return math.Min(maxFrequencyScore, 10*mean/global)
}

func sumSubScore(t Ticket, s *Snapshot) float64 {
	if s.Len() == 0 {
		return 0
	}
	mean, std := s.SumStats()
	sum := float64(t.Sum())
	lo, hi := mean-std, mean+std
	if sum >= lo && sum <= hi {
		return maxSumScore
	}
	distance := lo - sum
	if sum > hi {
		distance = sum - hi
	}
	scale := math.Max(std, 1)
	return math.Max(0, maxSumScore-10*distance/scale)
}

func paritySubScore(t Ticket) float64 {
	switch t.Evens() {
	case 3:
		return maxShapeScore
	case 2, 4:
		return midShapeScore
	}
	return minShapeScore
}

func quadrantSubScore(t Ticket) float64 {
	var filled [4]bool
	for _, n := range t {
		filled[quadrant(n)] = true
	}
	empty := 0
	for _, f := range filled {
		if !f {
			empty++
		}
	}
	switch empty {
	case 0:
		return maxShapeScore
	case 1:
		return midShapeScore
	}
	return minShapeScore
}

func consecutiveSubScore(t Ticket) float64 {
	pairs := 0
	for i := 1; i < len(t); i++ {
		if t[i] == t[i-1]+1 {
			pairs++
		}
	}
	switch {
	case pairs == 1 || pairs == 2:
		return maxShapeScore
	case pairs == 0:
		return midShapeScore
	}
	return minShapeScore
}

func delaySubScore(t Ticket, s *Snapshot) float64 {
	if len(t) == 0 {
		return minShapeScore
	}
	delays := s.Delays()
	total := 0
	for _, n := range t {
		total += delays[n]
	}
	mean := float64(total) / float64(len(t))
	switch {
	case mean >= 3 && mean <= 8:
		return maxShapeScore
	case mean < 3:
		return midShapeScore
	}
	return minShapeScore
}
