package megasena

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// topPairsForScoring is how many of the most frequent pairs feed the co-occurrence score
const topPairsForScoring = 100

// Snapshot is the frozen set of statistics derived from one History. Every model is computed
// at most once, on first use, and never mutated afterwards. Filtering the history to another
// window means building another Snapshot.
type Snapshot struct {
	history History
	log     *logrus.Entry

	freqOnce sync.Once
	freq     [MaxNumber + 1]int

	transOnce sync.Once
	trans     *TransitionMatrix

	pairOnce sync.Once
	pairs    [MaxNumber + 1][MaxNumber + 1]int // [low][high] -> count
	topPairs []PairCount                       // every observed pair, most frequent first

	delayOnce sync.Once
	delays    [MaxNumber + 1]int

	sumOnce sync.Once
	sumMean float64
	sumStd  float64
}

// BuildSnapshot creates a snapshot over the given history
func BuildSnapshot(h History) *Snapshot {
	return &Snapshot{
		history: h,
		log:     componentLogger(nil, "statistics"),
	}
}

// SnapshotFromDraws validates draws and builds a snapshot over them
func SnapshotFromDraws(draws []Draw) (*Snapshot, error) {
	h, err := NewHistory(draws)
	if err != nil {
		return nil, err
	}
	return BuildSnapshot(h), nil
}

// History returns the history the snapshot was built from
func (s *Snapshot) History() History {
	return s.history
}

// Len returns the number of draws in the snapshot
func (s *Snapshot) Len() int {
	return s.history.Len()
}

// FrequencyCounts returns how many draws contained each number
func (s *Snapshot) FrequencyCounts() [MaxNumber + 1]int {
	s.freqOnce.Do(func() {
		for _, d := range s.history.draws {
			for _, n := range d.Numbers {
				s.freq[n]++
			}
		}
		s.log.WithField("draws", s.history.Len()).Debug("frequency counts computed")
	})
	return s.freq
}

// FrequencyScores returns count / max(count) per number
func (s *Snapshot) FrequencyScores() [MaxNumber + 1]float64 {
	counts := s.FrequencyCounts()
	var values [MaxNumber + 1]float64
	for n := MinNumber; n <= MaxNumber; n++ {
		values[n] = float64(counts[n])
	}
	return normalize(values)
}

// MeanFrequency returns the mean draw count over all sixty numbers
func (s *Snapshot) MeanFrequency() float64 {
	counts := s.FrequencyCounts()
	total := 0
	for n := MinNumber; n <= MaxNumber; n++ {
		total += counts[n]
	}
	return float64(total) / MaxNumber
}

// Transitions returns the draw-to-next-draw transition matrix
func (s *Snapshot) Transitions() *TransitionMatrix {
	s.transOnce.Do(func() {
		s.trans = newTransitionMatrix(s.history.draws)
		s.log.WithField("transitions", s.trans.Total()).Debug("transition matrix computed")
	})
	return s.trans
}

// TransitionScores sums, for each number, how often it followed any reference number in the
// next draw, normalised by the maximum. A nil reference uses the most recent draw.
func (s *Snapshot) TransitionScores(reference []int) [MaxNumber + 1]float64 {
	if s.history.Len() < 2 {
		return [MaxNumber + 1]float64{}
	}
	if reference == nil {
		latest, _ := s.history.Latest()
		reference = latest.Numbers
	}
	return s.Transitions().scores(uniqueInRange(reference))
}

func (s *Snapshot) computePairs() {
	s.pairOnce.Do(func() {
		for _, d := range s.history.draws {
			for i := 0; i < len(d.Numbers); i++ {
				for j := i + 1; j < len(d.Numbers); j++ {
					s.pairs[d.Numbers[i]][d.Numbers[j]]++
				}
			}
		}
		for a := MinNumber; a <= MaxNumber; a++ {
			for b := a + 1; b <= MaxNumber; b++ {
				if c := s.pairs[a][b]; c > 0 {
					s.topPairs = append(s.topPairs, PairCount{A: a, B: b, Count: c})
				}
			}
		}
		// Stable sort keeps (a,b) ascending order among equal counts
		sort.SliceStable(s.topPairs, func(i, j int) bool {
			return s.topPairs[i].Count > s.topPairs[j].Count
		})
		s.log.WithField("pairs", len(s.topPairs)).Debug("co-occurrence counts computed")
	})
}

// PairCount returns how many draws contained both a and b
func (s *Snapshot) PairCount(a, b int) int {
	if !inRange(a) || !inRange(b) || a == b {
		return 0
	}
	if a > b {
		a, b = b, a
	}
	s.computePairs()
	return s.pairs[a][b]
}

// TopPairs returns the n most frequent pairs (all observed pairs if n <= 0)
func (s *Snapshot) TopPairs(n int) []PairCount {
	s.computePairs()
	if n <= 0 || n > len(s.topPairs) {
		n = len(s.topPairs)
	}
	return append([]PairCount(nil), s.topPairs[:n]...)
}

// CoOccurrenceScores sums, for each number, the counts of the top 100 pairs containing it,
// normalised by the maximum
func (s *Snapshot) CoOccurrenceScores() [MaxNumber + 1]float64 {
	var sums [MaxNumber + 1]float64
	for _, p := range s.TopPairs(topPairsForScoring) {
		sums[p.A] += float64(p.Count)
		sums[p.B] += float64(p.Count)
	}
	return normalize(sums)
}

// Delays returns, per number, how many of the most recent draws in a row did not contain it.
// A number never drawn has a delay equal to the history length.
func (s *Snapshot) Delays() [MaxNumber + 1]int {
	s.delayOnce.Do(func() {
		draws := s.history.draws
		for n := MinNumber; n <= MaxNumber; n++ {
			delay := 0
			for i := len(draws) - 1; i >= 0; i-- {
				if Ticket(draws[i].Numbers).Contains(n) {
					break
				}
				delay++
			}
			s.delays[n] = delay
		}
		s.log.Debug("delays computed")
	})
	return s.delays
}

// DelayScores returns delay / max(delay) per number
func (s *Snapshot) DelayScores() [MaxNumber + 1]float64 {
	delays := s.Delays()
	var values [MaxNumber + 1]float64
	for n := MinNumber; n <= MaxNumber; n++ {
		values[n] = float64(delays[n])
	}
	return normalize(values)
}

// MostDelayed returns the n numbers absent longest, ties broken by number
func (s *Snapshot) MostDelayed(n int) []NumberDelay {
	delays := s.Delays()
	out := make([]NumberDelay, 0, MaxNumber)
	for num := MinNumber; num <= MaxNumber; num++ {
		out = append(out, NumberDelay{Number: num, Delay: delays[num]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Delay > out[j].Delay
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// SumStats returns the mean and standard deviation of historical draw sums.
// The deviation is 0 with fewer than two draws.
func (s *Snapshot) SumStats() (mean, stddev float64) {
	s.sumOnce.Do(func() {
		draws := s.history.draws
		if len(draws) == 0 {
			return
		}
		sums := make([]float64, len(draws))
		for i, d := range draws {
			sums[i] = float64(Ticket(d.Numbers).Sum())
		}
		if len(sums) == 1 {
			s.sumMean = sums[0]
			return
		}
		s.sumMean, s.sumStd = stat.MeanStdDev(sums, nil)
	})
	return s.sumMean, s.sumStd
}

// ModelScores returns the normalised scores of one scoring model
func (s *Snapshot) ModelScores(m Model) [MaxNumber + 1]float64 {
	switch m {
	case ModelFrequency:
		return s.FrequencyScores()
	case ModelTransition:
		return s.TransitionScores(nil)
	case ModelCoOccurrence:
		return s.CoOccurrenceScores()
	case ModelDelay:
		return s.DelayScores()
	}
	return [MaxNumber + 1]float64{}
}

func uniqueInRange(numbers []int) []int {
	seen := make(map[int]bool, len(numbers))
	out := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if inRange(n) && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
