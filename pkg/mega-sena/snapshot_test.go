package megasena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyScores(t *testing.T) {
	s := threeDraws(t)
	scores := s.FrequencyScores()

	for n := 1; n <= 4; n++ {
		assert.InDelta(t, 2.0/3.0, scores[n], 1e-12, "number %d", n)
	}
	assert.Equal(t, 1.0, scores[5])
	assert.Equal(t, 1.0, scores[6])
	for n := 7; n <= 10; n++ {
		assert.InDelta(t, 1.0/3.0, scores[n], 1e-12, "number %d", n)
	}
	for n := 11; n <= MaxNumber; n++ {
		assert.Zero(t, scores[n], "number %d", n)
	}

	assert.InDelta(t, 18.0/60.0, s.MeanFrequency(), 1e-12)
}

func TestFrequencyScoresNumberInEveryDraw(t *testing.T) {
	s := snapshot(t,
		draw(1, 1, 2, 3, 4, 5, 6),
		draw(2, 1, 7, 8, 9, 10, 11),
		draw(3, 1, 12, 13, 14, 15, 16),
	)
	scores := s.FrequencyScores()

	assert.Equal(t, 1.0, scores[1])
	for n := 2; n <= 16; n++ {
		assert.InDelta(t, 1.0/3.0, scores[n], 1e-12)
	}
	assert.Zero(t, scores[17])
}

func TestTransitionScoresOnlyUseAdjacentDraws(t *testing.T) {
	s := snapshot(t,
		draw(1, 1, 2, 3, 4, 5, 6),
		draw(2, 7, 8, 9, 10, 11, 12),
		draw(3, 1, 2, 3, 4, 5, 6),
	)

	scores := s.TransitionScores([]int{1, 2, 3, 4, 5, 6})
	for n := 7; n <= 12; n++ {
		assert.Equal(t, 1.0, scores[n], "number %d followed the reference draw", n)
	}
	for n := 1; n <= 6; n++ {
		assert.Zero(t, scores[n], "the third draw never follows the first")
	}

	// The default reference is the latest draw, which holds the same numbers
	assert.Equal(t, scores, s.TransitionScores(nil))

	m := s.Transitions()
	assert.Equal(t, 1, m.Count(1, 7))
	assert.Equal(t, 1, m.Count(7, 1))
	assert.Zero(t, m.Count(1, 1))
	assert.Equal(t, 72, m.Total())
}

func TestTransitionScoresNeedTwoDraws(t *testing.T) {
	s := snapshot(t, draw(1, 1, 2, 3, 4, 5, 6))
	assert.Equal(t, [MaxNumber + 1]float64{}, s.TransitionScores(nil))
}

func TestTransitionFollowers(t *testing.T) {
	s := snapshot(t,
		draw(1, 1, 2, 3, 4, 5, 6),
		draw(2, 7, 8, 9, 10, 11, 12),
		draw(3, 1, 2, 3, 4, 5, 6),
		draw(4, 7, 20, 30, 40, 50, 60),
	)
	followers := s.Transitions().Followers(1)
	require.NotEmpty(t, followers)
	assert.Equal(t, 7, followers[0], "7 followed 1 twice")
	assert.Len(t, followers, 11)
}

func TestCoOccurrence(t *testing.T) {
	s := threeDraws(t)

	assert.Equal(t, 3, s.PairCount(5, 6))
	assert.Equal(t, 3, s.PairCount(6, 5))
	assert.Equal(t, 2, s.PairCount(1, 2))
	assert.Equal(t, 1, s.PairCount(5, 7))
	assert.Zero(t, s.PairCount(1, 7))
	assert.Zero(t, s.PairCount(5, 5))
	assert.Zero(t, s.PairCount(0, 5))

	top := s.TopPairs(3)
	assert.Equal(t, []PairCount{
		{A: 5, B: 6, Count: 3},
		{A: 1, B: 2, Count: 2},
		{A: 1, B: 3, Count: 2},
	}, top)
	assert.Len(t, s.TopPairs(0), 29)

	scores := s.CoOccurrenceScores()
	assert.Equal(t, 1.0, scores[5])
	assert.Equal(t, 1.0, scores[6])
	assert.InDelta(t, 10.0/15.0, scores[1], 1e-12)
	assert.InDelta(t, 5.0/15.0, scores[7], 1e-12)
	assert.Zero(t, scores[11])
}

func TestDelays(t *testing.T) {
	s := threeDraws(t)
	delays := s.Delays()

	for n := 1; n <= 6; n++ {
		assert.Zero(t, delays[n])
	}
	for n := 7; n <= 10; n++ {
		assert.Equal(t, 1, delays[n])
	}
	assert.Equal(t, 3, delays[11], "never drawn numbers carry the history length")

	scores := s.DelayScores()
	assert.Equal(t, 1.0, scores[60])
	assert.InDelta(t, 1.0/3.0, scores[7], 1e-12)
	assert.Zero(t, scores[1])

	assert.Equal(t, []NumberDelay{{Number: 11, Delay: 3}, {Number: 12, Delay: 3}}, s.MostDelayed(2))
}

func TestSumStats(t *testing.T) {
	mean, std := threeDraws(t).SumStats()
	assert.InDelta(t, 29.0, mean, 1e-9)
	assert.InDelta(t, 13.856406, std, 1e-6)

	mean, std = snapshot(t, draw(1, 1, 2, 3, 4, 5, 6)).SumStats()
	assert.Equal(t, 21.0, mean)
	assert.Zero(t, std)
}

func TestEmptySnapshot(t *testing.T) {
	s := BuildSnapshot(History{})

	assert.Zero(t, s.Len())
	assert.Equal(t, [MaxNumber + 1]float64{}, s.FrequencyScores())
	assert.Equal(t, [MaxNumber + 1]float64{}, s.TransitionScores(nil))
	assert.Equal(t, [MaxNumber + 1]float64{}, s.CoOccurrenceScores())
	assert.Equal(t, [MaxNumber + 1]float64{}, s.DelayScores())
	assert.Zero(t, s.MeanFrequency())
	assert.Empty(t, s.TopPairs(10))

	mean, std := s.SumStats()
	assert.Zero(t, mean)
	assert.Zero(t, std)
}

func TestModelScores(t *testing.T) {
	s := threeDraws(t)

	assert.Equal(t, s.FrequencyScores(), s.ModelScores(ModelFrequency))
	assert.Equal(t, s.TransitionScores(nil), s.ModelScores(ModelTransition))
	assert.Equal(t, s.CoOccurrenceScores(), s.ModelScores(ModelCoOccurrence))
	assert.Equal(t, s.DelayScores(), s.ModelScores(ModelDelay))
	assert.Equal(t, [MaxNumber + 1]float64{}, s.ModelScores(ModelUniform))
}

func TestSnapshotConcurrentReaders(t *testing.T) {
	s := BuildSnapshot(randomHistory(t, 200, 7))
	want := BuildSnapshot(s.History()).FrequencyScores()

	var wg sync.WaitGroup
	results := make([][MaxNumber + 1]float64, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.FrequencyScores()
			s.CoOccurrenceScores()
			s.DelayScores()
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}
