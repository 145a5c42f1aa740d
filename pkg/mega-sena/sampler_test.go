package megasena

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler(seed uint64) *Sampler {
	return NewSampler(NewRand(seed), DefaultSamplerParams(), quietLogger())
}

func TestNewSamplerAppliesDefaults(t *testing.T) {
	sm := NewSampler(NewRand(1), SamplerParams{}, nil)
	assert.Equal(t, DefaultSamplerParams(), sm.Params())

	sm = NewSampler(NewRand(1), SamplerParams{MaxAttempts: 3}, nil)
	assert.Equal(t, 3, sm.Params().MaxAttempts)
	assert.Equal(t, 100, sm.Params().InnerDraws)
}

func TestSampleWeightedProducesValidTickets(t *testing.T) {
	s := BuildSnapshot(randomHistory(t, 300, 11))
	scores := CombineScores(s, EqualWeights(ScoringModels), nil, nil)
	sm := newTestSampler(42)

	for i := 0; i < 500; i++ {
		ticket, err := sm.SampleWeighted(scores, false, nil, nil)
		require.NoError(t, err)
		require.True(t, ticket.Valid(), "ticket %v", ticket)
	}
	assert.Equal(t, 500, sm.Stats().Weighted)
	assert.Zero(t, sm.Stats().Fallbacks)
}

func TestSampleWeightedFollowsScores(t *testing.T) {
	var scores Scores
	scores[7] = 1
	sm := newTestSampler(3)

	hits := 0
	for i := 0; i < 500; i++ {
		ticket, err := sm.SampleWeighted(scores, false, nil, nil)
		require.NoError(t, err)
		if ticket.Contains(7) {
			hits++
		}
	}
	// Uniform sampling would include 7 in about 50 of 500 tickets
	assert.Greater(t, hits, 250)
}

func TestSampleWeightedFixedAndExcluded(t *testing.T) {
	s := BuildSnapshot(randomHistory(t, 100, 5))
	scores := CombineScores(s, WeightMap{ModelFrequency: 1}, nil, nil)
	sm := newTestSampler(9)

	fixed := []int{13, 44}
	excluded := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	for i := 0; i < 200; i++ {
		ticket, err := sm.SampleWeighted(scores, false, fixed, excluded)
		require.NoError(t, err)
		require.True(t, ticket.Valid())
		assert.True(t, ticket.Contains(13))
		assert.True(t, ticket.Contains(44))
		for _, n := range excluded {
			assert.False(t, ticket.Contains(n), "excluded %d on %v", n, ticket)
		}
	}
}

func TestSampleWeightedBalanced(t *testing.T) {
	s := BuildSnapshot(randomHistory(t, 300, 21))
	scores := CombineScores(s, WeightMap{ModelFrequency: 1, ModelDelay: 0.5}, nil, nil)
	sm := newTestSampler(77)

	balanced := 0
	for i := 0; i < 1000; i++ {
		ticket, err := sm.SampleWeighted(scores, true, nil, nil)
		require.NoError(t, err)
		require.True(t, ticket.Valid())
		if isBalanced(ticket) && ticket.Evens() == 3 {
			balanced++
		}
	}
	assert.Zero(t, sm.Stats().Fallbacks)
	assert.Equal(t, 1000, balanced)
}

func TestSampleWeightedFallbackIsCounted(t *testing.T) {
	before := testutil.ToFloat64(samplerFallbacks)
	sm := NewSampler(NewRand(5), SamplerParams{MaxAttempts: 10}, quietLogger())

	// Four even fixed numbers make three evens impossible
	ticket, err := sm.SampleWeighted(Scores{}, true, []int{2, 4, 6, 8}, nil)
	require.NoError(t, err)
	assert.True(t, ticket.Valid())
	assert.True(t, ticket.Contains(2))

	assert.Equal(t, 1, sm.Stats().Fallbacks)
	assert.Equal(t, 1, sm.Stats().Uniform)
	assert.Equal(t, before+1, testutil.ToFloat64(samplerFallbacks))
}

func TestSampleWeightedWithoutSignalIsUniform(t *testing.T) {
	sm := newTestSampler(1)
	ticket, err := sm.SampleWeighted(Scores{}, false, nil, nil)
	require.NoError(t, err)
	assert.True(t, ticket.Valid())
	assert.Equal(t, SamplerStats{Uniform: 1}, sm.Stats())
}

func TestSampleEmptyCandidatePool(t *testing.T) {
	excluded := make([]int, 0, MaxNumber)
	for n := MinNumber; n <= MaxNumber; n++ {
		excluded = append(excluded, n)
	}
	sm := newTestSampler(1)

	_, err := sm.SampleWeighted(Scores{}, false, nil, excluded)
	assert.True(t, errors.Is(err, ErrEmptyCandidatePool))

	_, err = sm.SampleUniform(nil, excluded)
	assert.True(t, errors.Is(err, ErrEmptyCandidatePool))
}

func TestSampleShortPool(t *testing.T) {
	excluded := make([]int, 0, MaxNumber)
	for n := 4; n <= MaxNumber; n++ {
		excluded = append(excluded, n)
	}
	sm := newTestSampler(1)

	ticket, err := sm.SampleWeighted(Scores{1: 1}, false, nil, excluded)
	require.NoError(t, err)
	assert.Equal(t, Ticket{1, 2, 3}, ticket)
	assert.False(t, ticket.Complete())
	assert.Equal(t, 1, sm.Stats().Fallbacks)
}

func TestSampleFullyFixedTicket(t *testing.T) {
	sm := newTestSampler(1)
	ticket, err := sm.SampleWeighted(Scores{}, false, []int{60, 50, 40, 30, 20, 10, 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, Ticket{10, 20, 30, 40, 50, 60}, ticket)
}

func TestSampleUniform(t *testing.T) {
	sm := newTestSampler(8)
	seen := make(map[int]bool)
	for i := 0; i < 300; i++ {
		ticket, err := sm.SampleUniform([]int{1}, []int{2})
		require.NoError(t, err)
		require.True(t, ticket.Valid())
		assert.True(t, ticket.Contains(1))
		assert.False(t, ticket.Contains(2))
		for _, n := range ticket {
			seen[n] = true
		}
	}
	assert.Len(t, seen, MaxNumber-1, "every allowed number shows up")
}

func TestSampleBatchPolicies(t *testing.T) {
	s := BuildSnapshot(randomHistory(t, 200, 13))
	sm := newTestSampler(99)

	tickets, err := sm.SampleBatch(s, BatchRequest{
		Count:  10,
		Models: []Model{ModelFrequency, ModelTransition, ModelCoOccurrence, ModelDelay, ModelBalanced, ModelUniform},
	})
	require.NoError(t, err)
	require.Len(t, tickets, 10)

	labels := make([]string, len(tickets))
	keys := make(map[string]bool)
	for i, lt := range tickets {
		labels[i] = lt.Label
		assert.True(t, lt.Ticket.Valid())
		keys[lt.Ticket.Key()] = true
	}
	assert.Len(t, keys, 10, "tickets are distinct")
	assert.Equal(t, []string{
		"frequency", "transition", "cooccurrence", "delay", "balanced", "uniform",
		"blended", "blended", "blended", "blended",
	}, labels)
	assert.True(t, isBalanced(tickets[4].Ticket))
}

func TestSampleBatchStopsAtCount(t *testing.T) {
	s := BuildSnapshot(randomHistory(t, 50, 2))
	sm := newTestSampler(4)

	tickets, err := sm.SampleBatch(s, BatchRequest{
		Count:  2,
		Models: []Model{ModelFrequency, ModelTransition, ModelDelay},
	})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "frequency", tickets[0].Label)
	assert.Equal(t, "transition", tickets[1].Label)
}

func TestSampleBatchUniformOnly(t *testing.T) {
	sm := newTestSampler(4)
	tickets, err := sm.SampleBatch(BuildSnapshot(History{}), BatchRequest{Count: 5, Models: []Model{ModelUniform}})
	require.NoError(t, err)
	require.Len(t, tickets, 5)
	for _, lt := range tickets {
		assert.Equal(t, "uniform", lt.Label)
	}
}

func TestSampleBatchBoundedShortfall(t *testing.T) {
	excluded := make([]int, 0, MaxNumber)
	for n := 7; n <= MaxNumber; n++ {
		excluded = append(excluded, n)
	}
	sm := newTestSampler(4)

	// Only one distinct ticket exists
	tickets, err := sm.SampleBatch(BuildSnapshot(randomHistory(t, 20, 1)), BatchRequest{
		Count:    3,
		Models:   []Model{ModelFrequency},
		Fixed:    []int{1, 2, 3, 4, 5},
		Excluded: excluded,
	})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, Ticket{1, 2, 3, 4, 5, 6}, tickets[0].Ticket)
}

func TestSampleBatchRejectsInvalidRequests(t *testing.T) {
	s := BuildSnapshot(History{})
	sm := newTestSampler(1)

	_, err := sm.SampleBatch(s, BatchRequest{Count: 0, Models: []Model{ModelUniform}})
	assert.True(t, errors.Is(err, ErrInvalidCount))

	_, err = sm.SampleBatch(s, BatchRequest{Count: 1})
	assert.True(t, errors.Is(err, ErrNoModels))

	_, err = sm.SampleBatch(s, BatchRequest{Count: 1, Models: []Model{"lucky"}})
	var verrs ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestSampleBatchIsReproducible(t *testing.T) {
	s := BuildSnapshot(randomHistory(t, 100, 6))
	req := BatchRequest{Count: 8, Models: []Model{ModelFrequency, ModelDelay}, Balanced: true}

	first, err := newTestSampler(123).SampleBatch(s, req)
	require.NoError(t, err)
	second, err := newTestSampler(123).SampleBatch(s, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSampleBatchCountsTicketsByLabel(t *testing.T) {
	before := testutil.ToFloat64(ticketsGenerated.WithLabelValues("uniform"))
	sm := newTestSampler(4)
	_, err := sm.SampleBatch(BuildSnapshot(History{}), BatchRequest{Count: 3, Models: []Model{ModelUniform}})
	require.NoError(t, err)
	assert.Equal(t, before+3, testutil.ToFloat64(ticketsGenerated.WithLabelValues("uniform")))
}
