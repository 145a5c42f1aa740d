package megasena

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/sirupsen/logrus"
)

// Sampler draws tickets from combined scores. It owns its random source and counters,
// so it must not be shared between goroutines.
type Sampler struct {
	rng    *rand.Rand
	params SamplerParams
	log    *logrus.Entry
	stats  SamplerStats
}

// NewSampler creates a sampler; zero-valued params fall back to their defaults
func NewSampler(rng *rand.Rand, params SamplerParams, log *logrus.Entry) *Sampler {
	defaults := DefaultSamplerParams()
	if params.MaxAttempts <= 0 {
		params.MaxAttempts = defaults.MaxAttempts
	}
	if params.InnerDraws <= 0 {
		params.InnerDraws = defaults.InnerDraws
	}
	if params.Epsilon <= 0 {
		params.Epsilon = defaults.Epsilon
	}
	if rng == nil {
		rng = NewEntropyRand()
	}
	return &Sampler{
		rng:    rng,
		params: params,
		log:    componentLogger(log, "sampler"),
	}
}

// Stats returns how many tickets were produced by each path so far
func (sm *Sampler) Stats() SamplerStats {
	return sm.stats
}

// Params returns the effective sampler bounds
func (sm *Sampler) Params() SamplerParams {
	return sm.params
}

// candidatePool returns [1,60] minus fixed and excluded numbers
func candidatePool(fixed, excluded []int) []int {
	skip := make(map[int]bool, len(fixed)+len(excluded))
	for _, n := range fixed {
		skip[n] = true
	}
	for _, n := range excluded {
		skip[n] = true
	}
	candidates := make([]int, 0, MaxNumber)
	for n := MinNumber; n <= MaxNumber; n++ {
		if !skip[n] {
			candidates = append(candidates, n)
		}
	}
	return candidates
}

// SampleWeighted draws a ticket where each candidate is picked with probability proportional
// to its score plus epsilon. Fixed numbers are always placed and excluded numbers never are.
// With balanced set, only tickets with three even numbers and one to three numbers per
// 20-wide band are accepted. When every attempt fails it falls back to SampleUniform.
func (sm *Sampler) SampleWeighted(scores Scores, balanced bool, fixed, excluded []int) (Ticket, error) {
	fixed, excluded = NormalizeSelection(fixed, excluded)
	need := TicketSize - len(fixed)
	if need == 0 {
		sm.stats.Weighted++
		return NewTicket(fixed...), nil
	}

	candidates := candidatePool(fixed, excluded)
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidatePool
	}
	if len(candidates) < need {
		sm.log.WithFields(logrus.Fields{
			"candidates": len(candidates),
			"needed":     need,
		}).Warn("candidate pool smaller than ticket, using uniform sampling")
		return sm.fallback(fixed, excluded)
	}

	// Cumulative weights for inverse-CDF draws
	cumulative := make([]float64, len(candidates))
	total := 0.0
	signal := false
	for i, n := range candidates {
		score := scores[n]
		if score > 0 {
			signal = true
		} else {
			score = 0
		}
		total += score + sm.params.Epsilon
		cumulative[i] = total
	}

	// No statistics to follow: weighted sampling degenerates to uniform
	if !signal && !balanced {
		return sm.uniform(fixed, excluded)
	}

	for attempt := 0; attempt < sm.params.MaxAttempts; attempt++ {
		chosen := make(map[int]bool, need)
		picks := make([]int, 0, TicketSize)
		picks = append(picks, fixed...)

		for draw := 0; draw < sm.params.InnerDraws && len(chosen) < need; draw++ {
			u := sm.rng.Float64() * total
			idx := sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > u })
			if idx == len(cumulative) {
				idx--
			}
			n := candidates[idx]
			if !chosen[n] {
				chosen[n] = true
				picks = append(picks, n)
			}
		}
		if len(chosen) < need {
			continue
		}

		ticket := NewTicket(picks...)
		if balanced && !isBalanced(ticket) {
			continue
		}
		sm.stats.Weighted++
		return ticket, nil
	}

	sm.log.WithFields(logrus.Fields{
		"attempts": sm.params.MaxAttempts,
		"balanced": balanced,
		"fixed":    fixed,
	}).Warn("weighted sampling exhausted, falling back to uniform")
	return sm.fallback(fixed, excluded)
}

// SampleUniform picks the missing numbers uniformly from the candidate pool. When the pool
// holds fewer numbers than needed the ticket is short; an empty pool is an error.
func (sm *Sampler) SampleUniform(fixed, excluded []int) (Ticket, error) {
	fixed, excluded = NormalizeSelection(fixed, excluded)
	return sm.uniform(fixed, excluded)
}

func (sm *Sampler) fallback(fixed, excluded []int) (Ticket, error) {
	sm.stats.Fallbacks++
	samplerFallbacks.Inc()
	return sm.uniform(fixed, excluded)
}

// uniform expects an already normalised selection
func (sm *Sampler) uniform(fixed, excluded []int) (Ticket, error) {
	need := TicketSize - len(fixed)
	candidates := candidatePool(fixed, excluded)
	if need > 0 && len(candidates) == 0 {
		return nil, ErrEmptyCandidatePool
	}

	picks := sampleWithoutReplacement(sm.rng, candidates, need)
	ticket := NewTicket(append(append([]int(nil), fixed...), picks...)...)
	if !ticket.Complete() {
		sm.log.WithField("numbers", len(ticket)).Warn("short ticket: not enough candidates")
	}
	sm.stats.Uniform++
	return ticket, nil
}

// SampleBatch generates up to req.Count distinct tickets: one pure ticket per selected scoring
// model, then one per requested balanced/uniform policy, then tickets from the equal-weight
// blend of the scoring models, and finally uniform tickets for any shortfall. Every phase is
// bounded, so fewer than req.Count tickets come back when the candidate pool is too small to
// yield that many distinct tickets.
func (sm *Sampler) SampleBatch(s *Snapshot, req BatchRequest) ([]LabeledTicket, error) {
	if err := validateBatchRequest(req); err != nil {
		return nil, fmt.Errorf("invalid batch request: %w", err)
	}
	fixed, excluded := NormalizeSelection(req.Fixed, req.Excluded)

	var scoring []Model
	wantBalanced, wantUniform := false, false
	seenModel := make(map[Model]bool)
	for _, m := range req.Models {
		if seenModel[m] {
			continue
		}
		seenModel[m] = true
		switch {
		case m.IsScoring():
			scoring = append(scoring, m)
		case m == ModelBalanced:
			wantBalanced = true
		case m == ModelUniform:
			wantUniform = true
		}
	}

	tickets := make([]LabeledTicket, 0, req.Count)
	seen := make(map[string]bool, req.Count)
	add := func(t Ticket, label string) {
		if seen[t.Key()] {
			return
		}
		seen[t.Key()] = true
		tickets = append(tickets, LabeledTicket{Ticket: t, Label: label})
		ticketsGenerated.WithLabelValues(label).Inc()
	}

	// One pure ticket per scoring model
	for _, m := range scoring {
		if len(tickets) >= req.Count {
			break
		}
		scores := CombineScores(s, WeightMap{m: 1}, fixed, excluded)
		t, err := sm.SampleWeighted(scores, req.Balanced, fixed, excluded)
		if err != nil {
			return nil, fmt.Errorf("sampling %s ticket: %w", m, err)
		}
		add(t, string(m))
	}

	if wantBalanced && len(tickets) < req.Count {
		t, err := sm.SampleWeighted(Scores{}, true, fixed, excluded)
		if err != nil {
			return nil, fmt.Errorf("sampling balanced ticket: %w", err)
		}
		add(t, string(ModelBalanced))
	}
	if wantUniform && len(tickets) < req.Count {
		t, err := sm.uniform(fixed, excluded)
		if err != nil {
			return nil, fmt.Errorf("sampling uniform ticket: %w", err)
		}
		add(t, string(ModelUniform))
	}

	if len(tickets) < req.Count && len(scoring) > 0 {
		blended := CombineScores(s, EqualWeights(scoring), fixed, excluded)
		for attempts := 0; len(tickets) < req.Count && attempts < req.Count*10; attempts++ {
			t, err := sm.SampleWeighted(blended, req.Balanced, fixed, excluded)
			if err != nil {
				return nil, fmt.Errorf("sampling blended ticket: %w", err)
			}
			add(t, LabelBlended)
		}
	}

	for attempts := 0; len(tickets) < req.Count && attempts < req.Count*5; attempts++ {
		t, err := sm.uniform(fixed, excluded)
		if err != nil {
			return nil, fmt.Errorf("sampling uniform ticket: %w", err)
		}
		add(t, string(ModelUniform))
	}

	sm.log.WithFields(logrus.Fields{
		"requested": req.Count,
		"generated": len(tickets),
		"models":    req.Models,
		"fallbacks": sm.stats.Fallbacks,
	}).Info("ticket batch generated")

	return tickets, nil
}
