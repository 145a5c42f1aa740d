package megasena

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GenerateTickets builds a snapshot over the request's lookback window, samples a labeled
// batch of tickets and scores each one. This is the main entry point of the package.
func GenerateTickets(req GenerateRequest) (*GenerateResult, error) {
	startTime := time.Now()

	// Validate input
	if err := validateBatchRequest(req.Batch); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.LookbackYears < 0 {
		return nil, fmt.Errorf("invalid request: lookback years must not be negative, got %d", req.LookbackYears)
	}

	// Apply defaults if not provided
	if req.Options.Sampler == (SamplerParams{}) {
		req.Options.Sampler = DefaultSamplerParams()
	}
	if req.Now.IsZero() {
		req.Now = time.Now()
	}

	batchID := uuid.NewString()
	log := componentLogger(req.Options.Logger, "generator").WithField("batch_id", batchID)
	detail := log.Debug
	if req.Options.Debug {
		detail = log.Info
	}

	history := req.History.FilterByYears(req.LookbackYears, req.Now)
	snapshot := BuildSnapshot(history)
	first, last := history.DateRange()
	detail(fmt.Sprintf("analysing %d draws from %s to %s", history.Len(),
		first.Format(time.DateOnly), last.Format(time.DateOnly)))

	sampler := NewSampler(randFromOptions(req.Options), req.Options.Sampler, log)
	labeled, err := sampler.SampleBatch(snapshot, req.Batch)
	if err != nil {
		return nil, fmt.Errorf("ticket generation failed: %w", err)
	}

	tickets := make([]GeneratedTicket, 0, len(labeled))
	for _, lt := range labeled {
		confidence := ScoreConfidence(lt.Ticket, snapshot)
		tickets = append(tickets, GeneratedTicket{LabeledTicket: lt, Confidence: confidence})
		detail(fmt.Sprintf("%-12s %s score=%.1f (%s)", lt.Label, lt.Ticket, confidence.Score, confidence.Label))
	}

	result := &GenerateResult{
		BatchID:        batchID,
		Tickets:        tickets,
		DrawsAnalyzed:  history.Len(),
		Stats:          sampler.Stats(),
		ProcessingTime: time.Since(startTime),
	}

	log.WithFields(logrus.Fields{
		"tickets":   len(tickets),
		"draws":     result.DrawsAnalyzed,
		"fallbacks": result.Stats.Fallbacks,
		"elapsed":   result.ProcessingTime,
	}).Info("generation complete")

	return result, nil
}

// StatsReport summarises the statistics of one history window
type StatsReport struct {
	Draws          int           `json:"draws"`
	FirstDate      time.Time     `json:"first_date"`
	LastDate       time.Time     `json:"last_date"`
	MostFrequent   []NumberCount `json:"most_frequent"`
	LeastFrequent  []NumberCount `json:"least_frequent"`
	TopPairs       []PairCount   `json:"top_pairs"`
	MostDelayed    []NumberDelay `json:"most_delayed"`
	SumMean        float64       `json:"sum_mean"`
	SumStdDev      float64       `json:"sum_stddev"`
	Scores         []NumberScore `json:"scores"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// NumberCount is how many draws contained a number
type NumberCount struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// AnalyzeHistory computes the report over draws within lookbackYears of now (the whole
// history when lookbackYears <= 0), listing the top entries of each ranking
func AnalyzeHistory(h History, lookbackYears int, now time.Time, top int) *StatsReport {
	startTime := time.Now()
	if top <= 0 {
		top = 10
	}
	if now.IsZero() {
		now = time.Now()
	}

	window := h.FilterByYears(lookbackYears, now)
	s := BuildSnapshot(window)
	first, last := window.DateRange()
	mean, std := s.SumStats()

	counts := s.FrequencyCounts()
	ranked := make([]NumberCount, 0, MaxNumber)
	for n := MinNumber; n <= MaxNumber; n++ {
		ranked = append(ranked, NumberCount{Number: n, Count: counts[n]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })

	least := make([]NumberCount, 0, top)
	for i := len(ranked) - 1; i >= 0 && len(least) < top; i-- {
		least = append(least, ranked[i])
	}

	return &StatsReport{
		Draws:          window.Len(),
		FirstDate:      first,
		LastDate:       last,
		MostFrequent:   ranked[:min(top, len(ranked))],
		LeastFrequent:  least,
		TopPairs:       s.TopPairs(top),
		MostDelayed:    s.MostDelayed(top),
		SumMean:        mean,
		SumStdDev:      std,
		Scores:         NumberScores(s, nil),
		ProcessingTime: time.Since(startTime),
	}
}
