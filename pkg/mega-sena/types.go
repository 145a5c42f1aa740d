package megasena

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	MinNumber  = 1
	MaxNumber  = 60
	TicketSize = 6
)

// Draw represents one historical Mega-Sena result
type Draw struct {
	ID      int       `json:"id" validate:"gt=0"`
	Date    time.Time `json:"date" validate:"required"`
	Numbers []int     `json:"numbers" validate:"len=6,dive,min=1,max=60"`
}

// Model names a per-number scoring model or a batch policy
type Model string

const (
	ModelFrequency    Model = "frequency"
	ModelTransition   Model = "transition"
	ModelCoOccurrence Model = "cooccurrence"
	ModelDelay        Model = "delay"

	// Batch policies, not scoring models
	ModelBalanced Model = "balanced"
	ModelUniform  Model = "uniform"
)

// ScoringModels lists the four statistics-backed models in display order
var ScoringModels = []Model{ModelFrequency, ModelTransition, ModelCoOccurrence, ModelDelay}

// IsScoring reports whether the model is backed by snapshot statistics
func (m Model) IsScoring() bool {
	switch m {
	case ModelFrequency, ModelTransition, ModelCoOccurrence, ModelDelay:
		return true
	}
	return false
}

// Valid reports whether the model is known
func (m Model) Valid() bool {
	return m.IsScoring() || m == ModelBalanced || m == ModelUniform
}

// LabelBlended marks tickets drawn from the equal-weight blend of the selected models
const LabelBlended = "blended"

// WeightMap maps a scoring model to a non-negative weight. Weights need not sum to 1.
type WeightMap map[Model]float64

// Scores holds one combined score per number, indexed by the number itself (index 0 unused)
type Scores [MaxNumber + 1]float64

// NumberScore is the per-number breakdown of the four model scores
type NumberScore struct {
	Number       int     `json:"number"`
	Frequency    float64 `json:"frequency"`
	Transition   float64 `json:"transition"`
	CoOccurrence float64 `json:"co_occurrence"`
	Delay        float64 `json:"delay"`
}

// Total combines the components with the given weights
func (ns NumberScore) Total(weights WeightMap) float64 {
	return ns.Frequency*weights[ModelFrequency] +
		ns.Transition*weights[ModelTransition] +
		ns.CoOccurrence*weights[ModelCoOccurrence] +
		ns.Delay*weights[ModelDelay]
}

// PairCount is an unordered pair of numbers and how often they were drawn together
type PairCount struct {
	A     int `json:"a"`
	B     int `json:"b"`
	Count int `json:"count"`
}

// NumberDelay is the count of consecutive most recent draws a number has been absent from
type NumberDelay struct {
	Number int `json:"number"`
	Delay  int `json:"delay"`
}

// LabeledTicket is a generated ticket with the policy that produced it
type LabeledTicket struct {
	Ticket Ticket `json:"ticket"`
	Label  string `json:"label"`
}

// BatchRequest configures a multi-ticket generation run
type BatchRequest struct {
	Count    int     `json:"count"`
	Models   []Model `json:"models"`
	Balanced bool    `json:"balanced"`
	Fixed    []int   `json:"fixed,omitempty"`
	Excluded []int   `json:"excluded,omitempty"`
}

// SamplerParams holds the bounds of the weighted sampler
type SamplerParams struct {
	MaxAttempts int     `json:"max_attempts"` // Outer attempts before uniform fallback (default: 500)
	InnerDraws  int     `json:"inner_draws"`  // Draws with replacement per attempt (default: 100)
	Epsilon     float64 `json:"epsilon"`      // Base weight added to every candidate (default: 0.1)
}

// SamplerStats counts how tickets were produced by a Sampler
type SamplerStats struct {
	Weighted  int `json:"weighted"`
	Uniform   int `json:"uniform"`
	Fallbacks int `json:"fallbacks"`
}

// ConfidenceLabel is the qualitative band of a confidence score
type ConfidenceLabel string

const (
	ConfidenceExcellent ConfidenceLabel = "Excellent"
	ConfidenceGood      ConfidenceLabel = "Good"
	ConfidenceRegular   ConfidenceLabel = "Regular"
	ConfidenceWeak      ConfidenceLabel = "Weak"
)

// ConfidenceBreakdown holds the independent sub-scores of a confidence score
type ConfidenceBreakdown struct {
	Frequency   float64 `json:"frequency"`   // 0-20
	Sum         float64 `json:"sum"`         // 0-20
	Parity      float64 `json:"parity"`      // 0-15
	Quadrants   float64 `json:"quadrants"`   // 0-15
	Consecutive float64 `json:"consecutive"` // 0-15
	Delay       float64 `json:"delay"`       // 0-15
}

// ConfidenceResult is the heuristic score of one ticket against a snapshot
type ConfidenceResult struct {
	Score     float64             `json:"score"`
	Label     ConfidenceLabel     `json:"label"`
	SubScores ConfidenceBreakdown `json:"sub_scores"`
}

// ClosureInfo is a row of the informational closure reference table
type ClosureInfo struct {
	PoolSize int `json:"pool_size"`
	Total    int `json:"total"`  // All 6-combinations of the pool
	Quadra   int `json:"quadra"` // Tickets for the 4-match guarantee
	Quina    int `json:"quina"`  // Tickets for the 5-match guarantee
	Sena     int `json:"sena"`   // Tickets for the 6-match guarantee
}

// SimulationParams holds Monte Carlo simulation values
type SimulationParams struct {
	Paths      int             `json:"paths"`       // Simulated ticket/draw pairs (default: 1000000)
	TicketCost float64         `json:"ticket_cost"` // Price of one ticket (default: 5.00)
	Payouts    map[int]float64 `json:"payouts"`     // Prize per match count (default: 4, 5 and 6 matches)
}

// SimulationResult contains the output of a Monte Carlo run
type SimulationResult struct {
	Paths          int           `json:"paths"`
	Hits           [7]int        `json:"hits"`        // Simulated count per intersection size
	Theoretical    [7]float64    `json:"theoretical"` // Closed-form expected count per intersection size
	Payout         float64       `json:"payout"`
	Cost           float64       `json:"cost"`
	ROI            float64       `json:"roi"`
	ExpectedReturn float64       `json:"expected_return"` // Closed-form expected payout per ticket
	QuadraCI       Interval      `json:"quadra_ci"`       // 95% interval on the simulated 4-match rate
	ProcessingTime time.Duration `json:"processing_time"`
}

// Interval is a closed confidence interval
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// BacktestHit is a past draw where a ticket matched at least four numbers
type BacktestHit struct {
	DrawID  int       `json:"draw_id"`
	Date    time.Time `json:"date"`
	Matches int       `json:"matches"`
	Numbers []int     `json:"numbers"`
}

// BacktestResult summarises how a ticket would have fared against past draws
type BacktestResult struct {
	Draws  int           `json:"draws"`
	Hits   [7]int        `json:"hits"`
	Prizes []BacktestHit `json:"prizes,omitempty"`
}

// Options configures sampler construction for the API entry points
type Options struct {
	Seed    *uint64       `json:"seed,omitempty"` // Fixed seed for reproducible output (entropy-seeded if nil)
	Sampler SamplerParams `json:"sampler"`
	Logger  *logrus.Entry `json:"-"`
	Debug   bool          `json:"debug"`
}

// GenerateRequest contains all parameters needed for ticket generation
type GenerateRequest struct {
	History       History      `json:"-"`
	LookbackYears int          `json:"lookback_years"` // 0 uses the full history
	Now           time.Time    `json:"-"`              // Reference time for the lookback window (default: time.Now())
	Batch         BatchRequest `json:"batch"`
	Options       Options      `json:"options"`
}

// GeneratedTicket is a labeled ticket with its confidence score
type GeneratedTicket struct {
	LabeledTicket
	Confidence ConfidenceResult `json:"confidence"`
}

// GenerateResult contains the output of a generation run
type GenerateResult struct {
	BatchID        string            `json:"batch_id"`
	Tickets        []GeneratedTicket `json:"tickets"`
	DrawsAnalyzed  int               `json:"draws_analyzed"`
	Stats          SamplerStats      `json:"stats"`
	ProcessingTime time.Duration     `json:"processing_time"`
}

// DefaultSamplerParams returns default sampler bounds
func DefaultSamplerParams() SamplerParams {
	return SamplerParams{
		MaxAttempts: 500,
		InnerDraws:  100,
		Epsilon:     0.1,
	}
}

// DefaultSimulationParams returns default Monte Carlo values
func DefaultSimulationParams() SimulationParams {
	return SimulationParams{
		Paths:      1_000_000,
		TicketCost: 5.00,
		Payouts: map[int]float64{
			4: 1_000,
			5: 50_000,
			6: 50_000_000,
		},
	}
}

// DefaultOptions returns default generation options
func DefaultOptions() Options {
	return Options{
		Sampler: DefaultSamplerParams(),
		Debug:   false,
	}
}
