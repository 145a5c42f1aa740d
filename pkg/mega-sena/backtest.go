package megasena

import "math/bits"

// CountMatches returns how many ticket numbers were drawn
func CountMatches(t Ticket, d Draw) int {
	return bits.OnesCount64(t.mask() & Ticket(d.Numbers).mask())
}

// Backtest plays the ticket against the last lastN draws of the history (all of them when
// lastN <= 0) and records every draw that would have paid a prize
func Backtest(t Ticket, h History, lastN int) BacktestResult {
	window := h.Last(lastN)
	result := BacktestResult{Draws: window.Len()}

	for _, d := range window.draws {
		matches := CountMatches(t, d)
		result.Hits[matches]++
		if matches >= quadraMatches {
			result.Prizes = append(result.Prizes, BacktestHit{
				DrawID:  d.ID,
				Date:    d.Date,
				Matches: matches,
				Numbers: append([]int(nil), d.Numbers...),
			})
		}
	}

	componentLogger(nil, "backtest").WithField("draws", result.Draws).
		WithField("prizes", len(result.Prizes)).Debug("backtest finished")
	return result
}
