package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	megasena "github.com/jhw/go-megasena/pkg/mega-sena"
)

const ruler = "═══════════════════════════════════════════════════════════════"

// displayStats prints the history report as ranked tables
func displayStats(w io.Writer, r *megasena.StatsReport) {
	if r.Draws == 0 {
		fmt.Fprintf(w, "⚠️  No draws in the selected window\n")
		return
	}

	fmt.Fprintf(w, "✓ %d draws from %s to %s (processed in %v)\n", r.Draws,
		r.FirstDate.Format(time.DateOnly), r.LastDate.Format(time.DateOnly), r.ProcessingTime)
	fmt.Fprintf(w, "  Draw sum: mean %.1f, stddev %.1f\n", r.SumMean, r.SumStdDev)

	fmt.Fprintf(w, "\n📊 Most frequent          Least frequent\n")
	fmt.Fprintf(w, "%3s %6s %6s          %3s %6s\n", "Pos", "Number", "Draws", "", "Number")
	fmt.Fprintf(w, "%3s %6s %6s          %3s %6s\n", "---", "------", "-----", "", "------")
	for i := range r.MostFrequent {
		most := r.MostFrequent[i]
		fmt.Fprintf(w, "%3d %6d %6d", i+1, most.Number, most.Count)
		if i < len(r.LeastFrequent) {
			least := r.LeastFrequent[i]
			fmt.Fprintf(w, "          %3s %6d (%d)", "", least.Number, least.Count)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\n🔗 Top pairs\n")
	for i, p := range r.TopPairs {
		fmt.Fprintf(w, "%3d %02d-%02d %6d\n", i+1, p.A, p.B, p.Count)
	}

	fmt.Fprintf(w, "\n⏳ Most delayed\n")
	for i, d := range r.MostDelayed {
		fmt.Fprintf(w, "%3d %6d %6d draws\n", i+1, d.Number, d.Delay)
	}

	// Combined ranking under equal weights
	weights := megasena.EqualWeights(megasena.ScoringModels)
	scores := append([]megasena.NumberScore(nil), r.Scores...)
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Total(weights) > scores[j].Total(weights)
	})
	fmt.Fprintf(w, "\n🎯 Model scores (top %d by equal-weight blend)\n", len(r.MostFrequent))
	fmt.Fprintf(w, "%6s %8s %8s %8s %8s %8s\n", "Number", "Freq", "Trans", "CoOcc", "Delay", "Blend")
	fmt.Fprintf(w, "%6s %8s %8s %8s %8s %8s\n", "------", "----", "-----", "-----", "-----", "-----")
	for _, s := range scores[:min(len(r.MostFrequent), len(scores))] {
		fmt.Fprintf(w, "%6d %8.3f %8.3f %8.3f %8.3f %8.3f\n",
			s.Number, s.Frequency, s.Transition, s.CoOccurrence, s.Delay, s.Total(weights))
	}
}

// displayTickets prints a generated batch with its confidence scores
func displayTickets(w io.Writer, r *megasena.GenerateResult) {
	fmt.Fprintf(w, "\n🎟️  Batch %s: %d tickets from %d draws\n", r.BatchID, len(r.Tickets), r.DrawsAnalyzed)
	fmt.Fprintln(w, ruler)
	fmt.Fprintf(w, "%3s %-12s %-20s %6s %-9s\n", "#", "Model", "Ticket", "Score", "Label")
	fmt.Fprintf(w, "%3s %-12s %-20s %6s %-9s\n", "--", "-----", "------", "-----", "-----")
	for i, t := range r.Tickets {
		fmt.Fprintf(w, "%3d %-12s %-20s %6.1f %-9s\n",
			i+1, t.Label, formatTicket(t.Ticket), t.Confidence.Score, t.Confidence.Label)
	}
	fmt.Fprintln(w, ruler)
	if r.Stats.Fallbacks > 0 {
		fmt.Fprintf(w, "⚠️  %d tickets fell back to uniform sampling\n", r.Stats.Fallbacks)
	}
	fmt.Fprintf(w, "✓ Generated in %v\n", r.ProcessingTime)
}

// displayClosure prints closure tickets with the reference count for the pool size
func displayClosure(w io.Writer, pool []int, guarantee int, tickets []megasena.Ticket, verified, covered bool) {
	fmt.Fprintf(w, "\n🧮 Closure of %d numbers, guarantee %d: %d tickets", len(pool), guarantee, len(tickets))
	if ref, ok := megasena.ClosureReference(len(pool)); ok {
		fmt.Fprintf(w, " (reference %d)", ref.Tickets(guarantee))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, ruler)
	for i, t := range tickets {
		fmt.Fprintf(w, "%5d  %s\n", i+1, formatTicket(t))
	}
	fmt.Fprintln(w, ruler)
	if verified {
		if covered {
			fmt.Fprintf(w, "✓ Every %d-number subset of the pool is covered\n", guarantee)
		} else {
			fmt.Fprintf(w, "❌ Some %d-number subsets are not covered\n", guarantee)
		}
	}
}

// displayClosureTable prints the reference ticket counts per pool size
func displayClosureTable(w io.Writer) {
	fmt.Fprintf(w, "\n📋 Closure reference table\n")
	fmt.Fprintf(w, "%5s %8s %8s %8s %8s\n", "Pool", "Total", "Quadra", "Quina", "Sena")
	fmt.Fprintf(w, "%5s %8s %8s %8s %8s\n", "----", "-----", "------", "-----", "----")
	for _, row := range megasena.ClosureReferenceTable() {
		fmt.Fprintf(w, "%5d %8d %8d %8d %8d\n", row.PoolSize, row.Total, row.Quadra, row.Quina, row.Sena)
	}
}

// displayConfidence prints the sub-score breakdown of one ticket
func displayConfidence(w io.Writer, t megasena.Ticket, r megasena.ConfidenceResult) {
	fmt.Fprintf(w, "\n🔍 %s: %.1f (%s)\n", formatTicket(t), r.Score, r.Label)
	fmt.Fprintf(w, "  %-12s %5.1f / 20\n", "Frequency", r.SubScores.Frequency)
	fmt.Fprintf(w, "  %-12s %5.1f / 20\n", "Sum", r.SubScores.Sum)
	fmt.Fprintf(w, "  %-12s %5.1f / 15\n", "Parity", r.SubScores.Parity)
	fmt.Fprintf(w, "  %-12s %5.1f / 15\n", "Quadrants", r.SubScores.Quadrants)
	fmt.Fprintf(w, "  %-12s %5.1f / 15\n", "Consecutive", r.SubScores.Consecutive)
	fmt.Fprintf(w, "  %-12s %5.1f / 15\n", "Delay", r.SubScores.Delay)
}

// displaySimulation prints simulated against theoretical hit counts and the money summary
func displaySimulation(w io.Writer, r megasena.SimulationResult, p megasena.SimulationParams) {
	fmt.Fprintf(w, "\n🎲 Monte Carlo: %d tickets at %.2f (payouts %s)\n", r.Paths, p.TicketCost, megasena.FormatPayouts(p.Payouts))
	fmt.Fprintln(w, ruler)
	fmt.Fprintf(w, "%7s %12s %14s %8s\n", "Matches", "Simulated", "Theoretical", "Ratio")
	fmt.Fprintf(w, "%7s %12s %14s %8s\n", "-------", "---------", "-----------", "-----")
	for k := len(r.Hits) - 1; k >= 0; k-- {
		ratio := "-"
		if r.Theoretical[k] > 0 {
			ratio = fmt.Sprintf("%.3f", float64(r.Hits[k])/r.Theoretical[k])
		}
		fmt.Fprintf(w, "%7d %12d %14.2f %8s\n", k, r.Hits[k], r.Theoretical[k], ratio)
	}
	fmt.Fprintln(w, ruler)
	fmt.Fprintf(w, "  Quadra rate 95%% CI: [%.3e, %.3e]\n", r.QuadraCI.Lo, r.QuadraCI.Hi)
	fmt.Fprintf(w, "  Spent %.2f, won %.2f, ROI %.2f%%\n", r.Cost, r.Payout, 100*r.ROI)
	fmt.Fprintf(w, "  Expected return per ticket %.4f (%.2f%% of cost)\n", r.ExpectedReturn, 100*r.ExpectedReturn/p.TicketCost)
	fmt.Fprintf(w, "✓ Simulated in %v\n", r.ProcessingTime)
}

// displayBacktest prints the hit histogram and the prize-winning draws
func displayBacktest(w io.Writer, t megasena.Ticket, r megasena.BacktestResult) {
	fmt.Fprintf(w, "\n📅 %s against %d draws\n", formatTicket(t), r.Draws)
	for k := len(r.Hits) - 1; k >= 0; k-- {
		fmt.Fprintf(w, "  %d matches: %d\n", k, r.Hits[k])
	}
	if len(r.Prizes) == 0 {
		fmt.Fprintf(w, "  No prize-winning draws\n")
		return
	}
	fmt.Fprintf(w, "\n🏆 Prize-winning draws\n")
	for _, p := range r.Prizes {
		fmt.Fprintf(w, "  #%-5d %s  %s  %d matches\n", p.DrawID, p.Date.Format(time.DateOnly),
			formatTicket(megasena.Ticket(p.Numbers)), p.Matches)
	}
}

// formatTicket renders numbers zero-padded, as printed on a betting slip
func formatTicket(t megasena.Ticket) string {
	s := ""
	for i, n := range t {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%02d", n)
	}
	return s
}
