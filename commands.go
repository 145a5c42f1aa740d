package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	megasena "github.com/jhw/go-megasena/pkg/mega-sena"
)

var (
	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show frequency, pair, delay and sum statistics of the draw history",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a labeled batch of tickets from the selected models",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	closureCmd = &cobra.Command{
		Use:   "closure [numbers...]",
		Short: "Build a closure over a pool of 7 to 15 numbers",
		Long: `Builds tickets from the pool so that every subset of the guarantee size is
contained in at least one ticket. Guarantee 6 lists every combination of the pool.`,
		RunE: runClosure,
	}
	confidenceCmd = &cobra.Command{
		Use:   "confidence [numbers...]",
		Short: "Score a ticket against the history statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runConfidence,
	}
	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Monte Carlo simulation of random tickets against random draws",
		Args:  cobra.NoArgs,
		RunE:  runSimulate,
	}
	backtestCmd = &cobra.Command{
		Use:   "backtest [numbers...]",
		Short: "Check a ticket against past draws",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBacktest,
	}
	mergeCmd = &cobra.Command{
		Use:   "merge [files...]",
		Short: "Concatenate draw files, dropping repeated draw ids",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runMerge,
	}

	lookbackYears int
	topN          int
	jsonOutput    bool
	seed          uint64

	ticketCount int
	models      []string
	balanced    bool
	fixed       []int
	excluded    []int

	guarantee     int
	verifyClosure bool
	showTable     bool

	paths      int
	workers    int
	payouts    string
	ticketCost float64

	lastN int

	mergeOutput string
)

func init() {
	for _, cmd := range []*cobra.Command{statsCmd, generateCmd, confidenceCmd} {
		cmd.Flags().IntVar(&lookbackYears, "years", 0, "Only use draws from the last N years (0 = all)")
	}
	for _, cmd := range []*cobra.Command{statsCmd, generateCmd, closureCmd, confidenceCmd, simulateCmd, backtestCmd} {
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")
	}
	for _, cmd := range []*cobra.Command{generateCmd, simulateCmd} {
		cmd.Flags().Uint64Var(&seed, "seed", 0, "Fixed random seed for reproducible output")
	}

	statsCmd.Flags().IntVar(&topN, "top", 10, "Rows per ranking")

	generateCmd.Flags().IntVarP(&ticketCount, "count", "n", 6, "Number of tickets")
	generateCmd.Flags().StringSliceVarP(&models, "models", "m", nil,
		"Models: frequency, transition, cooccurrence, delay, balanced, uniform")
	generateCmd.Flags().BoolVar(&balanced, "balanced", false, "Require 3 even numbers and 1-3 numbers per 20-wide band")
	generateCmd.Flags().IntSliceVar(&fixed, "fixed", nil, "Numbers placed on every ticket")
	generateCmd.Flags().IntSliceVar(&excluded, "exclude", nil, "Numbers never placed on a ticket")

	closureCmd.Flags().IntVarP(&guarantee, "guarantee", "g", 4, "Guaranteed matches: 4, 5 or 6")
	closureCmd.Flags().BoolVar(&verifyClosure, "verify", false, "Check every target subset is covered")
	closureCmd.Flags().BoolVar(&showTable, "table", false, "Show the reference ticket counts and exit")

	simulateCmd.Flags().IntVar(&paths, "paths", 0, "Simulated ticket/draw pairs (default from config)")
	simulateCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel independent runs (default from config)")
	simulateCmd.Flags().StringVar(&payouts, "payouts", "", `Prize per match count, e.g. "4:1000|5:50000|6:50000000"`)
	simulateCmd.Flags().Float64Var(&ticketCost, "ticket-cost", 0, "Price of one ticket (default from config)")

	backtestCmd.Flags().IntVar(&lastN, "last", 0, "Only check the last N draws (0 = all)")

	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output file (.json or .csv)")
	_ = mergeCmd.MarkFlagRequired("output")
}

func runStats(cmd *cobra.Command, args []string) error {
	history, err := loadHistory(cfg.Data.DrawsFile, logger)
	if err != nil {
		return err
	}
	years := intFlag(cmd, "years", lookbackYears, cfg.Stats.LookbackYears)
	top := intFlag(cmd, "top", topN, cfg.Stats.Top)

	report := megasena.AnalyzeHistory(history, years, time.Now(), top)
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), report)
	}
	displayStats(cmd.OutOrStdout(), report)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	history, err := loadHistory(cfg.Data.DrawsFile, logger)
	if err != nil {
		return err
	}

	selected := cfg.Models()
	if cmd.Flags().Changed("models") {
		selected = make([]megasena.Model, len(models))
		for i, m := range models {
			selected[i] = megasena.Model(strings.ToLower(strings.TrimSpace(m)))
		}
	}

	opts := megasena.Options{
		Sampler: cfg.SamplerParams(),
		Logger:  logger,
		Debug:   debug,
		Seed:    cfg.Sampler.Seed,
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = &seed
	}

	req := megasena.GenerateRequest{
		History:       history,
		LookbackYears: intFlag(cmd, "years", lookbackYears, cfg.Stats.LookbackYears),
		Now:           time.Now(),
		Batch: megasena.BatchRequest{
			Count:    intFlag(cmd, "count", ticketCount, cfg.Sampler.Count),
			Models:   selected,
			Balanced: balanced || (!cmd.Flags().Changed("balanced") && cfg.Sampler.Balanced),
			Fixed:    fixed,
			Excluded: excluded,
		},
		Options: opts,
	}

	result, err := megasena.GenerateTickets(req)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), result)
	}
	displayTickets(cmd.OutOrStdout(), result)
	return nil
}

func runClosure(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if showTable {
		displayClosureTable(out)
		return nil
	}

	pool, err := parseNumbers(args)
	if err != nil {
		return err
	}
	tickets, err := megasena.BuildClosure(pool, guarantee)
	if err != nil {
		return err
	}

	covered := true
	if verifyClosure {
		covered = megasena.ClosureCovers(pool, tickets, guarantee)
		if !covered {
			logger.WithField("guarantee", guarantee).Error("closure does not cover every target")
		}
	}

	if jsonOutput {
		return printJSON(out, struct {
			Pool      []int             `json:"pool"`
			Guarantee int               `json:"guarantee"`
			Tickets   []megasena.Ticket `json:"tickets"`
			Covered   bool              `json:"covered"`
		}{megasena.NewTicket(pool...), guarantee, tickets, covered})
	}
	displayClosure(out, pool, guarantee, tickets, verifyClosure, covered)
	if !covered {
		return fmt.Errorf("closure over %d numbers does not guarantee %d matches", len(pool), guarantee)
	}
	return nil
}

func runConfidence(cmd *cobra.Command, args []string) error {
	numbers, err := parseNumbers(args)
	if err != nil {
		return err
	}
	ticket := megasena.NewTicket(numbers...)
	if !ticket.Valid() {
		return fmt.Errorf("ticket must hold %d distinct numbers in [%d,%d], got %v",
			megasena.TicketSize, megasena.MinNumber, megasena.MaxNumber, numbers)
	}

	history, err := loadHistory(cfg.Data.DrawsFile, logger)
	if err != nil {
		return err
	}
	years := intFlag(cmd, "years", lookbackYears, cfg.Stats.LookbackYears)
	snapshot := megasena.BuildSnapshot(history.FilterByYears(years, time.Now()))

	result := megasena.ScoreConfidence(ticket, snapshot)
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), result)
	}
	displayConfidence(cmd.OutOrStdout(), ticket, result)
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	params, err := cfg.SimulationParams()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("paths") {
		params.Paths = paths
	}
	if cmd.Flags().Changed("ticket-cost") {
		params.TicketCost = ticketCost
	}
	if cmd.Flags().Changed("payouts") {
		if params.Payouts, err = megasena.ParsePayouts(payouts); err != nil {
			return err
		}
	}
	if params.Paths <= 0 || params.TicketCost <= 0 {
		return fmt.Errorf("paths and ticket cost must be positive")
	}

	n := intFlag(cmd, "workers", workers, cfg.Simulation.Workers)
	n = max(1, min(n, params.Paths))

	baseSeed := cfg.Sampler.Seed
	if cmd.Flags().Changed("seed") {
		baseSeed = &seed
	}

	results := make([]megasena.SimulationResult, n)
	g, ctx := errgroup.WithContext(cmd.Context())
	for i := 0; i < n; i++ {
		share := params
		share.Paths = params.Paths / n
		if i < params.Paths%n {
			share.Paths++
		}
		rng := megasena.NewEntropyRand()
		if baseSeed != nil {
			rng = megasena.NewRand(*baseSeed + uint64(i))
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = megasena.SimulateMonteCarlo(rng, share)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	merged := megasena.MergeSimulations(results...)
	logger.WithFields(logrus.Fields{
		"workers": n,
		"paths":   merged.Paths,
	}).Debug("simulation runs merged")

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), merged)
	}
	displaySimulation(cmd.OutOrStdout(), merged, params)
	return nil
}

func runBacktest(cmd *cobra.Command, args []string) error {
	numbers, err := parseNumbers(args)
	if err != nil {
		return err
	}
	ticket := megasena.NewTicket(numbers...)
	if !ticket.Valid() {
		return fmt.Errorf("ticket must hold %d distinct numbers in [%d,%d], got %v",
			megasena.TicketSize, megasena.MinNumber, megasena.MaxNumber, numbers)
	}

	history, err := loadHistory(cfg.Data.DrawsFile, logger)
	if err != nil {
		return err
	}
	result := megasena.Backtest(ticket, history, lastN)
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), result)
	}
	displayBacktest(cmd.OutOrStdout(), ticket, result)
	return nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	files := append([]string(nil), args...)
	sort.Strings(files)

	var all []megasena.Draw
	seen := make(map[int]bool)
	for _, f := range files {
		draws, err := loadDraws(f, logger)
		if err != nil {
			logger.WithField("file", f).WithError(err).Warn("skipping draws file")
			continue
		}
		added := 0
		for _, d := range draws {
			if seen[d.ID] {
				continue
			}
			seen[d.ID] = true
			all = append(all, d)
			added++
		}
		fmt.Fprintf(out, "  %s: %d draws (%d new)\n", f, len(draws), added)
	}

	history, err := megasena.NewHistory(all)
	if err != nil {
		return err
	}
	if err := saveDraws(history.Draws(), mergeOutput); err != nil {
		return err
	}
	first, last := history.DateRange()
	fmt.Fprintf(out, "✓ Saved %d draws (%s to %s) to %s\n", history.Len(),
		first.Format(time.DateOnly), last.Format(time.DateOnly), mergeOutput)
	return nil
}

// intFlag returns the flag value when set on the command line, otherwise the config value
func intFlag(cmd *cobra.Command, name string, flagValue, configValue int) int {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return configValue
}

// parseNumbers accepts numbers as separate arguments or joined by commas or dashes
func parseNumbers(args []string) ([]int, error) {
	var numbers []int
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool {
			return r == ',' || r == '-' || r == ' '
		}) {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", field)
			}
			numbers = append(numbers, n)
		}
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("no numbers given")
	}
	return numbers, nil
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
