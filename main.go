package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jhw/go-megasena/pkg/config"
	megasena "github.com/jhw/go-megasena/pkg/mega-sena"
)

var (
	cfg    *config.Config
	logger *logrus.Entry

	configFile  string
	envFile     string
	debug       bool
	metricsFile string
	drawsFile   string

	rootCmd = &cobra.Command{
		Use:   "megasena",
		Short: "Mega-Sena statistics, ticket generation and closures",
		Long: `megasena analyses past Mega-Sena draws and uses the statistics to generate
weighted tickets, build covering closures, score tickets and simulate returns.`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: writeMetrics,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "megasena.yaml", "Config file (.yaml, .yml or .toml)")
	flags.StringVar(&envFile, "env", ".env", "Dotenv file with MEGASENA_* overrides")
	flags.BoolVar(&debug, "debug", false, "Enable debug output")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	flags.StringVar(&drawsFile, "draws", "", "Draws file (.json or .csv), overrides data.draws_file")

	rootCmd.AddCommand(
		statsCmd,
		generateCmd,
		closureCmd,
		confidenceCmd,
		simulateCmd,
		backtestCmd,
		mergeCmd,
	)
}

// setup loads configuration and prepares logging before any subcommand runs
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return err
	}
	if drawsFile != "" {
		cfg.Data.DrawsFile = drawsFile
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err = newLogger(cfg.Log)
	if err != nil {
		return err
	}
	megasena.SetLogger(logger)
	logger.WithField("command", cmd.Name()).Debug("configuration loaded")
	return nil
}

func newLogger(lc config.LogConfig) (*logrus.Entry, error) {
	level, err := logrus.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	if lc.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logrus.NewEntry(l).WithField("app", "megasena"), nil
}

func writeMetrics(cmd *cobra.Command, args []string) error {
	if metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(metricsFile, megasena.Registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	logger.WithField("file", metricsFile).Debug("metrics written")
	return nil
}
