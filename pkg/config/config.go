package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	megasena "github.com/jhw/go-megasena/pkg/mega-sena"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "MEGASENA_"

var validate = validator.New()

// Config represents the application configuration.
type Config struct {
	Data       DataConfig       `yaml:"data" toml:"data"`
	Stats      StatsConfig      `yaml:"stats" toml:"stats"`
	Sampler    SamplerConfig    `yaml:"sampler" toml:"sampler"`
	Simulation SimulationConfig `yaml:"simulation" toml:"simulation"`
	Log        LogConfig        `yaml:"log" toml:"log"`
}

// DataConfig locates the draw history.
type DataConfig struct {
	DrawsFile string `yaml:"draws_file" toml:"draws_file"` // JSON or CSV file of past draws
}

// StatsConfig controls the history window.
type StatsConfig struct {
	LookbackYears int `yaml:"lookback_years" toml:"lookback_years" validate:"gte=0"` // 0 uses the whole history
	Top           int `yaml:"top" toml:"top" validate:"gte=1,lte=60"`                 // Rows per ranking in reports
}

// SamplerConfig contains ticket generation settings.
type SamplerConfig struct {
	Count       int      `yaml:"count" toml:"count" validate:"gte=1"`
	Models      []string `yaml:"models" toml:"models" validate:"min=1,dive,oneof=frequency transition cooccurrence delay balanced uniform"`
	Balanced    bool     `yaml:"balanced" toml:"balanced"`
	MaxAttempts int      `yaml:"max_attempts" toml:"max_attempts" validate:"gte=1"`
	InnerDraws  int      `yaml:"inner_draws" toml:"inner_draws" validate:"gte=1"`
	Epsilon     float64  `yaml:"epsilon" toml:"epsilon" validate:"gt=0"`
	Seed        *uint64  `yaml:"seed,omitempty" toml:"seed,omitempty"` // Unset means entropy seeding
}

// SimulationConfig contains Monte Carlo settings.
type SimulationConfig struct {
	Paths      int     `yaml:"paths" toml:"paths" validate:"gte=1"`
	TicketCost float64 `yaml:"ticket_cost" toml:"ticket_cost" validate:"gt=0"`
	Payouts    string  `yaml:"payouts" toml:"payouts" validate:"required"` // e.g. "4:1000|5:50000|6:50000000"
	Workers    int     `yaml:"workers" toml:"workers" validate:"gte=1,lte=256"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"oneof=text json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	sampler := megasena.DefaultSamplerParams()
	sim := megasena.DefaultSimulationParams()
	return &Config{
		Data: DataConfig{
			DrawsFile: "draws.json",
		},
		Stats: StatsConfig{
			LookbackYears: 0,
			Top:           10,
		},
		Sampler: SamplerConfig{
			Count:       6,
			Models:      []string{"frequency", "transition", "cooccurrence", "delay"},
			Balanced:    false,
			MaxAttempts: sampler.MaxAttempts,
			InnerDraws:  sampler.InnerDraws,
			Epsilon:     sampler.Epsilon,
		},
		Simulation: SimulationConfig{
			Paths:      sim.Paths,
			TicketCost: sim.TicketCost,
			Payouts:    megasena.FormatPayouts(sim.Payouts),
			Workers:    1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML or TOML file over the defaults, chosen by extension.
// Returns the default config if path is empty or the file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration as YAML or TOML, chosen by extension.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".toml":
		data, err = toml.Marshal(c)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// LoadEnv loads the given dotenv files (missing files are skipped) and then applies
// MEGASENA_* overrides from the process environment.
func (c *Config) LoadEnv(files ...string) error {
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env (%s): %w", f, err)
		}
	}
	return c.applyEnv()
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("DRAWS_FILE"); ok {
		c.Data.DrawsFile = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		c.Log.Format = strings.ToLower(v)
	}
	if v, ok := lookup("PAYOUTS"); ok {
		c.Simulation.Payouts = v
	}
	if v, ok := lookup("MODELS"); ok {
		c.Sampler.Models = splitList(v)
	}

	ints := map[string]*int{
		"LOOKBACK_YEARS": &c.Stats.LookbackYears,
		"COUNT":          &c.Sampler.Count,
		"PATHS":          &c.Simulation.Paths,
		"WORKERS":        &c.Simulation.Workers,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, key, v, err)
		}
		*dst = n
	}

	if v, ok := lookup("TICKET_COST"); ok {
		cost, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sTICKET_COST %q: %w", EnvPrefix, v, err)
		}
		c.Simulation.TicketCost = cost
	}
	if v, ok := lookup("BALANCED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sBALANCED %q: %w", EnvPrefix, v, err)
		}
		c.Sampler.Balanced = b
	}
	if v, ok := lookup("SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEED %q: %w", EnvPrefix, v, err)
		}
		c.Sampler.Seed = &seed
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := megasena.ParsePayouts(c.Simulation.Payouts); err != nil {
		return fmt.Errorf("invalid config: simulation payouts: %w", err)
	}
	return nil
}

// SamplerParams returns the sampler bounds.
func (c *Config) SamplerParams() megasena.SamplerParams {
	return megasena.SamplerParams{
		MaxAttempts: c.Sampler.MaxAttempts,
		InnerDraws:  c.Sampler.InnerDraws,
		Epsilon:     c.Sampler.Epsilon,
	}
}

// Models returns the configured models.
func (c *Config) Models() []megasena.Model {
	models := make([]megasena.Model, len(c.Sampler.Models))
	for i, m := range c.Sampler.Models {
		models[i] = megasena.Model(m)
	}
	return models
}

// SimulationParams returns the Monte Carlo settings with parsed payouts.
func (c *Config) SimulationParams() (megasena.SimulationParams, error) {
	payouts, err := megasena.ParsePayouts(c.Simulation.Payouts)
	if err != nil {
		return megasena.SimulationParams{}, err
	}
	return megasena.SimulationParams{
		Paths:      c.Simulation.Paths,
		TicketCost: c.Simulation.TicketCost,
		Payouts:    payouts,
	}, nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
