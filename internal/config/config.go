// Package config parses and validates the loadtimer command line.
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/loadtimer/internal/errors"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "LOADTIMER_"

const (
	DefaultSampleSecs = 10.0
	DefaultNumSamples = 2
	DefaultLogLevel   = "info"
)

// Bounds on SampleSecs. Interval must stay a positive time.Duration.
const (
	MinSampleSecs = 0.001
	MaxSampleSecs = 86400.0
)

// AppConfig is the fully resolved run configuration.
type AppConfig struct {
	// PIDs are the target processes, in argument order.
	PIDs []int
	// SampleSecs is the sampling interval in seconds.
	SampleSecs float64
	// NumSamples is the buffer capacity and the number of warm-up cycles.
	NumSamples int
	// Break is an idle pause between cycles that is excluded from samples.
	Break time.Duration

	Threads     bool
	Interactive bool
	TUI         bool
	Parallel    bool

	MetricsAddr string
	LogLevel    string
	NoColor     bool
	Quiet       bool
	Completion  string
}

// Interval returns the sampling interval as a duration.
func (c AppConfig) Interval() time.Duration {
	return time.Duration(c.SampleSecs * float64(time.Second))
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Positional arguments are pids and may be mixed with flags. Values not
// given on the command line fall back to LOADTIMER_* variables, then to
// the defaults.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	config := AppConfig{}

	fs.Float64Var(&config.SampleSecs, "sample-secs", DefaultSampleSecs, "Sample interval in seconds.")
	fs.Float64Var(&config.SampleSecs, "s", DefaultSampleSecs, "Sample interval in seconds (shorthand).")
	fs.IntVar(&config.NumSamples, "num-samples", DefaultNumSamples, "Number of samples kept per process.")
	fs.IntVar(&config.NumSamples, "n", DefaultNumSamples, "Number of samples kept per process (shorthand).")
	fs.DurationVar(&config.Break, "break", 0, "Idle pause between samples, not counted (e.g. 5s).")
	fs.DurationVar(&config.Break, "b", 0, "Idle pause between samples (shorthand).")
	fs.BoolVar(&config.Threads, "threads", false, "Also measure every thread of each process.")
	fs.BoolVar(&config.Threads, "t", false, "Also measure threads (shorthand).")
	fs.BoolVar(&config.Interactive, "interactive", false, "Keep sampling and refresh the table in place.")
	fs.BoolVar(&config.Interactive, "i", false, "Interactive mode (shorthand).")
	fs.BoolVar(&config.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.BoolVar(&config.Parallel, "parallel", false, "Sample processes concurrently.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9100).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the result table.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.StringVar(&config.Completion, "completion", "", "Print a completion script (bash, zsh, fish).")

	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [options] PID [PID...]\n\n", programName)
		fmt.Fprintf(errorWriter, "Measure the CPU usage of running processes.\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(errorWriter, "\nEvery option can also be set through %s<NAME>, e.g. %sSAMPLE_SECS=2.\n", EnvPrefix, EnvPrefix)
	}

	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return AppConfig{}, err
	}
	applyEnvOverrides(&config, fs)

	if len(positional) == 0 {
		positional = strings.FieldsFunc(getEnvString("PIDS", ""), func(r rune) bool {
			return r == ',' || r == ' '
		})
	}
	pids, err := parsePIDs(positional)
	if err != nil {
		return AppConfig{}, err
	}
	config.PIDs = pids

	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// parseInterleaved parses flags that appear before, between or after
// positional arguments and returns the positionals in order.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if rest[0] == "--" {
			return append(positional, rest[1:]...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func parsePIDs(args []string) ([]int, error) {
	pids := make([]int, 0, len(args))
	for _, arg := range args {
		pid, err := strconv.Atoi(arg)
		if err != nil || pid <= 0 {
			return nil, apperrors.NewConfigError("invalid pid %q", arg)
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// Validate checks the semantic constraints of the configuration.
func (c AppConfig) Validate() error {
	if c.Completion != "" {
		switch c.Completion {
		case "bash", "zsh", "fish":
			return nil
		default:
			return apperrors.ValidationError{Field: "completion", Message: fmt.Sprintf("unsupported shell %q", c.Completion)}
		}
	}
	if len(c.PIDs) == 0 {
		return apperrors.ErrNoTargets
	}
	if c.SampleSecs <= 0 || math.IsNaN(c.SampleSecs) || math.IsInf(c.SampleSecs, 0) {
		return apperrors.ValidationError{Field: "sample-secs", Message: fmt.Sprintf("must be a positive number, got %v", c.SampleSecs)}
	}
	if c.SampleSecs < MinSampleSecs || c.SampleSecs > MaxSampleSecs {
		return apperrors.ValidationError{Field: "sample-secs", Message: fmt.Sprintf("must be between %v and %v, got %v", MinSampleSecs, MaxSampleSecs, c.SampleSecs)}
	}
	if c.NumSamples <= 0 {
		return apperrors.ValidationError{Field: "num-samples", Message: fmt.Sprintf("must be positive, got %d", c.NumSamples)}
	}
	if c.Break < 0 {
		return apperrors.ValidationError{Field: "break", Message: fmt.Sprintf("must not be negative, got %v", c.Break)}
	}
	if c.TUI && c.Interactive {
		return apperrors.ValidationError{Field: "tui", Message: "cannot be combined with -interactive"}
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil || c.LogLevel == "" {
		return apperrors.ValidationError{Field: "log-level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	return nil
}
