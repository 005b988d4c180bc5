package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/loadtimer/internal/cli"
	"github.com/agbru/loadtimer/internal/config"
	apperrors "github.com/agbru/loadtimer/internal/errors"
	"github.com/agbru/loadtimer/internal/logging"
	"github.com/agbru/loadtimer/internal/procfs"
	"github.com/agbru/loadtimer/internal/sampler"
	"github.com/agbru/loadtimer/internal/sysmon"
	"github.com/agbru/loadtimer/internal/ui"
)

// Application represents the loadtimer application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	// TickRate overrides the sysconf lookup when positive.
	TickRate float64

	samplerOpts []sampler.Option
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSamplerOptions appends options passed to sampler.New, after the
// defaults, so they can replace the counter source, clock or namer.
func WithSamplerOptions(opts ...sampler.Option) AppOption {
	return func(a *Application) { a.samplerOpts = append(a.samplerOpts, opts...) }
}

// WithTickRate fixes the counter tick rate instead of asking sysconf.
func WithTickRate(hz float64) AppOption {
	return func(a *Application) { a.TickRate = hz }
}

// New creates an Application by parsing command-line arguments. args[0] is
// the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "loadtimer"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the configured mode and returns the exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(logging.ParseLevel(a.Config.LogLevel))
	var logger logging.Logger = logging.NewConsoleLogger(a.ErrWriter, "loadtimer")
	if a.Config.TUI {
		// Console output would corrupt the alternate screen.
		logger = logging.Nop()
	}
	ui.InitTheme(a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	coord, err := sampler.New(a.Config.PIDs, a.Config.NumSamples, a.Config.Threads, a.samplerOptions(logger)...)
	if err != nil {
		return apperrors.HandleSamplingError(err, a.ErrWriter)
	}

	if a.Config.TUI {
		return a.runTUI(ctx, coord, logger)
	}
	return a.runSampling(ctx, coord, logger, out)
}

func (a *Application) samplerOptions(logger logging.Logger) []sampler.Option {
	opts := []sampler.Option{
		sampler.WithLogger(logger),
		sampler.WithNamer(sysmon.DisplayName),
		sampler.WithParallel(a.Config.Parallel),
	}
	return append(opts, a.samplerOpts...)
}

// tickRate returns the counter tick rate, falling back to the Linux default
// when sysconf cannot provide it.
func (a *Application) tickRate(logger logging.Logger) float64 {
	if a.TickRate > 0 {
		return a.TickRate
	}
	hz, err := procfs.ClockTicks()
	if err != nil {
		logger.Error("clock tick rate unavailable, assuming default", err,
			logging.Int("default", procfs.DefaultClockTicks))
		return procfs.DefaultClockTicks
	}
	return float64(hz)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
