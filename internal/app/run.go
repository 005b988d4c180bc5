package app

import (
	"context"
	"io"

	"github.com/agbru/loadtimer/internal/cli"
	apperrors "github.com/agbru/loadtimer/internal/errors"
	"github.com/agbru/loadtimer/internal/logging"
	"github.com/agbru/loadtimer/internal/orchestration"
	"github.com/agbru/loadtimer/internal/sampler"
	"github.com/agbru/loadtimer/internal/server"
	"github.com/agbru/loadtimer/internal/tui"
)

func (a *Application) runOptions(logger logging.Logger) orchestration.RunOptions {
	return orchestration.RunOptions{
		Interval:   a.Config.Interval(),
		NumSamples: a.Config.NumSamples,
		Break:      a.Config.Break,
		TickRate:   a.tickRate(logger),
	}
}

// runSampling runs the oneshot or the interactive table mode.
func (a *Application) runSampling(ctx context.Context, coord *sampler.Coordinator, logger logging.Logger, out io.Writer) int {
	observer, stop := a.startMetricsServer(ctx, logger)
	defer stop()

	if !a.Config.Quiet {
		cli.PrintRunHeader(out, a.Config.PIDs, a.Config.NumSamples, a.Config.SampleSecs)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
	}

	session := orchestration.NewSession(coord, a.runOptions(logger), observer)
	presenter := cli.CLIResultPresenter{}

	var err error
	if a.Config.Interactive {
		err = session.RunLive(ctx, reporter, presenter, out)
	} else {
		err = session.RunOneshot(ctx, reporter, presenter, out)
	}
	return apperrors.HandleSamplingError(err, a.ErrWriter)
}

// runTUI launches the dashboard.
func (a *Application) runTUI(ctx context.Context, coord *sampler.Coordinator, logger logging.Logger) int {
	observer, stop := a.startMetricsServer(ctx, logger)
	defer stop()

	return tui.Run(ctx, tui.Options{
		Sampler:  coord,
		Run:      a.runOptions(logger),
		Observer: observer,
		PIDs:     a.Config.PIDs,
		Version:  Version,
	}, a.ErrWriter)
}

// startMetricsServer starts the Prometheus exporter when an address is
// configured. It returns the observer to feed and a function that shuts the
// server down and waits for it.
func (a *Application) startMetricsServer(ctx context.Context, logger logging.Logger) (orchestration.MetricsObserver, func()) {
	if a.Config.MetricsAddr == "" {
		return orchestration.NullObserver{}, func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	metrics := server.NewMetrics()
	srv := server.New(a.Config.MetricsAddr, metrics, logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.ListenAndServe(ctx); err != nil {
			logger.Error("metrics server stopped", err, logging.String("addr", a.Config.MetricsAddr))
		}
	}()
	return metrics, func() {
		cancel()
		<-done
	}
}
