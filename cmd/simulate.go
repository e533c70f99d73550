package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/internal/config"
	"github.com/sarchlab/cachesim/internal/logging"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/report"
	"github.com/sarchlab/cachesim/simulation"
	"github.com/sarchlab/cachesim/trace"
	"github.com/sarchlab/cachesim/tracing"
	"github.com/spf13/cobra"
)

type closer interface {
	Close() error
}

func runSimulation(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(settings, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(settings.Format)
	if err != nil {
		return err
	}

	c, err := parseGeometry(args[0], args[1], args[3])
	if err != nil {
		return err
	}

	policy, err := cache.ParsePolicy(args[2])
	if err != nil {
		return err
	}

	src, err := trace.Open(args[4])
	if err != nil {
		return err
	}
	defer src.Close()

	src.WithStrict(settings.Strict).WithLogger(logger)

	builder := simulation.MakeBuilder().
		WithConfig(c).
		WithPolicy(policy).
		WithLogger(logger)

	var closers []closer
	defer func() {
		for _, cl := range closers {
			if err := cl.Close(); err != nil {
				logger.Error().Err(err).Msg("closing recorder")
			}
		}
	}()

	if settings.CSVTrace != "" {
		t := tracing.NewCSVTracer(settings.CSVTrace)
		if err := t.Init(); err != nil {
			return fmt.Errorf("creating csv trace: %w", err)
		}

		closers = append(closers, t)
		builder = builder.WithHook(t)
	}

	if settings.SQLiteTrace != "" {
		t := tracing.NewSQLiteTracer(strings.TrimSuffix(settings.SQLiteTrace, ".sqlite3"))
		if err := t.Init(); err != nil {
			return fmt.Errorf("creating sqlite trace: %w", err)
		}

		closers = append(closers, t)
		builder = builder.WithHook(t)
	}

	if settings.JSONTrace != "" {
		t, err := tracing.NewJSONFileTracer(settings.JSONTrace)
		if err != nil {
			return fmt.Errorf("creating json trace: %w", err)
		}

		closers = append(closers, t)
		builder = builder.WithHook(t)
	}

	var usage *tracing.SetUsageTracer
	if settings.PerSet != 0 {
		usage = tracing.NewSetUsageTracer()
		builder = builder.WithHook(usage)
	}

	sim, err := builder.Build()
	if err != nil {
		return err
	}

	if settings.Monitor {
		m, err := startMonitor(settings, logger, sim)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Stop(); err != nil {
				logger.Error().Err(err).Msg("stopping monitor")
			}
		}()
	}

	logger.Info().
		Str("cache", c.String()).
		Str("policy", policy.Name()).
		Str("trace", src.Path()).
		Msg("simulation started")

	counters, err := sim.Run(src)
	if err != nil {
		return err
	}

	logger.Info().
		Uint64("accesses", counters.Accesses()).
		Int("skipped_lines", src.Skipped()).
		Float64("hit_rate", counters.HitRate()).
		Msg("simulation finished")

	out := cmd.OutOrStdout()
	if err := report.Write(out, format, counters); err != nil {
		return err
	}

	if usage != nil {
		fmt.Fprintln(out)
		return report.WriteSetUsage(out, usage.Hottest(settings.PerSet))
	}

	return nil
}

func newLogger(s config.Settings, out io.Writer) (zerolog.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Out = out

	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}

	format, err := logging.ParseFormat(s.LogFormat)
	if err != nil {
		return zerolog.Nop(), err
	}

	cfg.Level = level
	cfg.Format = format

	return logging.New(cfg), nil
}

// newMonitor sets the logger first so port warnings are not lost.
func newMonitor(s config.Settings, logger zerolog.Logger) *monitoring.Monitor {
	return monitoring.NewMonitor().
		WithLogger(logger).
		WithPortNumber(s.MonitorPort)
}

func startMonitor(
	s config.Settings,
	logger zerolog.Logger,
	sim *simulation.Simulator,
) (*monitoring.Monitor, error) {
	m := newMonitor(s, logger)
	m.RegisterSimulator("cachesim", sim)

	if err := m.StartServer(); err != nil {
		return nil, err
	}

	if s.OpenBrowser {
		if err := m.OpenInBrowser(); err != nil {
			logger.Warn().Err(err).Msg("cannot open browser")
		}
	}

	return m, nil
}
