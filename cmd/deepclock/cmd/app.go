package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
	"github.com/msto63/deepclock/foundation/utils/timex"
	"github.com/msto63/deepclock/internal/clock"
	"github.com/msto63/deepclock/internal/store"
	"github.com/msto63/deepclock/pkg/core/config"
	"github.com/msto63/deepclock/pkg/core/logging"
)

// app bundles what every subcommand needs
type app struct {
	cfg    *config.Config
	logger *logging.Logger
}

// loadApp reads the configuration and builds the logger. Without any
// config file the defaults are used.
func loadApp(logOutput io.Writer) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
		if dcerr.HasCode(err, dcerr.CodeMissingConfig) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	logger := logging.FromConfig(logging.LoggerConfig{
		Name:   cfg.General.Name,
		Level:  cfg.General.LogLevel,
		Format: cfg.General.LogFormat,
		Output: logOutput,
	})
	if verbose {
		logger = logger.WithLevel("debug")
	}

	return &app{cfg: cfg, logger: logger}, nil
}

// openStore opens the configured sqlite database
func (a *app) openStore(ctx context.Context) (*store.SQLiteStore, error) {
	return store.Open(ctx, store.Config{
		Path:        a.cfg.Store.Path,
		BusyTimeout: a.cfg.Store.BusyTimeout.Duration,
	}, a.logger.Named("store"))
}

// resolver combines the override, the store and the configured interval
func (a *app) resolver(override clock.Interval, st store.IntervalStore) (store.Resolver, error) {
	r := store.Resolver{Override: override, Store: st}

	start, end, ok, err := a.cfg.Interval.Times()
	if err != nil {
		return r, err
	}
	if ok {
		r.Fallback = clock.Interval{Start: start, End: end}
	}
	return r, nil
}

// newClock returns a clock reading now from source with the display options
func (a *app) newClock(source clock.Source) *clock.Clock {
	return clock.New(source, clock.OptionsFromConfig(a.cfg.Display))
}

// logFile opens the log file used while the terminal is taken over
func (a *app) logFile() (*os.File, error) {
	if err := os.MkdirAll(a.cfg.General.DataDir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(a.cfg.General.DataDir, "deepclock.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// parseInterval reads --start/--end. Both or neither must be given.
func parseInterval(start, end string) (clock.Interval, error) {
	if start == "" && end == "" {
		return clock.Interval{}, nil
	}
	if start == "" || end == "" {
		return clock.Interval{}, dcerr.New("--start and --end must be given together").
			WithCode(dcerr.CodeInvalidInput)
	}

	s, err := timex.Parse(start)
	if err != nil {
		return clock.Interval{}, dcerr.Wrap(err, "--start").WithCode(dcerr.CodeInvalidFormat)
	}
	e, err := timex.Parse(end)
	if err != nil {
		return clock.Interval{}, dcerr.Wrap(err, "--end").WithCode(dcerr.CodeInvalidFormat)
	}

	iv := clock.Interval{Start: s, End: e}
	return iv, iv.Validate()
}
