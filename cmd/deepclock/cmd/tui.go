package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/deepclock/internal/clock"
	"github.com/msto63/deepclock/internal/tui"
)

var (
	tuiStart string
	tuiEnd   string
	tuiScrub bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the live terminal view",
	Long: `Shows the projected date live, refreshed several times per second.

With --scrub the current time can be moved with the arrow keys, which
shows where the clock will be at any point of the interval.

Keys:
  e         - Edit and save the interval
  r         - Reload the interval
  ←/→       - Move now (scrub mode)
  ↑/↓       - Change the step (scrub mode)
  s/f/n     - Jump to start, end or the real now (scrub mode)
  q, Ctrl+C - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVar(&tuiStart, "start", "", "interval start (overrides store and config)")
	tuiCmd.Flags().StringVar(&tuiEnd, "end", "", "interval end (overrides store and config)")
	tuiCmd.Flags().BoolVar(&tuiScrub, "scrub", false, "allow moving the current time")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Logs go to a file while the terminal shows the view.
	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		printError("loading config", err)
		return err
	}
	logFile, err := a.logFile()
	if err != nil {
		printError("opening log file", err)
		return err
	}
	defer logFile.Close()
	a.logger.Logger = a.logger.Logger.WithOutput(logFile)

	override, err := parseInterval(tuiStart, tuiEnd)
	if err != nil {
		printError("invalid interval", err)
		return err
	}

	st, err := a.openStore(ctx)
	if err != nil {
		printError("opening store", err)
		return err
	}
	defer st.Close()

	r, err := a.resolver(override, st)
	if err != nil {
		printError("invalid interval in config", err)
		return err
	}

	cfg := tui.Config{
		Intervals: r,
		Store:     st,
		Refresh:   a.cfg.Display.Refresh.Duration,
	}
	if tuiScrub {
		cfg.Scrub = clock.NewScrubClock(time.Now(), time.Now)
		cfg.Clock = a.newClock(cfg.Scrub)
	} else {
		cfg.Clock = a.newClock(clock.SystemClock{})
	}

	a.logger.Info("starting tui", "scrub", tuiScrub)
	if err := tui.Run(cfg); err != nil {
		printError("TUI", err)
		return err
	}
	return nil
}
