package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/deepclock/foundation/utils/timex"
	"github.com/msto63/deepclock/internal/clock"
	"github.com/msto63/deepclock/internal/store"
)

var (
	showStart string
	showEnd   string
	showNow   string
	showJSON  bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print how far back the clock reaches right now",
	Long: `Evaluates the interval once and prints the projected date.

Examples:
  deepclock show
  deepclock show --start 2024-01-01 --end 2024-12-31
  deepclock show --now 2024-06-30T12:00:00Z --json`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&showStart, "start", "", "interval start (overrides store and config)")
	showCmd.Flags().StringVar(&showEnd, "end", "", "interval end (overrides store and config)")
	showCmd.Flags().StringVar(&showNow, "now", "", "evaluate at this instant instead of the current time")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the snapshot as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		printError("loading config", err)
		return err
	}

	override, err := parseInterval(showStart, showEnd)
	if err != nil {
		printError("invalid interval", err)
		return err
	}

	var st store.IntervalStore
	if !override.IsSet() {
		sqlite, err := a.openStore(ctx)
		if err != nil {
			printError("opening store", err)
			return err
		}
		defer sqlite.Close()
		st = sqlite
	}

	r, err := a.resolver(override, st)
	if err != nil {
		printError("invalid interval in config", err)
		return err
	}
	iv, source, err := r.Resolve(ctx)
	if err != nil {
		printError("resolving interval", err)
		return err
	}
	a.logger.Debug("interval resolved", "source", source)

	now := time.Now()
	if showNow != "" {
		now, err = timex.Parse(showNow)
		if err != nil {
			printError("invalid --now", err)
			return err
		}
	}

	snap, err := a.newClock(nil).At(iv, now)
	if err != nil {
		printError("computing snapshot", err)
		return err
	}

	if showJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	printSnapshot(cmd.OutOrStdout(), snap, source)
	return nil
}

// printSnapshot writes the human-readable readout
func printSnapshot(w io.Writer, s clock.Snapshot, source string) {
	fmt.Fprintf(w, "The clock now reaches back to\n\n  %s\n  %s\n\n", s.Display, s.TimeAgo)
	fmt.Fprintf(w, "  Interval:   %s .. %s (%s)\n",
		s.Interval.Start.UTC().Format(time.RFC3339), s.Interval.End.UTC().Format(time.RFC3339), source)
	fmt.Fprintf(w, "  Length:     %s\n", timex.FormatDuration(s.Interval.Length()))
	fmt.Fprintf(w, "  Now:        %s\n", s.Now.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "  Progress:   %.4f%%\n", s.P*100)
	fmt.Fprintf(w, "  Remaining:  %s\n", s.Remaining)
	fmt.Fprintf(w, "  Rate:       %.6g years per year\n", s.Derivative)
	fmt.Fprintf(w, "  Tier:       %s", s.Tier.Kind)
	if s.Tier.Kind == clock.TierGeologic {
		fmt.Fprintf(w, " (image %d)", s.Tier.Image)
	}
	fmt.Fprintln(w)
	if s.Events != nil {
		fmt.Fprintf(w, "  Events:     %s .. %s\n",
			s.Events.From.UTC().Format("2006-01-02"), s.Events.To.UTC().Format("2006-01-02"))
	}
}
