package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
	"github.com/msto63/deepclock/foundation/utils/timex"
)

var (
	setStart     string
	setEnd       string
	historyLimit int
	intervalJSON bool
)

var intervalCmd = &cobra.Command{
	Use:   "interval",
	Short: "Manage the saved interval",
	Long: `Saves, shows and clears the interval kept in the local database.

Examples:
  deepclock interval set --start 2024-01-01 --end 2024-12-31
  deepclock interval show
  deepclock interval history --limit 5
  deepclock interval clear`,
}

var intervalSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save a new interval",
	Args:  cobra.NoArgs,
	RunE:  runIntervalSet,
}

var intervalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved interval",
	Args:  cobra.NoArgs,
	RunE:  runIntervalShow,
}

var intervalHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously saved intervals",
	Args:  cobra.NoArgs,
	RunE:  runIntervalHistory,
}

var intervalClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved intervals",
	Args:  cobra.NoArgs,
	RunE:  runIntervalClear,
}

func init() {
	rootCmd.AddCommand(intervalCmd)
	intervalCmd.AddCommand(intervalSetCmd, intervalShowCmd, intervalHistoryCmd, intervalClearCmd)

	intervalSetCmd.Flags().StringVar(&setStart, "start", "", "interval start")
	intervalSetCmd.Flags().StringVar(&setEnd, "end", "", "interval end")
	intervalSetCmd.MarkFlagRequired("start")
	intervalSetCmd.MarkFlagRequired("end")

	intervalShowCmd.Flags().BoolVar(&intervalJSON, "json", false, "print as JSON")
	intervalHistoryCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum number of entries")
}

func runIntervalSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	iv, err := parseInterval(setStart, setEnd)
	if err != nil {
		printError("invalid interval", err)
		return err
	}

	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		printError("loading config", err)
		return err
	}
	st, err := a.openStore(ctx)
	if err != nil {
		printError("opening store", err)
		return err
	}
	defer st.Close()

	rec, err := st.Save(ctx, iv)
	if err != nil {
		printError("saving interval", err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved interval %s\n  %s .. %s\n", rec.ID,
		rec.Interval.Start.Format(time.RFC3339), rec.Interval.End.Format(time.RFC3339))
	return nil
}

func runIntervalShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		printError("loading config", err)
		return err
	}
	st, err := a.openStore(ctx)
	if err != nil {
		printError("opening store", err)
		return err
	}
	defer st.Close()

	rec, err := st.Load(ctx)
	if dcerr.HasCode(err, dcerr.CodeNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No interval saved.")
		return nil
	}
	if err != nil {
		printError("loading interval", err)
		return err
	}

	if intervalJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ID:      %s\nStart:   %s\nEnd:     %s\nLength:  %s\nSaved:   %s\n",
		rec.ID,
		rec.Interval.Start.Format(time.RFC3339),
		rec.Interval.End.Format(time.RFC3339),
		timex.FormatDuration(rec.Interval.Length()),
		rec.CreatedAt.Format(time.RFC3339))
	return nil
}

func runIntervalHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		printError("loading config", err)
		return err
	}
	st, err := a.openStore(ctx)
	if err != nil {
		printError("opening store", err)
		return err
	}
	defer st.Close()

	records, err := st.History(ctx, historyLimit)
	if err != nil {
		printError("listing intervals", err)
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No interval saved.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s .. %s  (saved %s)\n",
			rec.ID[:8],
			rec.Interval.Start.Format(time.RFC3339),
			rec.Interval.End.Format(time.RFC3339),
			rec.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runIntervalClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		printError("loading config", err)
		return err
	}
	st, err := a.openStore(ctx)
	if err != nil {
		printError("opening store", err)
		return err
	}
	defer st.Close()

	n, err := st.Clear(ctx)
	if err != nil {
		printError("clearing intervals", err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d interval(s).\n", n)
	return nil
}
