package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "deepclock",
	Short: "deepclock - How far back does the clock go",
	Long: `deepclock maps the progress through an interval onto a point in the
deep past. At the start of the interval it shows the present; by the end
it reaches back to before the Earth formed.

The interval comes from --start/--end, the last one saved with
'deepclock interval set', or the [interval] section of the config file.`,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the context
// handed to subcommands.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $DEEPCLOCK_CONFIG or ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
