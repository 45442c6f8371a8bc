package cmd

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/msto63/deepclock/internal/clock"
	"github.com/msto63/deepclock/internal/server"
	"github.com/msto63/deepclock/pkg/core/health"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	Long: `Serves snapshots for remote displays.

Endpoints:
  GET /api/snapshot[?now=...]  - snapshot as JSON
  GET /api/interval            - the interval being served
  GET /api/version             - build information
  GET /ws                      - websocket, pushes a snapshot every push interval
  GET /healthz                 - health report

Examples:
  deepclock serve
  deepclock serve --addr 0.0.0.0:8088`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address host:port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		printError("loading config", err)
		return err
	}

	cfg := server.ConfigFrom(a.cfg.Server)
	if serveAddr != "" {
		host, port, err := splitAddr(serveAddr)
		if err != nil {
			printError("invalid --addr", err)
			return err
		}
		cfg.Host, cfg.Port = host, port
	}

	st, err := a.openStore(ctx)
	if err != nil {
		printError("opening store", err)
		return err
	}
	defer st.Close()

	r, err := a.resolver(clock.Interval{}, st)
	if err != nil {
		printError("invalid interval in config", err)
		return err
	}

	srv := server.New(cfg, a.newClock(clock.SystemClock{}), r,
		map[string]health.Pinger{"store": st}, a.logger.Named("server"))

	fmt.Fprintf(cmd.OutOrStdout(), "deepclock listening on http://%s\n", srv.Address())
	if err := srv.Run(ctx); err != nil {
		a.logger.LogError(err)
		printError("server", err)
		return err
	}
	return nil
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port %q", portStr)
	}
	return host, port, nil
}
