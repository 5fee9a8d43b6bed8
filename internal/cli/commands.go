package cli

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/calebh/cadm/internal/errors"
	"github.com/calebh/cadm/internal/logger"
	"github.com/calebh/cadm/internal/watch"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Command-specific flags
var (
	watchIntervalFlag   string
	watchIterationsFlag int
	watchNoDiffFlag     bool
	asinfoValueFlag     string
)

// infoCmd shows the cluster overview; bare 'info' means 'info network'.
var infoCmd = &cobra.Command{
	Use:   "info [network|namespace]",
	Short: "Show cluster node and namespace tables",
	Long: `Query every node in parallel and render the result as a table.

Views:
  network    one row per node: build, cluster size, uptime (default)
  namespace  one row per node and namespace: objects, storage usage

Examples:
  cadm info
  cadm info network
  cadm info namespace`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControllerCommand(append([]string{"info"}, args...))
	},
}

// showCmd renders per-node config or statistics matrices.
var showCmd = &cobra.Command{
	Use:   "show <config|statistics> [like...]",
	Short: "Show per-node configuration or statistics",
	Long: `Render a field-by-node matrix of service configuration or statistics.

Any extra arguments act as substring filters on field names.

Examples:
  cadm show config
  cadm show statistics objects
  cadm show config proto paxos`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControllerCommand(append([]string{"show"}, args...))
	},
}

// asinfoCmd sends a raw info command to every node.
var asinfoCmd = &cobra.Command{
	Use:   "asinfo <command>",
	Short: "Send a raw info command to every node",
	Long: `Send the given info-protocol command verbatim to every node and dump
each raw response, with per-node errors clearly marked.

Examples:
  cadm asinfo statistics
  cadm asinfo -v "namespace/test"`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if asinfoValueFlag != "" {
			args = append([]string{asinfoValueFlag}, args...)
		}
		return runControllerCommand(append([]string{"asinfo"}, args...))
	},
}

// watchCmd re-runs any cadm command on an interval with change highlighting.
var watchCmd = &cobra.Command{
	Use:   "watch [flags] -- <command...>",
	Short: "Re-run a command on an interval, highlighting changes",
	Long: `Repeatedly execute a cadm command, diffing successive outputs and
highlighting changed regions in inverse video. Stops after --iterations
runs, or on Ctrl-C.

Examples:
  cadm watch -- info network
  cadm watch --interval 5s --iterations 10 -- show statistics objects
  cadm watch --no-diff -- info namespace`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(args)
	},
}

// runControllerCommand connects to the cluster and executes one command
// line against stdout.
func runControllerCommand(line []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cl, _, err := connectCluster(ctx)
	if err != nil {
		return err
	}

	ctrl := NewController(cl, logger.NewEnvLogger("[cli]"))
	return ctrl.Execute(ctx, line, os.Stdout)
}

// watchCommand wraps a controller command in the watch loop.
func watchCommand(line []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cl, cfg, err := connectCluster(ctx)
	if err != nil {
		return err
	}

	interval := cfg.WatchInterval
	if watchIntervalFlag != "" {
		parsed, err := time.ParseDuration(watchIntervalFlag)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Invalid interval: "+watchIntervalFlag,
				"Use a valid duration like 2s, 5s, or 1m")
		}
		if parsed < 100*time.Millisecond {
			return errors.New(errors.ErrConfig,
				"Interval too short",
				"Minimum interval is 100ms to avoid overwhelming nodes")
		}
		interval = parsed
	}

	// Highlighting is only useful on an interactive terminal; piped output
	// gets plain frames regardless of --no-diff.
	diff := !watchNoDiffFlag && term.IsTerminal(int(os.Stdout.Fd()))

	ctrl := NewController(cl, logger.NewEnvLogger("[cli]"))
	loop := watch.New(watch.Options{
		Command:    joinCommand(line),
		Interval:   interval,
		Iterations: watchIterationsFlag,
		Diff:       diff,
		Out:        os.Stdout,
	}, logger.NewEnvLogger("[watch]"))

	return loop.Run(ctx, func(w io.Writer) error {
		return ctrl.Execute(ctx, line, w)
	})
}

// joinCommand formats the watched command line for the banner.
func joinCommand(line []string) string {
	return strings.Join(line, " ")
}

func init() {
	watchCmd.Flags().StringVar(&watchIntervalFlag, "interval", "", "refresh interval (e.g., 2s, 5s, 1m)")
	watchCmd.Flags().IntVar(&watchIterationsFlag, "iterations", 0, "stop after this many runs (0 = until interrupted)")
	watchCmd.Flags().BoolVar(&watchNoDiffFlag, "no-diff", false, "disable change highlighting")
	asinfoCmd.Flags().StringVarP(&asinfoValueFlag, "value", "v", "", "info command to send (alternative to positional form)")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(asinfoCmd)
	rootCmd.AddCommand(watchCmd)
}
