package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/calebh/cadm/internal/cluster"
	"github.com/calebh/cadm/internal/config"
	"github.com/calebh/cadm/internal/logger"
	"github.com/spf13/cobra"
)

// Global flags
var (
	configFlag string
	seedsFlag  []string
)

// rootCmd is the base command for cadm.
var rootCmd = &cobra.Command{
	Use:   "cadm",
	Short: "Cluster administration and monitoring client",
	Long: `cadm queries every node of a database cluster over the info protocol,
parses the delimited statistics text, and renders it as tables or a
continuously refreshing terminal view.

Examples:
  cadm info network
  cadm show statistics objects
  cadm watch -- info network`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringSliceVar(&seedsFlag, "seeds", nil, "seed node addresses (host:port), overrides config")
}

// signalContext returns a context cancelled by SIGINT/SIGTERM, so every
// suspension point unwinds cleanly on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// loadConfig resolves configuration with CLI flag overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}
	if len(seedsFlag) > 0 {
		cfg.Seeds = seedsFlag
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// connectCluster loads config and discovers the cluster from its seeds.
func connectCluster(ctx context.Context) (*cluster.Cluster, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewEnvLogger("[cluster]")
	cl := cluster.New(cluster.NewTCPClient(log), cluster.Options{
		Timeout: cfg.Timeout,
		InfoTTL: cfg.InfoTTL,
	}, log)

	if err := cl.Discover(ctx, cfg.Seeds); err != nil {
		return nil, nil, err
	}
	return cl, cfg, nil
}
