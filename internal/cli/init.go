package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/calebh/cadm/internal/config"
	"github.com/calebh/cadm/internal/errors"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	initSeedsFlag string
	initForce     bool
)

// initCmd creates a new .cadm.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .cadm.yaml configuration",
	Long: `Initialize a new cadm configuration file.

Creates a .cadm.yaml file in the current directory with sensible defaults,
prompting for the cluster seed addresses.

Examples:
  cadm init
  cadm init --seeds 10.0.0.1:3000,10.0.0.2:3000
  cadm init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initSeedsFlag, initForce)
	},
}

// initCommand writes the config template, prompting when no seeds were
// given on the command line.
func initCommand(seeds string, force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if seeds == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Cluster seed addresses").
					Description("Comma-separated host:port list used to discover the cluster").
					Placeholder("127.0.0.1:3000").
					Value(&seeds).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("at least one seed address is required")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Provide seeds with --seeds host:port")
		}
	}

	cfg := config.Default()
	cfg.Seeds = nil
	for _, s := range strings.Split(seeds, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.Seeds = append(cfg.Seeds, s)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to serialize config", "")
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+configPath,
			"Check directory permissions")
	}

	fmt.Printf("Wrote %s with %d seed(s).\n", configPath, len(cfg.Seeds))
	return nil
}

func init() {
	initCmd.Flags().StringVar(&initSeedsFlag, "seeds", "", "comma-separated seed addresses")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	rootCmd.AddCommand(initCmd)
}
