package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"popdash/domain/population"
	"popdash/internal"
	"popdash/internal/config"
	"popdash/internal/container"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	dataFile string
	envFile  string
	logLevel string

	container *container.Container
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "popdash",
		Short:         "Population dashboard tools for the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dataFile, "data", "", "dataset file (overrides DATA_FILE)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "env file to load instead of .env")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(
		newRegionsCmd(opts),
		newSummaryCmd(opts),
		newExportCmd(opts),
		newChartsCmd(opts),
	)
	return rootCmd
}

// setup loads env and config and wires the container
func (o *rootOptions) setup() error {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", o.envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.dataFile != "" {
		cfg.Data.File = o.dataFile
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	internal.Configure(cfg.Logging.Level, cfg.Logging.Format)

	o.container, err = container.New(cfg)
	return err
}

// selection resolves --region flags, falling back to the configured presets
func (o *rootOptions) selection(cmd *cobra.Command, regions []string) (population.Selection, error) {
	sel := population.NewSelection(regions...)
	if !sel.IsEmpty() {
		return sel, nil
	}
	return o.container.Dashboard.DefaultSelection(cmd.Context())
}
