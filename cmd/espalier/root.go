package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier is a message-driven setup wizard engine",
	Long: `Espalier walks each user through a fixed sequence of setup questions, one
message at a time, and keeps their progress in a pluggable session store.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("catalog", "", "Path to a catalog definition file (overrides ESPALIER_CATALOG)")
}

// loadConfig reads the environment configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if path, _ := cmd.Flags().GetString("catalog"); path != "" {
		cfg.CatalogPath = path
	}
	return cfg, nil
}

func newRuntime(cmd *cobra.Command, extra ...espalier.Option) (*cli.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewRuntime(cfg, extra...)
}

// mustRuntime is newRuntime for commands that cannot proceed without one.
func mustRuntime(cmd *cobra.Command) *cli.Runtime {
	rt, err := newRuntime(cmd)
	if err != nil {
		fmt.Printf("Error initializing espalier: %v\n", err)
		os.Exit(1)
	}
	return rt
}
