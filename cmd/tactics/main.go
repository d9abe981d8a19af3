// Package main provides the tactics command line: level checks, headless
// simulations, a hosted play loop and save slot management.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	seed       int64
)

var rootCmd = &cobra.Command{
	Use:   "tactics",
	Short: "Turn-based tactical RPG engine",
	Long: `tactics loads levels built from the YAML catalog and XML level documents,
runs them headless with the AI driving every camp, and manages save slots.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/dev.yaml", "path to configuration file")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "dice seed; 0 uses a cryptographic source")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(optionsCmd)
}
