// Package cmd implements the symbolica command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "symbolica",
	Short: "AI content enrichment service for the cultural symbol catalogue",
	Long: `Symbolica enriches quest content in a catalogue of cultural symbols.
It builds field-specific prompts, dispatches them across multiple LLM
providers with automatic fallback, validates the responses, and scores
the results with a confidence heuristic.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".symbolica.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
