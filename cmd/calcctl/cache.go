package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/torchlit/buildcalc/internal/engine"
)

var cacheStatsCmd = &cobra.Command{
	Use:   "cache-stats",
	Short: "Print the result cache's current occupancy and hit rate",
	Long: `Starts a fresh engine instance and prints its (necessarily empty) cache
stats as JSON, as a smoke test that the facade's GetCacheStats wiring is
intact.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		calc, err := buildCalculator()
		if err != nil {
			return err
		}
		return printCacheStats(calc)
	},
}

var wipeCacheCmd = &cobra.Command{
	Use:   "wipe-cache",
	Short: "Wipe a freshly built engine's result cache and print the resulting stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		calc, err := buildCalculator()
		if err != nil {
			return err
		}
		calc.WipeCache()
		return printCacheStats(calc)
	},
}

func printCacheStats(calc engine.Calculator) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(calc.GetCacheStats()); err != nil {
		return fmt.Errorf("calcctl: encoding cache stats: %w", err)
	}
	return nil
}
