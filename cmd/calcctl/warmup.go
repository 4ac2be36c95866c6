package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/torchlit/buildcalc/internal/model"
)

var warmupInputPath string

var warmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Precompute and cache a batch of input envelopes",
	Long: `Reads a JSON array of input envelopes (e.g. a planner's starter loadouts)
and runs each through Calculate, then prints the resulting cache stats.`,
	RunE: runWarmup,
}

func init() {
	warmupCmd.Flags().StringVar(&warmupInputPath, "input", "", "path to a JSON array of input envelopes (required)")
	_ = warmupCmd.MarkFlagRequired("input")
}

func runWarmup(cmd *cobra.Command, args []string) error {
	f, err := os.Open(warmupInputPath)
	if err != nil {
		return fmt.Errorf("calcctl: opening %s: %w", warmupInputPath, err)
	}
	defer f.Close()

	var inputs []model.CalculatorInput
	if err := json.NewDecoder(f).Decode(&inputs); err != nil {
		return fmt.Errorf("calcctl: decoding %s: %w", warmupInputPath, err)
	}

	calc, err := buildCalculator()
	if err != nil {
		return err
	}

	if err := calc.Warmup(context.Background(), inputs); err != nil {
		return fmt.Errorf("calcctl: warmup failed: %w", err)
	}

	return printCacheStats(calc)
}
