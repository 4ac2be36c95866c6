package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/torchlit/buildcalc/internal/pkg/clock"
	"github.com/torchlit/buildcalc/internal/serialize"
)

var (
	calculateInputPath string
	calculateTrace     bool
	calculateTiming    bool
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate a single hit's damage breakdown, DPS, and EHP for one input envelope",
	Long: `Reads a calculator input envelope as JSON (from --input, or stdin if
omitted) and prints the resulting output envelope as JSON.`,
	RunE: runCalculate,
}

func init() {
	calculateCmd.Flags().StringVar(&calculateInputPath, "input", "", "path to the input envelope JSON file (reads stdin if omitted)")
	calculateCmd.Flags().BoolVar(&calculateTrace, "trace", false, "include a per-stage debug trace in the output")
	calculateCmd.Flags().BoolVar(&calculateTiming, "timing", false, "log wall-clock duration of the calculate call to stderr")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	r, closeFn, err := openInput(calculateInputPath)
	if err != nil {
		return err
	}
	defer closeFn()

	input, err := serialize.DecodeInput(r)
	if err != nil {
		return fmt.Errorf("calcctl: %w", err)
	}

	calc, err := buildCalculator()
	if err != nil {
		return err
	}

	clk := clock.New()
	started := clk.Now()
	out, err := calc.Calculate(context.Background(), input, calculateTrace)
	if err != nil {
		return fmt.Errorf("calcctl: calculate failed: %w", err)
	}
	if calculateTiming {
		log.Printf("calculate: %s", clk.Now().Sub(started))
	}

	return serialize.EncodeOutput(os.Stdout, out)
}

// openInput opens path for reading, or returns stdin if path is empty. The
// returned close function is always safe to call.
func openInput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, func() {}, fmt.Errorf("calcctl: opening %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
