package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/torchlit/buildcalc/internal/serialize"
)

var (
	diffBasePath    string
	diffPreviewPath string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two input envelopes and report the DPS/EHP delta between them",
	Long: `Reads a base and a preview input envelope (e.g. a build before and after
a single gear swap) and prints the calculate_diff result as JSON, followed
by a one-line human-readable DPS delta summary on stderr.`,
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffBasePath, "base", "", "path to the base input envelope JSON file (required)")
	diffCmd.Flags().StringVar(&diffPreviewPath, "preview", "", "path to the preview input envelope JSON file (required)")
	_ = diffCmd.MarkFlagRequired("base")
	_ = diffCmd.MarkFlagRequired("preview")
}

func runDiff(cmd *cobra.Command, args []string) error {
	baseInput, err := decodeInputFile(diffBasePath)
	if err != nil {
		return err
	}
	previewInput, err := decodeInputFile(diffPreviewPath)
	if err != nil {
		return err
	}

	calc, err := buildCalculator()
	if err != nil {
		return err
	}

	diff, err := calc.CalculateDiff(context.Background(), baseInput, previewInput)
	if err != nil {
		return fmt.Errorf("calcctl: diff failed: %w", err)
	}

	if err := encodeDiff(os.Stdout, diff); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, serialize.FormatDPSDiff(diff))
	return nil
}
