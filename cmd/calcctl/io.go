package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/torchlit/buildcalc/internal/model"
	"github.com/torchlit/buildcalc/internal/serialize"
)

func decodeInputFile(path string) (model.CalculatorInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.CalculatorInput{}, fmt.Errorf("calcctl: opening %s: %w", path, err)
	}
	defer f.Close()

	input, err := serialize.DecodeInput(f)
	if err != nil {
		return model.CalculatorInput{}, fmt.Errorf("calcctl: decoding %s: %w", path, err)
	}
	return input, nil
}

func encodeDiff(w io.Writer, diff model.CalculationDiff) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diff)
}
