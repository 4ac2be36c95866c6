package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the calculator engine's semver",
	RunE: func(cmd *cobra.Command, args []string) error {
		calc, err := buildCalculator()
		if err != nil {
			return err
		}
		fmt.Println(calc.Version())
		return nil
	},
}
