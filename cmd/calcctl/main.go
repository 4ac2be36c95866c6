// calcctl is the headless test harness for the build-decision calculator:
// it runs the same Calculator facade the interactive planner embeds,
// reading input envelopes as JSON and printing output envelopes as JSON,
// so a gear build can be evaluated from a shell or a CI script without a
// UI in the loop.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	registryPath  string
	cacheCapacity int
	redisAddr     string
)

var rootCmd = &cobra.Command{
	Use:   "calcctl",
	Short: "Headless test harness for the build-decision calculator",
	Long: `calcctl runs the deterministic build-decision calculator against a JSON
input envelope and prints the resulting output envelope, for scripted
A/B comparisons and CI regression checks.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "path to a YAML tag/mechanic registry config (defaults to an empty auto-interning registry)")
	rootCmd.PersistentFlags().IntVar(&cacheCapacity, "cache-capacity", 0, "result cache capacity (0 uses the engine default)")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "optional Redis address for the distributed cache tier")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(warmupCmd)
	rootCmd.AddCommand(cacheStatsCmd)
	rootCmd.AddCommand(wipeCacheCmd)
	rootCmd.AddCommand(versionCmd)
}
