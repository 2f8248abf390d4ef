package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "democtl",
	Short: "Generate and remove stagebook demo data",
	Long: `democtl populates a stagebook database with a self-consistent demo data set
(performers, customers, bookings with their money trail, reviews, market
events and bids) and removes it again.

Every generated record is tagged as demo data, so teardown never touches
real accounts.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (default: ./config.yaml if present)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
