package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sudo-init-do/stagebook/internal/alerts"
	"github.com/sudo-init-do/stagebook/internal/config"
	"github.com/sudo-init-do/stagebook/internal/demo"
)

var (
	genDryRun         bool
	genSeedsFile      string
	genReportFailures bool
	genJSON           bool
	genRandSeed       uint64
	genNotify         bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a demo data set",
	Long: `Run the five generation stages in order: taxonomy, performers (with
availability and microsites), customers, bookings with transactions and
reviews, and market events with bids.

Units that fail are skipped; the command always prints what was created.
Use --dry-run to generate into memory without a database.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Generate into an in-memory store instead of Postgres")
	generateCmd.Flags().StringVar(&genSeedsFile, "seeds", "", "YAML seed file (default: embedded seeds or demo.seeds_file)")
	generateCmd.Flags().BoolVar(&genReportFailures, "report-failures", false, "List skipped units in the summary")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "Print the summary as JSON")
	generateCmd.Flags().Uint64Var(&genRandSeed, "rand-seed", 0, "Seed for the random source (0 picks one)")
	generateCmd.Flags().BoolVar(&genNotify, "notify", false, "Enqueue an admin alert when done")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	seedsPath := genSeedsFile
	if seedsPath == "" {
		seedsPath = cfg.Demo.SeedsFile
	}
	seeds, err := demo.LoadSeeds(seedsPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	backend, closeFn, err := openBackend(ctx, cfg, genDryRun)
	if err != nil {
		return err
	}
	defer closeFn()

	opts := []demo.Option{
		demo.WithLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))),
		demo.WithOptions(demo.Options{
			ReportFailures: genReportFailures || cfg.Demo.ReportFailures,
			UserPassword:   cfg.Demo.UserPassword,
		}),
	}
	if genRandSeed != 0 {
		opts = append(opts, demo.WithRand(demo.NewRand(genRandSeed)))
	}

	sum, err := demo.NewRunner(backend, seeds, opts...).Generate(ctx)
	if err != nil {
		return err
	}

	if genNotify && !genDryRun {
		alerts.InitClient(cfg.Redis.Addr)
		defer alerts.Close()
		if err := alerts.EnqueueDemoGenerated(alerts.NewDemoGenerated(sum, alerts.TriggerCLI, "")); err != nil {
			fmt.Fprintf(os.Stderr, "warning: alert not enqueued: %v\n", err)
		}
	}

	if genJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	printSummary(cmd.OutOrStdout(), sum)
	return nil
}

func printSummary(w io.Writer, sum demo.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := []struct {
		label string
		n     int
	}{
		{"categories", sum.Categories},
		{"service areas", sum.ServiceAreas},
		{"performers", sum.Performers},
		{"availability slots", sum.AvailabilitySlots},
		{"microsites", sum.Microsites},
		{"customers", sum.Customers},
		{"bookings", sum.Bookings},
		{"reviews", sum.Reviews},
		{"transactions", sum.Transactions},
		{"market events", sum.MarketEvents},
		{"bids", sum.Bids},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\n", r.label, r.n)
	}
	tw.Flush()

	if len(sum.Failures) > 0 {
		fmt.Fprintf(w, "\nskipped %d units:\n", len(sum.Failures))
		for _, f := range sum.Failures {
			fmt.Fprintf(w, "  [%s] %s: %s\n", f.Stage, f.Unit, f.Reason)
		}
	}
	fmt.Fprintf(w, "\ndone in %s\n", sum.Duration.Round(time.Millisecond))
}
