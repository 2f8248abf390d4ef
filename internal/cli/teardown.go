package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sudo-init-do/stagebook/internal/alerts"
	"github.com/sudo-init-do/stagebook/internal/config"
	"github.com/sudo-init-do/stagebook/internal/demo"
)

var (
	teardownYes    bool
	teardownNotify bool
)

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Remove every record tagged as demo data",
	Long: `Delete demo rows from every table, children first. Accounts, terms and
content that were not created by the generator are left alone.`,
	RunE: runTeardown,
}

func init() {
	rootCmd.AddCommand(teardownCmd)

	teardownCmd.Flags().BoolVar(&teardownYes, "yes", false, "Confirm the deletion")
	teardownCmd.Flags().BoolVar(&teardownNotify, "notify", false, "Enqueue an admin alert when done")
}

func runTeardown(cmd *cobra.Command, args []string) error {
	if !teardownYes {
		return errors.New("refusing to delete demo data without --yes")
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := cmd.Context()
	backend, closeFn, err := openBackend(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer closeFn()

	report, err := demo.Teardown(ctx, backend)
	if err != nil {
		return err
	}

	if teardownNotify {
		alerts.InitClient(cfg.Redis.Addr)
		defer alerts.Close()
		if err := alerts.EnqueueDemoPurged(alerts.NewDemoPurged(report, alerts.TriggerCLI, "")); err != nil {
			fmt.Fprintf(os.Stderr, "warning: alert not enqueued: %v\n", err)
		}
	}

	tables := make([]string, 0, len(report))
	for t := range report {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	out := cmd.OutOrStdout()
	for _, t := range tables {
		fmt.Fprintf(out, "%-24s %d\n", t, report[t])
	}
	return nil
}
