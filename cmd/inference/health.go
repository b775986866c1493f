package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"genai-hq/inference/pkg/cli"
	"genai-hq/inference/pkg/health"
)

var healthStrict bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe every configured backend",
	Long: `Probe every configured backend concurrently and print its status, the
same data GET /health returns.

By default the command succeeds whatever the backends report. With --strict
it fails when any backend is unhealthy, which suits container health checks.

Examples:
  inference health
  inference health --strict
  inference health -o json`,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthStrict, "strict", false, "exit non-zero when any backend is unhealthy")

	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	f, err := formatter()
	if err != nil {
		return cli.NewConfigError("output", err.Error(), err)
	}

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	report := a.health.Report(cmd.Context())

	out := cmd.OutOrStdout()
	if _, ok := f.(*cli.JSONFormatter); ok {
		err = f.FormatTo(out, report)
	} else {
		err = f.FormatTo(out, report.Services)
	}
	if err != nil {
		return err
	}

	if healthStrict {
		if failing := unhealthy(report.Services); len(failing) > 0 {
			return cli.NewCommandError("health", fmt.Errorf("unhealthy backends: %s", strings.Join(failing, ", ")))
		}
	}
	return nil
}

// unhealthy returns the sorted names of backends not reporting healthy.
func unhealthy(services map[string]string) []string {
	var names []string
	for name, status := range services {
		if status != health.StatusHealthy {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
