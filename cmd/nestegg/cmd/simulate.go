package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/nestegg/plan"
	"github.com/rustyeddy/nestegg/report"
	"github.com/rustyeddy/nestegg/sim"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project an input file year by year",
	Long: `Project assets, pension income and life events from the current year
through the end of life expectancy and print the yearly totals.

Examples:
  nestegg simulate -f plan.yaml
  nestegg simulate -f plan.yaml --start-year 2030 --csv projection.csv`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

var (
	simulateInput     string
	simulateStartYear int
	simulateCSV       string
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVarP(&simulateInput, "file", "f", "", "path to input file (YAML or JSON) (required)")
	simulateCmd.Flags().IntVar(&simulateStartYear, "start-year", 0, "first projected year (default: current year)")
	simulateCmd.Flags().StringVar(&simulateCSV, "csv", "", "also write the series to this CSV file")
	simulateCmd.MarkFlagRequired("file")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	in, err := readInput(simulateInput)
	if err != nil {
		return err
	}

	series, err := project(cmd, in, simulateStartYear)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	report.PrintSeries(cmd.OutOrStdout(), series)

	if simulateCSV != "" {
		f, err := os.Create(simulateCSV)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer f.Close()
		if err := report.WriteSeriesCSV(f, series); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d years to %s\n", len(series), simulateCSV)
	}
	return nil
}

func project(cmd *cobra.Command, in plan.SimulationInput, startYear int) ([]plan.SimulationResult, error) {
	if startYear > 0 {
		return sim.Project(in, startYear)
	}
	return sim.Projector{}.Simulate(cmd.Context(), in)
}
