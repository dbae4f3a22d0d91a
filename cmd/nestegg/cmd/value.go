package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/nestegg/estate"
	"github.com/rustyeddy/nestegg/report"
)

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Value a projected year for inheritance tax",
	Long: `Project an input file, then value the chosen year's pensions and assets
for Japanese inheritance tax. Parameters not given on the command line come
from the valuation section of the config; the exchange rate defaults to the
input's.

Examples:
  nestegg value -f plan.yaml --year 2050
  nestegg value -f plan.yaml --year 2050 --rate 0.5 --heirs 3 --org estate.org`,
	Args: cobra.NoArgs,
	RunE: runValue,
}

var (
	valueInput      string
	valueYear       int
	valueStartYear  int
	valueRate       float64
	valueSpouseLife int
	valueHeirs      int
	valueFX         float64
	valueOrg        string
)

func init() {
	rootCmd.AddCommand(valueCmd)

	valueCmd.Flags().StringVarP(&valueInput, "file", "f", "", "path to input file (YAML or JSON) (required)")
	valueCmd.Flags().IntVar(&valueYear, "year", 0, "projected year to value (required)")
	valueCmd.Flags().IntVar(&valueStartYear, "start-year", 0, "first projected year (default: current year)")
	valueCmd.Flags().Float64Var(&valueRate, "rate", 0, "statutory interest rate in percent")
	valueCmd.Flags().IntVar(&valueSpouseLife, "spouse-life", 0, "spouse life expectancy (age)")
	valueCmd.Flags().IntVar(&valueHeirs, "heirs", 0, "number of statutory heirs")
	valueCmd.Flags().Float64Var(&valueFX, "fx", 0, "USD/JPY rate for the valuation")
	valueCmd.Flags().StringVar(&valueOrg, "org", "", "also write an Org-mode summary to this file")
	valueCmd.MarkFlagRequired("file")
	valueCmd.MarkFlagRequired("year")
}

func runValue(cmd *cobra.Command, args []string) error {
	in, err := readInput(valueInput)
	if err != nil {
		return err
	}
	series, err := project(cmd, in, valueStartYear)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	vin := estate.Inputs{
		Series:               series,
		Profile:              in.Profile,
		Pensions:             in.Pensions,
		Year:                 valueYear,
		InterestRate:         cfg.Valuation.InterestRate,
		SpouseLifeExpectancy: cfg.Valuation.SpouseLifeExpectancy,
		Heirs:                cfg.Valuation.Heirs,
		ExchangeRate:         in.ExchangeRateUSDJPY,
	}
	flags := cmd.Flags()
	if flags.Changed("rate") {
		vin.InterestRate = valueRate
	}
	if flags.Changed("spouse-life") {
		vin.SpouseLifeExpectancy = valueSpouseLife
	}
	if flags.Changed("heirs") {
		vin.Heirs = valueHeirs
	}
	if flags.Changed("fx") {
		vin.ExchangeRate = valueFX
	}

	rep, err := estate.Value(vin)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	report.PrintValuation(cmd.OutOrStdout(), rep)

	if valueOrg != "" {
		if err := report.WriteValuationOrg(valueOrg, rep); err != nil {
			return fmt.Errorf("write org: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", valueOrg)
	}
	return nil
}
