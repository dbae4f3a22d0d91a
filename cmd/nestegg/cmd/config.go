package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/nestegg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage nestegg configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  nestegg config init -o nestegg.yaml
  nestegg config validate -f nestegg.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "nestegg.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	c := config.Default()
	if err := c.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  nestegg --config %s simulate -f plan.yaml\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	c, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configValidatePath)
	fmt.Fprintf(out, "  Store: %s (%s)\n", c.Store.Type, c.Store.Path)
	fmt.Fprintf(out, "  Defaults: USD/JPY %.2f, inflation US %.1f%% JP %.1f%%\n",
		c.Defaults.ExchangeRateUSDJPY, c.Defaults.InflationRateUS*100, c.Defaults.InflationRateJP*100)
	fmt.Fprintf(out, "  Valuation: %.2f%%, spouse to %d, %d heirs\n",
		c.Valuation.InterestRate, c.Valuation.SpouseLifeExpectancy, c.Valuation.Heirs)
	fmt.Fprintf(out, "  Server: %s\n", c.Server.Addr)
	return nil
}
