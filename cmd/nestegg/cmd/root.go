package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/nestegg/config"
	"github.com/rustyeddy/nestegg/plan"
)

var rootCmd = &cobra.Command{
	Use:   "nestegg",
	Short: "Cross-border (USD/JPY) retirement projection and estate valuation",
	Long: `Nestegg projects a household's USD and JPY savings, pensions and life
events year by year until the end of life expectancy, and values a projected
year for Japanese inheritance tax.

It provides tools for:
  - Projecting assets and pension income from an input file
  - Valuing a projected year's estate against the heir exemption
  - Saving and loading plan inputs (JSON, YAML or SQLite)
  - Serving the same operations over a JSON HTTP API`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile string
	cfg     *config.Config
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON; defaults plus NESTEGG_* env when empty)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c
	return nil
}

// readInput reads a plan input from a YAML or JSON file. Market assumptions
// the file leaves out come from the config.
func readInput(path string) (plan.SimulationInput, error) {
	in := cfg.NewInput()
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read input: %w", err)
	}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, &in); err != nil {
		in = cfg.NewInput()
		if err := json.Unmarshal(data, &in); err != nil {
			return in, fmt.Errorf("parse input (tried YAML and JSON): %w", err)
		}
	}
	return in, nil
}

// writeInput writes in as JSON when path ends in .json and as YAML otherwise.
func writeInput(path string, in plan.SimulationInput) error {
	data, err := encodeInput(path, in)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func encodeInput(path string, in plan.SimulationInput) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.MarshalIndent(in, "", "  ")
	}
	return yaml.Marshal(in)
}
