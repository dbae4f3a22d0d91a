package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/nestegg/plan"
)

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print a sample input file",
	Long: `Print a filled-in plan input to start from, as YAML, or write it to a
file (JSON or YAML by extension).

Examples:
  nestegg example > plan.yaml
  nestegg example -o plan.json`,
	Args: cobra.NoArgs,
	RunE: runExample,
}

var exampleOutput string

func init() {
	rootCmd.AddCommand(exampleCmd)

	exampleCmd.Flags().StringVarP(&exampleOutput, "output", "o", "", "write to this file instead of stdout")
}

func runExample(cmd *cobra.Command, args []string) error {
	in := plan.Example()
	if exampleOutput == "" {
		data, err := encodeInput("stdout.yaml", in)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := writeInput(exampleOutput, in); err != nil {
		return fmt.Errorf("write example: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote example input: %s\n", exampleOutput)
	return nil
}
