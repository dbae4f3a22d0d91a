package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/nestegg/journal"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save an input file to the configured store",
	Long: `Save a plan input to the store named in the config (store.type and
store.path). Entities without an id are given one.

Example:
  nestegg save -f plan.yaml`,
	Args: cobra.NoArgs,
	RunE: runSave,
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Print or export the saved input",
	Long: `Load the most recently saved plan input. Without -o it is printed as
YAML; with -o it is written as JSON or YAML according to the extension.

Examples:
  nestegg load
  nestegg load -o plan.json`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved revisions (sqlite store only)",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var (
	saveInput  string
	loadOutput string
)

func init() {
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(historyCmd)

	saveCmd.Flags().StringVarP(&saveInput, "file", "f", "", "path to input file (YAML or JSON) (required)")
	saveCmd.MarkFlagRequired("file")
	loadCmd.Flags().StringVarP(&loadOutput, "output", "o", "", "write to this file instead of stdout")
}

func openStore() (journal.Store, error) {
	s, err := journal.Open(cfg.Store.Type, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func runSave(cmd *cobra.Command, args []string) error {
	in, err := readInput(saveInput)
	if err != nil {
		return err
	}
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Save(cmd.Context(), in); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s to %s store %s\n", saveInput, cfg.Store.Type, cfg.Store.Path)
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	in, err := s.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	if loadOutput == "" {
		data, err := encodeInput("stdout.yaml", in)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := writeInput(loadOutput, in); err != nil {
		return fmt.Errorf("write %s: %w", loadOutput, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", loadOutput)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sq, ok := s.(*journal.SQLiteStore)
	if !ok {
		return fmt.Errorf("history needs the sqlite store, configured store is %q", cfg.Store.Type)
	}
	revs, err := sq.List(cmd.Context())
	if err != nil {
		return err
	}
	for _, r := range revs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", r.ID, r.SavedAt.Local().Format(time.DateTime))
	}
	return nil
}
