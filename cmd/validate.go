package cmd

import (
	"github.com/spf13/cobra"

	"adscan/internal/adlog"
)

// validateCmd parses a snapshot and builds its index, same as ingest,
// but stops before collecting or writing an archive. Useful for CI
// smoke-checking a captured snapshot.
var validateCmd = &cobra.Command{
	Use:   "validate <input-path>",
	Short: "Parse a snapshot and report counts without writing an archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, idx, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		summarize(snap, idx)
		adlog.Info("snapshot is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
