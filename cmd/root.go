package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"adscan/internal/adlog"
)

// rootCmd is adscan's default command: decode a snapshot and write a
// BloodHound-ready archive. Subcommands (config, validate) live
// alongside it.
var rootCmd = &cobra.Command{
	Use:   "adscan [input-path]",
	Short: "Decode an AD Explorer-style snapshot into a BloodHound ingest archive",
	Long:  "adscan decodes a binary Active Directory snapshot and emits a gzip'd tar of BloodHound JSON ingest files.",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SuggestionsMinimumDistance: 1,
	Args:                       cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: runIngest,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func initializeConfig(cmd *cobra.Command) error {
	if err := InitConfig(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	if err := Reload(); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	cfg := GetConfig()
	if cfg.Verbose {
		adlog.SetVerbose(true)
	}

	if cfg.Output == "" {
		if cmd.Name() != "help" && cmd.Name() != "config" {
			setup()
			if err := Reload(); err != nil {
				return fmt.Errorf("failed to reload config after interactive setup: %w", err)
			}
		}
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output archive path (default: adscan-out.tar.gz)")
	rootCmd.PersistentFlags().IntP("compression", "c", DefaultCompression, "gzip compression level (0-9)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")

	BindFlags(rootCmd)
}
