package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"adscan/internal/adlog"
	"adscan/internal/collector"
	"adscan/internal/index"
	"adscan/internal/snapshot"
)

// runIngest is rootCmd's default action: parse a snapshot, build its
// index, collect the BloodHound ingest set, and write the archive.
func runIngest(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	input := cfg.Input
	if len(args) == 1 {
		input = args[0]
	}
	if input == "" {
		return fmt.Errorf("no input snapshot path given")
	}

	if err := ValidateCompression(cfg.Compression); err != nil {
		return err
	}

	output := cfg.Output
	if output == "" {
		output = defaultOutputFor(input)
	}

	snap, idx, err := loadSnapshot(input)
	if err != nil {
		return err
	}

	summarize(snap, idx)

	col := collector.New(snap, idx)
	files := col.Collect()

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output archive: %w", err)
	}
	defer f.Close()

	if err := collector.Write(f, cfg.Compression, files); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	adlog.Infof("wrote %s", output)
	return nil
}

func loadSnapshot(input string) (*snapshot.Snapshot, *index.Index, error) {
	snap, err := snapshot.ParseFile(input)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	idx := index.Build(snap)
	return snap, idx, nil
}

func defaultOutputFor(input string) string {
	base := input
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if ext := strings.LastIndexByte(base, '.'); ext > 0 {
		base = base[:ext]
	}
	return base + ".tar.gz"
}

// summarize prints a human-readable, color-highlighted count of what
// was decoded, matching the teacher's card-based output style.
func summarize(snap *snapshot.Snapshot, idx *index.Index) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Println(bold("Snapshot decoded"))
	fmt.Printf("  Objects:           %s\n", cyan(len(snap.Objects)))
	fmt.Printf("  Classes:           %s\n", cyan(len(snap.Classes)))
	fmt.Printf("  Rights:            %s\n", cyan(len(snap.Rights)))
	fmt.Printf("  Domain controllers: %s\n", yellow(len(idx.DomainControllers())))
}
