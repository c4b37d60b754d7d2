// Command cleandata runs the full pipeline: validate the registry source,
// write the findings report and emit the clean dataset with the decoded
// identifier parts and derived fields. A previous clean dataset is renamed
// aside with a timestamp suffix, never overwritten.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"burnreg/internal/config"
	"burnreg/internal/exporter"
	"burnreg/internal/infrastructure"
	"burnreg/internal/operations"
)

func main() {
	configFile := flag.String("config", "burnreg.yaml", "path to the YAML configuration file")
	source := flag.String("source", "", "source CSV file (overrides configuration)")
	out := flag.String("out", "", "clean dataset output file (overrides configuration)")
	report := flag.String("report", "", "findings report output file (overrides configuration)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *source != "" {
		cfg.Paths.SourceFile = *source
	}
	if *out != "" {
		cfg.Paths.CleanFile = *out
	}
	if *report != "" {
		cfg.Paths.ReportFile = *report
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	emitter := exporter.New(logger, cfg.Paths.CleanFile, cfg.Paths.ReportFile, cfg.Checks.PreviewRows)
	pipeline := operations.New(logger, cfg.Paths.SourceFile, cfg.Checks.Sets(), emitter,
		operations.WithProgress(printProgress))

	result, err := pipeline.Run(context.Background())
	if err != nil {
		logger.Error("Clean data run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("rows processed:     %d\n", result.Summary.TotalRows)
	fmt.Printf("findings recorded:  %d\n", len(result.Findings))
	fmt.Printf("clean rows written: %d\n", len(result.Clean))
	fmt.Printf("clean dataset:      %s\n", cfg.Paths.CleanFile)
	fmt.Printf("findings report:    %s\n", cfg.Paths.ReportFile)
}

// printProgress reports stage completion on stderr so stdout stays parseable.
func printProgress(stage operations.Stage, done, total int) {
	if total > 0 && done == total {
		fmt.Fprintf(os.Stderr, "%s: done (%d)\n", stage, total)
	}
}
