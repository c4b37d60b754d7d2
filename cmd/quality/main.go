// Command quality runs the validation pass over the registry source and
// writes the findings report. The source file is never modified and no clean
// dataset is produced; this is the read-only audit tool.
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
	if *report != "" {
		cfg.Paths.ReportFile = *report
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Report only: the empty clean path disables dataset emission.
	emitter := exporter.New(logger, "", cfg.Paths.ReportFile, cfg.Checks.PreviewRows)
	pipeline := operations.New(logger, cfg.Paths.SourceFile, cfg.Checks.Sets(), emitter)

	result, err := pipeline.Run(context.Background())
	if err != nil {
		logger.Error("Quality run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("rows analysed:      %d\n", result.Summary.TotalRows)
	fmt.Printf("findings recorded:  %d\n", len(result.Findings))
	fmt.Printf("valid identifiers:  %d\n", result.Summary.Valid3Digit+result.Summary.Valid4Digit)
	fmt.Printf("duplicate groups:   %d\n", result.Summary.DuplicateGroups)
	fmt.Printf("missing serials:    %d\n", result.Summary.MissingSerials)
	fmt.Printf("report written to:  %s\n", cfg.Paths.ReportFile)
}
