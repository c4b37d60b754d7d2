// Package operations orchestrates the validation pipeline: one Loading stage,
// one Validating stage and one Emitting stage, run in that order. Findings
// never abort a run; the only fatal condition is a source that cannot be
// loaded.
package operations

import (
	"context"
	"log/slog"

	"burnreg/internal/dataprocessing"
)

// Emitter receives the pipeline's outputs during the Emitting stage. Nothing
// is observable outside the process until these calls are made, which keeps
// the pipeline idempotent and safe to discard before emit.
type Emitter interface {
	EmitClean(ctx context.Context, records []dataprocessing.CleanRecord) error
	EmitReport(ctx context.Context, summary dataprocessing.Summary, findings []dataprocessing.Finding) error
}

// Result carries everything one pipeline run produced.
type Result struct {
	Records  []dataprocessing.RawRecord
	Findings []dataprocessing.Finding
	Clean    []dataprocessing.CleanRecord
	Summary  dataprocessing.Summary
	Stages   map[Stage]*StageState
}

// Pipeline runs the registry validation end to end. It is a single-threaded
// batch computation: a fixed input always yields the same findings and the
// same clean dataset.
type Pipeline struct {
	logger     *slog.Logger
	sourcePath string
	engine     *dataprocessing.Engine
	emitter    Emitter
	progress   Progress
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithProgress installs a progress callback.
func WithProgress(p Progress) Option {
	return func(pl *Pipeline) {
		if p != nil {
			pl.progress = p
		}
	}
}

// New creates a pipeline over the given source file, using the registry's
// default column chains with the configured categorical sets.
func New(logger *slog.Logger, sourcePath string, sets dataprocessing.CategoricalSets, emitter Emitter, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		logger:     logger.With(slog.String("component", "pipeline")),
		sourcePath: sourcePath,
		engine: dataprocessing.NewEngine(logger,
			dataprocessing.DefaultColumns(sets),
			dataprocessing.DefaultOrderRules()),
		emitter:  emitter,
		progress: NopProgress,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes Loading → Validating → Emitting. The terminal state is success
// regardless of how many findings were recorded; only a source that cannot be
// loaded fails the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		Stages: map[Stage]*StageState{
			StageLoading:    NewStageState(StageLoading),
			StageValidating: NewStageState(StageValidating),
			StageEmitting:   NewStageState(StageEmitting),
		},
	}

	if err := p.load(ctx, result); err != nil {
		pipelineRuns.WithLabelValues("failed").Inc()
		return nil, err
	}
	p.validate(ctx, result)
	if err := p.emit(ctx, result); err != nil {
		pipelineRuns.WithLabelValues("failed").Inc()
		return nil, err
	}

	pipelineRuns.WithLabelValues("completed").Inc()
	return result, nil
}

// load reads the source into raw records. This is the one unrecoverable stage.
func (p *Pipeline) load(ctx context.Context, result *Result) error {
	state := result.Stages[StageLoading]
	state.Start()

	records, err := dataprocessing.ReadSource(p.sourcePath, p.logger)
	if err != nil {
		state.Fail(err)
		p.logger.ErrorContext(ctx, "source unavailable",
			slog.String("path", p.sourcePath),
			slog.String("error", err.Error()))
		return err
	}

	result.Records = records
	rowsProcessed.Add(float64(len(records)))
	p.progress(StageLoading, len(records), len(records))
	state.Complete("source loaded")

	p.logger.InfoContext(ctx, "loading complete", slog.Int("rows", len(records)))
	return nil
}

// validate runs every column's check group and the cross-field rules,
// accumulating all findings. It never stops early.
func (p *Pipeline) validate(ctx context.Context, result *Result) {
	state := result.Stages[StageValidating]
	state.Start()

	columns := p.engine.Columns()
	total := len(columns) + 1 // plus the cross-field group

	var findings []dataprocessing.Finding
	for i, spec := range columns {
		findings = append(findings, p.engine.CheckColumn(spec, result.Records)...)
		p.progress(StageValidating, i+1, total)
	}
	findings = append(findings, p.engine.CheckCrossField(result.Records)...)
	p.progress(StageValidating, total, total)

	result.Findings = findings
	result.Summary = dataprocessing.BuildSummary(result.Records, findings)

	for kind, n := range result.Summary.ByKind {
		findingsTotal.WithLabelValues(string(kind)).Add(float64(n))
	}

	state.Complete("validation complete")
	p.logger.InfoContext(ctx, "validating complete",
		slog.Int("rows", len(result.Records)),
		slog.Int("findings", len(findings)))
}

// emit derives the clean records and hands everything to the emitter. Every
// raw record yields exactly one clean record, with underivable fields absent.
func (p *Pipeline) emit(ctx context.Context, result *Result) error {
	state := result.Stages[StageEmitting]
	state.Start()

	clean := make([]dataprocessing.CleanRecord, 0, len(result.Records))
	for i, rec := range result.Records {
		clean = append(clean, dataprocessing.BuildClean(rec))
		p.progress(StageEmitting, i+1, len(result.Records))
	}
	result.Clean = clean

	if p.emitter != nil {
		if err := p.emitter.EmitClean(ctx, clean); err != nil {
			state.Fail(err)
			return err
		}
		if err := p.emitter.EmitReport(ctx, result.Summary, result.Findings); err != nil {
			state.Fail(err)
			return err
		}
	}

	state.Complete("emit complete")
	p.logger.InfoContext(ctx, "emitting complete", slog.Int("clean_rows", len(clean)))
	return nil
}
