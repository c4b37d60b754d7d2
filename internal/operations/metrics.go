package operations

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "burnreg_pipeline_runs_total",
		Help: "Pipeline executions by terminal status.",
	}, []string{"status"})

	rowsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "burnreg_rows_processed_total",
		Help: "Source rows read across all pipeline runs.",
	})

	findingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "burnreg_findings_total",
		Help: "Validation findings recorded, by kind.",
	}, []string{"kind"})
)
