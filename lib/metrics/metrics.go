// Package metrics holds the prometheus instrumentation of the correlation engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Computations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weightedcor_computations_total",
			Help: "Total number of completed correlation matrix computations.",
		},
	)
	FailedComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weightedcor_failed_computations_total",
			Help: "Total number of correlation matrix computations that returned an error.",
		},
		[]string{"reason"},
	)
	Cells = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weightedcor_cells_total",
			Help: "Total number of correlation cells computed.",
		},
	)
	DegenerateCells = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weightedcor_degenerate_cells_total",
			Help: "Total number of correlation cells that came out as NaN or Inf.",
		},
	)
	LastMatrixCells = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "weightedcor_last_matrix_cells",
			Help: "Number of cells in the most recently computed correlation matrix.",
		},
	)
	ComputationDurationHist = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:                            "weightedcor_computation_duration_milliseconds_histogram",
			Help:                            "Duration of correlation matrix computations.",
			Buckets:                         prometheus.ExponentialBuckets(0.1, 4, 10),
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  10,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
	)
)

const (
	ReasonDimensionMismatch = "dimension_mismatch"
	ReasonCanceled          = "canceled"
	ReasonSettings          = "settings"
	ReasonCell              = "cell"
)

func init() {
	prometheus.MustRegister(Computations)
	prometheus.MustRegister(FailedComputations)
	prometheus.MustRegister(Cells)
	prometheus.MustRegister(DegenerateCells)
	prometheus.MustRegister(LastMatrixCells)
	prometheus.MustRegister(ComputationDurationHist)
}
