// Package comparisons contains different execution engines for
// evaluating the cells of a correlation matrix.
package comparisons

import (
	"github.com/kpaschen/weightedcor/lib/datatypes"
	"github.com/kpaschen/weightedcor/lib/settings"
)

// An engine takes column pairs, computes their correlation and sends the results
// to the results channel. Every pair handed to Compare produces exactly one result.
type Engine interface {

	// Initialize provides the engine with the data and settings it needs.
	Initialize(config settings.CorrelationSettings, columns *datatypes.ColumnSet, results chan<- *datatypes.CellResult) error

	// Compare asks for the correlation of the column pair.
	Compare(pair datatypes.ColumnPair) error

	// Shutdown waits for outstanding comparisons to finish. No results are sent
	// after Shutdown returns.
	Shutdown() error
}

// NewEngine returns an in-process engine for a single worker and a pooled
// engine otherwise.
func NewEngine(config settings.CorrelationSettings) Engine {
	if config.Workers == 1 {
		return &InProcessComparer{}
	}
	return &PoolComparer{}
}
