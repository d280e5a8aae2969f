package comparisons

import (
	"fmt"
	"log"

	"github.com/kpaschen/weightedcor/lib/datatypes"
	"github.com/kpaschen/weightedcor/lib/settings"
)

// An InProcessComparer implements Engine.
// It computes every cell on the goroutine that calls Compare.
type InProcessComparer struct {
	base          *BaseComparer
	resultChannel chan<- *datatypes.CellResult
	comparisons   int
}

func (s *InProcessComparer) Initialize(config settings.CorrelationSettings, columns *datatypes.ColumnSet,
	results chan<- *datatypes.CellResult) error {
	base, err := NewBaseComparer(config, columns)
	if err != nil {
		return err
	}
	s.base = base
	s.resultChannel = results
	s.comparisons = 0
	return nil
}

// Compare asks for a comparison of the columns identified by the pair.
func (s *InProcessComparer) Compare(pair datatypes.ColumnPair) error {
	if s.base == nil {
		return fmt.Errorf("asked for comparison but the comparer is not initialized")
	}
	s.comparisons++
	s.resultChannel <- s.base.Compare(pair)
	return nil
}

// Every result has already been sent by the time Compare returns, so there is
// nothing to wait for.
func (s *InProcessComparer) Shutdown() error {
	log.Printf("in process comparer shutting down after %d comparisons\n", s.comparisons)
	s.base = nil
	return nil
}
