package comparisons

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/kpaschen/weightedcor/lib/datatypes"
	"github.com/kpaschen/weightedcor/lib/settings"
)

// A PoolComparer implements Engine on a fixed-size pool of worker goroutines.
// Workers only read the shared columns and each result goes to the results
// channel exactly once, so no locking is needed beyond the final join.
type PoolComparer struct {
	base          *BaseComparer
	resultChannel chan<- *datatypes.CellResult
	pairs         chan datatypes.ColumnPair
	wg            sync.WaitGroup
	once          sync.Once
	workers       int
}

func (s *PoolComparer) Initialize(config settings.CorrelationSettings, columns *datatypes.ColumnSet,
	results chan<- *datatypes.CellResult) error {
	base, err := NewBaseComparer(config, columns)
	if err != nil {
		return err
	}
	size := config.Workers
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
		if size <= 0 {
			size = 1
		}
	}
	s.base = base
	s.resultChannel = results
	s.workers = size
	s.pairs = make(chan datatypes.ColumnPair, size*2)
	s.once = sync.Once{}
	s.wg.Add(size)
	for i := 0; i < size; i++ {
		go s.worker()
	}
	return nil
}

func (s *PoolComparer) worker() {
	defer s.wg.Done()
	for pair := range s.pairs {
		s.resultChannel <- s.base.Compare(pair)
	}
}

func (s *PoolComparer) Compare(pair datatypes.ColumnPair) error {
	if s.pairs == nil {
		return fmt.Errorf("asked for comparison but the comparer is not initialized")
	}
	s.pairs <- pair
	return nil
}

// Shutdown stops accepting pairs and waits until the workers have sent all
// outstanding results.
func (s *PoolComparer) Shutdown() error {
	if s.pairs == nil {
		return nil
	}
	s.once.Do(func() {
		close(s.pairs)
		s.wg.Wait()
		log.Printf("pool comparer with %d workers shut down\n", s.workers)
	})
	return nil
}
