package reporter

import (
	"fmt"

	"github.com/kpaschen/weightedcor/lib"
)

// A Reporter presents the result of one correlation matrix computation.
type Reporter interface {
	// Initialize provides the names of the columns of the two inputs.
	Initialize(xNames []string, yNames []string)

	AddCorrelations(result *lib.CorrelationResult) error

	Flush() error
}

// DefaultNames returns x0, x1, ... for unnamed columns.
func DefaultNames(prefix string, count int) []string {
	ret := make([]string, count)
	for i := range ret {
		ret[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return ret
}
