package reporter

import (
	"log"
	"math"
	"slices"

	"github.com/kpaschen/weightedcor/lib"
	"github.com/kpaschen/weightedcor/lib/comparisons"
	"github.com/kpaschen/weightedcor/lib/datatypes"
)

// A CorrelatedSet is a connected group of columns: every member is correlated
// above the threshold with at least one other member.
type CorrelatedSet struct {
	pairs   map[datatypes.ColumnPair]float64
	members []string // maintained in sort order
}

// A SetReporter groups the columns of both inputs into correlated sets.
// A cell joins its two columns when the absolute correlation is at least
// the threshold. NaN and Inf cells never join anything.
type SetReporter struct {
	threshold    float64
	correlations []*CorrelatedSet
	xNames       []string
	yNames       []string
}

func (s *CorrelatedSet) contains(member string) bool {
	_, found := slices.BinarySearch(s.members, member)
	return found
}

func (s *CorrelatedSet) insert(member string) bool {
	i, found := slices.BinarySearch(s.members, member)
	if found {
		return false
	}
	s.members = slices.Insert(s.members, i, member)
	return true
}

func NewSetReporter(threshold float64) *SetReporter {
	return &SetReporter{threshold: threshold, correlations: make([]*CorrelatedSet, 0, 100)}
}

func (r *SetReporter) Initialize(xNames []string, yNames []string) {
	r.xNames = xNames
	r.yNames = yNames
}

func (r *SetReporter) Flush() error {
	log.Printf("column correlation report (threshold %f)\n", r.threshold)
	for _, c := range r.correlations {
		if len(c.members) == 0 {
			continue
		}
		log.Printf("correlated set with %d members\n", len(c.members))
		if len(c.members) < 100 {
			for i, m := range c.members {
				log.Printf("%d: %s\n", i, m)
			}
			for pair, score := range c.pairs {
				log.Printf("%s ~ %s: %f\n", r.xNames[pair.X], r.yNames[pair.Y], score)
			}
		}
	}
	r.correlations = make([]*CorrelatedSet, 0, 100)
	return nil
}

// Sets returns the members of every non-empty correlated set.
func (r *SetReporter) Sets() [][]string {
	ret := make([][]string, 0, len(r.correlations))
	for _, c := range r.correlations {
		if len(c.members) > 0 {
			ret = append(ret, slices.Clone(c.members))
		}
	}
	return ret
}

func (r *SetReporter) AddCorrelations(result *lib.CorrelationResult) error {
	p, q := result.Correlations.Dims()
	if r.xNames == nil {
		r.xNames = DefaultNames("x", p)
	}
	if r.yNames == nil {
		r.yNames = DefaultNames("y", q)
	}
	for i := 0; i < p; i++ {
		for j := 0; j < q; j++ {
			corr := result.Correlations.At(i, j)
			if comparisons.IsDegenerate(corr) || math.Abs(corr) < r.threshold {
				continue
			}
			r.addCorrelatedPair(datatypes.ColumnPair{X: i, Y: j}, corr)
		}
	}
	return nil
}

func (r *SetReporter) addCorrelatedPair(pair datatypes.ColumnPair, corr float64) {
	t1 := r.xNames[pair.X]
	t2 := r.yNames[pair.Y]
	homeForT1 := -1
	homeForT2 := -1
	// Cases:
	// 1. neither of them is in a set yet --> create one for them
	// 2. t1 and t2 are already in the same set --> add their pair to that set
	// 3. t1 is in a set, t2 isn't or vice versa --> add their pair and the new member to the set
	// 4. they are in different sets --> merge those two sets
	for idx, set := range r.correlations {
		if homeForT1 < 0 && set.contains(t1) {
			homeForT1 = idx
		}
		if homeForT2 < 0 && set.contains(t2) {
			homeForT2 = idx
		}
		if homeForT1 >= 0 && homeForT2 >= 0 {
			break
		}
	}
	switch {
	case homeForT1 < 0 && homeForT2 < 0:
		newset := &CorrelatedSet{
			pairs:   map[datatypes.ColumnPair]float64{pair: corr},
			members: make([]string, 0, 10),
		}
		newset.insert(t1)
		newset.insert(t2)
		r.correlations = append(r.correlations, newset)
	case homeForT1 == homeForT2:
		r.correlations[homeForT1].pairs[pair] = corr
	case homeForT1 < 0:
		r.correlations[homeForT2].pairs[pair] = corr
		r.correlations[homeForT2].insert(t1)
	case homeForT2 < 0:
		r.correlations[homeForT1].pairs[pair] = corr
		r.correlations[homeForT1].insert(t2)
	default:
		for p, c := range r.correlations[homeForT2].pairs {
			r.correlations[homeForT1].pairs[p] = c
		}
		r.correlations[homeForT1].pairs[pair] = corr
		for _, m := range r.correlations[homeForT2].members {
			r.correlations[homeForT1].insert(m)
		}
		r.correlations[homeForT2].pairs = make(map[datatypes.ColumnPair]float64)
		r.correlations[homeForT2].members = make([]string, 0)
	}
}
