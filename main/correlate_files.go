package main

import (
	"context"
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/kpaschen/weightedcor/lib"
	"github.com/kpaschen/weightedcor/lib/correlation"
	"github.com/kpaschen/weightedcor/lib/input"
	"github.com/kpaschen/weightedcor/lib/reporter"
	"github.com/kpaschen/weightedcor/lib/settings"
	"gonum.org/v1/gonum/mat"
)

// logIncompleteCells reports every cell that has to drop rows because of missing values.
func logIncompleteCells(x mat.Matrix, y mat.Matrix) {
	rows, p := x.Dims()
	_, q := y.Dims()
	xcol := make([]float64, rows)
	ycol := make([]float64, rows)
	for i := 0; i < p; i++ {
		mat.Col(xcol, i, x)
		for j := 0; j < q; j++ {
			mat.Col(ycol, j, y)
			complete, err := correlation.PairwiseComplete(xcol, ycol)
			if err != nil {
				log.Printf("cell (%d, %d): %v\n", i, j, err)
				continue
			}
			if len(complete) < rows {
				log.Printf("cell (%d, %d) uses %d of %d rows\n", i, j, len(complete), rows)
			}
		}
	}
}

// columnNames names the columns of both inputs. When x is compared with itself
// both sides share the same names, so column i is one member of a correlated set.
func columnNames(p int, q int, selfComparison bool) ([]string, []string) {
	xNames := reporter.DefaultNames("x", p)
	if selfComparison {
		return xNames, xNames
	}
	return xNames, reporter.DefaultNames("y", q)
}

func main() {
	xFile := flag.String("x", "", "Name of the file with the first matrix, one row per line")
	yFile := flag.String("y", "", "Name of the file with the second matrix. Defaults to the first matrix.")
	weightsFile := flag.String("weights", "", "Name of the file with one weight per row. Defaults to unit weights.")
	algorithm := flag.String("algorithm", settings.ALGO_TWO_PASS, "Algorithm to use. Possible values: two_pass, welford")
	workers := flag.Int("workers", 1, "Number of goroutines computing cells. 0 means one per cpu.")
	threshold := flag.Float64("threshold", 0, "If positive, also log sets of columns correlated at least this strongly")
	verbose := flag.Bool("verbose", false, "Log the cells that drop rows because of missing values")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile here")
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			panic(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if *xFile == "" {
		log.Fatal("missing -x")
	}
	x, err := input.ReadMatrixFile(*xFile)
	if err != nil {
		log.Fatal(err)
	}
	y := x
	if *yFile != "" {
		y, err = input.ReadMatrixFile(*yFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	rows, _ := x.Dims()
	var weights []float64
	if *weightsFile != "" {
		weights, err = input.ReadVectorFile(*weightsFile)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		weights = make([]float64, rows)
		for k := range weights {
			weights[k] = 1.0
		}
	}

	correlator, err := lib.NewCorrelator(settings.CorrelationSettings{
		Algorithm: *algorithm,
		Workers:   *workers,
	})
	if err != nil {
		log.Fatal(err)
	}

	if *verbose {
		logIncompleteCells(x, y)
	}

	result, err := correlator.Compute(context.Background(), x, y, weights)
	if err != nil {
		log.Fatalf("caught error: %v", err)
	}
	log.Printf("computed %d cells in %v\n", len(result.Correlations.RawMatrix().Data), result.Duration)

	reporters := []reporter.Reporter{reporter.NewCsvReporter(os.Stdout)}
	if *threshold > 0 {
		reporters = append(reporters, reporter.NewSetReporter(*threshold))
	}
	p, q := result.Correlations.Dims()
	xNames, yNames := columnNames(p, q, *yFile == "")
	for _, r := range reporters {
		r.Initialize(xNames, yNames)
		if err = r.AddCorrelations(result); err != nil {
			log.Fatal(err)
		}
		if err = r.Flush(); err != nil {
			log.Fatal(err)
		}
	}
}
