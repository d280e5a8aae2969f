package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/kpaschen/weightedcor/lib"
)

// A CsvReporter writes the correlation matrix as csv: a header line with the
// names of the second input's columns, then one line per column of the first
// input. NaN and Inf are written the way strconv formats them.
type CsvReporter struct {
	writer *csv.Writer
	xNames []string
	yNames []string
}

func NewCsvReporter(out io.Writer) *CsvReporter {
	return &CsvReporter{writer: csv.NewWriter(out)}
}

func (c *CsvReporter) Initialize(xNames []string, yNames []string) {
	c.xNames = xNames
	c.yNames = yNames
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c *CsvReporter) AddCorrelations(result *lib.CorrelationResult) error {
	p, q := result.Correlations.Dims()
	if c.xNames == nil {
		c.xNames = DefaultNames("x", p)
	}
	if c.yNames == nil {
		c.yNames = DefaultNames("y", q)
	}
	if len(c.xNames) != p || len(c.yNames) != q {
		return fmt.Errorf("have %d x names and %d y names for a %dx%d result",
			len(c.xNames), len(c.yNames), p, q)
	}
	header := make([]string, 0, q+1)
	header = append(header, "")
	header = append(header, c.yNames...)
	if err := c.writer.Write(header); err != nil {
		return err
	}
	record := make([]string, q+1)
	for i := 0; i < p; i++ {
		record[0] = c.xNames[i]
		for j := 0; j < q; j++ {
			record[j+1] = formatCell(result.Correlations.At(i, j))
		}
		if err := c.writer.Write(record); err != nil {
			return err
		}
		if i > 0 && i%1000 == 0 {
			c.writer.Flush()
			if err := c.writer.Error(); err != nil {
				return err
			}
		}
	}
	if len(result.DegenerateCells) > 0 {
		log.Printf("reporter: %d of %d cells are NaN or Inf\n", len(result.DegenerateCells), p*q)
	}
	return nil
}

func (c *CsvReporter) Flush() error {
	c.writer.Flush()
	return c.writer.Error()
}
