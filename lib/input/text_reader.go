// Package input reads the whitespace-separated text matrices that the command line
// tools take as input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Tokens that stand for a missing value. strconv also accepts NaN in any case.
var missingTokens = map[string]bool{
	"NA": true,
	"na": true,
	"?":  true,
}

func parseValue(token string) (float64, error) {
	if missingTokens[token] {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(token, 64)
}

// ReadMatrix reads one observation per line with the variables separated by
// whitespace. Every line must have the same number of values. Empty lines and
// lines starting with # are skipped.
func ReadMatrix(r io.Reader) (*mat.Dense, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineCount := 0
	rowCount := 0
	columnCount := 0
	data := make([]float64, 0)
	for scanner.Scan() {
		lineCount++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if columnCount == 0 {
			columnCount = len(parts)
		} else if columnCount != len(parts) {
			return nil, fmt.Errorf("inconsistent number of values in line %d: expected %d but got %d",
				lineCount, columnCount, len(parts))
		}
		for _, p := range parts {
			v, err := parseValue(p)
			if err != nil {
				return nil, fmt.Errorf("on line %d, failed to parse %s into a float: %v", lineCount, p, err)
			}
			data = append(data, v)
		}
		rowCount++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if rowCount == 0 {
		return nil, fmt.Errorf("no data found")
	}
	return mat.NewDense(rowCount, columnCount, data), nil
}

// ReadVector reads all values in r regardless of line structure.
func ReadVector(r io.Reader) ([]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	ret := make([]float64, 0)
	for scanner.Scan() {
		v, err := parseValue(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("value %d: failed to parse %s into a float: %v", len(ret)+1, scanner.Text(), err)
		}
		ret = append(ret, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func ReadMatrixFile(filename string) (*mat.Dense, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	m, err := ReadMatrix(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

func ReadVectorFile(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	v, err := ReadVector(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return v, nil
}
