package speksim

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"treprSuite/treprErrors"
)

//Trace is one parsed trace file
type Trace struct {
	Header Header
	//Intensities holds one value per body row
	Intensities []float64
}

//ParseTrace parses a complete trace file. Body rows are whitespace separated numbers. With a single
//column it is taken as intensity, otherwise the second column is. The row count is not checked against
//the header, that is up to the caller who knows the sample count of the whole measurement
func ParseTrace(raw []byte) (*Trace, error) {
	lines, body, err := splitHeader(raw)
	if err != nil {
		return nil, err
	}
	header, err := ParseHeader(lines)
	if err != nil {
		return nil, err
	}
	intensities, err := parseBody(body, header.SampleCount)
	if err != nil {
		return nil, err
	}
	return &Trace{Header: header, Intensities: intensities}, nil
}

func parseBody(body []byte, sizeHint int) ([]float64, error) {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Split(bufio.ScanLines)

	values := make([]float64, 0, sizeHint)
	lineNr := HeaderLines
	for scanner.Scan() {
		lineNr++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		column := 0
		if len(fields) > 1 {
			column = 1
		}
		v, err := strconv.ParseFloat(fields[column], 64)
		if err != nil {
			return nil, errors.Wrapf(treprErrors.ErrParse, "line %v : %q is not a number", lineNr, fields[column])
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(treprErrors.ErrParse, "error scanning for lines : %v", err)
	}
	return values, nil
}

//TimeAxis returns n linearly spaced values from start to stop, both included
func TimeAxis(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}
