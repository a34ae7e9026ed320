package processing

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

//BackgroundCorrection removes the field independent background, e.g. caused by the laser hitting the
//cavity. The background is the mean of the transients at the lower and/or upper end of the field axis.
//With two profile counts the background is interpolated linearly between both ends, with a single
//positive count only the lower end is used, with a single negative count only the upper end
type BackgroundCorrection struct {
	numProfiles []int
}

//NewBackgroundCorrection takes "num_profiles", a number or a list of two numbers, default [5, 5]
func NewBackgroundCorrection(params parameters.Parameters) (dataset.Processor, error) {
	numProfiles, err := params.Ints("num_profiles", []int{5, 5})
	if err != nil {
		return nil, errors.Wrap(treprErrors.ErrRange, err.Error())
	}
	switch len(numProfiles) {
	case 1:
		if numProfiles[0] == 0 {
			return nil, errors.Wrap(treprErrors.ErrRange, "num_profiles must not be zero")
		}
	case 2:
		if numProfiles[0] <= 0 || numProfiles[1] == 0 {
			return nil, errors.Wrapf(treprErrors.ErrRange, "num_profiles must be positive, got %v", numProfiles)
		}
		numProfiles[1] = abs(numProfiles[1])
	default:
		return nil, errors.Wrapf(treprErrors.ErrRange, "num_profiles takes one or two values, got %v", numProfiles)
	}
	return &BackgroundCorrection{numProfiles: numProfiles}, nil
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

func (b *BackgroundCorrection) Name() string {
	return "BackgroundCorrection"
}

func (b *BackgroundCorrection) Validate(ds *dataset.Dataset) error {
	if err := requireDim(ds.Data, 2); err != nil {
		return err
	}
	used := 0
	for _, n := range b.numProfiles {
		used += abs(n)
	}
	if rows := ds.Data.Rows(); rows <= 2*used {
		return errors.Wrapf(treprErrors.ErrNotApplicable, "%v transients are too few to use %v of them as background", rows, used)
	}
	return nil
}

//columnMeans returns the mean of every column of rows [from,to[
func columnMeans(m *mat.Dense, from, to int) []float64 {
	_, cols := m.Dims()
	block := m.Slice(from, to, 0, cols)
	means := make([]float64, cols)
	col := make([]float64, to-from)
	for j := range means {
		means[j] = stat.Mean(mat.Col(col, j, block), nil)
	}
	return means
}

func (b *BackgroundCorrection) Process(ds *dataset.Dataset) error {
	m := ds.Data.Matrix()
	rows, cols := m.Dims()

	if len(b.numProfiles) == 1 {
		var background []float64
		if n := b.numProfiles[0]; n > 0 {
			background = columnMeans(m, 0, n)
		} else {
			background = columnMeans(m, rows+n, rows)
		}
		for i := 0; i < rows; i++ {
			floats.Sub(ds.Data.Row(i), background)
		}
		return nil
	}

	lowerMean := columnMeans(m, 0, b.numProfiles[0])
	upperMean := columnMeans(m, rows-b.numProfiles[1], rows)
	slope := make([]float64, cols)
	floats.SubTo(slope, upperMean, lowerMean)
	floats.Scale(1/float64(rows), slope)

	background := make([]float64, cols)
	for i := 0; i < rows; i++ {
		floats.AddScaledTo(background, lowerMean, float64(i), slope)
		floats.Sub(ds.Data.Row(i), background)
	}
	return nil
}

func (b *BackgroundCorrection) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"num_profiles": append([]int(nil), b.numProfiles...),
	}
}
