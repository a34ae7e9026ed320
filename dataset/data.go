package dataset

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"treprSuite/treprErrors"
)

//Axis describes one dimension of Data or a Channel. The last axis of a list describes the dependent
//quantity (usually intensity) and carries no values
type Axis struct {
	Values   []float64 `yaml:"values,flow"`
	Unit     string    `yaml:"unit"`
	Quantity string    `yaml:"quantity"`
}

//Copy returns a deep copy of a
func (a Axis) Copy() Axis {
	a.Values = append([]float64(nil), a.Values...)
	return a
}

func copyAxes(axes []Axis) []Axis {
	res := make([]Axis, len(axes))
	for i := range axes {
		res[i] = axes[i].Copy()
	}
	return res
}

//Data is a one or two dimensional tensor stored row major together with its axes.
//len(Axes()) == NDim()+1 holds for every value returned by this package
type Data struct {
	values []float64
	shape  []int
	axes   []Axis
}

//NewData creates Data and checks values, shape and axes for consistency. Axis value counts must match
//the corresponding dimension, the dependent axis must not have values
func NewData(values []float64, shape []int, axes []Axis) (*Data, error) {
	if len(shape) < 1 || len(shape) > 2 {
		return nil, errors.Wrapf(treprErrors.ErrDimension, "only one and two dimensional data is supported, got shape %v", shape)
	}
	size := 1
	for _, s := range shape {
		if s <= 0 {
			return nil, errors.Wrapf(treprErrors.ErrShape, "invalid shape %v", shape)
		}
		size *= s
	}
	if size != len(values) {
		return nil, errors.Wrapf(treprErrors.ErrShape, "shape %v needs %v values, got %v", shape, size, len(values))
	}
	if len(axes) != len(shape)+1 {
		return nil, errors.Wrapf(treprErrors.ErrShape, "data with %v dimensions needs %v axes, got %v", len(shape), len(shape)+1, len(axes))
	}
	for i, s := range shape {
		if len(axes[i].Values) != s {
			return nil, errors.Wrapf(treprErrors.ErrShape, "axis %v has %v values, dimension has size %v", i, len(axes[i].Values), s)
		}
	}
	if len(axes[len(shape)].Values) != 0 {
		return nil, errors.Wrap(treprErrors.ErrShape, "dependent axis must not carry values")
	}
	return &Data{
		values: values,
		shape:  append([]int(nil), shape...),
		axes:   axes,
	}, nil
}

//NDim returns the number of dimensions
func (d *Data) NDim() int {
	return len(d.shape)
}

//Shape returns a copy of the shape
func (d *Data) Shape() []int {
	return append([]int(nil), d.shape...)
}

//Values returns the backing array, row major. Modifications are visible in d
func (d *Data) Values() []float64 {
	return d.values
}

//Axes returns the axis list. Modifying axis values is allowed, changing the list length is not
func (d *Data) Axes() []Axis {
	return d.axes
}

//Axis returns axis i
func (d *Data) Axis(i int) (*Axis, error) {
	if i < 0 || i >= len(d.axes) {
		return nil, errors.Wrapf(treprErrors.ErrIndexOutOfBounds, "axis %v, have %v axes", i, len(d.axes))
	}
	return &d.axes[i], nil
}

//Rows returns the number of rows. One dimensional data has a single row
func (d *Data) Rows() int {
	if len(d.shape) == 1 {
		return 1
	}
	return d.shape[0]
}

//Cols returns the length of a row
func (d *Data) Cols() int {
	return d.shape[len(d.shape)-1]
}

//Row returns row i as slice sharing memory with d
func (d *Data) Row(i int) []float64 {
	cols := d.Cols()
	return d.values[i*cols : (i+1)*cols]
}

//Matrix returns a view of d as Rows() x Cols() matrix sharing memory with d
func (d *Data) Matrix() *mat.Dense {
	return mat.NewDense(d.Rows(), d.Cols(), d.values)
}

//Copy returns a deep copy of d
func (d *Data) Copy() *Data {
	return &Data{
		values: append([]float64(nil), d.values...),
		shape:  append([]int(nil), d.shape...),
		axes:   copyAxes(d.axes),
	}
}

//Replace swaps content of d for other. Used by processing steps that change the dimensionality
func (d *Data) Replace(other *Data) {
	*d = *other
}

//Unravel converts a flat row major index to one index per dimension
func (d *Data) Unravel(flat int) []int {
	if len(d.shape) == 1 {
		return []int{flat}
	}
	return []int{flat / d.shape[1], flat % d.shape[1]}
}

//MaxAbs returns max(|x|) over all values
func (d *Data) MaxAbs() float64 {
	return floats.Norm(d.values, math.Inf(1))
}
