package dataset

import (
	"time"

	"github.com/pkg/errors"
	"treprSuite/treprErrors"
)

//Channel is a one dimensional dataset, used for the microwave frequency per field point and for
//calculated results
type Channel struct {
	Values []float64 `yaml:"values,flow"`
	//Axes holds the axis of the values and the dependent axis
	Axes []Axis `yaml:"axes"`
}

//NewChannel creates a Channel, axis 0 must have one value per entry of values
func NewChannel(values []float64, axis, dependent Axis) (*Channel, error) {
	if len(axis.Values) != len(values) {
		return nil, errors.Wrapf(treprErrors.ErrShape, "channel has %v values but axis has %v", len(values), len(axis.Values))
	}
	return &Channel{Values: values, Axes: []Axis{axis, dependent}}, nil
}

//Len returns the number of values
func (c *Channel) Len() int {
	return len(c.Values)
}

//XY implements the plotter.XYer interface of gonum/plot
func (c *Channel) XY(i int) (float64, float64) {
	return c.Axes[0].Values[i], c.Values[i]
}

//Copy returns a deep copy
func (c *Channel) Copy() *Channel {
	return &Channel{Values: append([]float64(nil), c.Values...), Axes: copyAxes(c.Axes)}
}

//TimeStampChannel holds the acquisition time of every field point
type TimeStampChannel struct {
	Values []time.Time `yaml:"values,flow"`
	Axes   []Axis      `yaml:"axes"`
}

//Len returns the number of time stamps
func (c *TimeStampChannel) Len() int {
	return len(c.Values)
}

//Copy returns a deep copy
func (c *TimeStampChannel) Copy() *TimeStampChannel {
	return &TimeStampChannel{Values: append([]time.Time(nil), c.Values...), Axes: copyAxes(c.Axes)}
}
