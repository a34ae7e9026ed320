package analysis

import (
	"sort"

	"github.com/pkg/errors"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

//TimeStampAnalysis shows when each field point was recorded. This reveals whether the field was swept
//monotonically or sampled in a different order.
//
//kind "delta" returns the seconds elapsed since the previously recorded field point, the first
//recorded point has no predecessor and is omitted. kind "time" returns the seconds since the start
//of the measurement. Results are ordered by field value
type TimeStampAnalysis struct {
	kind   string
	output string
}

//NewTimeStampAnalysis takes "kind" ("delta" or "time") and "output" ("values" or "dataset")
func NewTimeStampAnalysis(params parameters.Parameters) (dataset.Analyser, error) {
	t := &TimeStampAnalysis{}
	var err error
	if t.kind, err = params.String("kind", "delta"); err != nil {
		return nil, errors.Wrap(treprErrors.ErrUnit, err.Error())
	}
	if t.output, err = params.String("output", "values"); err != nil {
		return nil, errors.Wrap(treprErrors.ErrUnit, err.Error())
	}
	if err := oneOf("kind", t.kind, "delta", "time"); err != nil {
		return nil, err
	}
	if err := oneOf("output", t.output, "values", "dataset"); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TimeStampAnalysis) Name() string {
	return "TimeStampAnalysis"
}

func (t *TimeStampAnalysis) Validate(ds *dataset.Dataset) error {
	ch := ds.TimeStamp
	if ch == nil || ch.Len() == 0 {
		return errors.Wrap(treprErrors.ErrNotApplicable, "dataset has no time stamps")
	}
	if len(ch.Axes) == 0 || len(ch.Axes[0].Values) != ch.Len() {
		return errors.Wrap(treprErrors.ErrDimension, "time stamp channel and its field axis differ in length")
	}
	if t.kind == "delta" && ch.Len() < 2 {
		return errors.Wrap(treprErrors.ErrNotApplicable, "need at least two time stamps for deltas")
	}
	return nil
}

type fieldTime struct {
	field   float64
	seconds float64
}

func (t *TimeStampAnalysis) Analyse(ds *dataset.Dataset) (interface{}, error) {
	ch := ds.TimeStamp
	fields := ch.Axes[0].Values

	//acquisition order
	order := make([]int, ch.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ch.Values[order[a]].Before(ch.Values[order[b]])
	})

	start := ch.Values[order[0]]
	points := make([]fieldTime, 0, len(order))
	for pos, idx := range order {
		switch t.kind {
		case "time":
			points = append(points, fieldTime{fields[idx], ch.Values[idx].Sub(start).Seconds()})
		case "delta":
			if pos == 0 {
				continue
			}
			previous := ch.Values[order[pos-1]]
			points = append(points, fieldTime{fields[idx], ch.Values[idx].Sub(previous).Seconds()})
		}
	}
	sort.SliceStable(points, func(a, b int) bool {
		return points[a].field < points[b].field
	})

	values := make([]float64, len(points))
	fieldValues := make([]float64, len(points))
	for i, p := range points {
		values[i], fieldValues[i] = p.seconds, p.field
	}
	if t.output == "values" {
		return values, nil
	}
	quantity := "time delta"
	if t.kind == "time" {
		quantity = "time"
	}
	fieldAxis := ch.Axes[0]
	return dataset.NewChannel(values,
		dataset.Axis{Values: fieldValues, Unit: fieldAxis.Unit, Quantity: fieldAxis.Quantity},
		dataset.Axis{Unit: "s", Quantity: quantity})
}
