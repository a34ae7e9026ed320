package processing

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

//PretriggerOffsetCompensation subtracts from every transient the mean of its samples recorded before the
//trigger. The trigger is located as the minimum of the cumulative sum of the time axis, i.e. the last
//negative time value
type PretriggerOffsetCompensation struct {
	zeroPointIdx int
}

//NewPretriggerOffsetCompensation takes no parameters
func NewPretriggerOffsetCompensation(_ parameters.Parameters) (dataset.Processor, error) {
	return &PretriggerOffsetCompensation{}, nil
}

func (p *PretriggerOffsetCompensation) Name() string {
	return "PretriggerOffsetCompensation"
}

//ZeroPointIndex returns argmin(cumsum(timeValues))
func ZeroPointIndex(timeValues []float64) int {
	if len(timeValues) == 0 {
		return 0
	}
	return floats.MinIdx(floats.CumSum(make([]float64, len(timeValues)), timeValues))
}

func (p *PretriggerOffsetCompensation) Validate(ds *dataset.Dataset) error {
	axis, err := timeAxis(ds.Data)
	if err != nil {
		return err
	}
	p.zeroPointIdx = ZeroPointIndex(axis.Values)
	if p.zeroPointIdx == 0 {
		return errors.Wrap(treprErrors.ErrNotApplicable, "time axis has no pretrigger samples")
	}
	return nil
}

func (p *PretriggerOffsetCompensation) Process(ds *dataset.Dataset) error {
	for i := 0; i < ds.Data.Rows(); i++ {
		row := ds.Data.Row(i)
		floats.AddConst(-stat.Mean(row[:p.zeroPointIdx], nil), row)
	}
	return nil
}

func (p *PretriggerOffsetCompensation) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"zeropoint_index": p.zeroPointIdx,
	}
}
