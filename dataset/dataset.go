//Package dataset holds the in memory representation of a trEPR measurement: the data tensor with its
//axes, the derived per field point channels, the metadata and the processing history
package dataset

import (
	"time"

	"github.com/pkg/errors"
	"treprSuite/metadata"
)

//Processor is a processing step. Validate must not modify the dataset, Process may assume Validate
//succeeded and has to leave the dataset consistent
type Processor interface {
	//Name returns the registered name of the step
	Name() string
	Validate(ds *Dataset) error
	Process(ds *Dataset) error
	//Parameters returns the parameters as resolved during Validate/Process, e.g. indices computed from axis values
	Parameters() map[string]interface{}
}

//Analyser is a read only analysis step
type Analyser interface {
	Name() string
	Validate(ds *Dataset) error
	//Analyse returns the result. The concrete type depends on the step and its parameters
	Analyse(ds *Dataset) (interface{}, error)
}

//HistoryRecord documents one applied processing step
type HistoryRecord struct {
	Name       string                 `yaml:"name"`
	Parameters map[string]interface{} `yaml:"parameters"`
	Timestamp  time.Time              `yaml:"timestamp"`
}

//Dataset is a complete measurement. It is not safe for concurrent use
type Dataset struct {
	Data *Data
	//TimeStamp is the acquisition time per field point, nil if unknown
	TimeStamp *TimeStampChannel
	//MicrowaveFrequency is the frequency per field point, nil if unknown
	MicrowaveFrequency *Channel
	Metadata           metadata.Metadata
	//Annotations holds free text comments, e.g. the COMMENT block of the info file
	Annotations []string
	//Source is the directory the dataset was imported from
	Source string

	history []HistoryRecord
	//now is replaced in tests
	now func() time.Time
}

//New creates a dataset around data
func New(data *Data) *Dataset {
	return &Dataset{Data: data, now: time.Now}
}

//History returns a copy of the processing history, oldest first
func (ds *Dataset) History() []HistoryRecord {
	res := make([]HistoryRecord, len(ds.history))
	for i, h := range ds.history {
		params := make(map[string]interface{}, len(h.Parameters))
		for k, v := range h.Parameters {
			params[k] = v
		}
		res[i] = HistoryRecord{Name: h.Name, Parameters: params, Timestamp: h.Timestamp}
	}
	return res
}

//IsProcessed returns true if at least one processing step has been applied
func (ds *Dataset) IsProcessed() bool {
	return len(ds.history) > 0
}

//Process validates and applies p and appends it to the history. If validation fails the dataset is unchanged
func (ds *Dataset) Process(p Processor) error {
	if ds.Data == nil {
		return errors.New("dataset has no data")
	}
	if err := p.Validate(ds); err != nil {
		return errors.Wrapf(err, "%v", p.Name())
	}
	if err := p.Process(ds); err != nil {
		return errors.Wrapf(err, "%v", p.Name())
	}
	if len(ds.Data.Axes()) != ds.Data.NDim()+1 {
		return errors.Errorf("%v left %v axes for %v dimensional data", p.Name(), len(ds.Data.Axes()), ds.Data.NDim())
	}
	now := ds.now
	if now == nil {
		now = time.Now
	}
	ds.history = append(ds.history, HistoryRecord{
		Name:       p.Name(),
		Parameters: p.Parameters(),
		Timestamp:  now(),
	})
	return nil
}

//Analyse validates and runs a
func (ds *Dataset) Analyse(a Analyser) (interface{}, error) {
	if ds.Data == nil {
		return nil, errors.New("dataset has no data")
	}
	if err := a.Validate(ds); err != nil {
		return nil, errors.Wrapf(err, "%v", a.Name())
	}
	res, err := a.Analyse(ds)
	if err != nil {
		return nil, errors.Wrapf(err, "%v", a.Name())
	}
	return res, nil
}

//FieldValues returns the values of the magnetic field axis or nil if the data has none
func (ds *Dataset) FieldValues() []float64 {
	for _, a := range ds.Data.Axes() {
		if a.Quantity == QuantityMagneticField {
			return a.Values
		}
	}
	return nil
}
