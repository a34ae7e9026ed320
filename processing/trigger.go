package processing

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

const (
	//noiseSamples is the number of leading smoothed differences used to estimate the noise
	noiseSamples = 50
	//smoothingFraction of the transient length is the width of the boxcar filter
	smoothingFraction = 20
)

//TriggerAutodetection finds the trigger position of transients recorded without pretrigger and shifts
//the time axis so that the trigger is at t=0. The differences of the first transient are smoothed with
//a boxcar of 1/20 of its length, the trigger is the first point exceeding n_sigma standard deviations
//of the first 50 smoothed differences
type TriggerAutodetection struct {
	nSigma          float64
	triggerPosition int
}

//NewTriggerAutodetection takes "n_sigma", default 4
func NewTriggerAutodetection(params parameters.Parameters) (dataset.Processor, error) {
	nSigma, err := params.Float("n_sigma", 4)
	if err != nil {
		return nil, errors.Wrap(treprErrors.ErrRange, err.Error())
	}
	if nSigma <= 0 {
		return nil, errors.Wrapf(treprErrors.ErrRange, "n_sigma must be positive, got %v", nSigma)
	}
	return &TriggerAutodetection{nSigma: nSigma}, nil
}

func (t *TriggerAutodetection) Name() string {
	return "TriggerAutodetection"
}

func (t *TriggerAutodetection) Validate(ds *dataset.Dataset) error {
	if _, err := timeAxis(ds.Data); err != nil {
		return err
	}
	if ds.Data.Cols() < smoothingFraction {
		return errors.Wrapf(treprErrors.ErrNotApplicable, "transient with %v samples is too short", ds.Data.Cols())
	}
	return nil
}

//boxcar returns the full convolution of s with a window of ones of length width
func boxcar(s []float64, width int) []float64 {
	res := make([]float64, len(s)+width-1)
	for i := range res {
		lo, hi := i-width+1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi > len(s) {
			hi = len(s)
		}
		res[i] = floats.Sum(s[lo:hi])
	}
	return res
}

//DetectTrigger returns the trigger index of transient or 0 if none is found
func DetectTrigger(transient []float64, nSigma float64) int {
	differences := make([]float64, len(transient)-1)
	floats.SubTo(differences, transient[1:], transient[:len(transient)-1])
	smoothed := boxcar(differences, len(transient)/smoothingFraction)

	noise := smoothed
	if len(noise) > noiseSamples {
		noise = noise[:noiseSamples]
	}
	_, std := stat.PopMeanStdDev(noise, nil)
	threshold := std * nSigma
	for i, v := range smoothed {
		if v > threshold {
			return i
		}
	}
	return 0
}

func (t *TriggerAutodetection) Process(ds *dataset.Dataset) error {
	t.triggerPosition = DetectTrigger(ds.Data.Row(0), t.nSigma)
	axis, err := timeAxis(ds.Data)
	if err != nil {
		return err
	}
	if t.triggerPosition >= len(axis.Values) {
		t.triggerPosition = len(axis.Values) - 1
	}
	floats.AddConst(-axis.Values[t.triggerPosition], axis.Values)
	ds.Metadata.Transient.TriggerPosition = t.triggerPosition
	return nil
}

func (t *TriggerAutodetection) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"n_sigma":          t.nSigma,
		"trigger_position": t.triggerPosition,
	}
}
