package analysis

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

//TransientNutationFFT returns the magnitude spectrum of every transient to reveal transient nutation
//frequencies. Transients are cut at their extremum (or at t=0), optionally multiplied with the
//decaying half of a Hann window and zero padded to a power of two before the FFT.
//The result is a *dataset.Data with the time axis replaced by a frequency axis in Hz
type TransientNutationFFT struct {
	startInExtremum bool
	padding         int
	window          string
}

//NewTransientNutationFFT takes "start_in_extremum" (true), "padding" (1) and "window" ("" or "hann")
func NewTransientNutationFFT(params parameters.Parameters) (dataset.Analyser, error) {
	n := &TransientNutationFFT{}
	var err error
	if n.startInExtremum, err = params.Bool("start_in_extremum", true); err != nil {
		return nil, errors.Wrap(treprErrors.ErrUnit, err.Error())
	}
	if n.padding, err = params.Int("padding", 1); err != nil {
		return nil, errors.Wrap(treprErrors.ErrRange, err.Error())
	}
	if n.padding < 1 {
		return nil, errors.Wrapf(treprErrors.ErrRange, "padding must be at least 1, got %v", n.padding)
	}
	if n.window, err = params.String("window", ""); err != nil {
		return nil, errors.Wrap(treprErrors.ErrUnit, err.Error())
	}
	if err := oneOf("window", n.window, "", "hann"); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *TransientNutationFFT) Name() string {
	return "TransientNutationFFT"
}

func (n *TransientNutationFFT) Validate(ds *dataset.Dataset) error {
	axis, err := ds.Data.Axis(ds.Data.NDim() - 1)
	if err != nil {
		return err
	}
	if axis.Quantity != dataset.QuantityTime {
		return errors.Wrapf(treprErrors.ErrNotApplicable, "last dimension is %q, need %q", axis.Quantity, dataset.QuantityTime)
	}
	if len(axis.Values) < 2 {
		return errors.Wrap(treprErrors.ErrNotApplicable, "need at least two time points")
	}
	return nil
}

func nextPowerOfTwo(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

func (n *TransientNutationFFT) cutIndex(data *dataset.Data, timeValues []float64) int {
	if n.startInExtremum {
		abs := make([]float64, len(data.Values()))
		for i, v := range data.Values() {
			abs[i] = math.Abs(v)
		}
		return floats.MaxIdx(abs) % data.Cols()
	}
	abs := make([]float64, len(timeValues))
	for i, v := range timeValues {
		abs[i] = math.Abs(v)
	}
	return floats.MinIdx(abs)
}

func (n *TransientNutationFFT) Analyse(ds *dataset.Dataset) (interface{}, error) {
	data := ds.Data
	axes := data.Axes()
	timeValues := axes[data.NDim()-1].Values
	dt := timeValues[len(timeValues)-1] - timeValues[len(timeValues)-2]

	cut := n.cutIndex(data, timeValues)
	length := data.Cols() - cut
	fftSize := nextPowerOfTwo(length * n.padding)
	bins := fftSize/2 + 1

	var taper []float64
	if n.window == "hann" {
		full := make([]float64, 2*length)
		floats.AddConst(1, full)
		taper = window.Hann(full)[length:]
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create fft plan of size %v", fftSize)
	}
	in := make([]complex128, fftSize)
	out := make([]complex128, fftSize)
	re := make([]float64, bins)
	im := make([]float64, bins)

	result := make([]float64, 0, data.Rows()*bins)
	for r := 0; r < data.Rows(); r++ {
		row := data.Row(r)[cut:]
		for i := range in {
			in[i] = 0
		}
		for i, v := range row {
			if taper != nil {
				v *= taper[i]
			}
			in[i] = complex(v, 0)
		}
		if err := plan.Forward(out, in); err != nil {
			return nil, errors.Wrap(err, "fft failed")
		}
		for k := 0; k < bins; k++ {
			re[k], im[k] = real(out[k]), imag(out[k])
		}
		magnitude := make([]float64, bins)
		vecmath.Magnitude(magnitude, re, im)
		result = append(result, magnitude...)
	}

	frequencies := make([]float64, bins)
	for k := range frequencies {
		frequencies[k] = float64(k) / (float64(fftSize) * dt)
	}
	frequencyAxis := dataset.Axis{Values: frequencies, Unit: "Hz", Quantity: "frequency"}
	dependent := dataset.Axis{Quantity: axes[len(axes)-1].Quantity}
	if data.NDim() == 1 {
		return dataset.NewData(result, []int{bins}, []dataset.Axis{frequencyAxis, dependent})
	}
	return dataset.NewData(result, []int{data.Rows(), bins}, []dataset.Axis{axes[0].Copy(), frequencyAxis, dependent})
}
