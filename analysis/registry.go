//Package analysis provides read only steps computing results from a dataset
package analysis

import (
	"sort"

	"github.com/pkg/errors"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

//StepCreator is the common constructor type for analysis steps
type StepCreator func(params parameters.Parameters) (dataset.Analyser, error)

//availableSteps hand edited list of available analysis steps
var availableSteps = map[string]StepCreator{
	"MWFrequencyDrift":     NewMWFrequencyDrift,
	"MWFrequencyValues":    NewMWFrequencyValues,
	"TimeStampAnalysis":    NewTimeStampAnalysis,
	"BasicCharacteristics": NewBasicCharacteristics,
	"TransientNutationFFT": NewTransientNutationFFT,
}

//aliases maps former names to registered ones
var aliases = map[string]string{
	"MwFreqAnalysis": "MWFrequencyDrift",
}

//GetAvailableSteps returns the sorted names of all analysis steps that may be passed to New
func GetAvailableSteps() []string {
	names := make([]string, 0, len(availableSteps))
	for key := range availableSteps {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

//New creates the analysis step registered for name
func New(name string, params parameters.Parameters) (dataset.Analyser, error) {
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	creator, ok := availableSteps[name]
	if !ok {
		return nil, errors.Wrapf(treprErrors.ErrUnknownStep, "analysis step %q", name)
	}
	if params == nil {
		params = parameters.Parameters{}
	}
	return creator(params)
}

//oneOf returns an error wrapping treprErrors.ErrUnit if value is not in allowed
func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return errors.Wrapf(treprErrors.ErrUnit, "%v %q is not one of %v", name, value, allowed)
}
