//Package processing provides the steps that transform the data of a dataset in place.
//A step is created from a parameter map by name and applied with dataset.Dataset.Process,
//which validates before anything is modified and records the step in the history
package processing

import (
	"sort"

	"github.com/pkg/errors"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

//If you want to add a new step, implement the dataset.Processor interface and add a new mapping
//to availableSteps to make it accessible from the command line

//StepCreator is the common constructor type for processing steps. It only checks the parameters
//that can be checked without a dataset
type StepCreator func(params parameters.Parameters) (dataset.Processor, error)

//availableSteps hand edited list of available steps
var availableSteps = map[string]StepCreator{
	"Averaging":                    NewAveraging,
	"PretriggerOffsetCompensation": NewPretriggerOffsetCompensation,
	"Normalisation":                NewNormalisation,
	"BackgroundCorrection":         NewBackgroundCorrection,
	"FrequencyCorrection":          NewFrequencyCorrection,
	"TriggerAutodetection":         NewTriggerAutodetection,
}

//GetAvailableSteps returns the sorted names of all steps that may be passed to New
func GetAvailableSteps() []string {
	names := make([]string, 0, len(availableSteps))
	for key := range availableSteps {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

//New creates the step registered for name
func New(name string, params parameters.Parameters) (dataset.Processor, error) {
	creator, ok := availableSteps[name]
	if !ok {
		return nil, errors.Wrapf(treprErrors.ErrUnknownStep, "processing step %q", name)
	}
	if params == nil {
		params = parameters.Parameters{}
	}
	return creator(params)
}
