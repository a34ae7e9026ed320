package processing

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"treprSuite/dataset"
	"treprSuite/parameters"
	"treprSuite/treprErrors"
)

const (
	NormaliseMaximum = "maximum"
	NormaliseArea    = "area"
)

//Normalisation scales the data so that either max(|x|) or sum(|x|) becomes one
type Normalisation struct {
	kind    string
	divisor float64
}

//NewNormalisation takes "type", either "maximum" (default) or "area"
func NewNormalisation(params parameters.Parameters) (dataset.Processor, error) {
	kind, err := params.String("type", NormaliseMaximum)
	if err != nil {
		return nil, errors.Wrap(treprErrors.ErrUnit, err.Error())
	}
	if kind == "" {
		kind = NormaliseMaximum
	}
	return &Normalisation{kind: kind}, nil
}

func (n *Normalisation) Name() string {
	return "Normalisation"
}

func (n *Normalisation) Validate(ds *dataset.Dataset) error {
	switch n.kind {
	case NormaliseMaximum:
		n.divisor = ds.Data.MaxAbs()
	case NormaliseArea:
		n.divisor = floats.Norm(ds.Data.Values(), 1)
	default:
		return errors.Wrapf(treprErrors.ErrUnit, "Wrong normalisation type %q. Choose %q or %q.", n.kind, NormaliseMaximum, NormaliseArea)
	}
	if n.divisor == 0 {
		return errors.Wrap(treprErrors.ErrNotApplicable, "cannot normalise data that is zero everywhere")
	}
	return nil
}

func (n *Normalisation) Process(ds *dataset.Dataset) error {
	floats.Scale(1/n.divisor, ds.Data.Values())
	return nil
}

func (n *Normalisation) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":    n.kind,
		"divisor": n.divisor,
	}
}
