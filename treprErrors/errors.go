//Package treprErrors holds the error kinds shared by import, processing and analysis.
//Errors are created with github.com/pkg/errors wrapping one of the sentinels below, so callers
//classify them with errors.Is
package treprErrors

import "github.com/pkg/errors"

var (
	//ErrParse marks a malformed header, body or info file line
	ErrParse = errors.New("parse error")
	//ErrShape marks traces with inconsistent sample counts
	ErrShape = errors.New("shape error")
	//ErrDimension marks a processing dimension that does not exist or data of the wrong rank
	ErrDimension = errors.New("dimension error")
	//ErrRange marks out of range or non-ascending range bounds
	ErrRange = errors.New("range error")
	//ErrUnit marks an unknown unit or type selector
	ErrUnit = errors.New("unit error")
	//ErrSchema marks an info file that does not fit the mapping table of its version
	ErrSchema = errors.New("schema error")
	//ErrNotApplicable marks a step that cannot work on the given dataset
	ErrNotApplicable = errors.New("not applicable to dataset")
	//ErrFileNotFound marks a missing measurement directory or info file
	ErrFileNotFound = errors.New("file not found")
	//ErrIndexOutOfBounds marks an axis index beyond the data dimensions
	ErrIndexOutOfBounds = errors.New("out of bounds")
	//ErrUnknownStep marks a processing or analysis name that is not registered
	ErrUnknownStep = errors.New("unknown step")
)

