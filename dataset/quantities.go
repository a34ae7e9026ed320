package dataset

//Axis quantities used throughout the module
const (
	QuantityMagneticField = "magnetic field"
	QuantityTime          = "time"
	QuantityIntensity     = "intensity"
	QuantityDate          = "date"
	QuantityMwFrequency   = "microwave frequency"
)
