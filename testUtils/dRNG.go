//Package testUtils creates deterministic test data: random slices, transients and complete measurement
//directories in the Speksim format
package testUtils

import (
	"math"
	"math/rand"
)

//DRNGFloat64Slice wraps DRNGFloat64SliceCustomScale with scaleFactor set to 1000
func DRNGFloat64Slice(length int, seed int64) []float64 {
	return DRNGFloat64SliceCustomScale(length, seed, 1000)
}

//DRNGFloat64SliceCustomScale returns a slice of length entries with pseudo random values from -scaleFactor to scaleFactor
//Calling with the same seed will yield the same sequence
func DRNGFloat64SliceCustomScale(length int, seed int64, scaleFactor float64) []float64 {
	dRNG := rand.New(rand.NewSource(seed))
	buf := make([]float64, length)
	for i := 0; i < length; i++ {
		buf[i] = (2*dRNG.Float64() - 1) * scaleFactor
	}
	return buf
}

//Transient returns a synthetic trEPR time trace: offset plus noise before the trigger index, an
//exponentially decaying signal of the given amplitude afterwards
func Transient(length, trigger int, amplitude, offset, noise float64, seed int64) []float64 {
	buf := DRNGFloat64SliceCustomScale(length, seed, noise)
	for i := range buf {
		buf[i] += offset
		if i >= trigger {
			buf[i] += amplitude * math.Exp(-float64(i-trigger)/float64(length/5+1))
		}
	}
	return buf
}
