// ABOUTME: Kaiser-windowed sinc kernel used by the resampler
// ABOUTME: Tabulated once per configuration and linearly interpolated at run time
package resample

import "math"

const (
	kernelResolution = 512 // table entries per zero crossing
	besselEpsilon    = 1e-21
)

// kernel holds sinc(u)·kaiser(u/halfTaps) for u in [0, halfTaps]
type kernel struct {
	halfTaps int
	table    []float64
}

func newKernel(halfTaps int, beta float64) *kernel {
	n := halfTaps*kernelResolution + 2
	table := make([]float64, n)
	i0Beta := besselI0(beta)

	for i := range table {
		u := float64(i) / kernelResolution
		if u >= float64(halfTaps) {
			continue
		}
		x := u / float64(halfTaps)
		table[i] = sinc(u) * besselI0(beta*math.Sqrt(1-x*x)) / i0Beta
	}

	return &kernel{halfTaps: halfTaps, table: table}
}

// at evaluates the kernel at u (in zero crossings)
func (k *kernel) at(u float64) float64 {
	if u < 0 {
		u = -u
	}
	if u >= float64(k.halfTaps) {
		return 0
	}
	pos := u * kernelResolution
	i := int(pos)
	frac := pos - float64(i)
	return k.table[i] + frac*(k.table[i+1]-k.table[i])
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// besselI0 is the zeroth-order modified Bessel function of the first kind,
// summed as a power series until terms stop contributing.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	half := x / 2
	for k := 1; k < 500; k++ {
		term *= (half / float64(k)) * (half / float64(k))
		sum += term
		if term < besselEpsilon*sum {
			break
		}
	}
	return sum
}
