// Package wavelet implements a minimal single-level discrete wavelet
// transform with the db4 (Daubechies, 8-tap) mother wavelet, symmetric
// boundary extension, and direct convolution. No third-party wavelet
// kernel exists anywhere in the surrounding dependency stack, so this is
// hand-rolled rather than wrapped.
package wavelet

// db4Low is the Daubechies-4 (8-tap) scaling (low-pass) filter.
var db4Low = []float64{
	-0.010597401785069032,
	0.032883011666885655,
	0.030841381835560764,
	-0.187034811719093084,
	-0.027983769416859854,
	0.630880767929590400,
	0.714846570552915647,
	0.230377813308896501,
}

// db4High is the quadrature-mirror wavelet (high-pass) filter derived
// from db4Low: g[n] = (-1)^n * h[N-1-n].
var db4High = qmf(db4Low)

func qmf(h []float64) []float64 {
	n := len(h)
	g := make([]float64, n)
	for i := 0; i < n; i++ {
		sign := 1.0
		if i%2 != 0 {
			sign = -1.0
		}
		g[i] = sign * h[n-1-i]
	}
	return g
}

// Forward performs one level of the db4 DWT on signal, returning the
// approximation (cA) and detail (cD) coefficients, each roughly half the
// length of signal. An empty input yields empty output.
func Forward(signal []float64) (approx, detail []float64) {
	if len(signal) == 0 {
		return nil, nil
	}
	extended := symmetricExtend(signal, len(db4Low)-1)
	approx = convolveDecimate(extended, db4Low)
	detail = convolveDecimate(extended, db4High)
	return approx, detail
}

// symmetricExtend pads signal by pad samples on each side by mirroring
// around the boundary sample (half-point symmetric / "sym" extension).
func symmetricExtend(signal []float64, pad int) []float64 {
	n := len(signal)
	out := make([]float64, n+2*pad)
	for i := 0; i < pad; i++ {
		out[pad-1-i] = signal[i%n]
		out[pad+n+i] = signal[n-1-(i%n)]
	}
	copy(out[pad:pad+n], signal)
	return out
}

// convolveDecimate convolves extended with filter (direct, O(n*flen)) and
// keeps every other output sample.
func convolveDecimate(extended, filter []float64) []float64 {
	flen := len(filter)
	fullLen := len(extended) - flen + 1
	if fullLen <= 0 {
		return nil
	}
	out := make([]float64, (fullLen+1)/2)
	for i := range out {
		pos := 2*i + 1
		if pos >= fullLen {
			pos = fullLen - 1
		}
		sum := 0.0
		for k := 0; k < flen; k++ {
			sum += filter[flen-1-k] * extended[pos+k]
		}
		out[i] = sum
	}
	return out
}
