package window

import (
	"math"
	"testing"
)

func TestCoefficientsSymmetric(t *testing.T) {
	for _, typ := range []Type{Hann, Hamming, BlackmanHarris62dB, BlackmanHarris92dB} {
		c, err := Coefficients(typ, 65)
		if err != nil {
			t.Fatalf("Coefficients(%d): %v", typ, err)
		}
		n := len(c)
		for i := 0; i < n; i++ {
			if math.Abs(c[i]-c[n-1-i]) > 1e-9 {
				t.Fatalf("window type %d not symmetric at %d: %f vs %f", typ, i, c[i], c[n-1-i])
			}
		}
	}
}

func TestCoefficientsRejectsZeroSize(t *testing.T) {
	if _, err := Coefficients(Hann, 0); err == nil {
		t.Fatal("expected error for zero size")
	}
}

func TestApplyPreservesLength(t *testing.T) {
	frame := make([]float64, 16)
	for i := range frame {
		frame[i] = 1.0
	}
	out, err := Apply(frame, Options{Type: Hann})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != len(frame) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(frame))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	frame := make([]float64, 8)
	for i := range frame {
		frame[i] = 1.0
	}
	orig := append([]float64(nil), frame...)
	if _, err := Apply(frame, Options{Type: Hamming}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i := range frame {
		if frame[i] != orig[i] {
			t.Fatalf("input mutated at %d: %f vs %f", i, frame[i], orig[i])
		}
	}
}

func TestApplyZeroPaddingOnRight(t *testing.T) {
	frame := make([]float64, 8)
	for i := range frame {
		frame[i] = 1.0
	}
	out, err := Apply(frame, Options{Type: Hann, ZeroPaddingSize: 8})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 16 {
		t.Fatalf("len(out) = %d, want 16", len(out))
	}
	for i := 8; i < 16; i++ {
		if out[i] != 0 {
			t.Fatalf("expected trailing zero pad at %d, got %f", i, out[i])
		}
	}
}

func TestApplyZeroPhasePlacesPeakAtStart(t *testing.T) {
	// a frame of all ones, run through a window whose
	// peak sits mid-frame, should have its largest windowed coefficient
	// rotated to the front under zero-phase.
	frame := make([]float64, 8)
	for i := range frame {
		frame[i] = 1.0
	}
	plain, err := Apply(frame, Options{Type: Hann})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	zp, err := Apply(frame, Options{Type: Hann, ZeroPhase: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(zp) != len(plain) {
		t.Fatalf("len(zp) = %d, want %d", len(zp), len(plain))
	}
	// second half of the plain window should now be the first half of
	// the zero-phase output.
	half1 := len(plain) / 2
	half2 := len(plain) - half1
	for i := 0; i < half2; i++ {
		if zp[i] != plain[half1+i] {
			t.Fatalf("zero-phase output[%d] = %f, want %f", i, zp[i], plain[half1+i])
		}
	}
}

func TestApplyZeroPhaseWithPadding(t *testing.T) {
	frame := []float64{1, 1, 1, 1}
	out, err := Apply(frame, Options{Type: Hann, ZeroPhase: true, ZeroPaddingSize: 4})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 8 {
		t.Fatalf("len(out) = %d, want 8", len(out))
	}
	// padding sits in the middle: half2=2 real samples, then 4 zeros,
	// then half1=2 real samples.
	for i := 2; i < 6; i++ {
		if out[i] != 0 {
			t.Fatalf("expected zero at %d, got %f", i, out[i])
		}
	}
}

func TestApplyNormalizeSumsToTwo(t *testing.T) {
	frame := make([]float64, 32)
	for i := range frame {
		frame[i] = 1.0
	}
	out, err := Apply(frame, Options{Type: BlackmanHarris62dB, Normalize: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	sum := 0.0
	for _, v := range out {
		sum += v
	}
	if math.Abs(sum-2.0) > 1e-9 {
		t.Fatalf("sum = %f, want 2.0", sum)
	}
}
