package hpcp

import (
	"math"
	"testing"

	"github.com/genia/musher/peak"
)

func TestComputeRejectsBadSize(t *testing.T) {
	_, err := Compute(nil, Options{Size: 13, ReferenceHz: 440, MaxHz: 5000})
	if err == nil {
		t.Fatal("expected error for size not a multiple of 12")
	}
}

func TestComputeSinglePeakLandsOnExpectedBin(t *testing.T) {
	// A440 with reference_hz=440 should land exactly at pitch class 0.
	peaks := []peak.SpectralPeak{{FrequencyHz: 440, Magnitude: 1}}
	pcp, err := Compute(peaks, Options{
		Size:        12,
		ReferenceHz: 440,
		MinHz:       20,
		MaxHz:       5000,
		WeightType:  WeightNone,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	maxIdx := 0
	for i, v := range pcp {
		if v > pcp[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx != 0 {
		t.Fatalf("energy landed at bin %d, want 0", maxIdx)
	}
}

func TestComputeOctaveInvariance(t *testing.T) {
	// 880 Hz is an octave above the reference; it should land at the
	// same bin as 440 Hz.
	low, err := Compute([]peak.SpectralPeak{{FrequencyHz: 440, Magnitude: 1}}, Options{
		Size: 12, ReferenceHz: 440, MinHz: 20, MaxHz: 5000, WeightType: WeightNone,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	high, err := Compute([]peak.SpectralPeak{{FrequencyHz: 880, Magnitude: 1}}, Options{
		Size: 12, ReferenceHz: 440, MinHz: 20, MaxHz: 5000, WeightType: WeightNone,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	lowMax, highMax := 0, 0
	for i, v := range low {
		if v > low[lowMax] {
			lowMax = i
		}
	}
	for i, v := range high {
		if v > high[highMax] {
			highMax = i
		}
	}
	if lowMax != highMax {
		t.Fatalf("440Hz landed at %d but 880Hz landed at %d", lowMax, highMax)
	}
}

func TestComputeUnitMaxNormalization(t *testing.T) {
	peaks := []peak.SpectralPeak{{FrequencyHz: 440, Magnitude: 2}, {FrequencyHz: 220, Magnitude: 1}}
	pcp, err := Compute(peaks, Options{
		Size: 12, ReferenceHz: 440, MinHz: 20, MaxHz: 5000,
		WeightType: WeightNone, Normalized: NormalizeUnitMax,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	max := 0.0
	for _, v := range pcp {
		if v > max {
			max = v
		}
	}
	if math.Abs(max-1.0) > 1e-9 {
		t.Fatalf("max = %f, want 1.0", max)
	}
}

func TestComputeUnitSumNormalization(t *testing.T) {
	peaks := []peak.SpectralPeak{{FrequencyHz: 440, Magnitude: 2}, {FrequencyHz: 220, Magnitude: 1}}
	pcp, err := Compute(peaks, Options{
		Size: 12, ReferenceHz: 440, MinHz: 20, MaxHz: 5000,
		WeightType: WeightNone, Normalized: NormalizeUnitSum,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	sum := 0.0
	for _, v := range pcp {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("sum = %f, want 1.0", sum)
	}
}

func TestComputeOutOfRangePeaksIgnored(t *testing.T) {
	peaks := []peak.SpectralPeak{{FrequencyHz: 10, Magnitude: 100}, {FrequencyHz: 440, Magnitude: 1}}
	pcp, err := Compute(peaks, Options{
		Size: 12, ReferenceHz: 440, MinHz: 20, MaxHz: 5000, WeightType: WeightNone,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	sum := 0.0
	for _, v := range pcp {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("sum = %f, want 1.0 (10Hz peak should be excluded)", sum)
	}
}

func TestComputeMaxShiftedRotatesLargestBinToZero(t *testing.T) {
	peaks := []peak.SpectralPeak{{FrequencyHz: 440 * math.Pow(2, 3.0/12.0), Magnitude: 1}}
	pcp, err := Compute(peaks, Options{
		Size: 12, ReferenceHz: 440, MinHz: 20, MaxHz: 5000,
		WeightType: WeightNone, MaxShifted: true,
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	maxIdx := 0
	for i, v := range pcp {
		if v > pcp[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx != 0 {
		t.Fatalf("after max-shift, max bin = %d, want 0", maxIdx)
	}
}
