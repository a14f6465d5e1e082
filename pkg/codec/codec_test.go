package codec

import (
	"math"
	"testing"

	"sensormesh/pkg/domain"
	"sensormesh/pkg/errors"
)

func TestRoundTripWithinOneStep(t *testing.T) {
	t.Parallel()
	c := New(DefaultRanges())
	r := DefaultRanges()
	voltStep := (r.VoltHi - r.VoltLo) / 255
	tempStep := (r.TempHi - r.TempLo) / 255

	tests := []struct {
		name  string
		volts float64
		tempF float64
	}{
		{"nominal", 3.7, 72.5},
		{"low_battery", 3.21, -10},
		{"full_battery", 4.19, 99.9},
		{"range_edges", 3.2, -128},
		{"upper_edges", 4.2, 127},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := c.Encode(domain.Measurement{Source: 1, Sequence: 7, Volts: tt.volts, TempF: tt.tempF})
			m, err := c.Decode(buf)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if math.Abs(m.Volts-tt.volts) > voltStep {
				t.Errorf("volts round-trip %v -> %v exceeds one step %v", tt.volts, m.Volts, voltStep)
			}
			if math.Abs(m.TempF-tt.tempF) > tempStep {
				t.Errorf("temp round-trip %v -> %v exceeds one step %v", tt.tempF, m.TempF, tempStep)
			}
		})
	}
}

func TestEncodePreservesSourceAndSequence(t *testing.T) {
	t.Parallel()
	c := New(DefaultRanges())
	in := domain.Measurement{Source: 42, Sequence: 0xdeadbeef, Volts: 3.9, TempF: 68}

	buf := c.Encode(in)
	if len(buf) != RecordLen {
		t.Fatalf("record length = %d, want %d", len(buf), RecordLen)
	}

	m, err := c.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if m.Source != in.Source {
		t.Errorf("source = %d, want %d", m.Source, in.Source)
	}
	if m.Sequence != in.Sequence {
		t.Errorf("sequence = %#x, want %#x", m.Sequence, in.Sequence)
	}
}

func TestToByteSaturates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		val  float64
		want byte
	}{
		{"below_range", 1.0, 0},
		{"above_range", 9.0, 255},
		{"at_lo", 3.2, 0},
		{"at_hi", 4.2, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToByte(tt.val, 3.2, 4.2); got != tt.want {
				t.Errorf("ToByte(%v) = %d, want %d", tt.val, got, tt.want)
			}
		})
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	t.Parallel()
	c := New(DefaultRanges())

	for _, n := range []int{0, RecordLen - 1, RecordLen + 1, 64} {
		if _, err := c.Decode(make([]byte, n)); !errors.IsType(err, errors.MalformedError) {
			t.Errorf("Decode(len=%d) error = %v, want malformed", n, err)
		}
	}
}
