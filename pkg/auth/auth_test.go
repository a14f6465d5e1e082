package auth

import (
	"testing"

	"sensormesh/pkg/codec"
	"sensormesh/pkg/domain"
	"sensormesh/pkg/errors"
)

var testKey = []byte("test shared key")

func newTestAuthenticator() *Authenticator {
	return New(testKey, domain.DefaultMACTrunc, codec.New(codec.DefaultRanges()))
}

func TestSealOpenRoundTrip(t *testing.T) {
	t.Parallel()
	a := newTestAuthenticator()
	in := domain.Measurement{Source: 3, Sequence: 1000, Volts: 3.8, TempF: 71}

	frame := a.Seal(in)
	if len(frame) != a.FrameLen() {
		t.Fatalf("frame length = %d, want %d", len(frame), a.FrameLen())
	}

	m, err := a.Open(frame)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if m.Source != in.Source || m.Sequence != in.Sequence {
		t.Errorf("Open() = %+v, want source=%d seq=%d", m, in.Source, in.Sequence)
	}
}

func TestOpenDetectsSingleBitFlips(t *testing.T) {
	t.Parallel()
	a := newTestAuthenticator()
	frame := a.Seal(domain.Measurement{Source: 7, Sequence: 42, Volts: 4.0, TempF: 55})

	// Flip every bit of the MAC-covered record one at a time; none may pass.
	for i := 0; i < codec.RecordLen; i++ {
		for bit := 0; bit < 8; bit++ {
			tampered := make([]byte, len(frame))
			copy(tampered, frame)
			tampered[i] ^= 1 << bit

			if _, err := a.Open(tampered); !errors.IsType(err, errors.AuthError) {
				t.Fatalf("bit flip at byte %d bit %d: error = %v, want auth failure", i, bit, err)
			}
		}
	}
}

func TestOpenDetectsTagTamper(t *testing.T) {
	t.Parallel()
	a := newTestAuthenticator()
	frame := a.Seal(domain.Measurement{Source: 1, Sequence: 1, Volts: 3.5, TempF: 60})
	frame[len(frame)-1] ^= 0x01

	if _, err := a.Open(frame); !errors.IsType(err, errors.AuthError) {
		t.Errorf("Open() error = %v, want auth failure", err)
	}
}

func TestOpenRejectsWrongKey(t *testing.T) {
	t.Parallel()
	a := newTestAuthenticator()
	b := New([]byte("different key"), domain.DefaultMACTrunc, codec.New(codec.DefaultRanges()))

	frame := a.Seal(domain.Measurement{Source: 1, Sequence: 5, Volts: 3.7, TempF: 70})
	if _, err := b.Open(frame); !errors.IsType(err, errors.AuthError) {
		t.Errorf("Open() with wrong key error = %v, want auth failure", err)
	}
}

func TestOpenRejectsWrongLengthBeforeAuth(t *testing.T) {
	t.Parallel()
	a := newTestAuthenticator()
	frame := a.Seal(domain.Measurement{Source: 1, Sequence: 5, Volts: 3.7, TempF: 70})

	tests := []struct {
		name  string
		frame []byte
	}{
		{"one_byte_short", frame[:len(frame)-1]},
		{"one_byte_long", append(append([]byte{}, frame...), 0x00)},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Open(tt.frame); !errors.IsType(err, errors.MalformedError) {
				t.Errorf("Open() error = %v, want malformed", err)
			}
		})
	}
}
