// Package codec packs sensor measurements into the fixed 7-byte wire
// record: source(1) ++ sequence(4, big-endian) ++ volts(1) ++ temp(1).
// Voltage and temperature are quantized to one byte over configured
// [lo,hi] ranges; quantization saturates instead of failing.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"sensormesh/pkg/domain"
	"sensormesh/pkg/errors"
)

const RecordLen = 7

// Ranges holds the quantization bounds. They are deployment constants
// shared by all stations, never derived from data.
type Ranges struct {
	VoltLo, VoltHi float64
	TempLo, TempHi float64
}

func DefaultRanges() Ranges {
	return Ranges{
		VoltLo: domain.DefaultVoltLo,
		VoltHi: domain.DefaultVoltHi,
		TempLo: domain.DefaultTempLo,
		TempHi: domain.DefaultTempHi,
	}
}

type Codec struct {
	ranges Ranges
}

func New(ranges Ranges) *Codec {
	return &Codec{ranges: ranges}
}

// ToByte scales a float in lo..hi to 0..255, clamping out-of-range input
// to the boundary byte.
func ToByte(val, lo, hi float64) byte {
	scaled := math.Round(255 * (val - lo) / (hi - lo))
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return byte(scaled)
}

// FromByte is the inverse scaling; the result is within one quantization
// step of the original in-range value.
func FromByte(b byte, lo, hi float64) float64 {
	return lo + float64(b)*(hi-lo)/255
}

func (c *Codec) Encode(m domain.Measurement) []byte {
	buf := make([]byte, RecordLen)
	buf[0] = m.Source
	binary.BigEndian.PutUint32(buf[1:5], m.Sequence)
	buf[5] = ToByte(m.Volts, c.ranges.VoltLo, c.ranges.VoltHi)
	buf[6] = ToByte(m.TempF, c.ranges.TempLo, c.ranges.TempHi)
	return buf
}

func (c *Codec) Decode(data []byte) (domain.Measurement, error) {
	if len(data) != RecordLen {
		return domain.Measurement{}, errors.NewMalformedError(
			fmt.Sprintf("record length %d, want %d", len(data), RecordLen), nil)
	}
	return domain.Measurement{
		Source:   data[0],
		Sequence: binary.BigEndian.Uint32(data[1:5]),
		Volts:    FromByte(data[5], c.ranges.VoltLo, c.ranges.VoltHi),
		TempF:    FromByte(data[6], c.ranges.TempLo, c.ranges.TempHi),
	}, nil
}
