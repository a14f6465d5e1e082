// Package transport provides the radio-link capability interface of the
// station core and two implementations: an MQTT-backed transport for the
// IP uplink domain and an in-process loopback for tests.
//
// Frames carry a RadioHead-style 4-byte header prefix (dst, src, id,
// flags) ahead of the payload; the hop counter is the low nibble of the
// flags byte.
package transport

import (
	"fmt"

	"sensormesh/pkg/domain"
	"sensormesh/pkg/errors"
)

const HeaderLen = 4

func EncodeFrame(h domain.Header, payload []byte) []byte {
	buf := make([]byte, 0, HeaderLen+len(payload))
	buf = append(buf, h.Dst, h.Src, h.ID, h.Flags)
	return append(buf, payload...)
}

func DecodeFrame(data []byte) (domain.Header, []byte, error) {
	if len(data) < HeaderLen {
		return domain.Header{}, nil, errors.NewMalformedError(
			fmt.Sprintf("frame length %d shorter than header", len(data)), nil)
	}
	h := domain.Header{Dst: data[0], Src: data[1], ID: data[2], Flags: data[3]}
	return h, data[HeaderLen:], nil
}
