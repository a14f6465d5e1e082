// Package relay implements the gateway policy that bridges two radio
// domains. An accepted packet arriving on one transport is retransmitted
// once on the other, with the hop counter incremented, until the
// configured hop ceiling halts propagation. There is no transport-of-origin
// tracking; the ceiling alone bounds loops.
//
// When a packet crosses onto the uplink with signal append enabled, the
// forwarded payload is record ++ tag ++ rssi(int8) ++ snr(int8). The MAC
// tag still covers only the record; uplink consumers must strip the
// trailing two bytes before verifying. Frames forwarded back toward the
// radio domain are never extended.
package relay

import (
	"math"

	"github.com/rs/zerolog"

	"sensormesh/pkg/domain"
	"sensormesh/pkg/logger"
)

const signalPairLen = 2

type Relay struct {
	primary      domain.Transport
	uplink       domain.Transport
	maxHops      int
	appendSignal bool
	collector    domain.MetricsCollector
	logger       zerolog.Logger
}

func New(primary, uplink domain.Transport, maxHops int, appendSignal bool, collector domain.MetricsCollector) *Relay {
	return &Relay{
		primary:      primary,
		uplink:       uplink,
		maxHops:      maxHops,
		appendSignal: appendSignal,
		collector:    collector,
		logger:       logger.ComponentLogger("relay"),
	}
}

// Forward retransmits an accepted packet onto the opposite transport.
// Sending is fire-and-forget: a failure is logged and counted but never
// affects the classification already recorded upstream. The caller
// guarantees the packet is authenticated and not a duplicate.
func (r *Relay) Forward(payload []byte, header domain.Header, sig *domain.SignalQuality, from string) {
	target := r.target(from)
	if target == nil {
		return
	}

	hop := header.Hop()
	if int(hop) >= r.maxHops {
		r.logger.Debug().
			Uint8("src", header.Src).
			Uint8("hop", hop).
			Int("max_hops", r.maxHops).
			Msg("hop ceiling reached, not forwarding")
		return
	}

	out := payload
	if target == r.uplink && r.appendSignal && sig != nil {
		out = appendSignalPair(payload, *sig)
	}

	err := target.Send(out, header.WithHop(hop+1))
	if r.collector != nil {
		r.collector.CountRelay(err)
	}
	if err != nil {
		r.logger.Warn().Err(err).
			Str("target", target.Name()).
			Uint8("src", header.Src).
			Msg("relay send failed")
		return
	}

	r.logger.Debug().
		Str("target", target.Name()).
		Uint8("src", header.Src).
		Uint8("hop", hop+1).
		Msg("forwarded")
}

func (r *Relay) target(from string) domain.Transport {
	if r.primary != nil && from == r.primary.Name() {
		return r.uplink
	}
	return r.primary
}

// appendSignalPair extends the payload with the link quality observed at
// this relay as two signed bytes (rssi dBm, snr dB), so the far side of
// the uplink can see the radio-domain link quality.
func appendSignalPair(payload []byte, sig domain.SignalQuality) []byte {
	out := make([]byte, len(payload), len(payload)+signalPairLen)
	copy(out, payload)
	return append(out, byte(clampInt8(sig.RSSI)), byte(clampInt8(sig.SNR)))
}

func clampInt8(v float64) int8 {
	r := math.Round(v)
	if r < math.MinInt8 {
		return math.MinInt8
	}
	if r > math.MaxInt8 {
		return math.MaxInt8
	}
	return int8(r)
}
