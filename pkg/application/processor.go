// Package application wires the packet pipeline: length gate and
// authentication, replay classification, then aggregation and relay
// fan-out for accepted packets. Nothing flows backward and every
// rejection path leaves replay and history state untouched.
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sensormesh/pkg/aggregate"
	"sensormesh/pkg/auth"
	"sensormesh/pkg/domain"
	"sensormesh/pkg/errors"
	"sensormesh/pkg/logger"
	"sensormesh/pkg/relay"
	"sensormesh/pkg/replay"
)

type PacketPipeline struct {
	auth       *auth.Authenticator
	tracker    *replay.Tracker
	aggregator *aggregate.Aggregator
	relay      *relay.Relay
	collector  domain.MetricsCollector
	logger     zerolog.Logger
}

func NewPacketPipeline(a *auth.Authenticator, tracker *replay.Tracker, aggregator *aggregate.Aggregator, r *relay.Relay, collector domain.MetricsCollector) *PacketPipeline {
	return &PacketPipeline{
		auth:       a,
		tracker:    tracker,
		aggregator: aggregator,
		relay:      r,
		collector:  collector,
		logger:     logger.ComponentLogger("pipeline"),
	}
}

// Process runs one received frame through the pipeline. Dropped packets
// (wrong length, failed auth) are not pipeline failures: they are counted,
// logged at debug level and return nil so the control loop keeps polling.
func (p *PacketPipeline) Process(ctx context.Context, frame []byte, header domain.Header, sig *domain.SignalQuality, arrival string, now time.Time) error {
	_ = ctx

	m, err := p.auth.Open(frame)
	if err != nil {
		p.countDrop(err)
		p.logger.Debug().Err(err).Uint8("src", header.Src).Int("len", len(frame)).Msg("dropped packet")
		return nil
	}

	check := p.tracker.Classify(m.Source, m.Sequence)
	p.collector.UpdateNodeLastSeen(m.Source, now)

	// One line per authenticated packet, in the shape the field log
	// tooling expects: signal quality, decoded fields, classification.
	event := p.logger.Info().
		Uint8("node", m.Source).
		Str("seq", fmt.Sprintf("%08x", m.Sequence)).
		Float64("volts", m.Volts).
		Float64("temp_f", m.TempF).
		Str("check", check.String())
	if sig != nil {
		event = event.Float64("rssi", sig.RSSI).Float64("snr", sig.SNR)
	}
	event.Msg("rx")

	if check == domain.Duplicate {
		p.collector.CountPacket(domain.PacketResultDuplicate)
		return nil
	}

	p.collector.CountPacket(domain.PacketResultAccepted)
	if err := p.collector.CollectReport(m, sig); err != nil {
		p.logger.Warn().Err(err).Msg("metrics collection failed")
	}
	p.aggregator.Record(m.Source, m.Volts, m.TempF, sig, now)

	if p.relay != nil {
		p.relay.Forward(frame, header, sig, arrival)
	}
	return nil
}

func (p *PacketPipeline) countDrop(err error) {
	switch {
	case errors.IsType(err, errors.AuthError):
		p.collector.CountPacket(domain.PacketResultAuthFailed)
	default:
		p.collector.CountPacket(domain.PacketResultMalformed)
	}
}
