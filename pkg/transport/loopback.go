package transport

import (
	"time"

	"sensormesh/pkg/domain"
	"sensormesh/pkg/errors"
)

// Loopback is a channel-backed transport. NewLoopbackPair returns two ends
// of one link: frames sent on either end arrive at the other. Signal
// quality can be injected per end to exercise the relay's append path.
type Loopback struct {
	name   string
	tx     chan *domain.Inbound
	rx     chan *domain.Inbound
	signal *domain.SignalQuality
	closed bool
}

func NewLoopbackPair(nameA, nameB string) (*Loopback, *Loopback) {
	ab := make(chan *domain.Inbound, 16)
	ba := make(chan *domain.Inbound, 16)
	a := &Loopback{name: nameA, tx: ab, rx: ba}
	b := &Loopback{name: nameB, tx: ba, rx: ab}
	return a, b
}

// SetSignal fixes the signal quality reported for frames received on this
// end, standing in for the radio driver's per-packet rssi/snr readings.
func (l *Loopback) SetSignal(sig domain.SignalQuality) {
	l.signal = &sig
}

func (l *Loopback) Name() string {
	return l.name
}

func (l *Loopback) Send(payload []byte, header domain.Header) error {
	if l.closed {
		return errors.NewTransportError("loopback closed", nil)
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	select {
	case l.tx <- &domain.Inbound{Payload: buf, Header: header}:
		return nil
	default:
		return errors.NewTransportError("loopback buffer full", nil)
	}
}

func (l *Loopback) Receive(timeout time.Duration) (*domain.Inbound, error) {
	select {
	case in := <-l.rx:
		if in != nil && l.signal != nil {
			sig := *l.signal
			in.Signal = &sig
		}
		return in, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

func (l *Loopback) Close() error {
	l.closed = true
	return nil
}
