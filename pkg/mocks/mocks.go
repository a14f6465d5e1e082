package mocks

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sensormesh/pkg/domain"
)

type MockMetricsCollector struct {
	Reports       []domain.Measurement
	Signals       []*domain.SignalQuality
	PacketCounts  map[string]int
	RelayOK       int
	RelayFailed   int
	LastSeen      map[uint8]time.Time
	Registry      *prometheus.Registry
	LastStateFile string
}

func NewMockMetricsCollector() *MockMetricsCollector {
	return &MockMetricsCollector{
		PacketCounts: make(map[string]int),
		LastSeen:     make(map[uint8]time.Time),
	}
}

func (m *MockMetricsCollector) CollectReport(meas domain.Measurement, sig *domain.SignalQuality) error {
	m.Reports = append(m.Reports, meas)
	m.Signals = append(m.Signals, sig)
	return nil
}

func (m *MockMetricsCollector) CountPacket(result string) {
	m.PacketCounts[result]++
}

func (m *MockMetricsCollector) CountRelay(err error) {
	if err != nil {
		m.RelayFailed++
		return
	}
	m.RelayOK++
}

func (m *MockMetricsCollector) UpdateNodeLastSeen(source uint8, t time.Time) {
	m.LastSeen[source] = t
}

func (m *MockMetricsCollector) GetRegistry() *prometheus.Registry {
	if m.Registry == nil {
		m.Registry = prometheus.NewRegistry()
	}
	return m.Registry
}

func (m *MockMetricsCollector) SaveState(filename string) error {
	m.LastStateFile = filename
	return nil
}

func (m *MockMetricsCollector) LoadState(filename string) error {
	m.LastStateFile = filename
	return nil
}

type MockDisplay struct {
	Texts []string
}

func (d *MockDisplay) Show(text string) {
	d.Texts = append(d.Texts, text)
}

type SentFrame struct {
	Payload []byte
	Header  domain.Header
}

// MockTransport records sends and serves scripted inbound frames.
type MockTransport struct {
	TransportName string
	Sent          []SentFrame
	Queue         []*domain.Inbound
	SendErr       error
}

func (t *MockTransport) Name() string {
	if t.TransportName == "" {
		return "mock"
	}
	return t.TransportName
}

func (t *MockTransport) Send(payload []byte, header domain.Header) error {
	if t.SendErr != nil {
		return t.SendErr
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	t.Sent = append(t.Sent, SentFrame{Payload: buf, Header: header})
	return nil
}

// Receive serves the next scripted frame, or sleeps out the timeout like
// a quiet radio when the queue is empty.
func (t *MockTransport) Receive(timeout time.Duration) (*domain.Inbound, error) {
	if len(t.Queue) == 0 {
		time.Sleep(timeout)
		return nil, nil
	}
	in := t.Queue[0]
	t.Queue = t.Queue[1:]
	return in, nil
}

func (t *MockTransport) Close() error {
	return nil
}

type MockProcessor struct {
	Frames  [][]byte
	Headers []domain.Header
	Err     error
}

func (p *MockProcessor) Process(_ context.Context, frame []byte, header domain.Header, _ *domain.SignalQuality, _ string, _ time.Time) error {
	p.Frames = append(p.Frames, frame)
	p.Headers = append(p.Headers, header)
	return p.Err
}
