package domain

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Transport is the capability surface of one radio (or radio-like) link.
// Receive returns (nil, nil) on timeout: a timeout is a liveness signal,
// not an error.
type Transport interface {
	Name() string
	Send(payload []byte, header Header) error
	Receive(timeout time.Duration) (*Inbound, error)
	Close() error
}

// PacketProcessor consumes one raw frame believed to be a packet, along
// with its transport header, optional signal quality, and the name of the
// transport it arrived on.
type PacketProcessor interface {
	Process(ctx context.Context, frame []byte, header Header, signal *SignalQuality, arrival string, now time.Time) error
}

type MetricsCollector interface {
	CollectReport(m Measurement, signal *SignalQuality) error
	CountPacket(result string)
	CountRelay(err error)
	UpdateNodeLastSeen(source uint8, t time.Time)
	GetRegistry() *prometheus.Registry
	SaveState(filename string) error
	LoadState(filename string) error
}

// Display is the status sink for the two-line summary text. The real
// character LCD driver is an external collaborator; this repo ships a
// log-backed implementation.
type Display interface {
	Show(text string)
}

type Config interface {
	GetSecurityConfig() SecurityConfig
	GetRangeConfig() RangeConfig
	GetRelayConfig() RelayConfig
	GetStationConfig() StationConfig
	GetMQTTConfig() MQTTConfig
	GetMetricsConfig() MetricsConfig
	Validate() error
}

type SecurityConfig interface {
	GetKey() []byte
	GetMACTrunc() int
}

type RangeConfig interface {
	GetVoltLo() float64
	GetVoltHi() float64
	GetTempLo() float64
	GetTempHi() float64
}

type RelayConfig interface {
	GetMaxHops() int
	GetAppendSignal() bool
}

type StationConfig interface {
	GetReceiveTimeout() time.Duration
	GetWindow() time.Duration
	GetDisplayMode() DisplayMode
	GetPrimaryDomain() string
	GetUplinkDomain() string
}

type MQTTConfig interface {
	GetHost() string
	GetPort() int
	GetClientID() string
	GetTopicPrefix() string
	GetEmbeddedBroker() bool
	GetAllowAnonymous() bool
	GetUsers() []UserAuth
	GetTimeout() time.Duration
}

type UserAuth interface {
	GetUsername() string
	GetPassword() string
}

type MetricsConfig interface {
	GetListen() string
	GetStateFile() string
}
