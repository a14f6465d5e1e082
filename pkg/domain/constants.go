package domain

import "time"

const (
	// BroadcastAddr is the "any station" address in both the dst and src
	// positions of a frame header.
	BroadcastAddr = uint8(255)

	// MaxHop is the ceiling of the 4-bit hop counter.
	MaxHop = uint8(15)

	DefaultMACTrunc = 4

	DefaultVoltLo = 3.2
	DefaultVoltHi = 4.2
	DefaultTempLo = -128.0
	DefaultTempHi = 127.0

	DefaultMaxHops        = 1
	DefaultReceiveTimeout = 60 * time.Second
	DefaultWindow         = 24 * time.Hour

	MetricVoltage        = "sensormesh_voltage_volts"
	MetricTemperature    = "sensormesh_temperature_degrees"
	MetricRSSI           = "sensormesh_rssi_dbm"
	MetricSNR            = "sensormesh_snr_db"
	MetricNodeLastSeen   = "sensormesh_node_last_seen_timestamp"
	MetricPacketsTotal   = "sensormesh_packets_total"
	MetricRelayForwarded = "sensormesh_relay_forwarded_total"
	MetricRelayErrors    = "sensormesh_relay_errors_total"
	MetricServiceInfo    = "sensormesh_build_info"

	PacketResultAccepted   = "accepted"
	PacketResultDuplicate  = "duplicate"
	PacketResultAuthFailed = "auth_failed"
	PacketResultMalformed  = "malformed"

	DefaultTimeout       = 30 * time.Second
	DefaultReadTimeout   = 15 * time.Second
	DefaultWriteTimeout  = 15 * time.Second
	DefaultIdleTimeout   = 60 * time.Second
	DefaultHeaderTimeout = 5 * time.Second

	DefaultMetricsListen = "localhost:8100"
	DefaultMetricsPath   = "/metrics"
	DefaultHealthPath    = "/health"

	DefaultMQTTPort         = 1883
	DefaultTopicPrefix      = "smesh"
	DefaultMQTTKeepAlive    = 60 * time.Second
	DefaultMQTTPingTimeout  = 10 * time.Second
	DefaultMQTTConnTimeout  = 30 * time.Second
	DefaultMQTTReconnectInt = 30 * time.Second
	DefaultMQTTDisconnectMs = 250

	StateFilePermissions = 0600

	ShutdownTimeoutDivider = 3
)
