package adapters

import (
	"fmt"
	"time"

	"sensormesh/pkg/domain"
)

type ConfigAdapter struct {
	security SecurityConfigAdapter
	ranges   RangeConfigAdapter
	relay    RelayConfigAdapter
	station  StationConfigAdapter
	mqtt     MQTTConfigAdapter
	metrics  MetricsConfigAdapter
}

type SecurityConfigAdapter struct {
	Key      []byte
	MACTrunc int
}

type RangeConfigAdapter struct {
	VoltLo, VoltHi float64
	TempLo, TempHi float64
}

type RelayConfigAdapter struct {
	MaxHops      int
	AppendSignal bool
}

type StationConfigAdapter struct {
	ReceiveTimeout time.Duration
	Window         time.Duration
	DisplayMode    domain.DisplayMode
	PrimaryDomain  string
	UplinkDomain   string
}

type MQTTConfigAdapter struct {
	Host           string
	Port           int
	ClientID       string
	TopicPrefix    string
	EmbeddedBroker bool
	AllowAnonymous bool
	Users          []UserAuthAdapter
	Timeout        time.Duration
}

type UserAuthAdapter struct {
	Username string
	Password string
}

type MetricsConfigAdapter struct {
	Listen    string
	StateFile string
}

func NewConfigAdapter(security SecurityConfigAdapter, ranges RangeConfigAdapter, relay RelayConfigAdapter, station StationConfigAdapter, mqtt MQTTConfigAdapter, metrics MetricsConfigAdapter) *ConfigAdapter {
	return &ConfigAdapter{
		security: security,
		ranges:   ranges,
		relay:    relay,
		station:  station,
		mqtt:     mqtt,
		metrics:  metrics,
	}
}

func (c *ConfigAdapter) GetSecurityConfig() domain.SecurityConfig { return &c.security }
func (c *ConfigAdapter) GetRangeConfig() domain.RangeConfig       { return &c.ranges }
func (c *ConfigAdapter) GetRelayConfig() domain.RelayConfig       { return &c.relay }
func (c *ConfigAdapter) GetStationConfig() domain.StationConfig   { return &c.station }
func (c *ConfigAdapter) GetMQTTConfig() domain.MQTTConfig         { return &c.mqtt }
func (c *ConfigAdapter) GetMetricsConfig() domain.MetricsConfig   { return &c.metrics }

func (c *ConfigAdapter) Validate() error {
	if len(c.security.Key) == 0 {
		return fmt.Errorf("shared key cannot be empty")
	}
	if c.security.MACTrunc < 1 || c.security.MACTrunc > 20 {
		return fmt.Errorf("invalid mac truncation length: %d", c.security.MACTrunc)
	}
	if c.ranges.VoltLo >= c.ranges.VoltHi {
		return fmt.Errorf("invalid voltage range: [%v, %v]", c.ranges.VoltLo, c.ranges.VoltHi)
	}
	if c.ranges.TempLo >= c.ranges.TempHi {
		return fmt.Errorf("invalid temperature range: [%v, %v]", c.ranges.TempLo, c.ranges.TempHi)
	}
	if c.relay.MaxHops < 0 || c.relay.MaxHops > int(domain.MaxHop) {
		return fmt.Errorf("invalid max hops: %d", c.relay.MaxHops)
	}
	if c.mqtt.Host == "" {
		return fmt.Errorf("MQTT host cannot be empty")
	}
	if c.mqtt.Port <= 0 || c.mqtt.Port > 65535 {
		return fmt.Errorf("invalid MQTT port: %d", c.mqtt.Port)
	}
	if c.metrics.Listen == "" {
		return fmt.Errorf("metrics listen address cannot be empty")
	}
	return nil
}

func (s *SecurityConfigAdapter) GetKey() []byte   { return s.Key }
func (s *SecurityConfigAdapter) GetMACTrunc() int { return s.MACTrunc }

func (r *RangeConfigAdapter) GetVoltLo() float64 { return r.VoltLo }
func (r *RangeConfigAdapter) GetVoltHi() float64 { return r.VoltHi }
func (r *RangeConfigAdapter) GetTempLo() float64 { return r.TempLo }
func (r *RangeConfigAdapter) GetTempHi() float64 { return r.TempHi }

func (r *RelayConfigAdapter) GetMaxHops() int       { return r.MaxHops }
func (r *RelayConfigAdapter) GetAppendSignal() bool { return r.AppendSignal }

func (s *StationConfigAdapter) GetReceiveTimeout() time.Duration  { return s.ReceiveTimeout }
func (s *StationConfigAdapter) GetWindow() time.Duration          { return s.Window }
func (s *StationConfigAdapter) GetDisplayMode() domain.DisplayMode { return s.DisplayMode }
func (s *StationConfigAdapter) GetPrimaryDomain() string          { return s.PrimaryDomain }
func (s *StationConfigAdapter) GetUplinkDomain() string           { return s.UplinkDomain }

func (m *MQTTConfigAdapter) GetHost() string           { return m.Host }
func (m *MQTTConfigAdapter) GetPort() int              { return m.Port }
func (m *MQTTConfigAdapter) GetClientID() string       { return m.ClientID }
func (m *MQTTConfigAdapter) GetTopicPrefix() string    { return m.TopicPrefix }
func (m *MQTTConfigAdapter) GetEmbeddedBroker() bool   { return m.EmbeddedBroker }
func (m *MQTTConfigAdapter) GetAllowAnonymous() bool   { return m.AllowAnonymous }
func (m *MQTTConfigAdapter) GetTimeout() time.Duration { return m.Timeout }

func (m *MQTTConfigAdapter) GetUsers() []domain.UserAuth {
	users := make([]domain.UserAuth, len(m.Users))
	for i := range m.Users {
		users[i] = &m.Users[i]
	}
	return users
}

func (u *UserAuthAdapter) GetUsername() string { return u.Username }
func (u *UserAuthAdapter) GetPassword() string { return u.Password }

func (m *MetricsConfigAdapter) GetListen() string    { return m.Listen }
func (m *MetricsConfigAdapter) GetStateFile() string { return m.StateFile }
