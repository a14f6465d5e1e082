package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sensormesh/pkg/adapters"
	"sensormesh/pkg/domain"
	"sensormesh/pkg/errors"
	"sensormesh/pkg/logger"
)

type StationFile struct {
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	Security struct {
		Key      string `yaml:"key"`
		MACTrunc int    `yaml:"mac_trunc"`
	} `yaml:"security"`

	Ranges struct {
		VoltLo float64 `yaml:"volt_lo"`
		VoltHi float64 `yaml:"volt_hi"`
		TempLo float64 `yaml:"temp_lo"`
		TempHi float64 `yaml:"temp_hi"`
	} `yaml:"ranges"`

	Relay struct {
		MaxHops      int  `yaml:"max_hops"`
		AppendSignal bool `yaml:"append_signal"`
	} `yaml:"relay"`

	Station struct {
		ReceiveTimeout string `yaml:"receive_timeout"`
		Window         string `yaml:"window"`
		DisplayMode    string `yaml:"display_mode"`
		PrimaryDomain  string `yaml:"primary_domain"`
		UplinkDomain   string `yaml:"uplink_domain"`
	} `yaml:"station"`

	MQTT struct {
		Host           string `yaml:"host"`
		Port           int    `yaml:"port"`
		ClientID       string `yaml:"client_id"`
		TopicPrefix    string `yaml:"topic_prefix"`
		EmbeddedBroker bool   `yaml:"embedded_broker"`
		AllowAnonymous bool   `yaml:"allow_anonymous"`
		Users          []struct {
			Username string `yaml:"username"`
			Password string `yaml:"password"`
		} `yaml:"users"`
	} `yaml:"mqtt"`

	Metrics struct {
		Listen    string `yaml:"listen"`
		StateFile string `yaml:"state_file"`
	} `yaml:"metrics"`
}

// LoadStationConfig reads a yaml file over built-in defaults. A missing
// file is not an error; an unparseable one is.
func LoadStationConfig(filename string) (domain.Config, error) {
	config := &StationFile{}
	setDefaults(config)

	if data, err := os.ReadFile(filename); err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.NewConfigError("failed to parse yaml", err)
		}
	}

	return convertToAdapter(config)
}

func setDefaults(config *StationFile) {
	config.Logging.Level = "info"
	config.Security.MACTrunc = domain.DefaultMACTrunc
	config.Ranges.VoltLo = domain.DefaultVoltLo
	config.Ranges.VoltHi = domain.DefaultVoltHi
	config.Ranges.TempLo = domain.DefaultTempLo
	config.Ranges.TempHi = domain.DefaultTempHi
	config.Relay.MaxHops = domain.DefaultMaxHops
	config.Relay.AppendSignal = true
	config.Station.ReceiveTimeout = "60s"
	config.Station.Window = "24h"
	config.Station.DisplayMode = "report"
	config.Station.PrimaryDomain = "lora"
	config.MQTT.Host = "localhost"
	config.MQTT.Port = domain.DefaultMQTTPort
	config.MQTT.ClientID = "sensormesh"
	config.MQTT.TopicPrefix = domain.DefaultTopicPrefix
	config.MQTT.AllowAnonymous = true
	config.Metrics.Listen = domain.DefaultMetricsListen
}

func convertToAdapter(config *StationFile) (domain.Config, error) {
	logger.SetLogLevel(config.Logging.Level)

	receiveTimeout := parseDurationOr(config.Station.ReceiveTimeout, domain.DefaultReceiveTimeout)
	window := parseDurationOr(config.Station.Window, domain.DefaultWindow)

	displayMode := domain.DisplayReport
	if config.Station.DisplayMode == "signal" {
		displayMode = domain.DisplaySignal
	}

	var users []adapters.UserAuthAdapter
	for _, u := range config.MQTT.Users {
		users = append(users, adapters.UserAuthAdapter{
			Username: u.Username,
			Password: u.Password,
		})
	}

	return adapters.NewConfigAdapter(
		adapters.SecurityConfigAdapter{
			Key:      []byte(config.Security.Key),
			MACTrunc: config.Security.MACTrunc,
		},
		adapters.RangeConfigAdapter{
			VoltLo: config.Ranges.VoltLo,
			VoltHi: config.Ranges.VoltHi,
			TempLo: config.Ranges.TempLo,
			TempHi: config.Ranges.TempHi,
		},
		adapters.RelayConfigAdapter{
			MaxHops:      config.Relay.MaxHops,
			AppendSignal: config.Relay.AppendSignal,
		},
		adapters.StationConfigAdapter{
			ReceiveTimeout: receiveTimeout,
			Window:         window,
			DisplayMode:    displayMode,
			PrimaryDomain:  config.Station.PrimaryDomain,
			UplinkDomain:   config.Station.UplinkDomain,
		},
		adapters.MQTTConfigAdapter{
			Host:           config.MQTT.Host,
			Port:           config.MQTT.Port,
			ClientID:       config.MQTT.ClientID,
			TopicPrefix:    config.MQTT.TopicPrefix,
			EmbeddedBroker: config.MQTT.EmbeddedBroker,
			AllowAnonymous: config.MQTT.AllowAnonymous,
			Users:          users,
			Timeout:        domain.DefaultTimeout,
		},
		adapters.MetricsConfigAdapter{
			Listen:    config.Metrics.Listen,
			StateFile: config.Metrics.StateFile,
		},
	), nil
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
