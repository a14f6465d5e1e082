package infrastructure

import (
	"strconv"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/rs/zerolog"

	"sensormesh/pkg/domain"
	apperrors "sensormesh/pkg/errors"
	"sensormesh/pkg/logger"
)

// EmbeddedBroker hosts the MQTT uplink domain inside the station process,
// so a single-box deployment needs no external broker.
type EmbeddedBroker struct {
	config domain.MQTTConfig
	server *mqtt.Server
	logger zerolog.Logger
}

func NewEmbeddedBroker(config domain.MQTTConfig) *EmbeddedBroker {
	return &EmbeddedBroker{
		config: config,
		logger: logger.ComponentLogger("embedded-broker"),
	}
}

func (b *EmbeddedBroker) Start() error {
	b.server = mqtt.New(&mqtt.Options{InlineClient: false})

	if err := b.server.AddHook(new(auth.AllowHook), &auth.Options{Ledger: b.buildLedger()}); err != nil {
		return apperrors.NewConfigError("failed to add auth hook", err)
	}

	addr := b.config.GetHost() + ":" + strconv.Itoa(b.config.GetPort())
	tcp := listeners.NewTCP(listeners.Config{ID: "tcp", Address: addr})
	if err := b.server.AddListener(tcp); err != nil {
		return apperrors.NewTransportError("failed to add listener", err)
	}

	go func() {
		if err := b.server.Serve(); err != nil {
			b.logger.Error().Err(err).Msg("mqtt broker error")
		}
	}()

	b.logger.Info().Str("address", addr).Msg("embedded mqtt broker started")
	return nil
}

func (b *EmbeddedBroker) buildLedger() *auth.Ledger {
	if b.config.GetAllowAnonymous() {
		return &auth.Ledger{Auth: auth.AuthRules{{Allow: true}}}
	}

	var rules auth.AuthRules
	for _, user := range b.config.GetUsers() {
		rules = append(rules, auth.AuthRule{
			Username: auth.RString(user.GetUsername()),
			Password: auth.RString(user.GetPassword()),
			Allow:    true,
		})
	}
	return &auth.Ledger{Auth: rules}
}

func (b *EmbeddedBroker) Close() error {
	if b.server == nil {
		return nil
	}
	b.logger.Info().Msg("stopping embedded mqtt broker")
	return b.server.Close()
}
