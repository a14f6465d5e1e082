package transport

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"sensormesh/pkg/domain"
	apperrors "sensormesh/pkg/errors"
	"sensormesh/pkg/logger"
)

// MQTTTransport bridges one radio domain over an MQTT broker. Binary
// frames (header prefix + payload) travel on <prefix>/<domain>/frames.
// MQTT cannot observe link quality, so Inbound.Signal is always nil here.
type MQTTTransport struct {
	config domain.MQTTConfig
	name   string
	client mqtt.Client
	inbox  chan *domain.Inbound
	logger zerolog.Logger
}

func NewMQTTTransport(config domain.MQTTConfig, name string) *MQTTTransport {
	return &MQTTTransport{
		config: config,
		name:   name,
		inbox:  make(chan *domain.Inbound, 64),
		logger: logger.ComponentLogger("mqtt-transport").With().Str("domain", name).Logger(),
	}
}

func (t *MQTTTransport) Name() string {
	return t.name
}

func (t *MQTTTransport) topic() string {
	return fmt.Sprintf("%s/%s/frames", t.config.GetTopicPrefix(), t.name)
}

func (t *MQTTTransport) Connect() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", t.config.GetHost(), t.config.GetPort()))
	opts.SetClientID(fmt.Sprintf("%s-%s", t.config.GetClientID(), t.name))
	opts.SetKeepAlive(domain.DefaultMQTTKeepAlive)
	opts.SetPingTimeout(domain.DefaultMQTTPingTimeout)
	opts.SetConnectTimeout(domain.DefaultMQTTConnTimeout)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(domain.DefaultMQTTReconnectInt)

	users := t.config.GetUsers()
	if len(users) > 0 {
		opts.SetUsername(users[0].GetUsername())
		opts.SetPassword(users[0].GetPassword())
	}

	opts.SetOnConnectHandler(t.onConnect)
	opts.SetConnectionLostHandler(t.onConnectionLost)

	t.client = mqtt.NewClient(opts)
	if token := t.client.Connect(); token.Wait() && token.Error() != nil {
		return apperrors.NewTransportError("mqtt connect failed", token.Error())
	}

	t.logger.Info().Str("topic", t.topic()).Msg("connected to mqtt broker")
	return nil
}

func (t *MQTTTransport) onConnect(client mqtt.Client) {
	topic := t.topic()
	if token := client.Subscribe(topic, 0, t.messageHandler); token.Wait() && token.Error() != nil {
		t.logger.Error().Err(token.Error()).Str("topic", topic).Msg("failed to subscribe")
	} else {
		t.logger.Info().Str("topic", topic).Msg("subscribed")
	}
}

func (t *MQTTTransport) onConnectionLost(_ mqtt.Client, err error) {
	t.logger.Error().Err(err).Msg("connection lost")
}

func (t *MQTTTransport) messageHandler(_ mqtt.Client, msg mqtt.Message) {
	header, payload, err := DecodeFrame(msg.Payload())
	if err != nil {
		t.logger.Debug().Err(err).Msg("dropping short frame")
		return
	}
	select {
	case t.inbox <- &domain.Inbound{Payload: payload, Header: header}:
	default:
		t.logger.Warn().Msg("inbox full, dropping frame")
	}
}

func (t *MQTTTransport) Send(payload []byte, header domain.Header) error {
	if t.client == nil || !t.client.IsConnected() {
		return apperrors.NewTransportError("mqtt client not connected", nil)
	}
	token := t.client.Publish(t.topic(), 0, false, EncodeFrame(header, payload))
	if token.Wait() && token.Error() != nil {
		return apperrors.NewTransportError("mqtt publish failed", token.Error())
	}
	return nil
}

// Receive blocks up to timeout for the next frame. A nil Inbound with nil
// error signals a timeout.
func (t *MQTTTransport) Receive(timeout time.Duration) (*domain.Inbound, error) {
	select {
	case in := <-t.inbox:
		return in, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

func (t *MQTTTransport) Close() error {
	if t.client != nil && t.client.IsConnected() {
		t.client.Disconnect(domain.DefaultMQTTDisconnectMs)
		t.logger.Info().Msg("disconnected from mqtt broker")
	}
	return nil
}
