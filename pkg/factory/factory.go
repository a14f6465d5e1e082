package factory

import (
	"time"

	"sensormesh/pkg/aggregate"
	"sensormesh/pkg/application"
	"sensormesh/pkg/auth"
	"sensormesh/pkg/codec"
	"sensormesh/pkg/domain"
	"sensormesh/pkg/infrastructure"
	"sensormesh/pkg/logger"
	"sensormesh/pkg/relay"
	"sensormesh/pkg/replay"
	"sensormesh/pkg/transport"
)

// Factory builds the station's collaborators from one config value
// resolved at startup. No component reads configuration ambiently.
type Factory struct {
	config    domain.Config
	collector domain.MetricsCollector
}

func NewFactory(config domain.Config) *Factory {
	return &Factory{config: config}
}

func (f *Factory) CreateCodec() *codec.Codec {
	ranges := f.config.GetRangeConfig()
	return codec.New(codec.Ranges{
		VoltLo: ranges.GetVoltLo(),
		VoltHi: ranges.GetVoltHi(),
		TempLo: ranges.GetTempLo(),
		TempHi: ranges.GetTempHi(),
	})
}

func (f *Factory) CreateAuthenticator() *auth.Authenticator {
	security := f.config.GetSecurityConfig()
	return auth.New(security.GetKey(), security.GetMACTrunc(), f.CreateCodec())
}

func (f *Factory) CreateMetricsCollector(mode string) domain.MetricsCollector {
	if f.collector == nil {
		f.collector = infrastructure.NewPrometheusCollector(mode)

		if stateFile := f.config.GetMetricsConfig().GetStateFile(); stateFile != "" {
			if err := f.collector.LoadState(stateFile); err != nil {
				factoryLogger := logger.ComponentLogger("factory")
				factoryLogger.Warn().Err(err).Str("file", stateFile).Msg("failed to restore metric state")
			}
		}
	}
	return f.collector
}

func (f *Factory) CreateAggregator(start time.Time) *aggregate.Aggregator {
	station := f.config.GetStationConfig()
	return aggregate.New(station.GetWindow(), station.GetDisplayMode(), start)
}

func (f *Factory) CreateRelay(primary, uplink domain.Transport, collector domain.MetricsCollector) *relay.Relay {
	relayConfig := f.config.GetRelayConfig()
	return relay.New(primary, uplink, relayConfig.GetMaxHops(), relayConfig.GetAppendSignal(), collector)
}

func (f *Factory) CreatePipeline(aggregator *aggregate.Aggregator, r *relay.Relay, collector domain.MetricsCollector) *application.PacketPipeline {
	return application.NewPacketPipeline(f.CreateAuthenticator(), replay.NewTracker(), aggregator, r, collector)
}

func (f *Factory) CreateMQTTTransport(name string) *transport.MQTTTransport {
	return transport.NewMQTTTransport(f.config.GetMQTTConfig(), name)
}

func (f *Factory) CreateMetricsServer(collector domain.MetricsCollector) *infrastructure.MetricsServer {
	return infrastructure.NewMetricsServer(f.config.GetMetricsConfig().GetListen(), collector)
}

func (f *Factory) CreateEmbeddedBroker() *infrastructure.EmbeddedBroker {
	return infrastructure.NewEmbeddedBroker(f.config.GetMQTTConfig())
}
