package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensormesh/pkg/adapters"
	"sensormesh/pkg/domain"
	"sensormesh/pkg/factory"
	"sensormesh/pkg/infrastructure"
	"sensormesh/pkg/transport"
)

const integrationBrokerPort = 18831

func integrationConfig() domain.Config {
	return adapters.NewConfigAdapter(
		adapters.SecurityConfigAdapter{Key: []byte("integration shared key"), MACTrunc: 4},
		adapters.RangeConfigAdapter{VoltLo: 3.2, VoltHi: 4.2, TempLo: -128, TempHi: 127},
		adapters.RelayConfigAdapter{MaxHops: 1, AppendSignal: false},
		adapters.StationConfigAdapter{
			ReceiveTimeout: 2 * time.Second,
			Window:         24 * time.Hour,
			DisplayMode:    domain.DisplayReport,
			PrimaryDomain:  "lora",
			UplinkDomain:   "uplink",
		},
		adapters.MQTTConfigAdapter{
			Host:           "localhost",
			Port:           integrationBrokerPort,
			ClientID:       "integration",
			TopicPrefix:    "smesh-it",
			EmbeddedBroker: true,
			AllowAnonymous: true,
		},
		adapters.MetricsConfigAdapter{Listen: "localhost:0"},
	)
}

// End to end over a real broker: a sensor seals a report, the station
// receives it on the primary domain, classifies and aggregates it, and
// the relay forwards it onto the uplink domain with the hop incremented.
func TestIntegrationStationPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cfg := integrationConfig()
	require.NoError(t, cfg.Validate())

	broker := infrastructure.NewEmbeddedBroker(cfg.GetMQTTConfig())
	require.NoError(t, broker.Start())
	defer broker.Close()
	time.Sleep(200 * time.Millisecond)

	f := factory.NewFactory(cfg)

	stationPrimary := connectClient(t, "station", "lora")
	defer stationPrimary.Close()

	stationUplink := connectClient(t, "station", "uplink")
	defer stationUplink.Close()

	uplinkObserver := connectClient(t, "observer", "uplink")
	defer uplinkObserver.Close()

	sensor := connectClient(t, "sensor", "lora")
	defer sensor.Close()

	collector := f.CreateMetricsCollector("integration")
	aggregator := f.CreateAggregator(time.Now())
	relay := f.CreateRelay(stationPrimary, stationUplink, collector)
	pipeline := f.CreatePipeline(aggregator, relay, collector)

	authenticator := f.CreateAuthenticator()
	frame := authenticator.Seal(domain.Measurement{Source: 12, Sequence: 1000, Volts: 3.9, TempF: 68})
	header := domain.Header{Dst: domain.BroadcastAddr, Src: 12, ID: 1}
	require.NoError(t, sensor.Send(frame, header))

	in, err := stationPrimary.Receive(3 * time.Second)
	require.NoError(t, err)
	require.NotNil(t, in, "station did not receive the sensor frame")

	ctx := context.Background()
	now := time.Now()
	require.NoError(t, pipeline.Process(ctx, in.Payload, in.Header, in.Signal, stationPrimary.Name(), now))

	summary := aggregator.Summarize(now)
	assert.True(t, strings.HasPrefix(summary, "12 "), "summary %q should report node 12", summary)
	assert.Contains(t, summary, "3.9V")

	relayed, err := uplinkObserver.Receive(2 * time.Second)
	require.NoError(t, err)
	require.NotNil(t, relayed, "accepted packet was not relayed to the uplink")
	assert.Equal(t, uint8(1), relayed.Header.Hop())
	assert.Equal(t, uint8(12), relayed.Header.Src)

	// Replaying the exact frame must classify as duplicate and not relay.
	require.NoError(t, pipeline.Process(ctx, in.Payload, in.Header, in.Signal, stationPrimary.Name(), now.Add(time.Second)))
	dup, err := uplinkObserver.Receive(500 * time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, dup, "duplicate packet must not be relayed")

	// A tampered frame is dropped without touching history.
	tampered := append([]byte{}, frame...)
	tampered[3] ^= 0x01
	require.NoError(t, pipeline.Process(ctx, tampered, header, nil, stationPrimary.Name(), now.Add(2*time.Second)))
	assert.True(t, strings.HasPrefix(aggregator.Summarize(now.Add(2*time.Second)), "12 "))
}

// connectClient builds a transport with a role-specific client id so the
// broker does not evict same-id sessions during the test.
func connectClient(t *testing.T, clientID, name string) *transport.MQTTTransport {
	t.Helper()
	mqttCfg := adapters.MQTTConfigAdapter{
		Host:           "localhost",
		Port:           integrationBrokerPort,
		ClientID:       clientID,
		TopicPrefix:    "smesh-it",
		AllowAnonymous: true,
	}
	tr := transport.NewMQTTTransport(&mqttCfg, name)
	require.NoError(t, tr.Connect())
	return tr
}

func TestIntegrationQuietStartShowsReady(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	f := factory.NewFactory(integrationConfig())

	start := time.Now()
	aggregator := f.CreateAggregator(start)
	assert.Equal(t, "Ready 1h", aggregator.Summarize(start.Add(90*time.Minute)))
}
