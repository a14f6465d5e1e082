package factory

import (
	"testing"
	"time"

	"sensormesh/pkg/adapters"
	"sensormesh/pkg/domain"
)

func testConfig() domain.Config {
	return adapters.NewConfigAdapter(
		adapters.SecurityConfigAdapter{Key: []byte("factory test key"), MACTrunc: 4},
		adapters.RangeConfigAdapter{VoltLo: 3.2, VoltHi: 4.2, TempLo: -128, TempHi: 127},
		adapters.RelayConfigAdapter{MaxHops: 1, AppendSignal: true},
		adapters.StationConfigAdapter{
			ReceiveTimeout: time.Minute,
			Window:         24 * time.Hour,
			DisplayMode:    domain.DisplayReport,
			PrimaryDomain:  "lora",
		},
		adapters.MQTTConfigAdapter{Host: "localhost", Port: 1883, ClientID: "test", TopicPrefix: "smesh"},
		adapters.MetricsConfigAdapter{Listen: "localhost:0"},
	)
}

func TestCreateAuthenticatorFrameLen(t *testing.T) {
	t.Parallel()
	f := NewFactory(testConfig())

	a := f.CreateAuthenticator()
	if a.FrameLen() != 11 {
		t.Errorf("FrameLen() = %d, want 7-byte record + 4-byte tag", a.FrameLen())
	}
}

func TestCreateMetricsCollectorIsSingleton(t *testing.T) {
	t.Parallel()
	f := NewFactory(testConfig())

	a := f.CreateMetricsCollector("test")
	b := f.CreateMetricsCollector("test")
	if a != b {
		t.Error("CreateMetricsCollector must reuse one collector per factory")
	}
}

func TestCreatePipelineWiresComponents(t *testing.T) {
	t.Parallel()
	f := NewFactory(testConfig())

	collector := f.CreateMetricsCollector("test")
	agg := f.CreateAggregator(time.Now())
	pipeline := f.CreatePipeline(agg, nil, collector)
	if pipeline == nil {
		t.Fatal("CreatePipeline returned nil")
	}
}
