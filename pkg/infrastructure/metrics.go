package infrastructure

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog/log"

	"sensormesh/pkg/domain"
	"sensormesh/pkg/version"
)

// PrometheusCollector exposes per-node telemetry gauges and pipeline
// counters on a private registry.
type PrometheusCollector struct {
	registry *prometheus.Registry

	packetCounter  *prometheus.CounterVec
	relayForwarded prometheus.Counter
	relayErrors    prometheus.Counter
	voltage        *prometheus.GaugeVec
	temperature    *prometheus.GaugeVec
	rssi           *prometheus.GaugeVec
	snr            *prometheus.GaugeVec
	nodeLastSeen   *prometheus.GaugeVec
	serviceInfo    *prometheus.GaugeVec
}

func NewPrometheusCollector(mode string) *PrometheusCollector {
	c := &PrometheusCollector{registry: prometheus.NewRegistry()}
	c.setupMetrics()
	c.setupServiceInfo(mode)
	return c
}

func (c *PrometheusCollector) setupMetrics() {
	c.packetCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: domain.MetricPacketsTotal, Help: "Processed packets by result"},
		[]string{"result"})

	c.relayForwarded = prometheus.NewCounter(
		prometheus.CounterOpts{Name: domain.MetricRelayForwarded, Help: "Packets forwarded by the relay"})

	c.relayErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: domain.MetricRelayErrors, Help: "Relay send failures"})

	c.voltage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: domain.MetricVoltage, Help: "Battery voltage"},
		[]string{"node_id"})

	c.temperature = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: domain.MetricTemperature, Help: "Temperature"},
		[]string{"node_id"})

	c.rssi = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: domain.MetricRSSI, Help: "RSSI signal strength"},
		[]string{"node_id"})

	c.snr = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: domain.MetricSNR, Help: "Signal-to-noise ratio"},
		[]string{"node_id"})

	c.nodeLastSeen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: domain.MetricNodeLastSeen, Help: "Last seen timestamp"},
		[]string{"node_id"})

	c.registry.MustRegister(
		c.packetCounter, c.relayForwarded, c.relayErrors,
		c.voltage, c.temperature, c.rssi, c.snr, c.nodeLastSeen,
	)
}

func (c *PrometheusCollector) setupServiceInfo(mode string) {
	c.serviceInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: domain.MetricServiceInfo, Help: "Service information"},
		[]string{"version", "mode", "git_commit", "build_date"})
	c.registry.MustRegister(c.serviceInfo)

	v, gitCommit, buildDate := version.GetBuildInfo()
	c.serviceInfo.WithLabelValues(v, mode, gitCommit, buildDate).Set(1)
}

func nodeLabel(source uint8) string {
	return strconv.Itoa(int(source))
}

func (c *PrometheusCollector) CollectReport(m domain.Measurement, sig *domain.SignalQuality) error {
	node := nodeLabel(m.Source)
	c.voltage.WithLabelValues(node).Set(m.Volts)
	c.temperature.WithLabelValues(node).Set(m.TempF)
	if sig != nil {
		c.rssi.WithLabelValues(node).Set(sig.RSSI)
		c.snr.WithLabelValues(node).Set(sig.SNR)
	}
	return nil
}

func (c *PrometheusCollector) CountPacket(result string) {
	c.packetCounter.WithLabelValues(result).Inc()
}

func (c *PrometheusCollector) CountRelay(err error) {
	if err != nil {
		c.relayErrors.Inc()
		return
	}
	c.relayForwarded.Inc()
}

func (c *PrometheusCollector) UpdateNodeLastSeen(source uint8, t time.Time) {
	c.nodeLastSeen.WithLabelValues(nodeLabel(source)).Set(float64(t.Unix()))
}

func (c *PrometheusCollector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// SaveState writes the per-node gauges to a JSON snapshot so a restarted
// station resumes with its last readings. Replay sequence state is
// deliberately excluded (see pkg/replay).
func (c *PrometheusCollector) SaveState(filename string) error {
	if filename == "" {
		return nil
	}

	metricFamilies, err := c.registry.Gather()
	if err != nil {
		return err
	}

	nodes := c.extractNodeMetrics(metricFamilies)
	state := domain.StateSnapshot{
		Version:   "1.0",
		Timestamp: time.Now().Unix(),
		Nodes:     make([]domain.MetricState, 0, len(nodes)),
	}
	for _, n := range nodes {
		state.Nodes = append(state.Nodes, n)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, domain.StateFilePermissions)
}

func (c *PrometheusCollector) extractNodeMetrics(metricFamilies []*dto.MetricFamily) map[string]domain.MetricState {
	nodes := make(map[string]domain.MetricState)

	for _, mf := range metricFamilies {
		for _, metric := range mf.GetMetric() {
			nodeID := ""
			for _, label := range metric.GetLabel() {
				if label.GetName() == "node_id" {
					nodeID = label.GetValue()
				}
			}
			if nodeID == "" {
				continue
			}

			if _, exists := nodes[nodeID]; !exists {
				nodes[nodeID] = domain.MetricState{
					NodeID:    nodeID,
					Timestamp: time.Now().Unix(),
					Metrics:   make(map[string]float64),
				}
			}
			nodes[nodeID].Metrics[mf.GetName()] = metricValue(metric)
		}
	}
	return nodes
}

func metricValue(metric *dto.Metric) float64 {
	if metric.GetGauge() != nil {
		return metric.GetGauge().GetValue()
	}
	if metric.GetCounter() != nil {
		return metric.GetCounter().GetValue()
	}
	return 0
}

func (c *PrometheusCollector) LoadState(filename string) error {
	if filename == "" {
		return nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("file", filename).Msg("state file not found, starting fresh")
			return nil
		}
		return err
	}

	var state domain.StateSnapshot
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	log.Info().Int("nodes", len(state.Nodes)).Str("version", state.Version).Msg("restoring metrics state")
	gauges := map[string]*prometheus.GaugeVec{
		domain.MetricVoltage:      c.voltage,
		domain.MetricTemperature:  c.temperature,
		domain.MetricRSSI:         c.rssi,
		domain.MetricSNR:          c.snr,
		domain.MetricNodeLastSeen: c.nodeLastSeen,
	}
	for _, nodeState := range state.Nodes {
		for name, value := range nodeState.Metrics {
			if gauge, exists := gauges[name]; exists {
				gauge.WithLabelValues(nodeState.NodeID).Set(value)
			}
		}
	}
	return nil
}
