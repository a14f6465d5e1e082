// Package aggregate turns the stream of accepted reports into a rolling
// per-source summary sized for a small two-line character display.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"sensormesh/pkg/domain"
)

type nodeHistory struct {
	samples []domain.Sample
	minF    float64
	maxF    float64
}

// Aggregator keeps a bounded sliding-window history per source. It is
// owned by the station control loop, mutated only through the
// accepted-packet path, and not safe for concurrent use.
type Aggregator struct {
	window time.Duration
	mode   domain.DisplayMode
	start  time.Time
	nodes  map[uint8]*nodeHistory
}

func New(window time.Duration, mode domain.DisplayMode, start time.Time) *Aggregator {
	if window <= 0 {
		window = domain.DefaultWindow
	}
	return &Aggregator{
		window: window,
		mode:   mode,
		start:  start,
		nodes:  make(map[uint8]*nodeHistory),
	}
}

// Record appends a sample for the source, prunes entries that have aged
// out of the window from the oldest end, and recomputes the window
// min/max temperature from the survivors. Recomputing every time keeps
// incremental errors from accumulating.
func (a *Aggregator) Record(source uint8, volts, tempF float64, sig *domain.SignalQuality, now time.Time) {
	sample := domain.Sample{Timestamp: now, Volts: volts, TempF: tempF, Signal: sig}

	n, ok := a.nodes[source]
	if !ok {
		a.nodes[source] = &nodeHistory{samples: []domain.Sample{sample}, minF: tempF, maxF: tempF}
		return
	}

	n.samples = append(n.samples, sample)

	cutoff := now.Add(-a.window)
	drop := 0
	for drop < len(n.samples)-1 && n.samples[drop].Timestamp.Before(cutoff) {
		drop++
	}
	n.samples = n.samples[drop:]

	n.minF, n.maxF = n.samples[0].TempF, n.samples[0].TempF
	for _, s := range n.samples[1:] {
		if s.TempF < n.minF {
			n.minF = s.TempF
		}
		if s.TempF > n.maxF {
			n.maxF = s.TempF
		}
	}
}

// MinMax reports the window temperature statistics for a source.
func (a *Aggregator) MinMax(source uint8) (minF, maxF float64, ok bool) {
	n, found := a.nodes[source]
	if !found {
		return 0, 0, false
	}
	return n.minF, n.maxF, true
}

// SampleCount reports how many samples survive in a source's window.
func (a *Aggregator) SampleCount(source uint8) int {
	if n, ok := a.nodes[source]; ok {
		return len(n.samples)
	}
	return 0
}

// Summarize renders the two-line status text. With no reports ever it
// shows readiness plus elapsed-since-start; otherwise it shows the lowest
// numbered source (a 2x16 display fits only one) with its latest sample
// and either window min/max or the latest signal pair.
func (a *Aggregator) Summarize(now time.Time) string {
	if len(a.nodes) == 0 {
		return fmt.Sprintf("Ready %s", FreshnessTag(now.Sub(a.start)))
	}

	keys := make([]int, 0, len(a.nodes))
	for k := range a.nodes {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	source := uint8(keys[0])
	n := a.nodes[source]
	latest := n.samples[len(n.samples)-1]
	tag := FreshnessTag(now.Sub(latest.Timestamp))

	line1 := fmt.Sprintf("%d %.1fV %s %.0fF", source, latest.Volts, tag, latest.TempF)
	var line2 string
	if a.mode == domain.DisplaySignal {
		if latest.Signal != nil {
			line2 = fmt.Sprintf(" %.0fdBm %.1fdB", latest.Signal.RSSI, latest.Signal.SNR)
		} else {
			line2 = " no signal data"
		}
	} else {
		line2 = fmt.Sprintf(" %.0fF %.0fF", n.minF, n.maxF)
	}
	return line1 + "\n" + line2
}

// FreshnessTag formats an age in the coarsest non-zero unit, preferring
// days over hours over minutes: "3d", "5h", "12m". Zero or negative ages
// format as "0m".
func FreshnessTag(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d.Seconds())
	if days := seconds / 86400; days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	if hours := seconds / 3600; hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", seconds/60)
}
