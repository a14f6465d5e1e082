package domain

import "time"

// Measurement is one decoded sensor report: battery voltage and
// temperature quantized into the wire record, plus the per-source
// monotonic sequence counter used for replay detection.
type Measurement struct {
	Source   uint8
	Sequence uint32
	Volts    float64
	TempF    float64
}

// SignalQuality is the link quality observed at a receiver for one packet.
type SignalQuality struct {
	RSSI float64 // dBm
	SNR  float64 // dB
}

// Header carries the transport-level addressing of a frame. The hop
// counter lives in the low nibble of Flags; the core never touches the
// high nibble.
type Header struct {
	Dst   uint8
	Src   uint8
	ID    uint8
	Flags uint8
}

func (h Header) Hop() uint8 {
	return h.Flags & 0x0f
}

// WithHop returns a copy with the hop nibble replaced, capped at 15.
func (h Header) WithHop(hop uint8) Header {
	if hop > MaxHop {
		hop = MaxHop
	}
	h.Flags = (h.Flags & 0xf0) | hop
	return h
}

// Inbound is one received frame as handed over by a transport.
// Signal is nil when the transport cannot observe link quality.
type Inbound struct {
	Payload []byte
	Header  Header
	Signal  *SignalQuality
}

// Classification is the replay tracker's verdict for an authenticated packet.
type Classification int

const (
	Accepted Classification = iota
	Duplicate
)

func (c Classification) String() string {
	if c == Accepted {
		return "OK"
	}
	return "DUP"
}

// Sample is one accepted report in a node's sliding window history.
type Sample struct {
	Timestamp time.Time
	Volts     float64
	TempF     float64
	Signal    *SignalQuality
}

// MetricState is the persisted gauge snapshot for one node. Replay state
// is intentionally never part of this snapshot.
type MetricState struct {
	NodeID    string             `json:"node_id"`
	Timestamp int64              `json:"timestamp"`
	Metrics   map[string]float64 `json:"metrics"`
}

type StateSnapshot struct {
	Version   string        `json:"version"`
	Timestamp int64         `json:"timestamp"`
	Nodes     []MetricState `json:"nodes"`
}

// DisplayMode selects what the second status line shows.
type DisplayMode int

const (
	DisplayReport DisplayMode = iota // window min/max temperature
	DisplaySignal                    // most recent rssi/snr pair
)
