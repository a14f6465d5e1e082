// Package replay tracks the last accepted sequence number per source and
// classifies authenticated packets as accepted or duplicate.
//
// State is in-memory only and resets with the process. After a restart the
// first sequence number seen for each source is accepted regardless of
// value, so every reboot opens a one-packet replay window per source.
package replay

import "sensormesh/pkg/domain"

type Tracker struct {
	last map[uint8]uint32
}

func NewTracker() *Tracker {
	return &Tracker{last: make(map[uint8]uint32)}
}

// Classify applies the per-source state machine: an unseen source accepts
// any sequence, a seen source accepts only strictly increasing values.
// State never moves backward.
func (t *Tracker) Classify(source uint8, seq uint32) domain.Classification {
	prev, seen := t.last[source]
	if seen && seq <= prev {
		return domain.Duplicate
	}
	t.last[source] = seq
	return domain.Accepted
}

// Last reports the tracked sequence for a source, for diagnostics.
func (t *Tracker) Last(source uint8) (uint32, bool) {
	seq, ok := t.last[source]
	return seq, ok
}
