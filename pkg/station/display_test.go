package station

import "testing"

func TestLogDisplaySuppressesRepeats(t *testing.T) {
	t.Parallel()
	d := NewLogDisplay()

	d.Show("Ready 0m")
	d.Show("Ready 0m")
	if d.last != "Ready 0m" {
		t.Errorf("last = %q, want cached text", d.last)
	}

	d.Show("Ready 1m")
	if d.last != "Ready 1m" {
		t.Errorf("last = %q, want updated text", d.last)
	}
}
