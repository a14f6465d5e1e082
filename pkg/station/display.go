package station

import (
	"strings"

	"github.com/rs/zerolog"

	"sensormesh/pkg/logger"
)

// LogDisplay stands in for the 2x16 character LCD: it writes the summary
// text to the log, one field per display line. Repeated identical text is
// suppressed to keep idle refreshes quiet.
type LogDisplay struct {
	logger zerolog.Logger
	last   string
}

func NewLogDisplay() *LogDisplay {
	return &LogDisplay{logger: logger.ComponentLogger("display")}
}

func (d *LogDisplay) Show(text string) {
	if text == d.last {
		return
	}
	d.last = text

	lines := strings.SplitN(text, "\n", 2)
	event := d.logger.Info().Str("line1", lines[0])
	if len(lines) > 1 {
		event = event.Str("line2", lines[1])
	}
	event.Msg("display")
}
