package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes leveled lines stamped with wall-clock time to
// hundredths of a second.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch times the stages of one command. Each lap is logged at debug
// level; stop logs the total at info level.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func startStopwatch(l *log.Logger) *stopwatch {
	now := time.Now()
	return &stopwatch{logger: l, start: now, last: now}
}

func (s *stopwatch) lap(stage string) {
	now := time.Now()
	s.logger.Debug(stage, "took", now.Sub(s.last).Round(time.Millisecond))
	s.last = now
}

func (s *stopwatch) stop(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(msg, keyvals...)
}
