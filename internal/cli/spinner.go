package cli

import (
	"context"
	"fmt"
	"io"
	"time"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerTick = 80 * time.Millisecond

// spin runs fn while animating message on out, then erases the line.
// The animation shows whole seconds once fn has run for more than one.
func spin(ctx context.Context, out io.Writer, message string, fn func(context.Context) error) error {
	done := make(chan struct{})
	drawn := make(chan int)

	go func() {
		ticker := time.NewTicker(spinnerTick)
		defer ticker.Stop()
		start := time.Now()
		width := 0
		for frame := 0; ; frame++ {
			select {
			case <-done:
				drawn <- width
				return
			case <-ticker.C:
			}
			line := message
			if secs := int(time.Since(start).Seconds()); secs > 0 {
				line = fmt.Sprintf("%s (%ds)", message, secs)
			}
			glyph := string(spinnerFrames[frame%len(spinnerFrames)])
			fmt.Fprintf(out, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(line))
			width = max(width, len(line)+2)
		}
	}()

	err := fn(ctx)
	close(done)
	if width := <-drawn; width > 0 {
		fmt.Fprintf(out, "\r%*s\r", width, "")
	}
	return err
}
