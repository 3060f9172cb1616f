package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// Progress draws a progress bar for a load. Update matches the pipeline's
// OnProgress callback.
type Progress struct {
	bar  *progressbar.ProgressBar
	done int
}

// NewProgress creates a bar for total messages written to w.
func NewProgress(w io.Writer, total int, description string) *Progress {
	p := &Progress{}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(0),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Update moves the bar to done messages.
func (p *Progress) Update(done, _ int) {
	if done <= p.done {
		return
	}
	if err := p.bar.Set(done); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
	p.done = done
}

// Done returns how many messages the bar has seen.
func (p *Progress) Done() int {
	return p.done
}

// Finish completes the bar even when the run stopped early.
func (p *Progress) Finish() {
	if err := p.bar.Exit(); err != nil {
		slog.Warn("Failed to close progress bar", "error", err)
	}
}
