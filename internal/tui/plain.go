package tui

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"squish/internal/batch"
)

// RenderPlain consumes a run's events with a line-oriented progress bar
// instead of the full-screen view, for dumb terminals and CI logs. It
// returns when the runner closes the channel. Failures are left to the
// post-run report, which prints every outcome once.
func RenderPlain(events <-chan batch.Event, out io.Writer) {
	var bar *progressbar.ProgressBar

	for event := range events {
		progress, ok := event.(batch.Progress)
		if !ok {
			continue
		}
		if bar == nil {
			bar = progressbar.NewOptions(progress.Total,
				progressbar.OptionSetWriter(out),
				progressbar.OptionSetDescription("compressing"),
				progressbar.OptionShowCount(),
			)
		}
		_ = bar.Set(progress.Current)
	}

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(out)
	}
}
