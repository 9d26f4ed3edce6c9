package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"squish/internal/batch"
	"squish/internal/discover"
	"squish/internal/encoder"
	"squish/internal/tui"
)

func batchConfig() encoder.Config {
	return encoder.Config{
		MaxSizeKB:    maxKB,
		StartQuality: startQuality,
		MaxWidth:     maxWidth,
	}
}

// collectFolder validates a folder-mode root and gathers its images.
func collectFolder(root string) (string, []string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return "", nil, err
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("%s is not a directory", absRoot)
	}

	if !allowNetwork && discover.IsNetworkPath(absRoot) {
		return "", nil, fmt.Errorf("%s looks like a network mount; pass --allow-network to process it anyway", absRoot)
	}

	files, err := discover.Images(absRoot)
	if err != nil {
		return "", nil, err
	}
	if len(files) == 0 {
		return "", nil, fmt.Errorf("no images found under %s", absRoot)
	}

	return absRoot, files, nil
}

// runBatch drives one job with either the full-screen UI or the plain
// bar, then prints per-file results and the summary table.
func runBatch(job batch.Job) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan batch.Event, 64)
	runner := batch.NewRunner()

	var (
		summary batch.Summary
		runErr  error
	)
	outcomes := make([]batch.Outcome, 0, len(job.Files))
	recording := make(chan batch.Event, 64)

	// Tee outcomes off the stream so they can be reported after the UI
	// releases the terminal.
	go func() {
		defer close(recording)
		for event := range events {
			if outcome, ok := event.(batch.Outcome); ok {
				outcomes = append(outcomes, outcome)
			}
			recording <- event
		}
	}()

	if plainOutput {
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		uiDone := make(chan struct{})
		go func() {
			tui.RenderPlain(recording, os.Stderr)
			close(uiDone)
		}()
		summary, runErr = runner.Run(sigCtx, job, events)
		<-uiDone
	} else {
		model := tui.NewModel(recording, cancel)
		program := tea.NewProgram(model)

		uiDone := make(chan struct{})
		go func() {
			_, _ = program.Run()
			close(uiDone)
		}()
		summary, runErr = runner.Run(ctx, job, events)
		<-uiDone
	}

	if runErr != nil {
		return runErr
	}

	reportOutcomes(outcomes)
	fmt.Fprintln(os.Stdout, tui.RenderSummary(summary))

	if summary.Succeeded == 0 && summary.Failed > 0 {
		return errors.New("every file failed")
	}
	return nil
}

func reportOutcomes(outcomes []batch.Outcome) {
	for _, o := range outcomes {
		if o.Failed() {
			fmt.Fprintf(os.Stdout, "%s %s\n", failStyle.Render("✗"), fmt.Sprintf("%s: %v", o.OriginalName, o.Err))
			continue
		}
		fmt.Fprintf(os.Stdout, "%s %s → %s  %.1fKB → %.1fKB (↓%.1f%%)\n",
			okStyle.Render("✓"),
			o.OriginalName, o.NewName,
			float64(o.OriginalSize)/1024, float64(o.NewSize)/1024, o.Reduction,
		)
		if o.BestEffort {
			fmt.Fprintf(os.Stdout, "  %s\n", warnNoteStyle.Render("over budget; best effort at quality 30"))
		}
	}
}

var (
	okStyle       = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	failStyle     = lipgloss.NewStyle().Foreground(tui.ColorFail)
	warnNoteStyle = lipgloss.NewStyle().Foreground(tui.ColorWarn)
)
