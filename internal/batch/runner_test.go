package batch

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"squish/internal/encoder"
)

func TestRunEmitsOneProgressAndOutcomePerFile(t *testing.T) {
	dir := t.TempDir()
	good1 := filepath.Join(dir, "a.png")
	good2 := filepath.Join(dir, "b.png")
	bad := filepath.Join(dir, "c.jpg")

	writeTestPNG(t, good1)
	writeTestPNG(t, good2)
	if err := os.WriteFile(bad, []byte("not an image at all, honest"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	job := Job{
		Files:  []string{good1, good2, bad},
		Mode:   AdHocFiles,
		Prefix: "x",
		Config: encoder.DefaultConfig(),
	}

	events := make(chan Event, 16)
	runner := NewRunner()

	var (
		progresses []Progress
		outcomes   []Outcome
		dones      []Done
	)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for event := range events {
			switch ev := event.(type) {
			case Progress:
				progresses = append(progresses, ev)
			case Outcome:
				outcomes = append(outcomes, ev)
			case Done:
				dones = append(dones, ev)
			}
		}
	}()

	summary, err := runner.Run(context.Background(), job, events)
	<-collected
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(progresses) != 3 {
		t.Fatalf("got %d progress events, want 3", len(progresses))
	}
	for i, p := range progresses {
		if p.Current != i+1 || p.Total != 3 {
			t.Fatalf("progress[%d] = %d/%d, want %d/3", i, p.Current, p.Total, i+1)
		}
	}

	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	if outcomes[0].Failed() || outcomes[1].Failed() {
		t.Fatalf("good files failed: %v, %v", outcomes[0].Err, outcomes[1].Err)
	}
	if !outcomes[2].Failed() {
		t.Fatal("corrupt file did not fail")
	}
	if outcomes[0].NewName != "x_a.jpg" {
		t.Fatalf("new name = %q, want x_a.jpg", outcomes[0].NewName)
	}
	if _, err := os.Stat(filepath.Join(dir, "reduced", "x_a.jpg")); err != nil {
		t.Fatalf("output missing: %v", err)
	}

	if len(dones) != 1 {
		t.Fatalf("got %d terminal events, want exactly 1", len(dones))
	}
	want := Summary{Total: 3, Succeeded: 2, Failed: 1,
		BytesIn: summary.BytesIn, BytesOut: summary.BytesOut}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
	if dones[0].Summary != summary {
		t.Fatalf("terminal summary %+v differs from returned %+v", dones[0].Summary, summary)
	}
	if runner.State() != Completed {
		t.Fatalf("state = %v, want Completed", runner.State())
	}
}

func TestRunCancelMidBatch(t *testing.T) {
	dir := t.TempDir()
	files := make([]string, 3)
	for i, name := range []string{"a.png", "b.png", "c.png"} {
		files[i] = filepath.Join(dir, name)
		writeTestPNG(t, files[i])
	}

	job := Job{Files: files, Mode: AdHocFiles, Config: encoder.DefaultConfig()}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Unbuffered channel: the runner cannot move past file 1 until its
	// events are received, so cancelling on the first progress event
	// deterministically stops the run before file 2.
	events := make(chan Event)
	runner := NewRunner()

	var outcomes []Outcome
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		cancelled := false
		for event := range events {
			switch ev := event.(type) {
			case Progress:
				if !cancelled {
					cancelled = true
					cancel()
				}
			case Outcome:
				outcomes = append(outcomes, ev)
			}
		}
	}()

	summary, err := runner.Run(ctx, job, events)
	<-collected
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !summary.Cancelled {
		t.Fatal("summary not marked cancelled")
	}
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes after cancel before file 2, want 1", len(outcomes))
	}
	if runner.State() != Cancelled {
		t.Fatalf("state = %v, want Cancelled", runner.State())
	}

	// Files never reached leave no output behind.
	if _, err := os.Stat(filepath.Join(dir, "reduced", "c.jpg")); !os.IsNotExist(err) {
		t.Fatalf("file 3 was processed after cancellation: %v", err)
	}
}

func TestRunCountsBestEffortOutcomes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "noisy.png")
	writeNoisePNG(t, src, 256, 256)

	cfg := encoder.DefaultConfig()
	cfg.MaxSizeKB = 1 // unmeetable for 256x256 noise

	job := Job{Files: []string{src}, Mode: AdHocFiles, Config: cfg}

	events := make(chan Event, 8)
	var outcomes []Outcome
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for event := range events {
			if outcome, ok := event.(Outcome); ok {
				outcomes = append(outcomes, outcome)
			}
		}
	}()

	summary, err := NewRunner().Run(context.Background(), job, events)
	<-collected
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Succeeded != 1 || summary.BestEffort != 1 {
		t.Fatalf("summary = %+v, want one best-effort success", summary)
	}
	if len(outcomes) != 1 || !outcomes[0].BestEffort {
		t.Fatalf("outcomes = %+v, want one with BestEffort set", outcomes)
	}
}

func TestRunRejectsEmptyJob(t *testing.T) {
	events := make(chan Event, 1)
	runner := NewRunner()

	_, err := runner.Run(context.Background(), Job{Mode: AdHocFiles, Config: encoder.DefaultConfig()}, events)
	if err == nil {
		t.Fatal("expected an error for an empty file list")
	}
	if _, ok := <-events; ok {
		t.Fatal("events emitted for a rejected job")
	}
	if runner.State() != Idle {
		t.Fatalf("state = %v, want Idle", runner.State())
	}
}

func TestRunSingleFolderLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "album")
	sub := filepath.Join(root, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := filepath.Join(sub, "pic.png")
	writeTestPNG(t, src)

	job := Job{
		Files:     []string{src},
		InputRoot: root,
		Mode:      SingleFolder,
		Config:    encoder.DefaultConfig(),
	}

	events := make(chan Event, 16)
	go func() {
		for range events {
		}
	}()

	summary, err := NewRunner().Run(context.Background(), job, events)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("summary = %+v, want one success", summary)
	}

	want := filepath.Join(root, "reduced", "sub", "album_pic.jpg")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("mirrored output missing at %s: %v", want, err)
	}
}

func TestRunFolderModeRequiresRoot(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.png")
	writeTestPNG(t, src)

	for _, mode := range []Mode{MultiFolder, SingleFolder} {
		events := make(chan Event, 1)
		_, err := NewRunner().Run(context.Background(), Job{
			Files:  []string{src},
			Mode:   mode,
			Config: encoder.DefaultConfig(),
		}, events)
		if err == nil {
			t.Fatalf("%v mode accepted an empty input root", mode)
		}
	}
}

// writeNoisePNG makes an incompressible image so size budgets can be
// made unmeetable.
func writeNoisePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
}

func writeTestPNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
}
