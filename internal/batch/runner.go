// Package batch drives a compression job file by file, streaming
// progress, per-file outcomes, and a terminal summary over one event
// channel. Per-file errors are data, not failures of the run: the batch
// keeps going and the collaborator decides how to present them.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"squish/internal/encoder"
	"squish/internal/naming"
)

// Runner executes one Job at a time on the calling goroutine. Events go
// to the channel the UI consumes; cancellation is cooperative through
// the context, checked between files, so a file mid-encode always
// completes before a cancel takes effect.
type Runner struct {
	state atomic.Int32
}

func NewRunner() *Runner { return &Runner{} }

func (r *Runner) State() State { return State(r.state.Load()) }

// Run processes every file in order and always closes events before
// returning. The error return covers only jobs that cannot start; every
// per-file failure surfaces as an Outcome event instead.
func (r *Runner) Run(ctx context.Context, job Job, events chan<- Event) (Summary, error) {
	defer close(events)

	if len(job.Files) == 0 {
		return Summary{}, errors.New("no image files to process")
	}
	if err := job.Config.Validate(); err != nil {
		return Summary{}, err
	}
	resolver, err := job.resolver()
	if err != nil {
		return Summary{}, err
	}

	r.state.Store(int32(Running))

	summary := Summary{Total: len(job.Files)}
	for i, srcPath := range job.Files {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		outcome := processFile(srcPath, resolver, job.Config)
		if outcome.Failed() {
			summary.Failed++
		} else {
			summary.Succeeded++
			summary.BytesIn += outcome.OriginalSize
			summary.BytesOut += outcome.NewSize
			if outcome.BestEffort {
				summary.BestEffort++
			}
		}

		events <- Progress{Current: i + 1, Total: summary.Total, Message: outcome.message()}
		events <- outcome
	}

	if summary.Cancelled {
		r.state.Store(int32(Cancelled))
	} else {
		r.state.Store(int32(Completed))
	}
	events <- Done{Summary: summary}
	return summary, nil
}

func (j Job) resolver() (naming.Resolver, error) {
	switch j.Mode {
	case MultiFolder:
		if j.InputRoot == "" {
			return nil, errors.New("multi-folder mode requires an input root")
		}
		return naming.MultiFolder{Root: j.InputRoot}, nil
	case SingleFolder:
		if j.InputRoot == "" {
			return nil, errors.New("single-folder mode requires an input root")
		}
		return naming.SingleFolder{Root: j.InputRoot}, nil
	case AdHocFiles:
		return naming.AdHoc{Prefix: j.Prefix}, nil
	default:
		return nil, fmt.Errorf("unknown mode %d", j.Mode)
	}
}

func processFile(srcPath string, resolver naming.Resolver, cfg encoder.Config) Outcome {
	outcome := Outcome{OriginalName: filepath.Base(srcPath)}

	dest, err := resolver.Resolve(srcPath)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.NewName = dest.Name
	outcome.OutputPath = dest.Path()

	info, err := os.Stat(srcPath)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.OriginalSize = info.Size()

	res, err := encoder.Encode(srcPath, outcome.OutputPath, cfg)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.NewSize = res.Bytes
	outcome.Quality = res.Quality
	outcome.BestEffort = res.BestEffort
	if outcome.OriginalSize > 0 {
		outcome.Reduction = float64(outcome.OriginalSize-outcome.NewSize) / float64(outcome.OriginalSize) * 100
	}
	return outcome
}

func (o Outcome) message() string {
	if o.Failed() {
		return fmt.Sprintf("%s: %v", o.OriginalName, o.Err)
	}
	return fmt.Sprintf("%s → %s", o.OriginalName, o.NewName)
}
