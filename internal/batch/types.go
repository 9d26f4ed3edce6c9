package batch

import "squish/internal/encoder"

// Mode selects how destination paths and filename prefixes are derived.
type Mode int

const (
	// MultiFolder treats the input root's first-level folders as
	// independent groups, each with its own reduced tree.
	MultiFolder Mode = iota
	// SingleFolder mirrors the whole input root under one reduced tree.
	SingleFolder
	// AdHocFiles processes hand-picked files with no common root.
	AdHocFiles
)

func (m Mode) String() string {
	switch m {
	case MultiFolder:
		return "multi-folder"
	case SingleFolder:
		return "single-folder"
	case AdHocFiles:
		return "files"
	default:
		return "unknown"
	}
}

// Job is one batch run: an ordered file list plus its naming context.
// InputRoot is only meaningful in the folder modes, Prefix only in
// AdHocFiles mode.
type Job struct {
	Files     []string
	InputRoot string
	Mode      Mode
	Prefix    string
	Config    encoder.Config
}

// State tracks a Runner through its lifecycle.
type State int32

const (
	Idle State = iota
	Running
	Completed
	Cancelled
)

// Event is one message on a run's output channel.
type Event interface{ batchEvent() }

// Progress is emitted once per attempted file, 1-based and monotonic.
type Progress struct {
	Current int
	Total   int
	Message string
}

// Outcome reports one attempted file. A non-nil Err marks a failure;
// only OriginalName and Err are meaningful then. BestEffort marks a
// success whose output exceeded the size budget at the quality floor.
type Outcome struct {
	OriginalName string
	NewName      string
	OriginalSize int64
	NewSize      int64
	Reduction    float64
	OutputPath   string
	Quality      int
	BestEffort   bool
	Err          error
}

func (o Outcome) Failed() bool { return o.Err != nil }

// Done is the terminal event of a run.
type Done struct {
	Summary Summary
}

func (Progress) batchEvent() {}
func (Outcome) batchEvent()  {}
func (Done) batchEvent()     {}

// Summary aggregates a finished run. BestEffort counts successes whose
// output exceeded the size budget at the quality floor.
type Summary struct {
	Total      int
	Succeeded  int
	Failed     int
	BestEffort int
	BytesIn    int64
	BytesOut   int64
	Cancelled  bool
}
