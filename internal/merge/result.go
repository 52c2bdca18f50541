package merge

import (
	"time"

	"pairmerge/internal/pairing"
)

// State is the furthest point a pair reached.
type State string

const (
	StatePending    State = "pending"
	StateLoaded     State = "loaded"
	StateNormalized State = "normalized"
	StateMerged     State = "merged"
	StateWritten    State = "written"
	StateFailed     State = "failed"
	StateSkipped    State = "skipped"
)

// Result is the outcome of one pair.
type Result struct {
	Pair  pairing.Pair
	State State
	// Output is the destination path, set once the pair reaches the encoder.
	Output string
	Bytes  int64
	// Duration is the length of the merged audio.
	Duration time.Duration
	// FirstGainDB and SecondGainDB are the gains applied by normalization.
	FirstGainDB  float64
	SecondGainDB float64
	// NormalizeErrs holds clips that were passed through unnormalized.
	NormalizeErrs []error
	Elapsed       time.Duration
	Err           error
}

// Kind returns the error kind label for a failed pair.
func (r Result) Kind() string {
	if r.State != StateFailed {
		return ""
	}
	return Kind(r.Err)
}

// Summary describes a whole run. Results are in pair order.
type Summary struct {
	RunID     string
	FirstDir  string
	SecondDir string
	OutputDir string
	Mismatch  pairing.Mismatch
	Results   []Result
	Started   time.Time
	Elapsed   time.Duration
}

// Written counts pairs that produced an output file.
func (s Summary) Written() int { return s.count(StateWritten) }

// Failed counts pairs that hit a per-pair error.
func (s Summary) Failed() int { return s.count(StateFailed) }

// Skipped counts pairs never completed because the run was interrupted.
func (s Summary) Skipped() int { return s.count(StateSkipped) }

// BytesWritten totals the size of every output file.
func (s Summary) BytesWritten() int64 {
	var total int64
	for _, r := range s.Results {
		if r.State == StateWritten {
			total += r.Bytes
		}
	}
	return total
}

// FailuresByKind groups failed pairs by error kind label.
func (s Summary) FailuresByKind() map[string]int {
	out := make(map[string]int)
	for _, r := range s.Results {
		if r.State == StateFailed {
			out[r.Kind()]++
		}
	}
	return out
}

func (s Summary) count(state State) int {
	n := 0
	for _, r := range s.Results {
		if r.State == state {
			n++
		}
	}
	return n
}
