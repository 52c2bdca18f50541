package merge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"pairmerge/internal/audio"
	"pairmerge/internal/codec"
)

// ErrRunLocked reports that another run holds the output directory lock.
var ErrRunLocked = errors.New("output directory is locked by another run")

var errPairPanic = errors.New("pair pipeline panicked")

// Stage names the step of the pair pipeline.
type Stage string

const (
	StageDecode    Stage = "decode"
	StageNormalize Stage = "normalize"
	StageMerge     Stage = "merge"
	StageEncode    Stage = "encode"
)

// Error kind labels used in logs and the summary table.
const (
	KindDecode = "decode"
	KindFormat = "format"
	KindEncode = "encode"
	KindOther  = "other"
)

// StageError records which pair failed at which stage.
type StageError struct {
	Stage  Stage
	Index  int
	First  string
	Second string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pair %d (%s + %s): %s: %v",
		e.Index, filepath.Base(e.First), filepath.Base(e.Second), e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Kind classifies err into one of the Kind* labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, codec.ErrDecode):
		return KindDecode
	case errors.Is(err, audio.ErrFormatMismatch):
		return KindFormat
	case errors.Is(err, codec.ErrEncode):
		return KindEncode
	default:
		return KindOther
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
