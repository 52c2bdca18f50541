package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode marks malformed or unreadable input audio.
	ErrDecode = errors.New("decode failed")
	// ErrEncode marks a failure to produce or publish output audio.
	ErrEncode = errors.New("encode failed")
)

// DecodeError wraps a decode failure with the offending file path.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// EncodeError wraps an encode failure with the destination path.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

func (e *EncodeError) Is(target error) bool { return target == ErrEncode }
