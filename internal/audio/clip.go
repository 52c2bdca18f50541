package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// BitDepth is the sample width of every Clip.
	BitDepth = 16
	// FullScale is the magnitude used as the 0 dBFS reference.
	FullScale = 32768.0
)

// ErrFormatMismatch indicates two clips cannot be joined without resampling
// or remixing.
var ErrFormatMismatch = errors.New("audio format mismatch")

// FormatMismatchError describes the differing layouts of two clips.
type FormatMismatchError struct {
	FirstRate      int
	SecondRate     int
	FirstChannels  int
	SecondChannels int
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("audio format mismatch: %d Hz/%dch vs %d Hz/%dch",
		e.FirstRate, e.FirstChannels, e.SecondRate, e.SecondChannels)
}

func (e *FormatMismatchError) Is(target error) bool {
	return target == ErrFormatMismatch
}

// Clip is a decoded audio buffer of interleaved signed 16-bit samples.
type Clip struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames (samples per channel).
func (c Clip) Frames() int {
	if c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the playback length of the clip.
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// RMS returns the root mean square of all samples.
func (c Clip) RMS() float64 {
	if len(c.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range c.Samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(c.Samples)))
}

// DBFS returns the clip loudness in decibels relative to full scale.
// A silent or empty clip reports negative infinity.
func (c Clip) DBFS() float64 {
	rms := c.RMS()
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms/FullScale)
}

// ApplyGain returns a copy of the clip scaled by gainDB decibels. Samples
// that would overflow are saturated to the int16 range.
func (c Clip) ApplyGain(gainDB float64) Clip {
	factor := math.Pow(10, gainDB/20)
	out := make([]int16, len(c.Samples))
	for i, s := range c.Samples {
		out[i] = clamp16(math.Round(float64(s) * factor))
	}
	return Clip{Samples: out, SampleRate: c.SampleRate, Channels: c.Channels}
}

// SameFormat reports whether two clips share sample rate and channel count.
func (c Clip) SameFormat(other Clip) bool {
	return c.SampleRate == other.SampleRate && c.Channels == other.Channels
}

func clamp16(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
