package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"pairmerge/internal/audio"
	"pairmerge/internal/fileutil"
)

var commandContext = exec.CommandContext

const (
	// DefaultFFmpegBinary is resolved from PATH when no override is configured.
	DefaultFFmpegBinary = "ffmpeg"
	// DefaultBitrate is the libmp3lame constant bitrate.
	DefaultBitrate = "192k"
)

// EncoderOption configures the FFmpeg encoder.
type EncoderOption func(*FFmpegEncoder)

// WithBinary overrides the ffmpeg executable.
func WithBinary(binary string) EncoderOption {
	return func(e *FFmpegEncoder) {
		if strings.TrimSpace(binary) != "" {
			e.binary = strings.TrimSpace(binary)
		}
	}
}

// WithBitrate overrides the output bitrate (ffmpeg syntax, e.g. "128k").
func WithBitrate(bitrate string) EncoderOption {
	return func(e *FFmpegEncoder) {
		if strings.TrimSpace(bitrate) != "" {
			e.bitrate = strings.TrimSpace(bitrate)
		}
	}
}

// FFmpegEncoder writes clips as MP3 by piping raw PCM into ffmpeg.
type FFmpegEncoder struct {
	binary  string
	bitrate string
}

// NewFFmpegEncoder constructs an encoder with defaults applied.
func NewFFmpegEncoder(opts ...EncoderOption) *FFmpegEncoder {
	e := &FFmpegEncoder{binary: DefaultFFmpegBinary, bitrate: DefaultBitrate}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Binary returns the ffmpeg executable the encoder will run.
func (e *FFmpegEncoder) Binary() string {
	return e.binary
}

// Encode writes clip to dest as MP3 and returns the size of the published file.
func (e *FFmpegEncoder) Encode(ctx context.Context, clip audio.Clip, dest string) (int64, error) {
	if strings.TrimSpace(dest) == "" {
		return 0, &EncodeError{Path: dest, Err: errors.New("empty destination path")}
	}
	if clip.SampleRate <= 0 || clip.Channels <= 0 {
		return 0, &EncodeError{Path: dest, Err: fmt.Errorf("invalid format %d Hz/%dch", clip.SampleRate, clip.Channels)}
	}
	if len(clip.Samples) == 0 {
		return 0, &EncodeError{Path: dest, Err: errors.New("clip has no samples")}
	}

	pcm := SamplesToBytes(clip.Samples)
	size, err := fileutil.AtomicWriteFile(dest, 0o644, func(tmpPath string) error {
		cmd := commandContext(ctx, e.binary, e.args(clip, tmpPath)...) //nolint:gosec
		cmd.Stdin = bytes.NewReader(pcm)
		if output, err := cmd.CombinedOutput(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("ffmpeg encode: %w", ctxErr)
			}
			return fmt.Errorf("ffmpeg encode: %w: %s", err, strings.TrimSpace(string(output)))
		}
		return nil
	})
	if err != nil {
		return 0, &EncodeError{Path: dest, Err: err}
	}
	return size, nil
}

func (e *FFmpegEncoder) args(clip audio.Clip, output string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "s16le",
		"-ar", strconv.Itoa(clip.SampleRate),
		"-ac", strconv.Itoa(clip.Channels),
		"-i", "pipe:0",
		"-c:a", "libmp3lame",
		"-b:a", e.bitrate,
		"-f", "mp3",
		output,
	}
}

// SamplesToBytes converts int16 samples to little-endian bytes.
func SamplesToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*bytesPerSample:], uint16(s))
	}
	return buf
}
