package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"pairmerge/internal/audio"
)

// go-mp3 always emits signed 16-bit little-endian stereo.
const (
	decodedChannels = 2
	bytesPerSample  = audio.BitDepth / 8
	readChunk       = 64 * 1024
)

// pcmStream is the part of *mp3.Decoder DecodeBytes reads from.
type pcmStream interface {
	io.Reader
	Length() int64
	SampleRate() int
}

// DecoderPanicPrefix starts the error returned when go-mp3 panics.
const DecoderPanicPrefix = "mp3 decoder panic"

var newPCMStream = func(r io.Reader) (pcmStream, error) {
	return mp3.NewDecoder(r)
}

// MP3Decoder decodes MP3 files in process.
type MP3Decoder struct{}

// NewMP3Decoder returns a decoder backed by go-mp3.
func NewMP3Decoder() *MP3Decoder {
	return &MP3Decoder{}
}

// Decode reads and decodes the MP3 file at path.
func (MP3Decoder) Decode(ctx context.Context, path string) (audio.Clip, error) {
	if err := ctx.Err(); err != nil {
		return audio.Clip{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return audio.Clip{}, &DecodeError{Path: path, Err: err}
	}
	clip, err := DecodeBytes(ctx, data)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return audio.Clip{}, err
		}
		return audio.Clip{}, &DecodeError{Path: path, Err: err}
	}
	return clip, nil
}

// DecodeBytes decodes an in-memory MP3 stream. go-mp3 indexes past the end
// of its buffers on some malformed frames; those panics come back as errors.
func DecodeBytes(ctx context.Context, data []byte) (clip audio.Clip, err error) {
	defer func() {
		if p := recover(); p != nil {
			clip, err = audio.Clip{}, fmt.Errorf("%s: %v", DecoderPanicPrefix, p)
		}
	}()

	decoder, err := newPCMStream(bytes.NewReader(data))
	if err != nil {
		return audio.Clip{}, err
	}

	var pcm bytes.Buffer
	if length := decoder.Length(); length > 0 {
		pcm.Grow(int(length))
	}
	buf := make([]byte, readChunk)
	for {
		if err := ctx.Err(); err != nil {
			return audio.Clip{}, err
		}
		n, err := decoder.Read(buf)
		pcm.Write(buf[:n])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return audio.Clip{}, err
		}
	}

	raw := pcm.Bytes()
	frameBytes := decodedChannels * bytesPerSample
	raw = raw[:len(raw)-len(raw)%frameBytes]
	if len(raw) == 0 {
		return audio.Clip{}, errors.New("stream contains no audio frames")
	}

	samples := make([]int16, len(raw)/bytesPerSample)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*bytesPerSample:]))
	}
	return audio.Clip{
		Samples:    samples,
		SampleRate: decoder.SampleRate(),
		Channels:   decodedChannels,
	}, nil
}
