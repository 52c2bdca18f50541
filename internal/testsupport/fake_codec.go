package testsupport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"pairmerge/internal/audio"
	"pairmerge/internal/codec"
	"pairmerge/internal/fileutil"
)

// FakeCodec decodes from an in-memory table keyed by path and records every
// clip it is asked to encode. Encoded files contain a short text marker.
type FakeCodec struct {
	mu         sync.Mutex
	clips      map[string]audio.Clip
	decodeErrs map[string]error
	encodeErrs map[string]error
	encoded    map[string]audio.Clip

	// DecodeHook, when set, runs before every decode. A non-nil error is
	// returned unchanged.
	DecodeHook func(ctx context.Context, path string) error
}

// NewFakeCodec returns an empty FakeCodec.
func NewFakeCodec() *FakeCodec {
	return &FakeCodec{
		clips:      make(map[string]audio.Clip),
		decodeErrs: make(map[string]error),
		encodeErrs: make(map[string]error),
		encoded:    make(map[string]audio.Clip),
	}
}

// Add registers the clip returned for path.
func (f *FakeCodec) Add(path string, clip audio.Clip) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clips[path] = clip
}

// FailDecode makes decoding path fail as corrupt input.
func (f *FakeCodec) FailDecode(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decodeErrs[path] = errors.New("invalid frame header")
}

// FailEncode makes encoding to dest fail.
func (f *FakeCodec) FailEncode(dest string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.encodeErrs[dest] = errors.New("encoder exited with status 1")
}

// Encoded returns the clip last written to dest.
func (f *FakeCodec) Encoded(dest string) (audio.Clip, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clip, ok := f.encoded[dest]
	return clip, ok
}

// EncodedCount reports how many outputs were written.
func (f *FakeCodec) EncodedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.encoded)
}

func (f *FakeCodec) Decode(ctx context.Context, path string) (audio.Clip, error) {
	if f.DecodeHook != nil {
		if err := f.DecodeHook(ctx, path); err != nil {
			return audio.Clip{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return audio.Clip{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.decodeErrs[path]; ok {
		return audio.Clip{}, &codec.DecodeError{Path: path, Err: err}
	}
	clip, ok := f.clips[path]
	if !ok {
		return audio.Clip{}, &codec.DecodeError{Path: path, Err: errors.New("no clip registered")}
	}
	return clip, nil
}

func (f *FakeCodec) Encode(ctx context.Context, clip audio.Clip, dest string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &codec.EncodeError{Path: dest, Err: err}
	}
	f.mu.Lock()
	failure, fail := f.encodeErrs[dest]
	f.mu.Unlock()
	if fail {
		return 0, &codec.EncodeError{Path: dest, Err: failure}
	}

	size, err := fileutil.AtomicWrite(dest, 0o644, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "FAKEMP3 %d Hz %dch %d frames\n", clip.SampleRate, clip.Channels, clip.Frames())
		return err
	})
	if err != nil {
		return 0, &codec.EncodeError{Path: dest, Err: err}
	}
	f.mu.Lock()
	f.encoded[dest] = clip
	f.mu.Unlock()
	return size, nil
}
