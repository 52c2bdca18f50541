package testsupport

import (
	"context"
	"math/rand/v2"
	"strings"

	"pairmerge/internal/codec"
)

// mp3FrameHeader is an MPEG-1 Layer III header: 128 kbps, 44.1 kHz, stereo.
var mp3FrameHeader = []byte{0xFF, 0xFB, 0x90, 0x00}

// MalformedMP3 returns a buffer that starts with a plausible frame header
// followed by seeded random bytes. The same seed always yields the same bytes.
func MalformedMP3(seed uint64) []byte {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	size := 64 + rng.IntN(2048)
	buf := make([]byte, len(mp3FrameHeader)+size)
	copy(buf, mp3FrameHeader)
	for i := len(mp3FrameHeader); i < len(buf); i++ {
		buf[i] = byte(rng.UintN(256))
	}
	return buf
}

// TruncatedMP3 returns a frame header cut off before its side information.
func TruncatedMP3() []byte {
	return append(append([]byte(nil), mp3FrameHeader...), 0x00, 0x00, 0x00)
}

// PanickingMP3 searches seeded malformed buffers for one that makes go-mp3
// panic inside codec.DecodeBytes. ok is false when none of the first limit
// seeds does.
func PanickingMP3(limit int) (data []byte, ok bool) {
	for seed := range uint64(limit) {
		buf := MalformedMP3(seed)
		_, err := codec.DecodeBytes(context.Background(), buf)
		if err != nil && strings.Contains(err.Error(), codec.DecoderPanicPrefix) {
			return buf, true
		}
	}
	return nil, false
}
