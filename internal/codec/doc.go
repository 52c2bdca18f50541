// Package codec turns MP3 files into audio.Clip values and back.
//
// Decoding is pure Go (github.com/hajimehoshi/go-mp3) and always yields
// 16-bit stereo PCM at the file's native sample rate. Encoding shells out to
// ffmpeg with libmp3lame and publishes the result atomically, so an
// interrupted encode never leaves a truncated MP3 behind.
//
// Failures are reported as *DecodeError or *EncodeError, which match the
// ErrDecode and ErrEncode sentinels through errors.Is.
package codec
