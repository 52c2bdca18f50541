package testsupport

import (
	"math"

	"pairmerge/internal/audio"
)

// SineClip builds an interleaved clip holding a sine tone of the given peak
// amplitude on every channel.
func SineClip(sampleRate, channels int, freq, amplitude float64, frames int) audio.Clip {
	samples := make([]int16, frames*channels)
	for i := 0; i < frames; i++ {
		v := int16(math.Round(amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))))
		for ch := 0; ch < channels; ch++ {
			samples[i*channels+ch] = v
		}
	}
	return audio.Clip{Samples: samples, SampleRate: sampleRate, Channels: channels}
}

// SineClipAt builds a sine clip whose measured loudness is approximately
// dbfs. The tone frequency divides the sample rate so the clip spans whole
// periods.
func SineClipAt(sampleRate, channels int, dbfs float64, frames int) audio.Clip {
	rms := audio.FullScale * math.Pow(10, dbfs/20)
	return SineClip(sampleRate, channels, float64(sampleRate)/100, rms*math.Sqrt2, frames)
}

// SilentClip builds a clip of zero-valued samples.
func SilentClip(sampleRate, channels, frames int) audio.Clip {
	return audio.Clip{Samples: make([]int16, frames*channels), SampleRate: sampleRate, Channels: channels}
}

// RampClip builds a clip whose samples count upward from start, which makes
// ordering errors easy to spot.
func RampClip(sampleRate, channels, frames int, start int16) audio.Clip {
	samples := make([]int16, frames*channels)
	for i := range samples {
		samples[i] = start + int16(i)
	}
	return audio.Clip{Samples: samples, SampleRate: sampleRate, Channels: channels}
}
