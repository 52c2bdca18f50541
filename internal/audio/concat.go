package audio

// Concat returns a clip whose samples are first's samples immediately
// followed by second's. Both clips must share sample rate and channel count;
// no resampling or remixing is attempted.
func Concat(first, second Clip) (Clip, error) {
	if !first.SameFormat(second) {
		return Clip{}, &FormatMismatchError{
			FirstRate:      first.SampleRate,
			SecondRate:     second.SampleRate,
			FirstChannels:  first.Channels,
			SecondChannels: second.Channels,
		}
	}
	samples := make([]int16, 0, len(first.Samples)+len(second.Samples))
	samples = append(samples, first.Samples...)
	samples = append(samples, second.Samples...)
	return Clip{Samples: samples, SampleRate: first.SampleRate, Channels: first.Channels}, nil
}
