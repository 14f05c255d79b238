package melodykit

type (
	// Sample is an immutable decoded one-shot sample or audio clip: planar
	// PCM data plus the rate it was recorded at. Samples are shared between
	// the sample table and any in-flight voices referencing them; because the
	// data is never mutated after construction, removing a table entry never
	// invalidates playback already in progress.
	Sample struct {
		data [][]float32
		rate int
	}

	// Voice is one playing instance of a Sample with its own fractional
	// playback cursor and gain. A voice is mutated only by the mixer that
	// owns it: the realtime pool advances it once per device callback, the
	// offline mixdown advances it in a single call.
	Voice struct {
		sample *Sample
		pos    float64
		gain   float32
	}
)

// NewSample wraps planar data (channels x frames) recorded at rate. All
// channel slices must have the same length; the caller must not modify the
// data afterwards.
func NewSample(data [][]float32, rate int) *Sample {
	return &Sample{data: data, rate: rate}
}

// NewSampleInterleaved deinterleaves data into a planar sample.
func NewSampleInterleaved(interleaved []float32, channels, rate int) *Sample {
	if channels < 1 {
		channels = 1
	}
	frames := len(interleaved) / channels
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
		for i := 0; i < frames; i++ {
			data[c][i] = interleaved[i*channels+c]
		}
	}
	return &Sample{data: data, rate: rate}
}

func (s *Sample) Channels() int { return len(s.data) }

func (s *Sample) Frames() int {
	if len(s.data) == 0 {
		return 0
	}
	return len(s.data[0])
}

func (s *Sample) Rate() int { return s.rate }

// Duration returns the length of the sample in seconds at its source rate.
func (s *Sample) Duration() float64 {
	if s.rate <= 0 {
		return 0
	}
	return float64(s.Frames()) / float64(s.rate)
}

// maxVoiceGain bounds the gain a single voice may contribute. The clamp is
// applied once at creation, not per sample.
const maxVoiceGain = 4

// NewVoice starts a voice at the beginning of sample with the given gain,
// clamped to [0, 4].
func NewVoice(sample *Sample, gain float32) *Voice {
	if gain < 0 {
		gain = 0
	}
	if gain > maxVoiceGain {
		gain = maxVoiceGain
	}
	return &Voice{sample: sample, gain: gain}
}

// Position returns the fractional source-frame cursor of the voice.
func (v *Voice) Position() float64 { return v.pos }

// Finished reports whether the voice has consumed its source material.
func (v *Voice) Finished() bool {
	return v.sample == nil || int(v.pos) >= v.sample.Frames()
}

// Mix advances the voice into dst starting at the given destination frame
// offset, resampling from the source rate to sampleRate with linear
// interpolation and adding (never overwriting) the result scaled by the
// voice gain. A mono source is replicated to all destination channels; a
// multi-channel source maps destination channel c to source channel
// min(c, channels-1). A missing trailing neighbour interpolates against
// zero. Mix returns true once the voice has consumed its source and will
// produce no further output.
func (v *Voice) Mix(dst Buffer, offset int, sampleRate int) bool {
	if v.sample == nil || sampleRate <= 0 {
		return true
	}
	srcFrames := v.sample.Frames()
	srcChannels := v.sample.Channels()
	if srcFrames == 0 || srcChannels == 0 {
		return true
	}
	ratio := float64(v.sample.rate) / float64(sampleRate)
	frames := dst.Frames()
	for i := offset; i < frames; i++ {
		idx := int(v.pos)
		if idx >= srcFrames {
			return true
		}
		frac := float32(v.pos - float64(idx))
		for c := range dst {
			srcCh := c
			if srcCh >= srcChannels {
				srcCh = srcChannels - 1
			}
			s0 := v.sample.data[srcCh][idx]
			var s1 float32
			if idx+1 < srcFrames {
				s1 = v.sample.data[srcCh][idx+1]
			}
			dst[c][i] += ((1-frac)*s0 + frac*s1) * v.gain
		}
		v.pos += ratio
	}
	return int(v.pos) >= srcFrames
}
