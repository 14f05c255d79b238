package melodykit

import "github.com/viterin/vek/vek32"

// Buffer is a planar float32 audio buffer: one slice per channel, all of the
// same length. Rendering and mixdown work on planar buffers; interleaving
// happens only at the edges (event-driven engine chunks and device output).
type Buffer [][]float32

// NewBuffer returns a zeroed buffer of channels x frames.
func NewBuffer(channels, frames int) Buffer {
	b := make(Buffer, channels)
	for c := range b {
		b[c] = make([]float32, frames)
	}
	return b
}

func (b Buffer) Channels() int { return len(b) }

func (b Buffer) Frames() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// Clear zeroes all samples.
func (b Buffer) Clear() {
	for _, ch := range b {
		clear(ch)
	}
}

// Add accumulates other into b. Both buffers must have the same shape.
// Mixing is plain addition, so the order in which buffers are accumulated
// does not affect the result.
func (b Buffer) Add(other Buffer) {
	for c := range b {
		vek32.Add_Inplace(b[c], other[c])
	}
}

// ApplyGain multiplies every sample by gain.
func (b Buffer) ApplyGain(gain float32) {
	if gain == 1 {
		return
	}
	for _, ch := range b {
		vek32.MulNumber_Inplace(ch, gain)
	}
}

// Peak returns the largest absolute sample magnitude in the buffer.
func (b Buffer) Peak() float32 {
	var peak float32
	for _, ch := range b {
		if len(ch) == 0 {
			continue
		}
		if m := vek32.Max(ch); m > peak {
			peak = m
		}
		if m := -vek32.Min(ch); m > peak {
			peak = m
		}
	}
	return peak
}

// Normalize scales the whole buffer down so that its peak equals ceiling,
// but only if the current peak exceeds ceiling; quieter material is left
// untouched. It returns the gain that was applied (1 if unchanged).
func (b Buffer) Normalize(ceiling float32) float32 {
	peak := b.Peak()
	if peak <= ceiling {
		return 1
	}
	gain := ceiling / peak
	b.ApplyGain(gain)
	return gain
}

// Slice returns a view of frames [from, to) sharing the underlying storage,
// used to process one block of a longer buffer in place.
func (b Buffer) Slice(from, to int) Buffer {
	view := make(Buffer, len(b))
	for c := range b {
		view[c] = b[c][from:to]
	}
	return view
}

// SetInterleaved copies interleaved frames into the buffer starting at the
// given frame offset, deinterleaving into the planar channels.
func (b Buffer) SetInterleaved(offset int, interleaved []float32) {
	channels := len(b)
	if channels == 0 {
		return
	}
	frames := len(interleaved) / channels
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			b[c][offset+i] = interleaved[i*channels+c]
		}
	}
}

// Interleaved returns a new interleaved copy of the buffer.
func (b Buffer) Interleaved() []float32 {
	channels := len(b)
	frames := b.Frames()
	out := make([]float32, frames*channels)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			out[i*channels+c] = b[c][i]
		}
	}
	return out
}

// ReadInterleaved interleaves the buffer into dst, which must hold
// Frames()*Channels() values. It avoids the allocation of Interleaved.
func (b Buffer) ReadInterleaved(dst []float32) {
	channels := len(b)
	frames := b.Frames()
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			dst[i*channels+c] = b[c][i]
		}
	}
}
