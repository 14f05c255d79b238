// Package wav decodes WAV files into samples and provides the WAV output
// encoder used for mixdowns.
package wav

import (
	"errors"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Rivridis/MelodyKit"
	"github.com/Rivridis/MelodyKit/formats"
)

// ErrNotWavFile is returned when the input does not carry a RIFF/WAVE
// header.
var ErrNotWavFile = errors.New("not a wav file")

func init() {
	formats.Register("wav", decoder{})
}

type decoder struct{}

func (decoder) Decode(rs io.ReadSeeker) (*melodykit.Sample, error) {
	d := wav.NewDecoder(rs)
	if !d.IsValidFile() {
		return nil, ErrNotWavFile
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	return fromPCMBuffer(buf, int(d.BitDepth))
}

// fromPCMBuffer converts an integer PCM buffer to planar float32 scaled to
// [-1, 1] by the nominal full-scale value of its bit depth.
func fromPCMBuffer(buf *audio.IntBuffer, bitDepth int) (*melodykit.Sample, error) {
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, errors.New("missing format information")
	}
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	scale := float32(int(1) << (bitDepth - 1))
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			data[c][i] = float32(buf.Data[i*channels+c]) / scale
		}
	}
	return melodykit.NewSample(data, buf.Format.SampleRate), nil
}
