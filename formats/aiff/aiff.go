// Package aiff decodes AIFF files into samples.
package aiff

import (
	"errors"
	"io"

	"github.com/go-audio/aiff"

	"github.com/Rivridis/MelodyKit"
	"github.com/Rivridis/MelodyKit/formats"
)

// ErrNotAiffFile is returned when the input does not carry a FORM/AIFF
// header.
var ErrNotAiffFile = errors.New("not an aiff file")

func init() {
	formats.Register("aiff", decoder{})
	formats.Register("aif", decoder{})
}

type decoder struct{}

func (decoder) Decode(rs io.ReadSeeker) (*melodykit.Sample, error) {
	d := aiff.NewDecoder(rs)
	if !d.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, errors.New("missing format information")
	}
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	scale := float32(int(1) << (int(d.BitDepth) - 1))
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
