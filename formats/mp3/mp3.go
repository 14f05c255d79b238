// Package mp3 decodes MP3 files into samples.
package mp3

import (
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/Rivridis/MelodyKit"
	"github.com/Rivridis/MelodyKit/formats"
)

func init() {
	formats.Register("mp3", decoder{})
}

type decoder struct{}

// Decode reads the whole stream. go-mp3 always yields 16-bit little-endian
// stereo PCM regardless of the source layout.
func (decoder) Decode(rs io.ReadSeeker) (*melodykit.Sample, error) {
	d, err := gomp3.NewDecoder(rs)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, err
	}
	frames := len(raw) / 4
	data := [][]float32{make([]float32, frames), make([]float32, frames)}
	for i := 0; i < frames; i++ {
		for c := 0; c < 2; c++ {
			lo := uint16(raw[4*i+2*c])
			hi := uint16(raw[4*i+2*c+1])
			data[c][i] = float32(int16(lo|hi<<8)) / 32768
		}
	}
	return melodykit.NewSample(data, d.SampleRate()), nil
}
