// Package vorbis decodes Ogg Vorbis files into samples.
package vorbis

import (
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/Rivridis/MelodyKit"
	"github.com/Rivridis/MelodyKit/formats"
)

func init() {
	formats.Register("ogg", decoder{})
	formats.Register("oga", decoder{})
}

type decoder struct{}

func (decoder) Decode(rs io.ReadSeeker) (*melodykit.Sample, error) {
	interleaved, format, err := oggvorbis.ReadAll(rs)
	if err != nil {
		return nil, err
	}
	return melodykit.NewSampleInterleaved(interleaved, format.Channels, format.SampleRate), nil
}
