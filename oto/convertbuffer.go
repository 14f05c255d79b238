package oto

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/Rivridis/MelodyKit"
)

// sourceReader adapts an AudioSource to the io.Reader oto/v3 pulls from,
// converting float32 samples to their little-endian byte representation.
type sourceReader struct {
	source  melodykit.AudioSource
	scratch []float32
}

func (r *sourceReader) Read(p []byte) (int, error) {
	floats := len(p) / 4
	floats -= floats % 2 // keep whole stereo frames
	if floats == 0 {
		return 0, io.ErrShortBuffer
	}
	if cap(r.scratch) < floats {
		r.scratch = make([]float32, floats)
	}
	buf := r.scratch[:floats]
	n, err := r.source.ReadAudio(buf)
	if err != nil {
		return 0, err
	}
	for i, v := range buf[:n] {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}
	return n * 4, nil
}
