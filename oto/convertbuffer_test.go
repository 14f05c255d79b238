package oto

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
)

type sliceSource struct {
	values []float32
}

func (s *sliceSource) ReadAudio(buf []float32) (int, error) {
	return copy(buf, s.values), nil
}

func TestSourceReaderConvertsFloats(t *testing.T) {
	r := &sourceReader{source: &sliceSource{values: []float32{0.5, -0.25}}}
	p := make([]byte, 8)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes for one stereo frame, got %d", n)
	}
	left := math.Float32frombits(binary.LittleEndian.Uint32(p[0:4]))
	right := math.Float32frombits(binary.LittleEndian.Uint32(p[4:8]))
	if left != 0.5 || right != -0.25 {
		t.Fatalf("expected 0.5/-0.25, got %v/%v", left, right)
	}
}

func TestSourceReaderTruncatesToWholeFrames(t *testing.T) {
	r := &sourceReader{source: &sliceSource{values: []float32{0.5, -0.25}}}
	p := make([]byte, 13) // room for one frame plus change
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected one whole stereo frame, got %d bytes", n)
	}
}

func TestSourceReaderShortBuffer(t *testing.T) {
	r := &sourceReader{source: &sliceSource{}}
	// a buffer too small for one stereo frame must not report progress with
	// a nil error, which would spin the consumer
	if _, err := r.Read(make([]byte, 7)); err != io.ErrShortBuffer {
		t.Fatalf("expected io.ErrShortBuffer, got %v", err)
	}
}
