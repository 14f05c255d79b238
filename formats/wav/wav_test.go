package wav_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Rivridis/MelodyKit"
	"github.com/Rivridis/MelodyKit/formats"
	"github.com/Rivridis/MelodyKit/formats/wav"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	buf := melodykit.NewBuffer(2, 64)
	for i := 0; i < 64; i++ {
		buf[0][i] = float32(math.Sin(float64(i) * 0.2 * math.Pi))
		buf[1][i] = -buf[0][i] / 2
	}
	writer, err := wav.Encoder{}.Open(path, 44100, 2, 16)
	if err != nil {
		t.Fatalf("error opening encoder: %v", err)
	}
	if err := writer.Write(buf); err != nil {
		t.Fatalf("error writing: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("error closing: %v", err)
	}

	sample, err := formats.Open(path)
	if err != nil {
		t.Fatalf("error decoding: %v", err)
	}
	if sample.Rate() != 44100 || sample.Channels() != 2 || sample.Frames() != 64 {
		t.Fatalf("unexpected decoded shape: %d Hz, %d channels, %d frames", sample.Rate(), sample.Channels(), sample.Frames())
	}
	dst := melodykit.NewBuffer(2, 64)
	melodykit.NewVoice(sample, 1).Mix(dst, 0, 44100)
	for c := 0; c < 2; c++ {
		for i := 0; i < 64; i++ {
			if math.Abs(float64(dst[c][i]-buf[c][i])) > 1.0/32768*2 {
				t.Fatalf("sample %d/%d differs beyond 16-bit tolerance: %v vs %v", c, i, dst[c][i], buf[c][i])
			}
		}
	}
}

func TestEncoder32BitFullScale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "full.wav")
	buf := melodykit.NewBuffer(1, 2)
	buf[0][0] = 1.0
	buf[0][1] = -1.0
	writer, err := wav.Encoder{}.Open(path, 44100, 1, 32)
	if err != nil {
		t.Fatalf("error opening encoder: %v", err)
	}
	if err := writer.Write(buf); err != nil {
		t.Fatalf("error writing: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("error closing: %v", err)
	}
	sample, err := formats.Open(path)
	if err != nil {
		t.Fatalf("error decoding: %v", err)
	}
	dst := melodykit.NewBuffer(1, 2)
	melodykit.NewVoice(sample, 1).Mix(dst, 0, 44100)
	// a full-scale positive sample must clamp to MaxInt32, not wrap negative
	if dst[0][0] < 0.999 {
		t.Fatalf("full-scale positive sample wrapped or lost amplitude: %v", dst[0][0])
	}
	if dst[0][1] > -0.999 {
		t.Fatalf("full-scale negative sample lost amplitude: %v", dst[0][1])
	}
}

func TestEncoderRejectsBadBitDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	if _, err := (wav.Encoder{}).Open(path, 44100, 2, 12); err == nil {
		t.Fatalf("expected error for 12-bit output")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("rejected request must not create a file")
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.xyz")
	if err := os.WriteFile(path, []byte("junk"), 0644); err != nil {
		t.Fatalf("error writing file: %v", err)
	}
	if _, err := formats.Open(path); err == nil {
		t.Fatalf("expected error for unknown extension")
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.wav")
	if err := os.WriteFile(path, []byte("this is not audio"), 0644); err != nil {
		t.Fatalf("error writing file: %v", err)
	}
	if _, err := formats.Open(path); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}
