package wav

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Rivridis/MelodyKit"
)

// Encoder creates WAV writers for rendered mixdowns. It implements
// melodykit.OutputEncoder.
type Encoder struct{}

// Open creates the output file and a writer that converts planar float32
// audio to integer PCM at the requested bit depth. If writing or closing
// fails, the partial file is removed.
func (Encoder) Open(path string, sampleRate, channels, bitDepth int) (melodykit.AudioWriter, error) {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &writer{
		file:     f,
		path:     path,
		enc:      wav.NewEncoder(f, sampleRate, bitDepth, channels, 1),
		bitDepth: bitDepth,
		format:   &audio.Format{NumChannels: channels, SampleRate: sampleRate},
	}, nil
}

type writer struct {
	file     *os.File
	path     string
	enc      *wav.Encoder
	bitDepth int
	format   *audio.Format
}

func (w *writer) Write(buf melodykit.Buffer) error {
	channels := buf.Channels()
	frames := buf.Frames()
	// scale in float64: float32 cannot represent 1<<31-1 and would round a
	// full-scale 32-bit sample past the integer range
	max := float64(int(1)<<(w.bitDepth-1) - 1)
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			v := float64(buf[c][i]) * max
			if v > max {
				v = max
			}
			if v < -max-1 {
				v = -max - 1
			}
			data[i*channels+c] = int(v)
		}
	}
	err := w.enc.Write(&audio.IntBuffer{
		Format:         w.format,
		SourceBitDepth: w.bitDepth,
		Data:           data,
	})
	if err != nil {
		w.discard()
		return err
	}
	return nil
}

func (w *writer) Close() error {
	if w.file == nil {
		return nil
	}
	if err := w.enc.Close(); err != nil {
		w.discard()
		return err
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		os.Remove(w.path)
	}
	return err
}

// discard drops the output so a failed render leaves no partial file.
func (w *writer) discard() {
	if w.file != nil {
		w.file.Close()
		w.file = nil
	}
	os.Remove(w.path)
}
