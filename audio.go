package melodykit

import "io"

type (
	// AudioSource produces interleaved stereo float32 audio. ReadAudio fills
	// buf completely and returns the number of values written; it is called
	// from the audio goroutine, so implementations should keep their critical
	// sections short.
	AudioSource interface {
		ReadAudio(buf []float32) (int, error)
	}

	// AudioContext abstracts the audio device. Play attaches a source to the
	// device output and returns a handle that detaches it when closed;
	// multiple sources may play concurrently.
	AudioContext interface {
		Play(source AudioSource) (io.Closer, error)
		Close() error
	}

	// AudioWriter writes planar audio to a PCM container. Close flushes and
	// finalizes the file; a writer that fails must not leave a partial file
	// behind.
	AudioWriter interface {
		Write(buffer Buffer) error
		Close() error
	}

	// OutputEncoder creates PCM container writers. Valid bit depths are 16,
	// 24 and 32.
	OutputEncoder interface {
		Open(path string, sampleRate, channels, bitDepth int) (AudioWriter, error)
	}
)
