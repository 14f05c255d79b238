package melodykit

type (
	// ContinuousProcessor is a block-based synthesis backend, e.g. a hosted
	// plugin. The renderer prepares it for a rate and block size, marks it
	// offline, and then feeds it fixed-size blocks together with the events
	// falling inside each block; event positions are relative to the block
	// start. Prepare may be called again after Release to restore the
	// processor for live use.
	ContinuousProcessor interface {
		Prepare(sampleRate, blockSize int)
		SetOffline(offline bool)
		Process(block Buffer, events []TimelineEvent)
		Release()
	}

	// EventDrivenEngine is a note-triggered synthesis backend, e.g. a
	// soundfont synthesizer. It renders interleaved stereo frames on demand
	// and receives note events between render calls, so the renderer can
	// place every event exactly on its sample boundary by bounding the chunk
	// length with the distance to the next event.
	EventDrivenEngine interface {
		ConfigureOutput(sampleRate int)
		NoteOn(channel, note int, velocity float64)
		NoteOff(channel, note int)
		RenderInterleaved(frames int) []float32
		AllNotesOff(channel int)
	}
)
