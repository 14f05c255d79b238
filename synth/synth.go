// Package synth is a small built-in polyphonic synthesizer: sine oscillators
// with an exponential decay envelope. It exists so projects render and play
// without any external plugin or soundfont, and it doubles as the reference
// implementation of the EventDrivenEngine interface.
package synth

import (
	"math"
	"sync"
)

const (
	// maxVoices bounds polyphony; the oldest voice is stolen beyond it.
	maxVoices = 32

	// killLevel is the envelope level below which a voice is dropped.
	killLevel = 1e-4

	// outputGain keeps a full chord well below clipping.
	outputGain = 0.2
)

type (
	// Synth implements melodykit.EventDrivenEngine and, for live use,
	// melodykit.AudioSource. Its own lock makes the two usable concurrently.
	Synth struct {
		mu         sync.Mutex
		sampleRate int
		voices     []*voice
		serial     uint64
		decay      float64 // seconds to fall to ~37%
	}

	voice struct {
		channel, note int
		phase         float64
		step          float64
		env           float64
		decayPerFrame float64
		released      bool
		serial        uint64
	}
)

// New creates a synth at the given output rate with a decay time constant of
// half a second.
func New(sampleRate int) *Synth {
	s := &Synth{decay: 0.5}
	s.ConfigureOutput(sampleRate)
	return s
}

func (s *Synth) ConfigureOutput(sampleRate int) {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sampleRate = sampleRate
	s.voices = s.voices[:0]
}

func (s *Synth) NoteOn(channel, note int, velocity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if velocity <= 0 {
		return
	}
	if velocity > 1 {
		velocity = 1
	}
	if len(s.voices) >= maxVoices {
		oldest := 0
		for i, v := range s.voices {
			if v.serial < s.voices[oldest].serial {
				oldest = i
			}
		}
		s.voices = append(s.voices[:oldest], s.voices[oldest+1:]...)
	}
	freq := 440 * math.Pow(2, float64(note-69)/12)
	s.serial++
	s.voices = append(s.voices, &voice{
		channel:       channel,
		note:          note,
		step:          2 * math.Pi * freq / float64(s.sampleRate),
		env:           velocity,
		decayPerFrame: math.Exp(-1 / (s.decay * float64(s.sampleRate))),
		serial:        s.serial,
	})
}

// NoteOff releases the newest matching voice. Released voices keep decaying
// at a much faster rate instead of stopping abruptly.
func (s *Synth) NoteOff(channel, note int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.voices) - 1; i >= 0; i-- {
		v := s.voices[i]
		if v.channel == channel && v.note == note && !v.released {
			v.released = true
			v.decayPerFrame = math.Exp(-1 / (0.05 * float64(s.sampleRate)))
			return
		}
	}
}

func (s *Synth) AllNotesOff(channel int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voices {
		if v.channel == channel && !v.released {
			v.released = true
			v.decayPerFrame = math.Exp(-1 / (0.05 * float64(s.sampleRate)))
		}
	}
}

// RenderInterleaved synthesizes the next frames as interleaved stereo.
func (s *Synth) RenderInterleaved(frames int) []float32 {
	out := make([]float32, frames*2)
	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.voices[:0]
	for _, v := range s.voices {
		for i := 0; i < frames; i++ {
			sample := float32(math.Sin(v.phase) * v.env * outputGain)
			out[2*i] += sample
			out[2*i+1] += sample
			v.phase += v.step
			v.env *= v.decayPerFrame
		}
		if v.env >= killLevel {
			live = append(live, v)
		}
	}
	s.voices = live
	return out
}

// ReadAudio implements melodykit.AudioSource so the synth can be attached
// directly to an audio device for live playing.
func (s *Synth) ReadAudio(buf []float32) (int, error) {
	copy(buf, s.RenderInterleaved(len(buf)/2))
	return len(buf), nil
}
