package host

import (
	"github.com/Rivridis/MelodyKit"
)

// Pool is the realtime sample mixer: an AudioSource summing every live voice
// of every track into the device buffer. Finished voices are removed as part
// of the same pass that mixes them, so a voice never outlives its material.
type Pool struct {
	host    *Host
	scratch melodykit.Buffer
}

// ReadAudio mixes all live voices into buf (interleaved stereo) and returns
// len(buf). The sample table lock is held only while voices are advanced;
// interleaving to the device format happens outside it.
func (p *Pool) ReadAudio(buf []float32) (int, error) {
	frames := len(buf) / 2
	if p.scratch.Frames() < frames {
		p.scratch = melodykit.NewBuffer(2, frames)
	}
	scratch := p.scratch.Slice(0, frames)
	scratch.Clear()

	h := p.host
	h.sampleMu.Lock()
	for id, voices := range h.voices {
		live := voices[:0]
		for _, v := range voices {
			if !v.Mix(scratch, 0, h.sampleRate) {
				live = append(live, v)
			}
		}
		if len(live) == 0 {
			delete(h.voices, id)
		} else {
			h.voices[id] = live
		}
	}
	h.sampleMu.Unlock()

	scratch.ReadInterleaved(buf[:frames*2])
	return len(buf), nil
}
