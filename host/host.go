// Package host ties the engine together: it owns the per-track synthesis
// backends, the sample table with its realtime voice pool, live note playback
// with scheduled note-offs, and the offline mixdown renderer.
package host

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Rivridis/MelodyKit"
	"github.com/Rivridis/MelodyKit/formats"
)

const (
	defaultSampleRate = 44100
	defaultBlockSize  = 512
)

type (
	// Host is the central coordinator. It is safe for concurrent use; the
	// track table and the sample table are guarded by separate locks so an
	// offline render holding the track table never stalls the audio callback
	// mixing sample voices.
	Host struct {
		mu     sync.Mutex // guards tracks
		tracks map[string]*track

		sampleMu sync.Mutex // guards samples and voices
		samples  map[string]map[string]*melodykit.Sample
		voices   map[string][]*melodykit.Voice

		sampleRate int
		blockSize  int

		playback io.Closer
		pool     *Pool
	}

	track struct {
		processor melodykit.ContinuousProcessor
		engine    melodykit.EventDrivenEngine
		gain      float32
		releases  map[noteKey]*time.Timer
	}

	noteKey struct {
		channel, note int
	}
)

// NewHost creates a host with the given output rate and render block size;
// zero values select 44100 Hz and 512 frames.
func NewHost(sampleRate, blockSize int) *Host {
	if sampleRate <= 0 {
		sampleRate = defaultSampleRate
	}
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	h := &Host{
		tracks:     map[string]*track{},
		samples:    map[string]map[string]*melodykit.Sample{},
		voices:     map[string][]*melodykit.Voice{},
		sampleRate: sampleRate,
		blockSize:  blockSize,
	}
	h.pool = &Pool{host: h}
	return h
}

// SampleRate returns the live output rate of the host.
func (h *Host) SampleRate() int { return h.sampleRate }

// Pool returns the realtime voice pool, an AudioSource mixing all triggered
// sample voices. Attach it to an AudioContext to hear triggered samples.
func (h *Host) Pool() *Pool { return h.pool }

// SetContinuousBackend installs a block-based backend on a track, creating
// the track if needed. A track holds at most one backend; any previous
// backend is displaced and its pending note-offs are cancelled, since they
// were scheduled against the old backend's voices.
func (h *Host) SetContinuousBackend(id string, p melodykit.ContinuousProcessor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t := h.track(id)
	t.cancelReleases()
	t.processor = p
	t.engine = nil
	if p != nil {
		p.Prepare(h.sampleRate, h.blockSize)
	}
}

// SetEventDrivenBackend installs a note-triggered backend on a track,
// creating the track if needed and displacing any previous backend.
func (h *Host) SetEventDrivenBackend(id string, e melodykit.EventDrivenEngine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t := h.track(id)
	t.cancelReleases()
	t.processor = nil
	t.engine = e
	if e != nil {
		e.ConfigureOutput(h.sampleRate)
	}
}

// RemoveTrack drops a track and its backend. Sample rows loaded for the
// track stay in the sample table.
func (h *Host) RemoveTrack(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.tracks[id]; ok {
		t.cancelReleases()
		if t.processor != nil {
			t.processor.Release()
		}
		delete(h.tracks, id)
	}
}

// SetTrackVolume sets a track's volume from a MIDI value 0-127; 64 is unity
// gain, 127 is just under double. The gain is applied once per mixdown, after
// the track has rendered.
func (h *Host) SetTrackVolume(id string, value int) error {
	if value < 0 || value > 127 {
		return fmt.Errorf("volume %d out of range 0-127", value)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.track(id).gain = float32(value) / 64
	return nil
}

// PlayNote triggers a note on a track's event-driven backend immediately and
// schedules its note-off duration seconds later. A retrigger of the same
// (channel, note) pair replaces the pending note-off, so overlapping plays
// never cut each other short with a stale release.
func (h *Host) PlayNote(id string, channel, note int, velocity float64, duration time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tracks[id]
	if !ok || t.engine == nil {
		return fmt.Errorf("track %q has no event-driven backend", id)
	}
	key := noteKey{channel: channel, note: note}
	if timer, ok := t.releases[key]; ok {
		timer.Stop()
	}
	t.engine.NoteOn(channel, note, velocity)
	engine := t.engine
	t.releases[key] = time.AfterFunc(duration, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if cur, ok := h.tracks[id]; ok && cur.engine == engine {
			delete(cur.releases, key)
			engine.NoteOff(channel, note)
		}
	})
	return nil
}

// AllNotesOff silences a track's event-driven backend, cancelling every
// pending note-off. An empty id silences all tracks.
func (h *Host) AllNotesOff(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for tid, t := range h.tracks {
		if id != "" && tid != id {
			continue
		}
		t.cancelReleases()
		if t.engine != nil {
			for ch := 1; ch <= 16; ch++ {
				t.engine.AllNotesOff(ch)
			}
		}
	}
}

// LoadSample decodes an audio file and stores it in a track's sample table
// under the given row identifier, replacing any previous row content.
func (h *Host) LoadSample(trackID, rowID, path string) error {
	sample, err := formats.Open(path)
	if err != nil {
		return fmt.Errorf("loading sample %q: %w", path, err)
	}
	h.AddSample(trackID, rowID, sample)
	return nil
}

// AddSample stores an already decoded sample in a track's sample table.
func (h *Host) AddSample(trackID, rowID string, sample *melodykit.Sample) {
	h.sampleMu.Lock()
	defer h.sampleMu.Unlock()
	rows, ok := h.samples[trackID]
	if !ok {
		rows = map[string]*melodykit.Sample{}
		h.samples[trackID] = rows
	}
	rows[rowID] = sample
}

// TriggerSample starts a new voice playing a sample table row at the given
// gain (clamped to [0, 4]). Voices mix additively, so triggering the same
// row twice overlaps rather than restarting.
func (h *Host) TriggerSample(trackID, rowID string, gain float32) error {
	h.sampleMu.Lock()
	defer h.sampleMu.Unlock()
	sample, ok := h.samples[trackID][rowID]
	if !ok {
		return fmt.Errorf("no sample at track %q row %q", trackID, rowID)
	}
	h.voices[trackID] = append(h.voices[trackID], melodykit.NewVoice(sample, gain))
	return nil
}

// ClearRow removes one row from a track's sample table. Voices already
// playing the sample keep going; the sample data is immutable and shared.
func (h *Host) ClearRow(trackID, rowID string) {
	h.sampleMu.Lock()
	defer h.sampleMu.Unlock()
	delete(h.samples[trackID], rowID)
}

// ClearTrack removes all rows of a track's sample table, again leaving
// in-flight voices playing to completion.
func (h *Host) ClearTrack(trackID string) {
	h.sampleMu.Lock()
	defer h.sampleMu.Unlock()
	delete(h.samples, trackID)
}

// Start attaches the realtime voice pool to an audio context, so triggered
// samples become audible. Stop detaches it again.
func (h *Host) Start(ctx melodykit.AudioContext) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.playback != nil {
		return fmt.Errorf("already started")
	}
	closer, err := ctx.Play(h.pool)
	if err != nil {
		return fmt.Errorf("starting playback: %w", err)
	}
	h.playback = closer
	return nil
}

// Stop detaches the voice pool from the audio device and drops all pending
// note-offs and live voices, so teardown is deterministic.
func (h *Host) Stop() error {
	h.mu.Lock()
	for _, t := range h.tracks {
		t.cancelReleases()
	}
	playback := h.playback
	h.playback = nil
	h.mu.Unlock()

	h.sampleMu.Lock()
	h.voices = map[string][]*melodykit.Voice{}
	h.sampleMu.Unlock()

	if playback != nil {
		return playback.Close()
	}
	return nil
}

// track returns the table entry for id, creating it at unity gain. The
// caller must hold mu.
func (h *Host) track(id string) *track {
	t, ok := h.tracks[id]
	if !ok {
		t = &track{gain: 1, releases: map[noteKey]*time.Timer{}}
		h.tracks[id] = t
	}
	return t
}

func (t *track) cancelReleases() {
	for key, timer := range t.releases {
		timer.Stop()
		delete(t.releases, key)
	}
}
