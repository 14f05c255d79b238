package host

import (
	"fmt"
	"log"
	"sort"

	"github.com/Rivridis/MelodyKit"
	"github.com/Rivridis/MelodyKit/formats"
)

// tailSeconds is appended after the last note end so releases and reverb
// tails are not cut off.
const tailSeconds = 2.0

// normalizeCeiling is the peak the mixdown is scaled down to when it clips.
const normalizeCeiling = 0.99

// RenderReport summarizes a completed mixdown. Warnings list the jobs that
// were skipped (missing backends, missing sample rows, undecodable clips);
// a render with warnings still produced a file.
type RenderReport struct {
	Path     string
	Frames   int
	Warnings []string
}

type clipVoice struct {
	voice *melodykit.Voice
	start float64
}

// Render performs one offline mixdown: it compiles the note timeline, renders
// every track through its backend, mixes in the beat and clip jobs, applies
// track volumes, normalizes the result if it clips and writes the output
// file through enc. The track table is locked for the whole render; the
// sample table is only locked briefly to resolve beat rows, so live sample
// playback keeps running.
func (h *Host) Render(req melodykit.RenderRequest, enc melodykit.OutputEncoder) (*RenderReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	report := &RenderReport{Path: req.Path}
	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		report.Warnings = append(report.Warnings, msg)
		log.Printf("render: %s", msg)
	}

	rate := req.SampleRate
	total := 0.0
	for _, n := range req.Notes {
		if end := n.Start + n.Duration; end > total {
			total = end
		}
	}

	// Resolve beats and clips up front so their durations extend the
	// timeline and decode failures surface before any synthesis runs.
	var placed []clipVoice
	var missing []melodykit.BeatJob
	h.sampleMu.Lock()
	for _, b := range req.Beats {
		sample, ok := h.samples[b.Track][b.Row]
		if !ok {
			missing = append(missing, b)
			continue
		}
		placed = append(placed, clipVoice{voice: melodykit.NewVoice(sample, b.Gain), start: b.Start})
		if end := b.Start + sample.Duration(); end > total {
			total = end
		}
	}
	h.sampleMu.Unlock()
	for _, b := range missing {
		warn("beat at %gs: no sample at track %q row %q", b.Start, b.Track, b.Row)
	}
	for _, c := range req.Clips {
		sample, err := formats.Open(c.Path)
		if err != nil {
			warn("clip at %gs: %v", c.Start, err)
			continue
		}
		placed = append(placed, clipVoice{voice: melodykit.NewVoice(sample, c.Gain), start: c.Start})
		if end := c.Start + sample.Duration(); end > total {
			total = end
		}
	}

	total += tailSeconds
	totalFrames := int(total * float64(rate))
	if totalFrames < 1 {
		totalFrames = 1
	}
	master := melodykit.NewBuffer(2, totalFrames)

	// Track order is sorted so repeated renders emit warnings in a stable
	// order; the additive mix itself is order-independent.
	byTrack := map[string][]melodykit.NoteEvent{}
	for _, n := range req.Notes {
		byTrack[n.Track] = append(byTrack[n.Track], n)
	}
	trackIDs := make([]string, 0, len(byTrack))
	for id := range byTrack {
		trackIDs = append(trackIDs, id)
	}
	sort.Strings(trackIDs)

	for _, id := range trackIDs {
		t, ok := h.tracks[id]
		if !ok || (t.processor == nil && t.engine == nil) {
			warn("track %q has no backend, skipping %d notes", id, len(byTrack[id]))
			continue
		}
		events := melodykit.CompileTimeline(byTrack[id], rate, totalFrames)
		tbuf := melodykit.NewBuffer(2, totalFrames)
		if t.processor != nil {
			h.renderContinuous(t.processor, tbuf, events, rate)
		} else {
			renderEventDriven(t.engine, tbuf, events, rate, h.blockSize)
		}
		tbuf.ApplyGain(t.gain)
		master.Add(tbuf)
	}

	for _, p := range placed {
		start := int(p.start * float64(rate))
		if start >= totalFrames {
			continue
		}
		if start < 0 {
			start = 0
		}
		p.voice.Mix(master.Slice(start, totalFrames), 0, rate)
	}

	if peak := master.Peak(); peak > normalizeCeiling {
		master.ApplyGain(normalizeCeiling / peak)
	}

	writer, err := enc.Open(req.Path, rate, master.Channels(), req.BitDepth)
	if err != nil {
		return nil, fmt.Errorf("opening output: %w", err)
	}
	if err := writer.Write(master); err != nil {
		writer.Close()
		return nil, fmt.Errorf("writing output: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing output: %w", err)
	}
	report.Frames = totalFrames
	return report, nil
}

// renderContinuous feeds the processor fixed-size blocks covering the whole
// timeline, handing each block the events falling inside it with positions
// rebased to the block start. Afterwards the processor is restored to its
// live configuration.
func (h *Host) renderContinuous(p melodykit.ContinuousProcessor, dst melodykit.Buffer, events []melodykit.TimelineEvent, rate int) {
	p.Prepare(rate, defaultBlockSize)
	p.SetOffline(true)

	totalFrames := dst.Frames()
	next := 0
	for cur := 0; cur < totalFrames; cur += defaultBlockSize {
		end := cur + defaultBlockSize
		if end > totalFrames {
			end = totalFrames
		}
		first := next
		for next < len(events) && events[next].Pos < end {
			next++
		}
		block := make([]melodykit.TimelineEvent, next-first)
		for i, e := range events[first:next] {
			e.Pos -= cur
			block[i] = e
		}
		p.Process(dst.Slice(cur, end), block)
	}

	p.SetOffline(false)
	p.Release()
	p.Prepare(h.sampleRate, h.blockSize)
}

// renderEventDriven renders variable-size chunks bounded by the block size,
// the remaining timeline and the distance to the next event, dispatching
// events exactly at their sample positions between chunks.
func renderEventDriven(e melodykit.EventDrivenEngine, dst melodykit.Buffer, events []melodykit.TimelineEvent, rate, blockSize int) {
	e.ConfigureOutput(rate)

	totalFrames := dst.Frames()
	next := 0
	dispatch := func(cur int) {
		for next < len(events) && events[next].Pos <= cur {
			ev := events[next]
			ch := ev.Channel
			if ch < 1 {
				ch = 1
			}
			if ch > 16 {
				ch = 16
			}
			if ev.Kind == melodykit.NoteOn {
				e.NoteOn(ch, ev.Note, ev.Velocity)
			} else {
				e.NoteOff(ch, ev.Note)
			}
			next++
		}
	}

	dispatch(0)
	for cur := 0; cur < totalFrames; {
		n := blockSize
		if remaining := totalFrames - cur; n > remaining {
			n = remaining
		}
		if next < len(events) {
			if until := events[next].Pos - cur; until < n {
				n = until
			}
		}
		if n < 1 {
			n = 1
		}
		chunk := e.RenderInterleaved(n)
		dst.SetInterleaved(cur, chunk)
		cur += n
		dispatch(cur)
	}
}
