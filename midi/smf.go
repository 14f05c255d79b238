// Package midi imports Standard MIDI Files as note events.
package midi

import (
	"bytes"
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Rivridis/MelodyKit"
)

// FromSMF reads a Standard MIDI File and converts its note-on/note-off pairs
// to note events. Each SMF track becomes its own engine track named
// "midi<n>". Tempo changes are honoured through the file's absolute
// timestamps. A note-on left without a matching note-off yields a
// zero-duration event.
func FromSMF(path string) ([]melodykit.NoteEvent, error) {
	tracks := smf.ReadTracks(path)
	return convert(tracks)
}

// FromSMFData is FromSMF for in-memory file contents.
func FromSMFData(data []byte) ([]melodykit.NoteEvent, error) {
	tracks := smf.ReadTracksFrom(bytes.NewReader(data))
	return convert(tracks)
}

type pendingKey struct {
	track   int
	channel uint8
	note    uint8
}

func convert(tracks *smf.TracksReader) ([]melodykit.NoteEvent, error) {
	var notes []melodykit.NoteEvent
	pending := map[pendingKey]int{} // index into notes
	tracks.Do(func(te smf.TrackEvent) {
		var channel, key, velocity uint8
		start := float64(te.AbsMicroSeconds) / 1e6
		switch {
		case te.Message.GetNoteStart(&channel, &key, &velocity):
			notes = append(notes, melodykit.NoteEvent{
				Track:    fmt.Sprintf("midi%d", te.TrackNo),
				Start:    start,
				Note:     int(key),
				Velocity: float64(velocity) / 127,
				Channel:  int(channel) + 1,
			})
			pending[pendingKey{track: te.TrackNo, channel: channel, note: key}] = len(notes) - 1
		case te.Message.GetNoteEnd(&channel, &key):
			k := pendingKey{track: te.TrackNo, channel: channel, note: key}
			if i, ok := pending[k]; ok {
				notes[i].Duration = start - notes[i].Start
				delete(pending, k)
			}
		}
	})
	if err := tracks.Error(); err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Note < notes[j].Note
	})
	return notes, nil
}
