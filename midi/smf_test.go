package midi_test

import (
	"bytes"
	"math"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Rivridis/MelodyKit/midi"
)

// writeSMF builds a one-track file with two notes at 120 BPM (the SMF
// default): C4 for one quarter note from the start, E4 for one quarter note
// starting at the second quarter.
func writeSMF(t *testing.T) []byte {
	t.Helper()
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	tr.Add(960, gomidi.NoteOff(0, 60))
	tr.Add(0, gomidi.NoteOn(0, 64, 127))
	tr.Add(960, gomidi.NoteOff(0, 64))
	tr.Close(0)
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)
	if err := s.Add(tr); err != nil {
		t.Fatalf("error adding track: %v", err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("error writing smf: %v", err)
	}
	return buf.Bytes()
}

func TestFromSMFData(t *testing.T) {
	notes, err := midi.FromSMFData(writeSMF(t))
	if err != nil {
		t.Fatalf("error importing: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	first := notes[0]
	if first.Note != 60 || first.Channel != 1 {
		t.Fatalf("unexpected first note: %+v", first)
	}
	if math.Abs(first.Start) > 1e-6 {
		t.Fatalf("first note should start at 0, got %v", first.Start)
	}
	// a quarter note at 120 BPM is half a second
	if math.Abs(first.Duration-0.5) > 1e-3 {
		t.Fatalf("expected 0.5s duration, got %v", first.Duration)
	}
	if math.Abs(first.Velocity-100.0/127) > 1e-6 {
		t.Fatalf("expected velocity %v, got %v", 100.0/127, first.Velocity)
	}
	second := notes[1]
	if second.Note != 64 {
		t.Fatalf("unexpected second note: %+v", second)
	}
	if math.Abs(second.Start-0.5) > 1e-3 {
		t.Fatalf("second note should start at 0.5s, got %v", second.Start)
	}
	if first.Track != second.Track {
		t.Fatalf("notes of one SMF track should share an engine track: %q vs %q", first.Track, second.Track)
	}
}

func TestFromSMFDataRejectsGarbage(t *testing.T) {
	if _, err := midi.FromSMFData([]byte("not a midi file")); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}
