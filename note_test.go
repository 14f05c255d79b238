package melodykit_test

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/Rivridis/MelodyKit"
)

func TestCompileTimelineOrdering(t *testing.T) {
	notes := []melodykit.NoteEvent{
		{Track: "a", Start: 1.0, Duration: 0.5, Note: 64, Velocity: 0.8, Channel: 1},
		{Track: "a", Start: 0.0, Duration: 0.25, Note: 60, Velocity: 1.0, Channel: 1},
	}
	events := melodykit.CompileTimeline(notes, 44100, 10*44100)
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Pos < events[i-1].Pos {
			t.Fatalf("events out of order at %d: %d after %d", i, events[i].Pos, events[i-1].Pos)
		}
	}
	expected := []melodykit.TimelineEvent{
		{Pos: 0, Kind: melodykit.NoteOn, Note: 60, Velocity: 1.0, Channel: 1},
		{Pos: 11025, Kind: melodykit.NoteOff, Note: 60, Velocity: 1.0, Channel: 1},
		{Pos: 44100, Kind: melodykit.NoteOn, Note: 64, Velocity: 0.8, Channel: 1},
		{Pos: 66150, Kind: melodykit.NoteOff, Note: 64, Velocity: 0.8, Channel: 1},
	}
	if !reflect.DeepEqual(events, expected) {
		t.Fatalf("got different events than expected. got: %v expected: %v", events, expected)
	}
}

func TestCompileTimelineZeroDuration(t *testing.T) {
	notes := []melodykit.NoteEvent{
		{Track: "a", Start: 0.5, Duration: 0, Note: 60, Velocity: 1, Channel: 1},
	}
	events := melodykit.CompileTimeline(notes, 44100, 2*44100)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Pos != events[1].Pos {
		t.Fatalf("zero-duration note should land on a single position, got %d and %d", events[0].Pos, events[1].Pos)
	}
	if events[0].Kind != melodykit.NoteOn || events[1].Kind != melodykit.NoteOff {
		t.Fatalf("note-on must come before note-off, got %v then %v", events[0].Kind, events[1].Kind)
	}
}

func TestCompileTimelineClamping(t *testing.T) {
	totalFrames := 44100
	notes := []melodykit.NoteEvent{
		{Track: "a", Start: -1.0, Duration: 10.0, Note: 60, Velocity: 2.0, Channel: 1},
	}
	events := melodykit.CompileTimeline(notes, 44100, totalFrames)
	if events[0].Pos != 0 {
		t.Fatalf("note-on before the timeline should clamp to 0, got %d", events[0].Pos)
	}
	if events[1].Pos != totalFrames-1 {
		t.Fatalf("note-off past the timeline should clamp to %d, got %d", totalFrames-1, events[1].Pos)
	}
	if events[0].Velocity != 1 {
		t.Fatalf("velocity should clamp to 1, got %v", events[0].Velocity)
	}
}

func TestCompileTimelineInputOrderIndependent(t *testing.T) {
	var notes []melodykit.NoteEvent
	for i := 0; i < 20; i++ {
		notes = append(notes, melodykit.NoteEvent{
			Track:    "a",
			Start:    float64(i) * 0.1,
			Duration: 0.05,
			Note:     60 + i,
			Velocity: 1,
			Channel:  1,
		})
	}
	reference := melodykit.CompileTimeline(notes, 44100, 10*44100)
	shuffled := make([]melodykit.NoteEvent, len(notes))
	copy(shuffled, notes)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	got := melodykit.CompileTimeline(shuffled, 44100, 10*44100)
	// positions are all distinct here, so sorting by (pos, note, kind) makes
	// the two runs comparable
	key := func(events []melodykit.TimelineEvent) {
		sort.Slice(events, func(i, j int) bool {
			if events[i].Pos != events[j].Pos {
				return events[i].Pos < events[j].Pos
			}
			if events[i].Note != events[j].Note {
				return events[i].Note < events[j].Note
			}
			return events[i].Kind < events[j].Kind
		})
	}
	key(reference)
	key(got)
	if !reflect.DeepEqual(got, reference) {
		t.Fatalf("timeline depends on input order. got: %v expected: %v", got, reference)
	}
}
