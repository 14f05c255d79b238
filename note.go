package melodykit

import "sort"

type (
	// NoteEvent is one note to be played on a track: when it starts, how long
	// it lasts and what to play. Events are immutable once submitted to the
	// engine; the timeline compiler derives the discrete on/off instants from
	// them.
	NoteEvent struct {
		Track    string  `yaml:"track"`
		Start    float64 `yaml:"start"`    // seconds from the beginning of the timeline
		Duration float64 `yaml:"duration"` // seconds; zero or negative still yields a minimal blip
		Note     int     `yaml:"note"`     // MIDI note number 0-127
		Velocity float64 `yaml:"velocity"` // 0..1
		Channel  int     `yaml:"channel"`  // MIDI channel 1-16
	}

	// TimelineEvent is a discrete NoteOn/NoteOff instant at an integer sample
	// index, derived from a NoteEvent by CompileTimeline.
	TimelineEvent struct {
		Pos      int // sample index; relative to the block start when passed to a ContinuousProcessor
		Kind     EventKind
		Note     int
		Velocity float64
		Channel  int
	}

	EventKind int
)

const (
	NoteOn EventKind = iota
	NoteOff
)

func (k EventKind) String() string {
	if k == NoteOn {
		return "note-on"
	}
	return "note-off"
}

// CompileTimeline expands every note into one NoteOn and one NoteOff entry,
// in that order, and returns the entries sorted ascending by sample position.
// The sort is stable, so a zero-duration note still dispatches its NoteOn
// before its NoteOff. Positions falling outside the timeline are clamped to
// [0, totalFrames-1] instead of rejecting the note.
func CompileTimeline(notes []NoteEvent, sampleRate int, totalFrames int) []TimelineEvent {
	events := make([]TimelineEvent, 0, len(notes)*2)
	for _, n := range notes {
		on := clampFrame(int(n.Start*float64(sampleRate)), totalFrames)
		off := clampFrame(int((n.Start+n.Duration)*float64(sampleRate)), totalFrames)
		velocity := clampUnit(n.Velocity)
		events = append(events,
			TimelineEvent{Pos: on, Kind: NoteOn, Note: n.Note, Velocity: velocity, Channel: n.Channel},
			TimelineEvent{Pos: off, Kind: NoteOff, Note: n.Note, Velocity: velocity, Channel: n.Channel},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Pos < events[j].Pos
	})
	return events
}

func clampFrame(pos, totalFrames int) int {
	if pos < 0 {
		return 0
	}
	if pos > totalFrames-1 {
		return totalFrames - 1
	}
	return pos
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
