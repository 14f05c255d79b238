package melodykit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type (
	// Project is the YAML serialization of one arrangement: the tracks with
	// their volumes and sample rows, plus the notes, beats and clips placed
	// on the timeline. The zero value of every field is usable, so a minimal
	// project file only needs the parts it actually uses.
	Project struct {
		SampleRate int            `yaml:"samplerate,omitempty"`
		BitDepth   int            `yaml:"bitdepth,omitempty"`
		Output     string         `yaml:"output,omitempty"`
		Tracks     []ProjectTrack `yaml:"tracks,omitempty"`
		Notes      []NoteEvent    `yaml:"notes,omitempty"`
		Beats      []BeatJob      `yaml:"beats,omitempty"`
		Clips      []ClipJob      `yaml:"clips,omitempty"`
	}

	// ProjectTrack declares one track: its identifier, its volume as a MIDI
	// value 0-127 (64 = unity) and the sample rows to load, keyed by row
	// identifier with file paths as values.
	ProjectTrack struct {
		ID      string            `yaml:"id"`
		Volume  *int              `yaml:"volume,omitempty"`
		Samples map[string]string `yaml:"samples,omitempty"`
	}
)

// LoadProject reads and validates a project file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project: %w", err)
	}
	return ParseProject(data)
}

// ParseProject unmarshals and validates a YAML project.
func ParseProject(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the project for internal consistency: duplicate track IDs,
// out of range volumes and notes referring to undeclared tracks.
func (p *Project) Validate() error {
	seen := map[string]bool{}
	for _, t := range p.Tracks {
		if t.ID == "" {
			return fmt.Errorf("track with empty id")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate track id %q", t.ID)
		}
		seen[t.ID] = true
		if t.Volume != nil && (*t.Volume < 0 || *t.Volume > 127) {
			return fmt.Errorf("track %q: volume %d out of range 0-127", t.ID, *t.Volume)
		}
	}
	for i, n := range p.Notes {
		if n.Track == "" {
			return fmt.Errorf("note %d: no track", i)
		}
		if n.Note < 0 || n.Note > 127 {
			return fmt.Errorf("note %d: note number %d out of range 0-127", i, n.Note)
		}
	}
	return nil
}

// TrackVolume returns the MIDI volume of a track, defaulting to 64 (unity
// gain) when unset.
func (t *ProjectTrack) TrackVolume() int {
	if t.Volume == nil {
		return 64
	}
	return *t.Volume
}

// RenderRequest builds the mixdown request for the project, applying the
// project-level defaults (44100 Hz, 16 bits) and defaulting note channels
// to 1.
func (p *Project) RenderRequest() RenderRequest {
	req := RenderRequest{
		Notes:      make([]NoteEvent, len(p.Notes)),
		Beats:      p.Beats,
		Clips:      p.Clips,
		Path:       p.Output,
		SampleRate: p.SampleRate,
		BitDepth:   p.BitDepth,
	}
	copy(req.Notes, p.Notes)
	for i := range req.Notes {
		if req.Notes[i].Channel == 0 {
			req.Notes[i].Channel = 1
		}
	}
	if req.SampleRate == 0 {
		req.SampleRate = 44100
	}
	if req.BitDepth == 0 {
		req.BitDepth = 16
	}
	return req
}
