package melodykit

import "fmt"

type (
	// BeatJob places one sample table row onto the mixdown timeline.
	BeatJob struct {
		Track string  `yaml:"track"`
		Row   string  `yaml:"row"`
		Start float64 `yaml:"start"` // seconds
		Gain  float32 `yaml:"gain"`
	}

	// ClipJob places an audio file onto the mixdown timeline. The file is
	// decoded at render time and resampled to the output rate while mixing.
	ClipJob struct {
		Track string  `yaml:"track"`
		Path  string  `yaml:"path"`
		Start float64 `yaml:"start"` // seconds
		Gain  float32 `yaml:"gain"`
	}

	// RenderRequest describes one offline mixdown: the notes, beats and clips
	// to render and the output file parameters.
	RenderRequest struct {
		Notes      []NoteEvent `yaml:"notes"`
		Beats      []BeatJob   `yaml:"beats"`
		Clips      []ClipJob   `yaml:"clips"`
		Path       string      `yaml:"path"`
		SampleRate int         `yaml:"samplerate"`
		BitDepth   int         `yaml:"bitdepth"`
	}
)

// Validate checks the request before any rendering work starts, so an invalid
// request never creates an output file.
func (r *RenderRequest) Validate() error {
	switch r.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("unsupported bit depth %d (must be 16, 24 or 32)", r.BitDepth)
	}
	if len(r.Notes) == 0 && len(r.Beats) == 0 && len(r.Clips) == 0 {
		return fmt.Errorf("nothing to render")
	}
	if r.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", r.SampleRate)
	}
	if r.Path == "" {
		return fmt.Errorf("no output path")
	}
	return nil
}
