package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rivridis/MelodyKit"
	"github.com/Rivridis/MelodyKit/formats/wav"
	"github.com/Rivridis/MelodyKit/host"
	"github.com/Rivridis/MelodyKit/midi"
	"github.com/Rivridis/MelodyKit/synth"
	"github.com/Rivridis/MelodyKit/version"

	_ "github.com/Rivridis/MelodyKit/formats/aiff"
	_ "github.com/Rivridis/MelodyKit/formats/mp3"
	_ "github.com/Rivridis/MelodyKit/formats/vorbis"
)

func main() {
	output := flag.String("o", "", "Output .wav file. Overrides the output path in the project file. By default, the output is placed next to the project file.")
	midiFile := flag.String("midi", "", "Standard MIDI file whose notes are added to the project, one engine track per MIDI track.")
	sampleRate := flag.Int("rate", 0, "Output sample rate. Overrides the project setting.")
	bitDepth := flag.Int("bits", 0, "Output bit depth: 16, 24 or 32. Overrides the project setting.")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	retval := 0
	for _, filename := range flag.Args() {
		if err := process(filename, *output, *midiFile, *sampleRate, *bitDepth); err != nil {
			fmt.Fprintf(os.Stderr, "could not render %v: %v\n", filename, err)
			retval = 1
		}
	}
	os.Exit(retval)
}

func process(filename, output, midiFile string, sampleRate, bitDepth int) error {
	project, err := melodykit.LoadProject(filename)
	if err != nil {
		return err
	}
	req := project.RenderRequest()
	if midiFile != "" {
		notes, err := midi.FromSMF(midiFile)
		if err != nil {
			return err
		}
		req.Notes = append(req.Notes, notes...)
	}
	if output != "" {
		req.Path = output
	}
	if req.Path == "" {
		req.Path = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".wav"
	}
	if sampleRate != 0 {
		req.SampleRate = sampleRate
	}
	if bitDepth != 0 {
		req.BitDepth = bitDepth
	}

	h := host.NewHost(req.SampleRate, 0)
	for _, t := range project.Tracks {
		h.SetEventDrivenBackend(t.ID, synth.New(req.SampleRate))
		if err := h.SetTrackVolume(t.ID, t.TrackVolume()); err != nil {
			return fmt.Errorf("track %v: %v", t.ID, err)
		}
		for row, path := range t.Samples {
			if err := h.LoadSample(t.ID, row, path); err != nil {
				return err
			}
		}
	}
	// MIDI import creates tracks of its own; give them a synth as well.
	seen := map[string]bool{}
	for _, t := range project.Tracks {
		seen[t.ID] = true
	}
	for _, n := range req.Notes {
		if !seen[n.Track] && strings.HasPrefix(n.Track, "midi") {
			seen[n.Track] = true
			h.SetEventDrivenBackend(n.Track, synth.New(req.SampleRate))
		}
	}

	report, err := h.Render(req, wav.Encoder{})
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}
	seconds := float64(report.Frames) / float64(req.SampleRate)
	fmt.Printf("wrote %v (%.2f s, %v Hz, %v bit)\n", report.Path, seconds, req.SampleRate, req.BitDepth)
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "MelodyKit command line utility for rendering project files to .wav.\nUsage: %s [flags] [project.yml ...]\n", os.Args[0])
	flag.PrintDefaults()
}
