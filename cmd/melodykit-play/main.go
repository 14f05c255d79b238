package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Rivridis/MelodyKit"
	"github.com/Rivridis/MelodyKit/host"
	"github.com/Rivridis/MelodyKit/oto"
	"github.com/Rivridis/MelodyKit/version"

	_ "github.com/Rivridis/MelodyKit/formats/aiff"
	_ "github.com/Rivridis/MelodyKit/formats/mp3"
	_ "github.com/Rivridis/MelodyKit/formats/vorbis"
	_ "github.com/Rivridis/MelodyKit/formats/wav"
)

func main() {
	rate := flag.Int("rate", 44100, "Output sample rate.")
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

	project, err := melodykit.LoadProject(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load project: %v\n", err)
		os.Exit(1)
	}

	h := host.NewHost(*rate, 0)
	for _, t := range project.Tracks {
		for row, path := range t.Samples {
			if err := h.LoadSample(t.ID, row, path); err != nil {
				fmt.Fprintf(os.Stderr, "could not load sample: %v\n", err)
				os.Exit(1)
			}
		}
	}

	audioContext, err := oto.NewContext(*rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not acquire oto AudioContext: %v\n", err)
		os.Exit(1)
	}
	defer audioContext.Close()
	if err := h.Start(audioContext); err != nil {
		fmt.Fprintf(os.Stderr, "could not start playback: %v\n", err)
		os.Exit(1)
	}
	defer h.Stop()

	fmt.Println("enter: <track> <row> [gain], or quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "q" {
			break
		}
		if len(fields) < 2 {
			fmt.Println("usage: <track> <row> [gain]")
			continue
		}
		gain := 1.0
		if len(fields) >= 3 {
			if g, err := strconv.ParseFloat(fields[2], 32); err == nil {
				gain = g
			}
		}
		if err := h.TriggerSample(fields[0], fields[1], float32(gain)); err != nil {
			fmt.Println(err)
		}
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "MelodyKit interactive sample player.\nUsage: %s [flags] project.yml\n", os.Args[0])
	flag.PrintDefaults()
}
