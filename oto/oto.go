// Package oto adapts the oto/v3 audio device to the melodykit.AudioContext
// interface.
package oto

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"

	"github.com/Rivridis/MelodyKit"
)

type (
	Context struct {
		context *oto.Context
	}

	playerCloser struct {
		player *oto.Player
	}
)

// NewContext opens the audio device for 32-bit float stereo output at the
// given rate and waits until it is ready.
func NewContext(sampleRate int) (*Context, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{context: context}, nil
}

// Play attaches a source to the device and starts playback. Closing the
// returned handle stops it.
func (c *Context) Play(source melodykit.AudioSource) (io.Closer, error) {
	player := c.context.NewPlayer(&sourceReader{source: source})
	player.Play()
	return &playerCloser{player: player}, nil
}

// Close suspends the device. oto contexts cannot be fully torn down, so a
// later NewContext call in the same process reuses the suspended one.
func (c *Context) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (p *playerCloser) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
