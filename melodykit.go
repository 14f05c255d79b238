// Package melodykit implements the rendering and live-preview core of the
// MelodyKit audio engine. It turns symbolic musical timelines - MIDI note
// events, triggered one-shot samples and placed audio clips - into fixed PCM
// audio, and mixes triggered samples live for interactive preview.
//
// The root package holds the pure domain types and algorithms: the timeline
// compiler, the planar audio buffer, the shared voice playback mixer and the
// interfaces the engine consumes (synthesis backends, audio output, PCM
// encoding). The stateful engine that owns tracks, samples and live voices
// lives in the host package; format decoders live under formats; device
// output lives in the oto package.
package melodykit
