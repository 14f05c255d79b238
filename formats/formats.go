// Package formats decodes audio files into samples and encodes rendered
// mixdowns. Decoders register themselves by file extension from their
// subpackages' init functions; importing a subpackage enables its format.
package formats

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Rivridis/MelodyKit"
)

// Decoder decodes one audio container into a sample.
type Decoder interface {
	Decode(rs io.ReadSeeker) (*melodykit.Sample, error)
}

var (
	decodersMu sync.RWMutex
	decoders   = map[string]Decoder{}
)

// Register associates a decoder with a file extension (without the dot,
// lower case). It is intended to be called from subpackage init functions.
func Register(ext string, d Decoder) {
	decodersMu.Lock()
	defer decodersMu.Unlock()
	decoders[ext] = d
}

// Open decodes the audio file at path, dispatching on its extension.
func Open(path string) (*melodykit.Sample, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	decodersMu.RLock()
	d, ok := decoders[ext]
	decodersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported audio format %q", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sample, err := d.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return sample, nil
}
