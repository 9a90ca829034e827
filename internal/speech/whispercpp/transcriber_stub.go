//go:build !cgo || nowhispercpp

package whispercpp

import (
	"context"
	"fmt"

	"github.com/sjzar/whisperd/internal/speech"
)

// Config describes how to initialise the whisper.cpp backend.
type Config struct {
	ModelPath      string
	DefaultOptions speech.Options
}

// Transcriber is a placeholder when the build excludes whisper.cpp.
type Transcriber struct{}

// New reports that the on-device backend is unavailable in this build.
func New(cfg Config) (*Transcriber, error) {
	return nil, fmt.Errorf("whisper.cpp support is disabled in this build")
}

// Close releases resources held by the whisper.cpp model.
func (t *Transcriber) Close() {}

// TranscribePCM runs whisper.cpp against raw PCM samples.
func (t *Transcriber) TranscribePCM(ctx context.Context, samples []float32, sampleRate int, opts speech.Options) (*speech.Result, error) {
	return nil, fmt.Errorf("whisper.cpp support is disabled in this build")
}
