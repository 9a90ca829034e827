// Package runtime owns the resident ASR model and the audio ingest
// pipeline. The model is loaded once at startup and reused for every
// request; the decoder capability is resolved once and cached until an
// explicit refresh.
package runtime

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/whisperd/internal/ffmpeg"
	"github.com/sjzar/whisperd/internal/ingest"
	"github.com/sjzar/whisperd/internal/speech"
	openaispeech "github.com/sjzar/whisperd/internal/speech/openai"
	"github.com/sjzar/whisperd/internal/speech/whispercpp"
	"github.com/sjzar/whisperd/internal/whisperd/conf"
)

// Runtime is the long-lived service core behind the HTTP boundary.
type Runtime struct {
	transcriber speech.Transcriber
	locator     *ffmpeg.Locator
	pipeline    *ingest.Pipeline

	provider string
	model    string
}

// New builds a Runtime from config: resolves the speech provider,
// ensures a local model when needed, and wires the ingest pipeline.
func New(ctx context.Context, cfg *conf.Config) (*Runtime, error) {
	locator := ffmpeg.NewLocator(cfg.FFmpegPath)

	transcriber, model, err := newTranscriber(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		transcriber: transcriber,
		locator:     locator,
		pipeline:    ingest.New(locator),
		provider:    cfg.Speech.Provider,
		model:       model,
	}, nil
}

// NewWithTranscriber wires a Runtime around an existing transcriber
// and locator. Tests use this to substitute stubs for both.
func NewWithTranscriber(transcriber speech.Transcriber, locator *ffmpeg.Locator) *Runtime {
	return &Runtime{
		transcriber: transcriber,
		locator:     locator,
		pipeline:    ingest.New(locator),
	}
}

func newTranscriber(ctx context.Context, cfg *conf.Config) (speech.Transcriber, string, error) {
	sc := cfg.Speech

	switch sc.Provider {
	case conf.ProviderWhisperCPP:
		modelPath, err := ensureModelPath(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		t, err := whispercpp.New(whispercpp.Config{
			ModelPath:      modelPath,
			DefaultOptions: sc.ToOptions(),
		})
		if err != nil {
			return nil, "", err
		}
		return t, modelPath, nil

	case conf.ProviderOpenAI:
		t, err := openaispeech.New(openaispeech.Config{
			APIKey:         sc.APIKey,
			BaseURL:        sc.BaseURL,
			Organization:   sc.Organization,
			Model:          sc.Model,
			RequestTimeout: requestTimeout(sc.RequestTimeoutSeconds),
			DefaultOptions: sc.ToOptions(),
		})
		if err != nil {
			return nil, "", err
		}
		model := sc.Model
		if model == "" {
			model = openaispeech.DefaultModel
		}
		return t, model, nil

	default:
		return nil, "", fmt.Errorf("unsupported speech provider %q", sc.Provider)
	}
}

// ensureModelPath treats the configured model as a file path when it
// exists, otherwise as a model name to download into the cache dir.
func ensureModelPath(ctx context.Context, cfg *conf.Config) (string, error) {
	name := cfg.Speech.Model
	if name != "" {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name, nil
		}
	}

	result, err := speech.NewDownloader(cfg.ModelDir()).EnsureModel(ctx, name)
	if err != nil {
		return "", fmt.Errorf("ensure whisper model: %w", err)
	}
	if !result.Existed {
		log.Info().Str("path", result.Path).Msg("whisper model ready")
	}
	return result.Path, nil
}

func requestTimeout(seconds int) time.Duration {
	if seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

// TranscribeFile runs the full path: ingest the audio file, then hand
// the waveform to the resident model. Structured ingest errors pass
// through untouched for the HTTP layer to map.
func (r *Runtime) TranscribeFile(ctx context.Context, path string, override speech.Options, enhance bool) (*speech.Result, error) {
	samples, err := r.pipeline.Ingest(ctx, path, ingest.Options{Enhance: enhance})
	if err != nil {
		return nil, err
	}
	return r.transcriber.TranscribePCM(ctx, samples, r.pipeline.SampleRate(), override)
}

// DecoderCapability reports the cached external decoder state.
func (r *Runtime) DecoderCapability() ffmpeg.Capability {
	return r.locator.Capability()
}

// RefreshDecoder forces re-resolution of the external decoder.
func (r *Runtime) RefreshDecoder() ffmpeg.Capability {
	return r.locator.Refresh()
}

// Provider reports the configured speech provider.
func (r *Runtime) Provider() string {
	return r.provider
}

// Model reports the model path or name in use.
func (r *Runtime) Model() string {
	return r.model
}

// Close releases the model handle.
func (r *Runtime) Close() {
	if r.transcriber != nil {
		r.transcriber.Close()
	}
}
