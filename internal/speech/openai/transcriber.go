// Package openai implements a Transcriber backed by an OpenAI
// compatible transcription endpoint. Useful when running without a
// local model, or against a self-hosted whisper server exposing the
// same API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/sjzar/whisperd/internal/speech"
	"github.com/sjzar/whisperd/pkg/util/wave"
)

// DefaultModel is used when the config does not name one.
const DefaultModel = "whisper-1"

// Config describes how to reach the remote transcription API.
type Config struct {
	APIKey         string
	BaseURL        string
	Organization   string
	Model          string
	RequestTimeout time.Duration
	DefaultOptions speech.Options
}

// Transcriber uploads audio as WAV and returns the remote transcript.
type Transcriber struct {
	client sdk.Client
	cfg    Config
}

// New builds a remote transcriber from the given config.
func New(cfg Config) (*Transcriber, error) {
	if strings.TrimSpace(cfg.APIKey) == "" && strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("openai backend requires an api key or base url")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	cfg.DefaultOptions = speech.NormalizeDefaults(cfg.DefaultOptions)

	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Organization != "" {
		opts = append(opts, option.WithOrganization(cfg.Organization))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.RequestTimeout))
	}

	return &Transcriber{client: sdk.NewClient(opts...), cfg: cfg}, nil
}

// Close implements the Transcriber interface. No-op for the remote backend.
func (t *Transcriber) Close() {}

// TranscribePCM uploads the samples as a temporary WAV file and
// returns the remote transcription result.
func (t *Transcriber) TranscribePCM(ctx context.Context, samples []float32, sampleRate int, opts speech.Options) (*speech.Result, error) {
	if len(samples) == 0 {
		return nil, errors.New("empty audio samples")
	}

	tmpFile, err := os.CreateTemp("", "whisperd-upload-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp wav: %w", err)
	}
	wavPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(wavPath)

	if err := wave.WriteFloat32File(wavPath, samples, sampleRate); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}

	f, err := os.Open(wavPath)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	effective := speech.Merge(t.cfg.DefaultOptions, opts)

	params := sdk.AudioTranscriptionNewParams{
		File:  f,
		Model: sdk.AudioModel(t.cfg.Model),
	}
	if effective.LanguageSet {
		lang := strings.TrimSpace(effective.Language)
		if lang != "" && lang != "auto" {
			params.Language = sdk.String(lang)
		}
	}
	if effective.InitialPromptSet && effective.InitialPrompt != "" {
		params.Prompt = sdk.String(effective.InitialPrompt)
	}
	if effective.TemperatureSet {
		params.Temperature = sdk.Float(float64(effective.Temperature))
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("remote transcription: %w", err)
	}

	result := &speech.Result{
		Text:     strings.TrimSpace(resp.Text),
		Duration: speech.PCMDuration(len(samples), sampleRate),
	}
	if effective.LanguageSet {
		result.Language = effective.Language
	}
	return result, nil
}
