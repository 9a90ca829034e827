// Package ingest turns an audio file path into a normalized mono
// float32 waveform ready for model inference. It tries the external
// decoder first when one is available and falls back to the built-in
// PCM WAV decoder, so the service works without ffmpeg for the common
// case while richer containers still decode when the tool is present.
package ingest

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/whisperd/internal/errors"
	"github.com/sjzar/whisperd/internal/ffmpeg"
	"github.com/sjzar/whisperd/internal/speech"
	"github.com/sjzar/whisperd/pkg/util/wave"
)

// CodeWAVFormatUnsupported is the stable error code surfaced when both
// decode tiers fail. The code stays the same regardless of which tier
// was attempted, so clients key on one identity.
const CodeWAVFormatUnsupported = "asr_wav_format_unsupported"

const msgWAVFormatUnsupported = "未找到可用 ffmpeg，且内置 WAV 解码失败，请安装 ffmpeg 或改用 PCM WAV 音频文件"

// Options adjusts how a file is ingested.
type Options struct {
	// Enhance applies peak normalization to the decoded waveform,
	// lifting quiet recordings before inference.
	Enhance bool
}

// Pipeline decodes audio files via the best available tier.
type Pipeline struct {
	locator    *ffmpeg.Locator
	sampleRate int
}

// New builds a Pipeline producing waveforms at the model sample rate.
func New(locator *ffmpeg.Locator) *Pipeline {
	return &Pipeline{locator: locator, sampleRate: speech.SampleRate}
}

// SampleRate reports the rate of every waveform the pipeline produces.
func (p *Pipeline) SampleRate() int {
	return p.sampleRate
}

// Ingest decodes the file at path into mono float32 samples. When both
// the external tier and the built-in WAV tier fail, the failure is
// translated into a structured request error; raw decoder errors never
// escape this package.
func (p *Pipeline) Ingest(ctx context.Context, path string, opts Options) ([]float32, error) {
	samples, extErr := p.locator.Decode(ctx, path, p.sampleRate)
	if extErr == nil {
		return p.finish(samples, opts), nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if extErr != ffmpeg.ErrUnavailable {
		// External decode failed on this file; the built-in tier may
		// still handle it if it is plain PCM WAV.
		log.Debug().Err(extErr).Str("path", path).Msg("external decode failed, trying built-in wav decoder")
	}

	samples, wavErr := wave.Decode(path, p.sampleRate)
	if wavErr != nil {
		log.Debug().Err(wavErr).Str("path", path).Msg("wav decode failed")
		return nil, errors.Request(CodeWAVFormatUnsupported, msgWAVFormatUnsupported).WithCause(wavErr)
	}
	return p.finish(samples, opts), nil
}

func (p *Pipeline) finish(samples []float32, opts Options) []float32 {
	if opts.Enhance {
		return wave.Normalize(samples, 0.95)
	}
	return samples
}
