package wave

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"
)

// Decode failure reasons. These stay internal to the audio path; the
// HTTP boundary only ever sees the translated request error.
const (
	ReasonEmpty       = "empty"
	ReasonUnsupported = "unsupported_format"
	ReasonCorrupt     = "corrupt"
	ReasonUnreadable  = "unreadable"
)

// DecodeError reports why a file could not be decoded as PCM WAV.
type DecodeError struct {
	Reason string
	cause  error
}

func (e *DecodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("wav decode: %s: %v", e.Reason, e.cause)
	}
	return "wav decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

func decodeErr(reason string, cause error) *DecodeError {
	return &DecodeError{Reason: reason, cause: cause}
}

// Decode reads a PCM WAV file and returns normalized mono float32
// samples at targetRate. Multi-channel audio is downmixed by averaging
// and the source rate is resampled when it differs from targetRate.
func Decode(path string, targetRate int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, decodeErr(ReasonUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, decodeErr(ReasonUnreadable, err)
	}
	if info.Size() == 0 {
		return nil, decodeErr(ReasonEmpty, nil)
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, decodeErr(ReasonUnsupported, dec.Err())
	}
	// Only integer PCM is handled here; compressed or float payloads
	// are the external decoder's job.
	if dec.WavAudioFormat != 1 {
		return nil, decodeErr(ReasonUnsupported, fmt.Errorf("audio format tag %d", dec.WavAudioFormat))
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, decodeErr(ReasonCorrupt, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, decodeErr(ReasonEmpty, nil)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return nil, decodeErr(ReasonCorrupt, fmt.Errorf("channel count %d", channels))
	}

	bitDepth := int(dec.BitDepth)
	if buf.SourceBitDepth > 0 {
		bitDepth = buf.SourceBitDepth
	}
	mono, err := toMonoFloat32(buf.Data, channels, bitDepth)
	if err != nil {
		return nil, err
	}

	return Resample(mono, buf.Format.SampleRate, targetRate), nil
}

func toMonoFloat32(data []int, channels, bitDepth int) ([]float32, error) {
	var scale float64
	switch bitDepth {
	case 8, 16, 24, 32:
		scale = 1.0 / float64(int64(1)<<(bitDepth-1))
	default:
		return nil, decodeErr(ReasonUnsupported, fmt.Errorf("sample width %d bits", bitDepth))
	}

	frames := len(data) / channels
	if frames == 0 {
		return nil, decodeErr(ReasonEmpty, nil)
	}

	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			v := float64(data[i*channels+ch])
			if bitDepth == 8 {
				// 8-bit WAV stores unsigned samples centered on 128.
				v -= 128
			}
			sum += v * scale
		}
		out[i] = float32(sum / float64(channels))
	}
	return out, nil
}

// Resample converts samples from srcRate to dstRate using linear
// interpolation. Returns a copy even when no conversion is needed.
func Resample(src []float32, srcRate, dstRate int) []float32 {
	if len(src) == 0 {
		return nil
	}
	if srcRate <= 0 {
		srcRate = dstRate
	}
	if dstRate <= 0 || srcRate == dstRate {
		out := make([]float32, len(src))
		copy(out, src)
		return out
	}

	ratio := float64(srcRate) / float64(dstRate)
	targetLen := int(math.Ceil(float64(len(src)) / ratio))
	if targetLen <= 0 {
		targetLen = 1
	}

	out := make([]float32, targetLen)
	for i := 0; i < targetLen; i++ {
		srcPos := float64(i) * ratio
		idx := int(srcPos)
		frac := float32(srcPos - float64(idx))
		switch {
		case idx >= len(src)-1:
			out[i] = src[len(src)-1]
		default:
			val := src[idx]
			next := src[idx+1]
			out[i] = val + (next-val)*frac
		}
	}
	return out
}

// Normalize scales samples so the peak amplitude reaches target
// (typically just below 1.0). Silence is returned unchanged.
func Normalize(samples []float32, target float32) []float32 {
	if len(samples) == 0 {
		return samples
	}
	var peak float32
	for _, s := range samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	if peak == 0 || peak >= target {
		return samples
	}
	gain := target / peak
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = s * gain
	}
	return out
}
