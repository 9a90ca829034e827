package wave

import (
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WritePCM16File writes mono 16-bit PCM samples as a WAV file.
func WritePCM16File(path string, samples []int16, sampleRate int) error {
	if sampleRate <= 0 {
		sampleRate = 16000
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFloat32File converts normalized float32 samples to 16-bit PCM
// and writes them as a mono WAV file.
func WriteFloat32File(path string, samples []float32, sampleRate int) error {
	return WritePCM16File(path, Float32ToPCM16(samples), sampleRate)
}

// Float32ToPCM16 converts normalized samples to 16-bit PCM, clamping
// out-of-range values.
func Float32ToPCM16(src []float32) []int16 {
	if len(src) == 0 {
		return nil
	}
	dst := make([]int16, len(src))
	for i, sample := range src {
		v := float64(sample)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		dst[i] = int16(math.Round(v * 32767))
	}
	return dst
}

// PCM16ToFloat32 converts 16-bit PCM samples to normalized float32.
func PCM16ToFloat32(src []int16) []float32 {
	const scale = 1.0 / 32768.0
	out := make([]float32, len(src))
	for i, s := range src {
		out[i] = float32(float64(s) * scale)
	}
	return out
}
