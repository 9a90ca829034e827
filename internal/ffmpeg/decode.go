package ffmpeg

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrUnavailable is returned by Decode when no external decoder has
// been resolved. Callers treat it the same as any decode failure and
// fall back to the built-in WAV tier.
var ErrUnavailable = errors.New("ffmpeg: external decoder unavailable")

// Decode runs the external decoder on path and returns normalized mono
// float32 samples at sampleRate. Any failure, from a missing binary to
// an unreadable container, is returned as a plain error for the caller
// to recover from.
func (l *Locator) Decode(ctx context.Context, path string, sampleRate int) ([]float32, error) {
	capability := l.Capability()
	if !capability.Available {
		return nil, ErrUnavailable
	}

	args := []string{
		"-nostdin",
		"-v", "error",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, capability.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffmpeg decode: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	raw := stdout.Bytes()
	if len(raw) < 2 {
		return nil, fmt.Errorf("ffmpeg decode: no audio output for %s", path)
	}

	samples := make([]float32, len(raw)/2)
	const scale = 1.0 / 32768.0
	for i := range samples {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(raw[2*i:]))) * scale
	}
	return samples, nil
}
