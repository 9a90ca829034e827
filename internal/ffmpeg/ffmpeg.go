// Package ffmpeg locates and drives an optional external ffmpeg binary
// used as the rich-format decode tier. Absence of the binary is a
// normal, representable state, never an error during resolution.
package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

// Capability describes whether an external decoder is usable and where
// it lives. Reason is set only when unavailable.
type Capability struct {
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// ResolveFunc locates the decoder binary. It must not spawn a process;
// returning an error marks the capability unavailable.
type ResolveFunc func() (string, error)

// Locator resolves the external decoder once and caches the result.
// Refresh forces re-resolution, which tests and the admin endpoint use
// to flip the capability deterministically.
type Locator struct {
	mu      sync.Mutex
	resolve ResolveFunc
	cached  *Capability
}

// NewLocator builds a Locator using the default search strategy:
// explicit configured path, then PATH, then known install locations.
func NewLocator(configuredPath string) *Locator {
	return &Locator{resolve: defaultResolver(configuredPath)}
}

// NewLocatorWithResolver builds a Locator around a custom resolver.
func NewLocatorWithResolver(resolve ResolveFunc) *Locator {
	return &Locator{resolve: resolve}
}

// Capability returns the cached capability, resolving on first use.
func (l *Locator) Capability() Capability {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached == nil {
		l.cached = l.doResolve()
	}
	return *l.cached
}

// Refresh discards the cached capability and re-resolves.
func (l *Locator) Refresh() Capability {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = l.doResolve()
	return *l.cached
}

// SetResolver swaps the resolve strategy. The cache is kept until the
// next Refresh so the swap itself has no observable effect.
func (l *Locator) SetResolver(resolve ResolveFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resolve = resolve
}

func (l *Locator) doResolve() *Capability {
	path, err := l.resolve()
	if err != nil {
		log.Debug().Err(err).Msg("external decoder unavailable")
		return &Capability{Available: false, Reason: err.Error()}
	}
	log.Debug().Str("path", path).Msg("external decoder resolved")
	return &Capability{Available: true, Path: path}
}

func defaultResolver(configuredPath string) ResolveFunc {
	return func() (string, error) {
		if configuredPath != "" {
			if info, err := os.Stat(configuredPath); err == nil && !info.IsDir() {
				return configuredPath, nil
			}
			return "", fmt.Errorf("configured ffmpeg path %q not found", configuredPath)
		}

		if path, err := exec.LookPath(binaryName()); err == nil {
			return path, nil
		}

		for _, candidate := range knownLocations() {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		return "", fmt.Errorf("%s not found", binaryName())
	}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func knownLocations() []string {
	if runtime.GOOS == "windows" {
		return []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
		}
	}
	return []string{
		"/usr/local/bin/ffmpeg",
		"/usr/bin/ffmpeg",
		"/opt/homebrew/bin/ffmpeg",
	}
}
