// Package host is the I/O boundary of the compiler. Every filesystem
// and logging call the compiler makes goes through the ABI interface,
// so tests and embedders can substitute their own environment.
package host

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
	"go.uber.org/zap"
)

// ABI is the host surface available to a compilation session. All calls
// are synchronous and fallible, with no retry and no cancellation; the
// compiler is a one-shot deterministic pass.
type ABI interface {
	// Log emits a message to the host.
	Log(msg string)

	// Glob returns the paths matching pattern, filtered to the given
	// file extensions. Extensions are matched without a leading dot.
	Glob(pattern string, exts []string) ([]string, error)

	// ReadFile returns the content of the file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes content to the file at path.
	WriteFile(path string, content []byte) error
}

// OS is the default ABI backed by the operating system.
type OS struct {
	logger *zap.Logger
}

// NewOS creates an OS-backed host. A nil logger falls back to zap.NewNop.
func NewOS(logger *zap.Logger) *OS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OS{logger: logger}
}

// Log emits the message through the structured logger.
func (h *OS) Log(msg string) {
	h.logger.Info(msg)
}

// Glob matches pattern against the filesystem, supporting `**`, and
// keeps only paths with one of the given extensions. An empty extension
// list keeps everything.
func (h *OS) Glob(pattern string, exts []string) ([]string, error) {
	matches, err := doublestar.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("host: glob %q: %w", pattern, err)
	}
	if len(exts) == 0 {
		return matches, nil
	}
	var out []string
	for _, m := range matches {
		ext := strings.TrimPrefix(filepath.Ext(m), ".")
		for _, want := range exts {
			if ext == strings.TrimPrefix(want, ".") {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

// ReadFile returns the content of the file at path.
func (h *OS) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("host: read %q: %w", path, err)
	}
	return content, nil
}

// WriteFile writes content to path, creating parent directories as
// needed.
func (h *OS) WriteFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("host: write %q: %w", path, err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("host: write %q: %w", path, err)
	}
	return nil
}
