package statelog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/randalmurphal/statefold"
)

// ErrEmptyLog is returned by LastState when the log holds no states.
var ErrEmptyLog = errors.New("state log is empty")

// FileSink appends states to a file on an afero filesystem.
// It is safe for concurrent use.
type FileSink struct {
	fs        afero.Fs
	path      string
	overwrite bool

	mu      sync.Mutex
	appends int
}

// SinkOption configures a FileSink.
type SinkOption func(*FileSink)

// WithOverwrite truncates the file on the first append instead of extending it.
// Later appends from the same sink extend the file as usual.
func WithOverwrite(overwrite bool) SinkOption {
	return func(s *FileSink) {
		s.overwrite = overwrite
	}
}

// NewFileSink creates a sink writing to path on fs.
// Nothing is touched until the first Append.
func NewFileSink(fs afero.Fs, path string, opts ...SinkOption) *FileSink {
	s := &FileSink{fs: fs, path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the log file path.
func (s *FileSink) Path() string {
	return s.path
}

// Appends returns how many states have been written.
func (s *FileSink) Appends() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appends
}

// Append writes state followed by a newline.
// Missing parent directories are created.
func (s *FileSink) Append(state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %w", statefold.ErrIO, dir, err)
		}
	}

	flag := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if s.overwrite && s.appends == 0 {
		flag = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	f, err := s.fs.OpenFile(s.path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", statefold.ErrIO, s.path, err)
	}
	if _, err := io.WriteString(f, state+"\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write %s: %w", statefold.ErrIO, s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", statefold.ErrIO, s.path, err)
	}

	s.appends++
	return nil
}

// LastState returns the last non-empty line of the log at path.
// A state that itself spans several lines comes back as its final line.
func LastState(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", statefold.ErrIO, path, err)
	}

	lines := strings.Split(string(data), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrEmptyLog, path)
}

// ReadStates returns every non-empty line of the log at path, in order.
func ReadStates(fs afero.Fs, path string) ([]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", statefold.ErrIO, path, err)
	}

	var states []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			states = append(states, line)
		}
	}
	return states, nil
}
