// Package rejectlog records message bodies that could not be categorized.
package rejectlog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Veraticus/momo-ledger/internal/config"
)

// DefaultPath is where rejected bodies go unless configured otherwise.
const DefaultPath = "logs/unprocessed.log"

// ErrClosed is returned when writing to a closed log.
var ErrClosed = errors.New("reject log closed")

// Only line breaks are rewritten, so single-line bodies are stored verbatim.
// A body containing a literal `\n` or `\r` does not survive ReadAll unchanged.
var lineEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`)
var lineUnescaper = strings.NewReplacer(`\r`, "\r", `\n`, "\n")

// File is an append-only log holding one body per line.
type File struct {
	f    *os.File
	path string
	mu   sync.Mutex
}

// Open opens (creating directories as needed) the log at path. When truncate
// is set, previous contents are discarded.
func Open(path string, truncate bool) (*File, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	path = config.ExpandPath(path)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create reject log directory: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o600) //nolint:gosec // operator-chosen path
	if err != nil {
		return nil, fmt.Errorf("failed to open reject log: %w", err)
	}

	return &File{f: f, path: path}, nil
}

// Path returns the resolved file location.
func (l *File) Path() string {
	return l.path
}

// Reject appends body as a single line.
func (l *File) Reject(_ context.Context, _ int, body string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return ErrClosed
	}
	if _, err := io.WriteString(l.f, Escape(body)+"\n"); err != nil {
		return fmt.Errorf("failed to append to reject log: %w", err)
	}
	return nil
}

// Close closes the underlying file. Closing twice is a no-op.
func (l *File) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// Escape folds a body onto one line.
func Escape(body string) string {
	return lineEscaper.Replace(body)
}

// Unescape reverses Escape.
func Unescape(line string) string {
	return lineUnescaper.Replace(line)
}

// ReadAll returns the bodies stored in the log at path, in write order.
func ReadAll(path string) ([]string, error) {
	f, err := os.Open(config.ExpandPath(path)) //nolint:gosec // operator-chosen path
	if err != nil {
		return nil, fmt.Errorf("failed to open reject log: %w", err)
	}
	defer func() { _ = f.Close() }()

	var bodies []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		bodies = append(bodies, Unescape(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reject log: %w", err)
	}
	return bodies, nil
}

// Memory keeps rejected bodies in memory. Used for dry runs.
type Memory struct {
	Bodies []string
	mu     sync.Mutex
}

// Reject records body.
func (m *Memory) Reject(_ context.Context, _ int, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Bodies = append(m.Bodies, body)
	return nil
}
