package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrTraceUnavailable is matched by errors from a Source that cannot provide
// the requested trace.
var ErrTraceUnavailable = errors.New("trace unavailable")

// A Source provides the trace of a program image by name.
type Source interface {
	Load(program string) ([]string, error)
}

// Load reads trace lines from r. Blank lines are dropped.
func Load(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// LoadFile reads the trace lines stored in a file.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return lines, nil
}

// DirSource loads program traces from "<Dir>/<program>.txt".
type DirSource struct {
	Dir string
}

// NewDirSource creates a DirSource rooted at dir.
func NewDirSource(dir string) DirSource {
	return DirSource{Dir: dir}
}

// Path returns the file that holds the trace of a program.
func (s DirSource) Path(program string) string {
	return filepath.Join(s.Dir, program+".txt")
}

// Load implements Source.
func (s DirSource) Load(program string) ([]string, error) {
	if program == "" || strings.ContainsAny(program, `/\`) {
		return nil, fmt.Errorf("%w: invalid program name %q",
			ErrTraceUnavailable, program)
	}

	lines, err := LoadFile(s.Path(program))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTraceUnavailable, program, err)
	}

	return lines, nil
}

// MapSource serves traces kept in memory, keyed by program name.
type MapSource map[string][]string

// Load implements Source.
func (s MapSource) Load(program string) ([]string, error) {
	lines, ok := s[program]
	if !ok {
		return nil, fmt.Errorf("%w: no trace for %s", ErrTraceUnavailable, program)
	}

	out := make([]string, len(lines))
	copy(out, lines)

	return out, nil
}
