// Package config loads the tables that describe the simulated machine: the
// interrupt vector table, the ISR delay table, and the sizes of the programs
// that can be exec'd.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Bounds of the numbers read from the tables. They keep the simulated clock
// far from overflowing.
const (
	MaxDelay = math.MaxInt32
	MaxSize  = 1 << 20
)

// VectorTable holds the handler address of every device, by device index.
type VectorTable []string

// DelayTable holds the ISR duration of every device, by device index.
type DelayTable []int

// An ExternalFile is a program image that EXEC can load.
type ExternalFile struct {
	Name string
	Size int
}

// Registry maps program names to image sizes. It keeps the file order.
type Registry struct {
	files []ExternalFile
	index map[string]int
}

// NewRegistry builds a registry from a list of files. Names must be unique.
func NewRegistry(files ...ExternalFile) (*Registry, error) {
	r := &Registry{index: make(map[string]int)}
	for _, f := range files {
		if err := r.add(f); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Registry) add(f ExternalFile) error {
	if f.Name == "" {
		return errors.New("external file without name")
	}

	if f.Size < 0 {
		return fmt.Errorf("external file %s has negative size %d", f.Name, f.Size)
	}

	if f.Size > MaxSize {
		return fmt.Errorf("external file %s is larger than %d Mb", f.Name, MaxSize)
	}

	if _, dup := r.index[f.Name]; dup {
		return fmt.Errorf("external file %s listed twice", f.Name)
	}

	r.index[f.Name] = len(r.files)
	r.files = append(r.files, f)

	return nil
}

// Size returns the image size of a program.
func (r *Registry) Size(name string) (int, bool) {
	if r == nil {
		return 0, false
	}

	i, ok := r.index[name]
	if !ok {
		return 0, false
	}

	return r.files[i].Size, true
}

// Files returns the registered files in file order.
func (r *Registry) Files() []ExternalFile {
	if r == nil {
		return nil
	}

	out := make([]ExternalFile, len(r.files))
	copy(out, r.files)

	return out
}

// Len returns the number of registered programs.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.files)
}

// Tables groups everything the kernel reads from configuration.
type Tables struct {
	Vectors  VectorTable
	Delays   DelayTable
	Programs *Registry
}

// Load reads the three tables from their files.
func Load(vectorPath, delayPath, externalPath string) (Tables, error) {
	vectors, err := LoadVectorTable(vectorPath)
	if err != nil {
		return Tables{}, err
	}

	delays, err := LoadDelayTable(delayPath)
	if err != nil {
		return Tables{}, err
	}

	programs, err := LoadRegistry(externalPath)
	if err != nil {
		return Tables{}, err
	}

	return Tables{Vectors: vectors, Delays: delays, Programs: programs}, nil
}

// LoadVectorTable reads one vector address per line.
func LoadVectorTable(path string) (VectorTable, error) {
	var table VectorTable
	err := eachLine(path, func(_ int, line string) error {
		table = append(table, line)
		return nil
	})

	return table, err
}

// LoadDelayTable reads one ISR duration per line, between 0 and MaxDelay.
func LoadDelayTable(path string) (DelayTable, error) {
	var table DelayTable
	err := eachLine(path, func(n int, line string) error {
		d, err := strconv.Atoi(line)
		if err != nil || d < 0 || d > MaxDelay {
			return fmt.Errorf("line %d: invalid delay %q", n, line)
		}

		table = append(table, d)

		return nil
	})

	return table, err
}

// LoadRegistry reads "name, size" pairs, one per line.
func LoadRegistry(path string) (*Registry, error) {
	r, _ := NewRegistry()
	err := eachLine(path, func(n int, line string) error {
		name, size, ok := strings.Cut(line, ",")
		if !ok {
			return fmt.Errorf("line %d: expected \"name, size\", got %q", n, line)
		}

		s, err := strconv.Atoi(strings.TrimSpace(size))
		if err != nil {
			return fmt.Errorf("line %d: invalid size %q", n, size)
		}

		if err := r.add(ExternalFile{Name: strings.TrimSpace(name), Size: s}); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

func eachLine(path string, fn func(n int, line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := scanLines(f, fn); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

func scanLines(r io.Reader, fn func(n int, line string) error) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := fn(n, line); err != nil {
			return err
		}
	}

	return scanner.Err()
}
