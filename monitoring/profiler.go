package monitoring

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"runtime/pprof"
	"sort"

	"github.com/google/pprof/profile"
)

// Profiler records a CPU profile of the host process.
type Profiler struct {
	buf     bytes.Buffer
	running bool
}

// Start starts profiling.
func (p *Profiler) Start() error {
	if p.running {
		return errors.New("profiler already started")
	}

	p.buf.Reset()

	if err := pprof.StartCPUProfile(&p.buf); err != nil {
		return err
	}

	p.running = true

	return nil
}

// Stop stops profiling and returns what was recorded.
func (p *Profiler) Stop() (*profile.Profile, error) {
	if !p.running {
		return nil, errors.New("profiler not started")
	}

	pprof.StopCPUProfile()
	p.running = false

	return profile.ParseData(p.buf.Bytes())
}

// Raw returns the profile in pprof format, as recorded by the last Start and
// Stop.
func (p *Profiler) Raw() []byte {
	return p.buf.Bytes()
}

// FunctionSample is the number of samples that ended in a function.
type FunctionSample struct {
	Function string
	Samples  int64
}

// TopFunctions ranks functions by the samples in which they were running.
func TopFunctions(prof *profile.Profile, n int) []FunctionSample {
	counts := make(map[string]int64)

	for _, s := range prof.Sample {
		if len(s.Location) == 0 || len(s.Location[0].Line) == 0 ||
			len(s.Value) == 0 {
			continue
		}

		fn := s.Location[0].Line[0].Function
		if fn == nil {
			continue
		}

		counts[fn.Name] += s.Value[0]
	}

	top := make([]FunctionSample, 0, len(counts))
	for name, c := range counts {
		top = append(top, FunctionSample{Function: name, Samples: c})
	}

	sort.Slice(top, func(i, j int) bool {
		if top[i].Samples != top[j].Samples {
			return top[i].Samples > top[j].Samples
		}

		return top[i].Function < top[j].Function
	})

	if n >= 0 && len(top) > n {
		top = top[:n]
	}

	return top
}

// WriteSummary prints the duration and the busiest functions of a profile.
func WriteSummary(w io.Writer, prof *profile.Profile, n int) error {
	_, err := fmt.Fprintf(w, "profile: %d samples over %d ns\n",
		len(prof.Sample), prof.DurationNanos)
	if err != nil {
		return err
	}

	for _, f := range TopFunctions(prof, n) {
		_, err = fmt.Fprintf(w, "%8d %s\n", f.Samples, f.Function)
		if err != nil {
			return err
		}
	}

	return nil
}
