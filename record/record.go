// Package record defines what the simulator produces: the execution log, the
// system status log, and the diagnostics of failed branches.
package record

import (
	"fmt"
	"strings"
)

// Tick is a point in, or a span of, simulated time.
type Tick int

// An Entry is one timed action on the execution timeline.
type Entry struct {
	Time     Tick
	Duration Tick
	Label    string
}

// End returns the time at which the action completes.
func (e Entry) End() Tick {
	return e.Time + e.Duration
}

func (e Entry) String() string {
	return fmt.Sprintf("%d, %d, %s", e.Time, e.Duration, e.Label)
}

// ExecutionLog is the execution timeline in the order it was generated.
type ExecutionLog []Entry

// End returns the completion time of the last entry, or 0 if empty.
func (l ExecutionLog) End() Tick {
	if len(l) == 0 {
		return 0
	}

	return l[len(l)-1].End()
}

// Labels lists the labels of all entries.
func (l ExecutionLog) Labels() []string {
	labels := make([]string, len(l))
	for i, e := range l {
		labels[i] = e.Label
	}

	return labels
}

// String renders one entry per line.
func (l ExecutionLog) String() string {
	var b strings.Builder
	for _, e := range l {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}

	return b.String()
}

// A StatusBlock is one block of the system status log.
type StatusBlock interface {
	fmt.Stringer
	At() Tick
}

// Snapshot records the system state right after a FORK or an EXEC.
type Snapshot struct {
	Time  Tick
	Trace string
	Table string
}

// At returns when the snapshot was taken.
func (s Snapshot) At() Tick {
	return s.Time
}

func (s Snapshot) String() string {
	return fmt.Sprintf("time: %d; current trace: %s\n%s", s.Time, s.Trace, s.Table)
}

// Fatal is the diagnostic of a branch that stopped on an error.
type Fatal struct {
	Time Tick
	Kind string
	PID  int
	Err  error
}

// At returns when the branch stopped.
func (f Fatal) At() Tick {
	return f.Time
}

func (f Fatal) String() string {
	return fmt.Sprintf("time: %d; fatal error: %s (pid %d): %v\n",
		f.Time, f.Kind, f.PID, f.Err)
}

// StatusLog is the system status history.
type StatusLog []StatusBlock

// Snapshots returns only the snapshot blocks.
func (l StatusLog) Snapshots() []Snapshot {
	var out []Snapshot
	for _, b := range l {
		if s, ok := b.(Snapshot); ok {
			out = append(out, s)
		}
	}

	return out
}

// Fatals returns only the diagnostic blocks.
func (l StatusLog) Fatals() []Fatal {
	var out []Fatal
	for _, b := range l {
		if f, ok := b.(Fatal); ok {
			out = append(out, f)
		}
	}

	return out
}

func (l StatusLog) String() string {
	var b strings.Builder
	for _, block := range l {
		b.WriteString(block.String())
	}

	return b.String()
}
