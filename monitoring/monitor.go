// Package monitoring reports on a simulator run: how far the interpretation
// got, what the host process costs, and what the simulated machine looks
// like.
package monitoring

import (
	"io"
	"os"

	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/JStLouisCode/SYSC4001-A2-P3/kernel"
	"github.com/JStLouisCode/SYSC4001-A2-P3/memory"
	"github.com/JStLouisCode/SYSC4001-A2-P3/record"
	"github.com/JStLouisCode/SYSC4001-A2-P3/tracing"
)

// Monitor watches a simulator.
type Monitor struct {
	sim    *kernel.Simulator
	frames *ProgressBar
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// RegisterSimulator makes the monitor follow the frames of a simulator.
func (m *Monitor) RegisterSimulator(s *kernel.Simulator) {
	m.sim = s
	m.frames = &ProgressBar{
		ID:   xid.New().String(),
		Name: s.Name() + " frames",
	}

	tracing.CollectTrace(s, newProgressTracer(m.frames))
}

// Frames returns how many frames of the registered simulator have finished
// and how many are still being interpreted.
func (m *Monitor) Frames() (finished, inProgress uint64) {
	if m.frames == nil {
		return 0, 0
	}

	return m.frames.Counts()
}

// Resources is what the host process uses.
type Resources struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

// ResourceUsage measures the host process.
func (m *Monitor) ResourceUsage() (Resources, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Resources{}, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		return Resources{}, err
	}

	memorySize, err := proc.MemoryInfo()
	if err != nil {
		return Resources{}, err
	}

	return Resources{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}, nil
}

// MachineState is the part of a simulator that outlives a frame.
type MachineState struct {
	Name       string
	RunID      string
	Clock      record.Tick
	LastPID    int
	Frames     uint64
	Partitions []memory.Partition
}

// State captures the registered simulator.
func (m *Monitor) State() MachineState {
	if m.sim == nil {
		panic("no simulator registered")
	}

	finished, _ := m.Frames()

	return MachineState{
		Name:       m.sim.Name(),
		RunID:      m.sim.RunID(),
		Clock:      m.sim.CurrentTime(),
		LastPID:    m.sim.PIDs().Last(),
		Frames:     finished,
		Partitions: m.sim.Pool().Partitions(),
	}
}

// DumpState serializes the state of the registered simulator into w. Nested
// values deeper than maxDepth are left out.
func (m *Monitor) DumpState(w io.Writer, maxDepth int) error {
	state := m.State()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&state)
	serializer.SetMaxDepth(maxDepth)

	return serializer.Serialize(w)
}
