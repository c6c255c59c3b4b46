// Package kernel interprets program traces and simulates the time the
// operating system spends on CPU bursts, interrupts, forks, and execs.
//
// Interpretation is depth-first. A FORK runs the child's branch to completion
// in a nested frame before the parent resumes; an EXEC replaces the rest of
// the frame with a nested frame that interprets the new image. Every frame
// owns its logs and its clock, and hands them back to its caller.
package kernel

import (
	"errors"
	"fmt"
	"log"

	"github.com/JStLouisCode/SYSC4001-A2-P3/config"
	"github.com/JStLouisCode/SYSC4001-A2-P3/hooking"
	"github.com/JStLouisCode/SYSC4001-A2-P3/interrupt"
	"github.com/JStLouisCode/SYSC4001-A2-P3/memory"
	"github.com/JStLouisCode/SYSC4001-A2-P3/process"
	"github.com/JStLouisCode/SYSC4001-A2-P3/record"
	"github.com/JStLouisCode/SYSC4001-A2-P3/trace"
)

// Timing constants of the EXEC system call.
const (
	// LoadCostPerMb is the time to load one Mb of program image.
	LoadCostPerMb = 15

	// MaxExecDelay bounds the random bookkeeping delays of EXEC. Each delay
	// is drawn uniformly from [1, MaxExecDelay].
	MaxExecDelay = 10
)

// Hook positions of the simulator.
var (
	// HookPosEntry is triggered for every execution log entry. The item is a
	// record.Entry.
	HookPosEntry = &hooking.HookPos{Name: "Entry"}

	// HookPosSnapshot is triggered for every status snapshot. The item is a
	// record.Snapshot and the detail the running *process.PCB.
	HookPosSnapshot = &hooking.HookPos{Name: "Snapshot"}

	// HookPosFatal is triggered when a branch stops on an error. The item is
	// a record.Fatal and the detail the id of the task of the frame.
	HookPosFatal = &hooking.HookPos{Name: "Fatal"}
)

var (
	// ErrUnknownProgram is reported when EXEC names a program that is not in
	// the registry.
	ErrUnknownProgram = errors.New("unknown program")

	// ErrAllocationFailure is reported when no partition can hold an image.
	ErrAllocationFailure = errors.New("memory allocation failed")
)

// AllocationError reports a process that no free partition can hold.
type AllocationError struct {
	PID     int
	Program string
	Size    int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("no free partition can hold %s (pid %d, %d Mb)",
		e.Program, e.PID, e.Size)
}

// Is makes errors.Is(err, ErrAllocationFailure) hold.
func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocationFailure
}

// kindOf names the kind of a branch failure.
func kindOf(err error) string {
	switch {
	case errors.Is(err, trace.ErrParse):
		return "ParseError"
	case errors.Is(err, interrupt.ErrOutOfRangeVector):
		return "OutOfRangeVector"
	case errors.Is(err, ErrUnknownProgram):
		return "UnknownProgram"
	case errors.Is(err, ErrAllocationFailure):
		return "AllocationFailure"
	case errors.Is(err, trace.ErrTraceUnavailable):
		return "TraceLoadFailure"
	default:
		return "Error"
	}
}

// A DelaySource draws the random delays of EXEC. *rand.Rand satisfies it.
type DelaySource interface {
	// Intn returns a number in [0, n).
	Intn(n int) int
}

// Result is what an interpretation produces.
type Result struct {
	Execution record.ExecutionLog
	Status    record.StatusLog
	Clock     record.Tick

	// Fatals lists the branches that stopped on an error, in the order they
	// stopped.
	Fatals []record.Fatal
}

// Simulator interprets traces on one simulated machine. It is not safe for
// concurrent use.
type Simulator struct {
	hooking.HookableBase

	name     string
	runID    string
	vectors  config.VectorTable
	delays   config.DelayTable
	programs *config.Registry
	pool     *memory.Pool
	pids     process.PIDGenerator
	source   trace.Source
	random   DelaySource
	logger   *log.Logger

	now record.Tick
}

// Name returns the name of the simulator.
func (s *Simulator) Name() string {
	return s.name
}

// RunID identifies the simulator instance in logs and traces.
func (s *Simulator) RunID() string {
	return s.runID
}

// CurrentTime returns the clock of the frame being interpreted.
func (s *Simulator) CurrentTime() record.Tick {
	return s.now
}

// Pool returns the memory of the simulated machine.
func (s *Simulator) Pool() *memory.Pool {
	return s.pool
}

// PIDs returns the pid sequence of the simulated machine.
func (s *Simulator) PIDs() process.PIDGenerator {
	return s.pids
}

// Simulate boots the initial process and interprets its trace from time 0.
// The returned error is only about booting; failures inside the trace are
// reported in the Result.
func (s *Simulator) Simulate(lines []string) (Result, error) {
	boot := process.NewInit()
	if !s.pool.Allocate(boot) {
		err := &AllocationError{PID: boot.PID, Program: boot.Program, Size: boot.Size}
		s.logf("cannot boot: %v", err)

		return Result{}, err
	}

	res := s.Run(lines, 0, boot)
	s.pool.Release(boot)

	return res, nil
}

// Run interprets lines for pcb, starting at time start with an empty wait
// queue. The pcb is updated in place by EXEC.
func (s *Simulator) Run(
	lines []string,
	start record.Tick,
	pcb *process.PCB,
) Result {
	return s.runFrame(lines, start, pcb, nil, "", "init")
}

func (s *Simulator) logf(format string, args ...interface{}) {
	if s.logger == nil {
		return
	}

	s.logger.Printf("[%s %s] "+format,
		append([]interface{}{s.name, s.runID}, args...)...)
}
