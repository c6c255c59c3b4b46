package kernel

import (
	"fmt"

	"github.com/JStLouisCode/SYSC4001-A2-P3/hooking"
	"github.com/JStLouisCode/SYSC4001-A2-P3/interrupt"
	"github.com/JStLouisCode/SYSC4001-A2-P3/process"
	"github.com/JStLouisCode/SYSC4001-A2-P3/record"
	"github.com/JStLouisCode/SYSC4001-A2-P3/trace"
	"github.com/JStLouisCode/SYSC4001-A2-P3/tracing"
	"github.com/rs/xid"
)

// A frame is one interpretation of a list of trace lines on behalf of one
// process.
type frame struct {
	taskID string
	lines  []string
	now    record.Tick
	pcb    *process.PCB
	queue  process.WaitQueue
	result Result
}

func (s *Simulator) runFrame(
	lines []string,
	start record.Tick,
	pcb *process.PCB,
	queue process.WaitQueue,
	parentTaskID string,
	what string,
) Result {
	f := &frame{
		taskID: xid.New().String(),
		lines:  lines,
		now:    start,
		pcb:    pcb,
		queue:  queue,
	}

	s.now = start
	detail := *pcb
	tracing.StartTask(f.taskID, parentTaskID, s, "process", what, &detail)

	s.interpret(f)

	s.now = f.now
	tracing.EndTask(f.taskID, s)

	f.result.Clock = f.now

	return f.result
}

func (s *Simulator) interpret(f *frame) {
	for i := 0; i < len(f.lines); i++ {
		evt, err := trace.Parse(f.lines[i])
		if err != nil {
			s.fail(f, err)
			return
		}

		tracing.AddTaskStep(f.taskID, s, evt.Activity.String())

		switch evt.Activity {
		case trace.CPU:
			s.emit(f, record.Tick(evt.Operand), "CPU Burst")
		case trace.Syscall:
			if !s.serviceDevice(f, evt.Operand, "SYSCALL ISR") {
				return
			}
		case trace.EndIO:
			if !s.serviceDevice(f, evt.Operand, "ENDIO ISR") {
				return
			}
		case trace.Fork:
			resume, ok := s.fork(f, evt, i)
			if !ok {
				return
			}

			i = resume
		case trace.Exec:
			s.exec(f, evt)
			return
		case trace.IfChild, trace.IfParent, trace.EndIf:
		default:
			panic(fmt.Sprintf("unknown activity %s", evt.Activity))
		}
	}
}

// serviceDevice runs the interrupt service routine of a device.
func (s *Simulator) serviceDevice(f *frame, device int, label string) bool {
	err := interrupt.CheckDevice("ISR delay table", device, len(s.delays))
	if err != nil {
		s.fail(f, err)
		return false
	}

	if !s.enterKernel(f, device) {
		return false
	}

	s.emit(f, record.Tick(s.delays[device]), label)
	s.emit(f, 1, "IRET")

	return true
}

func (s *Simulator) enterKernel(f *frame, device int) bool {
	entries, now, err := interrupt.Enter(
		f.now, device, interrupt.ContextSaveCost, s.vectors)
	if err != nil {
		s.fail(f, err)
		return false
	}

	for _, e := range entries {
		s.append(f, e)
	}

	s.advance(f, now)

	return true
}

// fork runs the child branch of the FORK at index at, and returns the index
// after which the parent resumes.
func (s *Simulator) fork(f *frame, evt trace.Event, at int) (int, bool) {
	if !s.enterKernel(f, interrupt.ForkVector) {
		return 0, false
	}

	s.emit(f, record.Tick(evt.Operand), "cloning the PCB")
	s.emit(f, 0, "scheduler called")
	s.emit(f, 1, "IRET")

	child := f.pcb.Fork(s.pids.Next())
	f.queue = f.queue.Push(f.pcb)
	s.snapshot(f, fmt.Sprintf("FORK, %d", evt.Operand), child, f.queue)

	branch := carveChildBranch(f.lines, at)
	s.logf("pid %d forked pid %d at %d, %d lines for the child",
		f.pcb.PID, child.PID, f.now, len(branch.lines))

	res := s.runFrame(branch.lines, f.now, child, nil, f.taskID, "fork")
	s.splice(f, res)
	s.pool.Release(child)

	return branch.resume, true
}

// exec replaces the image of the process and interprets the new program. The
// rest of the frame is never interpreted.
func (s *Simulator) exec(f *frame, evt trace.Event) {
	if !s.enterKernel(f, interrupt.ExecVector) {
		return
	}

	size, ok := s.programs.Size(evt.Program)
	if !ok {
		s.fail(f, fmt.Errorf("%w: %q", ErrUnknownProgram, evt.Program))
		return
	}

	s.emit(f, record.Tick(evt.Operand),
		fmt.Sprintf("Program is %d Mb large", size))
	s.emit(f, record.Tick(size*LoadCostPerMb), "loading program into memory")

	s.pool.Release(f.pcb)
	f.pcb.Replace(evt.Program, size)

	if !s.pool.Allocate(f.pcb) {
		s.fail(f, &AllocationError{
			PID:     f.pcb.PID,
			Program: evt.Program,
			Size:    size,
		})

		return
	}

	s.emit(f, s.execDelay(), "marking partition as occupied")
	s.emit(f, s.execDelay(), "updating PCB")
	s.emit(f, 0, "scheduler called")
	s.emit(f, 1, "IRET")

	s.snapshot(f, fmt.Sprintf("EXEC %s, %d", evt.Program, evt.Operand),
		f.pcb, f.queue)

	lines, err := s.source.Load(evt.Program)
	if err != nil {
		s.fail(f, err)
		return
	}

	res := s.runFrame(lines, f.now, f.pcb, f.queue, f.taskID, "exec")
	s.splice(f, res)
}

func (s *Simulator) execDelay() record.Tick {
	return record.Tick(s.random.Intn(MaxExecDelay) + 1)
}

func (s *Simulator) emit(f *frame, d record.Tick, label string) {
	e := record.Entry{Time: f.now, Duration: d, Label: label}
	s.append(f, e)
	s.advance(f, e.End())
}

// append records an entry without moving the clock of the frame.
func (s *Simulator) append(f *frame, e record.Entry) {
	f.result.Execution = append(f.result.Execution, e)

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosEntry,
		Item:   e,
	})
}

func (s *Simulator) snapshot(
	f *frame,
	traceText string,
	running *process.PCB,
	queue process.WaitQueue,
) {
	snap := record.Snapshot{
		Time:  f.now,
		Trace: traceText,
		Table: process.Table(running, queue),
	}
	f.result.Status = append(f.result.Status, snap)

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosSnapshot,
		Item:   snap,
		Detail: running,
	})
}

// fail stops the frame on err.
func (s *Simulator) fail(f *frame, err error) {
	fatal := record.Fatal{
		Time: f.now,
		Kind: kindOf(err),
		PID:  f.pcb.PID,
		Err:  err,
	}
	f.result.Status = append(f.result.Status, fatal)
	f.result.Fatals = append(f.result.Fatals, fatal)

	s.logf("pid %d stopped at %d: %s: %v", fatal.PID, fatal.Time, fatal.Kind, err)

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosFatal,
		Item:   fatal,
		Detail: f.taskID,
	})
}

// splice appends the output of a nested frame and continues from its clock.
func (s *Simulator) splice(f *frame, res Result) {
	f.result.Execution = append(f.result.Execution, res.Execution...)
	f.result.Status = append(f.result.Status, res.Status...)
	f.result.Fatals = append(f.result.Fatals, res.Fatals...)
	s.advance(f, res.Clock)
}

func (s *Simulator) advance(f *frame, now record.Tick) {
	f.now = now
	s.now = now
}
