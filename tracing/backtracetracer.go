package tracing

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// TaskPrinter can print tasks with a format.
type TaskPrinter interface {
	Print(task Task)
}

// WriterTaskPrinter prints one task per line.
type WriterTaskPrinter struct {
	W io.Writer
}

// Print writes kind, what, where, and the detail of the task.
func (p WriterTaskPrinter) Print(task Task) {
	fmt.Fprintf(p.W, "%s-%s@%s", task.Kind, task.What, task.Where)

	if task.Detail != nil {
		fmt.Fprintf(p.W, " %v", task.Detail)
	}

	fmt.Fprintln(p.W)
}

// BackTraceTracer keeps the tasks that have not finished, so that the chain
// of frames leading to a task can be printed.
type BackTraceTracer struct {
	printer      TaskPrinter
	tracingTasks map[string]Task
	lock         sync.Mutex
}

// NewBackTraceTracer creates a new BackTraceTracer. A nil printer prints to
// stdout.
func NewBackTraceTracer(printer TaskPrinter) *BackTraceTracer {
	t := &BackTraceTracer{
		printer:      printer,
		tracingTasks: make(map[string]Task),
	}

	if t.printer == nil {
		t.printer = WriterTaskPrinter{W: os.Stdout}
	}

	return t
}

// StartTask keeps the task.
func (t *BackTraceTracer) StartTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.tracingTasks[task.ID] = task
}

// StepTask does nothing.
func (t *BackTraceTracer) StepTask(_ Task) {
}

// EndTask forgets the task.
func (t *BackTraceTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	delete(t.tracingTasks, task.ID)
}

// DumpBackTrace prints the unfinished task with the given id and then its
// ancestors. It returns the number of tasks printed.
func (t *BackTraceTracer) DumpBackTrace(id string) int {
	t.lock.Lock()
	defer t.lock.Unlock()

	n := 0

	for id != "" {
		task, ok := t.tracingTasks[id]
		if !ok {
			break
		}

		t.printer.Print(task)
		n++
		id = task.ParentID
	}

	return n
}
