package tracing

import "github.com/JStLouisCode/SYSC4001-A2-P3/record"

// A TaskStep is a milestone in the processing of a task.
type TaskStep struct {
	Time record.Tick `json:"time"`
	What string      `json:"what"`
}

// A Task is a unit of work followed by the tracers. For the kernel, a task is
// one interpretation frame: the initial process, a forked child, or an exec'd
// image.
type Task struct {
	ID        string      `json:"id"`
	ParentID  string      `json:"parent_id"`
	Kind      string      `json:"kind"`
	What      string      `json:"what"`
	Where     string      `json:"where"`
	StartTime record.Tick `json:"start_time"`
	EndTime   record.Tick `json:"end_time"`
	Steps     []TaskStep  `json:"steps"`
	Detail    interface{} `json:"-"`
}

// TaskFilter selects the tasks a tracer is interested in.
type TaskFilter func(t Task) bool

// AllTasks is a TaskFilter that accepts every task.
func AllTasks(Task) bool {
	return true
}

// TasksOfWhat returns a TaskFilter that accepts the tasks with the given What.
func TasksOfWhat(what string) TaskFilter {
	return func(t Task) bool {
		return t.What == what
	}
}
