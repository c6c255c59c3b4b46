package tracing

import "github.com/JStLouisCode/SYSC4001-A2-P3/record"

// A Tracer collects task traces.
type Tracer interface {
	StartTask(task Task)
	StepTask(task Task)
	EndTask(task Task)
}

// TimeTeller tells the current simulated time.
type TimeTeller interface {
	CurrentTime() record.Tick
}
