// Package trace parses the lines of a simulated program trace and loads
// traces from storage.
package trace

import "fmt"

// Activity is the kind of a trace event.
type Activity int

// The closed set of trace activities.
const (
	CPU Activity = iota
	Syscall
	EndIO
	Fork
	Exec
	IfChild
	IfParent
	EndIf
)

var activityTags = [...]string{
	CPU:      "CPU",
	Syscall:  "SYSCALL",
	EndIO:    "END_IO",
	Fork:     "FORK",
	Exec:     "EXEC",
	IfChild:  "IF_CHILD",
	IfParent: "IF_PARENT",
	EndIf:    "ENDIF",
}

// Activities lists every activity in declaration order.
func Activities() []Activity {
	return []Activity{CPU, Syscall, EndIO, Fork, Exec, IfChild, IfParent, EndIf}
}

// String returns the tag used for the activity in trace files.
func (a Activity) String() string {
	if a < 0 || int(a) >= len(activityTags) {
		return fmt.Sprintf("Activity(%d)", int(a))
	}

	return activityTags[a]
}

// IsMarker tells if the activity only delimits fork branches.
func (a Activity) IsMarker() bool {
	switch a {
	case IfChild, IfParent, EndIf:
		return true
	default:
		return false
	}
}

// ActivityFromTag looks up the activity with the given trace tag.
func ActivityFromTag(tag string) (Activity, bool) {
	for i, t := range activityTags {
		if t == tag {
			return Activity(i), true
		}
	}

	return 0, false
}

// An Event is one parsed trace line.
type Event struct {
	Activity Activity

	// Operand is the burst length, the device index, or the duration of the
	// event, depending on the activity.
	Operand int

	// Program is the image named by an EXEC event.
	Program string
}

// String renders the event back in trace-file format.
func (e Event) String() string {
	if e.Activity == Exec {
		return fmt.Sprintf("EXEC %s, %d", e.Program, e.Operand)
	}

	return fmt.Sprintf("%s, %d", e.Activity, e.Operand)
}
