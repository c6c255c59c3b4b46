package trace

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxOperand is the largest operand a line may carry. It keeps the simulated
// clock far from overflowing.
const MaxOperand = math.MaxInt32

// ErrParse is matched by every error returned from Parse.
var ErrParse = errors.New("malformed trace line")

// ParseError describes why a trace line could not be parsed.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse trace line %q: %s", e.Line, e.Reason)
}

// Is makes errors.Is(err, ErrParse) hold for every ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Parse turns one trace line into an Event.
//
// A line has the form "TAG, OPERAND". An EXEC line names its program either
// after the tag ("EXEC program1, 50") or as a non-numeric operand
// ("EXEC, program1"). A missing operand reads as 0.
func Parse(line string) (Event, error) {
	head, operand, hasOperand := strings.Cut(line, ",")
	head = strings.TrimSpace(head)
	operand = strings.TrimSpace(operand)

	if head == "" {
		return Event{}, &ParseError{Line: line, Reason: "missing activity"}
	}

	fields := strings.Fields(head)
	activity, ok := ActivityFromTag(fields[0])
	if !ok {
		return Event{}, &ParseError{
			Line:   line,
			Reason: fmt.Sprintf("unknown activity %q", fields[0]),
		}
	}

	evt := Event{Activity: activity}

	switch len(fields) {
	case 1:
	case 2:
		if activity != Exec {
			return Event{}, &ParseError{
				Line:   line,
				Reason: fmt.Sprintf("%s does not take a program name", activity),
			}
		}
		evt.Program = fields[1]
	default:
		return Event{}, &ParseError{Line: line, Reason: "too many fields"}
	}

	if hasOperand && operand != "" {
		if err := parseOperand(&evt, operand, line); err != nil {
			return Event{}, err
		}
	}

	if activity == Exec && evt.Program == "" {
		return Event{}, &ParseError{Line: line, Reason: "EXEC without program"}
	}

	return evt, nil
}

func parseOperand(evt *Event, operand, line string) error {
	n, err := strconv.Atoi(operand)
	if err == nil {
		if n < 0 {
			return &ParseError{Line: line, Reason: "negative operand"}
		}

		if n > MaxOperand {
			return &ParseError{
				Line:   line,
				Reason: fmt.Sprintf("operand is larger than %d", MaxOperand),
			}
		}

		evt.Operand = n

		return nil
	}

	if errors.Is(err, strconv.ErrRange) {
		return &ParseError{Line: line, Reason: "operand out of range"}
	}

	if evt.Activity == Exec && evt.Program == "" &&
		!strings.ContainsAny(operand, " \t") {
		evt.Program = operand
		return nil
	}

	return &ParseError{
		Line:   line,
		Reason: fmt.Sprintf("operand %q is not a number", operand),
	}
}

// ActivityOf returns the activity of a line, or false if the line does not
// parse.
func ActivityOf(line string) (Activity, bool) {
	evt, err := Parse(line)
	if err != nil {
		return 0, false
	}

	return evt.Activity, true
}
