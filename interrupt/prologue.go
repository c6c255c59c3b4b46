// Package interrupt simulates the fixed cost of entering an interrupt or
// trap handler through the vector table.
package interrupt

import (
	"errors"
	"fmt"

	"github.com/JStLouisCode/SYSC4001-A2-P3/record"
)

// Costs and vectors used by the kernel.
const (
	// ContextSaveCost is the time spent saving the context on every trap.
	ContextSaveCost record.Tick = 10

	// ForkVector is the vector serving the fork system call.
	ForkVector = 2

	// ExecVector is the vector serving the exec system call.
	ExecVector = 3
)

// ErrOutOfRangeVector is matched by errors about a device index that the
// vector or ISR delay table does not cover.
var ErrOutOfRangeVector = errors.New("device index out of range")

// VectorError reports a device index outside of a table.
type VectorError struct {
	Table  string
	Device int
	Size   int
}

func (e *VectorError) Error() string {
	return fmt.Sprintf("device %d is outside of the %s (%d entries)",
		e.Device, e.Table, e.Size)
}

// Is makes errors.Is(err, ErrOutOfRangeVector) hold for every VectorError.
func (e *VectorError) Is(target error) bool {
	return target == ErrOutOfRangeVector
}

// CheckDevice returns a VectorError if device does not index a table of the
// given size.
func CheckDevice(table string, device, size int) error {
	if device < 0 || device >= size {
		return &VectorError{Table: table, Device: device, Size: size}
	}

	return nil
}

// Enter simulates switching to kernel mode, saving the context, and looking
// up the vector of the device. It returns the entries and the time at which
// the handler can start. Nothing is emitted if the device has no vector.
func Enter(
	now record.Tick,
	device int,
	contextSave record.Tick,
	vectors []string,
) ([]record.Entry, record.Tick, error) {
	if err := CheckDevice("vector table", device, len(vectors)); err != nil {
		return nil, now, err
	}

	entries := make([]record.Entry, 0, 3)
	step := func(d record.Tick, label string) {
		entries = append(entries, record.Entry{Time: now, Duration: d, Label: label})
		now += d
	}

	step(1, "switch to kernel mode")
	step(contextSave, "context saved")
	step(1, fmt.Sprintf("find vector %d in memory position %s",
		device, vectors[device]))

	return entries, now, nil
}
