package kernel

import (
	"log"

	"github.com/JStLouisCode/SYSC4001-A2-P3/hooking"
	"github.com/JStLouisCode/SYSC4001-A2-P3/record"
)

// EntryLogger is a hook that prints what a simulator records as it happens.
type EntryLogger struct {
	*log.Logger
}

// NewEntryLogger creates an EntryLogger that prints to logger.
func NewEntryLogger(logger *log.Logger) *EntryLogger {
	return &EntryLogger{Logger: logger}
}

// Func prints the entry, snapshot, or fatal error carried by ctx.
func (h *EntryLogger) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case HookPosEntry:
		e := ctx.Item.(record.Entry)
		h.Printf("entry: %s", e)
	case HookPosSnapshot:
		s := ctx.Item.(record.Snapshot)
		h.Printf("snapshot: time %d, %s", s.Time, s.Trace)
	case HookPosFatal:
		f := ctx.Item.(record.Fatal)
		h.Printf("fatal: time %d, pid %d, %s: %v", f.Time, f.PID, f.Kind, f.Err)
	}
}
