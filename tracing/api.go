// Package tracing follows the interpretation frames of the kernel as tasks,
// and provides tracers that summarize them.
package tracing

import (
	"github.com/JStLouisCode/SYSC4001-A2-P3/hooking"
)

// NamedHookable is something that has a name and can be hooked.
type NamedHookable interface {
	hooking.Hookable
	Name() string
	InvokeHook(ctx hooking.HookCtx)
}

// Hook positions of task events.
var (
	HookPosTaskStart = &hooking.HookPos{Name: "TaskStart"}
	HookPosTaskStep  = &hooking.HookPos{Name: "TaskStep"}
	HookPosTaskEnd   = &hooking.HookPos{Name: "TaskEnd"}
)

// StartTask notifies the hooks of the domain that a task starts.
func StartTask(
	id string,
	parentID string,
	domain NamedHookable,
	kind string,
	what string,
	detail interface{},
) {
	if domain.NumHooks() == 0 {
		return
	}

	allRequiredFieldsMustBeNotEmpty(id, domain, kind, what)

	task := Task{
		ID:       id,
		ParentID: parentID,
		Kind:     kind,
		What:     what,
		Where:    domain.Name(),
		Detail:   detail,
	}
	domain.InvokeHook(hooking.HookCtx{
		Domain: domain,
		Pos:    HookPosTaskStart,
		Item:   task,
	})
}

func allRequiredFieldsMustBeNotEmpty(
	id string,
	domain NamedHookable,
	kind string,
	what string,
) {
	if id == "" {
		panic("id must not be empty")
	}

	if domain.Name() == "" {
		panic("domain must have a name")
	}

	if kind == "" {
		panic("kind must not be empty")
	}

	if what == "" {
		panic("what must not be empty")
	}
}

// AddTaskStep marks that a task reached a milestone. The step is stamped with
// the time of the domain if the domain can tell it.
func AddTaskStep(id string, domain NamedHookable, what string) {
	if domain.NumHooks() == 0 {
		return
	}

	step := TaskStep{What: what}
	if clock, ok := domain.(TimeTeller); ok {
		step.Time = clock.CurrentTime()
	}

	task := Task{
		ID:    id,
		Steps: []TaskStep{step},
	}
	domain.InvokeHook(hooking.HookCtx{
		Domain: domain,
		Pos:    HookPosTaskStep,
		Item:   task,
	})
}

// EndTask notifies the hooks of the domain that a task ends.
func EndTask(id string, domain NamedHookable) {
	if domain.NumHooks() == 0 {
		return
	}

	domain.InvokeHook(hooking.HookCtx{
		Domain: domain,
		Pos:    HookPosTaskEnd,
		Item:   Task{ID: id},
	})
}
