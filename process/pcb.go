// Package process models the simulated processes: their control blocks, the
// pid sequence, and the queue of parents blocked on a child.
package process

import "fmt"

// Sentinels for PCB fields.
const (
	// NoParent is the parent pid of the initial process.
	NoParent = -1

	// NoPartition marks a PCB that holds no memory partition.
	NoPartition = -1
)

// InitPID is the pid of the initial process. Pids issued by a Generator
// start above it.
const InitPID = 0

// A PCB is the control block of a simulated process.
type PCB struct {
	PID       int
	ParentPID int
	Program   string
	Size      int
	Partition int
}

// NewInit returns the control block of the initial process. It holds no
// partition yet.
func NewInit() *PCB {
	return &PCB{
		PID:       InitPID,
		ParentPID: NoParent,
		Program:   "init",
		Size:      1,
		Partition: NoPartition,
	}
}

// Fork returns the child of p. The child inherits the image and the
// partition of its parent.
func (p *PCB) Fork(pid int) *PCB {
	child := *p
	child.PID = pid
	child.ParentPID = p.PID

	return &child
}

// Replace overwrites the image of p. The pid is kept and the partition is
// left to the caller.
func (p *PCB) Replace(program string, size int) {
	p.Program = program
	p.Size = size
}

// HasPartition tells if p holds a partition.
func (p *PCB) HasPartition() bool {
	return p.Partition != NoPartition
}

func (p *PCB) String() string {
	return fmt.Sprintf("pid %d (parent %d) %s, %d Mb, partition %d",
		p.PID, p.ParentPID, p.Program, p.Size, p.Partition)
}

// WaitQueue holds the parents that blocked on a child at FORK time. Entries
// are copies taken when the parent blocked and are never removed.
type WaitQueue []PCB

// Push returns the queue with a copy of p appended. The receiver is not
// modified, so a queue handed to a child frame stays valid in the parent.
func (q WaitQueue) Push(p *PCB) WaitQueue {
	out := make(WaitQueue, len(q), len(q)+1)
	copy(out, q)

	return append(out, *p)
}

// PIDs lists the pids in the queue in order.
func (q WaitQueue) PIDs() []int {
	pids := make([]int, len(q))
	for i, p := range q {
		pids[i] = p.PID
	}

	return pids
}
