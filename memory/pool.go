// Package memory manages the fixed partitions of the simulated main memory.
package memory

import (
	"fmt"
	"strings"

	"github.com/JStLouisCode/SYSC4001-A2-P3/process"
)

// DefaultCapacities is the partition layout of the simulated machine, in Mb.
// Partition numbers start at 1 and follow this order.
var DefaultCapacities = []int{40, 25, 15, 10, 8, 2}

// A Partition is a fixed-capacity region of memory.
type Partition struct {
	Number   int
	Capacity int

	// Occupied is true while a process owns the partition. Owner and Program
	// describe that process.
	Occupied bool
	Owner    int
	Program  string
}

// A Pool is the ordered set of memory partitions.
//
// A partition is owned by at most one PCB at a time. A PCB refers to its
// partition by number; the pool never hands out pointers into itself.
type Pool struct {
	partitions []Partition
}

// NewPool creates a pool with one free partition per capacity, numbered from
// 1 in the given order.
func NewPool(capacities ...int) *Pool {
	p := &Pool{partitions: make([]Partition, len(capacities))}
	for i, c := range capacities {
		if c < 0 {
			panic(fmt.Sprintf("partition %d has negative capacity", i+1))
		}

		p.partitions[i] = Partition{Number: i + 1, Capacity: c}
	}

	return p
}

// DefaultPool creates a pool with the default layout.
func DefaultPool() *Pool {
	return NewPool(DefaultCapacities...)
}

// Allocate places pcb into the smallest free partition that can hold it. On
// a tie the lower partition number wins. If no partition fits, nothing
// changes and false is returned.
func (p *Pool) Allocate(pcb *process.PCB) bool {
	best := -1
	for i, part := range p.partitions {
		if part.Occupied || part.Capacity < pcb.Size {
			continue
		}

		if best < 0 || part.Capacity < p.partitions[best].Capacity {
			best = i
		}
	}

	if best < 0 {
		return false
	}

	part := &p.partitions[best]
	part.Occupied = true
	part.Owner = pcb.PID
	part.Program = pcb.Program
	pcb.Partition = part.Number

	return true
}

// Release detaches pcb from its partition. The partition becomes free only if
// pcb owns it; a child that inherited its parent's partition through a fork
// leaves the parent's memory in place. Releasing a PCB without a partition
// does nothing.
func (p *Pool) Release(pcb *process.PCB) {
	if !pcb.HasPartition() {
		return
	}

	if part := p.partition(pcb.Partition); part != nil &&
		part.Occupied && part.Owner == pcb.PID {
		part.Occupied = false
		part.Owner = 0
		part.Program = ""
	}

	pcb.Partition = process.NoPartition
}

// Owner returns the pid owning partition number n.
func (p *Pool) Owner(n int) (int, bool) {
	part := p.partition(n)
	if part == nil || !part.Occupied {
		return 0, false
	}

	return part.Owner, true
}

// Partitions returns a copy of the partitions in number order.
func (p *Pool) Partitions() []Partition {
	out := make([]Partition, len(p.partitions))
	copy(out, p.partitions)

	return out
}

// Free returns the number of unoccupied partitions.
func (p *Pool) Free() int {
	n := 0
	for _, part := range p.partitions {
		if !part.Occupied {
			n++
		}
	}

	return n
}

// Largest returns the capacity of the largest partition, or 0 for an empty
// pool.
func (p *Pool) Largest() int {
	largest := 0
	for _, part := range p.partitions {
		if part.Capacity > largest {
			largest = part.Capacity
		}
	}

	return largest
}

func (p *Pool) partition(n int) *Partition {
	if n < 1 || n > len(p.partitions) {
		return nil
	}

	return &p.partitions[n-1]
}

func (p *Pool) String() string {
	var b strings.Builder
	for _, part := range p.partitions {
		occupant := "empty"
		if part.Occupied {
			occupant = fmt.Sprintf("%s (pid %d)", part.Program, part.Owner)
		}

		fmt.Fprintf(&b, "partition %d, %d Mb: %s\n",
			part.Number, part.Capacity, occupant)
	}

	return b.String()
}
