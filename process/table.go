package process

import (
	"fmt"
	"strings"
)

const (
	stateRunning = "running"
	stateWaiting = "waiting"
)

var (
	tableHeader = fmt.Sprintf("| %4s | %12s | %16s | %4s | %8s |",
		"PID", "program name", "partition number", "size", "state")
	tableRule = "+" + strings.Repeat("-", len(tableHeader)-2) + "+"
)

// Table renders the running process followed by the wait queue, one row per
// process.
func Table(running *PCB, queue WaitQueue) string {
	var b strings.Builder

	b.WriteString(tableRule + "\n")
	b.WriteString(tableHeader + "\n")
	b.WriteString(tableRule + "\n")
	writeRow(&b, running, stateRunning)
	for i := range queue {
		writeRow(&b, &queue[i], stateWaiting)
	}
	b.WriteString(tableRule + "\n")

	return b.String()
}

func writeRow(b *strings.Builder, p *PCB, state string) {
	fmt.Fprintf(b, "| %4d | %12s | %16d | %4d | %8s |\n",
		p.PID, p.Program, p.Partition, p.Size, state)
}
