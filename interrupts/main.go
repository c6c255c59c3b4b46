// Command interrupts simulates how an operating system services interrupts,
// forks, and execs while it runs a program trace.
package main

import (
	"github.com/JStLouisCode/SYSC4001-A2-P3/interrupts/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
