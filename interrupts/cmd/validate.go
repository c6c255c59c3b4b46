package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JStLouisCode/SYSC4001-A2-P3/config"
	"github.com/JStLouisCode/SYSC4001-A2-P3/interrupt"
	"github.com/JStLouisCode/SYSC4001-A2-P3/memory"
	"github.com/JStLouisCode/SYSC4001-A2-P3/trace"
)

var errInvalidInput = errors.New("input is not valid")

var validateCmd = &cobra.Command{
	Use:   "validate <trace> <vector_table> <device_table> <external_files>",
	Short: "Check a trace and the traces it execs without simulating.",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		programDir := stringFlagOrEnv(cmd, "program-dir", envProgramDir)
		if programDir == "" {
			programDir = filepath.Dir(args[0])
		}

		partitions, _ := cmd.Flags().GetIntSlice("partitions")

		tables, err := config.Load(args[1], args[2], args[3])
		if err != nil {
			return err
		}

		v := &validator{
			tables:  tables,
			source:  trace.NewDirSource(programDir),
			largest: memory.NewPool(partitions...).Largest(),
			visited: make(map[string]bool),
			out:     cmd.OutOrStdout(),
		}

		lines, err := trace.LoadFile(args[0])
		if err != nil {
			return err
		}

		v.check(filepath.Base(args[0]), lines)

		if v.problems > 0 {
			return fmt.Errorf("%w: %d problems", errInvalidInput, v.problems)
		}

		fmt.Fprintln(v.out, "ok")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("program-dir", "",
		"Directory of the traces of exec'd programs [$"+envProgramDir+"]")
	validateCmd.Flags().IntSlice("partitions", memory.DefaultCapacities,
		"Capacities of the memory partitions, in Mb")
}

// validator reports what would stop a branch during a simulation.
type validator struct {
	tables   config.Tables
	source   trace.Source
	largest  int
	visited  map[string]bool
	out      io.Writer
	problems int
}

func (v *validator) report(where string, line int, format string, args ...interface{}) {
	v.problems++
	fmt.Fprintf(v.out, "%s:%d: %s\n", where, line+1, fmt.Sprintf(format, args...))
}

func (v *validator) check(where string, lines []string) {
	for i, line := range lines {
		evt, err := trace.Parse(line)
		if err != nil {
			v.report(where, i, "%v", err)
			continue
		}

		switch evt.Activity {
		case trace.Syscall, trace.EndIO:
			v.checkDevice(where, i, evt.Operand, true)
		case trace.Fork:
			v.checkDevice(where, i, interrupt.ForkVector, false)
		case trace.Exec:
			v.checkDevice(where, i, interrupt.ExecVector, false)
			v.checkProgram(where, i, evt.Program)
		}
	}
}

// checkDevice reports a device without a vector and, if the device runs an
// ISR, without a delay.
func (v *validator) checkDevice(where string, line, device int, isr bool) {
	if err := interrupt.CheckDevice(
		"vector table", device, len(v.tables.Vectors)); err != nil {
		v.report(where, line, "%v", err)
		return
	}

	if !isr {
		return
	}

	if err := interrupt.CheckDevice(
		"ISR delay table", device, len(v.tables.Delays)); err != nil {
		v.report(where, line, "%v", err)
	}
}

func (v *validator) checkProgram(where string, line int, program string) {
	size, ok := v.tables.Programs.Size(program)
	if !ok {
		v.report(where, line, "unknown program %q", program)
		return
	}

	if size > v.largest {
		v.report(where, line, "%s needs %d Mb, the largest partition has %d Mb",
			program, size, v.largest)
	}

	if v.visited[program] {
		return
	}

	v.visited[program] = true

	lines, err := v.source.Load(program)
	if err != nil {
		v.report(where, line, "%v", err)
		return
	}

	v.check(program+".txt", lines)
}
