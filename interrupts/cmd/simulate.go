package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JStLouisCode/SYSC4001-A2-P3/config"
	"github.com/JStLouisCode/SYSC4001-A2-P3/hooking"
	"github.com/JStLouisCode/SYSC4001-A2-P3/kernel"
	"github.com/JStLouisCode/SYSC4001-A2-P3/memory"
	"github.com/JStLouisCode/SYSC4001-A2-P3/monitoring"
	"github.com/JStLouisCode/SYSC4001-A2-P3/record"
	"github.com/JStLouisCode/SYSC4001-A2-P3/trace"
	"github.com/JStLouisCode/SYSC4001-A2-P3/tracing"
)

// Names of the files written by a simulation.
const (
	ExecutionFile = "execution.txt"
	StatusFile    = "system_status.txt"
)

type simulateOptions struct {
	tracePath    string
	vectorPath   string
	delayPath    string
	externalPath string

	programDir string
	outDir     string
	seed       int64
	seeded     bool
	partitions []int
	verbose    bool
	dumpState  string
	profile    string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <trace> <vector_table> <device_table> <external_files>",
	Short: "Run a trace and write the execution and status logs.",
	Long: `simulate interprets the trace of the initial process. Programs ` +
		`started by EXEC are read from <program>.txt in the program ` +
		`directory, which defaults to the directory of the trace.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := parseSimulateOptions(cmd, args)
		if err != nil {
			return err
		}

		return runSimulation(opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	flags := simulateCmd.Flags()
	flags.String("program-dir", "",
		"Directory of the traces of exec'd programs [$"+envProgramDir+"]")
	flags.String("out-dir", ".",
		"Directory to write the logs into [$"+envOutputDir+"]")
	flags.Int64("seed", 0,
		"Seed of the random EXEC delays [$"+envSeed+"]")
	flags.IntSlice("partitions", memory.DefaultCapacities,
		"Capacities of the memory partitions, in Mb")
	flags.BoolP("verbose", "v", false,
		"Log every entry, snapshot, and failure to stderr")
	flags.String("dump-state", "",
		"Write the final state of the machine into this file")
	flags.String("profile", "",
		"Write a CPU profile of the simulator into this file")
}

func parseSimulateOptions(
	cmd *cobra.Command,
	args []string,
) (simulateOptions, error) {
	flags := cmd.Flags()
	opts := simulateOptions{
		tracePath:    args[0],
		vectorPath:   args[1],
		delayPath:    args[2],
		externalPath: args[3],
	}

	opts.programDir = stringFlagOrEnv(cmd, "program-dir", envProgramDir)
	if opts.programDir == "" {
		opts.programDir = filepath.Dir(opts.tracePath)
	}

	opts.outDir = stringFlagOrEnv(cmd, "out-dir", envOutputDir)

	if flags.Changed("seed") {
		opts.seed, _ = flags.GetInt64("seed")
		opts.seeded = true
	} else if v, ok := os.LookupEnv(envSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", envSeed, err)
		}

		opts.seed = seed
		opts.seeded = true
	}

	opts.partitions, _ = flags.GetIntSlice("partitions")
	for _, c := range opts.partitions {
		if c < 0 {
			return opts, fmt.Errorf("negative partition capacity %d", c)
		}
	}

	opts.verbose, _ = flags.GetBool("verbose")
	opts.dumpState, _ = flags.GetString("dump-state")
	opts.profile, _ = flags.GetString("profile")

	return opts, nil
}

func stringFlagOrEnv(cmd *cobra.Command, flag, env string) string {
	value, _ := cmd.Flags().GetString(flag)
	if cmd.Flags().Changed(flag) {
		return value
	}

	if v, ok := os.LookupEnv(env); ok && v != "" {
		return v
	}

	return value
}

func runSimulation(opts simulateOptions, out io.Writer) error {
	tables, err := config.Load(opts.vectorPath, opts.delayPath, opts.externalPath)
	if err != nil {
		return err
	}

	lines, err := trace.LoadFile(opts.tracePath)
	if err != nil {
		return err
	}

	builder := kernel.MakeBuilder().
		WithTables(tables).
		WithPartitions(opts.partitions...).
		WithSource(trace.NewDirSource(opts.programDir))
	if opts.seeded {
		builder = builder.WithSeed(opts.seed)
	}

	var logger *log.Logger
	if opts.verbose {
		logger = log.New(os.Stderr, "", 0)
		builder = builder.WithLogger(logger)
	}

	sim := builder.Build()
	if logger != nil {
		sim.AcceptHook(kernel.NewEntryLogger(logger))
		acceptBackTraceHook(sim, logger.Writer())

		if err := printRegistry(out, tables.Programs); err != nil {
			return err
		}
	}

	steps := tracing.NewStepCountTracer(tracing.AllTasks)
	tracing.CollectTrace(sim, steps)

	forks := tracing.NewAverageTimeTracer(sim, tracing.TasksOfWhat("fork"))
	tracing.CollectTrace(sim, forks)

	totals := map[string]*tracing.TotalTimeTracer{}
	for _, what := range []string{"fork", "exec"} {
		totals[what] = tracing.NewTotalTimeTracer(sim, tracing.TasksOfWhat(what))
		tracing.CollectTrace(sim, totals[what])
	}

	monitor := monitoring.NewMonitor()
	monitor.RegisterSimulator(sim)

	var profiler *monitoring.Profiler
	if opts.profile != "" {
		profiler = &monitoring.Profiler{}
		if err := profiler.Start(); err != nil {
			return err
		}
	}

	res, err := sim.Simulate(lines)
	if err != nil {
		if profiler != nil {
			_, _ = profiler.Stop()
		}

		return err
	}

	if err := writeLogs(opts.outDir, res); err != nil {
		return err
	}

	frames, _ := monitor.Frames()
	report := summary{
		res:    res,
		frames: frames,
		steps:  steps,
		forks:  forks,
		totals: totals,
	}
	if err := report.print(out); err != nil {
		return err
	}

	if profiler != nil {
		if err := writeProfile(profiler, opts.profile, out); err != nil {
			return err
		}
	}

	if opts.dumpState != "" {
		if err := dumpState(monitor, opts.dumpState); err != nil {
			return err
		}
	}

	if opts.verbose {
		usage, err := monitor.ResourceUsage()
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "host: %.1f%% CPU, %d bytes resident\n",
			usage.CPUPercent, usage.MemorySize)
	}

	return nil
}

// printRegistry lists the programs that EXEC can load.
func printRegistry(w io.Writer, programs *config.Registry) error {
	if _, err := fmt.Fprintf(w, "external files: %d\n", programs.Len()); err != nil {
		return err
	}

	for _, f := range programs.Files() {
		if _, err := fmt.Fprintf(w, "  %s, %d\n", f.Name, f.Size); err != nil {
			return err
		}
	}

	return nil
}

func writeLogs(dir string, res kernel.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	execution := record.NewFileWriter(filepath.Join(dir, ExecutionFile))
	if err := execution.Init(); err != nil {
		return err
	}

	if err := execution.WriteAll(res.Execution); err != nil {
		return err
	}

	if err := execution.Close(); err != nil {
		return err
	}

	status := record.NewFileWriter(filepath.Join(dir, StatusFile))
	if err := status.Init(); err != nil {
		return err
	}

	if err := status.WriteBlocks(res.Status); err != nil {
		return err
	}

	return status.Close()
}

// acceptBackTraceHook prints the frames leading to every failed branch.
func acceptBackTraceHook(sim *kernel.Simulator, w io.Writer) {
	backTrace := tracing.NewBackTraceTracer(tracing.WriterTaskPrinter{W: w})
	tracing.CollectTrace(sim, backTrace)

	sim.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
		if ctx.Pos != kernel.HookPosFatal {
			return
		}

		fmt.Fprintln(w, "frames:")
		backTrace.DumpBackTrace(ctx.Detail.(string))
	}))
}

// summary is what a simulation prints once it is over.
type summary struct {
	res    kernel.Result
	frames uint64
	steps  *tracing.StepCountTracer
	forks  *tracing.AverageTimeTracer
	totals map[string]*tracing.TotalTimeTracer
}

func (s summary) print(w io.Writer) error {
	for _, name := range s.steps.GetStepNames() {
		_, err := fmt.Fprintf(w, "%-10s %d\n", name, s.steps.GetStepCount(name))
		if err != nil {
			return err
		}
	}

	if s.forks.TotalCount() > 0 {
		_, err := fmt.Fprintf(w, "forked children ran %.1f on average\n",
			s.forks.AverageTime())
		if err != nil {
			return err
		}
	}

	for _, what := range []string{"fork", "exec"} {
		t := s.totals[what]
		if t == nil || t.TaskCount() == 0 {
			continue
		}

		_, err := fmt.Fprintf(w, "%s frames: %d, %d in total\n",
			what, t.TaskCount(), t.TotalTime())
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w,
		"frames: %d, entries: %d, snapshots: %d, fatal errors: %d\n"+
			"final clock: %d\n",
		s.frames, len(s.res.Execution), len(s.res.Status.Snapshots()),
		len(s.res.Fatals), s.res.Clock)

	return err
}

func writeProfile(p *monitoring.Profiler, path string, out io.Writer) error {
	prof, err := p.Stop()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, p.Raw(), 0o644); err != nil {
		return err
	}

	return monitoring.WriteSummary(out, prof, 10)
}

func dumpState(m *monitoring.Monitor, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return m.DumpState(f, 3)
}
