package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/JStLouisCode/SYSC4001-A2-P3/memory"
)

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

	return path
}

var _ = Describe("Commands", func() {
	var (
		dir  string
		opts simulateOptions
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "interrupts")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		opts = simulateOptions{
			tracePath: writeFile(dir, "trace.txt",
				"FORK, 10\nIF_CHILD, 0\nEXEC program1, 50\n"+
					"IF_PARENT, 0\nCPU, 5\nENDIF, 0\n"),
			vectorPath: writeFile(dir, "vector_table.txt",
				"0x0000\n0x0002\n0x0004\n0x0006\n0x0008\n"),
			delayPath:    writeFile(dir, "device_table.txt", "20\n30\n40\n50\n60\n"),
			externalPath: writeFile(dir, "external_files.txt", "program1, 10\n"),
			programDir:   dir,
			outDir:       filepath.Join(dir, "out"),
			seed:         7,
			seeded:       true,
			partitions:   memory.DefaultCapacities,
		}
		writeFile(dir, "program1.txt", "SYSCALL, 4\n")
	})

	It("should write both logs", func() {
		var out bytes.Buffer

		Expect(runSimulation(opts, &out)).To(Succeed())

		execution, err := os.ReadFile(filepath.Join(opts.outDir, ExecutionFile))
		Expect(err).NotTo(HaveOccurred())
		lines := strings.Split(strings.TrimSpace(string(execution)), "\n")
		Expect(lines[0]).To(Equal("0, 1, switch to kernel mode"))
		Expect(lines[3]).To(Equal("12, 10, cloning the PCB"))
		Expect(lines[len(lines)-1]).To(HaveSuffix(", 5, CPU Burst"))

		status, err := os.ReadFile(filepath.Join(opts.outDir, StatusFile))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(status)).To(HavePrefix("time: 23; current trace: FORK, 10\n"))
		Expect(string(status)).To(ContainSubstring("current trace: EXEC program1, 50"))

		Expect(out.String()).To(ContainSubstring("EXEC       1"))
		Expect(out.String()).To(ContainSubstring("frames: 3, entries: "))
		Expect(out.String()).To(ContainSubstring("fatal errors: 0"))
		Expect(out.String()).To(ContainSubstring("fork frames: 1, "))
		Expect(out.String()).To(ContainSubstring("exec frames: 1, "))
		Expect(out.String()).To(MatchRegexp(`final clock: \d+`))
	})

	It("should be reproducible with a seed", func() {
		Expect(runSimulation(opts, &bytes.Buffer{})).To(Succeed())
		first, err := os.ReadFile(filepath.Join(opts.outDir, ExecutionFile))
		Expect(err).NotTo(HaveOccurred())

		Expect(runSimulation(opts, &bytes.Buffer{})).To(Succeed())
		second, err := os.ReadFile(filepath.Join(opts.outDir, ExecutionFile))
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
	})

	It("should report failed branches", func() {
		opts.tracePath = writeFile(dir, "ghost.txt", "CPU, 3\nEXEC ghost, 1\n")
		opts.verbose = true

		var out bytes.Buffer
		Expect(runSimulation(opts, &out)).To(Succeed())

		Expect(out.String()).To(ContainSubstring("fatal errors: 1"))
		Expect(out.String()).To(ContainSubstring("host: "))
		Expect(out.String()).To(ContainSubstring("external files: 1\n  program1, 10\n"))

		status, err := os.ReadFile(filepath.Join(opts.outDir, StatusFile))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(status)).
			To(HavePrefix("time: 15; fatal error: UnknownProgram (pid 0): "))
	})

	It("should list the external files only when verbose", func() {
		var out bytes.Buffer

		Expect(runSimulation(opts, &out)).To(Succeed())

		Expect(out.String()).NotTo(ContainSubstring("external files:"))
	})

	It("should dump the machine state", func() {
		opts.dumpState = filepath.Join(dir, "state.json")

		Expect(runSimulation(opts, &bytes.Buffer{})).To(Succeed())

		info, err := os.Stat(opts.dumpState)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(BeNumerically(">", 0))
	})

	It("should fail when init does not fit", func() {
		opts.partitions = []int{}

		err := runSimulation(opts, &bytes.Buffer{})

		Expect(err).To(HaveOccurred())
	})

	It("should fail on a missing trace", func() {
		opts.tracePath = filepath.Join(dir, "nope.txt")

		Expect(runSimulation(opts, &bytes.Buffer{})).NotTo(Succeed())
	})

	It("should validate inputs", func() {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"validate",
			opts.tracePath, opts.vectorPath, opts.delayPath, opts.externalPath})

		Expect(rootCmd.Execute()).To(Succeed())
		Expect(out.String()).To(Equal("ok\n"))
	})

	It("should report invalid inputs", func() {
		bad := writeFile(dir, "bad.txt", "CPU, 1\nSYSCALL, 9\nEXEC ghost, 1\nJUMP, 3\n")

		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"validate",
			bad, opts.vectorPath, opts.delayPath, opts.externalPath})

		err := rootCmd.Execute()

		Expect(err).To(MatchError(errInvalidInput))
		Expect(out.String()).To(ContainSubstring("bad.txt:2:"))
		Expect(out.String()).To(ContainSubstring(`bad.txt:3: unknown program "ghost"`))
		Expect(out.String()).To(ContainSubstring("bad.txt:4:"))
	})

	It("should report a syscall on the fork vector without a delay", func() {
		syscall := writeFile(dir, "syscall.txt", "SYSCALL, 2\nFORK, 10\n")
		delays := writeFile(dir, "short_delays.txt", "20\n30\n")

		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"validate",
			syscall, opts.vectorPath, delays, opts.externalPath})

		err := rootCmd.Execute()

		Expect(err).To(MatchError(errInvalidInput))
		Expect(out.String()).To(ContainSubstring("syscall.txt:1:"))
		Expect(out.String()).NotTo(ContainSubstring("syscall.txt:2:"))
	})

	It("should read defaults from the environment", func() {
		envFile := writeFile(dir, "test.env", envSeed+"=11\n")
		Expect(loadEnv(envFile)).To(Succeed())
		DeferCleanup(os.Unsetenv, envSeed)

		got, err := parseSimulateOptions(simulateCmd,
			[]string{opts.tracePath, "v", "d", "e"})

		Expect(err).NotTo(HaveOccurred())
		Expect(got.seeded).To(BeTrue())
		Expect(got.seed).To(Equal(int64(11)))
		Expect(got.programDir).To(Equal(dir))
	})

	It("should skip a missing env file", func() {
		Expect(loadEnv(filepath.Join(dir, "missing.env"))).To(Succeed())
	})
})
