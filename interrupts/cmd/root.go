// Package cmd provides the command-line interface of the interrupt
// simulator.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Environment variables that provide flag defaults. They can also be set in a
// .env file in the working directory.
const (
	envSeed       = "INTERRUPTS_SEED"
	envProgramDir = "INTERRUPTS_PROGRAM_DIR"
	envOutputDir  = "INTERRUPTS_OUTPUT_DIR"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "interrupts",
	Short: "Simulate interrupt, fork, and exec handling on a program trace.",
	Long: `interrupts reads a program trace, a vector table, an ISR delay ` +
		`table, and a list of external programs, and writes the time line ` +
		`of the simulated kernel into execution.txt and the process tables ` +
		`into system_status.txt.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		return loadEnv(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env",
		"File with environment defaults. It is skipped if missing.")
}

// loadEnv reads environment defaults from path. Variables already set in the
// environment win.
func loadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
