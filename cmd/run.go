package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nanolang/interpreter"
)

var runMaxIterations int

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a nanolang script file",
	Long: `Run reads the whole script file and executes it line by line against a
fresh interpreter. Print output and error lines are written to stdout in
execution order; a script error never stops the run. Only a script file that
cannot be read fails the command.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("could not read %s: %w", args[0], err)
		}

		in := interpreter.NewWithOutput(cmd.OutOrStdout())
		if runMaxIterations > 0 {
			in.SetMaxLoopIterations(runMaxIterations)
		}
		in.Execute(string(src))
		return nil
	},
}

func init() {
	runCmd.Flags().IntVarP(&runMaxIterations, "max-iterations", "n", 0, "Cap iterations of any single loop (0 = unlimited)")
	rootCmd.AddCommand(runCmd)
}
