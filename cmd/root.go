package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nanolang/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "nanolang",
	Short: "Interpreter for the nanolang scripting language",
	Long: `nanolang is a tiny line-oriented scripting language: numeric variables,
expressions with standard precedence, print/set/add statements, and bounded
loop and if blocks delimited by "(" ... ")" lines.

Run a script with "nanolang run script.nan" or start an interactive session
with "nanolang repl".`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("nanolang %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
