package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"nanolang/interpreter"
)

var replMaxIterations int

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive nanolang session",
	Long: `The REPL keeps one interpreter for the whole session: variables set in one
input survive into the next. A loop or if header buffers input until the
matching ")" line, then the whole block runs at once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL()
	},
}

func init() {
	replCmd.Flags().IntVar(&replMaxIterations, "max-iterations", 0, "Cap iterations of any single loop (0 = unlimited)")
	rootCmd.AddCommand(replCmd)
}

func runREPL() error {
	home, _ := os.UserHomeDir()
	histPath := ""
	if home != "" {
		histPath = filepath.Join(home, ".nanolang_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "nan> ",
		HistoryFile:            histPath,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		HistorySearchFold:      true,
		DisableAutoSaveHistory: false,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println(bannerStyle.Render("nanolang REPL") + dimStyle.Render("  :help for commands, :quit to exit"))
	fmt.Println(dimStyle.Render("Blocks buffer until the closing \")\" line. Variables persist across inputs."))
	fmt.Println()

	// One interpreter for the whole session (stateful).
	session := interpreter.New()
	if replMaxIterations > 0 {
		session.SetMaxLoopIterations(replMaxIterations)
	}

	var buf strings.Builder
	depth := 0

	for {
		rl.SetPrompt(replPrompt(depth))

		line, err := rl.Readline()

		// Ctrl+C clears any half-entered block.
		if err == readline.ErrInterrupt {
			if buf.Len() > 0 || depth > 0 {
				buf.Reset()
				depth = 0
				fmt.Println("^C (buffer cleared)")
			}
			continue
		}

		// Ctrl+D
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		trim := strings.TrimSpace(line)

		// Commands only when not buffering a block.
		if depth == 0 && buf.Len() == 0 && strings.HasPrefix(trim, ":") {
			if handled, cmdErr := handleREPLCommand(trim, session); handled {
				if cmdErr != nil {
					fmt.Fprintln(os.Stderr, errorStyle.Render(cmdErr.Error()))
				}
				continue
			}
		}

		buf.WriteString(line)
		buf.WriteString("\n")

		depth = updateDepth(depth, trim)
		if depth > 0 {
			continue
		}

		src := buf.String()
		buf.Reset()
		if strings.TrimSpace(src) == "" {
			continue
		}

		session.Execute(src)
	}
}

func replPrompt(depth int) string {
	if depth > 0 {
		return fmt.Sprintf("...%s> ", strings.Repeat(" ", depth))
	}
	return "nan> "
}

func handleREPLCommand(cmd string, session *interpreter.Interpreter) (bool, error) {
	switch {
	case cmd == ":q" || cmd == ":quit" || cmd == ":exit":
		os.Exit(0)
		return true, nil

	case cmd == ":h" || cmd == ":help":
		fmt.Println("Commands:")
		fmt.Println("  :help              Show this help")
		fmt.Println("  :quit              Exit the REPL")
		fmt.Println("  :vars              Show the variable store")
		fmt.Println("  :load <file>       Run a script file in this session")
		fmt.Println("  :reset             Clear buffered block input")
		fmt.Println("  :clear             Clear the screen")
		fmt.Println()
		fmt.Println("Statements: print, set, add, loop var:count ( ... ), if cond ( ... )")
		fmt.Println("Variables persist across inputs for the whole session.")
		return true, nil

	case cmd == ":vars":
		vars := session.VarsSnapshot()
		if len(vars) == 0 {
			fmt.Println("(no variables)")
			return true, nil
		}
		names := make([]string, 0, len(vars))
		for name := range vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s = %s\n", name, interpreter.FormatNumber(vars[name]))
		}
		return true, nil

	case strings.HasPrefix(cmd, ":load "):
		path := strings.TrimSpace(strings.TrimPrefix(cmd, ":load "))
		if path == "" {
			return true, fmt.Errorf("Usage: :load <file>")
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return true, fmt.Errorf("Failed to read %s: %s", path, err.Error())
		}
		session.Execute(string(src))
		return true, nil

	case cmd == ":reset":
		fmt.Println("(buffer cleared)")
		return true, nil

	case cmd == ":clear":
		fmt.Print("\033[2J\033[H")
		return true, nil

	default:
		fmt.Println("Unknown command. Try :help")
		return true, nil
	}
}

// updateDepth tracks block nesting so multi-line loop/if bodies are buffered
// until the matching closing marker.
func updateDepth(depth int, trimmed string) int {
	if trimmed == "" {
		return depth
	}
	if strings.HasPrefix(trimmed, "comment") {
		return depth
	}
	if isBlockOpener(trimmed) {
		return depth + 1
	}
	if trimmed == ")" {
		if depth > 0 {
			return depth - 1
		}
		return 0
	}
	return depth
}

func isBlockOpener(trimmed string) bool {
	if !strings.HasSuffix(trimmed, "(") {
		return false
	}
	return strings.HasPrefix(trimmed, "loop ") || strings.HasPrefix(trimmed, "if ")
}
