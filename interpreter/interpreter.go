// Package interpreter executes line-oriented scripts over a single shared
// variable store. Five statement forms are recognized by the first token of
// a line (print, set, add, loop, if); loop and if capture a block of raw
// lines up to the matching ")" line and re-enter the executor recursively on
// that block. Expression text is handed to the expr package together with a
// read-only view of the store; the executor is the only writer.
//
// Every recoverable failure prints one descriptive line and execution
// continues with the next statement. Nothing aborts a running script.
package interpreter

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode"

	"nanolang/expr"
)

type Interpreter struct {
	vars expr.Vars
	out  io.Writer

	// Per-loop iteration cap; 0 means unlimited.
	maxLoopIters int
}

// New returns an interpreter with an empty variable store writing to stdout.
func New() *Interpreter { return NewWithOutput(os.Stdout) }

// NewWithOutput returns an interpreter whose print and error lines go to w.
func NewWithOutput(w io.Writer) *Interpreter {
	return &Interpreter{vars: expr.Vars{}, out: w}
}

// SetMaxLoopIterations caps how many times any single loop may iterate.
// Zero (the default) leaves loops unbounded.
func (i *Interpreter) SetMaxLoopIterations(n int) { i.maxLoopIters = n }

// Execute runs a whole script. Output and error lines are written to the
// interpreter's writer in execution order; the variable store keeps the
// mutations of every statement executed so far.
func (i *Interpreter) Execute(code string) {
	i.execLines(splitLines(code))
}

func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	return strings.Split(src, "\n")
}

func (i *Interpreter) execLines(lines []string) {
	for idx := 0; idx < len(lines); idx++ {
		line := strings.TrimSpace(lines[idx])
		if line == "" || strings.HasPrefix(line, "comment") {
			continue
		}
		switch tok, _ := splitToken(line); tok {
		case "loop":
			idx = i.execLoop(line, lines, idx)
		case "if":
			idx = i.execIf(line, lines, idx)
		default:
			i.runLine(line)
		}
	}
}

// splitToken cuts the first whitespace-delimited token off s. rest keeps its
// leading whitespace so the caller can preserve the original expression text.
func splitToken(s string) (tok, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if idx := strings.IndexFunc(s, unicode.IsSpace); idx >= 0 {
		return s[:idx], s[idx:]
	}
	return s, ""
}

func (i *Interpreter) emit(line string) {
	fmt.Fprintln(i.out, line)
}

// ---------- Blocks ----------

// opensBlock reports whether a captured line starts a nested block: a loop
// or if header whose trimmed text ends with the opening marker.
func opensBlock(trimmed string) bool {
	if !strings.HasSuffix(trimmed, "(") {
		return false
	}
	tok, _ := splitToken(trimmed)
	return tok == "loop" || tok == "if"
}

// captureBlock collects the raw lines of a block body starting at start,
// up to the matching ")" line. Nested headers raise the depth so inner
// closing markers are captured, not consumed. Returns the body and the index
// of the last line consumed (the closing marker, or the final line when the
// script ends before one).
func captureBlock(lines []string, start int) (body []string, last int) {
	depth := 0
	for idx := start; idx < len(lines); idx++ {
		t := strings.TrimSpace(lines[idx])
		if t == ")" {
			if depth == 0 {
				return body, idx
			}
			depth--
		} else if opensBlock(t) {
			depth++
		}
		body = append(body, lines[idx])
	}
	return body, len(lines) - 1
}

// headerBeforeOpenParen strips the block opener off a header line. The "("
// must be the last non-space character of the line.
func headerBeforeOpenParen(line string) (string, bool) {
	t := strings.TrimRightFunc(line, unicode.IsSpace)
	if t == "" || t[len(t)-1] != '(' {
		return "", false
	}
	return strings.TrimRightFunc(t[:len(t)-1], unicode.IsSpace), true
}

// execLoop handles `loop <var>:<countExpr> (`. The header is parsed
// field-wise, so the count expression cannot contain spaces and the opening
// marker must stand alone. Header syntax errors do not consume the block;
// a count evaluation error does (the body is captured first, then skipped).
// Returns the index of the last line consumed.
func (i *Interpreter) execLoop(line string, lines []string, idx int) int {
	fields := strings.Fields(line)

	varAndCount := ""
	if len(fields) > 1 {
		varAndCount = fields[1]
	}
	name, countSrc, ok := strings.Cut(varAndCount, ":")
	if !ok {
		i.emit("Syntax error: loop expects var:count")
		return idx
	}
	if len(fields) < 3 || fields[2] != "(" {
		i.emit("Syntax error: expected (")
		return idx
	}

	body, last := captureBlock(lines, idx+1)

	n, err := expr.Eval(countSrc, i.vars, "Loop count error: ")
	if err != nil {
		i.emit(err.Error())
		return last
	}

	// Floor to an iteration count; negative, zero, and NaN all mean zero
	// iterations.
	count := 0
	if f := math.Floor(n); f > 0 {
		if f > float64(math.MaxInt32) {
			f = float64(math.MaxInt32)
		}
		count = int(f)
	}
	if i.maxLoopIters > 0 && count > i.maxLoopIters {
		i.emit(fmt.Sprintf("Loop cap reached: running %d of %d iterations", i.maxLoopIters, count))
		count = i.maxLoopIters
	}

	for k := 0; k < count; k++ {
		i.vars[name] = float64(k)
		i.execLines(body)
	}
	return last
}

// execIf handles `if <condition> (`. The condition is everything between the
// if keyword and the trailing opening marker. A condition error skips the
// block; the block is captured either way. Returns the index of the last
// line consumed.
func (i *Interpreter) execIf(line string, lines []string, idx int) int {
	header, ok := headerBeforeOpenParen(line)
	if !ok {
		i.emit("Syntax error: if expects '(' at end of line")
		return idx
	}
	cond := strings.TrimSpace(header[len("if"):])

	body, last := captureBlock(lines, idx+1)

	v, err := expr.Eval(cond, i.vars, "If condition error: ")
	if err != nil {
		i.emit(err.Error())
		return last
	}
	if v != 0 {
		i.execLines(body)
	}
	return last
}

// ---------- Single-line statements ----------

func (i *Interpreter) runLine(line string) {
	cmd, rest := splitToken(line)
	switch cmd {
	case "print":
		i.execPrint(strings.TrimSpace(rest))
	case "set":
		i.execSet(rest)
	case "add":
		i.execAdd(rest)
	default:
		i.emit("Unknown command: " + cmd)
	}
}

// execPrint emits a quoted literal verbatim, an existing variable's value,
// or an evaluated expression. Text that fails to evaluate is printed as-is
// rather than reported: unparseable print arguments are literal text.
func (i *Interpreter) execPrint(rest string) {
	if len(rest) >= 2 && rest[0] == '"' && rest[len(rest)-1] == '"' {
		i.emit(rest[1 : len(rest)-1])
		return
	}

	if rest != "" {
		if v, ok := i.vars[rest]; ok {
			i.emit(FormatNumber(v))
			return
		}
	}

	v, err := expr.Eval(rest, i.vars, "Print expr error: ")
	if err != nil {
		i.emit(rest)
		return
	}
	i.emit(FormatNumber(v))
}

// execSet stores an evaluated expression under a variable name, creating the
// variable if needed. The "=" between name and expression is optional. On an
// evaluation error the store is left untouched.
func (i *Interpreter) execSet(rest string) {
	name, rest := splitToken(rest)
	if name == "" {
		i.emit("Syntax error: set needs a variable name")
		return
	}

	tok, afterTok := splitToken(rest)
	var src string
	if tok == "=" {
		src = strings.TrimSpace(afterTok)
		if src == "" {
			i.emit("Syntax error: set needs an expression")
			return
		}
	} else {
		// No equals sign: the whole remainder is the expression.
		src = strings.TrimSpace(rest)
	}

	v, err := expr.Eval(src, i.vars, "Set expr error: ")
	if err != nil {
		i.emit(err.Error())
		return
	}
	i.vars[name] = v
}

// execAdd accumulates an evaluated expression into an existing variable.
// Unlike set, the variable must already be in the store.
func (i *Interpreter) execAdd(rest string) {
	name, rest := splitToken(rest)
	if name == "" {
		i.emit("Syntax error: add needs a variable")
		return
	}
	if _, ok := i.vars[name]; !ok {
		i.emit("Error: variable '" + name + "' not found")
		return
	}

	src := strings.TrimSpace(rest)
	if src == "" {
		i.emit("Syntax error: add needs a value/expression")
		return
	}

	v, err := expr.Eval(src, i.vars, "Add expr error: ")
	if err != nil {
		i.emit(err.Error())
		return
	}
	i.vars[name] += v
}
