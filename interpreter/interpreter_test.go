package interpreter

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

// runScript executes a script against a fresh interpreter and returns its
// output lines.
func runScript(t *testing.T, script string) []string {
	t.Helper()
	var buf bytes.Buffer
	in := NewWithOutput(&buf)
	in.Execute(script)
	out := buf.String()
	if out == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(out, "\n"), "\n")
}

func TestExecuteStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "set then print",
			script: "set x = 10\nprint x",
			want:   []string{"10"},
		},
		{
			name:   "add accumulates",
			script: "set x = 10\nadd x 5\nprint x",
			want:   []string{"15"},
		},
		{
			name:   "set without equals",
			script: "set y 3 + 4\nprint y",
			want:   []string{"7"},
		},
		{
			name:   "print quoted literal",
			script: "print \"Hello, world\"",
			want:   []string{"Hello, world"},
		},
		{
			name:   "print expression",
			script: "print sqrt(16) + 2",
			want:   []string{"6"},
		},
		{
			name:   "print falls back to raw text",
			script: "print this is not valid syntax",
			want:   []string{"this is not valid syntax"},
		},
		{
			name:   "unknown command names the token",
			script: "bogus 1 2 3",
			want:   []string{"Unknown command: bogus"},
		},
		{
			name:   "comment and blank lines ignored",
			script: "comment nothing here\n\n   \nset x = 1\ncomment also after\nprint x",
			want:   []string{"1"},
		},
		{
			name:   "set overwrites",
			script: "set x = 1\nset x = x + 1\nprint x",
			want:   []string{"2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runScript(t, tt.script)
			if len(got) != len(tt.want) {
				t.Fatalf("output = %q, want %q", got, tt.want)
			}
			for idx := range got {
				if got[idx] != tt.want[idx] {
					t.Errorf("line %d = %q, want %q", idx, got[idx], tt.want[idx])
				}
			}
		})
	}
}

func TestExecuteBlocks(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name: "loop accumulates induction variable",
			script: `set total = 0
loop i:3 (
  add total i
)
print total`,
			want: []string{"3"},
		},
		{
			name: "loop variable survives the loop",
			script: `loop i:3 (
  comment body
)
print i`,
			want: []string{"2"},
		},
		{
			name: "if true runs block once",
			script: `if 1 > 0 (
  print "yes"
)`,
			want: []string{"yes"},
		},
		{
			name: "if false skips block",
			script: `if 1 < 0 (
  print "no"
)`,
			want: nil,
		},
		{
			name: "nested if inside loop",
			script: `loop i:2 (
  if i == 1 (
    print i
  )
)`,
			want: []string{"1"},
		},
		{
			name: "nested loops",
			script: `loop i:2 (
  loop j:2 (
    print i * 10 + j
  )
)`,
			want: []string{"0", "1", "10", "11"},
		},
		{
			name: "zero count runs nothing",
			script: `loop i:0 (
  print "never"
)
print "after"`,
			want: []string{"after"},
		},
		{
			name: "negative count runs nothing",
			script: `loop i:0-5 (
  print "never"
)
print "after"`,
			want: []string{"after"},
		},
		{
			name: "count expression is floored",
			script: `set n = 2.9
loop i:n (
  print i
)`,
			want: []string{"0", "1"},
		},
		{
			name: "missing closing marker runs lines read so far",
			script: `loop i:2 (
  print i`,
			want: []string{"0", "1"},
		},
		{
			name: "condition uses variables",
			script: `set x = 7
if x % 2 == 1 (
  print "odd"
)`,
			want: []string{"odd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runScript(t, tt.script)
			if len(got) != len(tt.want) {
				t.Fatalf("output = %q, want %q", got, tt.want)
			}
			for idx := range got {
				if got[idx] != tt.want[idx] {
					t.Errorf("line %d = %q, want %q", idx, got[idx], tt.want[idx])
				}
			}
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "set evaluation error leaves store unchanged",
			script: "set x = 1\nset x = y + 1\nprint x",
			want:   []string{"Set expr error: Unknown variable: y near: '+ 1'", "1"},
		},
		{
			name:   "add requires existing variable",
			script: "add z 1\nprint \"after\"",
			want:   []string{"Error: variable 'z' not found", "after"},
		},
		{
			name:   "set needs a variable name",
			script: "set",
			want:   []string{"Syntax error: set needs a variable name"},
		},
		{
			name:   "set with equals needs an expression",
			script: "set x =",
			want:   []string{"Syntax error: set needs an expression"},
		},
		{
			name:   "add needs an expression",
			script: "set x = 1\nadd x",
			want:   []string{"Syntax error: add needs a value/expression"},
		},
		{
			name: "loop count error skips the captured block",
			script: `loop i:bogus (
  print "inside"
)
print "after"`,
			want: []string{"Loop count error: Unknown variable: bogus near: ''", "after"},
		},
		{
			name: "loop header without colon does not consume block",
			script: `loop i (
  print "body"
)`,
			want: []string{"Syntax error: loop expects var:count", "body", "Unknown command: )"},
		},
		{
			name:   "loop header without marker",
			script: "loop i:3",
			want:   []string{"Syntax error: expected ("},
		},
		{
			name: "if condition error skips block",
			script: `if y > 1 (
  print "inside"
)
print "done"`,
			want: []string{"If condition error: Unknown variable: y near: '> 1'", "done"},
		},
		{
			name:   "if without trailing marker",
			script: "if 1 > 0",
			want:   []string{"Syntax error: if expects '(' at end of line"},
		},
		{
			name:   "errors never stop the script",
			script: "bogus\nset x = 2\nprint x",
			want:   []string{"Unknown command: bogus", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runScript(t, tt.script)
			if len(got) != len(tt.want) {
				t.Fatalf("output = %q, want %q", got, tt.want)
			}
			for idx := range got {
				if got[idx] != tt.want[idx] {
					t.Errorf("line %d = %q, want %q", idx, got[idx], tt.want[idx])
				}
			}
		})
	}
}

func TestExecuteNumericFormatting(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "near integer prints as integer",
			script: "set a = 4.000000000001\nprint a",
			want:   []string{"4"},
		},
		{
			name:   "twelve significant digits",
			script: "print 3.14159265358",
			want:   []string{"3.14159265358"},
		},
		{
			name:   "repeating fraction",
			script: "print 1 / 3",
			want:   []string{"0.333333333333"},
		},
		{
			name:   "plain fraction",
			script: "print 10 / 4",
			want:   []string{"2.5"},
		},
		{
			name:   "float noise rounds away",
			script: "print 0.1 + 0.2",
			want:   []string{"0.3"},
		},
		{
			name:   "divide by zero propagates infinity",
			script: "print 1 / 0",
			want:   []string{"+Inf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runScript(t, tt.script)
			if len(got) != len(tt.want) {
				t.Fatalf("output = %q, want %q", got, tt.want)
			}
			for idx := range got {
				if got[idx] != tt.want[idx] {
					t.Errorf("line %d = %q, want %q", idx, got[idx], tt.want[idx])
				}
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want string
	}{
		{name: "integer", v: 10, want: "10"},
		{name: "negative integer", v: -3, want: "-3"},
		{name: "zero", v: 0, want: "0"},
		{name: "within tolerance", v: 4.000000000001, want: "4"},
		{name: "just outside tolerance", v: 4.001, want: "4.001"},
		{name: "twelve digits", v: 3.14159265358, want: "3.14159265358"},
		{name: "large integral value stays integer", v: 1e15, want: "1000000000000000"},
		{name: "largest int64-exact magnitude", v: 1e18, want: "1000000000000000000"},
		{name: "beyond int64 uses general form", v: 1e20, want: "1e+20"},
		{name: "infinity", v: math.Inf(1), want: "+Inf"},
		{name: "nan", v: math.NaN(), want: "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNumber(tt.v); got != tt.want {
				t.Errorf("FormatNumber(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestLoopIterationCap(t *testing.T) {
	var buf bytes.Buffer
	in := NewWithOutput(&buf)
	in.SetMaxLoopIterations(2)

	in.Execute(`loop i:5 (
  print i
)`)

	want := []string{"Loop cap reached: running 2 of 5 iterations", "0", "1"}
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("output = %q, want %q", got, want)
	}
	for idx := range got {
		if got[idx] != want[idx] {
			t.Errorf("line %d = %q, want %q", idx, got[idx], want[idx])
		}
	}
}

func TestVarsSnapshot(t *testing.T) {
	var buf bytes.Buffer
	in := NewWithOutput(&buf)
	in.Execute("set x = 1\nset y = 2.5")

	snap := in.VarsSnapshot()
	if len(snap) != 2 || snap["x"] != 1 || snap["y"] != 2.5 {
		t.Fatalf("snapshot = %v", snap)
	}

	// Mutating the snapshot must not touch the live store.
	snap["x"] = 99
	in.Execute("print x")
	if got := strings.TrimRight(buf.String(), "\n"); got != "1" {
		t.Errorf("print x after snapshot mutation = %q, want %q", got, "1")
	}
}
