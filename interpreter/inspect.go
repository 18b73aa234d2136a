package interpreter

// VarsSnapshot returns a copy of the variable store (sorted usage is
// caller-side). This is REPL-friendly and keeps the live map private.
func (i *Interpreter) VarsSnapshot() map[string]float64 {
	out := make(map[string]float64, len(i.vars))
	for k, v := range i.vars {
		out[k] = v
	}
	return out
}
