package expr

import "math"

// mod is the '%' operator: floating-point remainder whose sign follows the
// dividend (truncated division), not a mathematical modulo.
func mod(a, b float64) float64 { return math.Mod(a, b) }

// call dispatches a built-in function. Arity is exact; a wrong argument
// count or an unknown name fails the whole evaluation.
func (p *parser) call(name string, args []float64) (float64, error) {
	switch name {
	// 1-arg
	case "sqrt":
		if len(args) != 1 {
			return 0, p.fail("sqrt() expects 1 arg")
		}
		return math.Sqrt(args[0]), nil
	case "sin":
		if len(args) != 1 {
			return 0, p.fail("sin() expects 1 arg")
		}
		return math.Sin(args[0]), nil
	case "cos":
		if len(args) != 1 {
			return 0, p.fail("cos() expects 1 arg")
		}
		return math.Cos(args[0]), nil
	case "tan":
		if len(args) != 1 {
			return 0, p.fail("tan() expects 1 arg")
		}
		return math.Tan(args[0]), nil
	case "abs":
		if len(args) != 1 {
			return 0, p.fail("abs() expects 1 arg")
		}
		return math.Abs(args[0]), nil
	case "log":
		if len(args) != 1 {
			return 0, p.fail("log() expects 1 arg")
		}
		return math.Log(args[0]), nil
	case "exp":
		if len(args) != 1 {
			return 0, p.fail("exp() expects 1 arg")
		}
		return math.Exp(args[0]), nil
	case "floor":
		if len(args) != 1 {
			return 0, p.fail("floor() expects 1 arg")
		}
		return math.Floor(args[0]), nil
	case "ceil":
		if len(args) != 1 {
			return 0, p.fail("ceil() expects 1 arg")
		}
		return math.Ceil(args[0]), nil

	// 2-arg
	case "pow":
		if len(args) != 2 {
			return 0, p.fail("pow() expects 2 args")
		}
		return math.Pow(args[0], args[1]), nil
	case "min":
		if len(args) != 2 {
			return 0, p.fail("min() expects 2 args")
		}
		return math.Min(args[0], args[1]), nil
	case "max":
		if len(args) != 2 {
			return 0, p.fail("max() expects 2 args")
		}
		return math.Max(args[0], args[1]), nil
	}

	return 0, p.fail("Unknown function: " + name)
}
