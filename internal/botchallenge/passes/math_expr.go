package passes

import (
	"math"
	"math/bits"

	"github.com/famomatic/ytv1/internal/botchallenge/jsast"
)

// EvaluateMathExpressions is pass G: bind the challenge's input value to
// the deobfuscated script's outer function parameter, fold every
// `Math.*` constant and call down to a literal, and read off the answer
// as the first sub-expression inside any array literal that folds to a
// plain number. Grounded on
// original_source/src/deobfuscate/math_expr.rs.
//
// It scans every array literal in the program (not just the outermost
// one): an obfuscated script often nests the answer inside a multi-slot
// result array alongside placeholder values, and the original visitor's
// "first element to fold to a number, anywhere inside any array" rule is
// preserved here rather than narrowed to the top-level return value.
func EvaluateMathExpressions(prog *jsast.Program, input float64) (float64, error) {
	inputParam, hasParam := findInputParamBinding(prog)

	var answer float64
	var found bool

	jsast.RewriteExprs(prog, func(e jsast.Expr) jsast.Expr {
		arr, ok := e.(*jsast.ArrayLit)
		if !ok || len(arr.Elements) == 0 || arr.Elements[0].Elision {
			return e
		}
		for i := range arr.Elements {
			el := &arr.Elements[i]
			if el.Expr == nil {
				continue
			}
			transformed := substituteMathAndInput(el.Expr, inputParam, hasParam, input)
			el.Expr = transformed
			if found {
				continue
			}
			if n, ok := jsast.Simplify(jsast.CloneExpr(transformed)).(*jsast.NumberLit); ok {
				answer = n.Value
				found = true
				el.Expr = n
			}
		}
		return e
	})

	if !found {
		return 0, ErrAnswerNotComputable
	}
	return answer, nil
}

// findInputParamBinding returns the binding identity of the first
// function expression's first parameter encountered in the program, in
// document order. Obfuscated bot-challenge scripts pass the challenge
// input as the sole parameter of the outermost function expression.
func findInputParamBinding(prog *jsast.Program) (jsast.Binding, bool) {
	var found jsast.Binding
	var ok bool
	walkTree(prog.Body, nil, func(e jsast.Expr) {
		if ok {
			return
		}
		fe, isFn := e.(*jsast.FunctionExpr)
		if !isFn || len(fe.Params) == 0 {
			return
		}
		found = fe.Params[0].Binding
		ok = true
	})
	return found, ok
}

// substituteMathAndInput rewrites a clone-free expression tree, replacing
// references to the bound input parameter with its numeric value and
// folding every Math.CONST member access and Math.fn(...) call down to a
// literal.
func substituteMathAndInput(e jsast.Expr, inputParam jsast.Binding, hasParam bool, input float64) jsast.Expr {
	return jsast.RewriteExprTree(e, func(e jsast.Expr) jsast.Expr {
		switch n := e.(type) {
		case *jsast.Ident:
			if hasParam && n.Binding == inputParam {
				return &jsast.NumberLit{Value: input}
			}
			return e
		case *jsast.MemberExpr:
			if n.Computed {
				return e
			}
			obj, ok := n.Object.(*jsast.Ident)
			if !ok || obj.Name != "Math" {
				return e
			}
			prop, ok := n.Property.(*jsast.Ident)
			if !ok {
				return e
			}
			if v, ok := mathConstant(prop.Name); ok {
				return &jsast.NumberLit{Value: v}
			}
			return e
		case *jsast.CallExpr:
			member, ok := n.Callee.(*jsast.MemberExpr)
			if !ok || member.Computed {
				return e
			}
			obj, ok := member.Object.(*jsast.Ident)
			if !ok || obj.Name != "Math" {
				return e
			}
			prop, ok := member.Property.(*jsast.Ident)
			if !ok {
				return e
			}
			args := make([]float64, len(n.Args))
			for i, a := range n.Args {
				args[i] = argAsNumber(a)
			}
			if v, ok := mathCall(prop.Name, args); ok {
				return &jsast.NumberLit{Value: v}
			}
			return e
		default:
			return e
		}
	})
}

// argAsNumber converts a Math.* call argument to a float64, simplifying
// it first if it isn't already a literal (e.g. an unfolded `1 + 2`).
// Non-numeric results become NaN, matching the JS coercion a raw
// identifier or string would undergo inside arithmetic.
func argAsNumber(e jsast.Expr) float64 {
	if n, ok := e.(*jsast.NumberLit); ok {
		return n.Value
	}
	if n, ok := jsast.Simplify(jsast.CloneExpr(e)).(*jsast.NumberLit); ok {
		return n.Value
	}
	return math.NaN()
}

func mathConstant(name string) (float64, bool) {
	switch name {
	case "E":
		return math.E, true
	case "LN10":
		return math.Ln10, true
	case "LN2":
		return math.Ln2, true
	case "LOG10E":
		return math.Log10E, true
	case "LOG2E":
		return math.Log2E, true
	case "PI":
		return math.Pi, true
	case "SQRT1_2":
		return 1 / math.Sqrt2, true
	case "SQRT2":
		return math.Sqrt2, true
	}
	return 0, false
}

func mathArg(args []float64, i int) float64 {
	if i < len(args) {
		return args[i]
	}
	return math.NaN()
}

// mathCall implements the subset of the Math namespace the obfuscator's
// arithmetic actually exercises, with JS-faithful semantics for the
// bitwise-flavored ones (clz32, fround, imul).
func mathCall(name string, args []float64) (float64, bool) {
	a0 := mathArg(args, 0)
	a1 := mathArg(args, 1)
	// toInt32 is JavaScript's ToInt32: truncate, wrap modulo 2^32, and map
	// NaN and ±Infinity to 0.
	toInt32 := func(v float64) int32 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int32(uint32(int64(math.Mod(math.Trunc(v), 4294967296))))
	}
	switch name {
	case "abs":
		return math.Abs(a0), true
	case "acos":
		return math.Acos(a0), true
	case "acosh":
		return math.Acosh(a0), true
	case "asin":
		return math.Asin(a0), true
	case "asinh":
		return math.Asinh(a0), true
	case "atan":
		return math.Atan(a0), true
	case "atan2":
		return math.Atan2(a0, a1), true
	case "atanh":
		return math.Atanh(a0), true
	case "cbrt":
		return math.Cbrt(a0), true
	case "ceil":
		return math.Ceil(a0), true
	case "clz32":
		return float64(bits.LeadingZeros32(uint32(toInt32(a0)))), true
	case "cos":
		return math.Cos(a0), true
	case "cosh":
		return math.Cosh(a0), true
	case "exp":
		return math.Exp(a0), true
	case "expm1":
		return math.Expm1(a0), true
	case "floor":
		return math.Floor(a0), true
	case "fround":
		return float64(float32(a0)), true
	case "hypot":
		return math.Hypot(a0, a1), true
	case "imul":
		return float64(toInt32(a0) * toInt32(a1)), true
	case "log":
		return math.Log(a0), true
	case "log10":
		return math.Log10(a0), true
	case "log1p":
		return math.Log1p(a0), true
	case "log2":
		return math.Log2(a0), true
	case "max":
		return math.Max(a0, a1), true
	case "min":
		return math.Min(a0, a1), true
	case "pow":
		return math.Pow(a0, a1), true
	case "round":
		return roundHalfToPositiveInfinity(a0), true
	case "sign":
		return mathSign(a0), true
	case "sin":
		return math.Sin(a0), true
	case "sinh":
		return math.Sinh(a0), true
	case "sqrt":
		return math.Sqrt(a0), true
	case "tan":
		return math.Tan(a0), true
	case "tanh":
		return math.Tanh(a0), true
	case "trunc":
		return math.Trunc(a0), true
	}
	return 0, false
}

// roundHalfToPositiveInfinity matches JS Math.round, which always rounds
// a half-way value toward +Infinity (round(-0.5) == 0, not -1).
func roundHalfToPositiveInfinity(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Floor(v + 0.5)
}

// mathSign matches JS Math.sign: NaN in, NaN out (checked with
// math.IsNaN rather than ==, which is never true for NaN).
func mathSign(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return v
}
