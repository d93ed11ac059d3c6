package jsast

import "math"

// Simplify is spec.md's "simplify(expr) -> expr (external interface)": it
// constant-folds pure arithmetic/logical sub-trees and never raises. It is
// applied once to the whole program by the driver before D/E/F/D/G run,
// and again, narrowly, by phase F4 (per rotation) and component G (on a
// clone of each array element until one folds, and on Math.* arguments).
//
// Folding also unwraps ParenExpr: grouping parentheses carry no semantics
// once parsed, so every later pass can assume it never sees one.
func Simplify(e Expr) Expr {
	if e == nil {
		return nil
	}
	return RewriteProgramlessExpr(e)
}

// RewriteProgramlessExpr simplifies a single expression tree, independent
// of any enclosing Program. Exported so passes can run the simplifier on
// a cloned sub-expression (phase F4, component G) without round-tripping
// through a throwaway Program.
func RewriteProgramlessExpr(e Expr) Expr {
	switch n := e.(type) {
	case *ParenExpr:
		return RewriteProgramlessExpr(n.Inner)
	case *ArrayLit:
		for i := range n.Elements {
			if n.Elements[i].Expr != nil {
				n.Elements[i].Expr = RewriteProgramlessExpr(n.Elements[i].Expr)
			}
		}
		return n
	case *MemberExpr:
		n.Object = RewriteProgramlessExpr(n.Object)
		if n.Computed {
			n.Property = RewriteProgramlessExpr(n.Property)
		}
		return n
	case *CallExpr:
		n.Callee = RewriteProgramlessExpr(n.Callee)
		for i := range n.Args {
			n.Args[i] = RewriteProgramlessExpr(n.Args[i])
		}
		return n
	case *BinaryExpr:
		n.Left = RewriteProgramlessExpr(n.Left)
		n.Right = RewriteProgramlessExpr(n.Right)
		if folded, ok := foldBinary(n.Op, n.Left, n.Right); ok {
			return folded
		}
		return n
	case *UnaryExpr:
		n.Operand = RewriteProgramlessExpr(n.Operand)
		if folded, ok := foldUnary(n.Op, n.Operand); ok {
			return folded
		}
		return n
	case *AssignExpr:
		n.Value = RewriteProgramlessExpr(n.Value)
		return n
	case *ConditionalExpr:
		n.Test = RewriteProgramlessExpr(n.Test)
		n.Cons = RewriteProgramlessExpr(n.Cons)
		n.Alt = RewriteProgramlessExpr(n.Alt)
		if b, ok := n.Test.(*BoolLit); ok {
			if b.Value {
				return n.Cons
			}
			return n.Alt
		}
		return n
	case *SequenceExpr:
		for i := range n.Exprs {
			n.Exprs[i] = RewriteProgramlessExpr(n.Exprs[i])
		}
		// Collapse to the last expression only when every earlier one is a
		// literal; anything else (an assignment, a call) may have effects.
		if len(n.Exprs) == 0 {
			return n
		}
		for _, se := range n.Exprs[:len(n.Exprs)-1] {
			switch se.(type) {
			case *NumberLit, *StringLit, *BoolLit, *NullLit:
			default:
				return n
			}
		}
		return n.Exprs[len(n.Exprs)-1]
	case *FunctionExpr:
		if n.Body != nil {
			for i := range n.Body.Body {
				n.Body.Body[i] = simplifyStmt(n.Body.Body[i])
			}
		}
		return n
	default:
		return n
	}
}

// SimplifyProgram runs Simplify across every statement in prog, in place.
func SimplifyProgram(prog *Program) {
	for i := range prog.Body {
		prog.Body[i] = simplifyStmt(prog.Body[i])
	}
}

func simplifyStmt(s Stmt) Stmt {
	switch n := s.(type) {
	case *ExprStmt:
		n.Expr = RewriteProgramlessExpr(n.Expr)
	case *BlockStmt:
		for i := range n.Body {
			n.Body[i] = simplifyStmt(n.Body[i])
		}
	case *ReturnStmt:
		if n.Argument != nil {
			n.Argument = RewriteProgramlessExpr(n.Argument)
		}
	case *VarDecl:
		for _, d := range n.Decls {
			if d.Init != nil {
				d.Init = RewriteProgramlessExpr(d.Init)
			}
		}
	case *FuncDecl:
		if n.Body != nil {
			for i := range n.Body.Body {
				n.Body.Body[i] = simplifyStmt(n.Body.Body[i])
			}
		}
	case *IfStmt:
		n.Test = RewriteProgramlessExpr(n.Test)
		n.Cons = simplifyStmt(n.Cons)
		if n.Alt != nil {
			n.Alt = simplifyStmt(n.Alt)
		}
	case *ForStmt:
		if n.Init != nil {
			n.Init = simplifyStmt(n.Init)
		}
		if n.Test != nil {
			n.Test = RewriteProgramlessExpr(n.Test)
		}
		if n.Update != nil {
			n.Update = RewriteProgramlessExpr(n.Update)
		}
		n.Body = simplifyStmt(n.Body)
	case *TryStmt:
		if n.Block != nil {
			for i := range n.Block.Body {
				n.Block.Body[i] = simplifyStmt(n.Block.Body[i])
			}
		}
		if n.CatchBody != nil {
			for i := range n.CatchBody.Body {
				n.CatchBody.Body[i] = simplifyStmt(n.CatchBody.Body[i])
			}
		}
		if n.Finally != nil {
			for i := range n.Finally.Body {
				n.Finally.Body[i] = simplifyStmt(n.Finally.Body[i])
			}
		}
	}
	return s
}

func asNumber(e Expr) (float64, bool) {
	n, ok := e.(*NumberLit)
	if !ok {
		return 0, false
	}
	return n.Value, true
}

func foldUnary(op string, operand Expr) (Expr, bool) {
	if v, ok := asNumber(operand); ok {
		switch op {
		case "-":
			return &NumberLit{Value: -v}, true
		case "+":
			return &NumberLit{Value: v}, true
		case "~":
			return &NumberLit{Value: float64(^toInt32(v))}, true
		}
	}
	if b, ok := operand.(*BoolLit); ok && op == "!" {
		return &BoolLit{Value: !b.Value}, true
	}
	if op == "!" {
		if v, ok := asNumber(operand); ok {
			return &BoolLit{Value: v == 0 || math.IsNaN(v)}, true
		}
	}
	return nil, false
}

// foldBinary folds a binary expression whose operands are already-simplified
// literals. Only numeric operands are folded; anything involving an
// identifier, call, or member access is left as-is for later passes.
func foldBinary(op string, left, right Expr) (Expr, bool) {
	lv, lok := asNumber(left)
	rv, rok := asNumber(right)
	if !lok || !rok {
		return nil, false
	}
	switch op {
	case "+":
		return &NumberLit{Value: lv + rv}, true
	case "-":
		return &NumberLit{Value: lv - rv}, true
	case "*":
		return &NumberLit{Value: lv * rv}, true
	case "/":
		return &NumberLit{Value: lv / rv}, true
	case "%":
		return &NumberLit{Value: math.Mod(lv, rv)}, true
	case "**":
		return &NumberLit{Value: math.Pow(lv, rv)}, true
	case "<<":
		return &NumberLit{Value: float64(toInt32(lv) << (toUint32(rv) & 31))}, true
	case ">>":
		return &NumberLit{Value: float64(toInt32(lv) >> (toUint32(rv) & 31))}, true
	case ">>>":
		return &NumberLit{Value: float64(toUint32(lv) >> (toUint32(rv) & 31))}, true
	case "|":
		return &NumberLit{Value: float64(toInt32(lv) | toInt32(rv))}, true
	case "^":
		return &NumberLit{Value: float64(toInt32(lv) ^ toInt32(rv))}, true
	case "&":
		return &NumberLit{Value: float64(toInt32(lv) & toInt32(rv))}, true
	case "==", "===":
		return &BoolLit{Value: lv == rv}, true
	case "!=", "!==":
		return &BoolLit{Value: lv != rv}, true
	case "<":
		return &BoolLit{Value: lv < rv}, true
	case ">":
		return &BoolLit{Value: lv > rv}, true
	case "<=":
		return &BoolLit{Value: lv <= rv}, true
	case ">=":
		return &BoolLit{Value: lv >= rv}, true
	}
	return nil, false
}

// toInt32/toUint32 implement JavaScript's ToInt32/ToUint32 abstract
// operations: wrap through 32-bit two's complement, matching the
// obfuscator's own implicit semantics for `<<`, `>>>`, etc. (spec.md §9).
func toInt32(f float64) int32 {
	return int32(toUint32(f))
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	// ECMA-262 ToUint32: truncate toward zero, then reduce modulo 2^32.
	trunc := math.Trunc(f)
	m := math.Mod(trunc, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}
