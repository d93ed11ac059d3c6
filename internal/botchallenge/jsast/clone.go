package jsast

// CloneExpr deep-copies an expression tree. Phase F4 clones the checksum
// expression once per rotation candidate before substituting parseInt/I
// calls with literals; component G clones the answer candidate before
// attempting to fold it, so a failed fold never corrupts the original.
func CloneExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *NumberLit:
		c := *n
		return &c
	case *StringLit:
		c := *n
		return &c
	case *BoolLit:
		c := *n
		return &c
	case *NullLit:
		c := *n
		return &c
	case *Ident:
		c := *n
		return &c
	case *ArrayLit:
		c := &ArrayLit{Elements: make([]ArrayElem, len(n.Elements))}
		for i, el := range n.Elements {
			c.Elements[i] = ArrayElem{Expr: CloneExpr(el.Expr), Spread: el.Spread, Elision: el.Elision}
		}
		return c
	case *MemberExpr:
		return &MemberExpr{Object: CloneExpr(n.Object), Property: CloneExpr(n.Property), Computed: n.Computed}
	case *CallExpr:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = CloneExpr(a)
		}
		return &CallExpr{Callee: CloneExpr(n.Callee), Args: args}
	case *BinaryExpr:
		return &BinaryExpr{Op: n.Op, Left: CloneExpr(n.Left), Right: CloneExpr(n.Right)}
	case *UnaryExpr:
		return &UnaryExpr{Op: n.Op, Operand: CloneExpr(n.Operand), Prefix: n.Prefix}
	case *AssignExpr:
		return &AssignExpr{Op: n.Op, Target: CloneExpr(n.Target), Value: CloneExpr(n.Value)}
	case *ConditionalExpr:
		return &ConditionalExpr{Test: CloneExpr(n.Test), Cons: CloneExpr(n.Cons), Alt: CloneExpr(n.Alt)}
	case *SequenceExpr:
		exprs := make([]Expr, len(n.Exprs))
		for i, e := range n.Exprs {
			exprs[i] = CloneExpr(e)
		}
		return &SequenceExpr{Exprs: exprs}
	case *ParenExpr:
		return &ParenExpr{Inner: CloneExpr(n.Inner)}
	case *FunctionExpr:
		// Function literals are never cloned by any pass in practice
		// (F4/G only ever clone pure arithmetic sub-trees); shallow-copy
		// defensively rather than omit the case.
		c := *n
		return &c
	default:
		return e
	}
}
