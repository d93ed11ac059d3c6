package passes

import "github.com/famomatic/ytv1/internal/botchallenge/jsast"

// walkTree calls visitStmt for every statement and visitExpr for every
// expression reachable from stmts, recursing into blocks, if/for/try
// bodies, function declarations, and function expressions reached
// through arbitrary expressions (e.g. a rotator IIFE's call arguments) —
// the same reach as jsast.RewriteExprs, but exposing both statements and
// expressions for read-only inspection instead of rewriting. Either
// callback may be nil. Shared by pass E (proxy variable elimination) and
// pass F (string deobfuscation), both of which need to find function
// declarations, var declarators, and array literals wherever they occur
// in the tree, not just at Program.Body's literal top level.
func walkTree(stmts []jsast.Stmt, visitStmt func(jsast.Stmt), visitExpr func(jsast.Expr)) {
	if visitStmt == nil {
		visitStmt = func(jsast.Stmt) {}
	}
	if visitExpr == nil {
		visitExpr = func(jsast.Expr) {}
	}
	walkStmtList(stmts, visitStmt, visitExpr)
}

func walkStmtList(stmts []jsast.Stmt, visitStmt func(jsast.Stmt), visitExpr func(jsast.Expr)) {
	for _, s := range stmts {
		walkStmt(s, visitStmt, visitExpr)
	}
}

func walkStmt(s jsast.Stmt, visitStmt func(jsast.Stmt), visitExpr func(jsast.Expr)) {
	visitStmt(s)
	switch n := s.(type) {
	case *jsast.ExprStmt:
		walkExpr(n.Expr, visitStmt, visitExpr)
	case *jsast.BlockStmt:
		walkStmtList(n.Body, visitStmt, visitExpr)
	case *jsast.ReturnStmt:
		if n.Argument != nil {
			walkExpr(n.Argument, visitStmt, visitExpr)
		}
	case *jsast.VarDecl:
		for _, d := range n.Decls {
			if d.Init != nil {
				walkExpr(d.Init, visitStmt, visitExpr)
			}
		}
	case *jsast.FuncDecl:
		if n.Body != nil {
			walkStmtList(n.Body.Body, visitStmt, visitExpr)
		}
	case *jsast.IfStmt:
		walkExpr(n.Test, visitStmt, visitExpr)
		walkStmt(n.Cons, visitStmt, visitExpr)
		if n.Alt != nil {
			walkStmt(n.Alt, visitStmt, visitExpr)
		}
	case *jsast.ForStmt:
		if n.Init != nil {
			walkStmt(n.Init, visitStmt, visitExpr)
		}
		if n.Test != nil {
			walkExpr(n.Test, visitStmt, visitExpr)
		}
		if n.Update != nil {
			walkExpr(n.Update, visitStmt, visitExpr)
		}
		walkStmt(n.Body, visitStmt, visitExpr)
	case *jsast.TryStmt:
		if n.Block != nil {
			walkStmtList(n.Block.Body, visitStmt, visitExpr)
		}
		if n.CatchBody != nil {
			walkStmtList(n.CatchBody.Body, visitStmt, visitExpr)
		}
		if n.Finally != nil {
			walkStmtList(n.Finally.Body, visitStmt, visitExpr)
		}
	}
}

func walkExpr(e jsast.Expr, visitStmt func(jsast.Stmt), visitExpr func(jsast.Expr)) {
	if e == nil {
		return
	}
	visitExpr(e)
	switch n := e.(type) {
	case *jsast.ArrayLit:
		for _, el := range n.Elements {
			if el.Expr != nil {
				walkExpr(el.Expr, visitStmt, visitExpr)
			}
		}
	case *jsast.MemberExpr:
		walkExpr(n.Object, visitStmt, visitExpr)
		if n.Computed {
			walkExpr(n.Property, visitStmt, visitExpr)
		}
	case *jsast.CallExpr:
		walkExpr(n.Callee, visitStmt, visitExpr)
		for _, a := range n.Args {
			walkExpr(a, visitStmt, visitExpr)
		}
	case *jsast.BinaryExpr:
		walkExpr(n.Left, visitStmt, visitExpr)
		walkExpr(n.Right, visitStmt, visitExpr)
	case *jsast.UnaryExpr:
		walkExpr(n.Operand, visitStmt, visitExpr)
	case *jsast.AssignExpr:
		walkExpr(n.Target, visitStmt, visitExpr)
		walkExpr(n.Value, visitStmt, visitExpr)
	case *jsast.ConditionalExpr:
		walkExpr(n.Test, visitStmt, visitExpr)
		walkExpr(n.Cons, visitStmt, visitExpr)
		walkExpr(n.Alt, visitStmt, visitExpr)
	case *jsast.SequenceExpr:
		for _, se := range n.Exprs {
			walkExpr(se, visitStmt, visitExpr)
		}
	case *jsast.ParenExpr:
		walkExpr(n.Inner, visitStmt, visitExpr)
	case *jsast.FunctionExpr:
		if n.Body != nil {
			walkStmtList(n.Body.Body, visitStmt, visitExpr)
		}
	}
}
