package passes

import (
	"strconv"

	"github.com/famomatic/ytv1/internal/botchallenge/jsast"
)

// EliminateProxyVariables is pass E: collapse `var v = f;` where f is a
// bare reference to a function declaration into direct uses of f,
// rewriting every reference to v into a reference to f (or to a renamed
// f, if an inner scope shadows its name — spec.md §4.E's collision case).
//
// It cannot fail (spec.md §4.E "Failure semantics"): patterns that don't
// match the `var v = f;` shape are left untouched.
func EliminateProxyVariables(prog *jsast.Program) {
	functions := collectFunctionDeclBindings(prog)
	deepestScope := collectDeepestScopePerSymbol(prog)

	substitutions := map[jsast.Binding]*jsast.Ident{}
	renames := map[jsast.Binding]string{}
	toRemove := map[jsast.Binding]bool{}
	counter := 0

	walkTree(prog.Body, func(s jsast.Stmt) {
		vd, ok := s.(*jsast.VarDecl)
		if !ok {
			return
		}
		for _, d := range vd.Decls {
			fIdent, ok := d.Init.(*jsast.Ident)
			if !ok || d.Name == nil || !functions[fIdent.Binding] {
				continue
			}

			replacementSym := fIdent.Binding.Symbol
			if deepest, ok := deepestScope[fIdent.Binding.Symbol]; ok && deepest > fIdent.Binding.ScopeID {
				replacementSym = "proxyFn" + strconv.Itoa(counter)
				counter++
				renames[fIdent.Binding] = replacementSym
			}

			substitutions[d.Name.Binding] = &jsast.Ident{Name: replacementSym, Binding: fIdent.Binding}
			toRemove[d.Name.Binding] = true
		}
	}, nil)

	if len(substitutions) == 0 {
		return
	}

	jsast.RewriteExprs(prog, func(e jsast.Expr) jsast.Expr {
		id, ok := e.(*jsast.Ident)
		if !ok {
			return e
		}
		if repl, ok := substitutions[id.Binding]; ok {
			return repl
		}
		if newSym, ok := renames[id.Binding]; ok {
			return &jsast.Ident{Name: newSym, Binding: id.Binding}
		}
		return e
	})

	if len(renames) > 0 {
		walkTree(prog.Body, func(s jsast.Stmt) {
			fd, ok := s.(*jsast.FuncDecl)
			if !ok {
				return
			}
			if newName, ok := renames[fd.Name.Binding]; ok {
				fd.Name = &jsast.Ident{Name: newName, Binding: fd.Name.Binding}
			}
		}, nil)
	}

	removeEmptiedVarDecls(prog, toRemove)
}

// collectFunctionDeclBindings returns the set of binding identities that
// denote a `function f(){}` declaration, anywhere in the program.
func collectFunctionDeclBindings(prog *jsast.Program) map[jsast.Binding]bool {
	set := map[jsast.Binding]bool{}
	walkTree(prog.Body, func(s jsast.Stmt) {
		if fd, ok := s.(*jsast.FuncDecl); ok {
			set[fd.Name.Binding] = true
		}
	}, nil)
	return set
}

// collectDeepestScopePerSymbol returns, for each identifier symbol seen
// anywhere in the program, the deepest (largest) scope id any occurrence
// of that symbol resolved to. This is spec.md §4.E's table H: an inner
// scope reusing a function's name is detected by comparing its own
// declaration scope against this table.
func collectDeepestScopePerSymbol(prog *jsast.Program) map[string]int {
	deepest := map[string]int{}
	record := func(b jsast.Binding) {
		if cur, ok := deepest[b.Symbol]; !ok || b.ScopeID > cur {
			deepest[b.Symbol] = b.ScopeID
		}
	}

	walkTree(prog.Body, func(s jsast.Stmt) {
		switch n := s.(type) {
		case *jsast.FuncDecl:
			record(n.Name.Binding)
			for _, p := range n.Params {
				record(p.Binding)
			}
		case *jsast.VarDecl:
			for _, d := range n.Decls {
				record(d.Name.Binding)
			}
		}
	}, func(e jsast.Expr) {
		switch n := e.(type) {
		case *jsast.Ident:
			record(n.Binding)
		case *jsast.FunctionExpr:
			if n.Name != nil {
				record(n.Name.Binding)
			}
			for _, p := range n.Params {
				record(p.Binding)
			}
		}
	})

	return deepest
}

func removeEmptiedVarDecls(prog *jsast.Program, toRemove map[jsast.Binding]bool) {
	prog.Body = filterVarDecls(prog.Body, toRemove)
}

// filterVarDecls rebuilds a statement list, dropping declarators whose
// declared-name binding is in toRemove and dropping VarDecl statements
// whose declarator list becomes empty, recursing into every nested block
// and into function expressions reached through arbitrary expressions.
func filterVarDecls(stmts []jsast.Stmt, toRemove map[jsast.Binding]bool) []jsast.Stmt {
	out := make([]jsast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		switch n := s.(type) {
		case *jsast.VarDecl:
			kept := n.Decls[:0]
			for _, d := range n.Decls {
				if !toRemove[d.Name.Binding] {
					kept = append(kept, d)
				}
			}
			n.Decls = kept
			if len(n.Decls) == 0 {
				continue
			}
			for _, d := range n.Decls {
				if d.Init != nil {
					filterVarDeclsInExpr(d.Init, toRemove)
				}
			}
			out = append(out, n)
		case *jsast.BlockStmt:
			n.Body = filterVarDecls(n.Body, toRemove)
			out = append(out, n)
		case *jsast.IfStmt:
			n.Cons = filterVarDeclsInStmt(n.Cons, toRemove)
			if n.Alt != nil {
				n.Alt = filterVarDeclsInStmt(n.Alt, toRemove)
			}
			out = append(out, n)
		case *jsast.ForStmt:
			if vd, ok := n.Init.(*jsast.VarDecl); ok {
				if len(filterVarDecls([]jsast.Stmt{vd}, toRemove)) == 0 {
					n.Init = nil
				}
			}
			n.Body = filterVarDeclsInStmt(n.Body, toRemove)
			out = append(out, n)
		case *jsast.TryStmt:
			if n.Block != nil {
				n.Block.Body = filterVarDecls(n.Block.Body, toRemove)
			}
			if n.CatchBody != nil {
				n.CatchBody.Body = filterVarDecls(n.CatchBody.Body, toRemove)
			}
			if n.Finally != nil {
				n.Finally.Body = filterVarDecls(n.Finally.Body, toRemove)
			}
			out = append(out, n)
		case *jsast.FuncDecl:
			if n.Body != nil {
				n.Body.Body = filterVarDecls(n.Body.Body, toRemove)
			}
			out = append(out, n)
		case *jsast.ExprStmt:
			filterVarDeclsInExpr(n.Expr, toRemove)
			out = append(out, n)
		case *jsast.ReturnStmt:
			if n.Argument != nil {
				filterVarDeclsInExpr(n.Argument, toRemove)
			}
			out = append(out, n)
		default:
			out = append(out, s)
		}
	}
	return out
}

func filterVarDeclsInStmt(s jsast.Stmt, toRemove map[jsast.Binding]bool) jsast.Stmt {
	out := filterVarDecls([]jsast.Stmt{s}, toRemove)
	if len(out) == 0 {
		return &jsast.EmptyStmt{}
	}
	return out[0]
}

// filterVarDeclsInExpr descends into FunctionExpr literals reached through
// an arbitrary expression (e.g. the rotator IIFE) to apply the same
// declarator filtering inside their bodies.
func filterVarDeclsInExpr(e jsast.Expr, toRemove map[jsast.Binding]bool) {
	switch n := e.(type) {
	case *jsast.FunctionExpr:
		if n.Body != nil {
			n.Body.Body = filterVarDecls(n.Body.Body, toRemove)
		}
	case *jsast.CallExpr:
		filterVarDeclsInExpr(n.Callee, toRemove)
		for _, a := range n.Args {
			filterVarDeclsInExpr(a, toRemove)
		}
	case *jsast.MemberExpr:
		filterVarDeclsInExpr(n.Object, toRemove)
		if n.Computed {
			filterVarDeclsInExpr(n.Property, toRemove)
		}
	case *jsast.BinaryExpr:
		filterVarDeclsInExpr(n.Left, toRemove)
		filterVarDeclsInExpr(n.Right, toRemove)
	case *jsast.UnaryExpr:
		filterVarDeclsInExpr(n.Operand, toRemove)
	case *jsast.AssignExpr:
		filterVarDeclsInExpr(n.Value, toRemove)
	case *jsast.ConditionalExpr:
		filterVarDeclsInExpr(n.Test, toRemove)
		filterVarDeclsInExpr(n.Cons, toRemove)
		filterVarDeclsInExpr(n.Alt, toRemove)
	case *jsast.SequenceExpr:
		for _, se := range n.Exprs {
			filterVarDeclsInExpr(se, toRemove)
		}
	case *jsast.ParenExpr:
		filterVarDeclsInExpr(n.Inner, toRemove)
	case *jsast.ArrayLit:
		for _, el := range n.Elements {
			if el.Expr != nil {
				filterVarDeclsInExpr(el.Expr, toRemove)
			}
		}
	}
}
