package jsast

// scope is one lexical scope: the module scope (id 0), one per
// FunctionExpr/FuncDecl, one per catch clause with a parameter, and one
// wrapper per named function expression.
type scope struct {
	id       int
	parent   *scope
	declared map[string]bool
}

func newScope(id int, parent *scope) *scope {
	return &scope{id: id, parent: parent, declared: make(map[string]bool)}
}

func (s *scope) lookup(name string) (int, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.declared[name] {
			return cur.id, true
		}
	}
	return -1, false
}

// Resolve performs the single name-resolution pass spec.md §3 requires:
// every Ident in prog gets a Binding such that two identifiers share a
// binding iff they refer to the same declaration. Parse calls it on every
// program it returns; the botchallenge driver calls it once more after
// SimplifyProgram, before any rewriting pass runs.
func Resolve(prog *Program) {
	nextScopeID := 0
	module := newScope(nextScopeID, nil)
	nextScopeID++

	hoistDeclarations(prog.Body, module)

	resolveStmts(prog.Body, module, &nextScopeID)
}

// hoistDeclarations collects every var/function declaration whose scope is
// sc into sc.declared, without descending into nested function bodies
// (those get their own scope and hoist independently).
func hoistDeclarations(stmts []Stmt, sc *scope) {
	for _, s := range stmts {
		hoistStmt(s, sc)
	}
}

func hoistStmt(s Stmt, sc *scope) {
	switch n := s.(type) {
	case *VarDecl:
		for _, d := range n.Decls {
			sc.declared[d.Name.Name] = true
		}
	case *FuncDecl:
		sc.declared[n.Name.Name] = true
	case *BlockStmt:
		hoistDeclarations(n.Body, sc)
	case *IfStmt:
		hoistStmt(n.Cons, sc)
		if n.Alt != nil {
			hoistStmt(n.Alt, sc)
		}
	case *ForStmt:
		if n.Init != nil {
			hoistStmt(n.Init, sc)
		}
		hoistStmt(n.Body, sc)
	case *TryStmt:
		if n.Block != nil {
			hoistDeclarations(n.Block.Body, sc)
		}
		if n.CatchBody != nil {
			hoistDeclarations(n.CatchBody.Body, sc)
		}
		if n.Finally != nil {
			hoistDeclarations(n.Finally.Body, sc)
		}
	}
}

func resolveStmts(stmts []Stmt, sc *scope, next *int) {
	for _, s := range stmts {
		resolveStmt(s, sc, next)
	}
}

func resolveStmt(s Stmt, sc *scope, next *int) {
	switch n := s.(type) {
	case *ExprStmt:
		resolveExpr(n.Expr, sc, next)
	case *BlockStmt:
		resolveStmts(n.Body, sc, next)
	case *ReturnStmt:
		if n.Argument != nil {
			resolveExpr(n.Argument, sc, next)
		}
	case *VarDecl:
		for _, d := range n.Decls {
			bindIdent(d.Name, sc)
			if d.Init != nil {
				resolveExpr(d.Init, sc, next)
			}
		}
	case *FuncDecl:
		bindIdent(n.Name, sc)
		resolveFunction(n.Name, n.Params, n.Body, &n.ScopeID, sc, next)
	case *IfStmt:
		resolveExpr(n.Test, sc, next)
		resolveStmt(n.Cons, sc, next)
		if n.Alt != nil {
			resolveStmt(n.Alt, sc, next)
		}
	case *ForStmt:
		if n.Init != nil {
			resolveStmt(n.Init, sc, next)
		}
		if n.Test != nil {
			resolveExpr(n.Test, sc, next)
		}
		if n.Update != nil {
			resolveExpr(n.Update, sc, next)
		}
		resolveStmt(n.Body, sc, next)
	case *TryStmt:
		if n.Block != nil {
			resolveStmts(n.Block.Body, sc, next)
		}
		if n.CatchBody != nil {
			catchScope := sc
			if n.CatchParam != nil {
				// The catch parameter shadows outer bindings for the
				// duration of the catch block only; model it as its own
				// tiny scope rather than polluting the enclosing one.
				catchScope = newScope(*next, sc)
				*next++
				catchScope.declared[n.CatchParam.Name] = true
				bindIdent(n.CatchParam, catchScope)
			}
			resolveStmts(n.CatchBody.Body, catchScope, next)
		}
		if n.Finally != nil {
			resolveStmts(n.Finally.Body, sc, next)
		}
	case *EmptyStmt:
		// nothing to resolve
	}
}

func resolveFunction(name *Ident, params []*Ident, body *BlockStmt, scopeID *int, parent *scope, next *int) {
	fnScope := newScope(*next, parent)
	*scopeID = fnScope.id
	*next++

	for _, p := range params {
		fnScope.declared[p.Name] = true
	}
	if body != nil {
		hoistDeclarations(body.Body, fnScope)
	}
	for _, p := range params {
		bindIdent(p, fnScope)
	}
	if body != nil {
		resolveStmts(body.Body, fnScope, next)
	}
}

func resolveExpr(e Expr, sc *scope, next *int) {
	switch n := e.(type) {
	case *Ident:
		bindIdent(n, sc)
	case *ArrayLit:
		for _, el := range n.Elements {
			if el.Expr != nil {
				resolveExpr(el.Expr, sc, next)
			}
		}
	case *MemberExpr:
		resolveExpr(n.Object, sc, next)
		if n.Computed {
			resolveExpr(n.Property, sc, next)
		}
		// non-computed Property is a plain property name, not a binding.
	case *CallExpr:
		resolveExpr(n.Callee, sc, next)
		for _, a := range n.Args {
			resolveExpr(a, sc, next)
		}
	case *BinaryExpr:
		resolveExpr(n.Left, sc, next)
		resolveExpr(n.Right, sc, next)
	case *UnaryExpr:
		resolveExpr(n.Operand, sc, next)
	case *AssignExpr:
		resolveExpr(n.Target, sc, next)
		resolveExpr(n.Value, sc, next)
	case *ConditionalExpr:
		resolveExpr(n.Test, sc, next)
		resolveExpr(n.Cons, sc, next)
		resolveExpr(n.Alt, sc, next)
	case *SequenceExpr:
		for _, se := range n.Exprs {
			resolveExpr(se, sc, next)
		}
	case *ParenExpr:
		resolveExpr(n.Inner, sc, next)
	case *FunctionExpr:
		if n.Name != nil {
			// A named function expression's own name is only visible
			// inside its own body; model that with a thin wrapper scope.
			innerDeclScope := newScope(*next, sc)
			*next++
			innerDeclScope.declared[n.Name.Name] = true
			resolveFunction(n.Name, n.Params, n.Body, &n.ScopeID, innerDeclScope, next)
			bindIdentIn(n.Name, innerDeclScope)
		} else {
			resolveFunction(nil, n.Params, n.Body, &n.ScopeID, sc, next)
		}
	}
}

func bindIdent(id *Ident, sc *scope) {
	if scopeID, ok := sc.lookup(id.Name); ok {
		id.Binding = Binding{Symbol: id.Name, ScopeID: scopeID}
		return
	}
	id.Binding = Binding{Symbol: id.Name, ScopeID: -1}
}

func bindIdentIn(id *Ident, sc *scope) {
	id.Binding = Binding{Symbol: id.Name, ScopeID: sc.id}
}
