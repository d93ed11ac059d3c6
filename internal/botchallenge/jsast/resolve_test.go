package jsast

import "testing"

func TestResolveSameBindingForSameDeclaration(t *testing.T) {
	prog, err := Parse(`var a=1; a=a+1;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	decl := prog.Body[0].(*VarDecl).Decls[0].Name
	assign := prog.Body[1].(*ExprStmt).Expr.(*AssignExpr)
	target := assign.Target.(*Ident)
	rhs := assign.Value.(*BinaryExpr).Left.(*Ident)

	if decl.Binding != target.Binding || decl.Binding != rhs.Binding {
		t.Fatalf("expected identical bindings, got decl=%v target=%v rhs=%v", decl.Binding, target.Binding, rhs.Binding)
	}
	if !decl.Binding.Resolved() {
		t.Fatalf("module-scope var should resolve, got %v", decl.Binding)
	}
}

func TestResolveFreeReferenceIsUnresolved(t *testing.T) {
	prog, err := Parse(`globalThis.process;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	member := prog.Body[0].(*ExprStmt).Expr.(*MemberExpr)
	id := member.Object.(*Ident)
	if id.Binding.Resolved() {
		t.Fatalf("globalThis should be unresolved, got %v", id.Binding)
	}
	if id.Binding.ScopeID != -1 {
		t.Fatalf("unresolved binding should carry ScopeID -1, got %d", id.Binding.ScopeID)
	}
}

func TestResolveParamShadowsOuterVar(t *testing.T) {
	prog, err := Parse(`var a=1; function f(a){return a;}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	outer := prog.Body[0].(*VarDecl).Decls[0].Name
	fd := prog.Body[1].(*FuncDecl)
	param := fd.Params[0]
	ret := fd.Body.Body[0].(*ReturnStmt).Argument.(*Ident)

	if outer.Binding == param.Binding {
		t.Fatalf("param should shadow outer var, got identical bindings %v", outer.Binding)
	}
	if ret.Binding != param.Binding {
		t.Fatalf("return value should resolve to the param, got %v vs %v", ret.Binding, param.Binding)
	}
}

func TestResolveNamedFunctionExpressionSeesItself(t *testing.T) {
	prog, err := Parse(`var g = function fact(n){return fact(n);};`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fe := prog.Body[0].(*VarDecl).Decls[0].Init.(*FunctionExpr)
	call := fe.Body.Body[0].(*ReturnStmt).Argument.(*CallExpr)
	callee := call.Callee.(*Ident)
	if callee.Binding != fe.Name.Binding {
		t.Fatalf("inner call should bind to the function expression's own name, got %v vs %v", callee.Binding, fe.Name.Binding)
	}
}

func TestResolveCatchParamScopedToCatchBlock(t *testing.T) {
	prog, err := Parse(`try{a();}catch(e){e;}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	try := prog.Body[0].(*TryStmt)
	use := try.CatchBody.Body[0].(*ExprStmt).Expr.(*Ident)
	if use.Binding != try.CatchParam.Binding {
		t.Fatalf("catch body reference should bind to the catch param, got %v vs %v", use.Binding, try.CatchParam.Binding)
	}
}

func TestResolveHoistsVarBeforeUse(t *testing.T) {
	prog, err := Parse(`function f(){return a; var a;}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fd := prog.Body[0].(*FuncDecl)
	ret := fd.Body.Body[0].(*ReturnStmt).Argument.(*Ident)
	decl := fd.Body.Body[1].(*VarDecl).Decls[0].Name
	if ret.Binding != decl.Binding {
		t.Fatalf("use before declaration should still resolve via hoisting, got %v vs %v", ret.Binding, decl.Binding)
	}
}
