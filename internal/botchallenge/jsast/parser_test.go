package jsast

import "testing"

func TestParseFunctionDeclShape(t *testing.T) {
	prog, err := Parse(`function f(a,b){return a+b;}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Body))
	}
	fd, ok := prog.Body[0].(*FuncDecl)
	if !ok {
		t.Fatalf("got %T, want *FuncDecl", prog.Body[0])
	}
	if fd.Name.Name != "f" || len(fd.Params) != 2 {
		t.Fatalf("got name=%q params=%d", fd.Name.Name, len(fd.Params))
	}
	ret, ok := fd.Body.Body[0].(*ReturnStmt)
	if !ok {
		t.Fatalf("got %T, want *ReturnStmt", fd.Body.Body[0])
	}
	bin, ok := ret.Argument.(*BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("got %#v, want a '+' BinaryExpr", ret.Argument)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog, err := Parse(`1+2*3;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	es := prog.Body[0].(*ExprStmt)
	bin, ok := es.Expr.(*BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("top-level op = %#v, want '+'", es.Expr)
	}
	if _, ok := bin.Left.(*NumberLit); !ok {
		t.Fatalf("left = %#v, want NumberLit", bin.Left)
	}
	rhs, ok := bin.Right.(*BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Fatalf("right = %#v, want '*' BinaryExpr", bin.Right)
	}
}

func TestParseExponentiationIsRightAssociative(t *testing.T) {
	prog, err := Parse(`2**3**2;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	top := prog.Body[0].(*ExprStmt).Expr.(*BinaryExpr)
	if top.Op != "**" {
		t.Fatalf("top op = %q, want **", top.Op)
	}
	if _, ok := top.Left.(*NumberLit); !ok {
		t.Fatalf("left = %#v, want NumberLit (2)", top.Left)
	}
	right, ok := top.Right.(*BinaryExpr)
	if !ok || right.Op != "**" {
		t.Fatalf("right = %#v, want nested ** (3**2)", top.Right)
	}
}

func TestParseComputedAndStaticMember(t *testing.T) {
	prog, err := Parse(`a.b["c"];`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	outer := prog.Body[0].(*ExprStmt).Expr.(*MemberExpr)
	if !outer.Computed {
		t.Fatalf("outer member should be computed")
	}
	inner, ok := outer.Object.(*MemberExpr)
	if !ok || inner.Computed {
		t.Fatalf("inner member = %#v, want static", outer.Object)
	}
	prop, ok := inner.Property.(*Ident)
	if !ok || prop.Name != "b" {
		t.Fatalf("inner property = %#v, want Ident(b)", inner.Property)
	}
}

func TestParseArrayLitWithElisionsAndSpread(t *testing.T) {
	prog, err := Parse(`[1,,...a];`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	arr := prog.Body[0].(*ExprStmt).Expr.(*ArrayLit)
	if len(arr.Elements) != 3 {
		t.Fatalf("got %d elements, want 3: %#v", len(arr.Elements), arr.Elements)
	}
	if arr.Elements[1].Elision != true {
		t.Fatalf("element 1 should be an elision hole")
	}
	if !arr.Elements[2].Spread {
		t.Fatalf("element 2 should be a spread")
	}
}

func TestParseIfForTryStatements(t *testing.T) {
	src := `
	function f(a){
		if(a){return 1;}else{return 2;}
		for(var i=0;i<a;i=i+1){a=a-1;}
		try{a=a/0;}catch(e){a=0;}finally{a=a+1;}
		return a;
	}`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fd := prog.Body[0].(*FuncDecl)
	if len(fd.Body.Body) != 4 {
		t.Fatalf("got %d statements in body, want 4", len(fd.Body.Body))
	}
	if _, ok := fd.Body.Body[0].(*IfStmt); !ok {
		t.Errorf("statement 0 = %T, want *IfStmt", fd.Body.Body[0])
	}
	if _, ok := fd.Body.Body[1].(*ForStmt); !ok {
		t.Errorf("statement 1 = %T, want *ForStmt", fd.Body.Body[1])
	}
	try, ok := fd.Body.Body[2].(*TryStmt)
	if !ok {
		t.Fatalf("statement 2 = %T, want *TryStmt", fd.Body.Body[2])
	}
	if try.CatchParam == nil || try.CatchParam.Name != "e" || try.Finally == nil {
		t.Errorf("try statement missing catch param or finally: %#v", try)
	}
}

func TestParseFunctionExpressionAndParens(t *testing.T) {
	prog, err := Parse(`(function named(x){return x;})`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	paren := prog.Body[0].(*ExprStmt).Expr.(*ParenExpr)
	fn, ok := paren.Inner.(*FunctionExpr)
	if !ok {
		t.Fatalf("inner = %#v, want *FunctionExpr", paren.Inner)
	}
	if fn.Name == nil || fn.Name.Name != "named" || len(fn.Params) != 1 {
		t.Fatalf("got %#v", fn)
	}
}

func TestParseUnexpectedTokenErrors(t *testing.T) {
	if _, err := Parse(`var = ;`); err == nil {
		t.Fatal("expected parse error")
	}
}
