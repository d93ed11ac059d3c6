package passes

import (
	"math"
	"strconv"

	"github.com/famomatic/ytv1/internal/botchallenge/jsast"
)

// stringIndex is the (offset, op) pair the indexer function applies to a
// fake index before reading the real string table: I(k) = D[k op offset].
type stringIndex struct {
	offset uint32
	op     string
}

// DeobfuscateStrings is pass F: find the obfuscated string table, the
// function that indexes into it, and the checksum expression used to
// verify the table is in the right rotation, then rotate the table
// until the checksum matches and substitute every string access with
// its plaintext literal. Grounded on
// original_source/src/deobfuscate/strings.rs.
func DeobfuscateStrings(prog *jsast.Program) error {
	producerDecl, strs, ok := findProducerFunction(prog)
	if !ok {
		return ErrMissingProducer
	}
	producerBinding := producerDecl.Name.Binding

	indexerDecl, idx, ok := findIndexFunction(prog, producerBinding)
	if !ok {
		return ErrMissingIndexer
	}
	indexerBinding := indexerDecl.Name.Binding

	checksumExpr, answer, ok := findChecksumExpression(prog, producerBinding)
	if !ok {
		return ErrMissingChecksum
	}

	original := append([]string(nil), strs...)
	current := append([]string(nil), strs...)

	for {
		candidate := jsast.CloneExpr(checksumExpr)
		candidate = substituteParseIntCalls(candidate, indexerBinding, idx, current)
		candidate = jsast.Simplify(candidate)
		if n, ok := candidate.(*jsast.NumberLit); ok && n.Value == answer {
			break
		}

		current = append(current[1:], current[0])
		if sameStrings(current, original) {
			return ErrRotationExhausted
		}
	}

	jsast.RewriteExprs(prog, func(e jsast.Expr) jsast.Expr {
		return substituteParseIntCalls(e, indexerBinding, idx, current)
	})
	jsast.RewriteExprs(prog, func(e jsast.Expr) jsast.Expr {
		return substituteIndexerCalls(e, indexerBinding, idx, current)
	})

	remove := map[jsast.Binding]bool{producerBinding: true, indexerBinding: true}
	prog.Body = removeFuncDecls(prog.Body, remove)

	return nil
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// findProducerFunction locates the function declaration that returns the
// obfuscated string table (phase F1). It scans FuncDecls in document
// order and, for each, looks anywhere in its subtree (including nested
// declarations and function expressions) for an array literal made
// entirely of string literals with no spreads or elisions — the last
// such array found inside a candidate's subtree wins, and the first
// candidate (outermost in document order) that has one wins overall,
// matching the original visitor's overwrite-then-early-return behavior.
func findProducerFunction(prog *jsast.Program) (*jsast.FuncDecl, []string, bool) {
	var found *jsast.FuncDecl
	var strs []string
	walkTree(prog.Body, func(s jsast.Stmt) {
		if found != nil {
			return
		}
		fd, ok := s.(*jsast.FuncDecl)
		if !ok || fd.Body == nil {
			return
		}
		if arr, ok := lastStringArrayIn(fd.Body.Body); ok {
			found = fd
			strs = arr
		}
	}, nil)
	return found, strs, found != nil
}

func lastStringArrayIn(stmts []jsast.Stmt) ([]string, bool) {
	var result []string
	var found bool
	walkTree(stmts, nil, func(e jsast.Expr) {
		arr, ok := e.(*jsast.ArrayLit)
		if !ok {
			return
		}
		vals := make([]string, 0, len(arr.Elements))
		for _, el := range arr.Elements {
			if el.Spread || el.Elision {
				return
			}
			s, ok := el.Expr.(*jsast.StringLit)
			if !ok {
				return
			}
			vals = append(vals, s.Value)
		}
		result = vals
		found = true
	})
	return result, found
}

// findIndexFunction locates the function declaration that indexes into
// the obfuscated string table (phase F2): the first function declaration
// other than the producer itself whose subtree both calls the producer
// and contains an assignment `x = x <op> N` with a numeric-literal right
// operand, recording (offset, op) from that assignment.
func findIndexFunction(prog *jsast.Program, producerBinding jsast.Binding) (*jsast.FuncDecl, stringIndex, bool) {
	var found *jsast.FuncDecl
	var idx stringIndex
	walkTree(prog.Body, func(s jsast.Stmt) {
		if found != nil {
			return
		}
		fd, ok := s.(*jsast.FuncDecl)
		if !ok || fd.Body == nil || fd.Name.Binding == producerBinding {
			return
		}
		if !callsBinding(fd.Body.Body, producerBinding) {
			return
		}
		if i, ok := firstIndexAssign(fd.Body.Body); ok {
			found = fd
			idx = i
		}
	}, nil)
	return found, idx, found != nil
}

func callsBinding(stmts []jsast.Stmt, target jsast.Binding) bool {
	var found bool
	walkTree(stmts, nil, func(e jsast.Expr) {
		if found {
			return
		}
		call, ok := e.(*jsast.CallExpr)
		if !ok {
			return
		}
		if id, ok := call.Callee.(*jsast.Ident); ok && id.Binding == target {
			found = true
		}
	})
	return found
}

func firstIndexAssign(stmts []jsast.Stmt) (stringIndex, bool) {
	var result stringIndex
	var found bool
	walkTree(stmts, nil, func(e jsast.Expr) {
		if found {
			return
		}
		assign, ok := e.(*jsast.AssignExpr)
		if !ok || assign.Op != "=" {
			return
		}
		bin, ok := assign.Value.(*jsast.BinaryExpr)
		if !ok {
			return
		}
		n, ok := bin.Right.(*jsast.NumberLit)
		if !ok || !isKnownIndexOp(bin.Op) {
			return
		}
		result = stringIndex{offset: uint32(int64(n.Value)), op: bin.Op}
		found = true
	})
	return result, found
}

// isKnownIndexOp reports whether op is one of the fixed set of binary
// operators the indexer transform is allowed to use. The set is treated
// as closed: an assignment using anything else is not a candidate index
// transform, so the search keeps looking rather than accepting an
// operator computeIndex couldn't evaluate.
func isKnownIndexOp(op string) bool {
	switch op {
	case "<<", ">>", ">>>", "+", "-", "*", "/", "%", "|", "^", "&", "**":
		return true
	}
	return false
}

// findChecksumExpression locates the answer/expr pair used to verify the
// table rotation (phase F3): a call whose first argument (if an
// identifier) names the producer function and whose second argument is
// the numeric answer, with a binary-expression var declarator inside it
// supplying the checksum formula.
func findChecksumExpression(prog *jsast.Program, producerBinding jsast.Binding) (*jsast.BinaryExpr, float64, bool) {
	var checksum *jsast.BinaryExpr
	var answer float64
	var haveAnswer bool

	var visitStmts func(stmts []jsast.Stmt, inside bool)
	var visitExpr func(e jsast.Expr, inside bool)

	visitStmts = func(stmts []jsast.Stmt, inside bool) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *jsast.VarDecl:
				for _, d := range n.Decls {
					if inside {
						if bin, ok := d.Init.(*jsast.BinaryExpr); ok {
							checksum = bin
						}
					}
					if d.Init != nil {
						visitExpr(d.Init, inside)
					}
				}
			case *jsast.ExprStmt:
				visitExpr(n.Expr, inside)
			case *jsast.ReturnStmt:
				if n.Argument != nil {
					visitExpr(n.Argument, inside)
				}
			case *jsast.BlockStmt:
				visitStmts(n.Body, inside)
			case *jsast.IfStmt:
				visitExpr(n.Test, inside)
				visitStmts([]jsast.Stmt{n.Cons}, inside)
				if n.Alt != nil {
					visitStmts([]jsast.Stmt{n.Alt}, inside)
				}
			case *jsast.ForStmt:
				if n.Init != nil {
					visitStmts([]jsast.Stmt{n.Init}, inside)
				}
				if n.Test != nil {
					visitExpr(n.Test, inside)
				}
				if n.Update != nil {
					visitExpr(n.Update, inside)
				}
				visitStmts([]jsast.Stmt{n.Body}, inside)
			case *jsast.FuncDecl:
				if n.Body != nil {
					visitStmts(n.Body.Body, inside)
				}
			case *jsast.TryStmt:
				if n.Block != nil {
					visitStmts(n.Block.Body, inside)
				}
				if n.CatchBody != nil {
					visitStmts(n.CatchBody.Body, inside)
				}
				if n.Finally != nil {
					visitStmts(n.Finally.Body, inside)
				}
			}
		}
	}

	visitExpr = func(e jsast.Expr, inside bool) {
		switch n := e.(type) {
		case *jsast.CallExpr:
			now := inside
			if !inside && len(n.Args) >= 2 {
				match := true
				if id, ok := n.Args[0].(*jsast.Ident); ok && id.Binding != producerBinding {
					match = false
				}
				if a, ok := n.Args[1].(*jsast.NumberLit); match && ok {
					answer = a.Value
					haveAnswer = true
					now = true
				}
			}
			visitExpr(n.Callee, now)
			for _, a := range n.Args {
				visitExpr(a, now)
			}
		case *jsast.FunctionExpr:
			if n.Body != nil {
				visitStmts(n.Body.Body, inside)
			}
		case *jsast.MemberExpr:
			visitExpr(n.Object, inside)
			if n.Computed {
				visitExpr(n.Property, inside)
			}
		case *jsast.BinaryExpr:
			visitExpr(n.Left, inside)
			visitExpr(n.Right, inside)
		case *jsast.UnaryExpr:
			visitExpr(n.Operand, inside)
		case *jsast.AssignExpr:
			visitExpr(n.Target, inside)
			visitExpr(n.Value, inside)
		case *jsast.ConditionalExpr:
			visitExpr(n.Test, inside)
			visitExpr(n.Cons, inside)
			visitExpr(n.Alt, inside)
		case *jsast.SequenceExpr:
			for _, se := range n.Exprs {
				visitExpr(se, inside)
			}
		case *jsast.ParenExpr:
			visitExpr(n.Inner, inside)
		case *jsast.ArrayLit:
			for _, el := range n.Elements {
				if el.Expr != nil {
					visitExpr(el.Expr, inside)
				}
			}
		}
	}

	visitStmts(prog.Body, false)
	return checksum, answer, checksum != nil && haveAnswer
}

// substituteParseIntCalls rewrites parseInt(I(k)) call patterns, where I
// is the indexer and k a numeric literal, into the literal numeric value
// of the real string at that index (or NaN, matching JS parseInt on a
// non-numeric-prefixed string). This is phase F4's per-candidate rewrite,
// applied to a cloned tree during rotation and to the live program once
// the winning rotation is found.
func substituteParseIntCalls(e jsast.Expr, indexerBinding jsast.Binding, idx stringIndex, strs []string) jsast.Expr {
	return jsast.RewriteExprTree(e, func(e jsast.Expr) jsast.Expr {
		call, ok := e.(*jsast.CallExpr)
		if !ok || len(call.Args) != 1 {
			return e
		}
		id, ok := call.Callee.(*jsast.Ident)
		if !ok || id.Name != "parseInt" {
			return e
		}
		inner, ok := call.Args[0].(*jsast.CallExpr)
		if !ok || len(inner.Args) != 1 {
			return e
		}
		innerID, ok := inner.Callee.(*jsast.Ident)
		if !ok || innerID.Binding != indexerBinding {
			return e
		}
		fakeIndex, ok := inner.Args[0].(*jsast.NumberLit)
		if !ok {
			return e
		}
		s, ok := lookupIndex(fakeIndex.Value, idx, strs)
		if !ok {
			return &jsast.NumberLit{Value: math.NaN()}
		}
		n, ok := atoiPrefix(s)
		if !ok {
			return &jsast.NumberLit{Value: math.NaN()}
		}
		return &jsast.NumberLit{Value: n}
	})
}

// substituteIndexerCalls rewrites any remaining bare I(k) calls (not
// wrapped in parseInt) into the plaintext string literal, matching
// phase F5's cleanup sweep.
func substituteIndexerCalls(e jsast.Expr, indexerBinding jsast.Binding, idx stringIndex, strs []string) jsast.Expr {
	return jsast.RewriteExprTree(e, func(e jsast.Expr) jsast.Expr {
		call, ok := e.(*jsast.CallExpr)
		if !ok || len(call.Args) != 1 {
			return e
		}
		id, ok := call.Callee.(*jsast.Ident)
		if !ok || id.Binding != indexerBinding {
			return e
		}
		fakeIndex, ok := call.Args[0].(*jsast.NumberLit)
		if !ok {
			return e
		}
		s, ok := lookupIndex(fakeIndex.Value, idx, strs)
		if !ok {
			return e
		}
		return &jsast.StringLit{Value: s}
	})
}

func lookupIndex(fakeIndex float64, idx stringIndex, strs []string) (string, bool) {
	real, ok := computeIndex(uint32(int64(fakeIndex)), idx.offset, idx.op)
	if !ok || int(real) < 0 || int(real) >= len(strs) {
		return "", false
	}
	return strs[real], true
}

// computeIndex implements the fixed operator set the obfuscator's
// indexer uses to turn a fake index into the real table offset, in
// 32-bit unsigned arithmetic (spec.md §9).
func computeIndex(index, offset uint32, op string) (uint32, bool) {
	switch op {
	case "<<":
		return index << (offset & 31), true
	case ">>", ">>>":
		return index >> (offset & 31), true
	case "+":
		return index + offset, true
	case "-":
		return index - offset, true
	case "*":
		return index * offset, true
	case "/":
		if offset == 0 {
			return 0, false
		}
		return index / offset, true
	case "%":
		if offset == 0 {
			return 0, false
		}
		return index % offset, true
	case "|":
		return index | offset, true
	case "^":
		return index ^ offset, true
	case "&":
		return index & offset, true
	case "**":
		return powUint32(index, offset), true
	}
	return 0, false
}

func powUint32(base, exp uint32) uint32 {
	var result uint32 = 1
	for i := uint32(0); i < exp; i++ {
		result *= base
	}
	return result
}

// atoiPrefix parses the leading decimal-digit run of s, mirroring
// JavaScript's parseInt applied to an arbitrary string.
func atoiPrefix(s string) (float64, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// removeFuncDecls strips function declarations whose name binding is in
// remove, recursing into every nested block and into function
// expressions reached through arbitrary expressions.
func removeFuncDecls(stmts []jsast.Stmt, remove map[jsast.Binding]bool) []jsast.Stmt {
	out := make([]jsast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		switch n := s.(type) {
		case *jsast.FuncDecl:
			if remove[n.Name.Binding] {
				continue
			}
			if n.Body != nil {
				n.Body.Body = removeFuncDecls(n.Body.Body, remove)
			}
			out = append(out, n)
		case *jsast.BlockStmt:
			n.Body = removeFuncDecls(n.Body, remove)
			out = append(out, n)
		case *jsast.IfStmt:
			n.Cons = removeFuncDeclsInStmt(n.Cons, remove)
			if n.Alt != nil {
				n.Alt = removeFuncDeclsInStmt(n.Alt, remove)
			}
			out = append(out, n)
		case *jsast.ForStmt:
			n.Body = removeFuncDeclsInStmt(n.Body, remove)
			out = append(out, n)
		case *jsast.TryStmt:
			if n.Block != nil {
				n.Block.Body = removeFuncDecls(n.Block.Body, remove)
			}
			if n.CatchBody != nil {
				n.CatchBody.Body = removeFuncDecls(n.CatchBody.Body, remove)
			}
			if n.Finally != nil {
				n.Finally.Body = removeFuncDecls(n.Finally.Body, remove)
			}
			out = append(out, n)
		case *jsast.ExprStmt, *jsast.ReturnStmt, *jsast.VarDecl:
			walkTree([]jsast.Stmt{s}, nil, func(e jsast.Expr) {
				if fe, ok := e.(*jsast.FunctionExpr); ok && fe.Body != nil {
					fe.Body.Body = removeFuncDecls(fe.Body.Body, remove)
				}
			})
			out = append(out, s)
		default:
			out = append(out, s)
		}
	}
	return out
}

func removeFuncDeclsInStmt(s jsast.Stmt, remove map[jsast.Binding]bool) jsast.Stmt {
	out := removeFuncDecls([]jsast.Stmt{s}, remove)
	if len(out) == 0 {
		return &jsast.EmptyStmt{}
	}
	return out[0]
}
