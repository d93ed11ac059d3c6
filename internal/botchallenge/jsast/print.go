package jsast

import (
	"strconv"
	"strings"
)

// Print renders prog back to JavaScript-like source text. It exists for
// the `deobfuscator` CLI subcommand's inspection output, not for
// round-tripping through Parse — spacing and parenthesization are
// minimal, not faithful to any particular source style.
func Print(prog *Program) string {
	var sb strings.Builder
	printStmtList(&sb, prog.Body)
	return sb.String()
}

func printStmtList(sb *strings.Builder, stmts []Stmt) {
	for _, s := range stmts {
		printStmt(sb, s)
	}
}

func printStmt(sb *strings.Builder, s Stmt) {
	switch n := s.(type) {
	case *ExprStmt:
		printExpr(sb, n.Expr)
		sb.WriteString(";\n")
	case *BlockStmt:
		sb.WriteString("{\n")
		printStmtList(sb, n.Body)
		sb.WriteString("}\n")
	case *ReturnStmt:
		sb.WriteString("return")
		if n.Argument != nil {
			sb.WriteString(" ")
			printExpr(sb, n.Argument)
		}
		sb.WriteString(";\n")
	case *VarDecl:
		sb.WriteString("var ")
		for i, d := range n.Decls {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.Name.Name)
			if d.Init != nil {
				sb.WriteString("=")
				printExpr(sb, d.Init)
			}
		}
		sb.WriteString(";\n")
	case *FuncDecl:
		sb.WriteString("function ")
		sb.WriteString(n.Name.Name)
		printParams(sb, n.Params)
		printBlock(sb, n.Body)
	case *IfStmt:
		sb.WriteString("if(")
		printExpr(sb, n.Test)
		sb.WriteString(")")
		printStmt(sb, n.Cons)
		if n.Alt != nil {
			sb.WriteString("else ")
			printStmt(sb, n.Alt)
		}
	case *ForStmt:
		sb.WriteString("for(")
		if n.Init != nil {
			printStmtInline(sb, n.Init)
		}
		sb.WriteString(";")
		if n.Test != nil {
			printExpr(sb, n.Test)
		}
		sb.WriteString(";")
		if n.Update != nil {
			printExpr(sb, n.Update)
		}
		sb.WriteString(")")
		printStmt(sb, n.Body)
	case *TryStmt:
		sb.WriteString("try")
		printBlock(sb, n.Block)
		if n.CatchBody != nil {
			sb.WriteString("catch")
			if n.CatchParam != nil {
				sb.WriteString("(" + n.CatchParam.Name + ")")
			}
			printBlock(sb, n.CatchBody)
		}
		if n.Finally != nil {
			sb.WriteString("finally")
			printBlock(sb, n.Finally)
		}
	case *EmptyStmt:
		sb.WriteString(";\n")
	}
}

// printStmtInline prints a statement without its trailing newline, for
// use inside a for-loop header.
func printStmtInline(sb *strings.Builder, s Stmt) {
	switch n := s.(type) {
	case *VarDecl:
		sb.WriteString("var ")
		for i, d := range n.Decls {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.Name.Name)
			if d.Init != nil {
				sb.WriteString("=")
				printExpr(sb, d.Init)
			}
		}
	case *ExprStmt:
		printExpr(sb, n.Expr)
	}
}

func printBlock(sb *strings.Builder, b *BlockStmt) {
	if b == nil {
		sb.WriteString("{}\n")
		return
	}
	sb.WriteString("{\n")
	printStmtList(sb, b.Body)
	sb.WriteString("}\n")
}

func printParams(sb *strings.Builder, params []*Ident) {
	sb.WriteString("(")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(p.Name)
	}
	sb.WriteString(")")
}

func printExpr(sb *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *NumberLit:
		sb.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *StringLit:
		sb.WriteString(strconv.Quote(n.Value))
	case *BoolLit:
		sb.WriteString(strconv.FormatBool(n.Value))
	case *NullLit:
		sb.WriteString("null")
	case *Ident:
		sb.WriteString(n.Name)
	case *ArrayLit:
		sb.WriteString("[")
		for i, el := range n.Elements {
			if i > 0 {
				sb.WriteString(",")
			}
			if el.Elision {
				continue
			}
			if el.Spread {
				sb.WriteString("...")
			}
			printExpr(sb, el.Expr)
		}
		sb.WriteString("]")
	case *MemberExpr:
		printExpr(sb, n.Object)
		if n.Computed {
			sb.WriteString("[")
			printExpr(sb, n.Property)
			sb.WriteString("]")
		} else {
			sb.WriteString(".")
			printExpr(sb, n.Property)
		}
	case *CallExpr:
		printExpr(sb, n.Callee)
		sb.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(",")
			}
			printExpr(sb, a)
		}
		sb.WriteString(")")
	case *BinaryExpr:
		sb.WriteString("(")
		printExpr(sb, n.Left)
		sb.WriteString(n.Op)
		printExpr(sb, n.Right)
		sb.WriteString(")")
	case *UnaryExpr:
		if n.Prefix {
			sb.WriteString(n.Op)
			printExpr(sb, n.Operand)
		} else {
			printExpr(sb, n.Operand)
			sb.WriteString(n.Op)
		}
	case *AssignExpr:
		printExpr(sb, n.Target)
		sb.WriteString(n.Op)
		printExpr(sb, n.Value)
	case *ConditionalExpr:
		sb.WriteString("(")
		printExpr(sb, n.Test)
		sb.WriteString("?")
		printExpr(sb, n.Cons)
		sb.WriteString(":")
		printExpr(sb, n.Alt)
		sb.WriteString(")")
	case *SequenceExpr:
		sb.WriteString("(")
		for i, se := range n.Exprs {
			if i > 0 {
				sb.WriteString(",")
			}
			printExpr(sb, se)
		}
		sb.WriteString(")")
	case *ParenExpr:
		sb.WriteString("(")
		printExpr(sb, n.Inner)
		sb.WriteString(")")
	case *FunctionExpr:
		sb.WriteString("function")
		if n.Name != nil {
			sb.WriteString(" " + n.Name.Name)
		}
		printParams(sb, n.Params)
		printBlock(sb, n.Body)
	}
}
