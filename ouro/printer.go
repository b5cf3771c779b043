package ouro

import (
	"strings"
)

/* ---------- tiny helpers ---------- */

const indentUnit = "    "

// quoteString renders s as a string literal using only the escapes the lexer
// understands; other characters are written raw.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

/* ---------- writer with indentation ---------- */

type out struct {
	b     strings.Builder
	depth int
}

func (o *out) write(s string) { o.b.WriteString(s) }

func (o *out) line(s string) {
	o.b.WriteString(strings.Repeat(indentUnit, o.depth))
	o.b.WriteString(s)
	o.b.WriteByte('\n')
}

/* ---------- public ---------- */

// Format renders prog as canonical source: one statement per line, blocks
// indented by four spaces. Re-lexing the result yields the token stream the
// program was parsed from.
func Format(prog *Program) string {
	o := &out{}
	for _, s := range prog.Stmts {
		writeStmt(o, s)
	}
	return o.b.String()
}

// FormatStmt renders a single statement (with trailing newline).
func FormatStmt(s Stmt) string {
	o := &out{}
	writeStmt(o, s)
	return o.b.String()
}

// FormatExpr renders an expression on one line.
func FormatExpr(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

/* ---------- statements ---------- */

func writeStmt(o *out, s Stmt) {
	switch n := s.(type) {
	case *VarDecl:
		o.line("let " + n.Name + typeSuffix(": ", n.Type) + " = " + FormatExpr(n.Init) + ";")
	case *AssignStmt:
		o.line(n.Name + " = " + FormatExpr(n.Value) + ";")
	case *ExprStmt:
		o.line(FormatExpr(n.X) + ";")
	case *ReturnStmt:
		if n.Value == nil {
			o.line("return;")
		} else {
			o.line("return " + FormatExpr(n.Value) + ";")
		}
	case *FnDecl:
		o.line(fnHeader(n) + " " + openBlock(n.Body))
		writeBlockBody(o, n.Body)
	case *ForStmt:
		o.line("for " + n.Var + " in " + FormatExpr(n.Iterable) + " " + openBlock(n.Body))
		writeBlockBody(o, n.Body)
	case *IfStmt:
		writeIf(o, n, "")
	case *BlockStmt:
		o.line(openBlock(n))
		writeBlockBody(o, n)
	}
}

func fnHeader(n *FnDecl) string {
	var b strings.Builder
	if n.IsAsync {
		b.WriteString("async ")
	}
	if n.IsGpu {
		b.WriteString("gpu ")
	}
	b.WriteString("fn " + n.Name + "(")
	for i, p := range n.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name + typeSuffix(": ", p.Type))
	}
	b.WriteString(")" + typeSuffix(" -> ", n.ReturnType))
	return b.String()
}

func typeSuffix(sep string, t *TypeRef) string {
	if t == nil {
		return ""
	}
	return sep + t.Name
}

// openBlock returns "{}" for an empty block (closed on the same line) and "{"
// otherwise.
func openBlock(b *BlockStmt) string {
	if len(b.Stmts) == 0 {
		return "{}"
	}
	return "{"
}

func writeBlockBody(o *out, b *BlockStmt) {
	if len(b.Stmts) == 0 {
		return
	}
	o.depth++
	for _, s := range b.Stmts {
		writeStmt(o, s)
	}
	o.depth--
	o.line("}")
}

// writeIf prints an if/else-if chain; prefix is "} else " for chained arms.
func writeIf(o *out, n *IfStmt, prefix string) {
	o.line(prefix + "if (" + FormatExpr(n.Cond) + ") {")
	writeInner(o, n.Then)
	switch e := n.Else.(type) {
	case nil:
		o.line("}")
	case *IfStmt:
		writeIf(o, e, "} else ")
	case *BlockStmt:
		o.line("} else {")
		writeInner(o, e)
		o.line("}")
	}
}

func writeInner(o *out, b *BlockStmt) {
	o.depth++
	for _, s := range b.Stmts {
		writeStmt(o, s)
	}
	o.depth--
}

/* ---------- expressions ---------- */

// Binding strength, loosest first. Used to parenthesise trees that were built
// without GroupExpr nodes.
const (
	precCompare = iota + 1
	precRange
	precAdd
	precMul
	precAwait
	precCall
)

func exprPrec(e Expr) int {
	switch n := e.(type) {
	case *BinaryExpr:
		switch n.Op {
		case GREATER:
			return precCompare
		case PLUS, MINUS:
			return precAdd
		default:
			return precMul
		}
	case *RangeExpr:
		return precRange
	case *AwaitExpr:
		return precAwait
	}
	return precCall
}

func writeOperand(b *strings.Builder, e Expr, min int) {
	if exprPrec(e) < min {
		b.WriteByte('(')
		writeExpr(b, e)
		b.WriteByte(')')
		return
	}
	writeExpr(b, e)
}

func writeExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *NumberExpr:
		if n.Lit != "" {
			b.WriteString(n.Lit)
		} else {
			b.WriteString(formatNumber(Number{F: n.Value, IsInt: n.IsInt}))
		}
	case *StringExpr:
		b.WriteString(quoteString(n.Value))
	case *IdentExpr:
		b.WriteString(n.Name)
	case *GroupExpr:
		b.WriteByte('(')
		writeExpr(b, n.Inner)
		b.WriteByte(')')
	case *BinaryExpr:
		p := exprPrec(n)
		writeOperand(b, n.Left, p)
		b.WriteString(" " + opText(n.Op) + " ")
		writeOperand(b, n.Right, p+1)
	case *RangeExpr:
		writeOperand(b, n.Start, precRange+1)
		b.WriteString("..")
		writeOperand(b, n.End, precRange+1)
	case *AwaitExpr:
		b.WriteString("await ")
		writeOperand(b, n.Inner, precCall)
	case *CallExpr:
		writeOperand(b, n.Callee, precCall)
		b.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	}
}

func opText(tt TokenType) string {
	switch tt {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case GREATER:
		return ">"
	}
	return "?"
}
