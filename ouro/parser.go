// parser.go — recursive-descent parser producing the typed AST in ast.go.
//
// OVERVIEW
// --------
// One token of look-ahead over the EOF-terminated stream from lexer.go.
// Precedence climbs from the loosest level down:
//
//	comparison  range ( ">" range )*
//	range       additive ( ".." additive )?      (does not chain)
//	additive    multiplicative ( ("+"|"-") multiplicative )*
//	multiplicative unary ( ("*"|"/") unary )*
//	unary       "await"? call
//	call        primary ( "(" args? ")" )*
//	primary     NUMBER | STRING | IDENT | "(" expr ")"
//
// Statements: let, fn (optionally async/gpu), if/else, for-in, return, blocks,
// `name = expr;` reassignment and expression statements.
//
// Errors
// ------
// Errors are collected rather than fatal. After a failure the parser
// synchronizes: tokens are discarded through the next ';' or up to the next
// '{' / '}', then parsing resumes, so one pass can report several problems.
// An error raised at EOF is flagged incomplete; the REPL keeps reading.
//
// Dependencies
// ------------
//   - lexer.go (Token, Tokenize)
//   - errors.go (*Error, ErrorList)
package ouro

import (
	"sort"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Parse builds a Program from an EOF-terminated token stream. The Program is
// always returned; when err is non-nil it is partial and Program.Errors holds
// the same diagnostics.
func Parse(tokens []Token) (*Program, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
		line, col := 1, 1
		if n := len(tokens); n > 0 {
			line, col = tokens[n-1].Line, tokens[n-1].Col+len(tokens[n-1].Lexeme)
		}
		tokens = append(tokens, Token{Type: EOF, Line: line, Col: col})
	}
	p := &parser{toks: tokens}
	prog := p.program()
	prog.Errors = p.errs
	return prog, p.errs.Err()
}

// ParseSource lexes and parses src. Lexical errors do not stop parsing (the
// lexer drops the offending characters); all diagnostics are returned
// together, ordered by position.
func ParseSource(src string) (*Program, error) {
	toks, lexErr := Tokenize(src)
	prog, _ := Parse(toks)
	lexErrs := Errors(lexErr)
	if len(lexErrs) == 0 {
		return prog, prog.Errors.Err()
	}
	all := make(ErrorList, 0, len(lexErrs)+len(prog.Errors))
	all = append(all, lexErrs...)
	all = append(all, prog.Errors...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Line != all[j].Line {
			return all[i].Line < all[j].Line
		}
		return all[i].Col < all[j].Col
	})
	prog.Errors = all
	return prog, all
}

//// END_OF_PUBLIC

type parser struct {
	toks []Token
	i    int
	errs ErrorList
}

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) peekAt(n int) Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) advance() Token {
	t := p.toks[p.i]
	if t.Type != EOF {
		p.i++
	}
	return t
}

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// errAt builds a diagnostic at tok; hitting EOF marks it incomplete.
func (p *parser) errAt(tok Token, kind ErrorKind, format string, args ...any) *Error {
	e := newError(kind, tok.Pos(), format, args...)
	e.incomplete = tok.Type == EOF
	return e
}

func (p *parser) need(tt TokenType) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	got := p.peek()
	return got, p.errAt(got, UnexpectedToken, "unexpected token: expected %s, got %s", tt, got.describe())
}

// synchronize discards tokens through the next ';' or up to the next block
// boundary. It always consumes at least one token unless already at EOF or a
// boundary reached after progress.
func (p *parser) synchronize(from int) {
	for !p.atEnd() {
		switch p.peek().Type {
		case SEMICOLON:
			p.advance()
			return
		case LBRACE, RBRACE:
			if p.i == from {
				p.advance()
			}
			return
		}
		p.advance()
	}
}

// record appends err unless it is the diagnostic recorded last (an
// incomplete error bubbling out of nested blocks).
func (p *parser) record(err error) {
	e, ok := err.(*Error)
	if !ok {
		return
	}
	if n := len(p.errs); n > 0 && p.errs[n-1] == e {
		return
	}
	p.errs = append(p.errs, e)
}

func (p *parser) program() *Program {
	prog := &Program{}
	for !p.atEnd() {
		from := p.i
		s, err := p.statement()
		if err != nil {
			p.record(err)
			p.synchronize(from)
			continue
		}
		prog.Stmts = append(prog.Stmts, s)
	}
	return prog
}

////////////////////////////////////////////////////////////////////////////////
//                                 STATEMENTS
////////////////////////////////////////////////////////////////////////////////

func (p *parser) statement() (Stmt, error) {
	t := p.peek()
	switch t.Type {
	case LET:
		return p.varDecl()
	case FN, ASYNC, GPU:
		return p.fnDecl()
	case IF:
		return p.ifStmt()
	case FOR:
		return p.forStmt()
	case RETURN:
		return p.returnStmt()
	case LBRACE:
		return p.block()
	case IDENTIFIER:
		if p.peekAt(1).Type == EQUALS {
			return p.assignStmt()
		}
	}
	if !startsExpr(t.Type) {
		return nil, p.errAt(t, ExpectedStatement, "expected statement, got %s", t.describe())
	}
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON); err != nil {
		return nil, err
	}
	return &ExprStmt{At: t.Pos(), X: x}, nil
}

func startsExpr(tt TokenType) bool {
	switch tt {
	case NUMBER, STRING_LITERAL, IDENTIFIER, LPAREN, AWAIT:
		return true
	}
	return false
}

func (p *parser) varDecl() (Stmt, error) {
	kw := p.advance() // let
	name, err := p.need(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	d := &VarDecl{At: kw.Pos(), Name: name.Lexeme}
	if p.match(COLON) {
		if d.Type, err = p.typeRef(); err != nil {
			return nil, err
		}
	}
	if _, err := p.need(EQUALS); err != nil {
		return nil, err
	}
	if d.Init, err = p.expr(); err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON); err != nil {
		return nil, err
	}
	return d, nil
}

func (p *parser) assignStmt() (Stmt, error) {
	name := p.advance()
	p.advance() // '='
	v, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(SEMICOLON); err != nil {
		return nil, err
	}
	return &AssignStmt{At: name.Pos(), Name: name.Lexeme, Value: v}, nil
}

func (p *parser) typeRef() (*TypeRef, error) {
	t := p.peek()
	if IsTypeName(t.Type) || t.Type == IDENTIFIER {
		p.advance()
		return &TypeRef{Name: t.Lexeme, At: t.Pos()}, nil
	}
	return nil, p.errAt(t, UnexpectedToken, "unexpected token: expected type name, got %s", t.describe())
}

func (p *parser) fnDecl() (Stmt, error) {
	start := p.peek()
	fd := &FnDecl{At: start.Pos()}
	if p.match(ASYNC) {
		fd.IsAsync = true
	}
	if p.match(GPU) {
		fd.IsGpu = true
	}
	if _, err := p.need(FN); err != nil {
		return nil, err
	}
	name, err := p.need(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	fd.Name = name.Lexeme
	if _, err := p.need(LPAREN); err != nil {
		return nil, err
	}
	if !p.check(RPAREN) {
		for {
			pt, err := p.need(IDENTIFIER)
			if err != nil {
				return nil, err
			}
			prm := Param{Name: pt.Lexeme, At: pt.Pos()}
			if p.match(COLON) {
				if prm.Type, err = p.typeRef(); err != nil {
					return nil, err
				}
			}
			fd.Params = append(fd.Params, prm)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.need(RPAREN); err != nil {
		return nil, err
	}
	if p.match(ARROW) {
		if fd.ReturnType, err = p.typeRef(); err != nil {
			return nil, err
		}
	}
	if fd.Body, err = p.block(); err != nil {
		return nil, err
	}
	return fd, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	kw := p.advance() // if
	if _, err := p.need(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RPAREN); err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	s := &IfStmt{At: kw.Pos(), Cond: cond, Then: then}
	if p.match(ELSE) {
		if p.check(IF) {
			s.Else, err = p.ifStmt()
		} else {
			s.Else, err = p.block()
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p *parser) forStmt() (Stmt, error) {
	kw := p.advance() // for
	v, err := p.need(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(IN); err != nil {
		return nil, err
	}
	it, err := p.expr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ForStmt{At: kw.Pos(), Var: v.Lexeme, Iterable: it, Body: body}, nil
}

func (p *parser) returnStmt() (Stmt, error) {
	kw := p.advance() // return
	s := &ReturnStmt{At: kw.Pos()}
	if !p.check(SEMICOLON) {
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		s.Value = v
	}
	if _, err := p.need(SEMICOLON); err != nil {
		return nil, err
	}
	return s, nil
}

// block parses "{" stmt* "}". Errors inside are recorded and recovered from
// locally; only a missing '}' fails the block itself.
func (p *parser) block() (*BlockStmt, error) {
	open, err := p.need(LBRACE)
	if err != nil {
		return nil, err
	}
	b := &BlockStmt{At: open.Pos()}
	for !p.check(RBRACE) && !p.atEnd() {
		from := p.i
		s, err := p.statement()
		if err != nil {
			p.record(err)
			if IsIncomplete(err) {
				return nil, err
			}
			p.synchronize(from)
			continue
		}
		b.Stmts = append(b.Stmts, s)
	}
	if _, err := p.need(RBRACE); err != nil {
		return nil, err
	}
	return b, nil
}

////////////////////////////////////////////////////////////////////////////////
//                                EXPRESSIONS
////////////////////////////////////////////////////////////////////////////////

func (p *parser) expr() (Expr, error) { return p.comparison() }

func (p *parser) comparison() (Expr, error) {
	left, err := p.rangeExpr()
	if err != nil {
		return nil, err
	}
	for p.check(GREATER) {
		op := p.advance()
		right, err := p.rangeExpr()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{At: op.Pos(), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) rangeExpr() (Expr, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	if p.check(DOTDOT) {
		op := p.advance()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		return &RangeExpr{At: op.Pos(), Start: left, End: right}, nil
	}
	return left, nil
}

func (p *parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(PLUS) || p.check(MINUS) {
		op := p.advance()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{At: op.Pos(), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) multiplicative() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.check(STAR) || p.check(SLASH) {
		op := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{At: op.Pos(), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) unary() (Expr, error) {
	if p.check(AWAIT) {
		kw := p.advance()
		inner, err := p.call()
		if err != nil {
			return nil, err
		}
		return &AwaitExpr{At: kw.Pos(), Inner: inner}, nil
	}
	return p.call()
}

func (p *parser) call() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.check(LPAREN) {
		open := p.advance()
		c := &CallExpr{At: open.Pos(), Callee: x}
		if !p.check(RPAREN) {
			for {
				a, err := p.expr()
				if err != nil {
					return nil, err
				}
				c.Args = append(c.Args, a)
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.need(RPAREN); err != nil {
			return nil, err
		}
		x = c
	}
	return x, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.peek()
	switch t.Type {
	case NUMBER:
		p.advance()
		v, _ := t.Literal.(float64)
		return &NumberExpr{At: t.Pos(), Value: v, IsInt: !strings.Contains(t.Lexeme, "."), Lit: t.Lexeme}, nil
	case STRING_LITERAL:
		p.advance()
		s, _ := t.Literal.(string)
		return &StringExpr{At: t.Pos(), Value: s}, nil
	case IDENTIFIER:
		p.advance()
		return &IdentExpr{At: t.Pos(), Name: t.Lexeme}, nil
	case LPAREN:
		p.advance()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN); err != nil {
			return nil, err
		}
		return &GroupExpr{At: t.Pos(), Inner: inner}, nil
	}
	return nil, p.errAt(t, ExpectedExpression, "expected expression, got %s", t.describe())
}
