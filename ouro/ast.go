package ouro

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

// Node is any AST node.
type Node interface {
	Pos() Pos
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root of a parsed source. When Errors is non-empty the
// statements are a partial tree kept for diagnostics only.
type Program struct {
	Stmts  []Stmt
	Errors ErrorList
}

// HadError reports whether parsing failed.
func (p *Program) HadError() bool { return len(p.Errors) > 0 }

// TypeRef is a parsed (and otherwise ignored) type annotation.
type TypeRef struct {
	Name string
	At   Pos
}

// ---- expressions ----

// NumberExpr is a numeric literal. Lit keeps the source spelling so the
// printer reproduces it; IsInt is false when the literal had a fraction.
type NumberExpr struct {
	At    Pos
	Value float64
	IsInt bool
	Lit   string
}

// StringExpr holds the already-unescaped payload.
type StringExpr struct {
	At    Pos
	Value string
}

type IdentExpr struct {
	At   Pos
	Name string
}

// BinaryExpr covers + - * / and >. At is the operator position.
type BinaryExpr struct {
	At    Pos
	Op    TokenType
	Left  Expr
	Right Expr
}

// RangeExpr is start..end (end exclusive).
type RangeExpr struct {
	At    Pos
	Start Expr
	End   Expr
}

// CallExpr applies Callee to Args. At is the '(' position.
type CallExpr struct {
	At     Pos
	Callee Expr
	Args   []Expr
}

type AwaitExpr struct {
	At    Pos
	Inner Expr
}

// GroupExpr is a parenthesised expression.
type GroupExpr struct {
	At    Pos
	Inner Expr
}

func (e *NumberExpr) Pos() Pos { return e.At }
func (e *StringExpr) Pos() Pos { return e.At }
func (e *IdentExpr) Pos() Pos  { return e.At }
func (e *BinaryExpr) Pos() Pos { return e.At }
func (e *RangeExpr) Pos() Pos  { return e.At }
func (e *CallExpr) Pos() Pos   { return e.At }
func (e *AwaitExpr) Pos() Pos  { return e.At }
func (e *GroupExpr) Pos() Pos  { return e.At }

func (*NumberExpr) exprNode() {}
func (*StringExpr) exprNode() {}
func (*IdentExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*RangeExpr) exprNode()  {}
func (*CallExpr) exprNode()   {}
func (*AwaitExpr) exprNode()  {}
func (*GroupExpr) exprNode()  {}

// ---- statements ----

type VarDecl struct {
	At   Pos
	Name string
	Type *TypeRef // nil when absent
	Init Expr
}

// AssignStmt rebinds the nearest existing binding of Name.
type AssignStmt struct {
	At    Pos
	Name  string
	Value Expr
}

type Param struct {
	Name string
	Type *TypeRef
	At   Pos
}

type FnDecl struct {
	At         Pos
	Name       string
	Params     []Param
	ReturnType *TypeRef
	Body       *BlockStmt
	IsAsync    bool
	IsGpu      bool
}

// IfStmt's Else is nil, a *BlockStmt, or an *IfStmt (else-if chain).
type IfStmt struct {
	At   Pos
	Cond Expr
	Then *BlockStmt
	Else Stmt
}

type ForStmt struct {
	At       Pos
	Var      string
	Iterable Expr
	Body     *BlockStmt
}

// ReturnStmt's Value is nil for a bare return.
type ReturnStmt struct {
	At    Pos
	Value Expr
}

type ExprStmt struct {
	At Pos
	X  Expr
}

type BlockStmt struct {
	At    Pos
	Stmts []Stmt
}

func (s *VarDecl) Pos() Pos    { return s.At }
func (s *AssignStmt) Pos() Pos { return s.At }
func (s *FnDecl) Pos() Pos     { return s.At }
func (s *IfStmt) Pos() Pos     { return s.At }
func (s *ForStmt) Pos() Pos    { return s.At }
func (s *ReturnStmt) Pos() Pos { return s.At }
func (s *ExprStmt) Pos() Pos   { return s.At }
func (s *BlockStmt) Pos() Pos  { return s.At }

func (*VarDecl) stmtNode()    {}
func (*AssignStmt) stmtNode() {}
func (*FnDecl) stmtNode()     {}
func (*IfStmt) stmtNode()     {}
func (*ForStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
func (*BlockStmt) stmtNode()  {}
