package ouro

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/edwingeng/deque"
)

////////////////////////////////////////////////////////////////////////////////
//                               CONTROL SIGNALS
////////////////////////////////////////////////////////////////////////////////

// ctrl is the non-local exit signal threaded through statement execution.
// Only the owning call frame consumes ctrlReturn.
type ctrl int

const (
	ctrlNone ctrl = iota
	ctrlReturn
)

// callState tracks one call through its lifecycle (debug tracing only).
type callState int

const (
	stAboutToCall callState = iota
	stArgsEvaluated
	stBodyExecuting
	stReturnSignal
	stNormalEnd
	stCompleted
)

var callStateNames = [...]string{
	stAboutToCall:   "AboutToCall",
	stArgsEvaluated: "ArgsEvaluated",
	stBodyExecuting: "BodyExecuting",
	stReturnSignal:  "ReturnSignal",
	stNormalEnd:     "NormalEnd",
	stCompleted:     "Completed",
}

func (s callState) String() string { return callStateNames[s] }

// frame is one active call; kept for tracebacks and the depth limit.
type frame struct {
	name string
	at   Pos
}

func (ip *Interpreter) trace(name string, st callState) {
	ip.log.Debug("call",
		slog.String("function", name),
		slog.String("state", st.String()),
		slog.Int("depth", ip.frames.Len()))
}

// rtError builds a runtime error without a position; callValue stamps the
// call site onto errors that reach it positionless (builtins use this).
func rtError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (ip *Interpreter) traceback() []string {
	elems := make([]deque.Elem, 0, ip.frames.Len())
	ip.frames.Range(func(_ int, v deque.Elem) bool {
		elems = append(elems, v)
		return true
	})
	out := make([]string, 0, len(elems))
	for i := len(elems) - 1; i >= 0; i-- {
		fr := elems[i].(frame)
		if fr.at.Line == 0 {
			out = append(out, fmt.Sprintf("in %s (called from host)", fr.name))
			continue
		}
		out = append(out, fmt.Sprintf("in %s called at %d:%d", fr.name, fr.at.Line, fr.at.Col))
	}
	return out
}

////////////////////////////////////////////////////////////////////////////////
//                                 STATEMENTS
////////////////////////////////////////////////////////////////////////////////

func (ip *Interpreter) execStmt(s Stmt, env *Env) (Value, ctrl, error) {
	switch n := s.(type) {
	case *ExprStmt:
		v, err := ip.eval(n.X, env)
		return v, ctrlNone, err

	case *AssignStmt:
		v, err := ip.eval(n.Value, env)
		if err != nil {
			return Unit, ctrlNone, err
		}
		return Unit, ctrlNone, ip.assign(n, v, env)

	case *IfStmt:
		cond, err := ip.eval(n.Cond, env)
		if err != nil {
			return Unit, ctrlNone, err
		}
		if Truthy(cond) {
			return ip.execBlock(n.Then, env)
		}
		if n.Else != nil {
			return ip.execStmt(n.Else, env)
		}
		return Unit, ctrlNone, nil

	case *ForStmt:
		return ip.execFor(n, env)

	case *ReturnStmt:
		if ip.frames.Len() == 0 {
			return Unit, ctrlNone, newError(Unsupported, n.At, "return outside of a function")
		}
		if n.Value == nil {
			return Unit, ctrlReturn, nil
		}
		v, err := ip.eval(n.Value, env)
		if err != nil {
			return Unit, ctrlNone, err
		}
		return v, ctrlReturn, nil

	case *BlockStmt:
		return ip.execBlock(n, env)

	case *VarDecl, *FnDecl:
		// Declarations only occur in statement lists, which go through
		// execStmts so a redeclaration can layer the scope.
		_, err := ip.declare(s, env)
		return Unit, ctrlNone, err
	}
	return Unit, ctrlNone, newError(Unsupported, s.Pos(), "unsupported statement %T", s)
}

// execBlock runs b in a fresh child scope of env. A block yields Unit unless
// a return signal passes through it.
func (ip *Interpreter) execBlock(b *BlockStmt, env *Env) (Value, ctrl, error) {
	v, c, _, err := ip.execStmts(b.Stmts, NewEnv(env))
	if c == ctrlNone {
		v = Unit
	}
	return v, c, err
}

// execStmts runs stmts starting in scope and returns the scope the sequence
// ended in. The value is the last statement's when that was an expression
// statement, or the carried value of a return signal, which stops the
// sequence.
func (ip *Interpreter) execStmts(stmts []Stmt, scope *Env) (Value, ctrl, *Env, error) {
	last := Unit
	for _, s := range stmts {
		var (
			v   = Unit
			c   ctrl
			err error
		)
		switch s.(type) {
		case *VarDecl, *FnDecl:
			scope, err = ip.declare(s, scope)
		default:
			v, c, err = ip.execStmt(s, scope)
		}
		if err != nil {
			return Unit, ctrlNone, scope, err
		}
		if c == ctrlReturn {
			return v, c, scope, nil
		}
		last = v
	}
	return last, ctrlNone, scope, nil
}

// declare binds a let or fn in scope. Redeclaring a name already bound in
// scope opens a new scope layer for the new binding, so closures created
// before keep the binding they captured. The returned scope is where the
// rest of the statement list runs.
func (ip *Interpreter) declare(s Stmt, scope *Env) (*Env, error) {
	var (
		name string
		v    Value
	)
	switch n := s.(type) {
	case *VarDecl:
		init, err := ip.eval(n.Init, scope)
		if err != nil {
			return scope, err
		}
		name, v = n.Name, init
	case *FnDecl:
		if _, taken := scope.table[n.Name]; taken {
			scope = NewEnv(scope)
		}
		// the closure is the scope holding the function, so it can recurse
		scope.Define(n.Name, FunVal(&Function{
			Name:    n.Name,
			Params:  n.Params,
			Body:    n.Body,
			Env:     scope,
			IsAsync: n.IsAsync,
			IsGpu:   n.IsGpu,
		}))
		return scope, nil
	}
	if _, taken := scope.table[name]; taken {
		scope = NewEnv(scope)
	}
	scope.Define(name, v)
	return scope, nil
}

func (ip *Interpreter) assign(n *AssignStmt, v Value, env *Env) error {
	if o := env.owner(n.Name); o != nil && o == ip.Core {
		return newError(TypeError, n.At, "cannot assign to builtin: %s", n.Name)
	}
	if err := env.Set(n.Name, v); err != nil {
		return newError(UndefinedVariable, n.At, "cannot assign to undefined variable: %s", n.Name)
	}
	return nil
}

func (ip *Interpreter) execFor(n *ForStmt, env *Env) (Value, ctrl, error) {
	it, err := ip.eval(n.Iterable, env)
	if err != nil {
		return Unit, ctrlNone, err
	}
	if it.Tag != VTRange {
		return Unit, ctrlNone, newError(NotIterable, n.Iterable.Pos(), "value of type %s is not iterable", TypeName(it))
	}
	r := it.Data.(Range)
	for i := r.Start; i < r.End; i++ {
		scope := NewEnv(env)
		scope.Define(n.Var, Int(i))
		v, c, _, err := ip.execStmts(n.Body.Stmts, scope)
		if err != nil || c == ctrlReturn {
			return v, c, err
		}
	}
	return Unit, ctrlNone, nil
}

////////////////////////////////////////////////////////////////////////////////
//                                EXPRESSIONS
////////////////////////////////////////////////////////////////////////////////

func (ip *Interpreter) eval(e Expr, env *Env) (Value, error) {
	switch n := e.(type) {
	case *NumberExpr:
		return numberValue(n.Value, n.IsInt), nil

	case *StringExpr:
		return Str(n.Value), nil

	case *IdentExpr:
		if v, ok := env.Lookup(n.Name); ok {
			return v, nil
		}
		return Unit, newError(UndefinedVariable, n.At, "undefined variable: %s", n.Name)

	case *GroupExpr:
		return ip.eval(n.Inner, env)

	case *BinaryExpr:
		l, err := ip.eval(n.Left, env)
		if err != nil {
			return Unit, err
		}
		r, err := ip.eval(n.Right, env)
		if err != nil {
			return Unit, err
		}
		return binaryOp(n, l, r)

	case *RangeExpr:
		return ip.evalRange(n, env)

	case *AwaitExpr:
		// No suspension points exist: await is the identity.
		return ip.eval(n.Inner, env)

	case *CallExpr:
		return ip.evalCall(n, env)
	}
	return Unit, newError(Unsupported, e.Pos(), "unsupported expression %T", e)
}

func binaryOp(n *BinaryExpr, l, r Value) (Value, error) {
	ln, lok := l.AsNumber()
	rn, rok := r.AsNumber()
	if lok && rok {
		bothInt := ln.IsInt && rn.IsInt
		switch n.Op {
		case PLUS:
			return numberValue(ln.F+rn.F, bothInt), nil
		case MINUS:
			return numberValue(ln.F-rn.F, bothInt), nil
		case STAR:
			return numberValue(ln.F*rn.F, bothInt), nil
		case SLASH:
			if rn.F == 0 {
				return Unit, newError(DivisionByZero, n.Right.Pos(), "division by zero")
			}
			return numberValue(ln.F/rn.F, bothInt), nil
		case GREATER:
			return Bool(ln.F > rn.F), nil
		}
	}
	ls, lsok := l.AsString()
	rs, rsok := r.AsString()
	if lsok && rsok {
		switch n.Op {
		case PLUS:
			return Str(ls + rs), nil
		case GREATER:
			return Bool(ls > rs), nil
		}
	}
	return Unit, newError(TypeError, n.At, "unsupported operand types for %s: %s and %s",
		opText(n.Op), TypeName(l), TypeName(r))
}

func (ip *Interpreter) evalRange(n *RangeExpr, env *Env) (Value, error) {
	lo, err := ip.eval(n.Start, env)
	if err != nil {
		return Unit, err
	}
	hi, err := ip.eval(n.End, env)
	if err != nil {
		return Unit, err
	}
	a, aok := lo.AsNumber()
	b, bok := hi.AsNumber()
	if !aok || !bok || !isIntegral(a.F) || !isIntegral(b.F) {
		return Unit, newError(TypeError, n.At, "range bounds must be integers, got %s and %s",
			describeValue(lo), describeValue(hi))
	}
	if a.F > b.F {
		return Unit, newError(TypeError, n.At, "range start %s is greater than end %s",
			formatNumber(a), formatNumber(b))
	}
	lo64, lok := toInt64(a.F)
	hi64, hok := toInt64(b.F)
	if !lok || !hok {
		return Unit, newError(TypeError, n.At, "range bounds out of 64-bit integer range: %s..%s",
			formatNumber(a), formatNumber(b))
	}
	return RangeVal(lo64, hi64), nil
}

// describeValue renders v for messages: type plus value for scalars.
func describeValue(v Value) string {
	switch v.Tag {
	case VTNumber, VTString:
		return TypeName(v) + " " + v.String()
	}
	return TypeName(v)
}

func (ip *Interpreter) evalCall(n *CallExpr, env *Env) (Value, error) {
	callee, err := ip.eval(n.Callee, env)
	if err != nil {
		return Unit, err
	}
	name := calleeName(callee)
	ip.trace(name, stAboutToCall)
	args := make([]Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := ip.eval(a, env)
		if err != nil {
			return Unit, err
		}
		args = append(args, v)
	}
	ip.trace(name, stArgsEvaluated)
	return ip.callValue(callee, args, n.At)
}

func calleeName(v Value) string {
	switch v.Tag {
	case VTFunction:
		return v.Data.(*Function).Name
	case VTBuiltin:
		return v.Data.(*Builtin).Name
	}
	return TypeName(v)
}

// callValue applies fn. at is the call site (zero for host calls); errors
// without a position are stamped with it, and the innermost frame records
// the traceback before unwinding.
func (ip *Interpreter) callValue(fn Value, args []Value, at Pos) (Value, error) {
	var arity int
	var name string
	switch fn.Tag {
	case VTFunction:
		f := fn.Data.(*Function)
		arity, name = len(f.Params), f.Name
	case VTBuiltin:
		b := fn.Data.(*Builtin)
		arity, name = b.Arity, b.Name
	default:
		return Unit, newError(NotCallable, at, "value of type %s is not callable", TypeName(fn))
	}
	if arity >= 0 && len(args) != arity {
		return Unit, newError(ArityMismatch, at, "%s expects %d argument%s, got %d", name, arity, plural(arity), len(args))
	}
	if ip.frames.Len() >= ip.maxDepth {
		return Unit, newError(StackOverflow, at, "maximum call depth %d exceeded", ip.maxDepth)
	}

	ip.frames.PushBack(frame{name: name, at: at})
	ip.trace(name, stBodyExecuting)
	var (
		res Value
		c   ctrl
		err error
	)
	if fn.Tag == VTBuiltin {
		res, err = fn.Data.(*Builtin).Fn(ip, args)
		c = ctrlReturn
	} else {
		f := fn.Data.(*Function)
		scope := NewEnv(f.Env)
		for i, p := range f.Params {
			scope.Define(p.Name, args[i])
		}
		res, c, _, err = ip.execStmts(f.Body.Stmts, scope)
	}
	if err != nil {
		err = ip.annotate(err, at)
		ip.frames.PopBack()
		return Unit, err
	}
	ip.frames.PopBack()

	if c == ctrlReturn {
		ip.trace(name, stReturnSignal)
	} else {
		ip.trace(name, stNormalEnd)
		res = Unit
	}
	ip.trace(name, stCompleted)
	return res, nil
}

// annotate fills in the call position and traceback of a runtime error.
// Non-*Error failures from builtins become IOError.
func (ip *Interpreter) annotate(err error, at Pos) error {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: IOError, Msg: err.Error()}
	}
	if e.Line == 0 {
		e.Line, e.Col = at.Line, at.Col
	}
	if e.Trace == nil {
		e.Trace = ip.traceback()
	}
	return e
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
