// errors.go: diagnostics shared by the lexer, parser and evaluator.
//
// What this file does
// -------------------
// Every failure the core can produce is an *Error carrying an ErrorKind and a
// 1-based (Line, Col). Lexer and parser diagnostics are collected into an
// ErrorList so one pass can report several problems; the evaluator returns a
// single *Error (with a traceback when it was raised inside calls).
//
// FormatDiagnostic renders any of these into the user-facing form
//
//	Ouroboros Error at demo.ouro:3:12: unexpected token: expected ';', got '}'
//
//	   2 | let x = (1 + 2
//	   3 |            }
//	     |            ^
//
// The snippet includes up to one line of context before and after the error,
// numbers the lines, and places a caret under the column.
//
// Incompleteness
// --------------
// An error raised because the input ended too early (unterminated string at
// end of input, a parser expectation that met EOF) is flagged incomplete.
// IsIncomplete lets the REPL decide to keep reading lines.
package ouro

import (
	"errors"
	"fmt"
	"strings"
)

// Phase identifies which stage raised an error.
type Phase int

const (
	PhaseLex Phase = iota
	PhaseParse
	PhaseRuntime
)

func (p Phase) String() string {
	switch p {
	case PhaseLex:
		return "lex"
	case PhaseParse:
		return "parse"
	default:
		return "runtime"
	}
}

// ErrorKind enumerates the diagnostic categories.
type ErrorKind int

const (
	// LexError
	UnexpectedCharacter ErrorKind = iota
	UnterminatedString

	// ParseError
	UnexpectedToken
	ExpectedExpression
	ExpectedStatement

	// RuntimeError
	UndefinedVariable
	TypeError
	NotCallable
	NotIterable
	ArityMismatch
	DivisionByZero
	Unsupported
	StackOverflow
	IOError
)

var kindNames = map[ErrorKind]string{
	UnexpectedCharacter: "UnexpectedCharacter",
	UnterminatedString:  "UnterminatedString",
	UnexpectedToken:     "UnexpectedToken",
	ExpectedExpression:  "ExpectedExpression",
	ExpectedStatement:   "ExpectedStatement",
	UndefinedVariable:   "UndefinedVariable",
	TypeError:           "TypeError",
	NotCallable:         "NotCallable",
	NotIterable:         "NotIterable",
	ArityMismatch:       "ArityMismatch",
	DivisionByZero:      "DivisionByZero",
	Unsupported:         "Unsupported",
	StackOverflow:       "StackOverflow",
	IOError:             "IOError",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Phase returns the stage that produces errors of this kind.
func (k ErrorKind) Phase() Phase {
	switch {
	case k <= UnterminatedString:
		return PhaseLex
	case k <= ExpectedStatement:
		return PhaseParse
	default:
		return PhaseRuntime
	}
}

// Error is a positioned diagnostic. Line/Col are 1-based; a zero Line means
// the position is not known yet (builtins leave it to the call site).
type Error struct {
	Kind  ErrorKind
	Line  int
	Col   int
	Msg   string
	Trace []string // innermost call first; runtime errors only

	incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
}

// Incomplete reports whether the error was caused by input ending early.
func (e *Error) Incomplete() bool { return e.incomplete }

func newError(kind ErrorKind, at Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: at.Line, Col: at.Col, Msg: fmt.Sprintf(format, args...)}
}

// ErrorList is an ordered collection of diagnostics from one lex or parse pass.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns nil for an empty list, the list otherwise.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Unwrap exposes the individual errors to errors.Is/As.
func (l ErrorList) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

// Errors flattens err into its diagnostics.
func Errors(err error) []*Error {
	var list ErrorList
	if errors.As(err, &list) {
		return list
	}
	var e *Error
	if errors.As(err, &e) {
		return []*Error{e}
	}
	return nil
}

// KindOf returns the kind of the first diagnostic in err.
func KindOf(err error) (ErrorKind, bool) {
	errs := Errors(err)
	if len(errs) == 0 {
		return 0, false
	}
	return errs[0].Kind, true
}

// PhaseOf returns the phase of the first diagnostic in err.
func PhaseOf(err error) (Phase, bool) {
	k, ok := KindOf(err)
	if !ok {
		return 0, false
	}
	return k.Phase(), true
}

// IsIncomplete reports whether err means "the input ended before the
// construct did". Only the first diagnostic counts: anything after it may be
// a cascade from recovery.
func IsIncomplete(err error) bool {
	errs := Errors(err)
	return len(errs) > 0 && errs[0].incomplete
}

//// END_OF_PUBLIC

// FormatDiagnostic renders err for humans. *Error and ErrorList values get the
// "Ouroboros Error at <source>:<line>:<col>: <message>" header followed by a
// caret snippet of src; other errors are rendered as "Ouroboros Error: ...".
func FormatDiagnostic(err error, srcName, src string) string {
	errs := Errors(err)
	if len(errs) == 0 {
		return fmt.Sprintf("Ouroboros Error: %v", err)
	}
	var b strings.Builder
	for i, e := range errs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(prettyErrorString(src, srcName, e))
	}
	return strings.TrimRight(b.String(), "\n")
}

// prettyErrorString builds the header, a caret snippet and the traceback.
// Coordinates are clamped to the source bounds.
func prettyErrorString(src, name string, e *Error) string {
	if name == "" {
		name = "<input>"
	}
	line, col := e.Line, e.Col
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ouroboros Error at %s:%d:%d: %s\n", name, line, col, e.Msg)

	lines := strings.Split(src, "\n")
	if src != "" && line <= len(lines) {
		b.WriteByte('\n')
		if line > 1 {
			fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
		}
		fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
		fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
		if line < len(lines) && strings.TrimSpace(lines[line]) != "" {
			fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
		}
	}
	if len(e.Trace) > 0 {
		b.WriteString("\ntraceback (innermost first):\n")
		for _, fr := range e.Trace {
			fmt.Fprintf(&b, "  %s\n", fr)
		}
	}
	return b.String()
}
