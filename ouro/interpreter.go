// interpreter.go — public surface of the Ouroboros runtime.
//
// OVERVIEW
// ========
// This file holds the Interpreter type, its construction options and the thin
// entry points hosts use. The tree-walking evaluator lives in
// interpreter_exec.go; builtins are installed from the builtin_*.go files.
//
// EXECUTION & SCOPING
// -------------------
// Code runs in environments (*Env) chained through parent links. Two frames
// are well known:
//   - Core:   builtins (assignment to these names is refused).
//   - Global: user program state, child of Core. ExecSource runs here, so a
//     REPL session or a file run keeps its bindings across calls.
//
// Exec(prog, env) runs an already parsed Program in any environment; it
// refuses programs that carry parse errors. The first runtime error aborts
// the run and is returned as *Error (with a traceback when raised in a call).
//
// CONCURRENCY
// -----------
// An Interpreter is single-threaded. spawn(fn) hands a snapshot of fn to a
// fresh Interpreter that runs on a scheduler goroutine; the two share only
// the output writers, stdin, clock and logger. Close waits for every spawned
// callback and stops the scheduler.
package ouro

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/edwingeng/deque"
	"github.com/jonboulle/clockwork"
	"github.com/tevino/abool/v2"
)

// DefaultMaxCallDepth bounds nested calls before StackOverflow is raised.
const DefaultMaxCallDepth = 10000

// Interpreter evaluates Ouroboros programs.
type Interpreter struct {
	Global *Env // persistent program scope
	Core   *Env // builtins; parent of Global

	stdout   *syncWriter
	stderr   *syncWriter
	stdin    *bufio.Reader
	clock    clockwork.Clock
	log      *slog.Logger
	maxDepth int
	graphics GraphicsBackend

	frames deque.Deque // of frame; back is innermost
	events map[string][]Value

	tasks *spawner // shared with spawned children
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout sets the writer used by print.
func WithStdout(w io.Writer) Option {
	return func(ip *Interpreter) { ip.stdout = newSyncWriter(w) }
}

// WithStderr sets the writer spawned callbacks report their errors to.
func WithStderr(w io.Writer) Option {
	return func(ip *Interpreter) { ip.stderr = newSyncWriter(w) }
}

// WithStdin sets the reader used by get_input.
func WithStdin(r io.Reader) Option {
	return func(ip *Interpreter) { ip.stdin = bufio.NewReader(r) }
}

// WithClock sets the clock behind sleep and set_timeout.
func WithClock(c clockwork.Clock) Option {
	return func(ip *Interpreter) { ip.clock = c }
}

// WithLogger sets the debug logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(ip *Interpreter) { ip.log = l }
}

// WithMaxCallDepth overrides DefaultMaxCallDepth.
func WithMaxCallDepth(n int) Option {
	return func(ip *Interpreter) { ip.maxDepth = n }
}

// WithGraphics links a graphics backend.
func WithGraphics(g GraphicsBackend) Option {
	return func(ip *Interpreter) { ip.graphics = g }
}

// NewInterpreter returns an interpreter with builtins installed and an empty
// Global scope.
func NewInterpreter(opts ...Option) *Interpreter {
	ip := &Interpreter{
		maxDepth: DefaultMaxCallDepth,
		events:   map[string][]Value{},
	}
	for _, o := range opts {
		o(ip)
	}
	if ip.stdout == nil {
		ip.stdout = newSyncWriter(os.Stdout)
	}
	if ip.stderr == nil {
		ip.stderr = newSyncWriter(os.Stderr)
	}
	if ip.stdin == nil {
		ip.stdin = bufio.NewReader(os.Stdin)
	}
	if ip.clock == nil {
		ip.clock = clockwork.NewRealClock()
	}
	if ip.log == nil {
		ip.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ip.tasks = &spawner{closed: abool.New()}
	ip.init()
	return ip
}

// child builds a fresh interpreter sharing ip's I/O, clock, logger and task
// tracking. Its environments are empty apart from builtins.
func (ip *Interpreter) child() *Interpreter {
	c := &Interpreter{
		stdout:   ip.stdout,
		stderr:   ip.stderr,
		stdin:    ip.stdin,
		clock:    ip.clock,
		log:      ip.log,
		maxDepth: ip.maxDepth,
		graphics: ip.graphics,
		events:   map[string][]Value{},
		tasks:    ip.tasks,
	}
	c.init()
	return c
}

func (ip *Interpreter) init() {
	ip.Core = NewEnv(nil)
	ip.Global = NewEnv(ip.Core)
	ip.frames = deque.NewDeque()
	registerCoreBuiltins(ip)
	registerConcurrencyBuiltins(ip)
	registerTimeBuiltins(ip)
	registerGraphicsBuiltins(ip)
	registerEventBuiltins(ip)
	registerNetBuiltins(ip)
}

// RegisterBuiltin installs a host function in Core. arity < 0 accepts any
// number of arguments.
func (ip *Interpreter) RegisterBuiltin(name string, arity int, fn BuiltinFn) {
	ip.Core.Define(name, BuiltinVal(&Builtin{Name: name, Arity: arity, Fn: fn}))
}

// ExecSource lexes, parses and runs src in Global. name only labels debug
// logs; diagnostics are rendered by the caller with FormatDiagnostic. The
// result is the value of the final statement when that is an expression
// statement, Unit otherwise.
func (ip *Interpreter) ExecSource(name, src string) (Value, error) {
	prog, err := ParseSource(src)
	if err != nil {
		ip.log.Debug("parse failed", slog.String("source", name), slog.Int("errors", len(prog.Errors)))
		return Unit, err
	}
	ip.log.Debug("exec", slog.String("source", name), slog.Int("statements", len(prog.Stmts)))
	return ip.Exec(prog, ip.Global)
}

// Exec runs prog's top-level statements in env, in order. When env is
// Global, Global afterwards refers to the scope the program ended in, so
// later runs see its declarations.
func (ip *Interpreter) Exec(prog *Program, env *Env) (Value, error) {
	if prog.HadError() {
		return Unit, prog.Errors
	}
	if env == nil {
		env = ip.Global
	}
	v, _, end, err := ip.execStmts(prog.Stmts, env)
	if env == ip.Global {
		ip.Global = end
	}
	if err != nil {
		return Unit, err
	}
	return v, nil
}

// Call applies a function or builtin value to args.
func (ip *Interpreter) Call(fn Value, args ...Value) (Value, error) {
	return ip.callValue(fn, args, Pos{})
}

// Close waits for spawned callbacks to finish and stops the scheduler.
// Further spawn calls fail.
func (ip *Interpreter) Close() error {
	return ip.tasks.close()
}

// syncWriter serialises writes from the main interpreter and spawned ones.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newSyncWriter(w io.Writer) *syncWriter { return &syncWriter{w: w} }

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
