package ouro

import (
	"log/slog"
	"sync"

	"github.com/go-co-op/gocron/v2"
	"github.com/tevino/abool/v2"
)

// spawner runs spawned callbacks as one-time scheduler jobs. One spawner is
// shared by an interpreter and every child it spawns, so Close on the root
// waits for nested spawns too.
type spawner struct {
	mu     sync.Mutex
	sched  gocron.Scheduler // created on first spawn
	wg     sync.WaitGroup
	closed *abool.AtomicBool
}

func (s *spawner) submit(log *slog.Logger, task func()) error {
	if s.closed.IsSet() {
		return rtError(Unsupported, "spawn: interpreter is closed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		sched, err := gocron.NewScheduler()
		if err != nil {
			return rtError(IOError, "spawn: %v", err)
		}
		sched.Start()
		s.sched = sched
	}
	s.wg.Add(1)
	_, err := s.sched.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartImmediately()),
		gocron.NewTask(func() {
			defer s.wg.Done()
			task()
		}),
	)
	if err != nil {
		s.wg.Done()
		return rtError(IOError, "spawn: %v", err)
	}
	log.Debug("spawn scheduled")
	return nil
}

// close lets running jobs finish (and spawn further jobs) before refusing new
// work, then stops the scheduler.
func (s *spawner) close() error {
	if s.closed.IsSet() {
		return nil
	}
	s.wg.Wait()
	if !s.closed.SetToIf(false, true) {
		return nil
	}
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	return s.sched.Shutdown()
}

// snapshotEnvInto copies the scope chain of src into fresh scopes whose
// outermost parent is newParent. Scopes at or above stop (the source
// interpreter's Core) are not copied: the child has its own builtins.
// Function values are cloned so their closures point into the copy.
func snapshotEnvInto(seen map[*Env]*Env, src, stop, newParent *Env) *Env {
	if src == nil || src == stop {
		return newParent
	}
	if dst, ok := seen[src]; ok {
		return dst
	}
	parent := snapshotEnvInto(seen, src.parent, stop, newParent)
	dst := NewEnv(parent)
	seen[src] = dst
	for k, v := range src.table {
		dst.table[k] = cloneValue(seen, v, stop, newParent)
	}
	return dst
}

func cloneValue(seen map[*Env]*Env, v Value, stop, newParent *Env) Value {
	if v.Tag != VTFunction {
		// numbers, strings, ranges are immutable; builtins are rebound by name
		return v
	}
	f := v.Data.(*Function)
	cp := *f
	cp.Env = snapshotEnvInto(seen, f.Env, stop, newParent)
	return FunVal(&cp)
}

func registerConcurrencyBuiltins(ip *Interpreter) {
	// spawn(fn) -> Unit
	// fn runs later against a fresh interpreter holding a snapshot of its
	// closure. No ordering is defined; Close waits for it.
	ip.RegisterBuiltin("spawn", 1, func(ip *Interpreter, args []Value) (Value, error) {
		fv := args[0]
		if fv.Tag != VTFunction && fv.Tag != VTBuiltin {
			return Unit, rtError(NotCallable, "spawn expects a function, got %s", TypeName(fv))
		}
		if fv.Tag == VTFunction && len(fv.Data.(*Function).Params) != 0 {
			return Unit, rtError(ArityMismatch, "spawn expects a function of 0 arguments, got %d",
				len(fv.Data.(*Function).Params))
		}

		child := ip.child()
		work := fv
		if fv.Tag == VTFunction {
			work = cloneValue(map[*Env]*Env{}, fv, ip.Core, child.Core)
		} else if b, ok := child.Core.Lookup(fv.Data.(*Builtin).Name); ok {
			work = b
		}

		name := calleeName(fv)
		err := ip.tasks.submit(ip.log, func() {
			if _, err := child.Call(work); err != nil {
				child.log.Debug("spawned call failed", slog.String("function", name), slog.Any("error", err))
				_, _ = child.stderr.Write([]byte(FormatDiagnostic(err, "<spawn "+name+">", "") + "\n"))
			}
		})
		if err != nil {
			return Unit, err
		}
		return Unit, nil
	})
}
