package ouro

import (
	"math"
	"time"
)

// seconds converts a non-negative number of seconds to a Duration.
func seconds(name string, v Value) (time.Duration, error) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, rtError(TypeError, "%s expects a number of seconds, got %s", name, TypeName(v))
	}
	if n.F < 0 || math.IsNaN(n.F) || math.IsInf(n.F, 0) {
		return 0, rtError(TypeError, "%s expects a non-negative finite duration, got %s", name, formatNumber(n))
	}
	return time.Duration(n.F * float64(time.Second)), nil
}

func registerTimeBuiltins(ip *Interpreter) {
	// sleep(seconds) -> Unit
	ip.RegisterBuiltin("sleep", 1, func(ip *Interpreter, args []Value) (Value, error) {
		d, err := seconds("sleep", args[0])
		if err != nil {
			return Unit, err
		}
		if d > 0 {
			ip.clock.Sleep(d)
		}
		return Unit, nil
	})

	// set_timeout(fn, seconds) -> fn's result
	// Sleeps, then calls fn synchronously.
	ip.RegisterBuiltin("set_timeout", 2, func(ip *Interpreter, args []Value) (Value, error) {
		fn := args[0]
		if fn.Tag != VTFunction && fn.Tag != VTBuiltin {
			return Unit, rtError(NotCallable, "set_timeout expects a function, got %s", TypeName(fn))
		}
		d, err := seconds("set_timeout", args[1])
		if err != nil {
			return Unit, err
		}
		if d > 0 {
			ip.clock.Sleep(d)
		}
		return ip.callValue(fn, nil, Pos{})
	})

	// clock() -> float  (seconds since the Unix epoch)
	ip.RegisterBuiltin("clock", 0, func(ip *Interpreter, _ []Value) (Value, error) {
		return Num(float64(ip.clock.Now().UnixNano()) / float64(time.Second)), nil
	})
}
