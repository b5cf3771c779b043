package ouro

import "log/slog"

func registerEventBuiltins(ip *Interpreter) {
	// register_event(name: string, handler: fn) -> Unit
	ip.RegisterBuiltin("register_event", 2, func(ip *Interpreter, args []Value) (Value, error) {
		name, ok := args[0].AsString()
		if !ok {
			return Unit, rtError(TypeError, "register_event expects an event name string, got %s", TypeName(args[0]))
		}
		h := args[1]
		if h.Tag != VTFunction && h.Tag != VTBuiltin {
			return Unit, rtError(NotCallable, "register_event expects a handler function, got %s", TypeName(h))
		}
		ip.events[name] = append(ip.events[name], h)
		ip.log.Debug("event registered", slog.String("event", name), slog.Int("handlers", len(ip.events[name])))
		return Unit, nil
	})

	// trigger_event(name: string) -> int
	// Calls every handler for name in registration order; returns how many ran.
	ip.RegisterBuiltin("trigger_event", 1, func(ip *Interpreter, args []Value) (Value, error) {
		name, ok := args[0].AsString()
		if !ok {
			return Unit, rtError(TypeError, "trigger_event expects an event name string, got %s", TypeName(args[0]))
		}
		handlers := ip.events[name]
		for _, h := range handlers {
			if _, err := ip.callValue(h, nil, Pos{}); err != nil {
				return Unit, err
			}
		}
		return Int(int64(len(handlers))), nil
	})
}
