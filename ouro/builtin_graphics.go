package ouro

// GraphicsBackend is the collaborator behind the graphics builtins. Without
// one linked (WithGraphics), every graphics builtin fails with Unsupported.
type GraphicsBackend interface {
	Init(api string) error
	CreateWindow(width, height int, title string) error
	Clear(r, g, b, a float64) error
	SwapBuffers() error
	Shutdown() error
}

func registerGraphicsBuiltins(ip *Interpreter) {
	// graphics_init(api: string) -> Unit
	ip.RegisterBuiltin("graphics_init", 1, withGraphics("graphics_init", func(g GraphicsBackend, args []Value) error {
		api, ok := args[0].AsString()
		if !ok {
			return rtError(TypeError, "graphics_init expects an API name string, got %s", TypeName(args[0]))
		}
		return g.Init(api)
	}))

	// create_window(width: int, height: int, title: string) -> Unit
	ip.RegisterBuiltin("create_window", 3, withGraphics("create_window", func(g GraphicsBackend, args []Value) error {
		w, werr := intArg("create_window", args[0])
		if werr != nil {
			return werr
		}
		h, herr := intArg("create_window", args[1])
		if herr != nil {
			return herr
		}
		title, ok := args[2].AsString()
		if !ok {
			return rtError(TypeError, "create_window expects a string title, got %s", TypeName(args[2]))
		}
		return g.CreateWindow(int(w), int(h), title)
	}))

	// clear(r, g, b, a) -> Unit
	ip.RegisterBuiltin("clear", 4, withGraphics("clear", func(g GraphicsBackend, args []Value) error {
		var c [4]float64
		for i, a := range args {
			n, ok := a.AsNumber()
			if !ok {
				return rtError(TypeError, "clear expects numeric colour components, got %s", TypeName(a))
			}
			c[i] = n.F
		}
		return g.Clear(c[0], c[1], c[2], c[3])
	}))

	ip.RegisterBuiltin("swap_buffers", 0, withGraphics("swap_buffers", func(g GraphicsBackend, _ []Value) error {
		return g.SwapBuffers()
	}))

	ip.RegisterBuiltin("graphics_shutdown", 0, withGraphics("graphics_shutdown", func(g GraphicsBackend, _ []Value) error {
		return g.Shutdown()
	}))
}

// withGraphics adapts a backend operation into a builtin returning Unit.
// Backend errors that are not already diagnostics surface as IOError.
func withGraphics(name string, op func(GraphicsBackend, []Value) error) BuiltinFn {
	return func(ip *Interpreter, args []Value) (Value, error) {
		if ip.graphics == nil {
			return Unit, rtError(Unsupported, "%s: no graphics backend linked", name)
		}
		if err := op(ip.graphics, args); err != nil {
			if e, ok := err.(*Error); ok {
				return Unit, e
			}
			return Unit, rtError(IOError, "%s: %v", name, err)
		}
		return Unit, nil
	}
}

func intArg(name string, v Value) (int64, error) {
	n, ok := v.AsNumber()
	if !ok || !isIntegral(n.F) {
		return 0, rtError(TypeError, "%s expects an integer, got %s", name, describeValue(v))
	}
	i, ok := toInt64(n.F)
	if !ok {
		return 0, rtError(TypeError, "%s: %s is out of 64-bit integer range", name, formatNumber(n))
	}
	return i, nil
}
