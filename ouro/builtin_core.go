package ouro

import (
	"io"
	"strings"
)

// ---- core built-ins ----------------------------------------------------

func registerCoreBuiltins(ip *Interpreter) {
	// print(args...) -> Unit
	// Arguments are rendered with FormatValue, separated by one space.
	ip.RegisterBuiltin("print", -1, func(ip *Interpreter, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = FormatValue(a)
		}
		if _, err := io.WriteString(ip.stdout, strings.Join(parts, " ")+"\n"); err != nil {
			return Unit, rtError(IOError, "print: %v", err)
		}
		return Unit, nil
	})

	// len(s: string) -> int  (bytes)
	ip.RegisterBuiltin("len", 1, stringLength("len"))
	// string_length(s: string) -> int
	ip.RegisterBuiltin("string_length", 1, stringLength("string_length"))

	// to_string(v) -> string
	ip.RegisterBuiltin("to_string", 1, func(_ *Interpreter, args []Value) (Value, error) {
		return Str(FormatValue(args[0])), nil
	})

	// string_concat(a: string, b: string) -> string
	ip.RegisterBuiltin("string_concat", 2, func(_ *Interpreter, args []Value) (Value, error) {
		a, aok := args[0].AsString()
		b, bok := args[1].AsString()
		if !aok || !bok {
			return Unit, rtError(TypeError, "string_concat expects two strings, got %s and %s",
				TypeName(args[0]), TypeName(args[1]))
		}
		return Str(a + b), nil
	})

	// type_of(v) -> string
	ip.RegisterBuiltin("type_of", 1, func(_ *Interpreter, args []Value) (Value, error) {
		return Str(TypeName(args[0])), nil
	})

	ip.RegisterBuiltin("is_async", 1, func(_ *Interpreter, args []Value) (Value, error) {
		f, err := userFunction("is_async", args[0])
		if err != nil {
			return Unit, err
		}
		return Bool(f.IsAsync), nil
	})

	ip.RegisterBuiltin("is_gpu", 1, func(_ *Interpreter, args []Value) (Value, error) {
		f, err := userFunction("is_gpu", args[0])
		if err != nil {
			return Unit, err
		}
		return Bool(f.IsGpu), nil
	})

	// get_input(prompt: string) -> string
	// Writes prompt (no newline) and reads one line; "" at end of input.
	ip.RegisterBuiltin("get_input", 1, func(ip *Interpreter, args []Value) (Value, error) {
		prompt, ok := args[0].AsString()
		if !ok {
			return Unit, rtError(TypeError, "get_input expects a string prompt, got %s", TypeName(args[0]))
		}
		if prompt != "" {
			if _, err := io.WriteString(ip.stdout, prompt); err != nil {
				return Unit, rtError(IOError, "get_input: %v", err)
			}
		}
		line, err := ip.stdin.ReadString('\n')
		if err != nil && err != io.EOF {
			return Unit, rtError(IOError, "get_input: %v", err)
		}
		return Str(strings.TrimRight(line, "\r\n")), nil
	})
}

func stringLength(name string) BuiltinFn {
	return func(_ *Interpreter, args []Value) (Value, error) {
		s, ok := args[0].AsString()
		if !ok {
			return Unit, rtError(TypeError, "%s expects a string, got %s", name, TypeName(args[0]))
		}
		return Int(int64(len(s))), nil
	}
}

// userFunction unwraps a user-defined function; builtins report false for
// the async/gpu flags.
func userFunction(name string, v Value) (*Function, error) {
	switch v.Tag {
	case VTFunction:
		return v.Data.(*Function), nil
	case VTBuiltin:
		return &Function{Name: v.Data.(*Builtin).Name}, nil
	}
	return nil, rtError(TypeError, "%s expects a function, got %s", name, TypeName(v))
}
