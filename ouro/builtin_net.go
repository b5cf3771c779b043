package ouro

import (
	"log/slog"

	"github.com/valyala/fasthttp"
)

func registerNetBuiltins(ip *Interpreter) {
	// http_get(url: string) -> string
	// Returns the response body. Transport failures and non-2xx statuses
	// fail with IOError.
	ip.RegisterBuiltin("http_get", 1, func(ip *Interpreter, args []Value) (Value, error) {
		url, ok := args[0].AsString()
		if !ok {
			return Unit, rtError(TypeError, "http_get expects a URL string, got %s", TypeName(args[0]))
		}
		status, body, err := fasthttp.Get(nil, url)
		if err != nil {
			return Unit, rtError(IOError, "http_get %s: %v", url, err)
		}
		ip.log.Debug("http_get", slog.String("url", url), slog.Int("status", status), slog.Int("bytes", len(body)))
		if status < 200 || status > 299 {
			return Unit, rtError(IOError, "http_get %s: status %d", url, status)
		}
		return Str(string(body)), nil
	})
}
