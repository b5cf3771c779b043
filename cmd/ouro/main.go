package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/XFOSS/Oura-sub001/ouro"
)

const appName = "ouro"

// Exit codes.
const (
	exitOK      = 0
	exitStatic  = 1 // lex/parse errors, unreadable input, bad usage
	exitRuntime = 2
)

var (
	red  = color.New(color.FgRed).SprintFunc()
	blue = color.New(color.FgHiBlue).SprintFunc()
)

type options struct {
	eval    string
	hasEval bool
	debug   bool
	version bool
	help    bool
	noColor bool
	args    []string
}

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Ouroboros %s (built %s)

Usage:
  %s [-d] [-n] <file>       Run a script.
  %s [-d] [-n] -e <source>  Run source given on the command line.
  %s [-d] [-n]              Start the REPL.
  %s -v                     Print the version.

Flags:
  -d  debug logging to stderr (also OURO_DEBUG=1)
  -n  disable coloured output (also NO_COLOR)
  -h  show this help

Exit status: 0 success, 1 lex/parse error, 2 runtime error.
`, ouro.Version, ouro.BuildDate, appName, appName, appName, appName)
}

func parseArgs(argv []string) (*options, error) {
	opts, optind, err := getopt.Getopts(argv, "e:dvhn")
	if err != nil {
		return nil, err
	}
	o := &options{debug: os.Getenv("OURO_DEBUG") == "1"}
	for _, opt := range opts {
		switch opt.Option {
		case 'e':
			o.eval, o.hasEval = opt.Value, true
		case 'd':
			o.debug = true
		case 'v':
			o.version = true
		case 'h':
			o.help = true
		case 'n':
			o.noColor = true
		}
	}
	o.args = argv[optind:]
	return o, nil
}

func run(argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseArgs(argv)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		usage(stderr)
		return exitStatic
	}
	if o.noColor {
		color.NoColor = true
	}
	switch {
	case o.help:
		usage(stdout)
		return exitOK
	case o.version:
		fmt.Fprintln(stdout, ouro.Version)
		return exitOK
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if o.debug {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	ip := ouro.NewInterpreter(
		ouro.WithStdout(stdout),
		ouro.WithStderr(stderr),
		ouro.WithStdin(stdin),
		ouro.WithLogger(logger),
	)
	defer func() {
		if err := ip.Close(); err != nil {
			logger.Debug("close", slog.Any("error", err))
		}
	}()

	switch {
	case o.hasEval:
		return execSource(ip, "<eval>", o.eval, stderr)
	case len(o.args) > 0:
		return execFile(ip, o.args[0], stderr)
	}
	return repl(ip, stdout, stderr)
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "cannot read %s", path)
	}
	return string(b), nil
}

func execFile(ip *ouro.Interpreter, path string, stderr io.Writer) int {
	src, err := readSource(path)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitStatic
	}
	return execSource(ip, path, src, stderr)
}

func execSource(ip *ouro.Interpreter, name, src string, stderr io.Writer) int {
	if _, err := ip.ExecSource(name, src); err != nil {
		fmt.Fprintln(stderr, red(ouro.FormatDiagnostic(err, name, src)))
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	if ph, ok := ouro.PhaseOf(err); ok && ph == ouro.PhaseRuntime {
		return exitRuntime
	}
	return exitStatic
}
