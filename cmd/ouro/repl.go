package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/XFOSS/Oura-sub001/ouro"
)

const (
	historyFile = ".ouro_history"
	promptMain  = ">> "
	promptCont  = ".. "
	replSource  = "<repl>"
)

func historyPath() string {
	if p := os.Getenv("OURO_HISTORY"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func repl(ip *ouro.Interpreter, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "Ouroboros %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type exit to quit.\n", ouro.Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	hist := historyPath()
	if hist != "" {
		if f, err := os.Open(hist); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(hist); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		code, ok := readInput(ln.Prompt, stdout)
		if !ok {
			fmt.Fprintln(stdout)
			return exitOK
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if trimmed == "exit" {
			return exitOK
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		v, err := ip.ExecSource(replSource, code)
		if err != nil {
			fmt.Fprintln(stderr, red(ouro.FormatDiagnostic(err, replSource, code)))
			continue
		}
		if v.Tag != ouro.VTUnit {
			fmt.Fprintln(stdout, blue(v.String()))
		}
	}
}

// promptFunc shows a prompt and returns one line of input.
type promptFunc func(prompt string) (string, error)

// readInput reads lines until the buffer parses or fails for a reason other
// than running out of input. An empty continuation line submits the buffer as
// is, and so does an open string literal, since a newline can never close it.
// Ctrl+C drops the buffer; ok is false at end of input.
func readInput(prompt promptFunc, stdout io.Writer) (string, bool) {
	var b strings.Builder
	for {
		p := promptMain
		if b.Len() > 0 {
			p = promptCont
		}
		line, err := prompt(p)
		switch {
		case errors.Is(err, io.EOF):
			return "", false
		case errors.Is(err, liner.ErrPromptAborted):
			b.Reset()
			fmt.Fprintln(stdout, "^C")
			continue
		case err != nil:
			return "", false
		}

		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == "exit" {
			return src, true
		}
		if _, perr := ouro.ParseSource(src); needsMore(perr) {
			continue
		}
		return src, true
	}
}

func needsMore(perr error) bool {
	if perr == nil || !ouro.IsIncomplete(perr) {
		return false
	}
	k, _ := ouro.KindOf(perr)
	return k != ouro.UnterminatedString
}
