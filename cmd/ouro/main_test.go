package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/XFOSS/Oura-sub001/ouro"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	argv := append([]string{"ouro", "-n"}, args...)
	code := run(argv, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "prog.ouro")
	if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func Test_CLI_File_Exit_Codes(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		code   int
		stdout string
		stderr string
	}{
		{"ok", `fn add(a, b) { return a + b; } print(add(2,3));`, exitOK, "5\n", ""},
		{"lex error", "let a = 1 @ 2;", exitStatic, "", ":1:11: unexpected character '@'"},
		{"parse error", "let = 1;", exitStatic, "", ":1:5: unexpected token"},
		{"runtime error", "print(1);\nlet r = 1/0;", exitRuntime, "1\n", ":2:11: division by zero"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeScript(t, c.src)
			code, out, errOut := runCLI(t, path)
			if code != c.code {
				t.Fatalf("exit %d, want %d (stderr %q)", code, c.code, errOut)
			}
			if out != c.stdout {
				t.Fatalf("stdout %q, want %q", out, c.stdout)
			}
			if c.stderr == "" {
				if errOut != "" {
					t.Fatalf("unexpected stderr %q", errOut)
				}
				return
			}
			if !strings.HasPrefix(errOut, "Ouroboros Error at "+path) || !strings.Contains(errOut, c.stderr) {
				t.Fatalf("stderr %q should mention %q", errOut, c.stderr)
			}
		})
	}
}

func Test_CLI_Parse_Errors_Do_Not_Run_Anything(t *testing.T) {
	code, out, _ := runCLI(t, "-e", `print("side effect"); let = 1;`)
	if code != exitStatic || out != "" {
		t.Fatalf("exit %d stdout %q", code, out)
	}
}

func Test_CLI_Eval_Flag(t *testing.T) {
	code, out, errOut := runCLI(t, "-e", `print("hi");`)
	if code != exitOK || out != "hi\n" || errOut != "" {
		t.Fatalf("exit %d stdout %q stderr %q", code, out, errOut)
	}
	code, _, errOut = runCLI(t, "-e", `x;`)
	if code != exitRuntime || !strings.HasPrefix(errOut, "Ouroboros Error at <eval>:1:1: undefined variable: x") {
		t.Fatalf("exit %d stderr %q", code, errOut)
	}
}

func Test_CLI_Missing_File(t *testing.T) {
	code, _, errOut := runCLI(t, filepath.Join(t.TempDir(), "nope.ouro"))
	if code != exitStatic || !strings.Contains(errOut, "cannot read") {
		t.Fatalf("exit %d stderr %q", code, errOut)
	}
}

func Test_CLI_Version_And_Help(t *testing.T) {
	code, out, _ := runCLI(t, "-v")
	if code != exitOK || strings.TrimSpace(out) != ouro.Version {
		t.Fatalf("exit %d stdout %q", code, out)
	}
	code, out, _ = runCLI(t, "-h")
	if code != exitOK || !strings.Contains(out, "Usage:") {
		t.Fatalf("exit %d stdout %q", code, out)
	}
}

func Test_CLI_Bad_Flag(t *testing.T) {
	code, _, errOut := runCLI(t, "-z")
	if code != exitStatic || !strings.Contains(errOut, "Usage:") {
		t.Fatalf("exit %d stderr %q", code, errOut)
	}
}

func Test_CLI_Debug_Logs_To_Stderr(t *testing.T) {
	code, out, errOut := runCLI(t, "-d", "-e", `fn f() { return 1; } print(f());`)
	if code != exitOK || out != "1\n" {
		t.Fatalf("exit %d stdout %q", code, out)
	}
	if !strings.Contains(errOut, "level=DEBUG") || !strings.Contains(errOut, "state=Completed") {
		t.Fatalf("debug log missing call trace: %q", errOut)
	}
}

func Test_CLI_Waits_For_Spawned_Work(t *testing.T) {
	code, out, _ := runCLI(t, "-e", `fn job() { print("bg"); } spawn(job);`)
	if code != exitOK || out != "bg\n" {
		t.Fatalf("exit %d stdout %q", code, out)
	}
}

func Test_CLI_Exit_Code_Mapping(t *testing.T) {
	ip := ouro.NewInterpreter()
	defer ip.Close()
	_, lexErr := ouro.ParseSource("$")
	_, parseErr := ouro.ParseSource("let;")
	_, rtErr := ip.ExecSource("t", "1/0;")
	for _, c := range []struct {
		err  error
		want int
	}{{lexErr, exitStatic}, {parseErr, exitStatic}, {rtErr, exitRuntime}} {
		if got := exitCode(c.err); got != c.want {
			t.Errorf("exitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
