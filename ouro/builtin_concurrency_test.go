package ouro

import (
	"bytes"
	"sort"
	"strings"
	"testing"
)

func Test_Spawn_Runs_Before_Close_Returns(t *testing.T) {
	var out, errOut bytes.Buffer
	ip := NewInterpreter(WithStdout(&out), WithStderr(&errOut))
	src := `let msg = "hi"; fn job() { print(msg); } spawn(job); let msg = "changed";`
	if _, err := ip.ExecSource("test", src); err != nil {
		t.Fatal(err)
	}
	if err := ip.Close(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "hi\n" || errOut.Len() != 0 {
		t.Fatalf("stdout %q stderr %q", out.String(), errOut.String())
	}
}

func Test_Spawn_Works_On_A_Snapshot(t *testing.T) {
	var out bytes.Buffer
	ip := NewInterpreter(WithStdout(&out))
	src := `let n = 0;
fn bump() { n = n + 1; print(n); }
spawn(bump);
spawn(bump);`
	if _, err := ip.ExecSource("test", src); err != nil {
		t.Fatal(err)
	}
	if err := ip.Close(); err != nil {
		t.Fatal(err)
	}
	// each job mutates its own copy
	if out.String() != "1\n1\n" {
		t.Fatalf("got %q", out.String())
	}
	wantGlobal(t, ip, "n", "0")
}

func Test_Spawn_Nested(t *testing.T) {
	var out bytes.Buffer
	ip := NewInterpreter(WithStdout(&out))
	src := `fn leaf() { print("leaf"); } fn mid() { spawn(leaf); print("mid"); } spawn(mid);`
	if _, err := ip.ExecSource("test", src); err != nil {
		t.Fatal(err)
	}
	if err := ip.Close(); err != nil {
		t.Fatal(err)
	}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	sort.Strings(got)
	if len(got) != 2 || got[0] != "leaf" || got[1] != "mid" {
		t.Fatalf("got %q", out.String())
	}
}

func Test_Spawn_Error_Goes_To_Stderr(t *testing.T) {
	var out, errOut bytes.Buffer
	ip := NewInterpreter(WithStdout(&out), WithStderr(&errOut))
	if _, err := ip.ExecSource("test", `fn bad() { let z = 1/0; } spawn(bad); print("main");`); err != nil {
		t.Fatalf("a failing job must not fail the spawner: %v", err)
	}
	_ = ip.Close()
	msg := errOut.String()
	if !strings.HasPrefix(msg, "Ouroboros Error at <spawn bad>:1:") || !strings.Contains(msg, "division by zero") {
		t.Fatalf("stderr %q", msg)
	}
	if !strings.Contains(msg, "in bad (called from host)") {
		t.Fatalf("missing traceback: %q", msg)
	}
	if out.String() != "main\n" {
		t.Fatalf("stdout %q", out.String())
	}
}

func Test_Spawn_Argument_Checks(t *testing.T) {
	runErr(t, `spawn(1);`, NotCallable)
	runErr(t, `fn f(a) {} spawn(f);`, ArityMismatch)
}

func Test_Spawn_After_Close_Fails(t *testing.T) {
	ip := NewInterpreter(WithStdout(&bytes.Buffer{}))
	if err := ip.Close(); err != nil {
		t.Fatal(err)
	}
	_, err := ip.ExecSource("test", `fn f() {} spawn(f);`)
	if k, _ := KindOf(err); k != Unsupported {
		t.Fatalf("got %v", err)
	}
	if err := ip.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
