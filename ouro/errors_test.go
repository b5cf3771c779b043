package ouro

import (
	"errors"
	"strings"
	"testing"
)

func Test_Errors_Diagnostic_Snippet(t *testing.T) {
	src := "let a = 1;\nlet b = a +;\nprint(b);"
	_, err := ParseSource(src)
	got := FormatDiagnostic(err, "demo.ouro", src)
	want := "Ouroboros Error at demo.ouro:2:12: expected expression, got ';'\n" +
		"\n" +
		"   1 | let a = 1;\n" +
		"   2 | let b = a +;\n" +
		"     |            ^\n" +
		"   3 | print(b);"
	if got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}
}

func Test_Errors_Diagnostic_Default_Name_And_Traceback(t *testing.T) {
	ip, _ := newTestInterp(t)
	src := "fn f() { return 1/0; }\nf();"
	_, err := ip.ExecSource("x", src)
	got := FormatDiagnostic(err, "", src)
	if !strings.HasPrefix(got, "Ouroboros Error at <input>:1:19: division by zero\n") {
		t.Fatalf("header: %q", got)
	}
	if !strings.HasSuffix(got, "traceback (innermost first):\n  in f called at 2:2") {
		t.Fatalf("traceback: %q", got)
	}
}

func Test_Errors_Diagnostic_Lists_Every_Error(t *testing.T) {
	src := "let = 1;\nlet y = ;"
	_, err := ParseSource(src)
	got := FormatDiagnostic(err, "m", src)
	if n := strings.Count(got, "Ouroboros Error at m:"); n != 2 {
		t.Fatalf("want 2 headers, got %d:\n%s", n, got)
	}
}

func Test_Errors_Diagnostic_Foreign_Error(t *testing.T) {
	if got := FormatDiagnostic(errors.New("boom"), "f", ""); got != "Ouroboros Error: boom" {
		t.Fatalf("got %q", got)
	}
}

func Test_Errors_Diagnostic_Clamps_Position(t *testing.T) {
	e := &Error{Kind: IOError, Msg: "lost"}
	got := FormatDiagnostic(e, "f", "abc")
	if !strings.HasPrefix(got, "Ouroboros Error at f:1:1: lost") {
		t.Fatalf("got %q", got)
	}
}

func Test_Errors_Kinds_And_Phases(t *testing.T) {
	cases := map[ErrorKind]Phase{
		UnexpectedCharacter: PhaseLex,
		UnterminatedString:  PhaseLex,
		UnexpectedToken:     PhaseParse,
		ExpectedExpression:  PhaseParse,
		ExpectedStatement:   PhaseParse,
		UndefinedVariable:   PhaseRuntime,
		DivisionByZero:      PhaseRuntime,
		StackOverflow:       PhaseRuntime,
		IOError:             PhaseRuntime,
	}
	for k, want := range cases {
		if got := k.Phase(); got != want {
			t.Errorf("%v.Phase() = %v, want %v", k, got, want)
		}
	}
	if ErrorKind(99).String() != "ErrorKind(99)" {
		t.Errorf("unknown kind: %s", ErrorKind(99))
	}
}

func Test_Errors_Helpers_See_Through_Wrapping(t *testing.T) {
	_, err := ParseSource("let = 1;")
	wrapped := errors.Join(errors.New("context"), err)
	if k, ok := KindOf(wrapped); !ok || k != UnexpectedToken {
		t.Fatalf("KindOf: %v %v", k, ok)
	}
	if p, _ := PhaseOf(wrapped); p != PhaseParse {
		t.Fatalf("PhaseOf: %v", p)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatalf("plain errors have no kind")
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind != UnexpectedToken {
		t.Fatalf("errors.As through ErrorList failed")
	}
}

func Test_Errors_List_Message(t *testing.T) {
	l := ErrorList{
		{Kind: UnexpectedToken, Line: 1, Col: 2, Msg: "a"},
		{Kind: ExpectedExpression, Line: 3, Col: 4, Msg: "b"},
	}
	if got := l.Error(); got != "UnexpectedToken at 1:2: a (and 1 more errors)" {
		t.Fatalf("got %q", got)
	}
	if ErrorList(nil).Err() != nil {
		t.Fatalf("empty list must be a nil error")
	}
}

func Test_Errors_Incomplete_Uses_First_Error(t *testing.T) {
	if !IsIncomplete(mustErr(t, "fn f() {")) {
		t.Fatalf("open block should be incomplete")
	}
	if IsIncomplete(mustErr(t, "@ let x =")) {
		t.Fatalf("leading hard error wins")
	}
	if IsIncomplete(errors.New("x")) || IsIncomplete(nil) {
		t.Fatalf("foreign errors are never incomplete")
	}
}

func mustErr(t *testing.T, src string) error {
	t.Helper()
	_, err := ParseSource(src)
	if err == nil {
		t.Fatalf("expected error for %q", src)
	}
	return err
}
