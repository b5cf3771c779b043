package ouro

import (
	"math"
	"testing"
)

var roundTripCorpus = []string{
	`let x: int = 2 + 3 * 4;`,
	`let s = "tab\there \"q\" back\\slash\nnl";`,
	`fn add(a: int, b: int) -> int { return a + b; }`,
	`async gpu fn k() {}`,
	`fn noop() { return; }`,
	`for i in 0..10 { print(i * 2); }`,
	`if (x > 1) { print("a"); } else if (y) { print("b"); } else { print("c"); }`,
	`if (1) {}`,
	`let r = (1 + 2) * (3 - (4 / 5));`,
	`print(await job(), f(1)(2), 1.5..3);`,
	`x = x - 1 - 2;`,
	`{ let inner = 1; { print(inner); } }`,
	`let big = 12345678901234567890;`,
}

func tokenStream(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := Tokenize(src)
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	return ts
}

func Test_Printer_RoundTrip_Preserves_Tokens(t *testing.T) {
	for _, src := range roundTripCorpus {
		t.Run(src, func(t *testing.T) {
			printed := Format(mustParse(t, src))
			a, b := tokenStream(t, src), tokenStream(t, printed)
			if len(a) != len(b) {
				t.Fatalf("token count %d != %d\nprinted:\n%s", len(a), len(b), printed)
			}
			for i := range a {
				if a[i].Type != b[i].Type || a[i].Literal != b[i].Literal {
					t.Fatalf("token %d: %v %v != %v %v\nprinted:\n%s",
						i, a[i].Type, a[i].Literal, b[i].Type, b[i].Literal, printed)
				}
			}
			// printing is a fixed point
			if again := Format(mustParse(t, printed)); again != printed {
				t.Fatalf("not stable:\n%s\n---\n%s", printed, again)
			}
		})
	}
}

func Test_Printer_Canonical_Layout(t *testing.T) {
	src := `let x:int=1+2;fn f(a,b:string)->int{return a;}for i in 0..3{print(i);}`
	want := "let x: int = 1 + 2;\n" +
		"fn f(a, b: string) -> int {\n" +
		"    return a;\n" +
		"}\n" +
		"for i in 0..3 {\n" +
		"    print(i);\n" +
		"}\n"
	if got := Format(mustParse(t, src)); got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}
}

func Test_Printer_If_Chain_Layout(t *testing.T) {
	src := `if (a) { if (b) { x = 1; } } else { y = 2; }`
	want := "if (a) {\n" +
		"    if (b) {\n" +
		"        x = 1;\n" +
		"    }\n" +
		"} else {\n" +
		"    y = 2;\n" +
		"}\n"
	if got := Format(mustParse(t, src)); got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}
}

func Test_Printer_Parenthesises_Hand_Built_Trees(t *testing.T) {
	n := func(v float64) Expr { return &NumberExpr{Value: v, IsInt: true} }
	cases := []struct {
		e    Expr
		want string
	}{
		{&BinaryExpr{Op: STAR, Left: &BinaryExpr{Op: PLUS, Left: n(1), Right: n(2)}, Right: n(3)}, "(1 + 2) * 3"},
		{&BinaryExpr{Op: MINUS, Left: n(1), Right: &BinaryExpr{Op: MINUS, Left: n(2), Right: n(3)}}, "1 - (2 - 3)"},
		{&BinaryExpr{Op: MINUS, Left: &BinaryExpr{Op: MINUS, Left: n(1), Right: n(2)}, Right: n(3)}, "1 - 2 - 3"},
		{&RangeExpr{Start: &RangeExpr{Start: n(0), End: n(1)}, End: n(2)}, "(0..1)..2"},
		{&BinaryExpr{Op: GREATER, Left: &RangeExpr{Start: n(0), End: n(1)}, Right: n(0)}, "0..1 > 0"},
		{&CallExpr{Callee: &AwaitExpr{Inner: &IdentExpr{Name: "f"}}}, "(await f)()"},
		{&NumberExpr{Value: 2.5}, "2.5"},
	}
	for _, c := range cases {
		if got := FormatExpr(c.e); got != c.want {
			t.Errorf("want %q, got %q", c.want, got)
		}
	}
}

func Test_Printer_QuoteString(t *testing.T) {
	cases := map[string]string{
		"":          `""`,
		"plain":     `"plain"`,
		"a\"b":      `"a\"b"`,
		"a\\b":      `"a\\b"`,
		"l1\nl2\tx": `"l1\nl2\tx"`,
		"héllo":     `"héllo"`,
	}
	for in, want := range cases {
		if got := quoteString(in); got != want {
			t.Errorf("quoteString(%q) = %s, want %s", in, got, want)
		}
	}
}

func Test_Printer_FormatValue(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Unit, "()"},
		{Int(14), "14"},
		{Int(-3), "-3"},
		{Num(2.5), "2.5"},
		{Num(3), "3.0"},
		{Num(1e22), "1e+22"},
		{Num(math.Inf(1)), "+Inf"},
		{Str("foobar"), "foobar"},
		{Bool(true), "true"},
		{RangeVal(0, 5), "0..5"},
		{FunVal(&Function{Name: "f"}), "<fn f>"},
		{BuiltinVal(&Builtin{Name: "print"}), "<builtin print>"},
	}
	for _, c := range cases {
		if got := FormatValue(c.v); got != c.want {
			t.Errorf("FormatValue(%v) = %q, want %q", c.v.Tag, got, c.want)
		}
	}
	if got := Str("a\nb").String(); got != `"a\nb"` {
		t.Errorf("String() should quote strings, got %s", got)
	}
}
