package ouro

import "testing"

func Test_Env_Set_Updates_Nearest_Binding(t *testing.T) {
	outer := NewEnv(nil)
	outer.Define("x", Int(1))
	mid := NewEnv(outer)
	mid.Define("x", Int(2))
	inner := NewEnv(mid)

	if err := inner.Set("x", Int(3)); err != nil {
		t.Fatal(err)
	}
	if v, _ := mid.Lookup("x"); v.String() != "3" {
		t.Fatalf("mid x = %s, want 3", v)
	}
	if v, _ := outer.Lookup("x"); v.String() != "1" {
		t.Fatalf("outer x = %s, want 1", v)
	}
	if _, ok := inner.table["x"]; ok {
		t.Fatalf("Set must not define in the current scope")
	}
}

func Test_Env_Set_Undefined(t *testing.T) {
	e := NewEnv(NewEnv(nil))
	if err := e.Set("nope", Int(1)); err == nil {
		t.Fatalf("expected an error")
	}
	if _, ok := e.Lookup("nope"); ok {
		t.Fatalf("failed Set should not bind")
	}
}

func Test_Env_Owner(t *testing.T) {
	root := NewEnv(nil)
	root.Define("a", Int(1))
	child := NewEnv(root)
	if child.owner("a") != root {
		t.Fatalf("a should resolve to root")
	}
	if child.owner("b") != nil {
		t.Fatalf("b is unbound")
	}
}

func Test_Interpreter_Assign_Through_Closure_Scope(t *testing.T) {
	ip, out := runOK(t, `let n = 0; fn bump() { n = n + 1; } bump(); bump(); print(n);`)
	if out != "2\n" {
		t.Fatalf("got %q", out)
	}
	wantGlobal(t, ip, "n", "2")
}
