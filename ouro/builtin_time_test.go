package ouro

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// runAsync executes src on a goroutine so the test can drive the fake clock.
func runAsync(ip *Interpreter, src string) <-chan error {
	done := make(chan error, 1)
	go func() {
		_, err := ip.ExecSource("test", src)
		done <- err
	}()
	return done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("program did not finish")
	}
}

func Test_Time_Sleep_Uses_Clock(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ip, out := newTestInterp(t, WithClock(fc))
	done := runAsync(ip, `print("before"); sleep(2); print("after");`)

	fc.BlockUntil(1)
	select {
	case <-done:
		t.Fatal("sleep returned before the clock advanced")
	default:
	}
	fc.Advance(2 * time.Second)
	waitDone(t, done)
	if out.String() != "before\nafter\n" {
		t.Fatalf("got %q", out.String())
	}
}

func Test_Time_Sleep_Zero_Does_Not_Block(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ip, _ := newTestInterp(t, WithClock(fc))
	if _, err := ip.ExecSource("test", `sleep(0);`); err != nil {
		t.Fatal(err)
	}
}

func Test_Time_Sleep_Rejects_Bad_Durations(t *testing.T) {
	for _, src := range []string{`sleep("1");`, `sleep(0 - 1);`} {
		runErr(t, src, TypeError)
	}
}

func Test_Time_Set_Timeout_Returns_Callback_Result(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ip, out := newTestInterp(t, WithClock(fc))
	done := runAsync(ip, `fn cb() { print("fired"); return 7; } print(set_timeout(cb, 1.5));`)

	fc.BlockUntil(1)
	fc.Advance(1500 * time.Millisecond)
	waitDone(t, done)
	if out.String() != "fired\n7\n" {
		t.Fatalf("got %q", out.String())
	}
}

func Test_Time_Set_Timeout_Errors(t *testing.T) {
	runErr(t, `set_timeout(1, 0);`, NotCallable)
	runErr(t, `fn f(a) {} set_timeout(f, 0);`, ArityMismatch)
}

func Test_Time_Clock_Reads_Injected_Clock(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Unix(100, 0))
	ip, out := newTestInterp(t, WithClock(fc))
	if _, err := ip.ExecSource("test", `let a = clock(); print(a);`); err != nil {
		t.Fatal(err)
	}
	if out.String() != "100.0\n" {
		t.Fatalf("got %q", out.String())
	}
}
