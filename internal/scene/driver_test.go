package scene

import "testing"

func TestDriverTokens(t *testing.T) {
	var d Driver
	if _, ok := d.Current(0); ok {
		t.Fatal("zero driver has a current session")
	}

	s := newTestSession(t, DefaultConfig(), 'A', &stubSource{bins: 1024})
	tok := d.Start(s)
	got, ok := d.Current(tok)
	if !ok || got != s {
		t.Fatalf("Current(%d) = %v, %v", tok, got, ok)
	}

	d.Stop()
	if _, ok := d.Current(tok); ok {
		t.Fatal("token valid after Stop")
	}
	if _, ok := d.Tick(tok); ok {
		t.Fatal("Tick ran after Stop")
	}

	next := d.Start(s)
	if next == tok {
		t.Fatal("restart reused the old token")
	}
	f, ok := d.Tick(next)
	if !ok || f.Index != 1 {
		t.Fatalf("Tick() = %+v, %v", f, ok)
	}
}
