package keygen

import "testing"

func TestAllocateNeverReturnsInvalidOrDuplicates(t *testing.T) {
	g := New()
	seen := map[Key]bool{}
	for i := 0; i < 500; i++ {
		k := g.Allocate()
		if k == Invalid {
			t.Fatalf("allocation %d returned the sentinel", i)
		}
		if seen[k] {
			t.Fatalf("allocation %d returned live key %d twice", i, k)
		}
		seen[k] = true
	}
	if g.Live() != 500 {
		t.Fatalf("live = %d, want 500", g.Live())
	}
}

func TestReleaseAllowsReuse(t *testing.T) {
	g := New()
	a := g.Allocate()
	b := g.Allocate()
	if !g.Release(a) {
		t.Fatalf("release of live key %d reported false", a)
	}
	if g.InUse(a) {
		t.Fatalf("key %d still in use after release", a)
	}
	c := g.Allocate()
	if c != a {
		t.Fatalf("expected released key %d to be reused, got %d", a, c)
	}
	if c == b {
		t.Fatalf("reused key collides with live key %d", b)
	}
}

func TestReleaseUnknownKey(t *testing.T) {
	g := New()
	if g.Release(42) {
		t.Fatal("release of never-issued key reported true")
	}
	k := g.Allocate()
	g.Release(k)
	if g.Release(k) {
		t.Fatal("double release reported true")
	}
	// a double release must not put the key in the pool twice
	x, y := g.Allocate(), g.Allocate()
	if x == y {
		t.Fatalf("two live keys are equal: %d", x)
	}
}

func TestResetStartsOver(t *testing.T) {
	g := New()
	g.Allocate()
	g.Allocate()
	g.Reset()
	if g.Live() != 0 {
		t.Fatalf("live = %d after reset", g.Live())
	}
	if k := g.Allocate(); k != 1 {
		t.Fatalf("first key after reset = %d, want 1", k)
	}
}
