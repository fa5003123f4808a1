// Package keygen issues battle-scoped handles that are never shared by two
// live owners.
package keygen

// Key is an opaque non-zero handle.
type Key uint32

// Invalid is the sentinel handle. Allocate never returns it.
const Invalid Key = 0

// Generator hands out keys from a counter and recycles released keys.
type Generator struct {
	next Key
	free []Key
	live map[Key]struct{}
}

func New() *Generator {
	return &Generator{live: map[Key]struct{}{}}
}

// Allocate returns a key that is not currently in use.
func (g *Generator) Allocate() Key {
	if g.live == nil {
		g.live = map[Key]struct{}{}
	}
	for len(g.free) > 0 {
		k := g.free[len(g.free)-1]
		g.free = g.free[:len(g.free)-1]
		if _, used := g.live[k]; !used {
			g.live[k] = struct{}{}
			return k
		}
	}
	for {
		g.next++
		if g.next == Invalid {
			continue
		}
		if _, used := g.live[g.next]; used {
			continue
		}
		g.live[g.next] = struct{}{}
		return g.next
	}
}

// Release makes k eligible for reuse. Releasing a key that is not live is a
// no-op and reports false.
func (g *Generator) Release(k Key) bool {
	if _, ok := g.live[k]; !ok {
		return false
	}
	delete(g.live, k)
	g.free = append(g.free, k)
	return true
}

func (g *Generator) InUse(k Key) bool {
	_, ok := g.live[k]
	return ok
}

// Live reports how many keys are currently allocated.
func (g *Generator) Live() int { return len(g.live) }

// Reset forgets every issued key.
func (g *Generator) Reset() {
	g.next = Invalid
	g.free = nil
	g.live = map[Key]struct{}{}
}
