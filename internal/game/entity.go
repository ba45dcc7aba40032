// Package game is the arcade simulation core: entity behaviours, the
// collision resolver, the spawner, difficulty scaling and the frame
// orchestrator. It owns no I/O; frontends feed it input and read
// snapshots and events back out.
package game

import "github.com/Fresh4774/aquin-offline-arcade/internal/geom"

// Body is the position/size/lifecycle part shared by every simulated object.
// An entity with Alive=false is skipped by updates and collision checks and
// removed by the end-of-tick purge.
type Body struct {
	ID     uint64
	Pos    geom.Vec
	Radius float64
	Alive  bool
}

func (b *Body) body() *Body { return b }

// Overlaps reports whether two bodies touch. Both must be alive.
func (b *Body) Overlaps(o *Body) bool {
	if !b.Alive || !o.Alive {
		return false
	}
	return geom.CirclesOverlap(b.Pos, b.Radius, o.Pos, o.Radius)
}

type entity interface {
	body() *Body
}

// purge compacts s in place, keeping collection order. Running it twice
// gives the same result as running it once.
func purge[T entity](s []T) []T {
	n := 0
	for _, e := range s {
		if e.body().Alive {
			s[n] = e
			n++
		}
	}
	var zero T
	for i := n; i < len(s); i++ {
		s[i] = zero
	}
	return s[:n]
}

func countAlive[T entity](s []T) int {
	n := 0
	for _, e := range s {
		if e.body().Alive {
			n++
		}
	}
	return n
}
