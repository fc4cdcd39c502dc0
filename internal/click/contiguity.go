// Package click implements the click-resolution algorithm: given a click
// (coords, actor) it mutates at most one tile in the store and returns
// every tile whose computed view changed.
package click

import (
	"github.com/hexclash/server/internal/hexgrid"
	"github.com/hexclash/server/internal/neighbor"
	"github.com/hexclash/server/internal/tilestore"
)

// ComputedTile is the publicly visible projection of a StoredTile: never
// stored, always derived from the owner's current contiguous territory.
type ComputedTile struct {
	Owner    string
	Strength uint8
}

// frontier is one BFS queue entry: a coordinate paired with its hop
// distance from the anchor.
type frontier struct {
	c     hexgrid.Coord
	depth int
}

// Contiguous implements C(anchor, owner, maxHops): a breadth-first walk
// over the Neighbor Index that only continues expanding through tiles
// already owned by owner, up to maxHops away from anchor. It returns the
// qualifying tiles in Neighbor Index discovery order; the anchor itself
// is never included. Both the BFS frontier and the uniqueness check use a
// single visited set, so a tile reached by two different paths is only
// ever considered once — at its shortest distance from the anchor.
func Contiguous(idx *neighbor.Index, m map[hexgrid.Coord]tilestore.StoredTile, anchor hexgrid.Coord, owner string, maxHops int) []hexgrid.Coord {
	visited := map[hexgrid.Coord]bool{anchor: true}
	queue := []frontier{{c: anchor, depth: 0}}
	var result []hexgrid.Coord

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth == maxHops {
			continue
		}
		for _, n := range idx.Neighbors(cur.c) {
			if visited[n] {
				continue
			}
			visited[n] = true
			if t, ok := m[n]; ok && t.Owner == owner {
				result = append(result, n)
				queue = append(queue, frontier{c: n, depth: cur.depth + 1})
			}
		}
	}
	return result
}

// Computed derives the public (owner, strength) pair for a stored tile:
// strength = 1 + |Contiguous(c, t.Owner, 2)| - t.Damage. The click
// resolver maintains the invariant damage <= 1 + contiguity count (an
// attack that would drive strength to zero captures instead), so the
// subtraction here never underflows in a correctly-operating system.
func Computed(idx *neighbor.Index, m map[hexgrid.Coord]tilestore.StoredTile, c hexgrid.Coord, t tilestore.StoredTile) ComputedTile {
	contiguous := Contiguous(idx, m, c, t.Owner, 2)
	strength := 1 + len(contiguous) - int(t.Damage)
	return ComputedTile{Owner: t.Owner, Strength: uint8(strength)}
}
