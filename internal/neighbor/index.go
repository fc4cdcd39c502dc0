// Package neighbor precomputes, once per process lifetime, the up-to-six
// in-grid neighbors of every valid hex coordinate. It turns the per-click
// "walk ring 1" into a slice lookup and fixes neighbor enumeration order
// for deterministic tests.
package neighbor

import "github.com/hexclash/server/internal/hexgrid"

// MaxNeighbors is the fixed slot count per coordinate; empty slots
// (neighbor falls outside the grid) are zero-valued and marked unused via
// the parallel ok-bitmask below rather than a sentinel coordinate, since
// (0,0) is itself a valid in-grid coordinate.
const MaxNeighbors = 6

// entry holds up to six neighbors of one coordinate plus a bitmask of
// which slots are populated.
type entry struct {
	neighbors [MaxNeighbors]hexgrid.Coord
	present   [MaxNeighbors]bool
}

// Index is the immutable, process-lifetime neighbor table. Built once at
// startup via Build; read-only and unsynchronized thereafter, since
// nothing ever mutates it after Build returns.
type Index struct {
	radius int
	table  map[hexgrid.Coord]entry
}

// Build constructs the neighbor index for every coordinate in the hex disk
// of the given radius.
func Build(radius int) *Index {
	idx := &Index{
		radius: radius,
		table:  make(map[hexgrid.Coord]entry, 1+3*radius*(radius+1)),
	}
	for _, c := range hexgrid.Spiral(hexgrid.Coord{}, radius) {
		var e entry
		for d := 0; d < MaxNeighbors; d++ {
			n := hexgrid.Neighbor(c, d)
			if hexgrid.InGrid(n, radius) {
				e.neighbors[d] = n
				e.present[d] = true
			}
		}
		idx.table[c] = e
	}
	return idx
}

// Radius returns the grid radius this index was built for.
func (idx *Index) Radius() int {
	return idx.radius
}

// Neighbors returns the in-grid neighbors of c, in the canonical direction
// order (0..5), skipping unused slots. Returns nil if c is not in the
// index (i.e. not in-grid).
func (idx *Index) Neighbors(c hexgrid.Coord) []hexgrid.Coord {
	e, ok := idx.table[c]
	if !ok {
		return nil
	}
	out := make([]hexgrid.Coord, 0, MaxNeighbors)
	for d := 0; d < MaxNeighbors; d++ {
		if e.present[d] {
			out = append(out, e.neighbors[d])
		}
	}
	return out
}

// Contains reports whether c is a member of the index (i.e. in-grid for
// the radius this index was built with).
func (idx *Index) Contains(c hexgrid.Coord) bool {
	_, ok := idx.table[c]
	return ok
}
