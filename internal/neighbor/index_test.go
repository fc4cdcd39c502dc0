package neighbor

import (
	"testing"

	"github.com/hexclash/server/internal/hexgrid"
)

func TestNeighborsMatchRingOne(t *testing.T) {
	const radius = 10
	idx := Build(radius)

	for _, c := range hexgrid.Spiral(hexgrid.Coord{}, radius) {
		want := make(map[hexgrid.Coord]bool)
		for _, r := range hexgrid.Ring(c, 1) {
			if hexgrid.InGrid(r, radius) {
				want[r] = true
			}
		}
		got := idx.Neighbors(c)
		if len(got) != len(want) {
			t.Fatalf("Neighbors(%v) = %v (len %d), want len %d", c, got, len(got), len(want))
		}
		for _, n := range got {
			if !want[n] {
				t.Errorf("Neighbors(%v) contains unexpected %v", c, n)
			}
		}
	}
}

func TestContainsOutOfGrid(t *testing.T) {
	idx := Build(5)
	if idx.Contains(hexgrid.Coord{Q: 100, R: 100}) {
		t.Error("Contains reported true for a clearly out-of-grid coordinate")
	}
	if !idx.Contains(hexgrid.Coord{}) {
		t.Error("Contains reported false for the origin, which is always in-grid")
	}
}

func TestNeighborsOfUnknownCoordIsNil(t *testing.T) {
	idx := Build(2)
	if got := idx.Neighbors(hexgrid.Coord{Q: 50, R: 50}); got != nil {
		t.Errorf("Neighbors(out-of-grid) = %v, want nil", got)
	}
}
