// Package batch projects stored tiles into the spectator view: given a
// batch index into a precomputed parallelogram partition of the grid, it
// loads every tile in that batch and the radius-2 neighborhood each one
// needs to compute its strength.
package batch

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/hexclash/server/internal/apperr"
	"github.com/hexclash/server/internal/click"
	"github.com/hexclash/server/internal/hexgrid"
	"github.com/hexclash/server/internal/neighbor"
	"github.com/hexclash/server/internal/tilestore"
)

// TileView is the wire-friendly projection of one tile: coordinates,
// computed strength, and owner.
type TileView struct {
	Q        int
	R        int
	Strength uint8
	Owner    string
}

// Projector serves the spectator endpoints. It's stateless beyond its
// three collaborators and safe for concurrent use.
type Projector struct {
	store     tilestore.Store
	index     *neighbor.Index
	partition [][]hexgrid.Coord
}

// New builds a Projector over a fixed partition of the grid (see
// hexgrid.ParallelogramBatches).
func New(store tilestore.Store, index *neighbor.Index, partition [][]hexgrid.Coord) *Projector {
	return &Projector{store: store, index: index, partition: partition}
}

// BatchCount returns the number of batches in the partition.
func (p *Projector) BatchCount() int {
	return len(p.partition)
}

// ComputeBatch loads every owned tile in batch i and projects each to its
// public (strength, owner) view. A tile whose radius-2 prefetch fails is
// logged and skipped rather than failing the whole batch.
func (p *Projector) ComputeBatch(ctx context.Context, i int) ([]TileView, error) {
	if i < 0 || i >= len(p.partition) {
		return nil, apperr.Invalid("batch.ComputeBatch", fmt.Sprintf("batch index %d out of range [0,%d)", i, len(p.partition)))
	}
	coords := p.partition[i]

	tiles, err := p.store.BatchGetTiles(ctx, coords)
	if err != nil {
		return nil, err
	}

	views := make([]TileView, 0, len(tiles))
	for _, c := range coords {
		t, ok := tiles[c]
		if !ok {
			continue
		}
		region, err := p.prefetchRegion(ctx, c)
		if err != nil {
			log.Printf("batch: skipping projection of %v: %v", c, err)
			continue
		}
		proj := click.Computed(p.index, region, c, t)
		views = append(views, TileView{Q: c.Q, R: c.R, Strength: proj.Strength, Owner: proj.Owner})
	}
	return views, nil
}

// BatchList returns [0, BatchCount()) in a freshly randomized order on
// every call, so repeated spectator polling spreads store load across the
// whole disk instead of hot-spotting whichever batch is requested first.
func (p *Projector) BatchList() []int {
	order := make([]int, len(p.partition))
	for i := range order {
		order[i] = i
	}
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

func (p *Projector) prefetchRegion(ctx context.Context, c hexgrid.Coord) (map[hexgrid.Coord]tilestore.StoredTile, error) {
	spiral := hexgrid.Spiral(c, 2)
	region := spiral[:0:0]
	for _, n := range spiral {
		if hexgrid.InGrid(n, p.index.Radius()) {
			region = append(region, n)
		}
	}
	return p.store.BatchGetTiles(ctx, region)
}
