package click

import (
	"context"

	"github.com/hexclash/server/internal/hexgrid"
	"github.com/hexclash/server/internal/neighbor"
	"github.com/hexclash/server/internal/tilestore"
)

// Update is one entry in the result of HandleClick: a coordinate whose
// computed view changed and needs to be pushed to connected clients.
type Update struct {
	Coord hexgrid.Coord
	Tile  ComputedTile
}

// Result is everything one click produces: the tiles whose view changed,
// plus the users whose tile count (and therefore score) changed. A tile
// count only changes on a first claim or a capture; a heal or a
// non-capturing attack never changes who owns anything, so ScoreChanged
// is empty for those. On capture ScoreChanged always names both the
// actor and the former owner, even if the former owner's remaining
// territory is too disconnected to appear in Updates at all.
type Result struct {
	Updates      []Update
	ScoreChanged []string
}

// Resolver turns clicks into store mutations. It owns no state beyond its
// three collaborators and is safe for concurrent use: every call locks
// the clicked coordinate for the duration of its own prefetch-decide-write
// sequence.
type Resolver struct {
	store tilestore.Store
	index *neighbor.Index
	locks *tilestore.ShardedLock
}

// New builds a Resolver. index must already cover the same grid radius
// the store is seeded for.
func New(store tilestore.Store, index *neighbor.Index, locks *tilestore.ShardedLock) *Resolver {
	return &Resolver{store: store, index: index, locks: locks}
}

// HandleClick resolves a single click by actor on coords and returns the
// computed projection of every tile whose view changed as a result, plus
// the owners whose live tile count changed. It mutates at most one
// StoredTile in the underlying store.
func (r *Resolver) HandleClick(ctx context.Context, coords hexgrid.Coord, actor string) (Result, error) {
	r.locks.Lock(coords)
	defer r.locks.Unlock(coords)

	prefetch := hexgrid.Spiral(coords, 2)
	region := prefetch[:0:0]
	for _, c := range prefetch {
		if hexgrid.InGrid(c, r.index.Radius()) {
			region = append(region, c)
		}
	}
	m, err := r.store.BatchGetTiles(ctx, region)
	if err != nil {
		return Result{}, err
	}

	dirty, scoreChanged, err := r.resolve(ctx, m, coords, actor)
	if err != nil {
		return Result{}, err
	}

	return Result{Updates: r.project(m, dirty), ScoreChanged: scoreChanged}, nil
}

// resolve runs the three click cases against the prefetched working map m,
// writing through to the store as it goes. It returns the coordinates
// whose stored tile or contiguous territory changed, and the owners whose
// tile count changed as a result (nil unless a claim or capture happened).
func (r *Resolver) resolve(ctx context.Context, m map[hexgrid.Coord]tilestore.StoredTile, coords hexgrid.Coord, actor string) ([]hexgrid.Coord, []string, error) {
	tile, owned := m[coords]

	switch {
	case !owned:
		// Absent: actor claims the tile outright, gaining one tile of score.
		next := tilestore.StoredTile{Owner: actor, Damage: 0}
		if err := r.write(ctx, m, coords, next); err != nil {
			return nil, nil, err
		}
		dirty := append([]hexgrid.Coord{coords}, Contiguous(r.index, m, coords, actor, 2)...)
		return dirty, []string{actor}, nil

	case tile.Owner == actor:
		// Owned by actor: the click heals one point of damage, and is a
		// no-op on an undamaged tile. Tile counts don't move, so no score
		// broadcast is needed.
		if tile.Damage == 0 {
			return nil, nil, nil
		}
		next := tilestore.StoredTile{Owner: actor, Damage: tile.Damage - 1}
		if err := r.write(ctx, m, coords, next); err != nil {
			return nil, nil, err
		}
		return []hexgrid.Coord{coords}, nil, nil

	default:
		// Owned by someone else: attack, capturing if the hit would drive
		// the defender's strength to zero or below.
		prevOwner := tile.Owner
		defenderStrength := 1 + len(Contiguous(r.index, m, coords, prevOwner, 2)) - int(tile.Damage)
		if defenderStrength > 1 {
			next := tilestore.StoredTile{Owner: prevOwner, Damage: tile.Damage + 1}
			if err := r.write(ctx, m, coords, next); err != nil {
				return nil, nil, err
			}
			return []hexgrid.Coord{coords}, nil, nil
		}

		// Capture: the tile moves from prevOwner to actor, so both of
		// their tile counts change even if prevOwner's remaining
		// territory is too disconnected to show up in dirty below.
		next := tilestore.StoredTile{Owner: actor, Damage: 0}
		if err := r.write(ctx, m, coords, next); err != nil {
			return nil, nil, err
		}
		dirty := []hexgrid.Coord{coords}
		dirty = append(dirty, Contiguous(r.index, m, coords, prevOwner, 2)...)
		dirty = append(dirty, Contiguous(r.index, m, coords, actor, 2)...)
		return dirty, []string{actor, prevOwner}, nil
	}
}

// write updates both the working map and the backing store so later
// Contiguous/Computed calls in the same click see the new value.
func (r *Resolver) write(ctx context.Context, m map[hexgrid.Coord]tilestore.StoredTile, c hexgrid.Coord, t tilestore.StoredTile) error {
	m[c] = t
	return r.store.SetTile(ctx, c, t)
}

// project turns a list of possibly-duplicated dirty coordinates into
// deduplicated Updates, preserving first-seen order.
func (r *Resolver) project(m map[hexgrid.Coord]tilestore.StoredTile, dirty []hexgrid.Coord) []Update {
	if len(dirty) == 0 {
		return nil
	}
	seen := make(map[hexgrid.Coord]bool, len(dirty))
	updates := make([]Update, 0, len(dirty))
	for _, c := range dirty {
		if seen[c] {
			continue
		}
		seen[c] = true
		t, ok := m[c]
		if !ok {
			continue
		}
		updates = append(updates, Update{Coord: c, Tile: Computed(r.index, m, c, t)})
	}
	return updates
}
