// Package tilestore defines the narrow storage capability the click
// resolver and batch projector depend on, plus two implementations: an
// in-memory map for tests and a Redis-backed store for production. Both
// satisfy the same Store interface so the core never needs to know which
// one it's talking to.
package tilestore

import (
	"context"

	"github.com/hexclash/server/internal/hexgrid"
)

// StoredTile is the persistent record kept per owned coordinate. A stored
// tile exists only once someone owns it; an unowned coordinate has no
// record at all (missing key, not a zero-value record).
type StoredTile struct {
	Owner  string
	Damage uint8
}

// User is a registered player. ID and Token are independent random
// identifiers minted at login (internal/userdir); Color is derived
// deterministically from Username.
type User struct {
	ID       string
	Username string
	Color    string
	Token    string
}

// PublicUser is the externally visible projection of User: no token, plus
// a live tile count.
type PublicUser struct {
	ID       string
	Username string
	Color    string
	Score    uint64
}

// Store is the minimal capability surface the core needs from storage.
// Every method may
// fail with a transient-IO error (wrapped via apperr.Transient by
// implementations); a missing key is not an error, it's an empty/false
// result.
type Store interface {
	// GetTile returns the stored tile at c, or ok=false if no one owns it.
	GetTile(ctx context.Context, c hexgrid.Coord) (tile StoredTile, ok bool, err error)

	// SetTile unconditionally overwrites the tile at c.
	SetTile(ctx context.Context, c hexgrid.Coord, tile StoredTile) error

	// BatchGetTiles returns only the coordinates among cs that have a
	// stored tile, in no particular order. Equivalent to (and tested
	// against) a left-fold of GetTile over cs.
	BatchGetTiles(ctx context.Context, cs []hexgrid.Coord) (map[hexgrid.Coord]StoredTile, error)

	// CountTilesByUser returns the current number of tiles owned by id.
	CountTilesByUser(ctx context.Context, id string) (uint64, error)

	// AddUser stores a new user's fields and appends its id to the
	// ordered user list.
	AddUser(ctx context.Context, u User) error

	// GetPublicUsers enumerates all users, joined with their live score.
	GetPublicUsers(ctx context.Context) ([]PublicUser, error)

	// ValidToken reports whether token matches the stored token for
	// userID. Implementations should compare in a way that doesn't leak
	// timing information about how much of the token matched.
	ValidToken(ctx context.Context, userID, token string) (bool, error)

	// FlushDB clears all state. Used only by tests.
	FlushDB(ctx context.Context) error
}
