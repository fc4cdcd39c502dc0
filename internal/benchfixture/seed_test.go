package benchfixture

import (
	"context"
	"testing"

	"github.com/hexclash/server/internal/hexgrid"
	"github.com/hexclash/server/internal/tilestore"
)

func TestSeedClaimsEveryInGridCoordinate(t *testing.T) {
	ctx := context.Background()
	store := tilestore.NewMemStore()
	const radius = 3

	if err := Seed(ctx, store, radius); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	users, err := store.GetPublicUsers(ctx)
	if err != nil {
		t.Fatalf("GetPublicUsers: %v", err)
	}
	if len(users) != 1 || users[0].Username != BotUsername {
		t.Fatalf("users = %+v, want one entry for %s", users, BotUsername)
	}

	want := hexgrid.Spiral(hexgrid.Coord{}, radius)
	for _, c := range want {
		tile, ok, err := store.GetTile(ctx, c)
		if err != nil {
			t.Fatalf("GetTile(%v): %v", c, err)
		}
		if !ok || tile.Owner != users[0].ID {
			t.Errorf("GetTile(%v) = %+v, ok=%v, want owner %s", c, tile, ok, users[0].ID)
		}
	}

	n, err := store.CountTilesByUser(ctx, users[0].ID)
	if err != nil {
		t.Fatalf("CountTilesByUser: %v", err)
	}
	if int(n) != len(want) {
		t.Errorf("CountTilesByUser = %d, want %d", n, len(want))
	}
}
