// Package benchfixture pre-owns the entire grid under a synthetic
// benchmark user, so load tests have a fully populated board to click
// against without waiting for real players to fill it in.
package benchfixture

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/hexclash/server/internal/hexgrid"
	"github.com/hexclash/server/internal/tilestore"
	"github.com/hexclash/server/internal/userdir"
)

// BotUsername is the synthetic user every seeded tile is owned by.
const BotUsername = "benchmark-bot"

// Concurrency is the number of worker goroutines writing tiles
// concurrently during Seed.
const Concurrency = 16

// Seed registers the benchmark bot and claims every in-grid coordinate of
// the given radius on its behalf, through the store's ordinary
// SetTile/AddUser operations — no special-cased store path.
func Seed(ctx context.Context, store tilestore.Store, radius int) error {
	bot, err := userdir.NewUser(BotUsername)
	if err != nil {
		return fmt.Errorf("benchfixture: minting bot user: %w", err)
	}
	if err := store.AddUser(ctx, bot); err != nil {
		return fmt.Errorf("benchfixture: registering bot user: %w", err)
	}

	coords := hexgrid.Spiral(hexgrid.Coord{}, radius)
	log.Printf("benchfixture: seeding %d tiles for %s", len(coords), BotUsername)

	jobs := make(chan hexgrid.Coord, Concurrency*2)
	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	pb := newProgress("Seeding", int64(len(coords)))

	for w := 0; w < Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				if err := store.SetTile(ctx, c, tilestore.StoredTile{Owner: bot.ID, Damage: 0}); err != nil {
					select {
					case errCh <- fmt.Errorf("benchfixture: seeding %v: %w", c, err):
					default:
					}
					continue
				}
				pb.Increment()
			}
		}()
	}

	for _, c := range coords {
		jobs <- c
	}
	close(jobs)
	wg.Wait()
	pb.Finish()

	select {
	case err := <-errCh:
		return err
	default:
	}

	log.Printf("benchfixture: seeding complete")
	return nil
}
