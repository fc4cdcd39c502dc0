// Command hexclash-server runs the game backend: it wires configuration,
// storage, the click resolver, the batch projector, the WebSocket hub and
// the HTTP façade together and serves on 0.0.0.0:8080.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hexclash/server/internal/batch"
	"github.com/hexclash/server/internal/benchfixture"
	"github.com/hexclash/server/internal/click"
	"github.com/hexclash/server/internal/config"
	"github.com/hexclash/server/internal/hexgrid"
	"github.com/hexclash/server/internal/httpapi"
	"github.com/hexclash/server/internal/hub"
	"github.com/hexclash/server/internal/neighbor"
	"github.com/hexclash/server/internal/tilestore"
)

const listenAddr = "0.0.0.0:8080"

func main() {
	cfg := config.MustLoad()

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("hexclash-server: parsing REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opts)
	store := tilestore.NewRedisStore(rdb)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.EnsureIndex(ctx); err != nil {
		log.Fatalf("hexclash-server: initializing store index: %v", err)
	}

	radius := int(cfg.GridRadius)
	div := int(cfg.GridBatchDiv)

	index := neighbor.Build(radius)
	partition := hexgrid.ParallelogramBatches(div, div, radius)
	resolver := click.New(store, index, tilestore.NewShardedLock())
	projector := batch.New(store, index, partition)
	fanout := hub.New()

	log.Printf("hexclash-server: grid radius %d, %d batches", radius, len(partition))

	if cfg.UseBenchmarkData {
		if err := benchfixture.Seed(ctx, store, radius); err != nil {
			log.Fatalf("hexclash-server: seeding benchmark data: %v", err)
		}
	}

	api := httpapi.New(store, resolver, projector, fanout, cfg)
	srv := &http.Server{
		Addr:    listenAddr,
		Handler: api.Router(),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("hexclash-server: listening on %s", listenAddr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("hexclash-server: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("hexclash-server: shutdown: %v", err)
		}
		fmt.Println("hexclash-server: shut down gracefully")
	}
}
