package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hexclash/server/internal/batch"
	"github.com/hexclash/server/internal/click"
	"github.com/hexclash/server/internal/config"
	"github.com/hexclash/server/internal/hexgrid"
	"github.com/hexclash/server/internal/hub"
	"github.com/hexclash/server/internal/neighbor"
	"github.com/hexclash/server/internal/tilestore"
)

func newTestAPI() (*API, tilestore.Store) {
	store := tilestore.NewMemStore()
	idx := neighbor.Build(10)
	resolver := click.New(store, idx, tilestore.NewShardedLock())
	partition := hexgrid.ParallelogramBatches(2, 2, 10)
	projector := batch.New(store, idx, partition)
	h := hub.New()
	cfg := config.Config{GridRadius: 10, GridBatchDiv: 2}
	return New(store, resolver, projector, h, cfg), store
}

func TestHandleLoginCreatesUser(t *testing.T) {
	api, store := newTestAPI()
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/login", "application/json", strings.NewReader(`{"username":"alice"}`))
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var user tilestore.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.Username != "alice" || user.ID == "" || user.Token == "" {
		t.Errorf("user = %+v, want populated alice", user)
	}

	valid, err := store.ValidToken(context.Background(), user.ID, user.Token)
	if err != nil {
		t.Fatalf("ValidToken: %v", err)
	}
	if !valid {
		t.Error("ValidToken(minted user) = false, want true")
	}
}

func TestHandleTileRequiresAuth(t *testing.T) {
	api, _ := newTestAPI()
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/tile/0/0", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /tile/0/0: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestHandleTileWithValidTokenClicks(t *testing.T) {
	api, store := newTestAPI()
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/login", "application/json", strings.NewReader(`{"username":"bob"}`))
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	var user tilestore.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/tile/0/0", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.SetBasicAuth(user.ID, user.Token)
	clickResp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("POST /tile/0/0: %v", err)
	}
	defer clickResp.Body.Close()
	if clickResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", clickResp.StatusCode)
	}

	tile, ok, err := store.GetTile(req.Context(), hexgrid.Coord{Q: 0, R: 0})
	if err != nil || !ok {
		t.Fatalf("GetTile: ok=%v err=%v", ok, err)
	}
	if tile.Owner != user.ID {
		t.Errorf("tile.Owner = %q, want %q", tile.Owner, user.ID)
	}
}

func TestHandleSettingsReturnsConfig(t *testing.T) {
	api, _ := newTestAPI()
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/settings")
	if err != nil {
		t.Fatalf("GET /settings: %v", err)
	}
	defer resp.Body.Close()

	var got struct {
		GridRadius   uint32 `json:"grid_radius"`
		GridBatchDiv uint8  `json:"grid_batch_div"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.GridRadius != 10 || got.GridBatchDiv != 2 {
		t.Errorf("settings = %+v, want {10 2}", got)
	}
}

func TestHandleBatchesReturnsAllIndices(t *testing.T) {
	api, _ := newTestAPI()
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/batches")
	if err != nil {
		t.Fatalf("GET /batches: %v", err)
	}
	defer resp.Body.Close()

	var ids []int
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ids) != 4 {
		t.Errorf("len(ids) = %d, want 4", len(ids))
	}
}
