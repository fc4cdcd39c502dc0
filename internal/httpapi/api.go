// Package httpapi is the HTTP/WebSocket façade: it translates requests
// into calls against the click resolver, batch projector, and tile store,
// and fans out resulting changes over the hub.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/hexclash/server/internal/apperr"
	"github.com/hexclash/server/internal/batch"
	"github.com/hexclash/server/internal/click"
	"github.com/hexclash/server/internal/config"
	"github.com/hexclash/server/internal/hexgrid"
	"github.com/hexclash/server/internal/hub"
	"github.com/hexclash/server/internal/tilestore"
	"github.com/hexclash/server/internal/userdir"
	"github.com/hexclash/server/internal/wire"
)

// API wires the HTTP surface to the core components. It holds no request
// state of its own.
type API struct {
	store     tilestore.Store
	resolver  *click.Resolver
	projector *batch.Projector
	hub       *hub.Hub
	cfg       config.Config
	upgrader  websocket.Upgrader
}

// New builds an API. cfg's FrontendURL/LocustURL drive CORS; its
// GridRadius/GridBatchDiv are echoed by GET /settings.
func New(store tilestore.Store, resolver *click.Resolver, projector *batch.Projector, h *hub.Hub, cfg config.Config) *API {
	return &API{
		store:     store,
		resolver:  resolver,
		projector: projector,
		hub:       h,
		cfg:       cfg,
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Router builds the chi.Router serving every endpoint.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{a.cfg.FrontendURL, a.cfg.LocustURL},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler)

	r.Post("/login", a.handleLogin)
	r.Post("/tile/{q}/{r}", a.handleTile)
	r.Get("/settings", a.handleSettings)
	r.Get("/tiles", a.handleTiles)
	r.Get("/batches", a.handleBatches)
	r.Get("/users", a.handleUsers)
	r.Get("/ws", a.handleWS)
	return r
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" {
		http.Error(w, "username required", http.StatusBadRequest)
		return
	}

	user, err := userdir.NewUser(body.Username)
	if err != nil {
		log.Printf("httpapi: login: minting user: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := a.store.AddUser(r.Context(), user); err != nil {
		writeStoreError(w, err)
		return
	}

	a.hub.Broadcast(wire.EncodeNewUser(wire.NewUser{ID: user.ID, Name: user.Username, Color: user.Color}))

	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleTile(w http.ResponseWriter, r *http.Request) {
	userID, token, ok := r.BasicAuth()
	if !ok {
		writeStoreError(w, apperr.Unauthorized)
		return
	}
	valid, err := a.store.ValidToken(r.Context(), userID, token)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !valid {
		writeStoreError(w, apperr.Unauthorized)
		return
	}

	q, err1 := strconv.Atoi(chi.URLParam(r, "q"))
	rr, err2 := strconv.Atoi(chi.URLParam(r, "r"))
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid coordinate", http.StatusBadRequest)
		return
	}
	coords := hexgrid.Coord{Q: q, R: rr}

	res, err := a.resolver.HandleClick(r.Context(), coords, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	for _, u := range res.Updates {
		a.hub.Broadcast(wire.EncodeTileChange(wire.TileChange{
			Q:        int32(u.Coord.Q),
			R:        int32(u.Coord.R),
			Strength: u.Tile.Strength,
			Owner:    u.Tile.Owner,
		}))
	}

	// A claim or capture moves tiles between owners, so their scores need
	// a fresh count from the store rather than a running tally that could
	// drift from RediSearch's own index.
	for _, owner := range res.ScoreChanged {
		n, err := a.store.CountTilesByUser(r.Context(), owner)
		if err != nil {
			log.Printf("httpapi: counting tiles for %s: %v", owner, err)
			continue
		}
		a.hub.Broadcast(wire.EncodeScoreChange(wire.ScoreChange{Owner: owner, Score: uint32(n)}))
	}

	w.Write([]byte("Tile updated"))
}

func (a *API) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		GridRadius   uint32 `json:"grid_radius"`
		GridBatchDiv uint8  `json:"grid_batch_div"`
	}{GridRadius: a.cfg.GridRadius, GridBatchDiv: a.cfg.GridBatchDiv})
}

func (a *API) handleTiles(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.URL.Query().Get("batch"))
	if err != nil {
		http.Error(w, "batch query parameter required", http.StatusBadRequest)
		return
	}
	views, err := a.projector.ComputeBatch(r.Context(), i)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	rows := make([][4]any, len(views))
	for idx, v := range views {
		rows[idx] = [4]any{v.Q, v.R, v.Strength, v.Owner}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) handleBatches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.projector.BatchList())
}

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.store.GetPublicUsers(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *API) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("httpapi: ws upgrade: %v", err)
		return
	}
	a.hub.Register(ws)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("httpapi: writing response: %v", err)
	}
}

// writeStoreError maps a core error to an HTTP response by apperr.Kind:
// Unauthorized renders 401 with no server-side log line (a bad token is
// client behavior, not a server fault); TransientStore and InvalidBatch
// both render 500 and are logged, since neither is expected to happen in
// normal operation.
func writeStoreError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind == apperr.KindUnauthorized {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	log.Printf("httpapi: %v", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
