package tilestore

import (
	"context"
	"sync"

	"github.com/hexclash/server/internal/hexgrid"
)

// MemStore is an in-memory Store, used by tests in place of Redis: a
// single RWMutex guarding a
// handful of plain maps, since an in-memory store has no I/O latency to
// hide behind sharding.
type MemStore struct {
	mu      sync.RWMutex
	tiles   map[hexgrid.Coord]StoredTile
	users   map[string]User
	userIDs []string
	tokens  map[string]string // userID -> token, mirrors the token:{user_id} key
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		tiles:  make(map[hexgrid.Coord]StoredTile),
		users:  make(map[string]User),
		tokens: make(map[string]string),
	}
}

func (m *MemStore) GetTile(_ context.Context, c hexgrid.Coord) (StoredTile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tiles[c]
	return t, ok, nil
}

func (m *MemStore) SetTile(_ context.Context, c hexgrid.Coord, t StoredTile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiles[c] = t
	return nil
}

func (m *MemStore) BatchGetTiles(_ context.Context, cs []hexgrid.Coord) (map[hexgrid.Coord]StoredTile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[hexgrid.Coord]StoredTile, len(cs))
	for _, c := range cs {
		if t, ok := m.tiles[c]; ok {
			out[c] = t
		}
	}
	return out, nil
}

func (m *MemStore) CountTilesByUser(_ context.Context, id string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n uint64
	for _, t := range m.tiles {
		if t.Owner == id {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) AddUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.ID]; !exists {
		m.userIDs = append(m.userIDs, u.ID)
	}
	m.users[u.ID] = u
	m.tokens[u.ID] = u.Token
	return nil
}

func (m *MemStore) GetPublicUsers(ctx context.Context) ([]PublicUser, error) {
	m.mu.RLock()
	ids := make([]string, len(m.userIDs))
	copy(ids, m.userIDs)
	users := make(map[string]User, len(m.users))
	for k, v := range m.users {
		users[k] = v
	}
	m.mu.RUnlock()

	out := make([]PublicUser, 0, len(ids))
	for _, id := range ids {
		u := users[id]
		score, err := m.CountTilesByUser(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, PublicUser{ID: u.ID, Username: u.Username, Color: u.Color, Score: score})
	}
	return out, nil
}

func (m *MemStore) ValidToken(_ context.Context, userID, token string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	want, ok := m.tokens[userID]
	return ok && want == token, nil
}

func (m *MemStore) FlushDB(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiles = make(map[hexgrid.Coord]StoredTile)
	m.users = make(map[string]User)
	m.userIDs = nil
	m.tokens = make(map[string]string)
	return nil
}

var _ Store = (*MemStore)(nil)
