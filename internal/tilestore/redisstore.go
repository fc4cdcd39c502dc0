package tilestore

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/hexclash/server/internal/apperr"
	"github.com/hexclash/server/internal/hexgrid"
)

// RedisStore is the production Store backend, grounded on the client/
// pipeline usage shown by the pack's other redis-backed tile services
// (a held *redis.Client field, commands issued directly through it; see
// DESIGN.md). Tiles and users are hashes; the user id list is a Redis
// list; tokens live in their own string keys so ValidToken never has to
// load a whole user hash.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an already-configured *redis.Client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// EnsureIndex (re)creates the idx:tile RediSearch index (user_id TAG,
// damage NUMERIC) used by CountTilesByUser. If an index from a prior run
// exists it's dropped first. RediSearch has no typed Go client, so its
// module commands are issued through go-redis's generic Do, which is part
// of go-redis's own surface rather than a stdlib fallback.
func (s *RedisStore) EnsureIndex(ctx context.Context) error {
	_ = s.rdb.Do(ctx, "FT.DROPINDEX", tileIndexName).Err() // absent index is not an error here

	err := s.rdb.Do(ctx, "FT.CREATE", tileIndexName,
		"ON", "HASH",
		"PREFIX", "1", tileKeyPrefix,
		"SCHEMA",
		"user_id", "TAG",
		"damage", "NUMERIC",
	).Err()
	if err != nil {
		return apperr.Transient("tilestore.EnsureIndex", err)
	}
	return nil
}

func (s *RedisStore) GetTile(ctx context.Context, c hexgrid.Coord) (StoredTile, bool, error) {
	res, err := s.rdb.HGetAll(ctx, tileKey(c)).Result()
	if err != nil {
		return StoredTile{}, false, apperr.Transient("tilestore.GetTile", err)
	}
	if len(res) == 0 {
		return StoredTile{}, false, nil
	}
	return parseStoredTile(res)
}

func (s *RedisStore) SetTile(ctx context.Context, c hexgrid.Coord, t StoredTile) error {
	err := s.rdb.HSet(ctx, tileKey(c), "user_id", t.Owner, "damage", int(t.Damage)).Err()
	if err != nil {
		return apperr.Transient("tilestore.SetTile", err)
	}
	return nil
}

// BatchGetTiles is a pipelined round trip: one HGetAll per coordinate,
// sent together and read back together, equivalent to (and tested
// against) a left-fold of GetTile over cs.
func (s *RedisStore) BatchGetTiles(ctx context.Context, cs []hexgrid.Coord) (map[hexgrid.Coord]StoredTile, error) {
	if len(cs) == 0 {
		return map[hexgrid.Coord]StoredTile{}, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make(map[hexgrid.Coord]*redis.MapStringStringCmd, len(cs))
	for _, c := range cs {
		cmds[c] = pipe.HGetAll(ctx, tileKey(c))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, apperr.Transient("tilestore.BatchGetTiles", err)
	}

	out := make(map[hexgrid.Coord]StoredTile, len(cs))
	for c, cmd := range cmds {
		res, err := cmd.Result()
		if err != nil {
			return nil, apperr.Transient("tilestore.BatchGetTiles", err)
		}
		if len(res) == 0 {
			continue
		}
		t, _, err := parseStoredTile(res)
		if err != nil {
			return nil, err
		}
		out[c] = t
	}
	return out, nil
}

// CountTilesByUser queries the idx:tile secondary index rather than
// scanning every tile key.
func (s *RedisStore) CountTilesByUser(ctx context.Context, id string) (uint64, error) {
	res, err := s.rdb.Do(ctx, "FT.SEARCH", tileIndexName,
		"@user_id:{"+escapeTagValue(id)+"}", "LIMIT", "0", "0").Result()
	if err != nil {
		return 0, apperr.Transient("tilestore.CountTilesByUser", err)
	}
	return firstResultCount(res)
}

func (s *RedisStore) AddUser(ctx context.Context, u User) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, userKey(u.ID), "id", u.ID, "username", u.Username, "color", u.Color, "token", u.Token)
	pipe.RPush(ctx, userIDsListKey, u.ID)
	pipe.Set(ctx, tokenKey(u.ID), u.Token, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Transient("tilestore.AddUser", err)
	}
	return nil
}

func (s *RedisStore) GetPublicUsers(ctx context.Context) ([]PublicUser, error) {
	ids, err := s.rdb.LRange(ctx, userIDsListKey, 0, -1).Result()
	if err != nil {
		return nil, apperr.Transient("tilestore.GetPublicUsers", err)
	}

	out := make([]PublicUser, 0, len(ids))
	for _, id := range ids {
		res, err := s.rdb.HGetAll(ctx, userKey(id)).Result()
		if err != nil {
			return nil, apperr.Transient("tilestore.GetPublicUsers", err)
		}
		if len(res) == 0 {
			continue
		}
		score, err := s.CountTilesByUser(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, PublicUser{
			ID:       res["id"],
			Username: res["username"],
			Color:    res["color"],
			Score:    score,
		})
	}
	return out, nil
}

func (s *RedisStore) ValidToken(ctx context.Context, userID, token string) (bool, error) {
	stored, err := s.rdb.Get(ctx, tokenKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Transient("tilestore.ValidToken", err)
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1, nil
}

func (s *RedisStore) FlushDB(ctx context.Context) error {
	if err := s.rdb.FlushDB(ctx).Err(); err != nil {
		return apperr.Transient("tilestore.FlushDB", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)

func parseStoredTile(fields map[string]string) (StoredTile, bool, error) {
	owner := fields["user_id"]
	if owner == "" {
		return StoredTile{}, false, apperr.Transient("tilestore.parseStoredTile",
			errors.New("tile hash missing user_id field"))
	}
	damage, err := strconv.ParseUint(fields["damage"], 10, 8)
	if err != nil {
		return StoredTile{}, false, apperr.Transient("tilestore.parseStoredTile", err)
	}
	return StoredTile{Owner: owner, Damage: uint8(damage)}, true, nil
}

// escapeTagValue escapes characters RediSearch treats specially inside a
// TAG filter; user ids are base-62 so in practice this is a no-op, but the
// escaping is applied defensively rather than assumed.
func escapeTagValue(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch r {
		case '-', ' ', '{', '}', '|', ',':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// firstResultCount extracts the leading total-count integer from an
// FT.SEARCH reply (the reply's first element).
func firstResultCount(res interface{}) (uint64, error) {
	arr, ok := res.([]interface{})
	if !ok || len(arr) == 0 {
		return 0, apperr.Transient("tilestore.firstResultCount",
			errors.New("unexpected FT.SEARCH reply shape"))
	}
	switch v := arr[0].(type) {
	case int64:
		return uint64(v), nil
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, apperr.Transient("tilestore.firstResultCount", err)
		}
		return n, nil
	default:
		return 0, apperr.Transient("tilestore.firstResultCount",
			errors.New("unexpected FT.SEARCH count type"))
	}
}
