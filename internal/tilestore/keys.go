package tilestore

import (
	"strconv"

	"github.com/hexclash/server/internal/hexgrid"
)

// Key prefixes for the Redis layout. External tools (the frontend's debug
// console, ad-hoc redis-cli inspection) depend on these exact names, so
// they're centralized here rather than inlined at each call site.
const (
	tileKeyPrefix  = "tile:"
	userKeyPrefix  = "user:"
	tokenKeyPrefix = "token:"
	userIDsListKey = "user_ids"
	tileIndexName  = "idx:tile"
)

// asRedisKey renders an axial coordinate as the stable string used in
// tile:{q_r} keys.
func asRedisKey(c hexgrid.Coord) string {
	return strconv.Itoa(c.Q) + "_" + strconv.Itoa(c.R)
}

func tileKey(c hexgrid.Coord) string {
	return tileKeyPrefix + asRedisKey(c)
}

func userKey(id string) string {
	return userKeyPrefix + id
}

func tokenKey(userID string) string {
	return tokenKeyPrefix + userID
}
