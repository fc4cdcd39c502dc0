// Package userdir provides the pure parts of user creation — minting ids
// and tokens, deriving a display color from a username — that don't
// depend on the Tile Store. internal/httpapi calls NewUser then persists
// the result via tilestore.Store.AddUser.
package userdir

import (
	"hash/fnv"
	"math/big"

	"github.com/google/uuid"

	"github.com/hexclash/server/internal/tilestore"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// NewUser mints a fresh User for username: a random base-62 id, a random
// base-62 token (independently generated), and a color derived
// deterministically from username.
func NewUser(username string) (tilestore.User, error) {
	id, err := newOpaqueID()
	if err != nil {
		return tilestore.User{}, err
	}
	token, err := newOpaqueID()
	if err != nil {
		return tilestore.User{}, err
	}
	return tilestore.User{
		ID:       id,
		Username: username,
		Color:    DeriveColor(username),
		Token:    token,
	}, nil
}

// newOpaqueID generates an opaque base-62 identifier by base62-encoding
// the 16 random bytes of a v4 UUID, rather than using the UUID's own
// canonical hex-with-dashes form: a UUID's raw bytes are as good an
// entropy source as any other crypto/rand read, and base-62 keeps the
// result URL-safe without punctuation.
func newOpaqueID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	raw := id[:]
	return base62Encode(raw), nil
}

func base62Encode(b []byte) string {
	n := new(big.Int).SetBytes(b)
	if n.Sign() == 0 {
		return string(base62Alphabet[0])
	}
	base := big.NewInt(int64(len(base62Alphabet)))
	mod := new(big.Int)
	var out []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		out = append(out, base62Alphabet[mod.Int64()])
	}
	// reverse in place
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// DeriveColor deterministically maps a username to a "#rrggbb" color via
// an FNV-1a hash reduced to 24 bits, the same hash family used by
// internal/tilestore's sharded lock.
func DeriveColor(username string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	v := h.Sum32() & 0xffffff

	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 7)
	buf[0] = '#'
	for i := 5; i >= 0; i-- {
		buf[1+i] = hexDigits[v&0xf]
		v >>= 4
	}
	return string(buf)
}
