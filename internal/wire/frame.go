// Package wire implements the three binary frame types pushed to
// spectators over the WebSocket hub: a tile's ownership/strength
// changing, a user joining, and a user's score changing. Every frame is
// little-endian with a one-byte type tag first.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame type tags.
const (
	TagTileChange  byte = 0x01
	TagNewUser     byte = 0x02
	TagScoreChange byte = 0x03
)

// ErrTruncated is returned when a buffer ends before a declared
// length-prefixed field is fully present.
var ErrTruncated = errors.New("wire: truncated frame")

// TileChange is frame 0x01: i32 q, i32 r, u8 strength, u8 owner_len,
// bytes owner.
type TileChange struct {
	Q        int32
	R        int32
	Strength uint8
	Owner    string
}

// EncodeTileChange serializes t into a 0x01 frame.
func EncodeTileChange(t TileChange) []byte {
	owner := []byte(t.Owner)
	buf := make([]byte, 0, 1+4+4+1+1+len(owner))
	buf = append(buf, TagTileChange)
	buf = appendInt32(buf, t.Q)
	buf = appendInt32(buf, t.R)
	buf = append(buf, t.Strength, uint8(len(owner)))
	buf = append(buf, owner...)
	return buf
}

// DecodeTileChange parses a 0x01 frame. Decode passes the whole frame,
// tag byte included; a leading 0x01 byte is stripped before the fields
// are read.
func DecodeTileChange(b []byte) (TileChange, error) {
	b = stripTag(b, TagTileChange)
	if len(b) < 4+4+1+1 {
		return TileChange{}, ErrTruncated
	}
	q := readInt32(b[0:4])
	r := readInt32(b[4:8])
	strength := b[8]
	ownerLen := int(b[9])
	rest := b[10:]
	if len(rest) < ownerLen {
		return TileChange{}, ErrTruncated
	}
	return TileChange{Q: q, R: r, Strength: strength, Owner: string(rest[:ownerLen])}, nil
}

// NewUser is frame 0x02: u8 id_len, bytes id, u8 name_len, bytes name,
// u8 color_len, bytes color.
type NewUser struct {
	ID    string
	Name  string
	Color string
}

// EncodeNewUser serializes u into a 0x02 frame.
func EncodeNewUser(u NewUser) []byte {
	id, name, color := []byte(u.ID), []byte(u.Name), []byte(u.Color)
	buf := make([]byte, 0, 1+3+len(id)+len(name)+len(color))
	buf = append(buf, TagNewUser)
	buf = append(buf, uint8(len(id)))
	buf = append(buf, id...)
	buf = append(buf, uint8(len(name)))
	buf = append(buf, name...)
	buf = append(buf, uint8(len(color)))
	buf = append(buf, color...)
	return buf
}

// DecodeNewUser parses a 0x02 frame body.
func DecodeNewUser(b []byte) (NewUser, error) {
	b = stripTag(b, TagNewUser)
	id, b, err := readLenPrefixed(b)
	if err != nil {
		return NewUser{}, err
	}
	name, b, err := readLenPrefixed(b)
	if err != nil {
		return NewUser{}, err
	}
	color, _, err := readLenPrefixed(b)
	if err != nil {
		return NewUser{}, err
	}
	return NewUser{ID: string(id), Name: string(name), Color: string(color)}, nil
}

// ScoreChange is frame 0x03: u8 owner_len, bytes owner, u32 score.
type ScoreChange struct {
	Owner string
	Score uint32
}

// EncodeScoreChange serializes s into a 0x03 frame.
func EncodeScoreChange(s ScoreChange) []byte {
	owner := []byte(s.Owner)
	buf := make([]byte, 0, 1+1+len(owner)+4)
	buf = append(buf, TagScoreChange)
	buf = append(buf, uint8(len(owner)))
	buf = append(buf, owner...)
	buf = appendUint32(buf, s.Score)
	return buf
}

// DecodeScoreChange parses a 0x03 frame body.
func DecodeScoreChange(b []byte) (ScoreChange, error) {
	b = stripTag(b, TagScoreChange)
	owner, rest, err := readLenPrefixed(b)
	if err != nil {
		return ScoreChange{}, err
	}
	if len(rest) < 4 {
		return ScoreChange{}, ErrTruncated
	}
	return ScoreChange{Owner: string(owner), Score: binary.LittleEndian.Uint32(rest[:4])}, nil
}

// Decode dispatches on the first byte of b and returns the decoded frame
// as one of TileChange, NewUser, or ScoreChange.
func Decode(b []byte) (any, error) {
	if len(b) == 0 {
		return nil, ErrTruncated
	}
	switch b[0] {
	case TagTileChange:
		return DecodeTileChange(b)
	case TagNewUser:
		return DecodeNewUser(b)
	case TagScoreChange:
		return DecodeScoreChange(b)
	default:
		return nil, fmt.Errorf("wire: unknown frame tag 0x%02x", b[0])
	}
}

func stripTag(b []byte, tag byte) []byte {
	if len(b) > 0 && b[0] == tag {
		return b[1:]
	}
	return b
}

func readLenPrefixed(b []byte) (field []byte, rest []byte, err error) {
	if len(b) < 1 {
		return nil, nil, ErrTruncated
	}
	n := int(b[0])
	b = b[1:]
	if len(b) < n {
		return nil, nil, ErrTruncated
	}
	return b[:n], b[n:], nil
}

func appendInt32(buf []byte, v int32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func readInt32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}
