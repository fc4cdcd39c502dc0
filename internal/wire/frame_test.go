package wire

import "testing"

func TestTileChangeRoundTrips(t *testing.T) {
	want := TileChange{Q: -42, R: 17, Strength: 9, Owner: "u-abc123"}
	got, err := DecodeTileChange(EncodeTileChange(want))
	if err != nil {
		t.Fatalf("DecodeTileChange: %v", err)
	}
	if got != want {
		t.Errorf("round-trip = %+v, want %+v", got, want)
	}
}

func TestNewUserRoundTrips(t *testing.T) {
	want := NewUser{ID: "u-1", Name: "alice", Color: "#1a2b3c"}
	got, err := DecodeNewUser(EncodeNewUser(want))
	if err != nil {
		t.Fatalf("DecodeNewUser: %v", err)
	}
	if got != want {
		t.Errorf("round-trip = %+v, want %+v", got, want)
	}
}

func TestScoreChangeRoundTrips(t *testing.T) {
	want := ScoreChange{Owner: "u-1", Score: 123456}
	got, err := DecodeScoreChange(EncodeScoreChange(want))
	if err != nil {
		t.Fatalf("DecodeScoreChange: %v", err)
	}
	if got != want {
		t.Errorf("round-trip = %+v, want %+v", got, want)
	}
}

func TestDecodeDispatchesOnTag(t *testing.T) {
	frame := EncodeScoreChange(ScoreChange{Owner: "u-2", Score: 7})
	got, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sc, ok := got.(ScoreChange)
	if !ok || sc.Owner != "u-2" || sc.Score != 7 {
		t.Errorf("Decode = %+v (%T), want ScoreChange{u-2,7}", got, got)
	}
}

func TestDecodeTruncatedFrameIsError(t *testing.T) {
	full := EncodeTileChange(TileChange{Q: 1, R: 2, Strength: 3, Owner: "xyz"})
	for n := 0; n < len(full); n++ {
		if _, err := Decode(full[:n]); err == nil {
			t.Errorf("Decode(%d of %d bytes) = nil error, want truncation error", n, len(full))
		}
	}
}

func TestDecodeUnknownTagIsError(t *testing.T) {
	if _, err := Decode([]byte{0xff, 0x00}); err == nil {
		t.Error("Decode(unknown tag) = nil error, want one")
	}
}
