package wire

import (
	"testing"
)

// TestTokenOrdering pins the wire token values. The numbering is part of
// the protocol contract; changing it breaks every deployed controller.
func TestTokenOrdering(t *testing.T) {
	want := []struct {
		token Token
		value uint8
		name  string
	}{
		{TokenNewMatrix, 0, "new-matrix"},
		{TokenNewVector, 1, "new-vector"},
		{TokenAddVectorEntries, 2, "add-vector-entries"},
		{TokenGetVector, 3, "get-vector"},
		{TokenNewMap, 4, "new-map"},
		{TokenNewGraph, 5, "new-graph"},
	}

	if int(NumTokens) != len(want) {
		t.Fatalf("NumTokens = %d, want %d", NumTokens, len(want))
	}

	for _, tt := range want {
		if uint8(tt.token) != tt.value {
			t.Errorf("%s has value %d, want %d", tt.name, uint8(tt.token), tt.value)
		}
		if tt.token.String() != tt.name {
			t.Errorf("token %d String() = %q, want %q", tt.value, tt.token.String(), tt.name)
		}
		if !tt.token.Valid() {
			t.Errorf("token %s should be valid", tt.name)
		}
	}
}

// TestTokenTermination verifies that every value at or above NumTokens is
// treated as a termination signal.
func TestTokenTermination(t *testing.T) {
	for _, v := range []uint8{uint8(NumTokens), uint8(NumTokens) + 1, 255} {
		tok := Token(v)
		if tok.Valid() {
			t.Errorf("Token(%d) should not be valid", v)
		}
	}
}

// TestTokenByName verifies the reverse lookup used by tooling.
func TestTokenByName(t *testing.T) {
	for i, name := range TokenNames() {
		tok, ok := TokenByName(name)
		if !ok {
			t.Fatalf("TokenByName(%q) not found", name)
		}
		if tok != Token(i) {
			t.Errorf("TokenByName(%q) = %d, want %d", name, tok, i)
		}
	}

	if _, ok := TokenByName("no-such-command"); ok {
		t.Error("Expected lookup miss for unknown name")
	}
}
