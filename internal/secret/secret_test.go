package secret

import "testing"

func TestMustNewToken(t *testing.T) {
	raw, hash := MustNewToken(32)
	if len(raw) != 43 {
		t.Errorf("len(raw) = %d, want 43", len(raw))
	}
	if hash != Hash(raw) {
		t.Errorf("hash = %q, want Hash(raw) = %q", hash, Hash(raw))
	}
	other, _ := MustNewToken(32)
	if other == raw {
		t.Error("two generated tokens are equal")
	}
}

func TestHash(t *testing.T) {
	// echo -n "token" | sha256sum
	want := "3c469e9d6c5875d37a43f353d4f88e61fcf812c66eee3457465a40b0da4153e0"
	if got := Hash("token"); got != want {
		t.Errorf("Hash() = %q, want %q", got, want)
	}
}
