package review

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateBytes_WithinLimit(t *testing.T) {
	inputs := []string{"", "short", "exactly10!", "héllo"}
	for _, in := range inputs {
		if got := TruncateBytes(in, 10); got != in {
			t.Errorf("TruncateBytes(%q, 10) = %q, want unchanged", in, got)
		}
	}
}

func TestTruncateBytes_OverLimit(t *testing.T) {
	in := strings.Repeat("a", 100)
	got := TruncateBytes(in, 10)
	if len(got) != 10 {
		t.Errorf("len = %d, want 10", len(got))
	}
	if got != in[:10] {
		t.Errorf("got %q, want prefix of input", got)
	}
}

func TestTruncateBytes_MultibyteBoundary(t *testing.T) {
	// "é" is 2 bytes; cutting at 2 lands mid-rune and the partial byte
	// must be dropped, not replaced.
	in := "aéé"
	tests := []struct {
		max  int
		want string
	}{
		{2, "a"},
		{3, "aé"},
		{4, "aé"},
		{5, "aéé"},
	}
	for _, tt := range tests {
		got := TruncateBytes(in, tt.max)
		if !utf8.ValidString(got) {
			t.Errorf("max %d: result %q is not valid UTF-8", tt.max, got)
		}
		if got != tt.want {
			t.Errorf("max %d: got %q, want %q", tt.max, got, tt.want)
		}
	}
}

func TestTruncateBytes_FourByteRune(t *testing.T) {
	in := "ab\U0001F600" // emoji is 4 bytes
	for cut := 3; cut < 6; cut++ {
		got := TruncateBytes(in, cut)
		if got != "ab" {
			t.Errorf("cut at %d: got %q, want %q", cut, got, "ab")
		}
	}
}

func TestTruncateBytes_Disabled(t *testing.T) {
	in := strings.Repeat("x", 50)
	if got := TruncateBytes(in, 0); got != in {
		t.Error("maxBytes <= 0 should disable truncation")
	}
}
