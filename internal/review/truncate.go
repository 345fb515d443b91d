package review

import "unicode/utf8"

// TruncateBytes trims s to at most maxBytes bytes. Inputs within the limit
// are returned unchanged. The cut is byte-exact, so it may land inside a
// multi-byte UTF-8 sequence; any incomplete trailing sequence is dropped
// rather than replaced, keeping the result valid UTF-8. maxBytes <= 0
// disables truncation.
func TruncateBytes(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) <= maxBytes {
		return s
	}
	cut := s[:maxBytes]
	// Walk back past any partial rune left at the cut point. A UTF-8
	// sequence is at most 4 bytes, so this inspects at most 3 bytes.
	for i := 0; i < utf8.UTFMax-1 && len(cut) > 0; i++ {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size != 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
