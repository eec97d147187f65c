package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// MaxTextRunes caps the text fed into both key derivation and synthesis.
// Changing the cap or the canonical string below invalidates every cached
// entry; treat it as a schema change.
const MaxTextRunes = 5000

// Truncate bounds text to MaxTextRunes code points. Truncating an already
// truncated string is a no-op, so the synthesis path and the invalidation
// reconstructor always agree on the text a fingerprint was derived from.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxTextRunes {
		return text
	}
	return string(runes[:MaxTextRunes])
}

// Fingerprint derives the cache key for a (text, voice) pair. Pure and
// total: no I/O, same inputs always yield the same hex digest.
func Fingerprint(text string, voice VoiceSpec) string {
	canonical := strings.Join([]string{
		Truncate(text),
		voice.StyleOrType(),
		voice.Language,
		voice.Description,
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
