// Package synth holds the synthesis backends and the ordered chain that
// tries them. Backends receive already-truncated text and must never
// truncate it themselves, or cached audio would diverge from its
// fingerprint.
package synth

import "context"

// Request carries everything a backend needs for one synthesis attempt.
// VoiceType and Language are always populated; Style and Description are
// optional pass-throughs from the resolved voice spec.
type Request struct {
	Text        string
	Language    string // primary subtag, e.g. "es"
	VoiceType   string // "feminine" or "masculine"
	Style       string // optional: professorial, podcast, bedtime-story
	Description string
}

// styleOrType mirrors the voice resolver's selection rule: style wins when
// present, type otherwise.
func (r Request) styleOrType() string {
	if r.Style != "" {
		return r.Style
	}
	return r.VoiceType
}

// Result is one successful synthesis. Backend identifies which backend
// produced the audio and is used for observability only; it is never
// persisted next to the bytes.
type Result struct {
	Audio   []byte
	Backend string
}

// Backend is one concrete synthesis implementation in the chain.
type Backend interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
	Name() string
}
