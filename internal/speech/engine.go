// Package speech implements the speech-synthesis cache engine: it resolves
// voice requests into canonical specs, derives content-addressable cache
// keys, serves cached audio, routes misses through the synthesis provider
// chain, and reconstructs candidate keys when a document's audio must be
// invalidated.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/repaso-app/repaso-backend/internal/speech/store"
	"github.com/repaso-app/repaso-backend/internal/speech/synth"
)

var (
	// ErrEmptyText is a validation failure; no provider is attempted.
	ErrEmptyText = errors.New("text is required")

	// ErrSynthesisFailed means no backend in the chain could produce audio.
	// Operator response: check provider status and credentials.
	ErrSynthesisFailed = errors.New("no synthesis backend could produce audio")

	// ErrStore means the audio store could not persist or retrieve bytes.
	// Operator response: check disk space and permissions.
	ErrStore = errors.New("audio store failure")
)

// Synthesizer is the chain capability the engine depends on; *synth.Chain
// satisfies it and tests substitute counting fakes.
type Synthesizer interface {
	Synthesize(ctx context.Context, req synth.Request) (*synth.Result, error)
}

// SynthesizeRequest carries the raw inbound fields before resolution. Any
// of the voice fields may be empty.
type SynthesizeRequest struct {
	Text        string `json:"text"`
	VoiceType   string `json:"voice_type,omitempty"`
	Style       string `json:"style,omitempty"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
}

// Engine ties the resolver, key deriver, store and provider chain together.
// It holds no per-fingerprint locks: two concurrent misses for the same
// fingerprint may both synthesize, and the store's atomic write guarantees
// readers never see a torn entry.
type Engine struct {
	store store.Store
	chain Synthesizer
}

func NewEngine(st store.Store, chain Synthesizer) *Engine {
	return &Engine{store: st, chain: chain}
}

// Synthesize returns audio for the given text and voice, serving from the
// cache when possible. A newly synthesized entry is servable immediately
// after the call returns.
func (e *Engine) Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error) {
	if req.Text == "" {
		return nil, ErrEmptyText
	}

	voice := ResolveVoice(req.VoiceType, req.Style, req.Description, req.Language)
	text := Truncate(req.Text)
	fp := Fingerprint(text, voice)

	audio, err := e.store.Read(fp)
	if err == nil {
		slog.Debug("serving cached audio", "fingerprint", fp, "bytes", len(audio))
		return audio, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStore, fp, err)
	}

	result, err := e.chain.Synthesize(ctx, synth.Request{
		Text:        text,
		Language:    voice.Language,
		VoiceType:   string(voice.Type),
		Style:       string(voice.Style),
		Description: voice.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	if err := e.store.Write(fp, result.Audio); err != nil {
		return nil, fmt.Errorf("%w: write %s: %v", ErrStore, fp, err)
	}

	slog.Info("synthesized and cached audio",
		"backend", result.Backend,
		"fingerprint", fp,
		"language", voice.Language,
		"voice", voice.StyleOrType(),
		"bytes", len(result.Audio),
	)
	return result.Audio, nil
}

// InvalidateForDocument removes every cached entry that could have been
// produced for the document's text. No forward index from document to
// fingerprint exists, so the candidate set is reconstructed from first
// principles: the cross-product of supported voice types and languages.
// Style variants are not enumerated, so entries synthesized under a style
// survive; this is a bounded best-effort reconciliation, and zero removals
// is a valid outcome.
func (e *Engine) InvalidateForDocument(ctx context.Context, documentText string) (int, error) {
	text := Truncate(documentText)

	removed := 0
	for _, language := range SupportedLanguages {
		for _, voiceType := range VoiceTypes {
			if err := ctx.Err(); err != nil {
				return removed, err
			}

			fp := Fingerprint(text, VoiceSpec{Type: voiceType, Language: language})
			if !e.store.Exists(fp) {
				continue
			}
			if err := e.store.Delete(fp); err != nil {
				return removed, fmt.Errorf("%w: delete %s: %v", ErrStore, fp, err)
			}
			removed++
		}
	}

	slog.Info("invalidated cached audio", "removed", removed)
	return removed, nil
}
