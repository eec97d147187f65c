package synth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode"
)

const translateDefaultBaseURL = "https://translate.google.com/translate_tts"

// translateChunkRunes bounds each request's q parameter. The endpoint
// rejects long URLs, so text past the bound is split at whitespace and
// the MP3 segments are concatenated in request order.
const translateChunkRunes = 200

// translateLanguages is the fixed allow-list of 2-letter codes the fallback
// endpoint accepts. Anything else is coerced to the default language before
// invocation.
var translateLanguages = map[string]bool{
	"es": true, "en": true, "fr": true, "de": true, "it": true,
	"pt": true, "nl": true, "pl": true, "ja": true, "ko": true,
}

const translateDefaultLanguage = "es"

// TranslateBackend is the universal fallback synthesizer. It needs no
// credentials, only text and a 2-letter language code, and works through a
// save/read cycle in a designated temporary directory: the response body is
// written to a temp file, read back, and removed.
type TranslateBackend struct {
	baseURL    string
	tempDir    string
	httpClient *http.Client
}

// NewTranslateBackend builds the fallback backend. baseURL and tempDir are
// optional; they default to the public endpoint and the system temp dir.
func NewTranslateBackend(baseURL, tempDir string) *TranslateBackend {
	if baseURL == "" {
		baseURL = translateDefaultBaseURL
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &TranslateBackend{
		baseURL:    baseURL,
		tempDir:    tempDir,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (t *TranslateBackend) Name() string { return "translate-tts" }

func (t *TranslateBackend) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	lang := req.Language
	if !translateLanguages[lang] {
		lang = translateDefaultLanguage
	}

	var audio []byte
	for _, chunk := range splitChunks(req.Text, translateChunkRunes) {
		segment, err := t.fetch(ctx, lang, chunk)
		if err != nil {
			return nil, err
		}
		audio = append(audio, segment...)
	}
	return audio, nil
}

func (t *TranslateBackend) fetch(ctx context.Context, lang, text string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fallback synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fallback synthesis failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	return t.saveAndRead(resp.Body)
}

// saveAndRead spools the response through a delete-after-use temp file.
func (t *TranslateBackend) saveAndRead(body io.Reader) ([]byte, error) {
	tmp, err := os.CreateTemp(t.tempDir, "speech-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("create temp audio file: %w", err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	_, copyErr := io.Copy(tmp, body)
	closeErr := tmp.Close()
	if copyErr != nil {
		return nil, fmt.Errorf("save audio: %w", copyErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("save audio: %w", closeErr)
	}

	audio, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read saved audio: %w", err)
	}
	return audio, nil
}

// splitChunks breaks text into pieces of at most maxRunes code points,
// cutting at the last whitespace inside the window. A single word longer
// than the window is hard-split.
func splitChunks(text string, maxRunes int) []string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxRunes {
		cut := maxRunes
		for i := maxRunes; i > 0; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}
		if chunk := strings.TrimSpace(string(runes[:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = runes[cut:]
		for len(runes) > 0 && unicode.IsSpace(runes[0]) {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
