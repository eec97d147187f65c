package synth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestTranslateBackend_Synthesize(t *testing.T) {
	var gotLang, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("tl")
		gotText = r.URL.Query().Get("q")
		w.Write([]byte("fallback audio"))
	}))
	defer srv.Close()

	tempDir := t.TempDir()
	b := NewTranslateBackend(srv.URL, tempDir)

	audio, err := b.Synthesize(context.Background(), Request{
		Text:      "buenos días",
		Language:  "es",
		VoiceType: "feminine",
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "fallback audio" {
		t.Errorf("audio: got %q", audio)
	}
	if gotLang != "es" {
		t.Errorf("tl: got %q, want es", gotLang)
	}
	if gotText != "buenos días" {
		t.Errorf("q: got %q", gotText)
	}

	// The save/read cycle must clean up after itself.
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp files left behind: %d", len(entries))
	}
}

func TestTranslateBackend_CoercesUnsupportedLanguage(t *testing.T) {
	var gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("tl")
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	b := NewTranslateBackend(srv.URL, t.TempDir())
	if _, err := b.Synthesize(context.Background(), Request{Text: "hi", Language: "xx"}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotLang != translateDefaultLanguage {
		t.Errorf("tl: got %q, want coercion to %q", gotLang, translateDefaultLanguage)
	}
}

func TestTranslateBackend_LongTextChunked(t *testing.T) {
	var chunks []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunks = append(chunks, r.URL.Query().Get("q"))
		// Segment markers so concatenation order is observable.
		fmt.Fprintf(w, "[%d]", len(chunks))
	}))
	defer srv.Close()

	b := NewTranslateBackend(srv.URL, t.TempDir())

	text := strings.TrimSpace(strings.Repeat("palabra ", 70)) // ~560 runes
	audio, err := b.Synthesize(context.Background(), Request{Text: text, Language: "es"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if len(chunks) < 2 {
		t.Fatalf("requests: got %d, want the text split across several", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > translateChunkRunes {
			t.Errorf("chunk %d is %d runes, exceeds bound %d", i, n, translateChunkRunes)
		}
	}
	if got := strings.Join(chunks, " "); got != text {
		t.Errorf("reassembled chunks differ from input:\ngot  %q\nwant %q", got, text)
	}

	var want strings.Builder
	for i := range chunks {
		fmt.Fprintf(&want, "[%d]", i+1)
	}
	if string(audio) != want.String() {
		t.Errorf("audio segments out of order: got %q, want %q", audio, want.String())
	}
}

func TestSplitChunks(t *testing.T) {
	t.Run("short text is a single chunk", func(t *testing.T) {
		got := splitChunks("hola mundo", 200)
		if len(got) != 1 || got[0] != "hola mundo" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("cuts at whitespace", func(t *testing.T) {
		for _, c := range splitChunks("uno dos tres cuatro cinco seis", 10) {
			if strings.HasPrefix(c, " ") || strings.HasSuffix(c, " ") {
				t.Errorf("chunk %q has edge whitespace", c)
			}
			for _, w := range strings.Fields(c) {
				switch w {
				case "uno", "dos", "tres", "cuatro", "cinco", "seis":
				default:
					t.Errorf("word %q was split mid-word", w)
				}
			}
		}
	})

	t.Run("oversized word is hard-split", func(t *testing.T) {
		got := splitChunks(strings.Repeat("a", 25), 10)
		if len(got) != 3 {
			t.Fatalf("chunks: got %d, want 3", len(got))
		}
		if joined := strings.Join(got, ""); joined != strings.Repeat("a", 25) {
			t.Errorf("hard split lost runes: %q", joined)
		}
	})
}

func TestTranslateBackend_RemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := NewTranslateBackend(srv.URL, t.TempDir())
	if _, err := b.Synthesize(context.Background(), Request{Text: "hi", Language: "en"}); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
