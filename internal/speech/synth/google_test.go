package synth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type googleCall struct {
	VoiceName    string
	LanguageCode string
	Text         string
	SpeakingRate float64
	Pitch        float64
	VolumeGainDb float64
}

// newGoogleTestServer decodes each synthesize request and delegates the
// response to respond.
func newGoogleTestServer(t *testing.T, calls *[]googleCall, respond func(call googleCall, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Input struct {
				Text string `json:"text"`
			} `json:"input"`
			Voice struct {
				LanguageCode string `json:"languageCode"`
				Name         string `json:"name"`
			} `json:"voice"`
			AudioConfig struct {
				SpeakingRate float64 `json:"speakingRate"`
				Pitch        float64 `json:"pitch"`
				VolumeGainDb float64 `json:"volumeGainDb"`
			} `json:"audioConfig"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode synthesize request: %v", err)
		}
		call := googleCall{
			VoiceName:    body.Voice.Name,
			LanguageCode: body.Voice.LanguageCode,
			Text:         body.Input.Text,
			SpeakingRate: body.AudioConfig.SpeakingRate,
			Pitch:        body.AudioConfig.Pitch,
			VolumeGainDb: body.AudioConfig.VolumeGainDb,
		}
		*calls = append(*calls, call)
		respond(call, w)
	}))
}

func writeAudio(w http.ResponseWriter, audio string) {
	json.NewEncoder(w).Encode(map[string]string{
		"audioContent": base64.StdEncoding.EncodeToString([]byte(audio)),
	})
}

func newTestGoogleBackend(t *testing.T, baseURL string) *GoogleBackend {
	t.Helper()
	b, err := NewGoogleBackend(context.Background(), GoogleConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
	})
	if err != nil {
		t.Fatalf("NewGoogleBackend: %v", err)
	}
	return b
}

func TestGoogleBackend_Synthesize(t *testing.T) {
	var calls []googleCall
	srv := newGoogleTestServer(t, &calls, func(_ googleCall, w http.ResponseWriter) {
		writeAudio(w, "cloud audio")
	})
	defer srv.Close()

	b := newTestGoogleBackend(t, srv.URL)
	audio, err := b.Synthesize(context.Background(), Request{
		Text:      "hola mundo",
		Language:  "es",
		VoiceType: "feminine",
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "cloud audio" {
		t.Errorf("audio: got %q", audio)
	}

	if len(calls) != 1 {
		t.Fatalf("calls: got %d, want 1", len(calls))
	}
	if calls[0].LanguageCode != "es-ES" {
		t.Errorf("languageCode: got %q, want es-ES", calls[0].LanguageCode)
	}
	if calls[0].VoiceName != "es-ES-Neural2-A" {
		t.Errorf("voice: got %q, want the enhanced feminine voice", calls[0].VoiceName)
	}
	if calls[0].SpeakingRate != 1.0 || calls[0].Pitch != 0.0 || calls[0].VolumeGainDb != 0.0 {
		t.Errorf("neutral baseline expected without style, got %+v", calls[0])
	}
}

func TestGoogleBackend_ProjectIDSentAsQuotaProject(t *testing.T) {
	var gotProject string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotProject = r.Header.Get("X-Goog-User-Project")
		writeAudio(w, "ok")
	}))
	defer srv.Close()

	b, err := NewGoogleBackend(context.Background(), GoogleConfig{
		APIKey:    "test-key",
		ProjectID: "repaso-prod",
		BaseURL:   srv.URL,
	})
	if err != nil {
		t.Fatalf("NewGoogleBackend: %v", err)
	}

	if _, err := b.Synthesize(context.Background(), Request{
		Text:      "hola",
		Language:  "es",
		VoiceType: "feminine",
	}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotProject != "repaso-prod" {
		t.Errorf("X-Goog-User-Project: got %q, want repaso-prod", gotProject)
	}
}

func TestGoogleBackend_UnsupportedVoiceRetriesStandard(t *testing.T) {
	var calls []googleCall
	srv := newGoogleTestServer(t, &calls, func(call googleCall, w http.ResponseWriter) {
		if len(calls) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"voice 'en-US-Neural2-D' does not exist"}}`))
			return
		}
		writeAudio(w, "standard audio")
	})
	defer srv.Close()

	b := newTestGoogleBackend(t, srv.URL)
	audio, err := b.Synthesize(context.Background(), Request{
		Text:      "hello",
		Language:  "en",
		VoiceType: "masculine",
	})
	if err != nil {
		t.Fatalf("Synthesize should recover via standard voice, got %v", err)
	}
	if string(audio) != "standard audio" {
		t.Errorf("audio: got %q", audio)
	}

	if len(calls) != 2 {
		t.Fatalf("calls: got %d, want enhanced attempt + standard retry", len(calls))
	}
	if calls[0].VoiceName != "en-US-Neural2-D" {
		t.Errorf("first attempt voice: got %q", calls[0].VoiceName)
	}
	if calls[1].VoiceName != "en-US-Standard-D" {
		t.Errorf("retry voice: got %q, want the standard masculine voice", calls[1].VoiceName)
	}
}

func TestGoogleBackend_TransientFailureIsNotRetried(t *testing.T) {
	var calls []googleCall
	srv := newGoogleTestServer(t, &calls, func(_ googleCall, w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})
	defer srv.Close()

	b := newTestGoogleBackend(t, srv.URL)
	_, err := b.Synthesize(context.Background(), Request{
		Text:      "hola",
		Language:  "es",
		VoiceType: "feminine",
	})
	if err == nil {
		t.Fatal("expected failure")
	}
	if errors.Is(err, ErrUnsupportedVoice) {
		t.Error("quota failure misclassified as unsupported voice")
	}
	if len(calls) != 1 {
		t.Errorf("calls: got %d, want 1 (no intra-backend retry for transient errors)", len(calls))
	}
}

func TestGoogleBackend_StyleParameters(t *testing.T) {
	tests := []struct {
		style string
		rate  float64
		pitch float64
		gain  float64
		voice string
	}{
		{"podcast", 1.15, 2.0, 2.0, "es-ES-Neural2-F"},
		{"bedtime-story", 0.85, -2.0, -2.0, "es-ES-Neural2-E"},
		{"professorial", 1.0, 1.0, 1.5, "es-ES-Neural2-C"},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			var calls []googleCall
			srv := newGoogleTestServer(t, &calls, func(_ googleCall, w http.ResponseWriter) {
				writeAudio(w, "ok")
			})
			defer srv.Close()

			b := newTestGoogleBackend(t, srv.URL)
			_, err := b.Synthesize(context.Background(), Request{
				Text:      "hola",
				Language:  "es",
				VoiceType: "feminine",
				Style:     tt.style,
			})
			if err != nil {
				t.Fatalf("Synthesize: %v", err)
			}

			call := calls[0]
			if call.VoiceName != tt.voice {
				t.Errorf("voice: got %q, want %q (style wins over type)", call.VoiceName, tt.voice)
			}
			if call.SpeakingRate != tt.rate || call.Pitch != tt.pitch || call.VolumeGainDb != tt.gain {
				t.Errorf("params: got rate=%v pitch=%v gain=%v, want %v/%v/%v",
					call.SpeakingRate, call.Pitch, call.VolumeGainDb, tt.rate, tt.pitch, tt.gain)
			}
		})
	}
}

func TestGoogleBackend_UnknownStyleFallsBackToDefaultVoice(t *testing.T) {
	var calls []googleCall
	srv := newGoogleTestServer(t, &calls, func(_ googleCall, w http.ResponseWriter) {
		writeAudio(w, "ok")
	})
	defer srv.Close()

	b := newTestGoogleBackend(t, srv.URL)
	_, err := b.Synthesize(context.Background(), Request{
		Text:      "hola",
		Language:  "es",
		VoiceType: "feminine",
		Style:     "whispering", // not in the voice map
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if calls[0].VoiceName != "es-ES-Neural2-A" {
		t.Errorf("voice: got %q, want the language default", calls[0].VoiceName)
	}
}
