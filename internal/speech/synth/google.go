package synth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleDefaultBaseURL = "https://texttospeech.googleapis.com/v1"
	googleScope          = "https://www.googleapis.com/auth/cloud-platform"
)

// GoogleConfig holds configuration for the cloud synthesis backend.
// Credentials are resolved in order: explicit API key, service-account
// file, then application default credentials. ProjectID is not a
// credential by itself; when set it is sent as the quota/billing project
// on every request, which matters under ADC where the discovered
// credentials may belong to a different project.
type GoogleConfig struct {
	APIKey          string
	CredentialsFile string
	ProjectID       string
	BaseURL         string // default: "https://texttospeech.googleapis.com/v1"
}

// GoogleBackend synthesizes speech through the cloud text-to-speech REST
// API using enhanced voice models, retrying once on a standard voice when
// the remote service rejects the enhanced one.
type GoogleBackend struct {
	cfg         GoogleConfig
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
}

// NewGoogleBackend resolves credentials and returns the backend. An error
// here means the cloud backend is unavailable; callers treat that as
// "skip this backend", not as a request failure.
func NewGoogleBackend(ctx context.Context, cfg GoogleConfig) (*GoogleBackend, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = googleDefaultBaseURL
	}

	b := &GoogleBackend{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}

	if cfg.APIKey != "" {
		return b, nil
	}

	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, googleScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account credentials: %w", err)
		}
		b.tokenSource = creds.TokenSource
		return b, nil
	}

	creds, err := google.FindDefaultCredentials(ctx, googleScope)
	if err != nil {
		return nil, fmt.Errorf("discover default credentials: %w", err)
	}
	b.tokenSource = creds.TokenSource
	return b, nil
}

func (g *GoogleBackend) Name() string { return "google-tts" }

// Synthesize attempts the enhanced voice for the resolved language and
// style-or-type. If the remote service rejects that specific voice, it
// retries exactly once with the documented standard voice for the same
// language and type; any other failure surfaces to the chain.
func (g *GoogleBackend) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	voice := googleEnhancedVoice(req.Language, req.styleOrType())

	audio, err := g.call(ctx, req, voice)
	if err == nil {
		return audio, nil
	}
	if !errors.Is(err, ErrUnsupportedVoice) {
		return nil, err
	}

	standard := googleStandardVoice(req.Language, req.VoiceType)
	slog.Warn("enhanced voice rejected, retrying with standard voice",
		"enhanced", voice,
		"standard", standard,
		"language", req.Language,
	)
	return g.call(ctx, req, standard)
}

func (g *GoogleBackend) call(ctx context.Context, req Request, voiceName string) ([]byte, error) {
	rate, pitch, gain := styleAudioParams(req.Style)

	body := map[string]any{
		"input": map[string]any{"text": req.Text},
		"voice": map[string]any{
			"languageCode": googleRegionCode(req.Language),
			"name":         voiceName,
		},
		"audioConfig": map[string]any{
			"audioEncoding": "MP3",
			"speakingRate":  rate,
			"pitch":         pitch,
			"volumeGainDb":  gain,
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := g.cfg.BaseURL + "/text:synthesize"
	if g.cfg.APIKey != "" {
		url += "?key=" + g.cfg.APIKey
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.cfg.ProjectID != "" {
		httpReq.Header.Set("X-Goog-User-Project", g.cfg.ProjectID)
	}

	if g.tokenSource != nil {
		token, err := g.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("fetch access token: %w", err)
		}
		token.SetAuthHeader(httpReq)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cloud synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(respBody))
		if isUnsupportedVoiceResponse(resp.StatusCode, msg) {
			return nil, fmt.Errorf("%w: %s: %s", ErrUnsupportedVoice, voiceName, msg)
		}
		return nil, fmt.Errorf("cloud synthesis failed (status %d): %s", resp.StatusCode, msg)
	}

	var out struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(out.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return audio, nil
}

// isUnsupportedVoiceResponse distinguishes "this voice/model does not
// exist" rejections from transient failures. Only the former is locally
// recoverable via the standard-voice retry.
func isUnsupportedVoiceResponse(status int, body string) bool {
	if status != http.StatusBadRequest && status != http.StatusNotFound {
		return false
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "voice") || strings.Contains(lower, "model")
}

// styleAudioParams maps a style onto speaking rate, pitch and volume gain
// deltas around the neutral baseline (1.0 / 0.0 / 0.0). The exact numbers
// are tunable policy; what matters is that they are deterministic per style.
func styleAudioParams(style string) (rate, pitch, gain float64) {
	switch style {
	case "podcast":
		return 1.15, 2.0, 2.0
	case "bedtime-story":
		return 0.85, -2.0, -2.0
	case "professorial":
		return 1.0, 1.0, 1.5
	default:
		return 1.0, 0.0, 0.0
	}
}

var googleRegionCodes = map[string]string{
	"es": "es-ES",
	"en": "en-US",
}

// Enhanced (Neural2) voices per language, keyed by style-or-type. Unknown
// combinations fall back to the language's default (feminine) voice.
var googleEnhancedVoices = map[string]map[string]string{
	"es": {
		"feminine":      "es-ES-Neural2-A",
		"masculine":     "es-ES-Neural2-B",
		"professorial":  "es-ES-Neural2-C",
		"podcast":       "es-ES-Neural2-F",
		"bedtime-story": "es-ES-Neural2-E",
	},
	"en": {
		"feminine":      "en-US-Neural2-F",
		"masculine":     "en-US-Neural2-D",
		"professorial":  "en-US-Neural2-C",
		"podcast":       "en-US-Neural2-G",
		"bedtime-story": "en-US-Neural2-E",
	},
}

// Documented standard voices used for the intra-backend retry, keyed by
// voice type only.
var googleStandardVoices = map[string]map[string]string{
	"es": {
		"feminine":  "es-ES-Standard-A",
		"masculine": "es-ES-Standard-B",
	},
	"en": {
		"feminine":  "en-US-Standard-C",
		"masculine": "en-US-Standard-D",
	},
}

func googleRegionCode(language string) string {
	if code, ok := googleRegionCodes[language]; ok {
		return code
	}
	return googleRegionCodes["es"]
}

func googleEnhancedVoice(language, styleOrType string) string {
	voices, ok := googleEnhancedVoices[language]
	if !ok {
		voices = googleEnhancedVoices["es"]
	}
	if name, ok := voices[styleOrType]; ok {
		return name
	}
	return voices["feminine"]
}

func googleStandardVoice(language, voiceType string) string {
	voices, ok := googleStandardVoices[language]
	if !ok {
		voices = googleStandardVoices["es"]
	}
	if name, ok := voices[voiceType]; ok {
		return name
	}
	return voices["feminine"]
}
