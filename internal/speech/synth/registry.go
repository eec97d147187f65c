package synth

import (
	"context"
	"log/slog"
	"time"

	"github.com/repaso-app/repaso-backend/internal/config"
)

// BuildChain assembles the provider chain from configuration, in priority
// order: cloud backend when credentials are discoverable, OpenAI when an
// API key is present, and the translate fallback always. Missing
// credentials are not errors; the corresponding backend is simply skipped.
func BuildChain(ctx context.Context, cfg config.SpeechConfig) *Chain {
	var backends []Backend

	google, err := NewGoogleBackend(ctx, GoogleConfig{
		APIKey:          cfg.GoogleAPIKey,
		CredentialsFile: cfg.GoogleCredentialsFile,
		ProjectID:       cfg.GoogleProjectID,
		BaseURL:         cfg.GoogleBaseURL,
	})
	if err != nil {
		slog.Warn("cloud synthesis backend unavailable, skipping", "error", err)
	} else {
		backends = append(backends, google)
	}

	if cfg.OpenAIKey != "" {
		backends = append(backends, NewOpenAIBackend(cfg.OpenAIKey, cfg.OpenAIModel))
	}

	backends = append(backends, NewTranslateBackend(cfg.TranslateBaseURL, cfg.TempDir))

	chain := NewChain(time.Duration(cfg.ProviderTimeoutSecs)*time.Second, backends...)
	slog.Info("synthesis chain ready", "backends", chain.Backends())
	return chain
}
