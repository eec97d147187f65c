package synth

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend synthesizes speech through the OpenAI speech API. It sits
// between the cloud backend and the universal fallback in the chain and is
// registered only when an API key is configured.
type OpenAIBackend struct {
	client *openai.Client
	model  openai.SpeechModel
}

func NewOpenAIBackend(apiKey, model string) *OpenAIBackend {
	m := openai.SpeechModel(model)
	if model == "" {
		m = openai.TTSModel1
	}
	return &OpenAIBackend{
		client: openai.NewClient(apiKey),
		model:  m,
	}
}

func (o *OpenAIBackend) Name() string { return "openai-tts" }

func (o *OpenAIBackend) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: o.model,
		Input: req.Text,
		Voice: openaiVoice(req.styleOrType()),
		Speed: openaiSpeed(req.Style),
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech request: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return audio, nil
}

// openaiVoice maps style-or-type onto the fixed set of OpenAI voices. The
// API has no language-specific voices; language is inferred from the text.
func openaiVoice(styleOrType string) openai.SpeechVoice {
	switch styleOrType {
	case "masculine":
		return openai.VoiceOnyx
	case "professorial":
		return openai.VoiceFable
	case "podcast":
		return openai.VoiceAlloy
	case "bedtime-story":
		return openai.VoiceShimmer
	default:
		return openai.VoiceNova
	}
}

func openaiSpeed(style string) float64 {
	switch style {
	case "podcast":
		return 1.15
	case "bedtime-story":
		return 0.85
	default:
		return 1.0
	}
}
