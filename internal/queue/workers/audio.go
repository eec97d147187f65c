package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/repaso-app/repaso-backend/internal/queue"
	"github.com/repaso-app/repaso-backend/internal/speech"
)

// AudioWorker processes audio:invalidate tasks by reconstructing and
// removing the cached audio entries a deleted document could have produced.
type AudioWorker struct {
	engine *speech.Engine
}

func NewAudioWorker(engine *speech.Engine) *AudioWorker {
	return &AudioWorker{engine: engine}
}

func (w *AudioWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.AudioInvalidatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	slog.Info("invalidating audio for document", "document_id", payload.DocumentID)

	removed, err := w.engine.InvalidateForDocument(ctx, payload.Text)
	if err != nil {
		return fmt.Errorf("invalidate audio for document %s: %w", payload.DocumentID, err)
	}

	// Zero removals is normal: the document may never have been spoken, or
	// only under a style variant outside the reconstructed set.
	slog.Info("audio invalidation complete",
		"document_id", payload.DocumentID,
		"removed", removed,
	)
	return nil
}
