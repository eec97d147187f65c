package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/repaso-app/repaso-backend/internal/cache"
	"github.com/repaso-app/repaso-backend/internal/models"
	"github.com/repaso-app/repaso-backend/internal/queue"
)

// textCacheTTL bounds how long document text is served from redis after a
// read; deletion removes the key eagerly as well.
const textCacheTTL = 10 * time.Minute

type Service struct {
	db          *pgxpool.Pool
	textCache   *cache.Cache // optional
	queueClient *queue.Client
}

func NewService(db *pgxpool.Pool, textCache *cache.Cache, qc *queue.Client) *Service {
	return &Service{db: db, textCache: textCache, queueClient: qc}
}

type CreateRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Document, error) {
	docID := uuid.New()

	var doc models.Document
	err := s.db.QueryRow(ctx,
		`INSERT INTO documents (id, title, content, language)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, content, language, created_at`,
		docID, req.Title, req.Content, req.Language,
	).Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Language, &doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	return &doc, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	err := s.db.QueryRow(ctx,
		`SELECT id, title, content, language, created_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Language, &doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Document, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, content, language, created_at
		 FROM documents ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Language, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// ContentForSpeech returns the document text for synthesis, reading through
// the redis cache when one is configured.
func (s *Service) ContentForSpeech(ctx context.Context, id uuid.UUID) (string, error) {
	key := textCacheKey(id)

	if s.textCache != nil {
		text, err := s.textCache.GetString(ctx, key)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("document text cache unavailable", "error", err)
		}
	}

	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if s.textCache != nil {
		if err := s.textCache.SetString(ctx, key, doc.Content, textCacheTTL); err != nil {
			slog.Warn("failed to cache document text", "document_id", id, "error", err)
		}
	}
	return doc.Content, nil
}

// Delete removes the document row and enqueues invalidation of any audio
// cached for its text. The text travels in the task payload because once
// the row is gone there is nothing left to reconstruct cache keys from.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, "DELETE FROM documents WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if s.textCache != nil {
		if err := s.textCache.Delete(ctx, textCacheKey(id)); err != nil {
			slog.Warn("failed to drop cached document text", "document_id", id, "error", err)
		}
	}

	if s.queueClient != nil {
		err := s.queueClient.EnqueueAudioInvalidate(queue.AudioInvalidatePayload{
			DocumentID: id.String(),
			Text:       doc.Content,
		})
		if err != nil {
			slog.Error("failed to enqueue audio invalidation", "document_id", id, "error", err)
		}
	}

	return nil
}

func textCacheKey(id uuid.UUID) string {
	return "doc:text:" + id.String()
}
