package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/domains/book/repository"
)

// TypeSweepOrphanBooks xóa sách có author không còn tồn tại
const TypeSweepOrphanBooks = "catalog:sweep_orphan_books"

type SweepOrphanBooksPayload struct {
	DryRun bool `json:"dry_run,omitempty"`
	Limit  int  `json:"limit,omitempty"` // 0 = không giới hạn
}

// NewSweepOrphanBooksTask build task cho scheduler và catalogctl
func NewSweepOrphanBooksTask(payload SweepOrphanBooksPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(TypeSweepOrphanBooks, data), nil
}

// SweepOrphanBooksHandler dọn sách còn sót lại khi author delete bị ngắt giữa chừng
type SweepOrphanBooksHandler struct {
	bookRepo repository.RepositoryInterface
}

func NewSweepOrphanBooksHandler(bookRepo repository.RepositoryInterface) *SweepOrphanBooksHandler {
	return &SweepOrphanBooksHandler{bookRepo: bookRepo}
}

func (h *SweepOrphanBooksHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload SweepOrphanBooksPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal SweepOrphanBooks payload")
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	_, err := h.Sweep(ctx, payload)
	return err
}

// Sweep trả về số sách đã xóa (hoặc sẽ xóa khi DryRun)
func (h *SweepOrphanBooksHandler) Sweep(ctx context.Context, payload SweepOrphanBooksPayload) (int, error) {
	orphans, err := h.bookRepo.ListOrphans(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orphan books")
		return 0, fmt.Errorf("list orphans: %w", err)
	}

	if payload.Limit > 0 && len(orphans) > payload.Limit {
		orphans = orphans[:payload.Limit]
	}

	log.Info().
		Int("orphans", len(orphans)).
		Bool("dry_run", payload.DryRun).
		Msg("Starting orphan book sweep")

	if payload.DryRun {
		return len(orphans), nil
	}

	deleted := 0
	for _, b := range orphans {
		if err := h.bookRepo.Delete(ctx, b.ID); err != nil {
			log.Error().
				Err(err).
				Str("book_id", b.ID.String()).
				Msg("Failed to delete orphan book")
			return deleted, fmt.Errorf("delete book %s: %w", b.ID, err)
		}
		deleted++
	}

	log.Info().Int("deleted", deleted).Msg("Orphan book sweep finished")
	return deleted, nil
}
