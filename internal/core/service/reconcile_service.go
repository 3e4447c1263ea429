package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/forum-system/internal/core/ports"
)

// ReconcileService recomputes the denormalised post_count of a board. Post
// writes already keep the counter in step transactionally; this catches drift
// from out-of-band edits to the store.
type ReconcileService struct {
	boards ports.BoardRepository
	log    zerolog.Logger
}

func NewReconcileService(boards ports.BoardRepository, log zerolog.Logger) *ReconcileService {
	return &ReconcileService{boards: boards, log: log}
}

func (s *ReconcileService) Reconcile(ctx context.Context, boardID int64) (int64, error) {
	before, after, err := s.boards.RecountPosts(ctx, boardID)
	if err != nil {
		return 0, fmt.Errorf("reconcile board %d: %w", boardID, err)
	}

	drift := before - after
	if drift != 0 {
		s.log.Warn().
			Int64("board_id", boardID).
			Int64("stored", before).
			Int64("actual", after).
			Msg("post_count drift corrected")
	}
	return drift, nil
}

// BoardIDs lists every board to sweep.
func (s *ReconcileService) BoardIDs(ctx context.Context) ([]int64, error) {
	return s.boards.IDs(ctx)
}
