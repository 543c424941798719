package personalization

import (
	"context"
	"time"

	"github.com/edulistas/backend/internal/domain/personalization"
	"go.uber.org/zap"
)

// DefaultRetentionWindow is how long a visitor's edits live before the
// sweeper may drop them
const DefaultRetentionWindow = time.Hour

// SweepResult reports the outcome of one sweep pass
type SweepResult struct {
	Deleted int64
	Cutoff  time.Time
}

// SweeperService drops personalization events older than the retention
// window. Expiry happens here and only here: reads never consult the
// wall clock, so a log the sweeper has not reached yet stays fully
// usable.
type SweeperService struct {
	eventRepo personalization.EventRepository
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewSweeperService creates a new SweeperService. A non-positive
// retention falls back to the default window.
func NewSweeperService(eventRepo personalization.EventRepository, retention time.Duration, logger *zap.Logger) *SweeperService {
	if retention <= 0 {
		retention = DefaultRetentionWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweeperService{
		eventRepo: eventRepo,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// SweepExpired removes all events past the retention window
func (s *SweeperService) SweepExpired(ctx context.Context) (SweepResult, error) {
	cutoff := s.now().Add(-s.retention)
	deleted, err := s.eventRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("personalization sweep failed", zap.Error(err))
		return SweepResult{Cutoff: cutoff}, err
	}
	if deleted > 0 {
		s.logger.Info("personalization sweep completed",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return SweepResult{Deleted: deleted, Cutoff: cutoff}, nil
}

// Retention returns the configured retention window
func (s *SweeperService) Retention() time.Duration {
	return s.retention
}
