package services

import (
	"context"
	"errors"
	"time"

	"hearthub/internal/metrics"
	"hearthub/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ReconcileService repairs approvals that never got their lease, for rows
// written before approval became transactional or by other writers.
type ReconcileService interface {
	RevertOrphanedApprovals(ctx context.Context, grace time.Duration) (int, error)
}

type reconcileService struct {
	applicationRepo repositories.ApplicationRepository
	log             logrus.FieldLogger
	now             func() time.Time
}

func NewReconcileService(applicationRepo repositories.ApplicationRepository, log logrus.FieldLogger) ReconcileService {
	return &reconcileService{
		applicationRepo: applicationRepo,
		log:             log.WithField("service", "reconcile"),
		now:             time.Now,
	}
}

// RevertOrphanedApprovals puts approved applications older than grace that
// have no lease back to pending so the landlord can approve them again.
func (s *reconcileService) RevertOrphanedApprovals(ctx context.Context, grace time.Duration) (int, error) {
	cutoff := s.now().Add(-grace)
	ids, err := s.applicationRepo.ListApprovedWithoutLease(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	reverted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return reverted, err
		}
		err := s.applicationRepo.RevertApprovalWithoutLease(ctx, id)
		switch {
		case err == nil:
			reverted++
			s.log.WithField("application_id", id).Warn("approved application had no lease, reverted to pending")
		case errors.Is(err, repositories.ErrNoRowsAffected):
			// a lease was created or the row changed since the scan
			s.log.WithField("application_id", id).Debug("application no longer orphaned")
		default:
			return reverted, err
		}
	}

	metrics.RecordReconciledApprovals(reverted)
	return reverted, nil
}
