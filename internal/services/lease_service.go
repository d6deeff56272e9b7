package services

import (
	"context"
	"fmt"

	"hearthub/internal/models"
	"hearthub/internal/repositories"

	"github.com/google/uuid"
)

type LeaseService interface {
	ListAsTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Lease, error)
	ListAsLandlord(ctx context.Context, landlordID uuid.UUID) ([]*models.Lease, error)
	Get(ctx context.Context, callerID uuid.UUID, id int64) (*models.Lease, error)
}

type leaseService struct {
	leaseRepo repositories.LeaseRepository
}

func NewLeaseService(leaseRepo repositories.LeaseRepository) LeaseService {
	return &leaseService{leaseRepo: leaseRepo}
}

func (s *leaseService) ListAsTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Lease, error) {
	return s.leaseRepo.ListByTenant(ctx, tenantID)
}

func (s *leaseService) ListAsLandlord(ctx context.Context, landlordID uuid.UUID) ([]*models.Lease, error) {
	return s.leaseRepo.ListByLandlord(ctx, landlordID)
}

// Get returns a lease to either of its parties.
func (s *leaseService) Get(ctx context.Context, callerID uuid.UUID, id int64) (*models.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("lease", err)
	}
	if lease.TenantID != callerID && lease.LandlordID != callerID {
		return nil, fmt.Errorf("caller is not a party to lease %d: %w", id, ErrForbidden)
	}
	return lease, nil
}
