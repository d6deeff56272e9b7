package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"hearthub/internal/caching"
	"hearthub/internal/models"
	"hearthub/internal/repositories"
	"hearthub/internal/search"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	propertyCacheTTL  = 15 * time.Minute
	availableCacheTTL = 2 * time.Minute
	imageURLExpiry    = time.Hour
)

type PropertyService interface {
	Create(ctx context.Context, landlordID uuid.UUID, property *models.Property) error
	GetByID(ctx context.Context, id int64) (*models.Property, error)
	Update(ctx context.Context, landlordID uuid.UUID, property *models.Property) error
	Delete(ctx context.Context, landlordID uuid.UUID, id int64) error
	ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Property, error)
	ListAvailable(ctx context.Context, limit, offset int) ([]*models.Property, error)
	Search(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, error)
	UploadImage(ctx context.Context, landlordID uuid.UUID, id int64, filename, contentType string, reader io.Reader, size int64) (*models.Property, error)
	Reindex(ctx context.Context) (int, error)
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
	cacheService caching.CacheService
	index        search.PropertyIndex
	storage      StorageService
	log          logrus.FieldLogger
}

// NewPropertyService wires the listing service. index and storage may be nil:
// search then falls back to the database and image upload is rejected.
func NewPropertyService(propertyRepo repositories.PropertyRepository, cacheService caching.CacheService, index search.PropertyIndex, storage StorageService, log logrus.FieldLogger) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		cacheService: cacheService,
		index:        index,
		storage:      storage,
		log:          log.WithField("service", "property"),
	}
}

func validateProperty(p *models.Property) error {
	if strings.TrimSpace(p.Title) == "" {
		return validationError("title is required")
	}
	if strings.TrimSpace(p.Address) == "" {
		return validationError("address is required")
	}
	if p.MonthlyRent <= 0 {
		return validationError("monthly_rent must be positive")
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 {
		return validationError("bedrooms and bathrooms cannot be negative")
	}
	if p.SecurityDeposit != nil && *p.SecurityDeposit < 0 {
		return validationError("security_deposit cannot be negative")
	}
	return nil
}

func (s *propertyService) Create(ctx context.Context, landlordID uuid.UUID, property *models.Property) error {
	if err := validateProperty(property); err != nil {
		return err
	}
	property.LandlordID = landlordID
	if strings.TrimSpace(property.Status) == "" {
		property.Status = "Available"
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return err
	}

	s.listingChanged(ctx, property)
	return nil
}

func (s *propertyService) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	if cached, err := s.cacheService.GetProperty(ctx, id); cached != nil {
		s.attachImageURLs(ctx, cached)
		return cached, nil
	} else if err != nil {
		s.log.WithError(err).WithField("property_id", id).Warn("property cache read failed")
	}

	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("property", err)
	}

	if cacheErr := s.cacheService.SetProperty(ctx, property, propertyCacheTTL); cacheErr != nil {
		s.log.WithError(cacheErr).WithField("property_id", id).Warn("property cache write failed")
	}
	s.attachImageURLs(ctx, property)
	return property, nil
}

func (s *propertyService) Update(ctx context.Context, landlordID uuid.UUID, property *models.Property) error {
	if err := validateProperty(property); err != nil {
		return err
	}
	existing, err := s.ownedProperty(ctx, landlordID, property.ID)
	if err != nil {
		return err
	}

	property.LandlordID = landlordID
	property.ImageKeys = existing.ImageKeys
	property.CreatedAt = existing.CreatedAt
	if strings.TrimSpace(property.Status) == "" {
		property.Status = existing.Status
	}

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return notFound("property", err)
	}

	if cacheErr := s.cacheService.DeleteProperty(ctx, property.ID); cacheErr != nil {
		s.log.WithError(cacheErr).WithField("property_id", property.ID).Warn("property cache invalidation failed")
	}
	s.listingChanged(ctx, property)
	return nil
}

func (s *propertyService) Delete(ctx context.Context, landlordID uuid.UUID, id int64) error {
	existing, err := s.ownedProperty(ctx, landlordID, id)
	if err != nil {
		return err
	}

	if err := s.propertyRepo.Delete(ctx, landlordID, id); err != nil {
		return notFound("property", err)
	}

	if cacheErr := s.cacheService.DeleteProperty(ctx, id); cacheErr != nil {
		s.log.WithError(cacheErr).WithField("property_id", id).Warn("property cache invalidation failed")
	}
	if cacheErr := s.cacheService.InvalidateAvailable(ctx); cacheErr != nil {
		s.log.WithError(cacheErr).Warn("available listings cache invalidation failed")
	}
	if s.index != nil {
		if err := s.index.Remove(id); err != nil {
			s.log.WithError(err).WithField("property_id", id).Warn("search index removal failed")
		}
	}
	if s.storage != nil {
		for _, key := range existing.ImageKeys {
			if err := s.storage.Delete(ctx, key); err != nil {
				s.log.WithError(err).WithField("object", key).Warn("image cleanup failed")
			}
		}
	}
	return nil
}

func (s *propertyService) ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	return s.propertyRepo.ListByLandlord(ctx, landlordID, limit, offset)
}

func (s *propertyService) ListAvailable(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	if cached, err := s.cacheService.GetAvailablePage(ctx, limit, offset); cached != nil {
		return cached, nil
	} else if err != nil {
		s.log.WithError(err).Warn("available listings cache read failed")
	}

	properties, err := s.propertyRepo.ListAvailable(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if cacheErr := s.cacheService.SetAvailablePage(ctx, limit, offset, properties, availableCacheTTL); cacheErr != nil {
		s.log.WithError(cacheErr).Warn("available listings cache write failed")
	}
	return properties, nil
}

// Search prefers the full-text index and falls back to SQL matching when the
// index is absent or failing.
func (s *propertyService) Search(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, error) {
	if filter.MinRent != nil && filter.MaxRent != nil && *filter.MinRent > *filter.MaxRent {
		return nil, validationError("min_rent cannot exceed max_rent")
	}

	if s.index != nil {
		results, err := s.index.Search(filter)
		if err == nil {
			return results, nil
		}
		s.log.WithError(err).Warn("search index query failed, falling back to database")
	}
	return s.propertyRepo.Search(ctx, filter)
}

func (s *propertyService) UploadImage(ctx context.Context, landlordID uuid.UUID, id int64, filename, contentType string, reader io.Reader, size int64) (*models.Property, error) {
	if s.storage == nil {
		return nil, errors.New("image storage is not configured")
	}
	if _, err := s.ownedProperty(ctx, landlordID, id); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, validationError("only image uploads are accepted")
	}

	objectKey := fmt.Sprintf("properties/%d/%s%s", id, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	if err := s.storage.Upload(ctx, objectKey, contentType, reader, size); err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	if err := s.propertyRepo.AddImage(ctx, landlordID, id, objectKey); err != nil {
		if delErr := s.storage.Delete(ctx, objectKey); delErr != nil {
			s.log.WithError(delErr).WithField("object", objectKey).Warn("orphaned image cleanup failed")
		}
		return nil, notFound("property", err)
	}

	if cacheErr := s.cacheService.DeleteProperty(ctx, id); cacheErr != nil {
		s.log.WithError(cacheErr).WithField("property_id", id).Warn("property cache invalidation failed")
	}

	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("property", err)
	}
	s.listingChanged(ctx, property)
	s.attachImageURLs(ctx, property)
	return property, nil
}

// Reindex pushes every available listing into the search index.
func (s *propertyService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, errors.New("search index is not configured")
	}

	const page = 100
	total := 0
	for offset := 0; ; offset += page {
		batch, err := s.propertyRepo.ListAvailable(ctx, page, offset)
		if err != nil {
			return total, err
		}
		for _, p := range batch {
			if err := s.index.Upsert(p); err != nil {
				return total, fmt.Errorf("index property %d: %w", p.ID, err)
			}
			total++
		}
		if len(batch) < page {
			return total, nil
		}
	}
}

func (s *propertyService) ownedProperty(ctx context.Context, landlordID uuid.UUID, id int64) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("property", err)
	}
	if property.LandlordID != landlordID {
		return nil, fmt.Errorf("property %d belongs to another landlord: %w", id, ErrForbidden)
	}
	return property, nil
}

// listingChanged refreshes the derived views of a listing. Failures only log.
func (s *propertyService) listingChanged(ctx context.Context, property *models.Property) {
	if cacheErr := s.cacheService.InvalidateAvailable(ctx); cacheErr != nil {
		s.log.WithError(cacheErr).Warn("available listings cache invalidation failed")
	}
	if s.index == nil {
		return
	}
	var err error
	if property.Availability == models.AvailabilityAvailable {
		err = s.index.Upsert(property)
	} else {
		err = s.index.Remove(property.ID)
	}
	if err != nil {
		s.log.WithError(err).WithField("property_id", property.ID).Warn("search index update failed")
	}
}

func (s *propertyService) attachImageURLs(ctx context.Context, property *models.Property) {
	if s.storage == nil || len(property.ImageKeys) == 0 {
		return
	}
	urls := make([]string, 0, len(property.ImageKeys))
	for _, key := range property.ImageKeys {
		u, err := s.storage.PresignedURL(ctx, key, imageURLExpiry)
		if err != nil {
			s.log.WithError(err).WithField("object", key).Warn("presign failed")
			continue
		}
		urls = append(urls, u)
	}
	property.ImageURLs = urls
}
