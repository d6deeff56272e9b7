package services

import (
	"context"
	"io"
	"time"

	"hearthub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, landlordID uuid.UUID, id int64) error {
	args := m.Called(ctx, landlordID, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	args := m.Called(ctx, landlordID, limit, offset)
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListAvailable(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Search(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) AddImage(ctx context.Context, landlordID uuid.UUID, id int64, objectKey string) error {
	args := m.Called(ctx, landlordID, id, objectKey)
	return args.Error(0)
}

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, app *models.RentalApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockApplicationRepository) GetByID(ctx context.Context, id int64) (*models.RentalApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalApplication), args.Error(1)
}

func (m *MockApplicationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RentalApplication, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.RentalApplication), args.Error(1)
}

func (m *MockApplicationRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*models.RentalApplication, error) {
	args := m.Called(ctx, landlordID)
	return args.Get(0).([]*models.RentalApplication), args.Error(1)
}

func (m *MockApplicationRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockApplicationRepository) ListApprovedWithoutLease(ctx context.Context, appliedBefore time.Time) ([]int64, error) {
	args := m.Called(ctx, appliedBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockApplicationRepository) RevertApprovalWithoutLease(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) CreateForApprovedApplication(ctx context.Context, lease *models.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) GetByID(ctx context.Context, id int64) (*models.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lease), args.Error(1)
}

func (m *MockLeaseRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Lease, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*models.Lease), args.Error(1)
}

func (m *MockLeaseRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*models.Lease, error) {
	args := m.Called(ctx, landlordID)
	return args.Get(0).([]*models.Lease), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatusByIntentID(ctx context.Context, intentID, status string) error {
	args := m.Called(ctx, intentID, status)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Payment, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, recipientID uuid.UUID, id int64) error {
	args := m.Called(ctx, recipientID, id)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProperty(ctx context.Context, propertyID int64) (*models.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockCacheService) SetProperty(ctx context.Context, property *models.Property, ttl time.Duration) error {
	args := m.Called(ctx, property, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProperty(ctx context.Context, propertyID int64) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

func (m *MockCacheService) GetAvailablePage(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockCacheService) SetAvailablePage(ctx context.Context, limit, offset int, properties []*models.Property, ttl time.Duration) error {
	args := m.Called(ctx, limit, offset, properties, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAvailable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPropertyIndex struct {
	mock.Mock
}

func (m *MockPropertyIndex) EnsureIndex() error {
	return m.Called().Error(0)
}

func (m *MockPropertyIndex) Upsert(property *models.Property) error {
	return m.Called(property).Error(0)
}

func (m *MockPropertyIndex) Remove(propertyID int64) error {
	return m.Called(propertyID).Error(0)
}

func (m *MockPropertyIndex) Search(filter *models.PropertySearchFilter) ([]*models.Property, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyIndex) Healthy() bool {
	return m.Called().Bool(0)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) Upload(ctx context.Context, objectName, contentType string, reader io.Reader, objectSize int64) error {
	args := m.Called(ctx, objectName, contentType, reader, objectSize)
	return args.Error(0)
}

func (m *MockStorageService) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) Delete(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockStorageService) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, email Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentIntent), args.Error(1)
}

func (m *MockPaymentProvider) VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WebhookEvent), args.Error(1)
}
