package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hearthub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PropertyServiceTestSuite struct {
	suite.Suite
	propertyRepo *MockPropertyRepository
	cache        *MockCacheService
	index        *MockPropertyIndex
	storage      *MockStorageService
	service      PropertyService
	ctx          context.Context
	landlordID   uuid.UUID
}

func (suite *PropertyServiceTestSuite) SetupTest() {
	suite.propertyRepo = new(MockPropertyRepository)
	suite.cache = new(MockCacheService)
	suite.index = new(MockPropertyIndex)
	suite.storage = new(MockStorageService)
	logger, _ := test.NewNullLogger()
	suite.service = NewPropertyService(suite.propertyRepo, suite.cache, suite.index, suite.storage, logger)
	suite.ctx = context.Background()
	suite.landlordID = uuid.New()
}

func TestPropertyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PropertyServiceTestSuite))
}

func (suite *PropertyServiceTestSuite) TestCreate_DefaultsStatusAndIndexes() {
	property := &models.Property{Title: "Loft", Address: "1 Main St", MonthlyRent: 1200}
	suite.propertyRepo.On("Create", suite.ctx, property).Run(func(args mock.Arguments) {
		p := args.Get(1).(*models.Property)
		p.ID = 5
		p.Availability = models.ParseAvailability(p.Status)
	}).Return(nil)
	suite.cache.On("InvalidateAvailable", suite.ctx).Return(nil)
	suite.index.On("Upsert", property).Return(nil)

	err := suite.service.Create(suite.ctx, suite.landlordID, property)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Available", property.Status)
	assert.Equal(suite.T(), suite.landlordID, property.LandlordID)
	suite.index.AssertCalled(suite.T(), "Upsert", property)
}

func (suite *PropertyServiceTestSuite) TestCreate_Validation() {
	err := suite.service.Create(suite.ctx, suite.landlordID, &models.Property{Title: "Loft", Address: "1 Main St"})
	assert.ErrorIs(suite.T(), err, ErrValidation)
	suite.propertyRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *PropertyServiceTestSuite) TestUpdate_OtherLandlordForbidden() {
	existing := &models.Property{ID: 5, LandlordID: uuid.New(), Title: "Loft", Address: "1 Main St", MonthlyRent: 1200}
	suite.propertyRepo.On("GetByID", suite.ctx, int64(5)).Return(existing, nil)

	err := suite.service.Update(suite.ctx, suite.landlordID, &models.Property{ID: 5, Title: "Mine now", Address: "1 Main St", MonthlyRent: 1})

	assert.ErrorIs(suite.T(), err, ErrForbidden)
	suite.propertyRepo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
}

func (suite *PropertyServiceTestSuite) TestUpdate_OccupiedListingLeavesIndex() {
	existing := &models.Property{ID: 5, LandlordID: suite.landlordID, Title: "Loft", Address: "1 Main St", MonthlyRent: 1200, Status: "Available", ImageKeys: []string{"k"}}
	update := &models.Property{ID: 5, Title: "Loft", Address: "1 Main St", MonthlyRent: 1300, Status: "Rented"}
	suite.propertyRepo.On("GetByID", suite.ctx, int64(5)).Return(existing, nil)
	suite.propertyRepo.On("Update", suite.ctx, update).Run(func(args mock.Arguments) {
		p := args.Get(1).(*models.Property)
		p.Availability = models.ParseAvailability(p.Status)
	}).Return(nil)
	suite.cache.On("DeleteProperty", suite.ctx, int64(5)).Return(nil)
	suite.cache.On("InvalidateAvailable", suite.ctx).Return(nil)
	suite.index.On("Remove", int64(5)).Return(nil)

	err := suite.service.Update(suite.ctx, suite.landlordID, update)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"k"}, update.ImageKeys)
	suite.index.AssertNotCalled(suite.T(), "Upsert", mock.Anything)
	suite.index.AssertCalled(suite.T(), "Remove", int64(5))
}

func (suite *PropertyServiceTestSuite) TestGetByID_CacheHitSkipsDatabase() {
	cached := &models.Property{ID: 5, ImageKeys: []string{"properties/5/a.jpg"}}
	suite.cache.On("GetProperty", suite.ctx, int64(5)).Return(cached, nil)
	suite.storage.On("PresignedURL", suite.ctx, "properties/5/a.jpg", imageURLExpiry).Return("https://cdn/a.jpg", nil)

	p, err := suite.service.GetByID(suite.ctx, 5)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"https://cdn/a.jpg"}, p.ImageURLs)
	suite.propertyRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *PropertyServiceTestSuite) TestGetByID_MissIsNotFound() {
	suite.cache.On("GetProperty", suite.ctx, int64(5)).Return(nil, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(5)).Return(nil, pgx.ErrNoRows)

	_, err := suite.service.GetByID(suite.ctx, 5)

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PropertyServiceTestSuite) TestSearch_FallsBackToDatabase() {
	filter := &models.PropertySearchFilter{Query: "loft", Limit: 20}
	rows := []*models.Property{{ID: 1}}
	suite.index.On("Search", filter).Return(nil, errors.New("meilisearch unreachable"))
	suite.propertyRepo.On("Search", suite.ctx, filter).Return(rows, nil)

	results, err := suite.service.Search(suite.ctx, filter)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), rows, results)
}

func (suite *PropertyServiceTestSuite) TestSearch_RejectsInvertedRentRange() {
	_, err := suite.service.Search(suite.ctx, &models.PropertySearchFilter{MinRent: floatPtr(2000), MaxRent: floatPtr(1000)})
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *PropertyServiceTestSuite) TestListAvailable_PopulatesCache() {
	rows := []*models.Property{{ID: 1, Status: "vacant"}}
	suite.cache.On("GetAvailablePage", suite.ctx, 20, 0).Return(nil, nil)
	suite.propertyRepo.On("ListAvailable", suite.ctx, 20, 0).Return(rows, nil)
	suite.cache.On("SetAvailablePage", suite.ctx, 20, 0, rows, availableCacheTTL).Return(nil)

	results, err := suite.service.ListAvailable(suite.ctx, 20, 0)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), rows, results)
	suite.cache.AssertExpectations(suite.T())
}

func (suite *PropertyServiceTestSuite) TestUploadImage_RejectsNonImage() {
	suite.propertyRepo.On("GetByID", suite.ctx, int64(5)).Return(&models.Property{ID: 5, LandlordID: suite.landlordID}, nil)

	_, err := suite.service.UploadImage(suite.ctx, suite.landlordID, 5, "lease.pdf", "application/pdf", strings.NewReader("x"), 1)

	assert.ErrorIs(suite.T(), err, ErrValidation)
	suite.storage.AssertNotCalled(suite.T(), "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PropertyServiceTestSuite) TestUploadImage_StoresUnderPropertyPrefix() {
	owned := &models.Property{ID: 5, LandlordID: suite.landlordID, Status: "Available", Availability: models.AvailabilityAvailable}
	withImage := &models.Property{ID: 5, LandlordID: suite.landlordID, Status: "Available", Availability: models.AvailabilityAvailable, ImageKeys: []string{"properties/5/x.jpg"}}
	isKey := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "properties/5/") && strings.HasSuffix(key, ".jpg")
	})

	suite.propertyRepo.On("GetByID", suite.ctx, int64(5)).Return(owned, nil).Once()
	suite.storage.On("Upload", suite.ctx, isKey, "image/jpeg", mock.Anything, int64(3)).Return(nil)
	suite.propertyRepo.On("AddImage", suite.ctx, suite.landlordID, int64(5), isKey).Return(nil)
	suite.cache.On("DeleteProperty", suite.ctx, int64(5)).Return(nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(5)).Return(withImage, nil).Once()
	suite.cache.On("InvalidateAvailable", suite.ctx).Return(nil)
	suite.index.On("Upsert", withImage).Return(nil)
	suite.storage.On("PresignedURL", suite.ctx, "properties/5/x.jpg", imageURLExpiry).Return("https://cdn/x.jpg", nil)

	p, err := suite.service.UploadImage(suite.ctx, suite.landlordID, 5, "Photo.JPG", "image/jpeg", strings.NewReader("abc"), 3)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"https://cdn/x.jpg"}, p.ImageURLs)
	suite.storage.AssertExpectations(suite.T())
}
