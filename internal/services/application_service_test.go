package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hearthub/internal/common"
	"hearthub/internal/models"
	"hearthub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ApplicationServiceTestSuite struct {
	suite.Suite
	applicationRepo *MockApplicationRepository
	propertyRepo    *MockPropertyRepository
	leaseRepo       *MockLeaseRepository
	mailer          *MockMailer
	service         ApplicationService
	ctx             context.Context

	landlordID  uuid.UUID
	applicantID uuid.UUID
	property    *models.Property
	application *models.RentalApplication
}

func (suite *ApplicationServiceTestSuite) SetupTest() {
	suite.applicationRepo = new(MockApplicationRepository)
	suite.propertyRepo = new(MockPropertyRepository)
	suite.leaseRepo = new(MockLeaseRepository)
	suite.mailer = new(MockMailer)
	logger, _ := test.NewNullLogger()
	suite.service = NewApplicationService(suite.applicationRepo, suite.propertyRepo, suite.leaseRepo, suite.mailer, logger)
	suite.ctx = context.Background()

	suite.landlordID = uuid.New()
	suite.applicantID = uuid.New()
	deposit := 1500.0
	suite.property = &models.Property{
		ID:              42,
		LandlordID:      suite.landlordID,
		Title:           "Garden flat",
		Address:         "12 Elm St",
		MonthlyRent:     1850,
		SecurityDeposit: &deposit,
		Status:          "Available",
	}
	income := 5000.0
	suite.application = &models.RentalApplication{
		ID:            7,
		PropertyID:    42,
		UserID:        suite.applicantID,
		Status:        models.ApplicationStatusPending,
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		MonthlyIncome: &income,
	}
}

func TestApplicationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceTestSuite))
}

func floatPtr(f float64) *float64 {
	return &f
}

func (suite *ApplicationServiceTestSuite) validApproval() *models.ApproveApplicationRequest {
	return &models.ApproveApplicationRequest{
		MoveInDate:   "2025-03-01",
		LeaseEndDate: "2026-03-01",
		MonthlyRent:  floatPtr(1850),
	}
}

func (suite *ApplicationServiceTestSuite) TestApprove_CreatesLeaseFromApplication() {
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(suite.application, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)
	suite.leaseRepo.On("CreateForApprovedApplication", suite.ctx, mock.AnythingOfType("*models.Lease")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Lease).ID = 99
		}).Return(nil)
	suite.mailer.On("Send", suite.ctx, mock.MatchedBy(func(e Email) bool {
		return e.To == "ada@example.com"
	})).Return(nil)

	lease, err := suite.service.Approve(suite.ctx, suite.landlordID, 7, suite.validApproval())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(99), lease.ID)
	assert.Equal(suite.T(), suite.applicantID, lease.TenantID)
	assert.Equal(suite.T(), int64(42), lease.PropertyID)
	assert.Equal(suite.T(), suite.landlordID, lease.LandlordID)
	assert.Equal(suite.T(), models.LeaseStatusCurrent, lease.Status)
	require.NotNil(suite.T(), lease.ApplicationID)
	assert.Equal(suite.T(), int64(7), *lease.ApplicationID)
	assert.Equal(suite.T(), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), lease.MoveInDate)
	assert.Equal(suite.T(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), lease.LeaseEndDate)
	assert.Nil(suite.T(), lease.SecurityDeposit)
	suite.leaseRepo.AssertExpectations(suite.T())
	suite.mailer.AssertExpectations(suite.T())
}

func (suite *ApplicationServiceTestSuite) TestApprove_NotOwnerPerformsNoMutation() {
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(suite.application, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)

	lease, err := suite.service.Approve(suite.ctx, uuid.New(), 7, suite.validApproval())

	assert.Nil(suite.T(), lease)
	assert.ErrorIs(suite.T(), err, ErrForbidden)
	assert.False(suite.T(), errors.Is(err, ErrValidation))
	suite.leaseRepo.AssertNotCalled(suite.T(), "CreateForApprovedApplication", mock.Anything, mock.Anything)
	suite.mailer.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestApprove_ValidationHappensBeforeAnyStoreCall() {
	tests := []struct {
		name string
		req  *models.ApproveApplicationRequest
	}{
		{"nil request", nil},
		{"missing lease end", &models.ApproveApplicationRequest{MoveInDate: "2025-03-01", MonthlyRent: floatPtr(1850)}},
		{"missing move in", &models.ApproveApplicationRequest{LeaseEndDate: "2026-03-01", MonthlyRent: floatPtr(1850)}},
		{"malformed date", &models.ApproveApplicationRequest{MoveInDate: "03/01/2025", LeaseEndDate: "2026-03-01", MonthlyRent: floatPtr(1850)}},
		{"missing rent", &models.ApproveApplicationRequest{MoveInDate: "2025-03-01", LeaseEndDate: "2026-03-01"}},
		{"end before start", &models.ApproveApplicationRequest{MoveInDate: "2025-03-01", LeaseEndDate: "2025-02-01", MonthlyRent: floatPtr(1850)}},
		{"negative deposit", &models.ApproveApplicationRequest{MoveInDate: "2025-03-01", LeaseEndDate: "2026-03-01", MonthlyRent: floatPtr(1850), SecurityDeposit: floatPtr(-1)}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.Approve(suite.ctx, suite.landlordID, 7, tt.req)
			assert.ErrorIs(suite.T(), err, ErrValidation)
		})
	}

	suite.applicationRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
	suite.propertyRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
	suite.leaseRepo.AssertNotCalled(suite.T(), "CreateForApprovedApplication", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestApprove_AlreadyDecided() {
	suite.application.Status = models.ApplicationStatusApproved
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(suite.application, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)

	_, err := suite.service.Approve(suite.ctx, suite.landlordID, 7, suite.validApproval())

	assert.ErrorIs(suite.T(), err, ErrConflict)
	suite.leaseRepo.AssertNotCalled(suite.T(), "CreateForApprovedApplication", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestApprove_ApplicationNotFound() {
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(nil, pgx.ErrNoRows)

	_, err := suite.service.Approve(suite.ctx, suite.landlordID, 7, suite.validApproval())

	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ApplicationServiceTestSuite) TestApprove_ConcurrentDecisionIsConflict() {
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(suite.application, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)
	suite.leaseRepo.On("CreateForApprovedApplication", suite.ctx, mock.Anything).Return(repositories.ErrApplicationNotPending)

	_, err := suite.service.Approve(suite.ctx, suite.landlordID, 7, suite.validApproval())

	assert.ErrorIs(suite.T(), err, ErrConflict)
	suite.mailer.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestApprove_StoreFailurePassesThrough() {
	storeErr := errors.New("connection reset")
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(suite.application, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)
	suite.leaseRepo.On("CreateForApprovedApplication", suite.ctx, mock.Anything).Return(storeErr)

	_, err := suite.service.Approve(suite.ctx, suite.landlordID, 7, suite.validApproval())

	assert.ErrorIs(suite.T(), err, storeErr)
}

func (suite *ApplicationServiceTestSuite) TestReject_DeletesPendingApplication() {
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(suite.application, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)
	suite.applicationRepo.On("Delete", suite.ctx, int64(7)).Return(nil)
	suite.mailer.On("Send", suite.ctx, mock.Anything).Return(errors.New("provider down"))

	err := suite.service.Reject(suite.ctx, suite.landlordID, 7)

	assert.NoError(suite.T(), err)
	suite.applicationRepo.AssertCalled(suite.T(), "Delete", suite.ctx, int64(7))
}

func (suite *ApplicationServiceTestSuite) TestReject_RequiresOwnership() {
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(suite.application, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)

	err := suite.service.Reject(suite.ctx, suite.applicantID, 7)

	assert.ErrorIs(suite.T(), err, ErrForbidden)
	suite.applicationRepo.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestReject_ApprovedApplicationCannotBeDeleted() {
	suite.application.Status = models.ApplicationStatusApproved
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(suite.application, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)

	err := suite.service.Reject(suite.ctx, suite.landlordID, 7)

	assert.ErrorIs(suite.T(), err, ErrConflict)
	suite.applicationRepo.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestReject_ApprovedConcurrently() {
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(suite.application, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)
	suite.applicationRepo.On("Delete", suite.ctx, int64(7)).Return(repositories.ErrApplicationNotPending)

	err := suite.service.Reject(suite.ctx, suite.landlordID, 7)

	assert.ErrorIs(suite.T(), err, ErrConflict)
	suite.mailer.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestSubmit_InvalidPropertyID() {
	_, err := suite.service.Submit(suite.ctx, suite.applicantID, "ada@example.com", "abc", &models.ApplicationForm{FirstName: "Ada", LastName: "Lovelace"})

	assert.ErrorIs(suite.T(), err, ErrValidation)
	assert.Contains(suite.T(), err.Error(), "Invalid property ID")
	suite.applicationRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestSubmit_PreparesAndStores() {
	form := &models.ApplicationForm{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		MonthlyRent:   "",
		MonthlyIncome: "5000",
	}
	suite.applicationRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.RentalApplication")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.RentalApplication).ID = 11
		}).Return(nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)
	suite.mailer.On("Send", suite.ctx, mock.Anything).Return(nil)

	app, err := suite.service.Submit(suite.ctx, suite.applicantID, "ada@example.com", "42", form)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(11), app.ID)
	assert.Equal(suite.T(), int64(42), app.PropertyID)
	assert.Equal(suite.T(), suite.applicantID, app.UserID)
	assert.Equal(suite.T(), models.ApplicationStatusPending, app.Status)
	assert.Equal(suite.T(), "ada@example.com", app.Email)
	assert.Nil(suite.T(), app.CurrentMonthlyRent)
	require.NotNil(suite.T(), app.MonthlyIncome)
	assert.Equal(suite.T(), 5000.0, *app.MonthlyIncome)
}

func (suite *ApplicationServiceTestSuite) TestSubmit_DuplicateIsClassified() {
	dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	suite.applicationRepo.On("Create", suite.ctx, mock.Anything).Return(dup)

	_, err := suite.service.Submit(suite.ctx, suite.applicantID, "", 42, &models.ApplicationForm{FirstName: "Ada", LastName: "Lovelace"})

	require.Error(suite.T(), err)
	assert.Equal(suite.T(), "You have already submitted an application for this property.", common.ClassifyStoreError(err))
	suite.mailer.AssertNotCalled(suite.T(), "Send", mock.Anything, mock.Anything)
}

func (suite *ApplicationServiceTestSuite) TestLeaseDraft_PrefillsOneYearTerm() {
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(suite.application, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)

	draft, err := suite.service.LeaseDraft(suite.ctx, suite.landlordID, 7, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "2025-06-15", draft.MoveInDate)
	assert.Equal(suite.T(), "2026-06-15", draft.LeaseEndDate)
	assert.Equal(suite.T(), suite.applicantID, draft.TenantID)
	assert.Equal(suite.T(), int64(42), draft.PropertyID)
	assert.Equal(suite.T(), 1850.0, draft.MonthlyRent)
	assert.Equal(suite.T(), suite.property.SecurityDeposit, draft.SecurityDeposit)
}

func (suite *ApplicationServiceTestSuite) TestListIncoming_ComputesStats() {
	apps := []*models.RentalApplication{
		{ID: 1, Status: models.ApplicationStatusPending},
		{ID: 2, Status: models.ApplicationStatusApproved, MonthlyIncome: floatPtr(4000)},
		{ID: 3, Status: "withdrawn"},
	}
	suite.applicationRepo.On("ListByLandlord", suite.ctx, suite.landlordID).Return(apps, nil)

	dashboard, err := suite.service.ListIncoming(suite.ctx, suite.landlordID)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, dashboard.Stats.Total)
	assert.Equal(suite.T(), 1, dashboard.Stats.Pending)
	assert.Equal(suite.T(), 1, dashboard.Stats.Approved)
	assert.Equal(suite.T(), 0, dashboard.Stats.Rejected)
	require.Len(suite.T(), dashboard.Applications, 3)
	assert.Equal(suite.T(), 48000.0, *dashboard.Applications[1].AnnualIncome)
	assert.Equal(suite.T(), "withdrawn", dashboard.Applications[2].Badge.Label)
	assert.Equal(suite.T(), "", dashboard.Applications[2].StatusMessage)
}

func (suite *ApplicationServiceTestSuite) TestGet_ApplicantAndLandlordOnly() {
	suite.applicationRepo.On("GetByID", suite.ctx, int64(7)).Return(suite.application, nil)
	suite.propertyRepo.On("GetByID", suite.ctx, int64(42)).Return(suite.property, nil)

	view, err := suite.service.Get(suite.ctx, suite.applicantID, 7)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Under review by property owner", view.StatusMessage)

	_, err = suite.service.Get(suite.ctx, suite.landlordID, 7)
	assert.NoError(suite.T(), err)

	_, err = suite.service.Get(suite.ctx, uuid.New(), 7)
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func TestDefaultLeaseEndDate(t *testing.T) {
	tests := []struct {
		moveIn   time.Time
		expected time.Time
	}{
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DefaultLeaseEndDate(tt.moveIn))
	}
}
