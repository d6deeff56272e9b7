package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hearthub/internal/applications"
	"hearthub/internal/common"
	"hearthub/internal/metrics"
	"hearthub/internal/models"
	"hearthub/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ApplicationService interface {
	Submit(ctx context.Context, userID uuid.UUID, userEmail string, rawPropertyID interface{}, form *models.ApplicationForm) (*models.RentalApplication, error)
	ListMine(ctx context.Context, userID uuid.UUID) (applications.Dashboard, error)
	ListIncoming(ctx context.Context, landlordID uuid.UUID) (applications.Dashboard, error)
	Get(ctx context.Context, callerID uuid.UUID, applicationID int64) (*applications.View, error)
	LeaseDraft(ctx context.Context, landlordID uuid.UUID, applicationID int64, moveIn time.Time) (*models.LeaseDraft, error)
	Approve(ctx context.Context, landlordID uuid.UUID, applicationID int64, req *models.ApproveApplicationRequest) (*models.Lease, error)
	Reject(ctx context.Context, landlordID uuid.UUID, applicationID int64) error
}

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	propertyRepo    repositories.PropertyRepository
	leaseRepo       repositories.LeaseRepository
	mailer          Mailer
	log             logrus.FieldLogger
}

func NewApplicationService(applicationRepo repositories.ApplicationRepository, propertyRepo repositories.PropertyRepository, leaseRepo repositories.LeaseRepository, mailer Mailer, log logrus.FieldLogger) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		propertyRepo:    propertyRepo,
		leaseRepo:       leaseRepo,
		mailer:          mailer,
		log:             log.WithField("service", "application"),
	}
}

// DefaultLeaseEndDate is move-in plus one calendar year. Feb 29 rolls to Mar 1.
func DefaultLeaseEndDate(moveIn time.Time) time.Time {
	return moveIn.AddDate(1, 0, 0)
}

func (s *applicationService) Submit(ctx context.Context, userID uuid.UUID, userEmail string, rawPropertyID interface{}, form *models.ApplicationForm) (*models.RentalApplication, error) {
	validation := common.ValidatePropertyID(rawPropertyID)
	if !validation.IsValid {
		return nil, validationError("%s", validation.Error)
	}
	if err := validateApplicationForm(form); err != nil {
		return nil, err
	}

	app := applications.PrepareApplicationData(form, *validation.PropertyID, userID, userEmail)
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		// unique and foreign key violations are classified by the caller
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"application_id": app.ID,
		"property_id":    app.PropertyID,
		"user_id":        userID,
	}).Info("rental application submitted")

	s.confirmSubmission(ctx, app)
	return app, nil
}

func validateApplicationForm(form *models.ApplicationForm) error {
	if form == nil {
		return validationError("application form is required")
	}
	if err := common.ValidateRequiredString(form.FirstName, "firstName"); err != nil {
		return validationError("%s", err.Error())
	}
	if err := common.ValidateRequiredString(form.LastName, "lastName"); err != nil {
		return validationError("%s", err.Error())
	}
	return nil
}

func (s *applicationService) ListMine(ctx context.Context, userID uuid.UUID) (applications.Dashboard, error) {
	apps, err := s.applicationRepo.ListByUser(ctx, userID)
	if err != nil {
		return applications.Dashboard{}, err
	}
	return applications.NewDashboard(apps), nil
}

func (s *applicationService) ListIncoming(ctx context.Context, landlordID uuid.UUID) (applications.Dashboard, error) {
	apps, err := s.applicationRepo.ListByLandlord(ctx, landlordID)
	if err != nil {
		return applications.Dashboard{}, err
	}
	return applications.NewDashboard(apps), nil
}

// Get returns an application to its applicant or to the landlord of its property.
func (s *applicationService) Get(ctx context.Context, callerID uuid.UUID, applicationID int64) (*applications.View, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, notFound("application", err)
	}
	if app.UserID != callerID {
		if _, err := s.ownedProperty(ctx, callerID, app.PropertyID); err != nil {
			return nil, err
		}
	}
	view := applications.NewView(app)
	return &view, nil
}

// LeaseDraft prefills the approval form with the application's tenant and
// property, the listing's rent and deposit, and a one-year term.
func (s *applicationService) LeaseDraft(ctx context.Context, landlordID uuid.UUID, applicationID int64, moveIn time.Time) (*models.LeaseDraft, error) {
	app, property, err := s.pendingOwnedApplication(ctx, landlordID, applicationID)
	if err != nil {
		return nil, err
	}
	return &models.LeaseDraft{
		ApplicationID:   app.ID,
		TenantID:        app.UserID,
		PropertyID:      app.PropertyID,
		MoveInDate:      moveIn.Format(models.DateLayout),
		LeaseEndDate:    DefaultLeaseEndDate(moveIn).Format(models.DateLayout),
		MonthlyRent:     property.MonthlyRent,
		SecurityDeposit: property.SecurityDeposit,
	}, nil
}

// Approve turns a pending application into a current lease. The request is
// fully validated before the store is touched, and the caller must own the
// application's property.
func (s *applicationService) Approve(ctx context.Context, landlordID uuid.UUID, applicationID int64, req *models.ApproveApplicationRequest) (*models.Lease, error) {
	moveIn, leaseEnd, err := validateApproval(req)
	if err != nil {
		return nil, err
	}

	app, _, err := s.pendingOwnedApplication(ctx, landlordID, applicationID)
	if err != nil {
		return nil, err
	}

	appID := app.ID
	lease := &models.Lease{
		ApplicationID:   &appID,
		TenantID:        app.UserID,
		LandlordID:      landlordID,
		PropertyID:      app.PropertyID,
		MoveInDate:      moveIn,
		LeaseEndDate:    leaseEnd,
		MonthlyRent:     *req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		Status:          models.LeaseStatusCurrent,
	}

	if err := s.leaseRepo.CreateForApprovedApplication(ctx, lease); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotPending) {
			return nil, fmt.Errorf("application %d was decided concurrently: %w", applicationID, ErrConflict)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"application_id": applicationID,
		"lease_id":       lease.ID,
		"landlord_id":    landlordID,
	}).Info("application approved")
	metrics.RecordApplicationDecision(models.ApplicationStatusApproved)

	s.notifyApplicant(ctx, app, "Your rental application was approved",
		fmt.Sprintf("Congratulations! Your application has been approved. Your lease starts on %s.", moveIn.Format(models.DateLayout)))
	return lease, nil
}

// Reject deletes a pending application. It applies the same ownership rule as Approve.
func (s *applicationService) Reject(ctx context.Context, landlordID uuid.UUID, applicationID int64) error {
	app, _, err := s.pendingOwnedApplication(ctx, landlordID, applicationID)
	if err != nil {
		return err
	}

	if err := s.applicationRepo.Delete(ctx, applicationID); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotPending) {
			return fmt.Errorf("application %d was decided concurrently: %w", applicationID, ErrConflict)
		}
		return err
	}

	s.log.WithFields(logrus.Fields{
		"application_id": applicationID,
		"landlord_id":    landlordID,
	}).Info("application rejected")
	metrics.RecordApplicationDecision(models.ApplicationStatusRejected)

	s.notifyApplicant(ctx, app, "Update on your rental application", "Application was not approved at this time")
	return nil
}

func validateApproval(req *models.ApproveApplicationRequest) (time.Time, time.Time, error) {
	if req == nil {
		return time.Time{}, time.Time{}, validationError("request body is required")
	}
	moveIn, err := common.ParseDate(req.MoveInDate, "move_in_date")
	if err != nil {
		return time.Time{}, time.Time{}, validationError("%s", err.Error())
	}
	leaseEnd, err := common.ParseDate(req.LeaseEndDate, "lease_end_date")
	if err != nil {
		return time.Time{}, time.Time{}, validationError("%s", err.Error())
	}
	if !leaseEnd.After(moveIn) {
		return time.Time{}, time.Time{}, validationError("lease_end_date must be after move_in_date")
	}
	if req.MonthlyRent == nil {
		return time.Time{}, time.Time{}, validationError("monthly_rent is required")
	}
	if *req.MonthlyRent <= 0 {
		return time.Time{}, time.Time{}, validationError("monthly_rent must be positive")
	}
	if req.SecurityDeposit != nil && *req.SecurityDeposit < 0 {
		return time.Time{}, time.Time{}, validationError("security_deposit cannot be negative")
	}
	return moveIn, leaseEnd, nil
}

func (s *applicationService) pendingOwnedApplication(ctx context.Context, landlordID uuid.UUID, applicationID int64) (*models.RentalApplication, *models.Property, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, nil, notFound("application", err)
	}
	property, err := s.ownedProperty(ctx, landlordID, app.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, nil, fmt.Errorf("application %d is %s: %w", applicationID, app.Status, ErrConflict)
	}
	return app, property, nil
}

func (s *applicationService) ownedProperty(ctx context.Context, callerID uuid.UUID, propertyID int64) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, notFound("property", err)
	}
	if property.LandlordID != callerID {
		return nil, fmt.Errorf("caller does not own property %d: %w", propertyID, ErrForbidden)
	}
	return property, nil
}

func (s *applicationService) confirmSubmission(ctx context.Context, app *models.RentalApplication) {
	property, err := s.propertyRepo.GetByID(ctx, app.PropertyID)
	if err != nil {
		s.log.WithError(err).WithField("property_id", app.PropertyID).Warn("could not load property for notification")
		return
	}
	s.send(ctx, Email{
		To:      app.Email,
		Subject: "Application received: " + property.Title,
		Text:    fmt.Sprintf("Hi %s, your application for %s has been received. Status: Under review by property owner", app.FirstName, property.Address),
	})
}

func (s *applicationService) notifyApplicant(ctx context.Context, app *models.RentalApplication, subject, text string) {
	s.send(ctx, Email{To: app.Email, Subject: subject, Text: text})
}

func (s *applicationService) send(ctx context.Context, email Email) {
	if s.mailer == nil || email.To == "" {
		return
	}
	if err := s.mailer.Send(ctx, email); err != nil {
		s.log.WithError(err).WithField("subject", email.Subject).Warn("notification email failed")
	}
}
