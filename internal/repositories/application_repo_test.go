package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ApplicationRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ApplicationRepository
	context context.Context
}

func (suite *ApplicationRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewApplicationRepository(mock)
	suite.context = context.Background()
}

func (suite *ApplicationRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestApplicationRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ApplicationRepoTestSuite))
}

func (suite *ApplicationRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM rental_applications WHERE id = $1 AND status = 'pending'`)).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(suite.T(), suite.repo.Delete(suite.context, 5))
}

func (suite *ApplicationRepoTestSuite) TestDelete_AlreadyDecided() {
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM rental_applications WHERE id = $1 AND status = 'pending'`)).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(suite.T(), suite.repo.Delete(suite.context, 5), ErrApplicationNotPending)
}

func (suite *ApplicationRepoTestSuite) TestListApprovedWithoutLease() {
	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN lease l ON l.application_id = a.id`)).
		WithArgs(cutoff).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)).AddRow(int64(8)))

	ids, err := suite.repo.ListApprovedWithoutLease(suite.context, cutoff)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []int64{3, 8}, ids)
}

func (suite *ApplicationRepoTestSuite) TestListApprovedWithoutLease_QueryError() {
	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN lease l ON l.application_id = a.id`)).
		WithArgs(cutoff).
		WillReturnError(errors.New("relation \"lease\" does not exist"))

	ids, err := suite.repo.ListApprovedWithoutLease(suite.context, cutoff)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), ids)
}

func (suite *ApplicationRepoTestSuite) TestRevertApprovalWithoutLease() {
	suite.mock.ExpectExec(regexp.QuoteMeta(`AND NOT EXISTS (SELECT 1 FROM lease WHERE application_id = $1)`)).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.RevertApprovalWithoutLease(suite.context, 3))
}

func (suite *ApplicationRepoTestSuite) TestRevertApprovalWithoutLease_LeaseAppeared() {
	suite.mock.ExpectExec(regexp.QuoteMeta(`AND NOT EXISTS (SELECT 1 FROM lease WHERE application_id = $1)`)).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(suite.T(), suite.repo.RevertApprovalWithoutLease(suite.context, 3), ErrNoRowsAffected)
}
