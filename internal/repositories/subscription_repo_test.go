package repositories

import (
	"context"
	"testing"
	"time"

	"bookmart/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SubscriptionRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    SubscriptionRepository
	userID  uuid.UUID
	planID  uuid.UUID
	context context.Context
}

func (suite *SubscriptionRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewSubscriptionRepo(mock)
	suite.userID = uuid.New()
	suite.planID = uuid.New()
	suite.context = context.Background()
}

func (suite *SubscriptionRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestSubscriptionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionRepoTestSuite))
}

func (suite *SubscriptionRepoTestSuite) TestUpsert_Insert() {
	now := time.Now()
	subscription := &models.Subscription{
		ID:        uuid.New(),
		UserID:    suite.userID,
		PlanID:    &suite.planID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 30),
	}

	suite.mock.ExpectExec(`(?s)INSERT INTO subscriptions.+ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs(subscription.ID, subscription.UserID, subscription.PlanID, subscription.StartDate, subscription.EndDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Upsert(suite.context, subscription)
	assert.NoError(suite.T(), err)
}

func (suite *SubscriptionRepoTestSuite) TestUpsert_ReplaceExisting() {
	// Redelivery path: conflict on user_id updates the window in place.
	now := time.Now()
	subscription := &models.Subscription{
		ID:        uuid.New(),
		UserID:    suite.userID,
		PlanID:    &suite.planID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 365),
	}

	suite.mock.ExpectExec(`(?s)INSERT INTO subscriptions.+ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs(subscription.ID, subscription.UserID, subscription.PlanID, subscription.StartDate, subscription.EndDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Upsert(suite.context, subscription)
	assert.NoError(suite.T(), err)
}

func (suite *SubscriptionRepoTestSuite) TestGetByUserID_Found() {
	now := time.Now()
	subscriptionID := uuid.New()

	rows := pgxmock.NewRows([]string{"id", "user_id", "plan_id", "start_date", "end_date", "created_at", "updated_at"}).
		AddRow(subscriptionID, suite.userID, &suite.planID, now, now.AddDate(0, 0, 30), now, now)

	suite.mock.ExpectQuery(`SELECT id, user_id, plan_id, start_date, end_date, created_at, updated_at\s+FROM subscriptions\s+WHERE user_id = \$1`).
		WithArgs(suite.userID).
		WillReturnRows(rows)

	subscription, err := suite.repo.GetByUserID(suite.context, suite.userID)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), subscription)
	assert.Equal(suite.T(), subscriptionID, subscription.ID)
	assert.Equal(suite.T(), suite.userID, subscription.UserID)
}

func (suite *SubscriptionRepoTestSuite) TestGetByUserID_NotFound() {
	rows := pgxmock.NewRows([]string{"id", "user_id", "plan_id", "start_date", "end_date", "created_at", "updated_at"})

	suite.mock.ExpectQuery(`SELECT id, user_id, plan_id, start_date, end_date, created_at, updated_at\s+FROM subscriptions\s+WHERE user_id = \$1`).
		WithArgs(suite.userID).
		WillReturnRows(rows)

	subscription, err := suite.repo.GetByUserID(suite.context, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), subscription)
}

func (suite *SubscriptionRepoTestSuite) TestListExpiringBefore() {
	now := time.Now()
	cutoff := now.Add(3 * 24 * time.Hour)

	rows := pgxmock.NewRows([]string{"id", "user_id", "plan_id", "start_date", "end_date", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.userID, &suite.planID, now.AddDate(0, 0, -28), now.AddDate(0, 0, 2), now, now).
		AddRow(uuid.New(), uuid.New(), &suite.planID, now.AddDate(0, 0, -363), now.AddDate(0, 0, 1), now, now)

	suite.mock.ExpectQuery(`(?s)SELECT.+FROM subscriptions\s+WHERE end_date > NOW\(\) AND end_date < \$1`).
		WithArgs(cutoff).
		WillReturnRows(rows)

	subscriptions, err := suite.repo.ListExpiringBefore(suite.context, cutoff)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), subscriptions, 2)
}
