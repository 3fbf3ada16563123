package services

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandbuilder/reviewgate-backend/internal/database"
	apperrors "github.com/brandbuilder/reviewgate-backend/internal/errors"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
)

var businessColumns = []string{
	"id", "business_name", "phone_number", "address", "description",
	"facebook_url", "instagram_url", "twitter_url", "linkedin_url", "website_url",
	"google_review_url", "image_name", "image_type", "created_by",
	"average_rating", "total_reviews", "created_at", "updated_at",
}

var reviewColumns = []string{
	"id", "rating", "comment", "business_profile_id", "customer_id",
	"customer_name", "customer_email", "customer_phone", "is_anonymous",
	"redirected_to_google", "created_at", "updated_at",
}

const testGoogleURL = "https://g.page/r/example/review"

func newReviewService(t *testing.T) (*ReviewService, sqlmock.Sqlmock) {
	db, mock := newServiceDB(t)
	logger := testLogger()

	businessRepo := database.NewBusinessRepository(db)
	reviewRepo := database.NewReviewRepository(db)
	ratingService := NewRatingService(businessRepo, logger)

	return NewReviewService(reviewRepo, businessRepo, ratingService, nil, logger), mock
}

func expectBusinessLookup(mock sqlmock.Sqlmock, businessID int64, ownerID uuid.UUID) {
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM business_profiles WHERE id`).
		WithArgs(businessID).
		WillReturnRows(sqlmock.NewRows(businessColumns).AddRow(
			businessID, "Colombo Coffee House", nil, nil, nil,
			nil, nil, nil, nil, nil,
			testGoogleURL, nil, nil, ownerID.String(),
			4.2, 17, now, now,
		))
}

func TestCreateReview_HighRatingRedirects(t *testing.T) {
	service, mock := newReviewService(t)
	customerID := uuid.New()

	expectBusinessLookup(mock, 7, uuid.New())
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(customerID.String(), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(`UPDATE business_profiles`).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	review, decision, err := service.Create(customerID, 7, &models.CreateReviewRequest{
		Rating:  5,
		Comment: "Excellent service",
	})
	require.NoError(t, err)
	require.NotNil(t, review)
	require.NotNil(t, decision)

	assert.Equal(t, int64(42), review.ID)
	assert.True(t, review.RedirectedToGoogle)
	assert.False(t, review.IsAnonymous)
	assert.True(t, decision.RedirectToExternal)
	assert.False(t, decision.ShowFeedbackForm)
	assert.Equal(t, testGoogleURL, decision.GoogleReviewURL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_ThresholdRatingShowsFeedbackForm(t *testing.T) {
	service, mock := newReviewService(t)
	customerID := uuid.New()

	expectBusinessLookup(mock, 7, uuid.New())
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(customerID.String(), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(43)))
	mock.ExpectExec(`UPDATE business_profiles`).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	review, decision, err := service.Create(customerID, 7, &models.CreateReviewRequest{
		Rating:  3,
		Comment: "It was fine",
	})
	require.NoError(t, err)

	assert.False(t, review.RedirectedToGoogle)
	assert.False(t, decision.RedirectToExternal)
	assert.True(t, decision.ShowFeedbackForm)
	assert.Empty(t, decision.GoogleReviewURL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_DuplicateIsConflict(t *testing.T) {
	service, mock := newReviewService(t)
	customerID := uuid.New()

	expectBusinessLookup(mock, 7, uuid.New())
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(customerID.String(), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	review, decision, err := service.Create(customerID, 7, &models.CreateReviewRequest{Rating: 4})
	assert.Nil(t, review)
	assert.Nil(t, decision)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_BusinessNotFound(t *testing.T) {
	service, mock := newReviewService(t)

	mock.ExpectQuery(`SELECT (.+) FROM business_profiles WHERE id`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, _, err := service.Create(uuid.New(), 99, &models.CreateReviewRequest{Rating: 4})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_RecomputeFailureDoesNotFailSubmission(t *testing.T) {
	service, mock := newReviewService(t)
	customerID := uuid.New()

	expectBusinessLookup(mock, 7, uuid.New())
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(customerID.String(), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(44)))
	mock.ExpectExec(`UPDATE business_profiles`).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("connection reset"))

	review, _, err := service.Create(customerID, 7, &models.CreateReviewRequest{Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(44), review.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAnonymousReview_AnonymousWithoutName(t *testing.T) {
	service, mock := newReviewService(t)

	expectBusinessLookup(mock, 7, uuid.New())
	mock.ExpectQuery(`INSERT INTO reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(45)))
	mock.ExpectExec(`UPDATE business_profiles`).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	review, decision, err := service.CreateAnonymous(7, &models.CreateAnonymousReviewRequest{
		Rating:  2,
		Comment: "Slow service",
	})
	require.NoError(t, err)

	assert.True(t, review.IsAnonymous)
	assert.False(t, review.CustomerID.Valid)
	assert.True(t, decision.ShowFeedbackForm)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAnonymousReview_NamedContact(t *testing.T) {
	service, mock := newReviewService(t)

	expectBusinessLookup(mock, 7, uuid.New())
	mock.ExpectQuery(`INSERT INTO reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(46)))
	mock.ExpectExec(`UPDATE business_profiles`).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	review, _, err := service.CreateAnonymous(7, &models.CreateAnonymousReviewRequest{
		Rating:       4,
		CustomerName: "Jane Perera",
	})
	require.NoError(t, err)

	assert.False(t, review.IsAnonymous)
	assert.Equal(t, "Jane Perera", review.CustomerName.String)
	assert.True(t, review.RedirectedToGoogle)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReview_ForbiddenForOtherCustomer(t *testing.T) {
	service, mock := newReviewService(t)
	owner := uuid.New()
	intruder := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE id`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(reviewColumns).AddRow(
			int64(42), 5, "Excellent", int64(7), owner.String(),
			nil, nil, nil, false,
			true, now, now,
		))

	updated, err := service.Update(42, intruder, false, &models.UpdateReviewRequest{Rating: 1})
	assert.Nil(t, updated)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReview_AdminCanEditAndRedirectFlagFollowsRating(t *testing.T) {
	service, mock := newReviewService(t)
	owner := uuid.New()
	admin := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE id`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(reviewColumns).AddRow(
			int64(42), 5, "Excellent", int64(7), owner.String(),
			nil, nil, nil, false,
			true, now, now,
		))
	mock.ExpectExec(`UPDATE reviews`).
		WithArgs(2, "Changed after a second visit", false, sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE business_profiles`).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := service.Update(42, admin, true, &models.UpdateReviewRequest{
		Rating:  2,
		Comment: "Changed after a second visit",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.False(t, updated.RedirectedToGoogle)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReview_RecomputesAggregates(t *testing.T) {
	service, mock := newReviewService(t)
	owner := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE id`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(reviewColumns).AddRow(
			int64(42), 1, "Terrible", int64(7), owner.String(),
			nil, nil, nil, false,
			false, now, now,
		))
	mock.ExpectExec(`DELETE FROM reviews`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE business_profiles`).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := service.Delete(42, owner, false)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
