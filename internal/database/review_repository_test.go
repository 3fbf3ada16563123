package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandbuilder/reviewgate-backend/internal/models"
)

// newTestDB wraps a sqlmock connection in the sqlx-backed PostgresDB so the
// repositories' Get/Select calls work against the mock.
func newTestDB(t *testing.T) (DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

var reviewRows = []string{
	"id", "rating", "comment", "business_profile_id", "customer_id",
	"customer_name", "customer_email", "customer_phone", "is_anonymous",
	"redirected_to_google", "created_at", "updated_at",
}

func TestCreateReview(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db)

	t.Run("Success", func(t *testing.T) {
		customerID := uuid.New()
		now := time.Now()

		review := &models.Review{
			Rating:             5,
			Comment:            models.NewNullString("Excellent service"),
			BusinessProfileID:  7,
			CustomerID:         models.NewNullUUID(customerID),
			RedirectedToGoogle: true,
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		mock.ExpectQuery(`INSERT INTO reviews`).
			WithArgs(
				5, "Excellent service", int64(7), customerID.String(),
				nil, nil, nil, false, true,
				sqlmock.AnyArg(), sqlmock.AnyArg(),
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

		err := repo.Create(review)
		require.NoError(t, err)
		assert.Equal(t, int64(42), review.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO reviews`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(&models.Review{Rating: 4, BusinessProfileID: 7})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create review")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetReviewByID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db)

	t.Run("Success", func(t *testing.T) {
		customerID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE id`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(reviewRows).AddRow(
				int64(42), 5, "Excellent service", int64(7), customerID.String(),
				nil, nil, nil, false,
				true, now, now,
			))

		review, err := repo.GetByID(42)
		require.NoError(t, err)
		require.NotNil(t, review)
		assert.Equal(t, int64(42), review.ID)
		assert.Equal(t, 5, review.Rating)
		assert.Equal(t, int64(7), review.BusinessProfileID)
		assert.True(t, review.CustomerID.Valid)
		assert.Equal(t, customerID, review.CustomerID.UUID)
		assert.True(t, review.RedirectedToGoogle)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found Returns Nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE id`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		review, err := repo.GetByID(99)
		require.NoError(t, err)
		assert.Nil(t, review)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE id`).
			WithArgs(int64(42)).
			WillReturnError(fmt.Errorf("database error"))

		review, err := repo.GetByID(42)
		assert.Error(t, err)
		assert.Nil(t, review)
		assert.Contains(t, err.Error(), "failed to get review")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListReviewsByBusiness(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db)

	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE business_profile_id`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(reviewRows).
			AddRow(int64(2), 2, "Slow service", int64(7), nil, "Jane", nil, nil, false, false, now, now).
			AddRow(int64(1), 5, nil, int64(7), nil, nil, nil, nil, true, true, now.Add(-time.Hour), now.Add(-time.Hour)))

	reviews, err := repo.ListByBusiness(7)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 2, reviews[0].Rating)
	assert.Equal(t, "Jane", reviews[0].CustomerName.String)
	assert.True(t, reviews[1].IsAnonymous)
	assert.False(t, reviews[1].Comment.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLowRatingReviews(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db)

	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE rating <=`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(reviewRows).
			AddRow(int64(3), 1, "Terrible", int64(7), nil, nil, nil, nil, true, false, now, now))

	reviews, err := repo.ListLowRating(3)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 1, reviews[0].Rating)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByCustomerAndBusiness(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db)

	customerID := uuid.New()

	t.Run("Exists", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(customerID.String(), int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := repo.ExistsByCustomerAndBusiness(customerID, 7)
		require.NoError(t, err)
		assert.True(t, exists)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Does Not Exist", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(customerID.String(), int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		exists, err := repo.ExistsByCustomerAndBusiness(customerID, 7)
		require.NoError(t, err)
		assert.False(t, exists)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateReview(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db)

	review := &models.Review{
		ID:                 42,
		Rating:             2,
		Comment:            models.NewNullString("Changed my mind"),
		RedirectedToGoogle: false,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE reviews`).
			WithArgs(2, "Changed my mind", false, sqlmock.AnyArg(), int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(review)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE reviews`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(review)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "review not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteReview(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM reviews`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(42)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM reviews`).
			WithArgs(int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(99)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "review not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
