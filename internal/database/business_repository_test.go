package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandbuilder/reviewgate-backend/internal/models"
)

var businessRows = []string{
	"id", "business_name", "phone_number", "address", "description",
	"facebook_url", "instagram_url", "twitter_url", "linkedin_url", "website_url",
	"google_review_url", "image_name", "image_type", "created_by",
	"average_rating", "total_reviews", "created_at", "updated_at",
}

func addBusinessRow(rows *sqlmock.Rows, id int64, name string, ownerID uuid.UUID, avgRating float64, totalReviews int) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, name, "+94112223344", nil, nil,
		nil, nil, nil, nil, nil,
		"https://g.page/r/example/review", nil, nil, ownerID.String(),
		avgRating, totalReviews, now, now,
	)
}

func TestCreateBusinessProfile(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBusinessRepository(db)

	t.Run("Success", func(t *testing.T) {
		ownerID := uuid.New()
		now := time.Now()

		profile := &models.BusinessProfile{
			BusinessName:    "Colombo Coffee House",
			PhoneNumber:     models.NewNullString("+94112223344"),
			GoogleReviewURL: models.NewNullString("https://g.page/r/example/review"),
			CreatedBy:       ownerID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		mock.ExpectQuery(`INSERT INTO business_profiles`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		err := repo.Create(profile)
		require.NoError(t, err)
		assert.Equal(t, int64(7), profile.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO business_profiles`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(&models.BusinessProfile{BusinessName: "Broken"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create business profile")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBusinessProfileByID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBusinessRepository(db)

	t.Run("Success", func(t *testing.T) {
		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM business_profiles WHERE id`).
			WithArgs(int64(7)).
			WillReturnRows(addBusinessRow(sqlmock.NewRows(businessRows), 7, "Colombo Coffee House", ownerID, 4.2, 17))

		profile, err := repo.GetByID(7)
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, int64(7), profile.ID)
		assert.Equal(t, "Colombo Coffee House", profile.BusinessName)
		assert.Equal(t, ownerID, profile.CreatedBy)
		assert.Equal(t, 4.2, profile.AverageRating)
		assert.Equal(t, 17, profile.TotalReviews)
		assert.True(t, profile.IsOwnedBy(ownerID))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found Returns Nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM business_profiles WHERE id`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		profile, err := repo.GetByID(99)
		require.NoError(t, err)
		assert.Nil(t, profile)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSearchBusinessProfilesByName(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBusinessRepository(db)

	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM business_profiles WHERE business_name ILIKE`).
		WithArgs("coffee").
		WillReturnRows(addBusinessRow(sqlmock.NewRows(businessRows), 7, "Colombo Coffee House", ownerID, 4.2, 17))

	profiles, err := repo.SearchByName("coffee")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Colombo Coffee House", profiles[0].BusinessName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeRating(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBusinessRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE business_profiles`).
			WithArgs(int64(7), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RecomputeRating(7)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE business_profiles`).
			WithArgs(int64(99), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RecomputeRating(99)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "business profile not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectExec(`UPDATE business_profiles`).
			WithArgs(int64(7), sqlmock.AnyArg()).
			WillReturnError(fmt.Errorf("deadlock detected"))

		err := repo.RecomputeRating(7)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to recompute business rating")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListBusinessProfileIDs(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBusinessRepository(db)

	mock.ExpectQuery(`SELECT id FROM business_profiles ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(int64(1)).
			AddRow(int64(2)).
			AddRow(int64(7)))

	ids, err := repo.ListIDs()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 7}, ids)

	assert.NoError(t, mock.ExpectationsWereMet())
}
