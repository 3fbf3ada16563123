package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandbuilder/reviewgate-backend/internal/models"
)

var feedbackRows = []string{
	"id", "review_id", "feedback_text", "service_quality", "staff_behavior",
	"cleanliness", "value_for_money", "overall_experience", "suggestions",
	"contact_email", "contact_phone", "wants_followup", "status",
	"admin_response", "responded_at", "created_at",
}

func TestCreateFeedback(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFeedbackRepository(db)

	feedback := &models.Feedback{
		ReviewID:      42,
		FeedbackText:  models.NewNullString("The wait was too long"),
		WantsFollowup: true,
		Status:        models.FeedbackStatusNew,
		CreatedAt:     time.Now(),
	}

	mock.ExpectQuery(`INSERT INTO feedback`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	err := repo.Create(feedback)
	require.NoError(t, err)
	assert.Equal(t, int64(5), feedback.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFeedbackByReviewID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFeedbackRepository(db)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM feedback WHERE review_id`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(feedbackRows).AddRow(
				int64(5), int64(42), "The wait was too long", nil, nil,
				nil, nil, nil, nil,
				"jane@example.com", nil, true, "NEW",
				nil, nil, now,
			))

		feedback, err := repo.GetByReviewID(42)
		require.NoError(t, err)
		require.NotNil(t, feedback)
		assert.Equal(t, int64(5), feedback.ID)
		assert.Equal(t, int64(42), feedback.ReviewID)
		assert.Equal(t, models.FeedbackStatusNew, feedback.Status)
		assert.True(t, feedback.WantsFollowup)
		assert.False(t, feedback.RespondedAt.Valid)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found Returns Nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM feedback WHERE review_id`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		feedback, err := repo.GetByReviewID(99)
		require.NoError(t, err)
		assert.Nil(t, feedback)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateFeedbackStatus(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFeedbackRepository(db)

	t.Run("With Admin Response", func(t *testing.T) {
		mock.ExpectExec(`UPDATE feedback`).
			WithArgs("RESOLVED", "We spoke with the staff involved", sqlmock.AnyArg(), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(5, models.FeedbackStatusResolved, "We spoke with the staff involved")
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Status Only", func(t *testing.T) {
		mock.ExpectExec(`UPDATE feedback SET status`).
			WithArgs("IN_PROGRESS", int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(5, models.FeedbackStatusInProgress, "")
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE feedback SET status`).
			WithArgs("CLOSED", int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(99, models.FeedbackStatusClosed, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "feedback not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListFeedbackByStatus(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFeedbackRepository(db)

	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM feedback WHERE status`).
		WithArgs("NEW").
		WillReturnRows(sqlmock.NewRows(feedbackRows).AddRow(
			int64(5), int64(42), "The wait was too long", nil, nil,
			nil, nil, nil, nil,
			nil, nil, false, "NEW",
			nil, nil, now,
		))

	feedbacks, err := repo.ListByStatus(models.FeedbackStatusNew)
	require.NoError(t, err)
	require.Len(t, feedbacks, 1)
	assert.Equal(t, models.FeedbackStatusNew, feedbacks[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}
