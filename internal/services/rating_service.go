package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/database"
	"github.com/brandbuilder/reviewgate-backend/internal/monitoring"
)

// RatingService keeps the denormalized average_rating and total_reviews
// columns on business profiles in sync with the reviews table.
type RatingService struct {
	businessRepo *database.BusinessRepository
	logger       *logrus.Logger
}

// NewRatingService creates a new rating service
func NewRatingService(businessRepo *database.BusinessRepository, logger *logrus.Logger) *RatingService {
	return &RatingService{
		businessRepo: businessRepo,
		logger:       logger,
	}
}

// Recompute recalculates the aggregate rating for one business profile
func (s *RatingService) Recompute(businessID int64) error {
	if err := s.businessRepo.RecomputeRating(businessID); err != nil {
		return fmt.Errorf("failed to recompute rating for business %d: %w", businessID, err)
	}
	return nil
}

// RecomputeAfterWrite runs after a review write has already committed.
// A failed recompute must never undo the review, so the error is logged
// and swallowed; the reconciliation sweep repairs any drift later.
func (s *RatingService) RecomputeAfterWrite(businessID int64) {
	if err := s.Recompute(businessID); err != nil {
		monitoring.RecordRecomputeFailure()
		s.logger.WithError(err).WithField("business_profile_id", businessID).
			Error("Rating recompute failed after review write; aggregates are stale until reconciliation")
	}
}

// ReconcileAll recomputes aggregates for every business profile and returns
// how many were processed. Individual failures are logged and counted but do
// not stop the sweep.
func (s *RatingService) ReconcileAll() (processed int, failed int, err error) {
	monitoring.RecordReconcileRun()

	ids, err := s.businessRepo.ListIDs()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list business profiles for reconciliation: %w", err)
	}

	for _, id := range ids {
		if err := s.Recompute(id); err != nil {
			failed++
			s.logger.WithError(err).WithField("business_profile_id", id).
				Warn("Reconciliation recompute failed for business")
			continue
		}
		processed++
	}

	s.logger.WithFields(logrus.Fields{
		"processed": processed,
		"failed":    failed,
	}).Info("Rating reconciliation sweep finished")

	return processed, failed, nil
}
