package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/brandbuilder/reviewgate-backend/internal/database"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
	"github.com/brandbuilder/reviewgate-backend/internal/monitoring"
	"github.com/brandbuilder/reviewgate-backend/pkg/mailer"
)

// NotificationService emails business owners about new reviews. One email is
// sent per review, immediately after the write commits; delivery failures are
// logged and never surfaced to the caller.
type NotificationService struct {
	mailer      mailer.Mailer
	userRepo    *database.UserRepository
	logger      *logrus.Logger
	appName     string
	frontendURL string
}

// NewNotificationService creates a new notification service
func NewNotificationService(m mailer.Mailer, userRepo *database.UserRepository, logger *logrus.Logger, appName, frontendURL string) *NotificationService {
	return &NotificationService{
		mailer:      m,
		userRepo:    userRepo,
		logger:      logger,
		appName:     appName,
		frontendURL: frontendURL,
	}
}

// NotifyReviewSubmitted emails the owner of the reviewed business. Safe to
// call in a goroutine after the review has been persisted.
func (s *NotificationService) NotifyReviewSubmitted(review *models.Review, business *models.BusinessProfile) {
	owner, err := s.userRepo.GetByID(business.CreatedBy)
	if err != nil || owner == nil {
		s.logger.WithError(err).WithField("business_profile_id", business.ID).
			Error("Failed to load business owner for review notification")
		return
	}

	subject := fmt.Sprintf("New %d-Star Review for %s", review.Rating, business.BusinessName)
	body := s.composeReviewBody(review, business, owner)

	if err := s.mailer.SendMail(owner.Email, subject, body); err != nil {
		monitoring.RecordNotificationFailed()
		s.logger.WithError(err).WithFields(logrus.Fields{
			"to":        owner.Email,
			"review_id": review.ID,
		}).Error("Failed to send review notification email")
		return
	}

	monitoring.RecordNotificationSent()
	s.logger.WithFields(logrus.Fields{
		"to":        owner.Email,
		"review_id": review.ID,
		"rating":    review.Rating,
	}).Info("Review notification email sent")
}

func (s *NotificationService) composeReviewBody(review *models.Review, business *models.BusinessProfile, owner *models.User) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", owner.Name)
	fmt.Fprintf(&b, "You have received a new review for your business: %s\n\n", business.BusinessName)
	fmt.Fprintf(&b, "RATING: %d/5 stars\n\n", review.Rating)

	customerName, customerEmail := s.customerIdentity(review)
	if review.IsAnonymous {
		b.WriteString("Customer: Anonymous Customer\n")
	} else if customerEmail != "" {
		fmt.Fprintf(&b, "Customer: %s (%s)\n", customerName, customerEmail)
	} else {
		fmt.Fprintf(&b, "Customer: %s\n", customerName)
	}
	fmt.Fprintf(&b, "Date: %s\n\n", review.CreatedAt.Format("Jan 02, 2006 at 15:04"))

	if review.Comment.Valid && strings.TrimSpace(review.Comment.String) != "" {
		fmt.Fprintf(&b, "REVIEW COMMENT:\n%q\n\n", review.Comment.String)
	}

	if review.Rating <= 2 {
		b.WriteString("This is a concerning low rating. ")
	} else if review.Rating == 3 {
		b.WriteString("This is an average rating that could be improved. ")
	}
	if review.Rating <= models.RedirectThreshold {
		b.WriteString("The customer was shown a feedback form to provide more details about their experience. ")
		b.WriteString("You can check if they provided additional feedback in your admin panel.\n\n")
	} else {
		b.WriteString("The customer was invited to share this review publicly on Google.\n\n")
	}

	b.WriteString("NEXT STEPS:\n")
	b.WriteString("- Review this feedback carefully\n")
	b.WriteString("- Identify areas for improvement\n")
	b.WriteString("- Consider reaching out to address any concerns\n")
	if !review.IsAnonymous && customerEmail != "" {
		fmt.Fprintf(&b, "- Customer contact: %s\n", customerEmail)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "View all reviews: %s/admin\n", s.frontendURL)
	fmt.Fprintf(&b, "Your business page: %s/%s\n\n", s.frontendURL, businessSlug(business.BusinessName))
	fmt.Fprintf(&b, "Best regards,\n%s Team", s.appName)

	return b.String()
}

// customerIdentity resolves display name and contact email for the reviewer,
// falling back to the linked account for authenticated reviews
func (s *NotificationService) customerIdentity(review *models.Review) (name, email string) {
	if review.IsAnonymous {
		return "Anonymous Customer", ""
	}

	if review.CustomerName.Valid && strings.TrimSpace(review.CustomerName.String) != "" {
		name = review.CustomerName.String
	}
	if review.CustomerEmail.Valid {
		email = review.CustomerEmail.String
	}

	if (name == "" || email == "") && review.CustomerID.Valid {
		customer, err := s.userRepo.GetByID(review.CustomerID.UUID)
		if err == nil && customer != nil {
			if name == "" {
				name = customer.Name
			}
			if email == "" {
				email = customer.Email
			}
		}
	}

	if name == "" {
		name = "Customer"
	}
	return name, email
}

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe    = regexp.MustCompile(`\s+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// businessSlug builds the URL-friendly slug used for public business pages
func businessSlug(businessName string) string {
	slug := strings.ToLower(strings.TrimSpace(businessName))
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugSpaceRe.ReplaceAllString(slug, "-")
	slug = slugCollapseRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
