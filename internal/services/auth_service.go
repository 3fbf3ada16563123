package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/brandbuilder/reviewgate-backend/internal/config"
	"github.com/brandbuilder/reviewgate-backend/internal/database"
	apperrors "github.com/brandbuilder/reviewgate-backend/internal/errors"
	"github.com/brandbuilder/reviewgate-backend/internal/models"
	"github.com/brandbuilder/reviewgate-backend/pkg/jwt"
)

// AuthService handles login, token refresh, logout and role management.
// Regular accounts come from an external identity provider; the backend only
// receives the verified profile. A single bootstrap admin may log in with a
// password so the platform is usable before any provider login has happened.
type AuthService struct {
	userRepo  *database.UserRepository
	tokenRepo *database.RefreshTokenRepository
	jwtSvc    *jwt.Service
	audit     *AuditService
	adminCfg  config.AdminConfig
	logger    *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo *database.UserRepository,
	tokenRepo *database.RefreshTokenRepository,
	jwtSvc *jwt.Service,
	audit *AuditService,
	adminCfg config.AdminConfig,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSvc:    jwtSvc,
		audit:     audit,
		adminCfg:  adminCfg,
		logger:    logger,
	}
}

// ProviderLogin upserts a user from a verified identity-provider profile and
// issues a token pair. Accounts listed in the admin seed get the admin role.
func (s *AuthService) ProviderLogin(profile *models.ProviderProfile, ipAddress, userAgent string) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(profile.Email)
	if err != nil {
		return nil, apperrors.Internal("failed to look up user", err)
	}

	if user == nil {
		user, err = s.userRepo.CreateFromProvider(profile)
		if err != nil {
			return nil, apperrors.Internal("failed to create user", err)
		}
		s.logger.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"email":    user.Email,
			"provider": user.Provider,
		}).Info("New user created from provider login")
	} else {
		if err := s.userRepo.UpdateProviderProfile(user.ID, profile.Name, profile.Picture); err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).
				Warn("Failed to refresh provider profile on login")
		}
		user.Name = profile.Name
		user.PictureURL = models.NewNullString(profile.Picture)
	}

	if s.isSeedAdmin(user.Email) && !user.HasRole(models.RoleAdmin) {
		if err := s.userRepo.AddRole(user.ID, models.RoleAdmin); err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).
				Error("Failed to grant seeded admin role")
		} else {
			user.Roles = append(user.Roles, models.RoleAdmin)
			s.logger.WithField("email", user.Email).Info("Seeded admin role granted on login")
		}
	}

	resp, err := s.issueTokens(user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	if err := s.audit.LogLogin(user.ID, user.Email, user.Provider, ipAddress, userAgent); err != nil {
		s.logger.WithError(err).Warn("Failed to write login audit event")
	}

	return resp, nil
}

// PasswordLogin authenticates the bootstrap admin account
func (s *AuthService) PasswordLogin(email, password, ipAddress, userAgent string) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, apperrors.Internal("failed to look up user", err)
	}
	if user == nil || !user.PasswordHash.Valid {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash.String), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	resp, err := s.issueTokens(user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	if err := s.audit.LogLogin(user.ID, user.Email, user.Provider, ipAddress, userAgent); err != nil {
		s.logger.WithError(err).Warn("Failed to write login audit event")
	}

	return resp, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. Expired, revoked or unknown tokens are rejected.
func (s *AuthService) Refresh(refreshToken, ipAddress, userAgent string) (*models.LoginResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	stored, err := s.tokenRepo.Get(refreshToken)
	if err != nil {
		return nil, apperrors.Internal("failed to look up refresh token", err)
	}
	if stored == nil || stored.Revoked || stored.ExpiresAt.Before(time.Now()) {
		if auditErr := s.audit.LogTokenRefresh(claims.UserID, ipAddress, userAgent, false); auditErr != nil {
			s.logger.WithError(auditErr).Warn("Failed to write token refresh audit event")
		}
		return nil, apperrors.Unauthorized("refresh token is no longer valid")
	}

	user, err := s.userRepo.GetByID(stored.UserID)
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized("account no longer exists")
	}

	if err := s.tokenRepo.Revoke(refreshToken); err != nil {
		return nil, apperrors.Internal("failed to rotate refresh token", err)
	}

	resp, err := s.issueTokens(user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	if err := s.audit.LogTokenRefresh(user.ID, ipAddress, userAgent, true); err != nil {
		s.logger.WithError(err).Warn("Failed to write token refresh audit event")
	}

	return resp, nil
}

// Logout revokes a single refresh token
func (s *AuthService) Logout(userID uuid.UUID, refreshToken, ipAddress, userAgent string) error {
	if refreshToken != "" {
		if err := s.tokenRepo.Revoke(refreshToken); err != nil {
			return apperrors.Internal("failed to revoke refresh token", err)
		}
	}

	if err := s.audit.LogLogout(userID, ipAddress, userAgent, false); err != nil {
		s.logger.WithError(err).Warn("Failed to write logout audit event")
	}
	return nil
}

// LogoutAll revokes every refresh token belonging to the user
func (s *AuthService) LogoutAll(userID uuid.UUID, ipAddress, userAgent string) error {
	if err := s.tokenRepo.RevokeAllForUser(userID); err != nil {
		return apperrors.Internal("failed to revoke refresh tokens", err)
	}

	if err := s.audit.LogLogout(userID, ipAddress, userAgent, true); err != nil {
		s.logger.WithError(err).Warn("Failed to write logout audit event")
	}
	return nil
}

// AssignRole grants a role to a user
func (s *AuthService) AssignRole(targetID uuid.UUID, role string) (*models.User, error) {
	if !models.ValidRoles[role] {
		return nil, apperrors.Validation("invalid role: %s", role)
	}

	user, err := s.userRepo.GetByID(targetID)
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s not found", targetID)
	}

	if err := s.userRepo.AddRole(targetID, role); err != nil {
		return nil, apperrors.Internal("failed to assign role", err)
	}

	return s.reloadUser(targetID)
}

// RevokeRole removes a role from a user. The customer role cannot be removed.
func (s *AuthService) RevokeRole(targetID uuid.UUID, role string) (*models.User, error) {
	if !models.ValidRoles[role] {
		return nil, apperrors.Validation("invalid role: %s", role)
	}
	if role == models.RoleCustomer {
		return nil, apperrors.Policy("the customer role cannot be revoked")
	}

	user, err := s.userRepo.GetByID(targetID)
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s not found", targetID)
	}

	if err := s.userRepo.RemoveRole(targetID, role); err != nil {
		return nil, apperrors.Internal("failed to revoke role", err)
	}

	return s.reloadUser(targetID)
}

// GetUser loads a user by id
func (s *AuthService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s not found", id)
	}
	return user, nil
}

// ListUsers retrieves users with pagination for the admin panel
func (s *AuthService) ListUsers(limit, offset int) ([]*models.User, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.List(limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list users", err)
	}

	total, err := s.userRepo.Count()
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count users", err)
	}

	return users, total, nil
}

// EnsureBootstrapAdmin creates the password-protected bootstrap admin account
// at startup if it is configured and does not exist yet
func (s *AuthService) EnsureBootstrapAdmin() error {
	if s.adminCfg.BootstrapEmail == "" || s.adminCfg.BootstrapPassword == "" {
		return nil
	}

	existing, err := s.userRepo.GetByEmail(s.adminCfg.BootstrapEmail)
	if err != nil {
		return apperrors.Internal("failed to look up bootstrap admin", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.adminCfg.BootstrapPassword), s.adminCfg.BcryptCost)
	if err != nil {
		return apperrors.Internal("failed to hash bootstrap admin password", err)
	}

	if _, err := s.userRepo.CreateBootstrapAdmin(s.adminCfg.BootstrapEmail, "Administrator", string(hash)); err != nil {
		return apperrors.Internal("failed to create bootstrap admin", err)
	}

	s.logger.WithField("email", s.adminCfg.BootstrapEmail).Info("Bootstrap admin account created")
	return nil
}

// CleanupExpiredTokens removes refresh tokens past their expiry
func (s *AuthService) CleanupExpiredTokens() (int64, error) {
	return s.tokenRepo.DeleteExpired()
}

// issueTokens creates an access/refresh pair and stores the refresh token hash
func (s *AuthService) issueTokens(user *models.User, ipAddress, userAgent string) (*models.LoginResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, apperrors.Internal("failed to generate access token", err)
	}

	refreshToken, err := s.jwtSvc.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal("failed to generate refresh token", err)
	}

	expiresAt := time.Now().Add(s.jwtSvc.RefreshTokenExpiry())
	if err := s.tokenRepo.Store(user.ID, refreshToken, ipAddress, userAgent, expiresAt); err != nil {
		return nil, apperrors.Internal("failed to store refresh token", err)
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtSvc.AccessTokenExpiry().Seconds()),
		User:         user,
	}, nil
}

func (s *AuthService) isSeedAdmin(email string) bool {
	for _, seed := range s.adminCfg.SeedEmails {
		if strings.EqualFold(seed, email) {
			return true
		}
	}
	return false
}

func (s *AuthService) reloadUser(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal("failed to reload user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s not found", id)
	}
	return user, nil
}
