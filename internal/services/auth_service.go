package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sophisticated-cleaners/booking-backend/internal/database"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
	"github.com/sophisticated-cleaners/booking-backend/internal/utils"
	"github.com/sophisticated-cleaners/booking-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown email and wrong password so a
// caller cannot probe which addresses have accounts
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles account registration and authentication
type AuthService struct {
	users      *database.UserRepository
	sessions   *database.UserSessionRepository
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users *database.UserRepository,
	sessions *database.UserSessionRepository,
	jwtService *jwt.Service,
	bcryptCost int,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new client account and returns the user with a token pair
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, *models.TokenPair, error) {
	if existing, err := s.users.GetUserByEmail(req.Email); err == nil && existing != nil {
		return nil, nil, fmt.Errorf("an account with this email already exists")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(req.Email, string(hash), req.Name, req.Phone, []string{"client"})
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")

	return user, tokens, nil
}

// Login authenticates a user and records the session for the login audit.
// The session write is best-effort; a failed audit never blocks a login.
func (s *AuthService) Login(req *models.LoginRequest, ipAddress, userAgent string) (*models.User, *models.TokenPair, error) {
	user, err := s.users.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if user.Status != "active" {
		return nil, nil, fmt.Errorf("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	s.recordSession(user.ID, ipAddress, userAgent)

	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. Roles are
// re-read from the store so a role change takes effect on the next refresh.
func (s *AuthService) Refresh(refreshToken string) (*models.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.users.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account no longer exists")
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if user.Status != "active" {
		return nil, fmt.Errorf("account is inactive")
	}

	return s.issueTokens(user)
}

// GetProfile returns the account for a user ID
func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account not found")
		}
		return nil, err
	}
	return user, nil
}

// GetSessions returns the recent login audit records for a user
func (s *AuthService) GetSessions(userID uuid.UUID, limit int) ([]models.UserSession, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.sessions.ListByUser(userID, limit)
}

func (s *AuthService) issueTokens(user *models.User) (*models.TokenPair, error) {
	access, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) recordSession(userID uuid.UUID, ipAddress, userAgent string) {
	device := utils.ParseUserAgent(userAgent)

	session := &models.UserSession{
		UserID:     userID,
		DeviceType: device.DeviceType,
		OS:         &device.OS,
		Browser:    &device.Browser,
	}
	if ipAddress != "" {
		session.IPAddress = &ipAddress
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}

	if err := s.sessions.Create(session); err != nil {
		s.logger.WithField("user_id", userID).Warnf("Failed to record login session: %v", err)
	}
}
