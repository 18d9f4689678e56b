package service

import (
	"errors"
	"net/http"
	"time"

	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/repository"
	"go-bakery-trace/pkg/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expiresAt"`
	User       model.UserResponse `json:"user"`
	Privileges []string           `json:"privileges"`
}

type AuthService interface {
	Login(req *LoginRequest) (*LoginResponse, error)
	// ResetPassword sets a new password and revokes every open session.
	ResetPassword(email, newPassword string) error
	Me(userID uuid.UUID) (*model.UserResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	ttl      time.Duration
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, ttl time.Duration, logger *zap.Logger) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, ttl: ttl, logger: logger}
}

func unauthorized(err error) *AppError {
	return newAppError(http.StatusUnauthorized, CodeUnauthorized, capitalize(err.Error()), err)
}

func (s *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, unauthorized(ErrInvalidCredentials)
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, unauthorized(ErrUserInactive)
	}

	// 3. Verify password
	if !user.CheckPassword(req.Password) {
		return nil, unauthorized(ErrInvalidCredentials)
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	// 4. Single session: a new token version invalidates older tokens
	now := time.Now()
	user.TokenVersion = uuid.New().String()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, internalError(CodeInternal, "Failed to update session", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName, roleCode, user.GetPrivilegeCodes(), user.TokenVersion)
	if err != nil {
		return nil, internalError(CodeInternal, "Failed to generate token", err)
	}

	s.logger.Info("user logged in", zap.String("email", user.Email), zap.String("role", roleCode))
	return &LoginResponse{
		Token:      token,
		ExpiresAt:  now.Add(s.ttl),
		User:       user.ToResponse(),
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ResetPassword(email, newPassword string) error {
	if len(newPassword) < 8 {
		return validationError(capitalize(ErrWeakPassword.Error()), nil)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return notFoundUser(email)
	}
	if err := user.SetPassword(newPassword); err != nil {
		return internalError(CodeInternal, "Failed to hash new password", err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return internalError(CodeInternal, "Failed to update password", err)
	}
	if err := s.userRepo.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
		return internalError(CodeInternal, "Failed to revoke sessions", err)
	}

	s.logger.Info("password reset", zap.String("email", email))
	return nil
}

func (s *authService) Me(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, unauthorized(ErrUserNotFound)
	}
	resp := user.ToResponse()
	return &resp, nil
}

func notFoundUser(email string) *AppError {
	e := newAppError(http.StatusNotFound, CodeNotFound, capitalize(ErrUserNotFound.Error()), ErrUserNotFound)
	e.Details = map[string]interface{}{"email": email}
	return e
}
