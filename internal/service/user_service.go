package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecopark/internal/apperror"
	"ecopark/internal/auth"
	"ecopark/internal/logger"
	"ecopark/internal/model"
	"ecopark/internal/repository"
	"ecopark/internal/session"
	"ecopark/pkg/pagination"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type CreateUserRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required"`
	ParkName  string `json:"park_name"`
}

type UpdateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	ParkName  string `json:"park_name"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	ExpiresIn int64        `json:"expires_in"` // seconds
	User      UserResponse `json:"user"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Role        string    `json:"role"`
	ParkName    string    `json:"park_name,omitempty"`
	LastLoginAt *string   `json:"last_login_at"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, role string, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo     repository.UserRepository
	audits   repository.AuditRepository
	tokens   *auth.TokenManager
	sessions session.Store
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, audits repository.AuditRepository, tokens *auth.TokenManager, sessions session.Store) UserService {
	return &userService{repo: repo, audits: audits, tokens: tokens, sessions: sessions}
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	resp := &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		ParkName:  user.ParkName,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		s := user.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &s
	}
	return resp
}

func invalidRole() error {
	return apperror.Validation(map[string]string{
		"role": "must be one of: " + strings.Join(model.Roles, ", "),
	})
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if !model.IsValidRole(req.Role) {
		return nil, invalidRole()
	}
	if req.Role == model.RoleParkStaff && !model.Contains(model.Parks, req.ParkName) {
		return nil, apperror.Validation(map[string]string{"park_name": "is required for park staff"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Phone:     req.Phone,
		Password:  string(hashedPassword),
		Role:      req.Role,
		ParkName:  req.ParkName,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user.ID, user.Role, user.ParkName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.repo.TouchLastLogin(ctx, user.ID.String(), now); err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID.String()).Warn("failed to record last login")
	} else {
		user.LastLoginAt = &now
	}
	s.recordSession(ctx, model.ActionLogin, user.ID, user.Email, user.Role)

	return &TokenResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time.Format(time.RFC3339),
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
		User:      *mapToResponse(user),
	}, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *userService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	if userID, err := claims.UserID(); err == nil {
		s.recordSession(ctx, model.ActionLogout, userID, "", claims.Role)
	}
	return nil
}

// recordSession writes a login or logout to the audit trail. Failures are
// logged and never block the session change.
func (s *userService) recordSession(ctx context.Context, action string, userID uuid.UUID, email, role string) {
	details, _ := json.Marshal(map[string]string{"email": email, "role": role})
	if err := s.audits.Log(ctx, &model.AuditLog{
		UserID:     &userID,
		Action:     action,
		EntityID:   userID.String(),
		EntityName: email,
		Details:    string(details),
	}); err != nil {
		logger.Log.WithError(err).WithField("action", action).Warn("failed to record session event")
	}
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, userNotFoundOr(err)
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, role string, page, limit int) ([]UserResponse, int64, error) {
	p := pagination.Normalize(page, limit)
	users, total, err := s.repo.List(ctx, role, p.Page, p.Limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, userNotFoundOr(err)
	}

	if req.Role != "" {
		if !model.IsValidRole(req.Role) {
			return nil, invalidRole()
		}
		user.Role = req.Role
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email != user.Email {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				return nil, apperror.New(apperror.ErrCodeConflict, "email already exists")
			}
			user.Email = email
		}
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.ParkName != "" {
		if !model.Contains(model.Parks, req.ParkName) {
			return nil, apperror.Validation(map[string]string{"park_name": "must be one of: " + strings.Join(model.Parks, ", ")})
		}
		user.ParkName = req.ParkName
	}

	if user.Role == model.RoleParkStaff && !model.Contains(model.Parks, user.ParkName) {
		return nil, apperror.Validation(map[string]string{"park_name": "is required for park staff"})
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return userNotFoundOr(err)
	}
	return s.repo.Delete(ctx, id)
}

func userNotFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrUserNotFound
	}
	return fmt.Errorf("failed to load user: %w", err)
}
