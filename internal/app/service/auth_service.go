package service

import (
	"context"
	"errors"
	"fmt"

	"adventure_hunt/internal/common"
	"adventure_hunt/internal/common/security"
	"adventure_hunt/internal/domain/model"
	"adventure_hunt/internal/domain/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	LoginField string `json:"login_field"` // Can be username or email
	Password   string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", common.ErrBadRequest)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		common.Logger.Error("password hashing failed", zap.Error(err))
		return nil, common.ErrInternalServer
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser, // Default role
		CurrentLevel:   1,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		common.Logger.Error("user creation failed", zap.Error(err))
		return nil, common.ErrInternalServer
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		common.Logger.Error("token generation failed", zap.Error(err))
		return nil, common.ErrInternalServer
	}
	user.HashedPassword = "" // Clear password before returning
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.LoginField == "" || req.Password == "" {
		return nil, fmt.Errorf("login and password are required: %w", common.ErrBadRequest)
	}

	// Try finding by email first, then by username
	user, err := s.userRepo.FindByEmail(ctx, req.LoginField)
	if errors.Is(err, common.ErrNotFound) {
		user, err = s.userRepo.FindByUsername(ctx, req.LoginField)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		common.Logger.Error("user lookup failed", zap.Error(err))
		return nil, common.ErrInternalServer
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		common.Logger.Error("token generation failed", zap.Error(err))
		return nil, common.ErrInternalServer
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the timestamp is advisory.
		common.Logger.Warn("last_login update failed", zap.Error(err))
	}

	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		common.Logger.Error("user lookup failed", zap.Error(err))
		return nil, common.ErrInternalServer
	}
	user.HashedPassword = ""
	return user, nil
}
