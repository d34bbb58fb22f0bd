package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"surat-portal/internal/dto"
	"surat-portal/internal/repository"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/jwt"
	"surat-portal/pkg/redis"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: email atau kata sandi salah", apperrors.ErrUnauthorized)
	ErrUserNotFound       = fmt.Errorf("%w: pengguna tidak ditemukan", apperrors.ErrNotFound)
)

// AuthService session use cases.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// Logout revokes the token id until expiresAt. Without Redis it is a no-op
	// and the cookie removal alone ends the session.
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, actor *Actor) (*dto.SessionUserResponse, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService creates an AuthService. rdb may be nil.
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. look up the account
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("get user by email failed", zap.Error(err))
		return nil, err
	}

	// 2. inactive accounts (including the template seeder) cannot sign in
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	// 3. verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 4. issue session
	token, err := s.jwtMgr.GenerateSessionToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		s.logger.Error("sign session token failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.jwtMgr.TTL().Seconds()),
		User: dto.SessionUserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  string(user.Role),
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("blacklist token failed", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Me(ctx context.Context, actor *Actor) (*dto.SessionUserResponse, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.repo.User.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.logger.Error("get session user failed", zap.String("user_id", actor.ID), zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	return &dto.SessionUserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}, nil
}
