package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"surat-portal/internal/dto"
	"surat-portal/internal/model"
	"surat-portal/internal/repository"
	apperrors "surat-portal/pkg/errors"
)

// ── user errors ──

var (
	ErrEmailExists       = fmt.Errorf("%w: email sudah terdaftar", apperrors.ErrConflict)
	ErrUserAdminOnly     = fmt.Errorf("%w: hanya admin yang dapat membuat pengguna", apperrors.ErrForbidden)
	ErrWrongPassword     = apperrors.FieldError("password.current", "kata sandi saat ini salah")
	ErrWeakPassword      = apperrors.FieldError("password.next", "kata sandi minimal 8 karakter dan memuat huruf kecil, huruf besar, angka, dan simbol")
	ErrSetupUnauthorized = fmt.Errorf("%w: login diperlukan", apperrors.ErrUnauthorized)
)

// UserService account use cases.
type UserService interface {
	// Create makes a new account. While the store has no users anyone may
	// create the first one (bootstrap); afterwards only admins.
	Create(ctx context.Context, req *dto.CreateUserRequest, actor *Actor) (*dto.CreateUserResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest, actor *Actor) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, actor *Actor) (*dto.CreateUserResponse, error) {
	count, err := s.repo.User.Count(ctx)
	if err != nil {
		s.logger.Error("count users failed", zap.Error(err))
		return nil, err
	}

	bootstrap := count == 0
	if !bootstrap {
		if actor == nil {
			return nil, ErrSetupUnauthorized
		}
		if !actor.IsAdmin() {
			return nil, ErrUserAdminOnly
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check email failed", zap.Error(err))
		return nil, err
	}

	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.FieldError("role", "role tidak valid")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if n := strings.TrimSpace(req.StudentNumber); n != "" {
		user.StudentNumber = &n
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Bool("bootstrap", bootstrap),
	)

	return &dto.CreateUserResponse{User: *toUserResponse(user), Bootstrap: bootstrap}, nil
}

// ────────────────────── UpdateProfile ──────────────────────

func (s *userService) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest, actor *Actor) (*dto.UserResponse, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.repo.User.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("id", actor.ID), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len([]rune(name)) < 2 {
			return nil, apperrors.FieldError("name", "nama minimal 2 karakter")
		}
		user.Name = name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = trimmedOrNil(req.AvatarURL)
	}
	if req.Password != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password.Current)); err != nil {
			return nil, ErrWrongPassword
		}
		if !StrongPassword(req.Password.Next) {
			return nil, ErrWeakPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password.Next), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("update profile failed", zap.String("id", user.ID), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// StrongPassword requires at least 8 characters with a lower-case letter,
// an upper-case letter, a digit and a symbol.
func StrongPassword(p string) bool {
	if len([]rune(p)) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          string(u.Role),
		StudentNumber: u.StudentNumber,
		AvatarURL:     u.AvatarURL,
		CreatedAt:     isoTime(u.CreatedAt),
	}
}
