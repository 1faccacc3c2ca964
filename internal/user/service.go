package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GarageBook/GarageBook/internal/common/apperr"
	"github.com/GarageBook/GarageBook/internal/common/auth"
	"github.com/GarageBook/GarageBook/internal/common/config"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service 封装身份与凭证相关用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	repo    *Repo
	authCfg config.AuthConfig
}

func NewService(db *gorm.DB, authCfg config.AuthConfig) *Service {
	return &Service{
		repo:    NewRepo(db),
		authCfg: authCfg,
	}
}

// RegisterInput 注册入参。Name 可为空，Email/Password 必填。
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register 注册新用户。邮箱已存在时返回 Conflict。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Summary, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("email/password required: %w", apperr.ErrInvalidInput)
	}

	// check existence
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", apperr.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return toSummary(u), nil
}

// Login 校验凭证并签发会话令牌。
// “用户不存在” 与 “密码错误” 返回同一个错误，不泄露账号存在性。
func (s *Service) Login(ctx context.Context, email, password string) (token string, expiresAt time.Time, sum *Summary, err error) {
	if s == nil || s.repo == nil {
		return "", time.Time{}, nil, fmt.Errorf("service not initialized")
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", time.Time{}, nil, apperr.ErrInvalidCredentials
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", time.Time{}, nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, nil, err
	}
	if !VerifyPassword(password, u.PasswordHash) {
		return "", time.Time{}, nil, apperr.ErrInvalidCredentials
	}

	ttl := time.Duration(s.authCfg.TokenTTLHoursOrDefault()) * time.Hour
	token, expiresAt, err = auth.GenerateAccessToken(s.authCfg, u.ID, ttl)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, toSummary(u), nil
}

// Profile 返回已认证用户自身的信息。
func (s *Service) Profile(ctx context.Context, userID string) (*Summary, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	u, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return toSummary(u), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
