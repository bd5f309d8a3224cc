// Package auth implements the edit-password gate: a bcrypt hash stored in
// app settings, verified to issue a short-lived session token held in Redis.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/model"
	redis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	passwordHashKey = "edit_password_hash"
	sessionPrefix   = "edit_session_"
	sessionTTL      = 8 * time.Hour

	// defaultPassword gates edits until the user changes it.
	defaultPassword = "fitlife2025"

	bcryptCost        = 12
	minPasswordLength = 8
)

// Sessions stores issued edit tokens in Redis with a TTL.
type Sessions struct {
	conn *redis.Client
}

// NewSessions connects to Redis at the given URL.
func NewSessions(ctx context.Context, addr string) (*Sessions, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	conn := redis.NewClient(opt)
	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &Sessions{conn: conn}, nil
}

// Issue creates a new edit session token.
func (s *Sessions) Issue(ctx context.Context) (string, error) {
	token := uuid.NewString()
	if err := s.conn.Set(ctx, sessionPrefix+token, "1", sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("storing session token: %w", err)
	}
	return token, nil
}

// Valid reports whether a token is a live edit session.
func (s *Sessions) Valid(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := s.conn.Exists(ctx, sessionPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("checking session token: %w", err)
	}
	return n > 0, nil
}

// EnsureDefaultPassword seeds the edit password hash on first run.
func EnsureDefaultPassword(db *gorm.DB) error {
	var row model.AppSetting
	err := db.Where("setting_key = ?", passwordHashKey).First(&row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("loading password setting: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing default password: %w", err)
	}
	row = model.AppSetting{Key: passwordHashKey, Value: string(hash)}
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("seeding password setting: %w", err)
	}
	return nil
}

// VerifyPassword checks the edit password and, on success, issues a
// session token.
func VerifyPassword(ctx context.Context, db *gorm.DB, sessions *Sessions, password string) (string, error) {
	if password == "" {
		return "", apierror.Validation("password is required")
	}

	var row model.AppSetting
	err := db.Where("setting_key = ?", passwordHashKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apierror.NotFound("edit password is not configured")
	}
	if err != nil {
		return "", fmt.Errorf("loading password setting: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(row.Value), []byte(password)) != nil {
		return "", apierror.Validation("incorrect password")
	}

	return sessions.Issue(ctx)
}

// ChangePassword replaces the edit password. Requires a valid session
// token from a prior VerifyPassword.
func ChangePassword(ctx context.Context, db *gorm.DB, sessions *Sessions, token, newPassword string) error {
	ok, err := sessions.Valid(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.Validation("a valid session token is required")
	}
	if len(newPassword) < minPasswordLength {
		return apierror.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	res := db.Model(&model.AppSetting{}).Where("setting_key = ?", passwordHashKey).Update("setting_value", string(hash))
	if res.Error != nil {
		return fmt.Errorf("saving password setting: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apierror.NotFound("edit password is not configured")
	}
	return nil
}
