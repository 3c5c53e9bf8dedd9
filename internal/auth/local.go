package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/AssocCMS/AssocCMS/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate checks login, a username or an email address, and password.
func (p *LocalProvider) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrUserNotFound
	}

	var user models.User

	err := p.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if err = touchLogin(ctx, p.db, &user, models.AuthSourceLocal); err != nil {
		return nil, err
	}

	return &user, nil
}

// touchLogin records a successful login on u.
func touchLogin(ctx context.Context, db *gorm.DB, u *models.User, source models.AuthSource) error {
	now := time.Now()

	err := db.WithContext(ctx).Model(u).Updates(map[string]any{
		"last_login_at": now,
		"auth_source":   source,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	u.LastLoginAt = &now
	u.AuthSource = source

	return nil
}
