package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
)

// CreateUserIfNotExists inserts the user together with an empty profile.
func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).Where("username = ?", u.Username).FirstOrCreate(u)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %q already exists: %w", u.Username, domain.ErrConflict)
		}
		u.Profile = models.Profile{UserID: u.ID}
		return tx.Create(&u.Profile).Error
	})
	return classify(err)
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

func (r *GormRepo) AddRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return classify(r.DB.WithContext(ctx).Create(t).Error)
}

// RotateRefreshToken revokes the token with oldJTI and stores next in its
// place. A missing, expired or already revoked token is ErrUnauthenticated.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, next *models.RefreshToken) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.RefreshToken
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("jti = ?", oldJTI).First(&old).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("refresh token unknown: %w", domain.ErrUnauthenticated)
		}
		if err != nil {
			return err
		}
		if old.Revoked || old.ExpiresAt < time.Now().Unix() {
			return fmt.Errorf("refresh token expired or revoked: %w", domain.ErrUnauthenticated)
		}
		if err := tx.Model(&old).Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(next).Error
	})
	return classify(err)
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", jwthelp.Sha256Hex(refreshToken)).
		Update("revoked", true).Error
}
