package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByVerificationToken(ctx context.Context, token string, now time.Time) (*User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, id uuid.UUID, changes ProfileChanges) error
}

// ProfileChanges holds the user-editable columns. Nil fields are left untouched.
type ProfileChanges struct {
	Name     *string
	Password *string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByVerificationToken only matches tokens that have not expired at now.
func (r *repository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("email_verification_token = ?", token).
		Where("email_verification_expires > ?", now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// MarkEmailVerified writes only the verification columns so a concurrent
// balance deduction on the same row is never overwritten.
func (r *repository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_email_verified":          true,
			"email_verification_token":   nil,
			"email_verification_expires": nil,
		}).Error
}

func (r *repository) UpdateProfile(ctx context.Context, id uuid.UUID, changes ProfileChanges) error {
	values := map[string]any{}
	if changes.Name != nil {
		values["name"] = *changes.Name
	}
	if changes.Password != nil {
		values["password"] = *changes.Password
	}
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(values).Error
}
