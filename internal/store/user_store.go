package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jobportal/internal/auth"
	"jobportal/internal/database"
)

// UserStore persists accounts. It is the CredentialStore of the auth layer.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore returns a UserStore backed by db.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Lookup implements auth.CredentialStore.
func (s *UserStore) Lookup(ctx context.Context, username string) (auth.Account, bool, error) {
	user, err := s.FindByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return auth.Account{}, false, nil
	}
	if err != nil {
		return auth.Account{}, false, err
	}
	return auth.Account{ID: user.ID, Username: user.Username, Role: user.Role}, true, nil
}

// FindByUsername returns the user with username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (database.User, error) {
	var user database.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return user, translate(err)
}

// FindByID returns the user with id.
func (s *UserStore) FindByID(ctx context.Context, id uint) (database.User, error) {
	var user database.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	return user, translate(err)
}

// Create inserts user and fills its ID. A taken username yields ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, user *database.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

// Delete removes the user together with everything that references it:
// its applications, its jobs, and the applications to those jobs.
func (s *UserStore) Delete(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownedJobs := tx.Model(&database.Job{}).Select("id").Where("recruiter_id = ?", userID)
		if err := tx.Where("job_id IN (?)", ownedJobs).Delete(&database.JobApplication{}).Error; err != nil {
			return fmt.Errorf("delete applications to owned jobs: %w", err)
		}
		if err := tx.Where("applicant_id = ?", userID).Delete(&database.JobApplication{}).Error; err != nil {
			return fmt.Errorf("delete own applications: %w", err)
		}
		if err := tx.Where("recruiter_id = ?", userID).Delete(&database.Job{}).Error; err != nil {
			return fmt.Errorf("delete owned jobs: %w", err)
		}
		res := tx.Delete(&database.User{}, userID)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
