package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"jobportal/internal/database"
)

// ApplicationStore persists job applications.
type ApplicationStore struct {
	db *gorm.DB
}

// NewApplicationStore returns an ApplicationStore backed by db.
func NewApplicationStore(db *gorm.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

// CreateUnique inserts app unless the applicant already applied to the job.
// The existence check and the insert share one transaction; the unique index
// on (applicant_id, job_id) settles concurrent inserts. Returns ErrDuplicate.
func (s *ApplicationStore) CreateUnique(ctx context.Context, app *database.JobApplication) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := NewApplicationStore(tx).FindByApplicantAndJob(ctx, app.ApplicantID, app.JobID)
		switch {
		case err == nil:
			return ErrDuplicate
		case !errors.Is(err, ErrNotFound):
			return err
		}
		return translate(tx.Omit("Job", "Applicant").Create(app).Error)
	})
}

// FindByApplicantAndJob returns the application of applicantID to jobID.
func (s *ApplicationStore) FindByApplicantAndJob(ctx context.Context, applicantID, jobID uint) (database.JobApplication, error) {
	var app database.JobApplication
	err := s.db.WithContext(ctx).
		Where("applicant_id = ? AND job_id = ?", applicantID, jobID).
		First(&app).Error
	return app, translate(err)
}

// FindByID returns the application with its job, the job's recruiter and the applicant loaded.
func (s *ApplicationStore) FindByID(ctx context.Context, id uint) (database.JobApplication, error) {
	var app database.JobApplication
	err := s.db.WithContext(ctx).
		Preload("Job.Recruiter").
		Preload("Applicant").
		First(&app, id).Error
	return app, translate(err)
}

// FindByApplicant returns applicantID's applications, most recent first.
func (s *ApplicationStore) FindByApplicant(ctx context.Context, applicantID uint) ([]database.JobApplication, error) {
	var apps []database.JobApplication
	err := s.db.WithContext(ctx).
		Preload("Job.Recruiter").
		Where("applicant_id = ?", applicantID).
		Order("applied_at DESC, id DESC").
		Find(&apps).Error
	return apps, translate(err)
}

// FindByJob returns the applications to jobID, oldest first.
func (s *ApplicationStore) FindByJob(ctx context.Context, jobID uint) ([]database.JobApplication, error) {
	var apps []database.JobApplication
	err := s.db.WithContext(ctx).
		Preload("Applicant").
		Where("job_id = ?", jobID).
		Order("applied_at ASC, id ASC").
		Find(&apps).Error
	return apps, translate(err)
}

// UpdateStatus sets the status of application id.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, id uint, status string, at time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&database.JobApplication{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": at})
	if res.Error != nil {
		return fmt.Errorf("update application status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByJob removes every application to jobID.
func (s *ApplicationStore) DeleteByJob(ctx context.Context, jobID uint) error {
	if err := s.db.WithContext(ctx).Where("job_id = ?", jobID).Delete(&database.JobApplication{}).Error; err != nil {
		return fmt.Errorf("delete applications of job %d: %w", jobID, err)
	}
	return nil
}
