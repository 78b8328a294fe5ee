package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobportal/internal/database"
)

// SearchQuery is the store level form of a job search. Nil or empty fields impose no constraint.
type SearchQuery struct {
	Keyword    string
	Location   string
	JobType    string
	MinSalary  *float64
	MaxSalary  *float64
	SortColumn string
	Descending bool
	Offset     int
	Limit      int
}

// JobStore persists job listings.
type JobStore struct {
	db *gorm.DB
}

// NewJobStore returns a JobStore backed by db.
func NewJobStore(db *gorm.DB) *JobStore {
	return &JobStore{db: db}
}

// Create inserts job without touching the recruiter row.
func (s *JobStore) Create(ctx context.Context, job *database.Job) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(job).Error; err != nil {
		return translate(err)
	}
	return translate(s.db.WithContext(ctx).Preload("Recruiter").First(job, job.ID).Error)
}

// FindByID returns the job with its recruiter loaded.
func (s *JobStore) FindByID(ctx context.Context, id uint) (database.Job, error) {
	var job database.Job
	err := s.db.WithContext(ctx).Preload("Recruiter").First(&job, id).Error
	return job, translate(err)
}

// Save overwrites every column of job.
func (s *JobStore) Save(ctx context.Context, job *database.Job) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(job).Error)
}

// List returns every job, newest first.
func (s *JobStore) List(ctx context.Context) ([]database.Job, error) {
	var jobs []database.Job
	err := s.db.WithContext(ctx).Preload("Recruiter").Order("posted_date DESC, id DESC").Find(&jobs).Error
	return jobs, translate(err)
}

// FindByRecruiter returns the jobs owned by recruiterID, newest first.
func (s *JobStore) FindByRecruiter(ctx context.Context, recruiterID uint) ([]database.Job, error) {
	var jobs []database.Job
	err := s.db.WithContext(ctx).
		Preload("Recruiter").
		Where("recruiter_id = ?", recruiterID).
		Order("posted_date DESC, id DESC").
		Find(&jobs).Error
	return jobs, translate(err)
}

// Search returns one page of jobs matching q and the total match count.
func (s *JobStore) Search(ctx context.Context, q SearchQuery) ([]database.Job, int64, error) {
	tx := s.db.WithContext(ctx).Model(&database.Job{})

	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		pattern := likePattern(kw)
		tx = tx.Where(
			"LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(requirements) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}
	if loc := strings.TrimSpace(q.Location); loc != "" {
		tx = tx.Where("LOWER(location) LIKE ? ESCAPE '\\'", likePattern(loc))
	}
	if q.JobType != "" {
		tx = tx.Where("job_type = ?", q.JobType)
	}
	if q.MinSalary != nil {
		tx = tx.Where("min_salary >= ?", *q.MinSalary)
	}
	if q.MaxSalary != nil {
		tx = tx.Where("max_salary <= ?", *q.MaxSalary)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	column := q.SortColumn
	if column == "" {
		column = "posted_date"
	}
	var jobs []database.Job
	err := tx.
		Preload("Recruiter").
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: q.Descending}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Descending}).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("search jobs: %w", err)
	}
	return jobs, total, nil
}

// DeleteCascade removes the job's applications and then the job in one transaction.
// Either both deletions commit or neither does.
func (s *JobStore) DeleteCascade(ctx context.Context, jobID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewApplicationStore(tx).DeleteByJob(ctx, jobID); err != nil {
			return err
		}
		res := tx.Delete(&database.Job{}, jobID)
		if res.Error != nil {
			return fmt.Errorf("delete job: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
