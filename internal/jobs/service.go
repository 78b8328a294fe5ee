// Package jobs implements the job listing lifecycle: create, update and
// delete by the owning recruiter, public reads and the filtered search.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"jobportal/internal/auth"
	"jobportal/internal/database"
	"jobportal/internal/errcode"
	"jobportal/internal/policy"
	"jobportal/internal/store"
)

// 职位类型
const (
	TypeFullTime   = "FULL_TIME"
	TypePartTime   = "PART_TIME"
	TypeContract   = "CONTRACT"
	TypeInternship = "INTERNSHIP"
)

// 职位状态
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

var (
	jobTypes = []any{TypeFullTime, TypePartTime, TypeContract, TypeInternship}
	statuses = []any{StatusOpen, StatusClosed}
)

// Repository is the persistence the service needs.
type Repository interface {
	Create(ctx context.Context, job *database.Job) error
	FindByID(ctx context.Context, id uint) (database.Job, error)
	Save(ctx context.Context, job *database.Job) error
	List(ctx context.Context) ([]database.Job, error)
	FindByRecruiter(ctx context.Context, recruiterID uint) ([]database.Job, error)
	Search(ctx context.Context, q store.SearchQuery) ([]database.Job, int64, error)
	DeleteCascade(ctx context.Context, jobID uint) error
}

// Fields carries caller supplied job attributes. Nil fields are left unset on
// create and untouched on update.
type Fields struct {
	Title        *string
	Company      *string
	Location     *string
	Description  *string
	Requirements *string
	MinSalary    *float64
	MaxSalary    *float64
	JobType      *string
	Status       *string
}

// Service applies the job lifecycle rules.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds a Service. A nil logger falls back to slog.Default.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create publishes a new job owned by principal.
func (s *Service) Create(ctx context.Context, principal auth.Principal, f Fields) (database.Job, error) {
	if err := policy.Authorize(policy.CreateJob, principal, policy.Resource{}); err != nil {
		return database.Job{}, err
	}

	job := database.Job{
		JobType:     TypeFullTime,
		Status:      StatusOpen,
		PostedDate:  s.now().UTC(),
		RecruiterID: principal.ID,
	}
	apply(&job, f)
	if err := validate(job); err != nil {
		return database.Job{}, err
	}

	if err := s.repo.Create(ctx, &job); err != nil {
		s.logger.Error("create job failed", slog.String("recruiter", principal.Username), slog.Any("error", err))
		return database.Job{}, errcode.Dependency("create job", err)
	}
	s.logger.Info("job created",
		slog.Uint64("job_id", uint64(job.ID)),
		slog.String("recruiter", principal.Username),
	)
	return job, nil
}

// Update overwrites the non-nil fields of f on the job. Only the owner may update.
func (s *Service) Update(ctx context.Context, principal auth.Principal, jobID uint, f Fields) (database.Job, error) {
	job, err := s.find(ctx, jobID)
	if err != nil {
		return database.Job{}, err
	}
	if err := policy.Authorize(policy.UpdateJob, principal, policy.Resource{Owner: job.Recruiter.Username}); err != nil {
		return database.Job{}, err
	}

	apply(&job, f)
	if err := validate(job); err != nil {
		return database.Job{}, err
	}
	if err := s.repo.Save(ctx, &job); err != nil {
		s.logger.Error("update job failed", slog.Uint64("job_id", uint64(jobID)), slog.Any("error", err))
		return database.Job{}, errcode.Dependency("update job", err)
	}
	s.logger.Info("job updated", slog.Uint64("job_id", uint64(jobID)), slog.String("recruiter", principal.Username))
	return job, nil
}

// Delete removes the job and every application to it. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, principal auth.Principal, jobID uint) error {
	job, err := s.find(ctx, jobID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(policy.DeleteJob, principal, policy.Resource{Owner: job.Recruiter.Username}); err != nil {
		return err
	}

	if err := s.repo.DeleteCascade(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errcode.NotFound("job")
		}
		s.logger.Error("delete job failed", slog.Uint64("job_id", uint64(jobID)), slog.Any("error", err))
		return errcode.Dependency("delete job", err)
	}
	s.logger.Info("job deleted", slog.Uint64("job_id", uint64(jobID)), slog.String("recruiter", principal.Username))
	return nil
}

// Get returns a single job. No principal is required.
func (s *Service) Get(ctx context.Context, jobID uint) (database.Job, error) {
	return s.find(ctx, jobID)
}

// List returns every job. No principal is required.
func (s *Service) List(ctx context.Context) ([]database.Job, error) {
	jobs, err := s.repo.List(ctx)
	if err != nil {
		return nil, errcode.Dependency("list jobs", err)
	}
	return jobs, nil
}

// ListMine returns the jobs posted by the calling recruiter.
func (s *Service) ListMine(ctx context.Context, principal auth.Principal) ([]database.Job, error) {
	if err := policy.Authorize(policy.ListOwnJobs, principal, policy.Resource{}); err != nil {
		return nil, err
	}
	jobs, err := s.repo.FindByRecruiter(ctx, principal.ID)
	if err != nil {
		return nil, errcode.Dependency("list recruiter jobs", err)
	}
	return jobs, nil
}

func (s *Service) find(ctx context.Context, jobID uint) (database.Job, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if errors.Is(err, store.ErrNotFound) {
		return database.Job{}, errcode.NotFound("job")
	}
	if err != nil {
		return database.Job{}, errcode.Dependency("load job", err)
	}
	return job, nil
}

func apply(job *database.Job, f Fields) {
	if f.Title != nil {
		job.Title = *f.Title
	}
	if f.Company != nil {
		job.Company = *f.Company
	}
	if f.Location != nil {
		job.Location = *f.Location
	}
	if f.Description != nil {
		job.Description = *f.Description
	}
	if f.Requirements != nil {
		job.Requirements = *f.Requirements
	}
	if f.MinSalary != nil {
		job.MinSalary = *f.MinSalary
	}
	if f.MaxSalary != nil {
		job.MaxSalary = *f.MaxSalary
	}
	if f.JobType != nil {
		job.JobType = *f.JobType
	}
	if f.Status != nil {
		job.Status = *f.Status
	}
}

func validate(job database.Job) error {
	return errcode.FromValidation(validation.Errors{
		"title":     validation.Validate(job.Title, validation.Required, validation.Length(1, 255)),
		"company":   validation.Validate(job.Company, validation.Required, validation.Length(1, 255)),
		"location":  validation.Validate(job.Location, validation.Length(0, 255)),
		"minSalary": validation.Validate(job.MinSalary, validation.Min(0.0)),
		"maxSalary": validation.Validate(job.MaxSalary, validation.Min(0.0), validation.By(atLeast(job.MinSalary))),
		"jobType":   validation.Validate(job.JobType, validation.Required, validation.In(jobTypes...)),
		"status":    validation.Validate(job.Status, validation.Required, validation.In(statuses...)),
	}.Filter())
}

func atLeast(min float64) validation.RuleFunc {
	return func(value interface{}) error {
		if v, _ := value.(float64); v < min {
			return errors.New("must not be below minSalary")
		}
		return nil
	}
}
