// Package applications implements job applications: applying, listing and
// the recruiter driven status changes.
package applications

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"jobportal/internal/auth"
	"jobportal/internal/database"
	"jobportal/internal/errcode"
	"jobportal/internal/policy"
	"jobportal/internal/store"
	"jobportal/internal/tasks"
)

// Repository is the application persistence the service needs.
type Repository interface {
	CreateUnique(ctx context.Context, app *database.JobApplication) error
	FindByID(ctx context.Context, id uint) (database.JobApplication, error)
	FindByApplicant(ctx context.Context, applicantID uint) ([]database.JobApplication, error)
	FindByJob(ctx context.Context, jobID uint) ([]database.JobApplication, error)
	UpdateStatus(ctx context.Context, id uint, status string, at time.Time) error
}

// JobFinder loads the job an application refers to.
type JobFinder interface {
	FindByID(ctx context.Context, id uint) (database.Job, error)
}

// Notifier delivers application events to the affected user. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n tasks.Notification) error
}

// Service applies the application lifecycle rules.
type Service struct {
	apps     Repository
	jobs     JobFinder
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	onSubmitted     func()
	onStatusChanged func(status string)
}

// Option customises a Service.
type Option func(*Service)

// WithNotifier sets the event notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithObservers sets callbacks fired after a successful apply and status change.
func WithObservers(submitted func(), statusChanged func(status string)) Option {
	return func(s *Service) {
		s.onSubmitted = submitted
		s.onStatusChanged = statusChanged
	}
}

// NewService builds a Service. A nil logger falls back to slog.Default.
func NewService(apps Repository, jobs JobFinder, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		apps:            apps,
		jobs:            jobs,
		logger:          logger,
		now:             time.Now,
		onSubmitted:     func() {},
		onStatusChanged: func(string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply records principal's application to jobID with status PENDING.
func (s *Service) Apply(ctx context.Context, principal auth.Principal, jobID uint) (database.JobApplication, error) {
	if err := policy.Authorize(policy.ApplyToJob, principal, policy.Resource{}); err != nil {
		return database.JobApplication{}, err
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if errors.Is(err, store.ErrNotFound) {
		return database.JobApplication{}, errcode.NotFound("job")
	}
	if err != nil {
		return database.JobApplication{}, errcode.Dependency("load job", err)
	}

	app := database.JobApplication{
		JobID:       job.ID,
		ApplicantID: principal.ID,
		Status:      StatusPending,
		AppliedAt:   s.now().UTC(),
	}
	if err := s.apps.CreateUnique(ctx, &app); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return database.JobApplication{}, policy.Authorize(policy.ApplyToJob, principal, policy.Resource{AlreadyApplied: true})
		}
		s.logger.Error("create application failed", slog.Uint64("job_id", uint64(jobID)), slog.Any("error", err))
		return database.JobApplication{}, errcode.Dependency("create application", err)
	}
	app.Job = job

	s.logger.Info("application submitted",
		slog.Uint64("application_id", uint64(app.ID)),
		slog.Uint64("job_id", uint64(job.ID)),
		slog.String("applicant", principal.Username),
	)
	s.onSubmitted()
	s.notify(ctx, tasks.Notification{
		Event:         tasks.TypeApplicationSubmitted,
		Recipient:     job.Recruiter.Username,
		ApplicationID: app.ID,
		JobID:         job.ID,
		JobTitle:      job.Title,
		Applicant:     principal.Username,
		Status:        app.Status,
	})
	return app, nil
}

// ListForApplicant returns principal's own applications with their jobs.
func (s *Service) ListForApplicant(ctx context.Context, principal auth.Principal) ([]database.JobApplication, error) {
	if !principal.Authenticated() {
		return nil, errcode.ErrAuthRequired
	}
	apps, err := s.apps.FindByApplicant(ctx, principal.ID)
	if err != nil {
		return nil, errcode.Dependency("list applications", err)
	}
	return apps, nil
}

// ListForJob returns the applications to jobID. Only the job owner may list them.
func (s *Service) ListForJob(ctx context.Context, principal auth.Principal, jobID uint) ([]database.JobApplication, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errcode.NotFound("job")
	}
	if err != nil {
		return nil, errcode.Dependency("load job", err)
	}
	if err := policy.Authorize(policy.ViewJobApplications, principal, policy.Resource{Owner: job.Recruiter.Username}); err != nil {
		return nil, err
	}

	apps, err := s.apps.FindByJob(ctx, jobID)
	if err != nil {
		return nil, errcode.Dependency("list job applications", err)
	}
	return apps, nil
}

// UpdateStatus moves application id to status. Only the owner of the job may do so.
func (s *Service) UpdateStatus(ctx context.Context, principal auth.Principal, id uint, status string) (database.JobApplication, error) {
	// 先校验状态值，非法状态对任何调用者都直接拒绝，且不修改数据
	next, err := ParseStatus(status)
	if err != nil {
		return database.JobApplication{}, err
	}

	app, err := s.apps.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return database.JobApplication{}, errcode.NotFound("application")
	}
	if err != nil {
		return database.JobApplication{}, errcode.Dependency("load application", err)
	}
	if err := policy.Authorize(policy.UpdateApplicationStatus, principal, policy.Resource{Owner: app.Job.Recruiter.Username}); err != nil {
		return database.JobApplication{}, err
	}
	if !canTransition(app.Status, next) {
		return database.JobApplication{}, errcode.ErrInvalidTransition
	}
	if app.Status == next {
		return app, nil
	}

	now := s.now().UTC()
	if err := s.apps.UpdateStatus(ctx, id, next, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return database.JobApplication{}, errcode.NotFound("application")
		}
		s.logger.Error("update application status failed", slog.Uint64("application_id", uint64(id)), slog.Any("error", err))
		return database.JobApplication{}, errcode.Dependency("update application status", err)
	}
	previous := app.Status
	app.Status = next
	app.UpdatedAt = now

	s.logger.Info("application status changed",
		slog.Uint64("application_id", uint64(id)),
		slog.String("from", previous),
		slog.String("to", next),
		slog.String("recruiter", principal.Username),
	)
	s.onStatusChanged(next)
	s.notify(ctx, tasks.Notification{
		Event:         tasks.TypeApplicationStatusChanged,
		Recipient:     app.Applicant.Username,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		JobTitle:      app.Job.Title,
		Applicant:     app.Applicant.Username,
		Status:        next,
	})
	return app, nil
}

func (s *Service) notify(ctx context.Context, n tasks.Notification) {
	if s.notifier == nil || n.Recipient == "" {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("enqueue notification failed",
			slog.String("event", n.Event),
			slog.Uint64("application_id", uint64(n.ApplicationID)),
			slog.Any("error", err),
		)
	}
}
