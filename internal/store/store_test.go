package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"jobportal/internal/database"
	"jobportal/internal/database/dbtest"
)

func seedUser(t *testing.T, db *gorm.DB, username, role string) database.User {
	t.Helper()
	user := database.User{Username: username, Email: username + "@example.com", PasswordHash: "x", Role: role}
	if err := NewUserStore(db).Create(context.Background(), &user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedJob(t *testing.T, db *gorm.DB, recruiter database.User, job database.Job) database.Job {
	t.Helper()
	job.RecruiterID = recruiter.ID
	if job.JobType == "" {
		job.JobType = "FULL_TIME"
	}
	if job.Status == "" {
		job.Status = "OPEN"
	}
	if job.PostedDate.IsZero() {
		job.PostedDate = time.Now()
	}
	if err := NewJobStore(db).Create(context.Background(), &job); err != nil {
		t.Fatalf("seed job %s: %v", job.Title, err)
	}
	return job
}

func seedApplication(t *testing.T, db *gorm.DB, applicant database.User, job database.Job) database.JobApplication {
	t.Helper()
	app := database.JobApplication{JobID: job.ID, ApplicantID: applicant.ID, Status: "PENDING", AppliedAt: time.Now()}
	if err := NewApplicationStore(db).CreateUnique(context.Background(), &app); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return app
}

func TestUserStoreDuplicateUsername(t *testing.T) {
	db := dbtest.Open(t)
	seedUser(t, db, "alice", "RECRUITER")

	dup := database.User{Username: "alice", Email: "other@example.com", PasswordHash: "x", Role: "JOB_SEEKER"}
	if err := NewUserStore(db).Create(context.Background(), &dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserStoreLookup(t *testing.T) {
	db := dbtest.Open(t)
	alice := seedUser(t, db, "alice", "RECRUITER")
	users := NewUserStore(db)

	account, ok, err := users.Lookup(context.Background(), "alice")
	if err != nil || !ok {
		t.Fatalf("lookup alice: ok=%v err=%v", ok, err)
	}
	if account.ID != alice.ID || account.Role != "RECRUITER" {
		t.Fatalf("unexpected account %+v", account)
	}

	_, ok, err = users.Lookup(context.Background(), "nobody")
	if err != nil || ok {
		t.Fatalf("lookup nobody: ok=%v err=%v", ok, err)
	}
}

func TestUserStoreDeleteCascades(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "RECRUITER")
	bob := seedUser(t, db, "bob", "JOB_SEEKER")
	carol := seedUser(t, db, "carol", "RECRUITER")

	aliceJob := seedJob(t, db, alice, database.Job{Title: "Go Engineer", Company: "Acme"})
	carolJob := seedJob(t, db, carol, database.Job{Title: "SRE", Company: "Initech"})
	seedApplication(t, db, bob, aliceJob)
	seedApplication(t, db, bob, carolJob)

	if err := NewUserStore(db).Delete(ctx, alice.ID); err != nil {
		t.Fatalf("delete alice: %v", err)
	}
	if _, err := NewJobStore(db).FindByID(ctx, aliceJob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected alice's job gone, got %v", err)
	}
	apps, err := NewApplicationStore(db).FindByApplicant(ctx, bob.ID)
	if err != nil {
		t.Fatalf("list bob's applications: %v", err)
	}
	if len(apps) != 1 || apps[0].JobID != carolJob.ID {
		t.Fatalf("expected only the application to carol's job, got %+v", apps)
	}

	if err := NewUserStore(db).Delete(ctx, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	// 删除后用户名可再次注册
	seedUser(t, db, "alice", "JOB_SEEKER")
}

func TestApplicationStoreCreateUnique(t *testing.T) {
	db := dbtest.Open(t)
	alice := seedUser(t, db, "alice", "RECRUITER")
	bob := seedUser(t, db, "bob", "JOB_SEEKER")
	job := seedJob(t, db, alice, database.Job{Title: "Go Engineer", Company: "Acme"})
	seedApplication(t, db, bob, job)

	again := database.JobApplication{JobID: job.ID, ApplicantID: bob.ID, Status: "PENDING", AppliedAt: time.Now()}
	if err := NewApplicationStore(db).CreateUnique(context.Background(), &again); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestApplicationStoreUniqueIndex(t *testing.T) {
	db := dbtest.Open(t)
	alice := seedUser(t, db, "alice", "RECRUITER")
	bob := seedUser(t, db, "bob", "JOB_SEEKER")
	job := seedJob(t, db, alice, database.Job{Title: "Go Engineer", Company: "Acme"})
	seedApplication(t, db, bob, job)

	// 绕过存在性检查，直接插入，由唯一索引兜底
	raw := database.JobApplication{JobID: job.ID, ApplicantID: bob.ID, Status: "PENDING", AppliedAt: time.Now()}
	err := db.Omit("Job", "Applicant").Create(&raw).Error
	if !errors.Is(translate(err), ErrDuplicate) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestApplicationStoreConcurrentCreate(t *testing.T) {
	db := dbtest.Open(t)
	alice := seedUser(t, db, "alice", "RECRUITER")
	bob := seedUser(t, db, "bob", "JOB_SEEKER")
	job := seedJob(t, db, alice, database.Job{Title: "Go Engineer", Company: "Acme"})
	apps := NewApplicationStore(db)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		duplicate int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app := database.JobApplication{JobID: job.ID, ApplicantID: bob.ID, Status: "PENDING", AppliedAt: time.Now()}
			err := apps.CreateUnique(context.Background(), &app)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrDuplicate):
				duplicate++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 || duplicate != n-1 {
		t.Fatalf("expected 1 created and %d duplicates, got %d and %d", n-1, created, duplicate)
	}
}

func TestApplicationStoreUpdateStatus(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "RECRUITER")
	bob := seedUser(t, db, "bob", "JOB_SEEKER")
	job := seedJob(t, db, alice, database.Job{Title: "Go Engineer", Company: "Acme"})
	app := seedApplication(t, db, bob, job)
	apps := NewApplicationStore(db)

	if err := apps.UpdateStatus(ctx, app.ID, "ACCEPTED", time.Now()); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, err := apps.FindByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != "ACCEPTED" {
		t.Fatalf("expected ACCEPTED, got %s", got.Status)
	}
	if got.Job.Recruiter.Username != "alice" || got.Applicant.Username != "bob" {
		t.Fatalf("associations not loaded: %+v", got)
	}

	if err := apps.UpdateStatus(ctx, app.ID+100, "ACCEPTED", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobStoreDeleteCascade(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "RECRUITER")
	bob := seedUser(t, db, "bob", "JOB_SEEKER")
	job := seedJob(t, db, alice, database.Job{Title: "Go Engineer", Company: "Acme"})
	seedApplication(t, db, bob, job)

	if err := NewJobStore(db).DeleteCascade(ctx, job.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	apps, err := NewApplicationStore(db).FindByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("find by job: %v", err)
	}
	if len(apps) != 0 {
		t.Fatalf("expected applications removed, got %d", len(apps))
	}
	if err := NewJobStore(db).DeleteCascade(ctx, job.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobStoreDeleteCascadeRollsBack(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "RECRUITER")
	bob := seedUser(t, db, "bob", "JOB_SEEKER")
	job := seedJob(t, db, alice, database.Job{Title: "Go Engineer", Company: "Acme"})
	seedApplication(t, db, bob, job)

	boom := errors.New("disk on fire")
	err := db.Callback().Delete().Before("gorm:delete").Register("test:fail_job_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "jobs" {
			_ = tx.AddError(boom)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if err := NewJobStore(db).DeleteCascade(ctx, job.ID); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if _, err := NewJobStore(db).FindByID(ctx, job.ID); err != nil {
		t.Fatalf("job should survive a failed delete: %v", err)
	}
	apps, err := NewApplicationStore(db).FindByJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("find by job: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected application to survive, got %d", len(apps))
	}
}

func TestJobStoreSearch(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "RECRUITER")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seedJob(t, db, alice, database.Job{Title: "Senior Go Engineer", Company: "Acme", Location: "Berlin", MinSalary: 80000, MaxSalary: 120000, PostedDate: base})
	seedJob(t, db, alice, database.Job{Title: "Frontend Dev", Company: "Acme", Location: "Remote", Description: "Some golang tooling", MinSalary: 50000, MaxSalary: 70000, JobType: "CONTRACT", PostedDate: base.Add(time.Hour)})
	seedJob(t, db, alice, database.Job{Title: "Intern", Company: "Initech", Location: "berlin", Requirements: "GO basics", MinSalary: 0, MaxSalary: 20000, JobType: "INTERNSHIP", PostedDate: base.Add(2 * time.Hour)})
	seedJob(t, db, alice, database.Job{Title: "100% Remote", Company: "Globex", Location: "Remote", MinSalary: 60000, MaxSalary: 90000, PostedDate: base.Add(3 * time.Hour)})

	jobs := NewJobStore(db)
	min := 50000.0
	max := 100000.0
	cases := []struct {
		name   string
		query  SearchQuery
		titles []string
		total  int64
	}{
		{"all newest first", SearchQuery{Descending: true, Limit: 10}, []string{"100% Remote", "Intern", "Frontend Dev", "Senior Go Engineer"}, 4},
		{"keyword any text column", SearchQuery{Keyword: "go", SortColumn: "title", Limit: 10}, []string{"Frontend Dev", "Intern", "Senior Go Engineer"}, 3},
		{"keyword escapes wildcard", SearchQuery{Keyword: "100%", Limit: 10}, []string{"100% Remote"}, 1},
		{"location case insensitive", SearchQuery{Location: "BERLIN", SortColumn: "title", Limit: 10}, []string{"Intern", "Senior Go Engineer"}, 2},
		{"job type exact", SearchQuery{JobType: "CONTRACT", Limit: 10}, []string{"Frontend Dev"}, 1},
		{"salary window", SearchQuery{MinSalary: &min, MaxSalary: &max, SortColumn: "min_salary", Limit: 10}, []string{"Frontend Dev", "100% Remote"}, 2},
		{"paging", SearchQuery{Descending: true, Offset: 1, Limit: 2}, []string{"Intern", "Frontend Dev"}, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, total, err := jobs.Search(ctx, tc.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if total != tc.total {
				t.Fatalf("expected total %d, got %d", tc.total, total)
			}
			if len(got) != len(tc.titles) {
				t.Fatalf("expected %v, got %d jobs", tc.titles, len(got))
			}
			for i, job := range got {
				if job.Title != tc.titles[i] {
					t.Fatalf("position %d: expected %q, got %q", i, tc.titles[i], job.Title)
				}
				if job.Recruiter.Username != "alice" {
					t.Fatalf("recruiter not preloaded on %q", job.Title)
				}
			}
		})
	}
}

func TestJobStoreFindByRecruiter(t *testing.T) {
	db := dbtest.Open(t)
	alice := seedUser(t, db, "alice", "RECRUITER")
	carol := seedUser(t, db, "carol", "RECRUITER")
	seedJob(t, db, alice, database.Job{Title: "A", Company: "Acme"})
	seedJob(t, db, carol, database.Job{Title: "C", Company: "Initech"})

	got, err := NewJobStore(db).FindByRecruiter(context.Background(), carol.ID)
	if err != nil {
		t.Fatalf("find by recruiter: %v", err)
	}
	if len(got) != 1 || got[0].Title != "C" {
		t.Fatalf("unexpected jobs %+v", got)
	}
}
