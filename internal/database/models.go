package database

import (
	"time"
)

// User 表示系统中的账号信息。Username 与 Role 创建后不可修改。
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:32;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Job 表示招聘者发布的职位，仅归属于创建它的招聘者。
type Job struct {
	ID           uint      `gorm:"primaryKey"`
	Title        string    `gorm:"size:255;not null"`
	Company      string    `gorm:"size:255;not null"`
	Location     string    `gorm:"size:255"`
	Description  string    `gorm:"type:text"`
	Requirements string    `gorm:"type:text"`
	MinSalary    float64   `gorm:"type:numeric(12,2);not null;default:0"`
	MaxSalary    float64   `gorm:"type:numeric(12,2);not null;default:0"`
	JobType      string    `gorm:"size:32;not null;index"`
	Status       string    `gorm:"size:16;not null;index"`
	PostedDate   time.Time `gorm:"not null;index"`
	RecruiterID  uint      `gorm:"not null;index"`
	Recruiter    User      `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobApplication 表示求职者对职位的申请；(applicant_id, job_id) 唯一。
type JobApplication struct {
	ID          uint      `gorm:"primaryKey"`
	JobID       uint      `gorm:"not null;index;uniqueIndex:idx_application_applicant_job,priority:2"`
	Job         Job       `gorm:"constraint:OnDelete:CASCADE"`
	ApplicantID uint      `gorm:"not null;uniqueIndex:idx_application_applicant_job,priority:1"`
	Applicant   User      `gorm:"constraint:OnDelete:CASCADE"`
	Status      string    `gorm:"size:16;not null"`
	AppliedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time
}

// Models lists every table managed by Migrate.
func Models() []any {
	return []any{&User{}, &Job{}, &JobApplication{}}
}
