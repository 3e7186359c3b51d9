package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment task status values
const (
	TaskStatusPending = "PENDING"
	TaskStatusDone    = "DONE"
	TaskStatusFailed  = "FAILED"
)

// EnrollmentTask is a durable "enroll student X in course Y" record written
// in the same transaction as a payment confirmation. A background worker
// picks pending tasks up and retries them, so a confirmed payment can never
// silently lose its enrollment.
type EnrollmentTask struct {
	gorm.Model
	OrderID  uint `json:"order_id" gorm:"uniqueIndex;not null"`
	UserID   uint `json:"user_id" gorm:"index;not null"`
	CourseID uint `json:"course_id" gorm:"index;not null"`

	Status      string     `json:"status" gorm:"default:'PENDING';index"`
	Attempts    int        `json:"attempts" gorm:"default:0"`
	LastError   string     `json:"last_error"`
	ProcessedAt *time.Time `json:"processed_at"`

	IsDeleted bool `gorm:"default:false"`
}
