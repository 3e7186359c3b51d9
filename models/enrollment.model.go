package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment represents a student's access grant to a course, distinct from
// the purchase order that justifies it. The unique index keeps a student
// enrolled at most once per course even under concurrent confirmations.
type Enrollment struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID       uint       `json:"course_id" gorm:"uniqueIndex:idx_user_course;not null"`
	EnrolledAt     time.Time  `json:"enrolled_at"`
	Progress       int        `json:"progress" gorm:"default:0"`      // 0..100, never regresses
	Status         string     `json:"status" gorm:"default:'active'"` // active, completed
	LastAccessedAt *time.Time `json:"last_accessed_at"`
	IsDeleted      bool       `gorm:"default:false"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// LessonCompletion marks one lesson finished within an enrollment. The
// unique index keeps completion idempotent per lesson.
type LessonCompletion struct {
	gorm.Model
	EnrollmentID uint      `json:"enrollment_id" gorm:"uniqueIndex:idx_enrollment_lesson;not null"`
	LessonID     string    `json:"lesson_id" gorm:"uniqueIndex:idx_enrollment_lesson;not null"`
	CompletedAt  time.Time `json:"completed_at"`
	IsDeleted    bool      `gorm:"default:false"`
}
