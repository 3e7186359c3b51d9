package utils

import (
	"coursedesk/config"
	"coursedesk/database"
	"coursedesk/models"
	"log"
	"time"

	"github.com/avast/retry-go"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Tasks that keep failing are parked as FAILED once they hit this many
// attempts and need manual attention.
const maxTaskAttempts = 10

// InitializeEnrollmentWorker sets up the cron loop that reconciles pending
// enrollment tasks. Confirmation handlers also kick the worker directly, so
// the cron sweep is the safety net rather than the main path.
func InitializeEnrollmentWorker() {
	log.Println("[ENROLLMENT-WORKER] Initializing enrollment reconciler...")

	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.EnrollmentCronSpec, func() {
		ProcessPendingEnrollmentTasks()
	})
	if err != nil {
		log.Fatalf("[ENROLLMENT-WORKER] Invalid cron spec: %v", err)
	}

	c.Start()
	log.Printf("[ENROLLMENT-WORKER] Reconciler started with spec %q", config.AppConfig.EnrollmentCronSpec)
}

// ProcessPendingEnrollmentTasks picks up pending tasks and enrolls the
// students they describe. Each task is retried a few times within a sweep;
// whatever still fails stays pending for the next one.
func ProcessPendingEnrollmentTasks() {
	db := database.Database.Db

	var tasks []models.EnrollmentTask
	if err := db.
		Where("status = ? AND is_deleted = ?", models.TaskStatusPending, false).
		Order("created_at asc").
		Limit(config.AppConfig.EnrollmentBatchSize).
		Find(&tasks).Error; err != nil {
		log.Printf("[ENROLLMENT-WORKER] Error fetching pending tasks: %v", err)
		return
	}

	if len(tasks) == 0 {
		return
	}

	log.Printf("[ENROLLMENT-WORKER] Processing %d pending enrollment tasks", len(tasks))

	for i := range tasks {
		task := &tasks[i]

		err := retry.Do(
			func() error { return enrollFromTask(db, task) },
			retry.Attempts(config.AppConfig.EnrollmentAttempts),
			retry.Delay(200*time.Millisecond),
			retry.LastErrorOnly(true),
		)

		now := time.Now()
		if err != nil {
			task.Attempts++
			task.LastError = err.Error()
			if task.Attempts >= maxTaskAttempts {
				task.Status = models.TaskStatusFailed
				log.Printf("[ENROLLMENT-WORKER] Task %d failed permanently after %d attempts: %v", task.ID, task.Attempts, err)
			} else {
				log.Printf("[ENROLLMENT-WORKER] Task %d failed (attempt %d): %v", task.ID, task.Attempts, err)
			}
		} else {
			task.Status = models.TaskStatusDone
			task.LastError = ""
			task.ProcessedAt = &now
		}

		if err := db.Save(task).Error; err != nil {
			log.Printf("[ENROLLMENT-WORKER] Error saving task %d: %v", task.ID, err)
		}
	}
}

// enrollFromTask performs the idempotent enrollment a task describes. A
// student is enrolled at most once per course no matter how often the task
// runs.
func enrollFromTask(db *gorm.DB, task *models.EnrollmentTask) error {
	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", task.UserID, false).First(&user).Error; err != nil {
		return err
	}

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", task.CourseID, false).First(&course).Error; err != nil {
		return err
	}

	// Already enrolled - nothing to do
	var existing models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", task.UserID, task.CourseID, false).
		First(&existing).Error; err == nil {
		return nil
	}

	enrollment := models.Enrollment{
		UserID:     task.UserID,
		CourseID:   task.CourseID,
		EnrolledAt: time.Now(),
		Progress:   0,
		Status:     "active",
	}
	if err := db.Create(&enrollment).Error; err != nil {
		return err
	}

	log.Printf("[ENROLLMENT-WORKER] Enrolled user %d in course %d (task %d)", task.UserID, task.CourseID, task.ID)
	SendPaymentConfirmedEmail(user.Email, user.Name, course.Title)
	return nil
}
