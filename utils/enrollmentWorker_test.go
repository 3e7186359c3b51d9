package utils

import (
	"coursedesk/config"
	"coursedesk/database"
	"coursedesk/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWorkerDb(t *testing.T) *gorm.DB {
	config.LoadConfig()
	db := setupDb(t)
	database.Database = database.DbInstance{Db: db}
	return db
}

func seedTask(t *testing.T, db *gorm.DB, orderID, userID, courseID uint) models.EnrollmentTask {
	task := models.EnrollmentTask{
		OrderID:  orderID,
		UserID:   userID,
		CourseID: courseID,
		Status:   models.TaskStatusPending,
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func TestProcessPendingEnrollmentTasks(t *testing.T) {
	db := setupWorkerDb(t)

	user := models.User{Name: "Asha", Email: "asha@example.com", Role: "STUDENT"}
	require.NoError(t, db.Create(&user).Error)
	course := models.Course{Title: "Backend", CourseCode: "GOLANG101", Price: 10000, Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	task := seedTask(t, db, 1, user.ID, course.ID)

	ProcessPendingEnrollmentTasks()

	require.NoError(t, db.First(&task, task.ID).Error)
	assert.Equal(t, models.TaskStatusDone, task.Status)
	require.NotNil(t, task.ProcessedAt)

	var count int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	// Re-running with the task done changes nothing
	ProcessPendingEnrollmentTasks()
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestProcessPendingEnrollmentTasksIdempotent(t *testing.T) {
	db := setupWorkerDb(t)

	user := models.User{Name: "Ravi", Email: "ravi@example.com", Role: "STUDENT"}
	require.NoError(t, db.Create(&user).Error)
	course := models.Course{Title: "Frontend", CourseCode: "REACT201", Price: 8000, Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	// Student is already enrolled; the task must not add a second row
	enrollment := models.Enrollment{UserID: user.ID, CourseID: course.ID, Status: "active"}
	require.NoError(t, db.Create(&enrollment).Error)

	task := seedTask(t, db, 2, user.ID, course.ID)

	ProcessPendingEnrollmentTasks()

	require.NoError(t, db.First(&task, task.ID).Error)
	assert.Equal(t, models.TaskStatusDone, task.Status)

	var count int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestProcessPendingEnrollmentTasksMissingCourse(t *testing.T) {
	db := setupWorkerDb(t)

	user := models.User{Name: "Meera", Email: "meera@example.com", Role: "STUDENT"}
	require.NoError(t, db.Create(&user).Error)

	task := seedTask(t, db, 3, user.ID, 9999)

	ProcessPendingEnrollmentTasks()

	// The task stays pending for the next sweep with the failure recorded
	require.NoError(t, db.First(&task, task.ID).Error)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Greater(t, task.Attempts, 0)
	assert.NotEmpty(t, task.LastError)

	var count int64
	db.Model(&models.Enrollment{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}
