package controllers

import (
	"coursedesk/models"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEnrollment(t *testing.T, db *gorm.DB, user models.User, course models.Course) models.Enrollment {
	enrollment := models.Enrollment{
		UserID:     user.ID,
		CourseID:   course.ID,
		EnrolledAt: time.Now(),
		Progress:   0,
		Status:     "active",
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return enrollment
}

func TestUpdateProgressMonotonic(t *testing.T) {
	app, db := setupApp(t)

	student, token := seedStudent(t, db, "asha@example.com")
	course := seedCourse(t, db, "GOLANG101", 10000)
	enrollment := seedEnrollment(t, db, student, course)

	progressPath := fmt.Sprintf("/courses/%d/progress", course.ID)

	resp := doRequest(t, app, "PUT", progressPath, token, fiber.Map{"progress": 70})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&enrollment, enrollment.ID).Error)
	assert.Equal(t, 70, enrollment.Progress)

	// A lower value never regresses the stored progress
	resp = doRequest(t, app, "PUT", progressPath, token, fiber.Map{"progress": 30})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&enrollment, enrollment.ID).Error)
	assert.Equal(t, 70, enrollment.Progress)
	assert.Equal(t, "active", enrollment.Status)

	// Hitting 100 completes the enrollment
	resp = doRequest(t, app, "PUT", progressPath, token, fiber.Map{"progress": 100})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&enrollment, enrollment.ID).Error)
	assert.Equal(t, 100, enrollment.Progress)
	assert.Equal(t, "completed", enrollment.Status)
}

func TestUpdateProgressRequiresEnrollment(t *testing.T) {
	app, db := setupApp(t)

	_, token := seedStudent(t, db, "asha@example.com")
	course := seedCourse(t, db, "GOLANG101", 10000)

	resp := doRequest(t, app, "PUT", fmt.Sprintf("/courses/%d/progress", course.ID), token, fiber.Map{"progress": 50})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateProgressValidation(t *testing.T) {
	app, db := setupApp(t)

	_, token := seedStudent(t, db, "asha@example.com")
	course := seedCourse(t, db, "GOLANG101", 10000)

	resp := doRequest(t, app, "PUT", fmt.Sprintf("/courses/%d/progress", course.ID), token, fiber.Map{"progress": 140})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCompleteLessonIdempotent(t *testing.T) {
	app, db := setupApp(t)

	student, token := seedStudent(t, db, "asha@example.com")
	course := seedCourse(t, db, "GOLANG101", 10000)
	enrollment := seedEnrollment(t, db, student, course)

	lessonPath := fmt.Sprintf("/courses/%d/lessons/lesson-7/complete", course.ID)

	resp := doRequest(t, app, "POST", lessonPath, token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Submitting the same lesson again leaves exactly one record
	resp = doRequest(t, app, "POST", lessonPath, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	db.Model(&models.LessonCompletion{}).Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, "lesson-7").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGetProgress(t *testing.T) {
	app, db := setupApp(t)

	student, token := seedStudent(t, db, "asha@example.com")
	course := seedCourse(t, db, "GOLANG101", 10000)
	seedEnrollment(t, db, student, course)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/courses/%d/lessons/lesson-1/complete", course.ID), token, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, "GET", fmt.Sprintf("/courses/%d/progress", course.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	lessons := data["completedLessons"].([]interface{})
	assert.Len(t, lessons, 1)
}
