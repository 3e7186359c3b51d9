package controllers

import (
	"coursedesk/database"
	"coursedesk/middleware"
	"coursedesk/models"
	"time"

	"github.com/gofiber/fiber/v2"
)

// UpdateProgress stores the student's course progress. Progress never
// regresses: the stored value is the max of current and submitted.
func UpdateProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedProgress").(*struct {
		Progress int `json:"progress"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if reqData.Progress > enrollment.Progress {
		enrollment.Progress = reqData.Progress
	}
	if enrollment.Progress >= 100 {
		enrollment.Progress = 100
		enrollment.Status = "completed"
	}
	nowTime := time.Now()
	enrollment.LastAccessedAt = &nowTime

	if err := db.Save(&enrollment).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to update progress!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", fiber.Map{
		"courseId": enrollment.CourseID,
		"progress": enrollment.Progress,
		"status":   enrollment.Status,
	})
}

// CompleteLesson marks one lesson finished. Submitting the same lesson twice
// leaves exactly one completion record.
func CompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(string)

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	// Idempotent insert keyed by lesson id
	var existing models.LessonCompletion
	if err := db.Where("enrollment_id = ? AND lesson_id = ? AND is_deleted = ?", enrollment.ID, lessonID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson already completed!", existing)
	}

	completion := models.LessonCompletion{
		EnrollmentID: enrollment.ID,
		LessonID:     lessonID,
		CompletedAt:  time.Now(),
	}
	if err := db.Create(&completion).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to record lesson completion!", err)
	}

	nowTime := time.Now()
	enrollment.LastAccessedAt = &nowTime
	db.Save(&enrollment)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson completed successfully!", completion)
}

// GetProgress returns the enrollment's progress and completed lessons
func GetProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var completions []models.LessonCompletion
	if err := db.Where("enrollment_id = ? AND is_deleted = ?", enrollment.ID, false).Order("completed_at asc").Find(&completions).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to fetch lesson completions!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":       enrollment,
		"completedLessons": completions,
	})
}
