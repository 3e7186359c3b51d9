package courseRoutes

import (
	controllers "coursedesk/controllers/course"
	"coursedesk/middleware"
	validators "coursedesk/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all course-facing routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses")

	// Catalog (public)
	courseGroup.Get("/", controllers.GetAllCourses)
	courseGroup.Get("/code/:courseId", controllers.GetCourseByCode)

	// Referral preview (public)
	courseGroup.Post("/verify-referral", validators.VerifyReferral(), controllers.VerifyReferral)

	// Purchases
	courseGroup.Post("/purchase", middleware.JWTMiddleware, validators.PurchaseCourse(), controllers.PurchaseCourse)
	courseGroup.Get("/purchased/:studentId", middleware.JWTMiddleware, controllers.GetPurchasedCourses)

	// Progress tracking
	courseGroup.Put("/:id/progress", middleware.JWTMiddleware, validators.UpdateProgress(), controllers.UpdateProgress)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.GetProgress(), controllers.GetProgress)
	courseGroup.Post("/:id/lessons/:lessonId/complete", middleware.JWTMiddleware, validators.CompleteLesson(), controllers.CompleteLesson)

	// Catalog detail goes last so it does not shadow the named routes
	courseGroup.Get("/:id", validators.GetCourseDetail(), controllers.GetCourseDetails)
}
