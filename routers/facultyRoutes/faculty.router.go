package facultyRoutes

import (
	controllers "coursedesk/controllers/faculty"
	"coursedesk/middleware"
	validators "coursedesk/validators/faculty"

	"github.com/gofiber/fiber/v2"
)

// SetupFacultyRoutes sets up referral-partner management routes
func SetupFacultyRoutes(app *fiber.App) {
	facultyGroup := app.Group("/faculty")

	// Referral validation (public)
	facultyGroup.Post("/validate-referral", validators.ValidateReferral(), controllers.ValidateReferral)

	// Admin management
	facultyGroup.Post("/create", middleware.JWTMiddleware, middleware.AdminOnly(), validators.CreateFaculty(), controllers.CreateFaculty)
	facultyGroup.Get("/list", middleware.JWTMiddleware, middleware.AdminOnly(), controllers.GetFacultyList)
	facultyGroup.Get("/commissions", middleware.JWTMiddleware, middleware.AdminOnly(), controllers.GetCommissions)
	facultyGroup.Patch("/commission/:paymentId/mark-paid", middleware.JWTMiddleware, middleware.AdminOnly(), validators.MarkCommissionPaid(), controllers.MarkCommissionPaid)
	facultyGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly(), controllers.DeleteFaculty)
}
