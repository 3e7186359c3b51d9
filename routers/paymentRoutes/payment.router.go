package paymentRoutes

import (
	controllers "coursedesk/controllers/payment"
	"coursedesk/middleware"
	validators "coursedesk/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up payment submission, confirmation and read-model routes
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payments")

	// Manual QR payment submission
	paymentGroup.Post("/", middleware.JWTMiddleware, validators.SubmitPayment(), controllers.SubmitPayment)

	// Admin confirmation queue
	paymentGroup.Get("/pending", middleware.JWTMiddleware, middleware.AdminOnly(), controllers.GetPendingPayments)
	paymentGroup.Put("/:paymentId/confirm", middleware.JWTMiddleware, middleware.AdminOnly(), validators.ConfirmPayment(), controllers.ConfirmPayment)

	// Read models
	paymentGroup.Get("/stats", middleware.JWTMiddleware, middleware.AdminOnly(), controllers.GetPaymentStats)
	paymentGroup.Get("/revenue/monthly", middleware.JWTMiddleware, middleware.AdminOnly(), controllers.GetMonthlyRevenue)
}
