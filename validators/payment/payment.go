package paymentValidator

import (
	"coursedesk/middleware"
	"coursedesk/models"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func SubmitPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID      uint   `json:"courseId"`
			TransactionID string `json:"transactionId"`
			ReferralCode  string `json:"referralCode"`
			PaymentMethod string `json:"paymentMethod"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate CourseID
		if reqData.CourseID == 0 {
			errors["courseId"] = "Course id is required!"
		}

		// Validate TransactionID (the manual QR flow always carries one)
		if strings.TrimSpace(reqData.TransactionID) == "" {
			errors["transactionId"] = "Transaction id is required!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}

func ConfirmPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ConfirmationStatus string `json:"confirmationStatus"`
			AdminEmail         string `json:"adminEmail"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate ConfirmationStatus
		switch reqData.ConfirmationStatus {
		case models.ConfirmationConfirmed, models.ConfirmationRejected,
			models.ConfirmationError, models.ConfirmationPending, models.ConfirmationWaiting:
		case "":
			errors["confirmationStatus"] = "Confirmation status is required!"
		default:
			errors["confirmationStatus"] = "Invalid confirmation status!"
		}

		// Validate AdminEmail
		if strings.TrimSpace(reqData.AdminEmail) == "" {
			errors["adminEmail"] = "Admin email is required!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedConfirmation", reqData)
		return c.Next()
	}
}
