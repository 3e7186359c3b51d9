package facultyValidator

import (
	"coursedesk/middleware"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func CreateFaculty() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name              string   `json:"name" validate:"required,min=2"`
			Email             string   `json:"email" validate:"required,email"`
			ReferralCode      string   `json:"referralCode" validate:"required,alphanum,min=3,max=20"`
			CommissionRate    *float64 `json:"commissionRate" validate:"omitempty,gte=0,lte=1"`
			AccountHolderName string   `json:"accountHolderName"`
			AccountNumber     string   `json:"accountNumber"`
			IFSCCode          string   `json:"ifscCode"`
			BankName          string   `json:"bankName"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Name":
					errors["name"] = "Name must be at least 2 characters long!"
				case "Email":
					errors["email"] = "A valid email is required!"
				case "ReferralCode":
					errors["referralCode"] = "Referral code must be 3-20 alphanumeric characters!"
				case "CommissionRate":
					errors["commissionRate"] = "Commission rate must be between 0 and 1!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFaculty", reqData)
		return c.Next()
	}
}

func ValidateReferral() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ReferralCode string `json:"referralCode"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate ReferralCode
		if strings.TrimSpace(reqData.ReferralCode) == "" {
			errors["referralCode"] = "Referral code is required!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReferral", reqData)
		return c.Next()
	}
}

func MarkCommissionPaid() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.TrimSpace(c.Params("paymentId")) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment id is required!", nil)
		}

		return c.Next()
	}
}
