package controllers

import (
	"coursedesk/database"
	"coursedesk/middleware"
	"coursedesk/models"
	"coursedesk/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PurchaseCourse records a purchase order for the authenticated student.
// A valid referral code discounts the price and earmarks a commission for
// the owning faculty member; an unknown code is ignored and the course is
// billed at full price.
func PurchaseCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	reqData, ok := c.Locals("validatedPurchase").(*struct {
		CourseID      uint   `json:"courseId"`
		ReferralCode  string `json:"referralCode"`
		TransactionID string `json:"transactionId"`
		PaymentMethod string `json:"paymentMethod"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Scopes(models.AvailableCourses).Where("id = ?", reqData.CourseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Duplicate gateway reference means the payment was already recorded
	transactionRef := models.TransactionRef(reqData.TransactionID)
	if transactionRef != nil {
		var existing models.PurchaseOrder
		if err := db.Where("transaction_id = ?", *transactionRef).First(&existing).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction already processed!", nil)
		}
	}

	faculty, err := utils.ResolveReferralCode(db, reqData.ReferralCode)
	if err != nil {
		return middleware.ServerErrorResponse(c, "Failed to resolve referral code!", err)
	}

	breakdown := models.CommissionBreakdown{OriginalPrice: course.Price, FinalPrice: course.Price}
	var facultyID *uint
	referralCode := ""
	if faculty != nil {
		breakdown = faculty.CalculateCommission(course.Price)
		facultyID = &faculty.ID
		referralCode = faculty.ReferralCode
	}

	paymentMethod := reqData.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "QR"
	}

	order := models.PurchaseOrder{
		PaymentID:          utils.GeneratePaymentID(),
		UserID:             userID,
		CourseID:           course.ID,
		OriginalAmount:     breakdown.OriginalPrice,
		Amount:             breakdown.FinalPrice,
		DiscountAmount:     breakdown.DiscountAmount,
		ReferralCode:       referralCode,
		FacultyID:          facultyID,
		CommissionAmount:   breakdown.Commission,
		TransactionID:      transactionRef,
		PaymentMethod:      paymentMethod,
		Status:             models.OrderStatusPending,
		ConfirmationStatus: models.ConfirmationWaiting,
	}

	tx := db.Begin()
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		// The unique index catches a concurrent submission that slipped
		// past the lookup above
		if transactionRef != nil {
			var existing models.PurchaseOrder
			if lookupErr := db.Where("transaction_id = ?", *transactionRef).First(&existing).Error; lookupErr == nil {
				return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction already processed!", nil)
			}
		}
		return middleware.ServerErrorResponse(c, "Failed to create purchase order!", err)
	}
	tx.Commit()

	utils.SendPurchaseReceipt(user.Email, user.Name, course.Title, order.PaymentID, order.Amount, order.DiscountAmount)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Purchase recorded successfully!", fiber.Map{
		"purchaseId": order.ID,
		"paymentId":  order.PaymentID,
		"courseId":   order.CourseID,
		"finalPrice": order.Amount,
		"discount":   order.DiscountAmount,
	})
}

// GetPurchasedCourses lists the caller's enrollments enriched with the
// matching purchase-order status. Callers may only read their own list.
func GetPurchasedCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestedID, err := strconv.Atoi(c.Params("studentId"))
	if err != nil || requestedID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid student id!", nil)
	}

	if uint(requestedID) != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only view your own purchases!", nil)
	}

	db := database.Database.Db

	var enrollments []models.Enrollment
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).Preload("Course").Find(&enrollments).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to fetch purchased courses!", err)
	}

	result := make([]fiber.Map, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entry := fiber.Map{
			"enrollment": enrollment,
			"course":     enrollment.Course,
		}

		var order models.PurchaseOrder
		if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, enrollment.CourseID, false).
			Order("created_at desc").First(&order).Error; err == nil {
			entry["paymentId"] = order.PaymentID
			entry["paymentStatus"] = order.Status
			entry["confirmationStatus"] = order.ConfirmationStatus
		}

		result = append(result, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchased courses fetched successfully!", result)
}

// VerifyReferral previews the discount a referral code would give. Unknown
// or inactive codes come back invalid rather than erroring.
func VerifyReferral(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReferral").(*struct {
		ReferralCode string `json:"referralCode"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	faculty, err := utils.ResolveReferralCode(database.Database.Db, reqData.ReferralCode)
	if err != nil {
		return middleware.ServerErrorResponse(c, "Failed to validate referral code!", err)
	}

	if faculty == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Referral code is not valid.", fiber.Map{
			"valid":           false,
			"discountPercent": 0,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Referral code is valid!", fiber.Map{
		"valid":           true,
		"referralCode":    faculty.ReferralCode,
		"facultyName":     faculty.Name,
		"discountPercent": faculty.CommissionRate * 100,
	})
}
