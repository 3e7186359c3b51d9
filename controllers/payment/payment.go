package paymentController

import (
	"coursedesk/database"
	"coursedesk/middleware"
	"coursedesk/models"
	"coursedesk/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmitPayment records a manual QR payment for a course. The order sits in
// waiting_for_confirmation until an admin verifies the off-band transfer.
func SubmitPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	reqData, ok := c.Locals("validatedPayment").(*struct {
		CourseID      uint   `json:"courseId"`
		TransactionID string `json:"transactionId"`
		ReferralCode  string `json:"referralCode"`
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

	// The gateway reference is the caller's idempotency key
	transactionRef := models.TransactionRef(reqData.TransactionID)
	var existing models.PurchaseOrder
	if err := db.Where("transaction_id = ?", *transactionRef).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction already processed!", nil)
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
		if lookupErr := db.Where("transaction_id = ?", *transactionRef).First(&existing).Error; lookupErr == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction already processed!", nil)
		}
		return middleware.ServerErrorResponse(c, "Failed to record payment!", err)
	}
	tx.Commit()

	utils.SendPurchaseReceipt(user.Email, user.Name, course.Title, order.PaymentID, order.Amount, order.DiscountAmount)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment submitted. Awaiting confirmation.", fiber.Map{
		"paymentId":          order.PaymentID,
		"amount":             order.Amount,
		"discount":           order.DiscountAmount,
		"confirmationStatus": order.ConfirmationStatus,
	})
}

// ConfirmPayment is the admin decision on a manually verified QR payment.
// The confirmation status drives the order status (confirmed -> completed,
// rejected/error -> failed, otherwise pending). A confirmation enqueues a
// durable enrollment task in the same transaction; enrollment problems can
// never fail the confirmation itself.
func ConfirmPayment(c *fiber.Ctx) error {
	paymentID := c.Params("paymentId")

	reqData, ok := c.Locals("validatedConfirmation").(*struct {
		ConfirmationStatus string `json:"confirmationStatus"`
		AdminEmail         string `json:"adminEmail"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var order models.PurchaseOrder
	if err := db.Where("payment_id = ? AND is_deleted = ?", paymentID, false).First(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	}

	// Best-effort gateway cross-check, for the audit log only
	if order.TransactionID != nil {
		if _, err := utils.LookupGatewayTransaction(*order.TransactionID); err != nil {
			log.Printf("[PAYMENT] Gateway lookup for %s skipped: %v", order.PaymentID, err)
		}
	}

	wasConfirmed := order.ConfirmationStatus == models.ConfirmationConfirmed
	nowTime := time.Now()

	order.ConfirmationStatus = reqData.ConfirmationStatus
	order.Status = models.DeriveOrderStatus(reqData.ConfirmationStatus)
	order.ConfirmedBy = reqData.AdminEmail
	order.ConfirmedAt = &nowTime

	tx := db.Begin()

	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		return middleware.ServerErrorResponse(c, "Failed to update payment!", err)
	}

	if reqData.ConfirmationStatus == models.ConfirmationConfirmed {
		// Credit the faculty only on the first transition into confirmed
		if !wasConfirmed && order.FacultyID != nil {
			if err := tx.Model(&models.Faculty{}).Where("id = ?", *order.FacultyID).
				Updates(map[string]interface{}{
					"total_commissions_earned": gorm.Expr("total_commissions_earned + ?", order.CommissionAmount),
					"total_referrals":          gorm.Expr("total_referrals + ?", 1),
				}).Error; err != nil {
				tx.Rollback()
				return middleware.ServerErrorResponse(c, "Failed to update faculty totals!", err)
			}
		}

		// One task per order, no matter how often it is confirmed
		var task models.EnrollmentTask
		if err := tx.Where("order_id = ?", order.ID).First(&task).Error; err != nil {
			task = models.EnrollmentTask{
				OrderID:  order.ID,
				UserID:   order.UserID,
				CourseID: order.CourseID,
				Status:   models.TaskStatusPending,
			}
			if err := tx.Create(&task).Error; err != nil {
				tx.Rollback()
				return middleware.ServerErrorResponse(c, "Failed to enqueue enrollment!", err)
			}
		}
	}

	tx.Commit()

	if reqData.ConfirmationStatus == models.ConfirmationConfirmed {
		// Kick the reconciler so the student does not wait for the next sweep
		go utils.ProcessPendingEnrollmentTasks()

		if !wasConfirmed && order.FacultyID != nil {
			var faculty models.Faculty
			if err := db.Where("id = ?", *order.FacultyID).First(&faculty).Error; err == nil {
				utils.SendCommissionNotice(faculty.Email, faculty.Name, order.CommissionAmount, order.PaymentID)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment confirmation updated!", fiber.Map{
		"paymentId":          order.PaymentID,
		"status":             order.Status,
		"confirmationStatus": order.ConfirmationStatus,
		"confirmedBy":        order.ConfirmedBy,
	})
}

// GetPendingPayments lists orders still waiting for manual confirmation
func GetPendingPayments(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	offset := (page - 1) * limit
	db := database.Database.Db

	query := db.Model(&models.PurchaseOrder{}).
		Where("confirmation_status = ? AND is_deleted = ?", models.ConfirmationWaiting, false)

	var total int64
	query.Count(&total)

	var orders []models.PurchaseOrder
	if err := query.Preload("User").Preload("Course").
		Offset(offset).Limit(limit).Order("created_at asc").Find(&orders).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to fetch pending payments!", err)
	}

	response := map[string]interface{}{
		"payments": orders,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending payments fetched successfully!", response)
}
