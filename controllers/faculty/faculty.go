package facultyController

import (
	"coursedesk/config"
	"coursedesk/database"
	"coursedesk/middleware"
	"coursedesk/models"
	"coursedesk/utils"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CreateFaculty registers a referral partner. The referral code is stored
// uppercase and is immutable once set.
func CreateFaculty(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedFaculty").(*struct {
		Name              string   `json:"name" validate:"required,min=2"`
		Email             string   `json:"email" validate:"required,email"`
		ReferralCode      string   `json:"referralCode" validate:"required,alphanum,min=3,max=20"`
		CommissionRate    *float64 `json:"commissionRate" validate:"omitempty,gte=0,lte=1"`
		AccountHolderName string   `json:"accountHolderName"`
		AccountNumber     string   `json:"accountNumber"`
		IFSCCode          string   `json:"ifscCode"`
		BankName          string   `json:"bankName"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	referralCode := strings.ToUpper(strings.TrimSpace(reqData.ReferralCode))

	var existing models.Faculty
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Faculty with this email already exists!", nil)
	}
	if err := db.Where("referral_code = ? AND is_deleted = ?", referralCode, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Referral code already in use!", nil)
	}

	commissionRate := config.AppConfig.DefaultCommissionRate
	if reqData.CommissionRate != nil {
		commissionRate = *reqData.CommissionRate
	}

	faculty := models.Faculty{
		Name:              reqData.Name,
		Email:             reqData.Email,
		ReferralCode:      referralCode,
		CommissionRate:    commissionRate,
		IsActive:          true,
		AccountHolderName: reqData.AccountHolderName,
		AccountNumber:     reqData.AccountNumber,
		IFSCCode:          reqData.IFSCCode,
		BankName:          reqData.BankName,
	}

	if err := db.Create(&faculty).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to create faculty!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Faculty created successfully!", faculty)
}

// ValidateReferral checks a referral code against active faculty records
func ValidateReferral(c *fiber.Ctx) error {
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
			"valid": false,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Referral code is valid!", fiber.Map{
		"valid":          true,
		"facultyName":    faculty.Name,
		"referralCode":   faculty.ReferralCode,
		"commissionRate": faculty.CommissionRate,
	})
}

// GetCommissions lists referred orders and their commission state, optionally
// filtered by faculty and paid flag.
func GetCommissions(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&models.PurchaseOrder{}).
		Where("faculty_id IS NOT NULL AND is_deleted = ?", false)

	if facultyID := c.QueryInt("facultyId", 0); facultyID > 0 {
		query = query.Where("faculty_id = ?", facultyID)
	}
	if paid := c.Query("paid"); paid != "" {
		query = query.Where("commission_paid = ?", paid == "true")
	}

	var orders []models.PurchaseOrder
	if err := query.Preload("Faculty").Preload("Course").Order("created_at desc").Find(&orders).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to fetch commissions!", err)
	}

	var totalOwed, totalPaid float64
	for _, order := range orders {
		if order.Status != models.OrderStatusCompleted {
			continue
		}
		if order.CommissionPaid {
			totalPaid += order.CommissionAmount
		} else {
			totalOwed += order.CommissionAmount
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Commissions fetched successfully!", fiber.Map{
		"commissions": orders,
		"totalOwed":   totalOwed,
		"totalPaid":   totalPaid,
	})
}

// MarkCommissionPaid settles the commission on one completed referred order
func MarkCommissionPaid(c *fiber.Ctx) error {
	paymentID := c.Params("paymentId")

	db := database.Database.Db

	var order models.PurchaseOrder
	if err := db.Where("payment_id = ? AND is_deleted = ?", paymentID, false).First(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	}

	if order.FacultyID == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment has no referral commission!", nil)
	}
	if order.Status != models.OrderStatusCompleted {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Commission can only be paid on completed payments!", nil)
	}
	if order.CommissionPaid {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Commission already marked paid!", order)
	}

	nowTime := time.Now()
	order.CommissionPaid = true
	order.CommissionPaidAt = &nowTime

	if err := db.Save(&order).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to mark commission paid!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Commission marked as paid!", order)
}

// DeleteFaculty removes a referral partner. Faculty referenced by orders are
// only deactivated so commission history stays intact; unreferenced records
// are removed outright.
func DeleteFaculty(c *fiber.Ctx) error {
	facultyID, err := strconv.Atoi(c.Params("id"))
	if err != nil || facultyID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid faculty id!", nil)
	}

	db := database.Database.Db

	var faculty models.Faculty
	if err := db.Where("id = ? AND is_deleted = ?", facultyID, false).First(&faculty).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Faculty not found!", nil)
	}

	var referenceCount int64
	db.Model(&models.PurchaseOrder{}).Where("faculty_id = ? AND is_deleted = ?", facultyID, false).Count(&referenceCount)

	if referenceCount > 0 {
		faculty.IsActive = false
		faculty.IsDeleted = true
		if err := db.Save(&faculty).Error; err != nil {
			return middleware.ServerErrorResponse(c, "Failed to deactivate faculty!", err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Faculty deactivated (payments reference this faculty).", nil)
	}

	if err := db.Unscoped().Delete(&faculty).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to delete faculty!", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Faculty deleted successfully!", nil)
}

// GetFacultyList lists referral partners with their running totals
func GetFacultyList(c *fiber.Ctx) error {
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

	query := db.Model(&models.Faculty{}).Where("is_deleted = ?", false)

	var total int64
	query.Count(&total)

	var faculty []models.Faculty
	if err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&faculty).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to fetch faculty!", err)
	}

	response := map[string]interface{}{
		"faculty": faculty,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Faculty fetched successfully!", response)
}
