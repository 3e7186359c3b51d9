package paymentController

import (
	"coursedesk/database"
	"coursedesk/middleware"
	"coursedesk/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// GetPaymentStats returns order counts and collected amounts grouped by
// payment status. Plain read-model query, nothing cached.
func GetPaymentStats(c *fiber.Ctx) error {
	db := database.Database.Db

	type statusRow struct {
		Status string  `json:"status"`
		Count  int64   `json:"count"`
		Amount float64 `json:"amount"`
	}

	var rows []statusRow
	if err := db.Model(&models.PurchaseOrder{}).
		Select("status, count(*) as count, coalesce(sum(amount), 0) as amount").
		Where("is_deleted = ?", false).
		Group("status").
		Scan(&rows).Error; err != nil {
		return middleware.ServerErrorResponse(c, "Failed to fetch payment stats!", err)
	}

	var totalOrders int64
	var totalRevenue float64
	byStatus := make(map[string]statusRow, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row
		totalOrders += row.Count
		if row.Status == models.OrderStatusCompleted {
			totalRevenue += row.Amount
		}
	}

	var pendingConfirmations int64
	db.Model(&models.PurchaseOrder{}).
		Where("confirmation_status = ? AND is_deleted = ?", models.ConfirmationWaiting, false).
		Count(&pendingConfirmations)

	var commissionsOwed float64
	db.Model(&models.PurchaseOrder{}).
		Select("coalesce(sum(commission_amount), 0)").
		Where("status = ? AND commission_paid = ? AND faculty_id IS NOT NULL AND is_deleted = ?",
			models.OrderStatusCompleted, false, false).
		Scan(&commissionsOwed)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment stats fetched successfully!", fiber.Map{
		"totalOrders":          totalOrders,
		"totalRevenue":         totalRevenue,
		"byStatus":             byStatus,
		"pendingConfirmations": pendingConfirmations,
		"commissionsOwed":      commissionsOwed,
	})
}

// GetMonthlyRevenue returns completed-order revenue per month for the
// trailing twelve months.
func GetMonthlyRevenue(c *fiber.Ctx) error {
	db := database.Database.Db

	type monthRow struct {
		Month   string  `json:"month"`
		Orders  int64   `json:"orders"`
		Revenue float64 `json:"revenue"`
	}

	months := make([]monthRow, 0, 12)
	cursor := now.BeginningOfMonth().AddDate(0, -11, 0)

	for i := 0; i < 12; i++ {
		start := now.New(cursor).BeginningOfMonth()
		end := now.New(cursor).EndOfMonth()

		var row monthRow
		row.Month = start.Format("2006-01")

		db.Model(&models.PurchaseOrder{}).
			Where("status = ? AND is_deleted = ? AND created_at BETWEEN ? AND ?",
				models.OrderStatusCompleted, false, start, end).
			Count(&row.Orders)

		db.Model(&models.PurchaseOrder{}).
			Select("coalesce(sum(amount), 0)").
			Where("status = ? AND is_deleted = ? AND created_at BETWEEN ? AND ?",
				models.OrderStatusCompleted, false, start, end).
			Scan(&row.Revenue)

		months = append(months, row)
		cursor = cursor.AddDate(0, 1, 0)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Monthly revenue fetched successfully!", fiber.Map{
		"months": months,
	})
}
