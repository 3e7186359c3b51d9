package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Payment status values
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusRefunded  = "refunded"
)

// Confirmation status values (admin verification of an off-band QR payment)
const (
	ConfirmationWaiting   = "waiting_for_confirmation"
	ConfirmationConfirmed = "confirmed"
	ConfirmationRejected  = "rejected"
	ConfirmationError     = "error"
	ConfirmationPending   = "pending"
)

// PurchaseOrder is the single record for one purchase attempt: payment
// details, referral linkage and commission bookkeeping all live here.
type PurchaseOrder struct {
	gorm.Model
	PaymentID string `json:"payment_id" gorm:"uniqueIndex;not null"` // PAY_<timestamp>_<random>
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	CourseID  uint   `json:"course_id" gorm:"index;not null"`

	OriginalAmount float64 `json:"original_amount" gorm:"not null"`
	Amount         float64 `json:"amount" gorm:"not null"` // final price after discount
	DiscountAmount float64 `json:"discount_amount" gorm:"default:0"`

	ReferralCode     string     `json:"referral_code"`
	FacultyID        *uint      `json:"faculty_id" gorm:"index"`
	CommissionAmount float64    `json:"commission_amount" gorm:"default:0"`
	CommissionPaid   bool       `json:"commission_paid" gorm:"default:false"`
	CommissionPaidAt *time.Time `json:"commission_paid_at"`

	// NULL when the caller supplied no gateway reference, so the unique
	// index only bites on real duplicates.
	TransactionID *string `json:"transaction_id" gorm:"uniqueIndex"`
	PaymentMethod string  `json:"payment_method" gorm:"default:'QR'"`

	Status             string     `json:"status" gorm:"default:'pending'"`
	ConfirmationStatus string     `json:"confirmation_status" gorm:"default:'waiting_for_confirmation'"`
	ConfirmedBy        string     `json:"confirmed_by"` // admin email
	ConfirmedAt        *time.Time `json:"confirmed_at"`

	IsDeleted bool `gorm:"default:false"`

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course  Course  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Faculty Faculty `gorm:"foreignKey:FacultyID" json:"-"`
}

// TransactionRef normalizes a caller-supplied gateway reference for storage:
// nil when blank, so absent references never collide on the unique index.
func TransactionRef(id string) *string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// DeriveOrderStatus maps a confirmation status to the payment status the
// order must carry after an admin decision.
func DeriveOrderStatus(confirmationStatus string) string {
	switch confirmationStatus {
	case ConfirmationConfirmed:
		return OrderStatusCompleted
	case ConfirmationRejected, ConfirmationError:
		return OrderStatusFailed
	default:
		// pending / waiting_for_confirmation keep the order pending
		return OrderStatusPending
	}
}
