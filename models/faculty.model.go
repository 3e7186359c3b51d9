package models

import (
	"math"

	"gorm.io/gorm"
)

// DefaultCommissionRate is applied whenever a faculty record carries a
// corrupted or out-of-range rate.
const DefaultCommissionRate = 0.60

// Faculty represents a referral partner. Applying their referral code at
// purchase time discounts the course and credits them a commission equal
// to the discount given.
type Faculty struct {
	gorm.Model
	Name           string  `json:"name"`
	Email          string  `json:"email" gorm:"unique;not null"`
	ReferralCode   string  `json:"referral_code" gorm:"uniqueIndex;not null"` // uppercase, immutable once set
	CommissionRate float64 `json:"commission_rate" gorm:"default:0.60"`       // fraction in [0,1]

	TotalCommissionsEarned float64 `json:"total_commissions_earned" gorm:"default:0"`
	TotalReferrals         int64   `json:"total_referrals" gorm:"default:0"`

	// No column default: a DB default of true would override an explicit
	// false on Create (GORM skips zero-value fields). CreateFaculty sets
	// the flag explicitly.
	IsActive bool `json:"is_active"`

	// Payout bank details
	AccountHolderName string `json:"account_holder_name"`
	AccountNumber     string `json:"account_number"`
	IFSCCode          string `json:"ifsc_code"`
	BankName          string `json:"bank_name"`

	IsDeleted bool `gorm:"default:false"`
}

// CommissionBreakdown is the result of pricing a purchase against a
// referral rate.
type CommissionBreakdown struct {
	OriginalPrice  float64 `json:"original_price"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalPrice     float64 `json:"final_price"`
	Commission     float64 `json:"commission"`
}

// CalculateCommission prices a purchase against a commission rate. A rate
// outside [0,1] or not a finite number falls back to DefaultCommissionRate.
// The commission always equals the discount granted: the platform funds the
// referral bonus from its own margin.
func CalculateCommission(originalPrice, rate float64) CommissionBreakdown {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 || rate > 1 {
		rate = DefaultCommissionRate
	}

	discount := originalPrice * rate
	finalPrice := originalPrice - discount
	if finalPrice < 0 {
		finalPrice = 0
	}

	return CommissionBreakdown{
		OriginalPrice:  originalPrice,
		DiscountAmount: discount,
		FinalPrice:     finalPrice,
		Commission:     discount,
	}
}

// CalculateCommission prices a purchase against this faculty's rate.
func (f *Faculty) CalculateCommission(originalPrice float64) CommissionBreakdown {
	return CalculateCommission(originalPrice, f.CommissionRate)
}
