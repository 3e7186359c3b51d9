package utils

import (
	"coursedesk/models"
	"strings"

	"gorm.io/gorm"
)

// ResolveReferralCode is the single referral-validation path for the whole
// platform. Codes are matched case-insensitively against active faculty
// records. An unknown or inactive code returns (nil, nil): the purchase
// proceeds at full price rather than failing.
func ResolveReferralCode(db *gorm.DB, code string) (*models.Faculty, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}

	var faculty models.Faculty
	err := db.Where("referral_code = ? AND is_active = ? AND is_deleted = ?", code, true, false).First(&faculty).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &faculty, nil
}
