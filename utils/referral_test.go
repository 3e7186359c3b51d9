package utils

import (
	"coursedesk/database"
	"coursedesk/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDb(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestResolveReferralCode(t *testing.T) {
	db := setupDb(t)

	faculty := models.Faculty{
		Name:           "Prof. Sharma",
		Email:          "sharma@example.com",
		ReferralCode:   "REFER60",
		CommissionRate: 0.60,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&faculty).Error)

	// Lookup is case-insensitive
	for _, code := range []string{"REFER60", "refer60", "  Refer60 "} {
		got, err := ResolveReferralCode(db, code)
		require.NoError(t, err)
		require.NotNil(t, got, "code %q should resolve", code)
		assert.Equal(t, faculty.ID, got.ID)
	}

	// Unknown code resolves to nothing, not an error
	got, err := ResolveReferralCode(db, "NOSUCHCODE")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Empty code is ignored
	got, err = ResolveReferralCode(db, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveReferralCodeInactiveFaculty(t *testing.T) {
	db := setupDb(t)

	faculty := models.Faculty{
		Name:         "Inactive Partner",
		Email:        "inactive@example.com",
		ReferralCode: "OLDCODE",
		IsActive:     false,
	}
	require.NoError(t, db.Create(&faculty).Error)

	// The inactive flag must survive the insert; a column default of true
	// would silently flip it back on
	var stored models.Faculty
	require.NoError(t, db.First(&stored, faculty.ID).Error)
	require.False(t, stored.IsActive)

	got, err := ResolveReferralCode(db, "OLDCODE")
	require.NoError(t, err)
	assert.Nil(t, got)
}
