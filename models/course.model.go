package models

import "gorm.io/gorm"

// Course represents a sellable course in the catalog
type Course struct {
	gorm.Model
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Author       string  `json:"author"`
	CourseCode   string  `json:"course_code" gorm:"uniqueIndex;not null"` // public code, e.g. GOLANG101
	Price        float64 `json:"price" gorm:"not null;default:0"`
	Duration     int64   `json:"duration" gorm:"default:0"`     // duration in hours
	Status       string  `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL string  `json:"thumbnail_url"`
	IsPublished  bool    `json:"is_published" gorm:"default:false"`
	IsDeleted    bool    `gorm:"default:false"`
}

// AvailableCourses scopes a query to courses students may see and buy.
// Listing, detail and purchase all share this predicate so a course can
// never be purchasable without being listed.
func AvailableCourses(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ? AND is_published = ? AND status = ?", false, true, "ACTIVE")
}
