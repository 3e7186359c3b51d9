package controllers

import (
	"bytes"
	"coursedesk/config"
	"coursedesk/database"
	"coursedesk/middleware"
	"coursedesk/models"
	validators "coursedesk/validators/course"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Get("/courses", GetAllCourses)
	app.Get("/courses/code/:courseId", GetCourseByCode)
	app.Post("/courses/verify-referral", validators.VerifyReferral(), VerifyReferral)
	app.Post("/courses/purchase", middleware.JWTMiddleware, validators.PurchaseCourse(), PurchaseCourse)
	app.Get("/courses/purchased/:studentId", middleware.JWTMiddleware, GetPurchasedCourses)
	app.Put("/courses/:id/progress", middleware.JWTMiddleware, validators.UpdateProgress(), UpdateProgress)
	app.Get("/courses/:id/progress", middleware.JWTMiddleware, validators.GetProgress(), GetProgress)
	app.Post("/courses/:id/lessons/:lessonId/complete", middleware.JWTMiddleware, validators.CompleteLesson(), CompleteLesson)
	app.Get("/courses/:id", validators.GetCourseDetail(), GetCourseDetails)

	return app, db
}

func seedStudent(t *testing.T, db *gorm.DB, email string) (models.User, string) {
	user := models.User{Name: "Student", Email: email, Role: "STUDENT"}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func seedCourse(t *testing.T, db *gorm.DB, code string, price float64) models.Course {
	course := models.Course{
		Title:       "Backend Engineering",
		CourseCode:  code,
		Price:       price,
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestPurchaseCourseWithReferral(t *testing.T) {
	app, db := setupApp(t)

	_, token := seedStudent(t, db, "asha@example.com")
	course := seedCourse(t, db, "GOLANG101", 10000)

	faculty := models.Faculty{Name: "Prof. Rao", Email: "rao@example.com", ReferralCode: "RAO60", CommissionRate: 0.60, IsActive: true}
	require.NoError(t, db.Create(&faculty).Error)

	resp := doRequest(t, app, "POST", "/courses/purchase", token, fiber.Map{
		"courseId":     course.ID,
		"referralCode": "rao60",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, 4000.0, data["finalPrice"])
	assert.Equal(t, 6000.0, data["discount"])

	var order models.PurchaseOrder
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&order).Error)
	assert.Equal(t, "RAO60", order.ReferralCode)
	require.NotNil(t, order.FacultyID)
	assert.Equal(t, faculty.ID, *order.FacultyID)
	assert.Equal(t, 6000.0, order.CommissionAmount)
}

func TestPurchaseCourseInvalidReferral(t *testing.T) {
	app, db := setupApp(t)

	_, token := seedStudent(t, db, "asha@example.com")
	course := seedCourse(t, db, "GOLANG101", 10000)

	// Unknown referral code is silently ignored, not an error
	resp := doRequest(t, app, "POST", "/courses/purchase", token, fiber.Map{
		"courseId":     course.ID,
		"referralCode": "NOSUCHCODE",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, 10000.0, data["finalPrice"])
	assert.Equal(t, 0.0, data["discount"])

	var order models.PurchaseOrder
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&order).Error)
	assert.Nil(t, order.FacultyID)
	assert.Equal(t, 0.0, order.CommissionAmount)
}

func TestPurchaseCourseNotFound(t *testing.T) {
	app, db := setupApp(t)

	_, token := seedStudent(t, db, "asha@example.com")

	resp := doRequest(t, app, "POST", "/courses/purchase", token, fiber.Map{
		"courseId": uint(9999),
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPurchaseCourseDuplicateTransaction(t *testing.T) {
	app, db := setupApp(t)

	_, token := seedStudent(t, db, "asha@example.com")
	course := seedCourse(t, db, "GOLANG101", 10000)

	resp := doRequest(t, app, "POST", "/courses/purchase", token, fiber.Map{
		"courseId":      course.ID,
		"transactionId": "UPI-REF-100",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/courses/purchase", token, fiber.Map{
		"courseId":      course.ID,
		"transactionId": "UPI-REF-100",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestPurchaseCourseDraftStatus(t *testing.T) {
	app, db := setupApp(t)

	_, token := seedStudent(t, db, "asha@example.com")

	// Published but still DRAFT: not listed, so not purchasable either
	draft := models.Course{Title: "Unfinished", CourseCode: "DRAFT001", Price: 5000, Status: "DRAFT", IsPublished: true}
	require.NoError(t, db.Create(&draft).Error)

	resp := doRequest(t, app, "GET", "/courses", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	courses, _ := data["courses"].([]interface{})
	assert.Empty(t, courses)

	resp = doRequest(t, app, "GET", fmt.Sprintf("/courses/%d", draft.ID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/courses/purchase", token, fiber.Map{
		"courseId": draft.ID,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTransactionReferenceUniqueIndex(t *testing.T) {
	_, db := setupApp(t)

	student, _ := seedStudent(t, db, "asha@example.com")
	course := seedCourse(t, db, "GOLANG101", 10000)

	seq := 0
	makeOrder := func(ref *string) models.PurchaseOrder {
		seq++
		return models.PurchaseOrder{
			PaymentID:          fmt.Sprintf("PAY_TEST_%d", seq),
			UserID:             student.ID,
			CourseID:           course.ID,
			OriginalAmount:     course.Price,
			Amount:             course.Price,
			TransactionID:      ref,
			Status:             models.OrderStatusPending,
			ConfirmationStatus: models.ConfirmationWaiting,
		}
	}

	// The database itself rejects a second order with the same reference,
	// even when both inserts race past the handler's lookup
	first := makeOrder(models.TransactionRef("UPI-REF-200"))
	require.NoError(t, db.Create(&first).Error)

	second := makeOrder(models.TransactionRef("UPI-REF-200"))
	assert.Error(t, db.Create(&second).Error)

	// Orders without a gateway reference never collide
	blankA := makeOrder(models.TransactionRef(""))
	blankB := makeOrder(models.TransactionRef("  "))
	require.NoError(t, db.Create(&blankA).Error)
	require.NoError(t, db.Create(&blankB).Error)
	assert.Nil(t, blankA.TransactionID)
	assert.Nil(t, blankB.TransactionID)
}

func TestGetPurchasedCoursesIdentityCheck(t *testing.T) {
	app, db := setupApp(t)

	student, token := seedStudent(t, db, "asha@example.com")
	other, _ := seedStudent(t, db, "ravi@example.com")

	// Reading somebody else's purchases is forbidden
	resp := doRequest(t, app, "GET", fmt.Sprintf("/courses/purchased/%d", other.ID), token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "GET", fmt.Sprintf("/courses/purchased/%d", student.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestVerifyReferral(t *testing.T) {
	app, db := setupApp(t)

	faculty := models.Faculty{Name: "Prof. Rao", Email: "rao@example.com", ReferralCode: "RAO60", CommissionRate: 0.60, IsActive: true}
	require.NoError(t, db.Create(&faculty).Error)

	resp := doRequest(t, app, "POST", "/courses/verify-referral", "", fiber.Map{"referralCode": "rao60"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, 60.0, data["discountPercent"])

	resp = doRequest(t, app, "POST", "/courses/verify-referral", "", fiber.Map{"referralCode": "BOGUS"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope = decodeEnvelope(t, resp)
	data = envelope["data"].(map[string]interface{})
	assert.Equal(t, false, data["valid"])
}

func TestGetCourseByCode(t *testing.T) {
	app, db := setupApp(t)

	seedCourse(t, db, "GOLANG101", 10000)

	resp := doRequest(t, app, "GET", "/courses/code/golang101", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/courses/code/UNKNOWN1", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
