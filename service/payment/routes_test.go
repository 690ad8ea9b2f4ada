package payment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chidhu/crm-server/cmd/models"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) (*mux.Router, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Payment{},
		&models.Ticket{},
		&models.Notification{},
	))

	router := mux.NewRouter()
	NewHandler(db).RegisterRoutes(router)
	return router, db
}

func doRequest(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "U", Email: email, Role: models.RoleUser, Status: models.UserActive}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestCreatePaymentForcesPending(t *testing.T) {
	router, db := setupTest(t)
	user := createUser(t, db, "a@x.com")

	rr := doRequest(t, router, http.MethodPost, "/payments/", map[string]interface{}{
		"user_id":          user.ID,
		"amount":           49.50,
		"payment_method":   "PayPal",
		"payment_status":   "Success",
		"reference_number": "REF-1",
		"transaction_date": time.Now().UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created models.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, models.PaymentPending, created.Status)
	assert.Equal(t, models.MethodPayPal, created.Method)
	assert.Equal(t, 49.50, created.Amount)
	assert.Nil(t, created.SubscriptionID)
}

func TestCreatePaymentDuplicateReference(t *testing.T) {
	router, db := setupTest(t)
	user := createUser(t, db, "a@x.com")

	body := map[string]interface{}{
		"user_id":          user.ID,
		"amount":           10.00,
		"payment_method":   "Cash",
		"reference_number": "REF-1",
		"transaction_date": time.Now().UTC().Format(time.RFC3339),
	}
	rr := doRequest(t, router, http.MethodPost, "/payments/", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	body["amount"] = 20.00
	rr = doRequest(t, router, http.MethodPost, "/payments/", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreatePaymentMissingReferences(t *testing.T) {
	router, db := setupTest(t)
	user := createUser(t, db, "a@x.com")

	rr := doRequest(t, router, http.MethodPost, "/payments/", map[string]interface{}{
		"user_id":          42,
		"amount":           10.00,
		"payment_method":   "Cash",
		"reference_number": "REF-1",
		"transaction_date": time.Now().UTC().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, router, http.MethodPost, "/payments/", map[string]interface{}{
		"user_id":          user.ID,
		"subscription_id":  42,
		"amount":           10.00,
		"payment_method":   "Cash",
		"reference_number": "REF-2",
		"transaction_date": time.Now().UTC().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreatePaymentValidation(t *testing.T) {
	router, db := setupTest(t)
	user := createUser(t, db, "a@x.com")

	rr := doRequest(t, router, http.MethodPost, "/payments/", map[string]interface{}{
		"user_id": user.ID,
		"amount":  10.00,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, router, http.MethodPost, "/payments/", map[string]interface{}{
		"user_id":          user.ID,
		"amount":           10.00,
		"payment_method":   "Bitcoin",
		"reference_number": "REF-1",
		"transaction_date": time.Now().UTC().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdatePaymentAmountAndStatus(t *testing.T) {
	router, db := setupTest(t)
	user := createUser(t, db, "a@x.com")

	payment := models.Payment{
		UserID:          user.ID,
		Amount:          10.00,
		Method:          models.MethodCard,
		Status:          models.PaymentPending,
		ReferenceNumber: "REF-1",
		TransactionDate: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&payment).Error)

	rr := doRequest(t, router, http.MethodPut, "/payments/1", map[string]interface{}{
		"amount":         25.00,
		"payment_status": "Success",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var updated models.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, 25.00, updated.Amount)
	assert.Equal(t, models.PaymentSuccess, updated.Status)
	// Fields outside the update schema are untouched.
	assert.Equal(t, "REF-1", updated.ReferenceNumber)

	rr = doRequest(t, router, http.MethodPut, "/payments/1", map[string]interface{}{
		"payment_status": "Lost",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, router, http.MethodPut, "/payments/42", map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListPaymentsByUser(t *testing.T) {
	router, db := setupTest(t)
	owner := createUser(t, db, "a@x.com")
	other := createUser(t, db, "b@x.com")

	references := []struct {
		userID uint
		ref    string
	}{
		{owner.ID, "REF-1"},
		{other.ID, "REF-2"},
		{owner.ID, "REF-3"},
	}
	for _, p := range references {
		payment := models.Payment{
			UserID:          p.userID,
			Amount:          5.00,
			Method:          models.MethodCash,
			Status:          models.PaymentPending,
			ReferenceNumber: p.ref,
			TransactionDate: time.Now().UTC(),
		}
		require.NoError(t, db.Create(&payment).Error)
	}

	rr := doRequest(t, router, http.MethodGet, "/payments/user/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var payments []models.Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payments))
	require.Len(t, payments, 2)
	assert.Equal(t, "REF-1", payments[0].ReferenceNumber)
	assert.Equal(t, "REF-3", payments[1].ReferenceNumber)
}
