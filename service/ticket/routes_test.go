package ticket

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

func createTicket(t *testing.T, db *gorm.DB, reporter uint) models.Ticket {
	t.Helper()
	ticket := models.Ticket{
		UserID:      reporter,
		Subject:     "broken",
		Description: "it broke",
		Status:      models.TicketOpen,
		Priority:    models.PriorityMedium,
		Type:        models.TicketBug,
	}
	require.NoError(t, db.Create(&ticket).Error)
	return ticket
}

func TestCreateTicketDefaults(t *testing.T) {
	router, db := setupTest(t)
	user := createUser(t, db, "a@x.com")

	rr := doRequest(t, router, http.MethodPost, "/tickets/", map[string]interface{}{
		"user_id":     user.ID,
		"subject":     "broken",
		"description": "it broke",
		"ticket_type": "Bug",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created models.Ticket
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, models.TicketOpen, created.Status)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.Nil(t, created.AssignedTo)
	assert.Nil(t, created.EndedAt)
}

func TestCreateTicketValidation(t *testing.T) {
	router, db := setupTest(t)
	user := createUser(t, db, "a@x.com")

	rr := doRequest(t, router, http.MethodPost, "/tickets/", map[string]interface{}{
		"user_id": user.ID,
		"subject": "broken",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, router, http.MethodPost, "/tickets/", map[string]interface{}{
		"user_id":     user.ID,
		"subject":     "broken",
		"description": "it broke",
		"ticket_type": "Complaint",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, router, http.MethodPost, "/tickets/", map[string]interface{}{
		"user_id":     42,
		"subject":     "broken",
		"description": "it broke",
		"ticket_type": "Bug",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAssignTicket(t *testing.T) {
	router, db := setupTest(t)
	reporter := createUser(t, db, "a@x.com")
	staff := createUser(t, db, "staff@x.com")
	ticket := createTicket(t, db, reporter.ID)

	rr := doRequest(t, router, http.MethodPut, "/tickets/1/assign/2", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var assigned models.Ticket
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &assigned))
	assert.Equal(t, models.TicketInProgress, assigned.Status)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, staff.ID, *assigned.AssignedTo)
	assert.True(t, assigned.UpdatedAt.After(ticket.UpdatedAt) || assigned.UpdatedAt.Equal(ticket.UpdatedAt))
}

func TestAssignTicketMissingUserLeavesTicketUnchanged(t *testing.T) {
	router, db := setupTest(t)
	reporter := createUser(t, db, "a@x.com")
	ticket := createTicket(t, db, reporter.ID)

	rr := doRequest(t, router, http.MethodPut, "/tickets/1/assign/42", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	var reloaded models.Ticket
	require.NoError(t, db.First(&reloaded, ticket.ID).Error)
	assert.Equal(t, models.TicketOpen, reloaded.Status)
	assert.Nil(t, reloaded.AssignedTo)
}

func TestAssignMissingTicket(t *testing.T) {
	router, db := setupTest(t)
	createUser(t, db, "a@x.com")

	rr := doRequest(t, router, http.MethodPut, "/tickets/42/assign/1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCloseTicketIdempotent(t *testing.T) {
	router, db := setupTest(t)
	reporter := createUser(t, db, "a@x.com")
	createTicket(t, db, reporter.ID)

	rr := doRequest(t, router, http.MethodPut, "/tickets/1/close", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var first models.Ticket
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))
	assert.Equal(t, models.TicketClosed, first.Status)
	require.NotNil(t, first.EndedAt)

	time.Sleep(20 * time.Millisecond)

	// Closing again keeps the status and re-stamps both timestamps.
	rr = doRequest(t, router, http.MethodPut, "/tickets/1/close", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var second models.Ticket
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))
	assert.Equal(t, models.TicketClosed, second.Status)
	require.NotNil(t, second.EndedAt)
	assert.True(t, second.EndedAt.After(*first.EndedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestUpdateTicketPartial(t *testing.T) {
	router, db := setupTest(t)
	reporter := createUser(t, db, "a@x.com")
	createTicket(t, db, reporter.ID)

	rr := doRequest(t, router, http.MethodPut, "/tickets/1", map[string]interface{}{
		"priority": "Urgent",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var updated models.Ticket
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, models.PriorityUrgent, updated.Priority)
	assert.Equal(t, "broken", updated.Subject)
	assert.Equal(t, models.TicketOpen, updated.Status)

	rr = doRequest(t, router, http.MethodPut, "/tickets/1", map[string]interface{}{
		"assigned_to": 42,
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListTicketsByUser(t *testing.T) {
	router, db := setupTest(t)
	reporter := createUser(t, db, "a@x.com")
	other := createUser(t, db, "b@x.com")
	createTicket(t, db, reporter.ID)
	createTicket(t, db, other.ID)
	createTicket(t, db, reporter.ID)

	rr := doRequest(t, router, http.MethodGet, "/tickets/user/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var tickets []models.Ticket
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tickets))
	assert.Len(t, tickets, 2)
}
