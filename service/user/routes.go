package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/chidhu/crm-server/cmd/models"
	"github.com/chidhu/crm-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// RegisterRoutes sets up all user-related routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	r := router.PathPrefix("/users").Subrouter()
	r.HandleFunc("", h.CreateUser).Methods("POST")
	r.HandleFunc("/", h.CreateUser).Methods("POST")
	r.HandleFunc("", h.GetUsers).Methods("GET")
	r.HandleFunc("/", h.GetUsers).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}", h.GetUser).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}", h.UpdateUser).Methods("PUT")
	r.HandleFunc("/{id:[0-9]+}", h.DeleteUser).Methods("DELETE")
}

// CreateUser registers a new user. Email must not already be in use.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string            `json:"name"`
		Email  string            `json:"email"`
		Phone  string            `json:"phone_no"`
		Role   models.UserRole   `json:"role"`
		Status models.UserStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" {
		utils.RespondError(w, http.StatusBadRequest, "name and email are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		utils.RespondError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if req.Status == "" {
		req.Status = models.UserActive
	}
	if !req.Role.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	if !req.Status.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	// Best-effort pre-check; the unique index on email is the real guard.
	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(w, http.StatusBadRequest, "Email is already in use")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	user := models.User{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Role:   req.Role,
		Status: req.Status,
	}

	if err := h.db.Create(&user).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			utils.RespondError(w, http.StatusBadRequest, "Email is already in use")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, user)
}

// GetUsers retrieves users in insertion order within a skip/limit window.
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit := utils.ParseWindow(r)

	users := []models.User{}
	result := h.db.Order("user_id").Offset(skip).Limit(limit).Find(&users)
	if result.Error != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving users")
		return
	}

	utils.RespondJSON(w, http.StatusOK, users)
}

// GetUser retrieves a specific user by ID
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, user)
}

// UpdateUser applies the fields present in the request body. An empty body
// is valid and still refreshes updated_at.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req struct {
		Name      *string            `json:"name"`
		Email     *string            `json:"email"`
		Phone     *string            `json:"phone_no"`
		Role      *models.UserRole   `json:"role"`
		Status    *models.UserStatus `json:"status"`
		LastLogin *time.Time         `json:"last_login"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	if req.Role != nil && !req.Role.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if req.Email != nil && *req.Email != user.Email {
		if !strings.Contains(*req.Email, "@") {
			utils.RespondError(w, http.StatusBadRequest, "Invalid email address")
			return
		}
		var existing models.User
		if err := h.db.Where("email = ? AND user_id <> ?", *req.Email, userID).First(&existing).Error; err == nil {
			utils.RespondError(w, http.StatusBadRequest, "Email is already in use")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}
		user.Email = *req.Email
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.LastLogin != nil {
		user.LastLogin = req.LastLogin
	}

	if err := h.db.Save(&user).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			utils.RespondError(w, http.StatusBadRequest, "Email is already in use")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Error updating user")
		return
	}

	utils.RespondJSON(w, http.StatusOK, user)
}

// DeleteUser removes a user. Owned subscriptions, payments, notifications and
// reported tickets go with it; tickets merely assigned to the user keep their
// row and lose the assignee.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.db.Delete(&user).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error deleting user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
