package notification

import (
	"encoding/json"
	"net/http"

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

// RegisterRoutes registers all notification routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	r := router.PathPrefix("/notifications").Subrouter()
	r.HandleFunc("", h.CreateNotification).Methods("POST")
	r.HandleFunc("/", h.CreateNotification).Methods("POST")
	r.HandleFunc("", h.GetNotifications).Methods("GET")
	r.HandleFunc("/", h.GetNotifications).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}", h.GetNotification).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}", h.UpdateNotification).Methods("PUT")
	r.HandleFunc("/{id:[0-9]+}/mark-seen", h.MarkSeen).Methods("PUT")
	r.HandleFunc("/user/{userID:[0-9]+}", h.GetUserNotifications).Methods("GET")
}

// CreateNotification records a notification for an existing user. Status
// defaults to Delivered and priority to Medium. Actually sending anything
// is out of scope; a notification here is just a row.
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   uint                        `json:"user_id"`
		Type     models.NotificationType     `json:"type"`
		Category models.NotificationCategory `json:"notification_category"`
		Message  string                      `json:"message"`
		Status   models.NotificationStatus   `json:"status"`
		Priority models.Priority             `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == 0 || req.Type == "" || req.Category == "" || req.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "user_id, type, notification_category and message are required")
		return
	}
	if req.Status == "" {
		req.Status = models.NotificationDelivered
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Type.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid type")
		return
	}
	if !req.Category.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid category")
		return
	}
	if !req.Status.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if !req.Priority.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid priority")
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	notification := models.Notification{
		UserID:   req.UserID,
		Type:     req.Type,
		Category: req.Category,
		Message:  req.Message,
		Status:   req.Status,
		Priority: req.Priority,
	}

	if err := h.db.Create(&notification).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating notification")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, notification)
}

// GetNotifications retrieves notifications in insertion order within a
// skip/limit window.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	skip, limit := utils.ParseWindow(r)

	notifications := []models.Notification{}
	result := h.db.Order("notification_id").Offset(skip).Limit(limit).Find(&notifications)
	if result.Error != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving notifications")
		return
	}

	utils.RespondJSON(w, http.StatusOK, notifications)
}

// GetNotification retrieves a single notification by ID
func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	var notification models.Notification
	if err := h.db.First(&notification, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Notification not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, notification)
}

// GetUserNotifications gets all notifications for a specific user
func (h *Handler) GetUserNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseID(r, "userID")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	notifications := []models.Notification{}
	if err := h.db.Where("user_id = ?", userID).Order("notification_id").Find(&notifications).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving notifications")
		return
	}

	utils.RespondJSON(w, http.StatusOK, notifications)
}

// UpdateNotification applies the fields present in the request body. Only
// status is updatable on a recorded notification.
func (h *Handler) UpdateNotification(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	var req struct {
		Status *models.NotificationStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var notification models.Notification
	if err := h.db.First(&notification, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Notification not found")
		return
	}

	if req.Status != nil && !req.Status.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if req.Status != nil {
		notification.Status = *req.Status
	}

	if err := h.db.Save(&notification).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error updating notification")
		return
	}

	utils.RespondJSON(w, http.StatusOK, notification)
}

// MarkSeen flips a notification to Seen.
func (h *Handler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	var notification models.Notification
	if err := h.db.First(&notification, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Notification not found")
		return
	}

	notification.Status = models.NotificationSeen

	if err := h.db.Save(&notification).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error updating notification")
		return
	}

	utils.RespondJSON(w, http.StatusOK, notification)
}
