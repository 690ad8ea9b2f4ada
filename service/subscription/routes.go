package subscription

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

// RegisterRoutes registers all subscription routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	r := router.PathPrefix("/subscriptions").Subrouter()
	r.HandleFunc("", h.CreateSubscription).Methods("POST")
	r.HandleFunc("/", h.CreateSubscription).Methods("POST")
	r.HandleFunc("", h.GetSubscriptions).Methods("GET")
	r.HandleFunc("/", h.GetSubscriptions).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}", h.GetSubscription).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}", h.UpdateSubscription).Methods("PUT")
	r.HandleFunc("/{id:[0-9]+}", h.DeleteSubscription).Methods("DELETE")
	r.HandleFunc("/user/{userID:[0-9]+}", h.GetUserSubscriptions).Methods("GET")
}

// CreateSubscription creates a subscription for an existing user. Status
// defaults to Trial and auto_renew to true when not supplied.
func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    uint                      `json:"user_id"`
		StartDate models.DateOnly           `json:"start_date"`
		EndDate   models.DateOnly           `json:"end_date"`
		Status    models.SubscriptionStatus `json:"status"`
		AutoRenew *bool                     `json:"auto_renew"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == 0 || req.StartDate.IsZero() || req.EndDate.IsZero() {
		utils.RespondError(w, http.StatusBadRequest, "user_id, start_date and end_date are required")
		return
	}
	if req.Status == "" {
		req.Status = models.SubscriptionTrial
	}
	if !req.Status.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	autoRenew := true
	if req.AutoRenew != nil {
		autoRenew = *req.AutoRenew
	}

	subscription := models.Subscription{
		UserID:    req.UserID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    req.Status,
		AutoRenew: autoRenew,
	}

	if err := h.db.Create(&subscription).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating subscription")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, subscription)
}

// GetSubscriptions retrieves subscriptions in insertion order within a
// skip/limit window.
func (h *Handler) GetSubscriptions(w http.ResponseWriter, r *http.Request) {
	skip, limit := utils.ParseWindow(r)

	subscriptions := []models.Subscription{}
	result := h.db.Order("subscriber_id").Offset(skip).Limit(limit).Find(&subscriptions)
	if result.Error != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving subscriptions")
		return
	}

	utils.RespondJSON(w, http.StatusOK, subscriptions)
}

// GetSubscription retrieves a single subscription by ID
func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	var subscription models.Subscription
	if err := h.db.First(&subscription, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Subscription not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, subscription)
}

// GetUserSubscriptions gets all subscriptions for a specific user
func (h *Handler) GetUserSubscriptions(w http.ResponseWriter, r *http.Request) {
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

	subscriptions := []models.Subscription{}
	if err := h.db.Where("user_id = ?", userID).Order("subscriber_id").Find(&subscriptions).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving subscriptions")
		return
	}

	utils.RespondJSON(w, http.StatusOK, subscriptions)
}

// UpdateSubscription applies the fields present in the request body.
func (h *Handler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	var req struct {
		StartDate *models.DateOnly           `json:"start_date"`
		EndDate   *models.DateOnly           `json:"end_date"`
		Status    *models.SubscriptionStatus `json:"status"`
		AutoRenew *bool                      `json:"auto_renew"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var subscription models.Subscription
	if err := h.db.First(&subscription, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Subscription not found")
		return
	}

	if req.Status != nil && !req.Status.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if req.StartDate != nil {
		subscription.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		subscription.EndDate = *req.EndDate
	}
	if req.Status != nil {
		subscription.Status = *req.Status
	}
	if req.AutoRenew != nil {
		subscription.AutoRenew = *req.AutoRenew
	}

	if err := h.db.Save(&subscription).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error updating subscription")
		return
	}

	utils.RespondJSON(w, http.StatusOK, subscription)
}

// DeleteSubscription removes a subscription. Payments that referenced it
// keep their rows with subscription_id cleared.
func (h *Handler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid subscription ID")
		return
	}

	var subscription models.Subscription
	if err := h.db.First(&subscription, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Subscription not found")
		return
	}

	if err := h.db.Delete(&subscription).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error deleting subscription")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
