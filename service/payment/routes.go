package payment

import (
	"encoding/json"
	"errors"
	"net/http"
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

// RegisterRoutes registers all payment routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	r := router.PathPrefix("/payments").Subrouter()
	r.HandleFunc("", h.CreatePayment).Methods("POST")
	r.HandleFunc("/", h.CreatePayment).Methods("POST")
	r.HandleFunc("", h.GetPayments).Methods("GET")
	r.HandleFunc("/", h.GetPayments).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}", h.GetPayment).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}", h.UpdatePayment).Methods("PUT")
	r.HandleFunc("/user/{userID:[0-9]+}", h.GetUserPayments).Methods("GET")
}

// CreatePayment records a payment. The status is always Pending on create,
// whatever the request says; reference numbers must be unique.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          uint                 `json:"user_id"`
		SubscriptionID  *uint                `json:"subscription_id"`
		Amount          *float64             `json:"amount"`
		Method          models.PaymentMethod `json:"payment_method"`
		ReferenceNumber string               `json:"reference_number"`
		TransactionDate *time.Time           `json:"transaction_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == 0 || req.Amount == nil || req.Method == "" || req.ReferenceNumber == "" || req.TransactionDate == nil {
		utils.RespondError(w, http.StatusBadRequest, "user_id, amount, payment_method, reference_number and transaction_date are required")
		return
	}
	if !req.Method.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payment method")
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	if req.SubscriptionID != nil {
		var subscription models.Subscription
		if err := h.db.First(&subscription, *req.SubscriptionID).Error; err != nil {
			utils.RespondError(w, http.StatusNotFound, "Subscription not found")
			return
		}
	}

	// Best-effort pre-check; the unique index is the real guard.
	var existing models.Payment
	if err := h.db.Where("reference_number = ?", req.ReferenceNumber).First(&existing).Error; err == nil {
		utils.RespondError(w, http.StatusBadRequest, "Reference number is already in use")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	payment := models.Payment{
		UserID:          req.UserID,
		SubscriptionID:  req.SubscriptionID,
		Amount:          *req.Amount,
		Method:          req.Method,
		Status:          models.PaymentPending,
		ReferenceNumber: req.ReferenceNumber,
		TransactionDate: *req.TransactionDate,
	}

	if err := h.db.Create(&payment).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			utils.RespondError(w, http.StatusBadRequest, "Reference number is already in use")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Error creating payment")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, payment)
}

// GetPayments retrieves payments in insertion order within a skip/limit window.
func (h *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	skip, limit := utils.ParseWindow(r)

	payments := []models.Payment{}
	result := h.db.Order("payment_id").Offset(skip).Limit(limit).Find(&payments)
	if result.Error != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving payments")
		return
	}

	utils.RespondJSON(w, http.StatusOK, payments)
}

// GetPayment retrieves a single payment by ID
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	var payment models.Payment
	if err := h.db.First(&payment, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Payment not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, payment)
}

// GetUserPayments gets all payments for a specific user
func (h *Handler) GetUserPayments(w http.ResponseWriter, r *http.Request) {
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

	payments := []models.Payment{}
	if err := h.db.Where("user_id = ?", userID).Order("payment_id").Find(&payments).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving payments")
		return
	}

	utils.RespondJSON(w, http.StatusOK, payments)
}

// UpdatePayment applies the fields present in the request body. Only amount
// and payment_status are updatable on a recorded payment.
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	var req struct {
		Amount *float64              `json:"amount"`
		Status *models.PaymentStatus `json:"payment_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var payment models.Payment
	if err := h.db.First(&payment, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Payment not found")
		return
	}

	if req.Status != nil && !req.Status.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payment status")
		return
	}

	if req.Amount != nil {
		payment.Amount = *req.Amount
	}
	if req.Status != nil {
		payment.Status = *req.Status
	}

	if err := h.db.Save(&payment).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error updating payment")
		return
	}

	utils.RespondJSON(w, http.StatusOK, payment)
}
