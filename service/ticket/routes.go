package ticket

import (
	"encoding/json"
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

// RegisterRoutes registers all ticket routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	r := router.PathPrefix("/tickets").Subrouter()
	r.HandleFunc("", h.CreateTicket).Methods("POST")
	r.HandleFunc("/", h.CreateTicket).Methods("POST")
	r.HandleFunc("", h.GetTickets).Methods("GET")
	r.HandleFunc("/", h.GetTickets).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}", h.GetTicket).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}", h.UpdateTicket).Methods("PUT")
	r.HandleFunc("/{id:[0-9]+}/assign/{userID:[0-9]+}", h.AssignTicket).Methods("PUT")
	r.HandleFunc("/{id:[0-9]+}/close", h.CloseTicket).Methods("PUT")
	r.HandleFunc("/user/{userID:[0-9]+}", h.GetUserTickets).Methods("GET")
}

// CreateTicket opens a ticket for an existing reporter. Status defaults to
// Open and priority to Medium.
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      uint              `json:"user_id"`
		Subject     string            `json:"subject"`
		Description string            `json:"description"`
		Priority    models.Priority   `json:"priority"`
		Type        models.TicketType `json:"ticket_type"`
		AssignedTo  *uint             `json:"assigned_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == 0 || req.Subject == "" || req.Description == "" || req.Type == "" {
		utils.RespondError(w, http.StatusBadRequest, "user_id, subject, description and ticket_type are required")
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Priority.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid priority")
		return
	}
	if !req.Type.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid ticket type")
		return
	}

	var reporter models.User
	if err := h.db.First(&reporter, req.UserID).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	if req.AssignedTo != nil {
		var assignee models.User
		if err := h.db.First(&assignee, *req.AssignedTo).Error; err != nil {
			utils.RespondError(w, http.StatusNotFound, "Assignee not found")
			return
		}
	}

	ticket := models.Ticket{
		UserID:      req.UserID,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      models.TicketOpen,
		Priority:    req.Priority,
		Type:        req.Type,
		AssignedTo:  req.AssignedTo,
	}

	if err := h.db.Create(&ticket).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating ticket")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, ticket)
}

// GetTickets retrieves tickets in insertion order within a skip/limit window.
func (h *Handler) GetTickets(w http.ResponseWriter, r *http.Request) {
	skip, limit := utils.ParseWindow(r)

	tickets := []models.Ticket{}
	result := h.db.Order("ticket_id").Offset(skip).Limit(limit).Find(&tickets)
	if result.Error != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving tickets")
		return
	}

	utils.RespondJSON(w, http.StatusOK, tickets)
}

// GetTicket retrieves a single ticket by ID
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	var ticket models.Ticket
	if err := h.db.First(&ticket, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Ticket not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, ticket)
}

// GetUserTickets gets all tickets reported by a specific user
func (h *Handler) GetUserTickets(w http.ResponseWriter, r *http.Request) {
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

	tickets := []models.Ticket{}
	if err := h.db.Where("user_id = ?", userID).Order("ticket_id").Find(&tickets).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving tickets")
		return
	}

	utils.RespondJSON(w, http.StatusOK, tickets)
}

// UpdateTicket applies the fields present in the request body.
func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	var req struct {
		Subject     *string              `json:"subject"`
		Description *string              `json:"description"`
		Status      *models.TicketStatus `json:"status"`
		Priority    *models.Priority     `json:"priority"`
		Type        *models.TicketType   `json:"ticket_type"`
		AssignedTo  *uint                `json:"assigned_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var ticket models.Ticket
	if err := h.db.First(&ticket, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Ticket not found")
		return
	}

	if req.Status != nil && !req.Status.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if req.Priority != nil && !req.Priority.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid priority")
		return
	}
	if req.Type != nil && !req.Type.Valid() {
		utils.RespondError(w, http.StatusBadRequest, "Invalid ticket type")
		return
	}
	if req.AssignedTo != nil {
		var assignee models.User
		if err := h.db.First(&assignee, *req.AssignedTo).Error; err != nil {
			utils.RespondError(w, http.StatusNotFound, "Assignee not found")
			return
		}
	}

	if req.Subject != nil {
		ticket.Subject = *req.Subject
	}
	if req.Description != nil {
		ticket.Description = *req.Description
	}
	if req.Status != nil {
		ticket.Status = *req.Status
	}
	if req.Priority != nil {
		ticket.Priority = *req.Priority
	}
	if req.Type != nil {
		ticket.Type = *req.Type
	}
	if req.AssignedTo != nil {
		ticket.AssignedTo = req.AssignedTo
	}

	if err := h.db.Save(&ticket).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error updating ticket")
		return
	}

	utils.RespondJSON(w, http.StatusOK, ticket)
}

// AssignTicket hands a ticket to a staff user and moves it to In-progress.
func (h *Handler) AssignTicket(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}
	userID, err := utils.ParseID(r, "userID")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var ticket models.Ticket
	if err := h.db.First(&ticket, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Ticket not found")
		return
	}

	var assignee models.User
	if err := h.db.First(&assignee, userID).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	ticket.AssignedTo = &assignee.ID
	ticket.Status = models.TicketInProgress

	if err := h.db.Save(&ticket).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error assigning ticket")
		return
	}

	utils.RespondJSON(w, http.StatusOK, ticket)
}

// CloseTicket closes a ticket and stamps ended_at. Closing an already-closed
// ticket just re-stamps the timestamps.
func (h *Handler) CloseTicket(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid ticket ID")
		return
	}

	var ticket models.Ticket
	if err := h.db.First(&ticket, id).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Ticket not found")
		return
	}

	now := time.Now().UTC()
	ticket.Status = models.TicketClosed
	ticket.EndedAt = &now

	if err := h.db.Save(&ticket).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error closing ticket")
		return
	}

	utils.RespondJSON(w, http.StatusOK, ticket)
}
