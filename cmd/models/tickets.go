package models

import (
	"time"
)

type TicketStatus string

const (
	TicketOpen       TicketStatus = "Open"
	TicketInProgress TicketStatus = "In-progress"
	TicketResolved   TicketStatus = "Resolved"
	TicketClosed     TicketStatus = "Closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

type TicketType string

const (
	TicketBug            TicketType = "Bug"
	TicketFeatureRequest TicketType = "Feature_request"
	TicketSupport        TicketType = "Support"
	TicketBilling        TicketType = "Billing"
)

func (t TicketType) Valid() bool {
	switch t {
	case TicketBug, TicketFeatureRequest, TicketSupport, TicketBilling:
		return true
	}
	return false
}

// Priority is shared between tickets and notifications.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Ticket struct {
	ID          uint         `gorm:"column:ticket_id;primaryKey" json:"ticket_id"`
	UserID      uint         `gorm:"column:user_id;not null;index" json:"user_id"`
	Subject     string       `gorm:"column:subject;size:255;not null" json:"subject"`
	Description string       `gorm:"column:description;type:text;not null" json:"description"`
	Status      TicketStatus `gorm:"column:status;size:50;not null" json:"status"`
	Priority    Priority     `gorm:"column:priority;size:50;not null" json:"priority"`
	Type        TicketType   `gorm:"column:ticket_type;size:50;not null" json:"ticket_type"`
	AssignedTo  *uint        `gorm:"column:assigned_to" json:"assigned_to"`
	CreatedAt   time.Time    `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
	EndedAt     *time.Time   `gorm:"column:ended_at" json:"ended_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}
