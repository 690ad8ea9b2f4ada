package models

import (
	"time"
)

type UserRole string

const (
	RoleUser    UserRole = "User"
	RoleAdmin   UserRole = "Admin"
	RoleSupport UserRole = "Support"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSupport:
		return true
	}
	return false
}

type UserStatus string

const (
	UserActive   UserStatus = "Active"
	UserInactive UserStatus = "Inactive"
	UserBanned   UserStatus = "Banned"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInactive, UserBanned:
		return true
	}
	return false
}

type User struct {
	ID        uint       `gorm:"column:user_id;primaryKey" json:"user_id"`
	Name      string     `gorm:"column:name;size:255;not null" json:"name"`
	Email     string     `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	Phone     string     `gorm:"column:phone_no;size:20" json:"phone_no"`
	Role      UserRole   `gorm:"column:role;size:50;not null" json:"role"`
	Status    UserStatus `gorm:"column:status;size:50;not null" json:"status"`
	CreatedAt time.Time  `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
	LastLogin *time.Time `gorm:"column:last_login" json:"last_login"`

	Subscriptions []Subscription `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Payments      []Payment      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tickets       []Ticket       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	// Tickets this user works on, as opposed to tickets they reported.
	// Deleting the assignee must not delete the ticket.
	AssignedTickets []Ticket `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"-"`
}

func (User) TableName() string {
	return "users"
}
