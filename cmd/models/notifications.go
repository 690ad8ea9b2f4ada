package models

import (
	"time"
)

type NotificationType string

const (
	NotificationEmail NotificationType = "Email"
	NotificationSMS   NotificationType = "SMS"
	NotificationInApp NotificationType = "In-app"
	NotificationPush  NotificationType = "Push"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationEmail, NotificationSMS, NotificationInApp, NotificationPush:
		return true
	}
	return false
}

type NotificationCategory string

const (
	CategorySystem        NotificationCategory = "System"
	CategoryMarketing     NotificationCategory = "Marketing"
	CategoryTransactional NotificationCategory = "Transactional"
	CategorySupport       NotificationCategory = "Support"
)

func (c NotificationCategory) Valid() bool {
	switch c {
	case CategorySystem, CategoryMarketing, CategoryTransactional, CategorySupport:
		return true
	}
	return false
}

type NotificationStatus string

const (
	NotificationSeen      NotificationStatus = "Seen"
	NotificationDelivered NotificationStatus = "Delivered"
	NotificationFailed    NotificationStatus = "Failed"
)

func (s NotificationStatus) Valid() bool {
	switch s {
	case NotificationSeen, NotificationDelivered, NotificationFailed:
		return true
	}
	return false
}

type Notification struct {
	ID        uint                 `gorm:"column:notification_id;primaryKey" json:"notification_id"`
	UserID    uint                 `gorm:"column:user_id;not null;index" json:"user_id"`
	Type      NotificationType     `gorm:"column:type;size:50;not null" json:"type"`
	Category  NotificationCategory `gorm:"column:notification_category;size:50;not null" json:"notification_category"`
	Message   string               `gorm:"column:message;type:text;not null" json:"message"`
	Status    NotificationStatus   `gorm:"column:status;size:50;not null" json:"status"`
	Priority  Priority             `gorm:"column:priority;size:50;not null" json:"priority"`
	CreatedAt time.Time            `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time            `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
