package models

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "Active"
	SubscriptionExpired  SubscriptionStatus = "Expired"
	SubscriptionCanceled SubscriptionStatus = "Canceled"
	SubscriptionTrial    SubscriptionStatus = "Trial"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionExpired, SubscriptionCanceled, SubscriptionTrial:
		return true
	}
	return false
}

type Subscription struct {
	ID        uint               `gorm:"column:subscriber_id;primaryKey" json:"subscriber_id"`
	UserID    uint               `gorm:"column:user_id;not null;index" json:"user_id"`
	StartDate DateOnly           `gorm:"column:start_date;not null" json:"start_date"`
	EndDate   DateOnly           `gorm:"column:end_date;not null" json:"end_date"`
	Status    SubscriptionStatus `gorm:"column:status;size:50;not null" json:"status"`
	AutoRenew bool               `gorm:"column:auto_renew;not null" json:"auto_renew"`
	CreatedAt time.Time          `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time          `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	Payments []Payment `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
