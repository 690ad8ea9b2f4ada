package models

import (
	"time"
)

type PaymentMethod string

const (
	MethodCash   PaymentMethod = "Cash"
	MethodUPI    PaymentMethod = "UPI"
	MethodCheque PaymentMethod = "Cheque"
	MethodCard   PaymentMethod = "Card"
	MethodPayPal PaymentMethod = "PayPal"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodUPI, MethodCheque, MethodCard, MethodPayPal:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentSuccess  PaymentStatus = "Success"
	PaymentPending  PaymentStatus = "Pending"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentSuccess, PaymentPending, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Payment struct {
	ID              uint          `gorm:"column:payment_id;primaryKey" json:"payment_id"`
	UserID          uint          `gorm:"column:user_id;not null;index" json:"user_id"`
	SubscriptionID  *uint         `gorm:"column:subscription_id" json:"subscription_id"`
	Amount          float64       `gorm:"column:amount;type:decimal(10,2);not null" json:"amount"`
	Method          PaymentMethod `gorm:"column:payment_method;size:50;not null" json:"payment_method"`
	Status          PaymentStatus `gorm:"column:payment_status;size:50;not null" json:"payment_status"`
	ReferenceNumber string        `gorm:"column:reference_number;size:255;not null;uniqueIndex" json:"reference_number"`
	TransactionDate time.Time     `gorm:"column:transaction_date;not null" json:"transaction_date"`
	CreatedAt       time.Time     `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
