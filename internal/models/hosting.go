package models

import (
	"time"

	"github.com/google/uuid"
)

// Hosting is a provider account that machines run under. The pair
// (providerName, providerAccount) is unique.
type Hosting struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	ProviderName    string     `db:"provider_name" json:"providerName"`
	ProviderAccount string     `db:"provider_account" json:"providerAccount"`
	PriceYear       *float64   `db:"price_year" json:"priceYear"`
	PaidAt          *time.Time `db:"paid_at" json:"paidAt"`
	Currency        string     `db:"currency" json:"currency"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// HostingWithInstances is the hosting response shape: the account plus the
// instances it owns and their count.
type HostingWithInstances struct {
	Hosting
	Instances     []InstanceSummary `json:"instances"`
	InstanceCount int               `json:"instanceCount"`
}
