package models

import (
	"time"

	"github.com/google/uuid"
)

// Domain is a DNS domain hosted on an instance. Names are unique and must be
// valid DNS syntax.
type Domain struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	InstanceID uuid.UUID  `db:"instance_id" json:"instanceId"`
	Provider   string     `db:"provider" json:"provider"`
	PaidUntil  *time.Time `db:"paid_until" json:"paidUntil"`
	PriceYear  *float64   `db:"price_year" json:"priceYear"`
	Currency   string     `db:"currency" json:"currency"`
	AutoRenew  bool       `db:"auto_renew" json:"autoRenew"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

// DomainWithRelations is the full domain response: the owning instance plus
// the sites that reference this domain as their primary domain.
type DomainWithRelations struct {
	Domain
	Instance        Instance `json:"instance"`
	PrimaryForSites []Site   `json:"primaryForSites"`
}

// RenewalReceipt is the bookkeeping record returned by the renewal workflow.
// No billing side effect occurs; the transaction ID is synthesized.
type RenewalReceipt struct {
	DomainID          uuid.UUID `json:"domainId"`
	DomainName        string    `json:"domainName"`
	NewExpirationDate time.Time `json:"newExpirationDate"`
	RenewalAmount     float64   `json:"renewalAmount"`
	Currency          string    `json:"currency"`
	RenewedAt         time.Time `json:"renewedAt"`
	TransactionID     string    `json:"transactionId"`
}
