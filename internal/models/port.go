package models

import (
	"time"

	"github.com/google/uuid"
)

// Port is a well-known network port registered under a category. Numbers are
// unique across the inventory and constrained to 1-65535.
type Port struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Number      int       `db:"number" json:"number"`
	CategoryID  uuid.UUID `db:"category_id" json:"categoryId"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// PortWithCategory pairs a port with its owning category.
type PortWithCategory struct {
	Port
	Category PortCategory `db:"category" json:"category"`
}

// PortWithRelations is the full port response: owning category plus the
// instances the port is currently bound to.
type PortWithRelations struct {
	Port
	Category  PortCategory      `json:"category"`
	Instances []InstanceSummary `json:"instances"`
}
