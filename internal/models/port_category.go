package models

import (
	"time"

	"github.com/google/uuid"
)

// PortCategory groups ports by role (web, database, mail, ...). Names are
// unique.
type PortCategory struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// PortSummary is the trimmed port row embedded in category responses.
type PortSummary struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Number      int       `db:"number" json:"number"`
	Description *string   `db:"description" json:"description"`
}

// PortCategoryWithPorts is the category response shape: the category plus the
// ports it owns and their count.
type PortCategoryWithPorts struct {
	PortCategory
	Ports     []PortSummary `json:"ports"`
	PortCount int           `json:"portCount"`
}
