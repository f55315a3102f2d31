package models

import (
	"time"

	"github.com/google/uuid"
)

// Enquiry is an inbound contact-form submission. It has no relations to the
// inventory graph.
type Enquiry struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"firstName"`
	LastName    string    `db:"last_name" json:"lastName"`
	Email       string    `db:"email" json:"email"`
	Company     *string   `db:"company" json:"company"`
	ProjectType string    `db:"project_type" json:"projectType"`
	Budget      *string   `db:"budget" json:"budget"`
	Timeline    *string   `db:"timeline" json:"timeline"`
	Message     string    `db:"message" json:"message"`
	Newsletter  bool      `db:"newsletter" json:"newsletter"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
