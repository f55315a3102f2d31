package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/romanmmmelnyk/ms-backend/internal/database"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
)

type PostgresEnquiries struct {
	db *database.DB
}

func NewPostgresEnquiries(db *database.DB) *PostgresEnquiries {
	return &PostgresEnquiries{db: db}
}

func (r *PostgresEnquiries) List(ctx context.Context) ([]models.Enquiry, error) {
	enquiries := []models.Enquiry{}
	err := r.db.SelectContext(ctx, &enquiries, `
		SELECT * FROM enquiries
		ORDER BY created_at DESC
	`)
	return enquiries, err
}

func (r *PostgresEnquiries) Get(ctx context.Context, id uuid.UUID) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	err := r.db.GetContext(ctx, &enquiry, "SELECT * FROM enquiries WHERE id = $1", id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enquiry, nil
}

func (r *PostgresEnquiries) Create(ctx context.Context, e *models.Enquiry) error {
	err := r.db.GetContext(ctx, e, `
		INSERT INTO enquiries (first_name, last_name, email, company, project_type, budget, timeline, message, newsletter)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *
	`, e.FirstName, e.LastName, e.Email, e.Company, e.ProjectType, e.Budget, e.Timeline, e.Message, e.Newsletter)
	return mapConstraint(err)
}

func (r *PostgresEnquiries) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM enquiries WHERE id = $1", id)
	return err
}
