package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
	"github.com/romanmmmelnyk/ms-backend/internal/database"
)

// PostgresStore bundles the Postgres implementation of every repository
// interface over one connection pool.
type PostgresStore struct {
	PortCategories *PostgresPortCategories
	Ports          *PostgresPorts
	Hostings       *PostgresHostings
	Instances      *PostgresInstances
	Domains        *PostgresDomains
	Sites          *PostgresSites
	Enquiries      *PostgresEnquiries
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{
		PortCategories: &PostgresPortCategories{db: db},
		Ports:          &PostgresPorts{db: db},
		Hostings:       &PostgresHostings{db: db},
		Instances:      &PostgresInstances{db: db},
		Domains:        &PostgresDomains{db: db},
		Sites:          &PostgresSites{db: db},
		Enquiries:      &PostgresEnquiries{db: db},
	}
}

// noRows reports sql.ErrNoRows so Get-style methods can return (nil, nil).
func noRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// mapConstraint remaps Postgres constraint violations onto the same
// bad-request shape the application-level pre-checks produce. The database
// constraint is the authoritative backstop for racing writers; its failure
// must never leak as a raw storage error.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return apperr.BadRequest("record conflicts with an existing one (%s)", pqErr.Constraint)
		case "23503": // foreign_key_violation
			return apperr.BadRequest("record references a missing row or is still referenced (%s)", pqErr.Constraint)
		case "23514": // check_violation
			return apperr.BadRequest("record violates a data constraint (%s)", pqErr.Constraint)
		}
	}
	return err
}
