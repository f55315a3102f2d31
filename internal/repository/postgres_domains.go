package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/romanmmmelnyk/ms-backend/internal/database"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
)

type PostgresDomains struct {
	db *database.DB
}

func NewPostgresDomains(db *database.DB) *PostgresDomains {
	return &PostgresDomains{db: db}
}

// List applies the domain filters and orders ascending by paid_until so the
// soonest-expiring domains come first. Domains without an expiry sort last
// (NULLS LAST).
func (r *PostgresDomains) List(ctx context.Context, f DomainFilter) ([]models.DomainWithRelations, error) {
	q := "SELECT * FROM domains"
	var where []string
	var args []any

	if f.Provider != "" {
		args = append(args, "%"+f.Provider+"%")
		where = append(where, fmt.Sprintf("provider ILIKE $%d", len(args)))
	}
	if f.ExpiringInDays > 0 {
		args = append(args, f.ExpiringInDays)
		where = append(where, fmt.Sprintf("paid_until >= NOW() AND paid_until <= NOW() + make_interval(days => $%d)", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY paid_until ASC NULLS LAST"

	var domains []models.Domain
	if err := r.db.SelectContext(ctx, &domains, q, args...); err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return []models.DomainWithRelations{}, nil
	}
	return r.withRelations(ctx, domains)
}

func (r *PostgresDomains) Get(ctx context.Context, id uuid.UUID) (*models.DomainWithRelations, error) {
	domain, err := r.GetRow(ctx, id)
	if err != nil || domain == nil {
		return nil, err
	}
	out, err := r.withRelations(ctx, []models.Domain{*domain})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *PostgresDomains) GetRow(ctx context.Context, id uuid.UUID) (*models.Domain, error) {
	var domain models.Domain
	err := r.db.GetContext(ctx, &domain, "SELECT * FROM domains WHERE id = $1", id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain, nil
}

func (r *PostgresDomains) GetByName(ctx context.Context, name string) (*models.Domain, error) {
	var domain models.Domain
	err := r.db.GetContext(ctx, &domain, "SELECT * FROM domains WHERE name = $1", name)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain, nil
}

func (r *PostgresDomains) Create(ctx context.Context, d *models.Domain) error {
	err := r.db.GetContext(ctx, d, `
		INSERT INTO domains (name, instance_id, provider, paid_until, price_year, currency, auto_renew)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, d.Name, d.InstanceID, d.Provider, d.PaidUntil, d.PriceYear, d.Currency, d.AutoRenew)
	return mapConstraint(err)
}

func (r *PostgresDomains) Update(ctx context.Context, d *models.Domain) error {
	err := r.db.GetContext(ctx, d, `
		UPDATE domains
		SET name = $1, instance_id = $2, provider = $3, paid_until = $4, price_year = $5, currency = $6, auto_renew = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING *
	`, d.Name, d.InstanceID, d.Provider, d.PaidUntil, d.PriceYear, d.Currency, d.AutoRenew, d.ID)
	return mapConstraint(err)
}

func (r *PostgresDomains) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM domains WHERE id = $1", id)
	return mapConstraint(err)
}

func (r *PostgresDomains) CountByInstance(ctx context.Context, instanceID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM domains WHERE instance_id = $1", instanceID)
	return count, err
}

func (r *PostgresDomains) withRelations(ctx context.Context, domains []models.Domain) ([]models.DomainWithRelations, error) {
	domainIDs := make([]uuid.UUID, len(domains))
	instanceIDs := make([]uuid.UUID, len(domains))
	for i, d := range domains {
		domainIDs[i] = d.ID
		instanceIDs[i] = d.InstanceID
	}

	q, args, err := sqlx.In("SELECT * FROM instances WHERE id IN (?)", instanceIDs)
	if err != nil {
		return nil, err
	}
	var instances []models.Instance
	if err := r.db.SelectContext(ctx, &instances, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	instanceByID := make(map[uuid.UUID]models.Instance, len(instances))
	for _, in := range instances {
		instanceByID[in.ID] = in
	}

	q, args, err = sqlx.In("SELECT * FROM sites WHERE primary_domain_id IN (?) ORDER BY created_at DESC", domainIDs)
	if err != nil {
		return nil, err
	}
	var sites []models.Site
	if err := r.db.SelectContext(ctx, &sites, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	sitesByDomain := make(map[uuid.UUID][]models.Site)
	for _, s := range sites {
		if s.PrimaryDomainID != nil {
			sitesByDomain[*s.PrimaryDomainID] = append(sitesByDomain[*s.PrimaryDomainID], s)
		}
	}

	out := make([]models.DomainWithRelations, len(domains))
	for i, d := range domains {
		primaryFor := sitesByDomain[d.ID]
		if primaryFor == nil {
			primaryFor = []models.Site{}
		}
		out[i] = models.DomainWithRelations{
			Domain:          d,
			Instance:        instanceByID[d.InstanceID],
			PrimaryForSites: primaryFor,
		}
	}
	return out, nil
}
