package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/romanmmmelnyk/ms-backend/internal/database"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
)

type PostgresHostings struct {
	db *database.DB
}

func NewPostgresHostings(db *database.DB) *PostgresHostings {
	return &PostgresHostings{db: db}
}

func (r *PostgresHostings) List(ctx context.Context) ([]models.HostingWithInstances, error) {
	var hostings []models.Hosting
	err := r.db.SelectContext(ctx, &hostings, `
		SELECT * FROM hostings
		ORDER BY provider_name ASC
	`)
	if err != nil {
		return nil, err
	}
	if len(hostings) == 0 {
		return []models.HostingWithInstances{}, nil
	}

	ids := make([]uuid.UUID, len(hostings))
	for i, h := range hostings {
		ids[i] = h.ID
	}
	instancesByHosting, err := r.instancesForHostings(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.HostingWithInstances, len(hostings))
	for i, h := range hostings {
		instances := instancesByHosting[h.ID]
		if instances == nil {
			instances = []models.InstanceSummary{}
		}
		out[i] = models.HostingWithInstances{Hosting: h, Instances: instances, InstanceCount: len(instances)}
	}
	return out, nil
}

func (r *PostgresHostings) Get(ctx context.Context, id uuid.UUID) (*models.HostingWithInstances, error) {
	var hosting models.Hosting
	err := r.db.GetContext(ctx, &hosting, "SELECT * FROM hostings WHERE id = $1", id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	instancesByHosting, err := r.instancesForHostings(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	instances := instancesByHosting[id]
	if instances == nil {
		instances = []models.InstanceSummary{}
	}
	return &models.HostingWithInstances{Hosting: hosting, Instances: instances, InstanceCount: len(instances)}, nil
}

func (r *PostgresHostings) GetRow(ctx context.Context, id uuid.UUID) (*models.Hosting, error) {
	var hosting models.Hosting
	err := r.db.GetContext(ctx, &hosting, "SELECT * FROM hostings WHERE id = $1", id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &hosting, nil
}

func (r *PostgresHostings) GetByProvider(ctx context.Context, providerName, providerAccount string) (*models.Hosting, error) {
	var hosting models.Hosting
	err := r.db.GetContext(ctx, &hosting, `
		SELECT * FROM hostings
		WHERE provider_name = $1 AND provider_account = $2
	`, providerName, providerAccount)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &hosting, nil
}

func (r *PostgresHostings) Create(ctx context.Context, h *models.Hosting) error {
	err := r.db.GetContext(ctx, h, `
		INSERT INTO hostings (provider_name, provider_account, price_year, paid_at, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, h.ProviderName, h.ProviderAccount, h.PriceYear, h.PaidAt, h.Currency)
	return mapConstraint(err)
}

func (r *PostgresHostings) Update(ctx context.Context, h *models.Hosting) error {
	err := r.db.GetContext(ctx, h, `
		UPDATE hostings
		SET provider_name = $1, provider_account = $2, price_year = $3, paid_at = $4, currency = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING *
	`, h.ProviderName, h.ProviderAccount, h.PriceYear, h.PaidAt, h.Currency, h.ID)
	return mapConstraint(err)
}

func (r *PostgresHostings) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM hostings WHERE id = $1", id)
	return mapConstraint(err)
}

func (r *PostgresHostings) CountInstances(ctx context.Context, hostingID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM instances WHERE hosting_id = $1", hostingID)
	return count, err
}

func (r *PostgresHostings) instancesForHostings(ctx context.Context, hostingIDs []uuid.UUID) (map[uuid.UUID][]models.InstanceSummary, error) {
	q, args, err := sqlx.In(`
		SELECT id, name, ip_address, hosting_id
		FROM instances
		WHERE hosting_id IN (?)
		ORDER BY created_at DESC
	`, hostingIDs)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		models.InstanceSummary
		HostingID uuid.UUID `db:"hosting_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]models.InstanceSummary)
	for _, row := range rows {
		grouped[row.HostingID] = append(grouped[row.HostingID], row.InstanceSummary)
	}
	return grouped, nil
}
