package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/romanmmmelnyk/ms-backend/internal/database"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
)

type PostgresPortCategories struct {
	db *database.DB
}

func NewPostgresPortCategories(db *database.DB) *PostgresPortCategories {
	return &PostgresPortCategories{db: db}
}

func (r *PostgresPortCategories) List(ctx context.Context) ([]models.PortCategoryWithPorts, error) {
	var categories []models.PortCategory
	err := r.db.SelectContext(ctx, &categories, `
		SELECT * FROM port_categories
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return []models.PortCategoryWithPorts{}, nil
	}

	ids := make([]uuid.UUID, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	portsByCategory, err := r.portsForCategories(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PortCategoryWithPorts, len(categories))
	for i, c := range categories {
		ports := portsByCategory[c.ID]
		if ports == nil {
			ports = []models.PortSummary{}
		}
		out[i] = models.PortCategoryWithPorts{PortCategory: c, Ports: ports, PortCount: len(ports)}
	}
	return out, nil
}

func (r *PostgresPortCategories) Get(ctx context.Context, id uuid.UUID) (*models.PortCategoryWithPorts, error) {
	var category models.PortCategory
	err := r.db.GetContext(ctx, &category, "SELECT * FROM port_categories WHERE id = $1", id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	portsByCategory, err := r.portsForCategories(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	ports := portsByCategory[id]
	if ports == nil {
		ports = []models.PortSummary{}
	}
	return &models.PortCategoryWithPorts{PortCategory: category, Ports: ports, PortCount: len(ports)}, nil
}

func (r *PostgresPortCategories) GetByName(ctx context.Context, name string) (*models.PortCategory, error) {
	var category models.PortCategory
	err := r.db.GetContext(ctx, &category, "SELECT * FROM port_categories WHERE name = $1", name)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *PostgresPortCategories) Create(ctx context.Context, c *models.PortCategory) error {
	err := r.db.GetContext(ctx, c, `
		INSERT INTO port_categories (name, description)
		VALUES ($1, $2)
		RETURNING *
	`, c.Name, c.Description)
	return mapConstraint(err)
}

func (r *PostgresPortCategories) Update(ctx context.Context, c *models.PortCategory) error {
	err := r.db.GetContext(ctx, c, `
		UPDATE port_categories
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING *
	`, c.Name, c.Description, c.ID)
	return mapConstraint(err)
}

func (r *PostgresPortCategories) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM port_categories WHERE id = $1", id)
	return mapConstraint(err)
}

func (r *PostgresPortCategories) CountPorts(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM ports WHERE category_id = $1", categoryID)
	return count, err
}

func (r *PostgresPortCategories) portsForCategories(ctx context.Context, categoryIDs []uuid.UUID) (map[uuid.UUID][]models.PortSummary, error) {
	q, args, err := sqlx.In(`
		SELECT id, number, description, category_id
		FROM ports
		WHERE category_id IN (?)
		ORDER BY number ASC
	`, categoryIDs)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		models.PortSummary
		CategoryID uuid.UUID `db:"category_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]models.PortSummary)
	for _, row := range rows {
		grouped[row.CategoryID] = append(grouped[row.CategoryID], row.PortSummary)
	}
	return grouped, nil
}
