package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/romanmmmelnyk/ms-backend/internal/database"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
)

type PostgresPorts struct {
	db *database.DB
}

func NewPostgresPorts(db *database.DB) *PostgresPorts {
	return &PostgresPorts{db: db}
}

// portCategoryColumns aliases category columns for sqlx nested-struct
// scanning into the Category field.
const portCategoryColumns = `
	c.id AS "category.id",
	c.name AS "category.name",
	c.description AS "category.description",
	c.created_at AS "category.created_at",
	c.updated_at AS "category.updated_at"`

func (r *PostgresPorts) List(ctx context.Context) ([]models.PortWithRelations, error) {
	var rows []struct {
		models.Port
		Category models.PortCategory `db:"category"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT p.*, `+portCategoryColumns+`
		FROM ports p
		JOIN port_categories c ON c.id = p.category_id
		ORDER BY p.number ASC
	`)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []models.PortWithRelations{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.Port.ID
	}
	instancesByPort, err := r.instancesForPorts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.PortWithRelations, len(rows))
	for i, row := range rows {
		instances := instancesByPort[row.Port.ID]
		if instances == nil {
			instances = []models.InstanceSummary{}
		}
		out[i] = models.PortWithRelations{Port: row.Port, Category: row.Category, Instances: instances}
	}
	return out, nil
}

func (r *PostgresPorts) Get(ctx context.Context, id uuid.UUID) (*models.PortWithRelations, error) {
	var row struct {
		models.Port
		Category models.PortCategory `db:"category"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT p.*, `+portCategoryColumns+`
		FROM ports p
		JOIN port_categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	instancesByPort, err := r.instancesForPorts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	instances := instancesByPort[id]
	if instances == nil {
		instances = []models.InstanceSummary{}
	}
	return &models.PortWithRelations{Port: row.Port, Category: row.Category, Instances: instances}, nil
}

func (r *PostgresPorts) GetRow(ctx context.Context, id uuid.UUID) (*models.Port, error) {
	var port models.Port
	err := r.db.GetContext(ctx, &port, "SELECT * FROM ports WHERE id = $1", id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &port, nil
}

func (r *PostgresPorts) GetByNumber(ctx context.Context, number int) (*models.Port, error) {
	var port models.Port
	err := r.db.GetContext(ctx, &port, "SELECT * FROM ports WHERE number = $1", number)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &port, nil
}

func (r *PostgresPorts) Create(ctx context.Context, p *models.Port) error {
	err := r.db.GetContext(ctx, p, `
		INSERT INTO ports (number, category_id, description)
		VALUES ($1, $2, $3)
		RETURNING *
	`, p.Number, p.CategoryID, p.Description)
	return mapConstraint(err)
}

func (r *PostgresPorts) Update(ctx context.Context, p *models.Port) error {
	err := r.db.GetContext(ctx, p, `
		UPDATE ports
		SET number = $1, category_id = $2, description = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING *
	`, p.Number, p.CategoryID, p.Description, p.ID)
	return mapConstraint(err)
}

func (r *PostgresPorts) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM ports WHERE id = $1", id)
	return mapConstraint(err)
}

func (r *PostgresPorts) CountBindings(ctx context.Context, portID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM instance_ports WHERE port_id = $1", portID)
	return count, err
}

func (r *PostgresPorts) instancesForPorts(ctx context.Context, portIDs []uuid.UUID) (map[uuid.UUID][]models.InstanceSummary, error) {
	q, args, err := sqlx.In(`
		SELECT ip.port_id, i.id, i.name, i.ip_address
		FROM instance_ports ip
		JOIN instances i ON i.id = ip.instance_id
		WHERE ip.port_id IN (?)
		ORDER BY i.name ASC
	`, portIDs)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		models.InstanceSummary
		PortID uuid.UUID `db:"port_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]models.InstanceSummary)
	for _, row := range rows {
		grouped[row.PortID] = append(grouped[row.PortID], row.InstanceSummary)
	}
	return grouped, nil
}
