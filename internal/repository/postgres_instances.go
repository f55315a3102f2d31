package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
	"github.com/romanmmmelnyk/ms-backend/internal/database"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
)

type PostgresInstances struct {
	db *database.DB
}

func NewPostgresInstances(db *database.DB) *PostgresInstances {
	return &PostgresInstances{db: db}
}

func (r *PostgresInstances) List(ctx context.Context) ([]models.InstanceWithRelations, error) {
	var instances []models.Instance
	err := r.db.SelectContext(ctx, &instances, `
		SELECT * FROM instances
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return []models.InstanceWithRelations{}, nil
	}
	return r.withRelations(ctx, instances)
}

func (r *PostgresInstances) Get(ctx context.Context, id uuid.UUID) (*models.InstanceWithRelations, error) {
	instance, err := r.GetRow(ctx, id)
	if err != nil || instance == nil {
		return nil, err
	}
	out, err := r.withRelations(ctx, []models.Instance{*instance})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *PostgresInstances) GetRow(ctx context.Context, id uuid.UUID) (*models.Instance, error) {
	var instance models.Instance
	err := r.db.GetContext(ctx, &instance, "SELECT * FROM instances WHERE id = $1", id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *PostgresInstances) Create(ctx context.Context, in *models.Instance) error {
	if in.PortBindings == nil {
		in.PortBindings = models.PortBindingMap{}
	}
	err := r.db.GetContext(ctx, in, `
		INSERT INTO instances (name, hosting_id, ip_address, port_bindings)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, in.Name, in.HostingID, in.IPAddress, in.PortBindings)
	return mapConstraint(err)
}

func (r *PostgresInstances) Update(ctx context.Context, in *models.Instance) error {
	err := r.db.GetContext(ctx, in, `
		UPDATE instances
		SET name = $1, hosting_id = $2, ip_address = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING *
	`, in.Name, in.HostingID, in.IPAddress, in.ID)
	return mapConstraint(err)
}

func (r *PostgresInstances) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM instances WHERE id = $1", id)
	return mapConstraint(err)
}

func (r *PostgresInstances) HasBinding(ctx context.Context, instanceID, portID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM instance_ports WHERE instance_id = $1 AND port_id = $2)
	`, instanceID, portID)
	return exists, err
}

// BindPort creates the join row and mirrors the binding config into the
// instance's port_bindings map in a single transaction, so the two
// representations cannot diverge under a crash or a racing unbind.
func (r *PostgresInstances) BindPort(ctx context.Context, instanceID, portID uuid.UUID, cfg models.PortBindingConfig) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO instance_ports (instance_id, port_id)
		VALUES ($1, $2)
	`, instanceID, portID)
	if err != nil {
		return mapConstraint(err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE instances
		SET port_bindings = jsonb_set(port_bindings, ARRAY[$2::text], $3::jsonb, true), updated_at = NOW()
		WHERE id = $1
	`, instanceID, portID.String(), cfgJSON)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// UnbindPort removes the join row and the map key in a single transaction.
func (r *PostgresInstances) UnbindPort(ctx context.Context, instanceID, portID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM instance_ports
		WHERE instance_id = $1 AND port_id = $2
	`, instanceID, portID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("Port %s is not bound to this instance", portID)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE instances
		SET port_bindings = port_bindings - $2::text, updated_at = NOW()
		WHERE id = $1
	`, instanceID, portID.String())
	if err != nil {
		return err
	}

	return tx.Commit()
}

type boundPortRow struct {
	models.Port
	Category   models.PortCategory `db:"category"`
	InstanceID uuid.UUID           `db:"instance_id"`
}

func (r *PostgresInstances) withRelations(ctx context.Context, instances []models.Instance) ([]models.InstanceWithRelations, error) {
	instanceIDs := make([]uuid.UUID, len(instances))
	hostingIDs := make([]uuid.UUID, len(instances))
	for i, in := range instances {
		instanceIDs[i] = in.ID
		hostingIDs[i] = in.HostingID
	}

	q, args, err := sqlx.In("SELECT * FROM hostings WHERE id IN (?)", hostingIDs)
	if err != nil {
		return nil, err
	}
	var hostings []models.Hosting
	if err := r.db.SelectContext(ctx, &hostings, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	hostingByID := make(map[uuid.UUID]models.Hosting, len(hostings))
	for _, h := range hostings {
		hostingByID[h.ID] = h
	}

	q, args, err = sqlx.In("SELECT * FROM sites WHERE instance_id IN (?) ORDER BY created_at DESC", instanceIDs)
	if err != nil {
		return nil, err
	}
	var sites []models.Site
	if err := r.db.SelectContext(ctx, &sites, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	sitesByInstance := make(map[uuid.UUID][]models.Site)
	for _, s := range sites {
		sitesByInstance[s.InstanceID] = append(sitesByInstance[s.InstanceID], s)
	}

	q, args, err = sqlx.In("SELECT * FROM domains WHERE instance_id IN (?) ORDER BY name ASC", instanceIDs)
	if err != nil {
		return nil, err
	}
	var domains []models.Domain
	if err := r.db.SelectContext(ctx, &domains, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	domainsByInstance := make(map[uuid.UUID][]models.Domain)
	for _, d := range domains {
		domainsByInstance[d.InstanceID] = append(domainsByInstance[d.InstanceID], d)
	}

	q, args, err = sqlx.In(`
		SELECT p.*, ip.instance_id, `+portCategoryColumns+`
		FROM instance_ports ip
		JOIN ports p ON p.id = ip.port_id
		JOIN port_categories c ON c.id = p.category_id
		WHERE ip.instance_id IN (?)
		ORDER BY p.number ASC
	`, instanceIDs)
	if err != nil {
		return nil, err
	}
	var boundPorts []boundPortRow
	if err := r.db.SelectContext(ctx, &boundPorts, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	portsByInstance := make(map[uuid.UUID][]models.PortWithCategory)
	for _, row := range boundPorts {
		portsByInstance[row.InstanceID] = append(portsByInstance[row.InstanceID],
			models.PortWithCategory{Port: row.Port, Category: row.Category})
	}

	out := make([]models.InstanceWithRelations, len(instances))
	for i, in := range instances {
		rel := models.InstanceWithRelations{
			Instance: in,
			Hosting:  hostingByID[in.HostingID],
			Sites:    sitesByInstance[in.ID],
			Domains:  domainsByInstance[in.ID],
			Ports:    portsByInstance[in.ID],
		}
		if rel.Sites == nil {
			rel.Sites = []models.Site{}
		}
		if rel.Domains == nil {
			rel.Domains = []models.Domain{}
		}
		if rel.Ports == nil {
			rel.Ports = []models.PortWithCategory{}
		}
		out[i] = rel
	}
	return out, nil
}
