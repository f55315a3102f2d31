package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/romanmmmelnyk/ms-backend/internal/database"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
)

type PostgresSites struct {
	db *database.DB
}

func NewPostgresSites(db *database.DB) *PostgresSites {
	return &PostgresSites{db: db}
}

func (r *PostgresSites) List(ctx context.Context, f SiteFilter) ([]models.SiteWithRelations, error) {
	q := "SELECT * FROM sites"
	var where []string
	var args []any

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.InstanceID != nil {
		args = append(args, *f.InstanceID)
		where = append(where, fmt.Sprintf("instance_id = $%d", len(args)))
	}
	if f.Domain != "" {
		// A site matches when at least one domain on its instance matches.
		args = append(args, "%"+f.Domain+"%")
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM domains d WHERE d.instance_id = sites.instance_id AND d.name ILIKE $%d)", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY created_at DESC"

	var sites []models.Site
	if err := r.db.SelectContext(ctx, &sites, q, args...); err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return []models.SiteWithRelations{}, nil
	}
	return r.withRelations(ctx, sites, false)
}

func (r *PostgresSites) Get(ctx context.Context, id uuid.UUID) (*models.SiteWithRelations, error) {
	site, err := r.GetRow(ctx, id)
	if err != nil || site == nil {
		return nil, err
	}
	out, err := r.withRelations(ctx, []models.Site{*site}, true)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *PostgresSites) GetRow(ctx context.Context, id uuid.UUID) (*models.Site, error) {
	var site models.Site
	err := r.db.GetContext(ctx, &site, "SELECT * FROM sites WHERE id = $1", id)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *PostgresSites) Create(ctx context.Context, s *models.Site) error {
	err := r.db.GetContext(ctx, s, `
		INSERT INTO sites (name, purpose, instance_id, primary_domain_id, analytics, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, s.Name, s.Purpose, s.InstanceID, s.PrimaryDomainID, s.Analytics, s.Status)
	return mapConstraint(err)
}

func (r *PostgresSites) Update(ctx context.Context, s *models.Site) error {
	err := r.db.GetContext(ctx, s, `
		UPDATE sites
		SET name = $1, purpose = $2, instance_id = $3, primary_domain_id = $4, analytics = $5, status = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING *
	`, s.Name, s.Purpose, s.InstanceID, s.PrimaryDomainID, s.Analytics, s.Status, s.ID)
	return mapConstraint(err)
}

func (r *PostgresSites) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sites WHERE id = $1", id)
	return mapConstraint(err)
}

// GetExpanded assembles the site -> instance -> hosting/ports/domains
// aggregate. An instance with no bound ports yields an empty ports list.
func (r *PostgresSites) GetExpanded(ctx context.Context, id uuid.UUID) (*models.ExpandedSite, error) {
	site, err := r.GetRow(ctx, id)
	if err != nil || site == nil {
		return nil, err
	}

	var instance models.Instance
	if err := r.db.GetContext(ctx, &instance, "SELECT * FROM instances WHERE id = $1", site.InstanceID); err != nil {
		return nil, err
	}

	var hosting models.Hosting
	if err := r.db.GetContext(ctx, &hosting, "SELECT * FROM hostings WHERE id = $1", instance.HostingID); err != nil {
		return nil, err
	}

	domains := []models.Domain{}
	if err := r.db.SelectContext(ctx, &domains,
		"SELECT * FROM domains WHERE instance_id = $1 ORDER BY name ASC", instance.ID); err != nil {
		return nil, err
	}

	var boundPorts []struct {
		models.Port
		Category models.PortCategory `db:"category"`
	}
	err = r.db.SelectContext(ctx, &boundPorts, `
		SELECT p.*, `+portCategoryColumns+`
		FROM instance_ports ip
		JOIN ports p ON p.id = ip.port_id
		JOIN port_categories c ON c.id = p.category_id
		WHERE ip.instance_id = $1
		ORDER BY p.number ASC
	`, instance.ID)
	if err != nil {
		return nil, err
	}
	ports := make([]models.PortWithCategory, len(boundPorts))
	for i, row := range boundPorts {
		ports[i] = models.PortWithCategory{Port: row.Port, Category: row.Category}
	}

	return &models.ExpandedSite{
		Site:     *site,
		Instance: instance,
		Domains:  domains,
		Ports:    ports,
		Hosting:  hosting,
	}, nil
}

func (r *PostgresSites) UpsertSiteInfo(ctx context.Context, info *models.SiteInfo) error {
	err := r.db.GetContext(ctx, info, `
		INSERT INTO site_infos (site_id, contacts, meta, source_url, raw_json)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (site_id) DO UPDATE
		SET contacts = EXCLUDED.contacts, meta = EXCLUDED.meta, source_url = EXCLUDED.source_url,
		    raw_json = EXCLUDED.raw_json, updated_at = NOW()
		RETURNING *
	`, info.SiteID, info.Contacts, info.Meta, info.SourceURL, info.RawJSON)
	return mapConstraint(err)
}

func (r *PostgresSites) CountByInstance(ctx context.Context, instanceID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sites WHERE instance_id = $1", instanceID)
	return count, err
}

func (r *PostgresSites) CountByPrimaryDomain(ctx context.Context, domainID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sites WHERE primary_domain_id = $1", domainID)
	return count, err
}

func (r *PostgresSites) withRelations(ctx context.Context, sites []models.Site, includeInfo bool) ([]models.SiteWithRelations, error) {
	siteIDs := make([]uuid.UUID, len(sites))
	instanceIDs := make([]uuid.UUID, len(sites))
	for i, s := range sites {
		siteIDs[i] = s.ID
		instanceIDs[i] = s.InstanceID
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

	q, args, err = sqlx.In("SELECT * FROM domains WHERE instance_id IN (?) ORDER BY name ASC", instanceIDs)
	if err != nil {
		return nil, err
	}
	var domains []models.Domain
	if err := r.db.SelectContext(ctx, &domains, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	domainsByInstance := make(map[uuid.UUID][]models.Domain)
	domainByID := make(map[uuid.UUID]models.Domain)
	for _, d := range domains {
		domainsByInstance[d.InstanceID] = append(domainsByInstance[d.InstanceID], d)
		domainByID[d.ID] = d
	}

	// Primary domains can live on another instance; fetch any not already
	// loaded.
	var missingPrimary []uuid.UUID
	for _, s := range sites {
		if s.PrimaryDomainID != nil {
			if _, ok := domainByID[*s.PrimaryDomainID]; !ok {
				missingPrimary = append(missingPrimary, *s.PrimaryDomainID)
			}
		}
	}
	if len(missingPrimary) > 0 {
		q, args, err = sqlx.In("SELECT * FROM domains WHERE id IN (?)", missingPrimary)
		if err != nil {
			return nil, err
		}
		var extra []models.Domain
		if err := r.db.SelectContext(ctx, &extra, r.db.Rebind(q), args...); err != nil {
			return nil, err
		}
		for _, d := range extra {
			domainByID[d.ID] = d
		}
	}

	infoBySite := make(map[uuid.UUID]models.SiteInfo)
	if includeInfo {
		q, args, err = sqlx.In("SELECT * FROM site_infos WHERE site_id IN (?)", siteIDs)
		if err != nil {
			return nil, err
		}
		var infos []models.SiteInfo
		if err := r.db.SelectContext(ctx, &infos, r.db.Rebind(q), args...); err != nil {
			return nil, err
		}
		for _, info := range infos {
			infoBySite[info.SiteID] = info
		}
	}

	out := make([]models.SiteWithRelations, len(sites))
	for i, s := range sites {
		rel := models.SiteWithRelations{
			Site:     s,
			Instance: instanceByID[s.InstanceID],
			Domains:  domainsByInstance[s.InstanceID],
		}
		if rel.Domains == nil {
			rel.Domains = []models.Domain{}
		}
		if s.PrimaryDomainID != nil {
			if d, ok := domainByID[*s.PrimaryDomainID]; ok {
				rel.PrimaryDomain = &d
			}
		}
		if info, ok := infoBySite[s.ID]; ok {
			rel.SiteInfo = &info
		}
		out[i] = rel
	}
	return out, nil
}
