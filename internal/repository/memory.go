package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
)

// MemoryStore is an in-memory implementation of every repository interface.
// It enforces the same unique constraints the Postgres schema does, so the
// services' constraint-backstop behavior can be exercised without a database.
type MemoryStore struct {
	mu             sync.RWMutex
	seq            int64
	order          map[uuid.UUID]int64
	portCategories map[uuid.UUID]models.PortCategory
	ports          map[uuid.UUID]models.Port
	hostings       map[uuid.UUID]models.Hosting
	instances      map[uuid.UUID]models.Instance
	bindings       map[bindingKey]time.Time
	domains        map[uuid.UUID]models.Domain
	sites          map[uuid.UUID]models.Site
	siteInfos      map[uuid.UUID]models.SiteInfo
	enquiries      map[uuid.UUID]models.Enquiry
}

type bindingKey struct {
	instanceID uuid.UUID
	portID     uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		order:          map[uuid.UUID]int64{},
		portCategories: map[uuid.UUID]models.PortCategory{},
		ports:          map[uuid.UUID]models.Port{},
		hostings:       map[uuid.UUID]models.Hosting{},
		instances:      map[uuid.UUID]models.Instance{},
		bindings:       map[bindingKey]time.Time{},
		domains:        map[uuid.UUID]models.Domain{},
		sites:          map[uuid.UUID]models.Site{},
		siteInfos:      map[uuid.UUID]models.SiteInfo{},
		enquiries:      map[uuid.UUID]models.Enquiry{},
	}
}

func (s *MemoryStore) nextSeq(id uuid.UUID) {
	s.seq++
	s.order[id] = s.seq
}

// Accessors returning the interface views.

func (s *MemoryStore) PortCategories() PortCategories { return (*memPortCategories)(s) }
func (s *MemoryStore) Ports() Ports                   { return (*memPorts)(s) }
func (s *MemoryStore) Hostings() Hostings             { return (*memHostings)(s) }
func (s *MemoryStore) Instances() Instances           { return (*memInstances)(s) }
func (s *MemoryStore) Domains() Domains               { return (*memDomains)(s) }
func (s *MemoryStore) Sites() Sites                   { return (*memSites)(s) }
func (s *MemoryStore) Enquiries() Enquiries           { return (*memEnquiries)(s) }

// ---- port categories ----

type memPortCategories MemoryStore

func (m *memPortCategories) List(_ context.Context) ([]models.PortCategoryWithPorts, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]models.PortCategory, 0, len(s.portCategories))
	for _, c := range s.portCategories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })

	out := make([]models.PortCategoryWithPorts, len(categories))
	for i, c := range categories {
		ports := s.portSummaries(c.ID)
		out[i] = models.PortCategoryWithPorts{PortCategory: c, Ports: ports, PortCount: len(ports)}
	}
	return out, nil
}

func (m *memPortCategories) Get(_ context.Context, id uuid.UUID) (*models.PortCategoryWithPorts, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.portCategories[id]
	if !ok {
		return nil, nil
	}
	ports := s.portSummaries(id)
	return &models.PortCategoryWithPorts{PortCategory: c, Ports: ports, PortCount: len(ports)}, nil
}

func (m *memPortCategories) GetByName(_ context.Context, name string) (*models.PortCategory, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.portCategories {
		if c.Name == name {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memPortCategories) Create(_ context.Context, c *models.PortCategory) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.portCategories {
		if existing.Name == c.Name {
			return apperr.BadRequest("record conflicts with an existing one (port_categories_name_key)")
		}
	}
	c.ID = uuid.New()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.portCategories[c.ID] = *c
	s.nextSeq(c.ID)
	return nil
}

func (m *memPortCategories) Update(_ context.Context, c *models.PortCategory) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.portCategories {
		if existing.Name == c.Name && existing.ID != c.ID {
			return apperr.BadRequest("record conflicts with an existing one (port_categories_name_key)")
		}
	}
	stored, ok := s.portCategories[c.ID]
	if !ok {
		return apperr.NotFound("Port category with ID %s not found", c.ID)
	}
	c.CreatedAt = stored.CreatedAt
	c.UpdatedAt = time.Now()
	s.portCategories[c.ID] = *c
	return nil
}

func (m *memPortCategories) Delete(_ context.Context, id uuid.UUID) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.portCategories, id)
	return nil
}

func (m *memPortCategories) CountPorts(_ context.Context, categoryID uuid.UUID) (int, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.ports {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) portSummaries(categoryID uuid.UUID) []models.PortSummary {
	out := []models.PortSummary{}
	for _, p := range s.ports {
		if p.CategoryID == categoryID {
			out = append(out, models.PortSummary{ID: p.ID, Number: p.Number, Description: p.Description})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// ---- ports ----

type memPorts MemoryStore

func (m *memPorts) List(_ context.Context) ([]models.PortWithRelations, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	ports := make([]models.Port, 0, len(s.ports))
	for _, p := range s.ports {
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Number < ports[j].Number })

	out := make([]models.PortWithRelations, len(ports))
	for i, p := range ports {
		out[i] = models.PortWithRelations{
			Port:      p,
			Category:  s.portCategories[p.CategoryID],
			Instances: s.instanceSummariesForPort(p.ID),
		}
	}
	return out, nil
}

func (m *memPorts) Get(_ context.Context, id uuid.UUID) (*models.PortWithRelations, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.ports[id]
	if !ok {
		return nil, nil
	}
	return &models.PortWithRelations{
		Port:      p,
		Category:  s.portCategories[p.CategoryID],
		Instances: s.instanceSummariesForPort(id),
	}, nil
}

func (m *memPorts) GetRow(_ context.Context, id uuid.UUID) (*models.Port, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.ports[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memPorts) GetByNumber(_ context.Context, number int) (*models.Port, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.ports {
		if p.Number == number {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memPorts) Create(_ context.Context, p *models.Port) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.ports {
		if existing.Number == p.Number {
			return apperr.BadRequest("record conflicts with an existing one (ports_number_key)")
		}
	}
	if _, ok := s.portCategories[p.CategoryID]; !ok {
		return apperr.BadRequest("record references a missing row or is still referenced (ports_category_id_fkey)")
	}
	p.ID = uuid.New()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.ports[p.ID] = *p
	s.nextSeq(p.ID)
	return nil
}

func (m *memPorts) Update(_ context.Context, p *models.Port) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.ports {
		if existing.Number == p.Number && existing.ID != p.ID {
			return apperr.BadRequest("record conflicts with an existing one (ports_number_key)")
		}
	}
	stored, ok := s.ports[p.ID]
	if !ok {
		return apperr.NotFound("Port with ID %s not found", p.ID)
	}
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = time.Now()
	s.ports[p.ID] = *p
	return nil
}

func (m *memPorts) Delete(_ context.Context, id uuid.UUID) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ports, id)
	return nil
}

func (m *memPorts) CountBindings(_ context.Context, portID uuid.UUID) (int, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for key := range s.bindings {
		if key.portID == portID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) instanceSummariesForPort(portID uuid.UUID) []models.InstanceSummary {
	out := []models.InstanceSummary{}
	for key := range s.bindings {
		if key.portID != portID {
			continue
		}
		if in, ok := s.instances[key.instanceID]; ok {
			out = append(out, models.InstanceSummary{ID: in.ID, Name: in.Name, IPAddress: in.IPAddress})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ---- hostings ----

type memHostings MemoryStore

func (m *memHostings) List(_ context.Context) ([]models.HostingWithInstances, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	hostings := make([]models.Hosting, 0, len(s.hostings))
	for _, h := range s.hostings {
		hostings = append(hostings, h)
	}
	sort.Slice(hostings, func(i, j int) bool { return hostings[i].ProviderName < hostings[j].ProviderName })

	out := make([]models.HostingWithInstances, len(hostings))
	for i, h := range hostings {
		instances := s.instanceSummariesForHosting(h.ID)
		out[i] = models.HostingWithInstances{Hosting: h, Instances: instances, InstanceCount: len(instances)}
	}
	return out, nil
}

func (m *memHostings) Get(_ context.Context, id uuid.UUID) (*models.HostingWithInstances, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hostings[id]
	if !ok {
		return nil, nil
	}
	instances := s.instanceSummariesForHosting(id)
	return &models.HostingWithInstances{Hosting: h, Instances: instances, InstanceCount: len(instances)}, nil
}

func (m *memHostings) GetRow(_ context.Context, id uuid.UUID) (*models.Hosting, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hostings[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (m *memHostings) GetByProvider(_ context.Context, providerName, providerAccount string) (*models.Hosting, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, h := range s.hostings {
		if h.ProviderName == providerName && h.ProviderAccount == providerAccount {
			out := h
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memHostings) Create(_ context.Context, h *models.Hosting) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.hostings {
		if existing.ProviderName == h.ProviderName && existing.ProviderAccount == h.ProviderAccount {
			return apperr.BadRequest("record conflicts with an existing one (hostings_provider_name_provider_account_key)")
		}
	}
	h.ID = uuid.New()
	now := time.Now()
	h.CreatedAt = now
	h.UpdatedAt = now
	s.hostings[h.ID] = *h
	s.nextSeq(h.ID)
	return nil
}

func (m *memHostings) Update(_ context.Context, h *models.Hosting) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.hostings {
		if existing.ProviderName == h.ProviderName && existing.ProviderAccount == h.ProviderAccount && existing.ID != h.ID {
			return apperr.BadRequest("record conflicts with an existing one (hostings_provider_name_provider_account_key)")
		}
	}
	stored, ok := s.hostings[h.ID]
	if !ok {
		return apperr.NotFound("Hosting with ID %s not found", h.ID)
	}
	h.CreatedAt = stored.CreatedAt
	h.UpdatedAt = time.Now()
	s.hostings[h.ID] = *h
	return nil
}

func (m *memHostings) Delete(_ context.Context, id uuid.UUID) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hostings, id)
	return nil
}

func (m *memHostings) CountInstances(_ context.Context, hostingID uuid.UUID) (int, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, in := range s.instances {
		if in.HostingID == hostingID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) instanceSummariesForHosting(hostingID uuid.UUID) []models.InstanceSummary {
	type entry struct {
		summary models.InstanceSummary
		seq     int64
	}
	entries := []entry{}
	for _, in := range s.instances {
		if in.HostingID == hostingID {
			entries = append(entries, entry{
				summary: models.InstanceSummary{ID: in.ID, Name: in.Name, IPAddress: in.IPAddress},
				seq:     s.order[in.ID],
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })
	out := make([]models.InstanceSummary, len(entries))
	for i, e := range entries {
		out[i] = e.summary
	}
	return out
}

// ---- instances ----

type memInstances MemoryStore

func (m *memInstances) List(_ context.Context) ([]models.InstanceWithRelations, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	instances := make([]models.Instance, 0, len(s.instances))
	for _, in := range s.instances {
		instances = append(instances, in)
	}
	sort.Slice(instances, func(i, j int) bool { return s.order[instances[i].ID] > s.order[instances[j].ID] })

	out := make([]models.InstanceWithRelations, len(instances))
	for i, in := range instances {
		out[i] = s.instanceRelations(in)
	}
	return out, nil
}

func (m *memInstances) Get(_ context.Context, id uuid.UUID) (*models.InstanceWithRelations, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.instances[id]
	if !ok {
		return nil, nil
	}
	rel := s.instanceRelations(in)
	return &rel, nil
}

func (m *memInstances) GetRow(_ context.Context, id uuid.UUID) (*models.Instance, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.instances[id]
	if !ok {
		return nil, nil
	}
	return &in, nil
}

func (m *memInstances) Create(_ context.Context, in *models.Instance) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hostings[in.HostingID]; !ok {
		return apperr.BadRequest("record references a missing row or is still referenced (instances_hosting_id_fkey)")
	}
	in.ID = uuid.New()
	if in.PortBindings == nil {
		in.PortBindings = models.PortBindingMap{}
	}
	now := time.Now()
	in.CreatedAt = now
	in.UpdatedAt = now
	s.instances[in.ID] = *in
	s.nextSeq(in.ID)
	return nil
}

func (m *memInstances) Update(_ context.Context, in *models.Instance) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.instances[in.ID]
	if !ok {
		return apperr.NotFound("Instance with ID %s not found", in.ID)
	}
	if _, ok := s.hostings[in.HostingID]; !ok {
		return apperr.BadRequest("record references a missing row or is still referenced (instances_hosting_id_fkey)")
	}
	in.CreatedAt = stored.CreatedAt
	in.PortBindings = stored.PortBindings
	in.UpdatedAt = time.Now()
	s.instances[in.ID] = *in
	return nil
}

func (m *memInstances) Delete(_ context.Context, id uuid.UUID) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, id)
	return nil
}

func (m *memInstances) HasBinding(_ context.Context, instanceID, portID uuid.UUID) (bool, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.bindings[bindingKey{instanceID, portID}]
	return ok, nil
}

func (m *memInstances) BindPort(_ context.Context, instanceID, portID uuid.UUID, cfg models.PortBindingConfig) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	key := bindingKey{instanceID, portID}
	if _, ok := s.bindings[key]; ok {
		return apperr.BadRequest("record conflicts with an existing one (instance_ports_instance_id_port_id_key)")
	}
	in, ok := s.instances[instanceID]
	if !ok {
		return apperr.BadRequest("record references a missing row or is still referenced (instance_ports_instance_id_fkey)")
	}
	s.bindings[key] = time.Now()

	updated := models.PortBindingMap{}
	for k, v := range in.PortBindings {
		updated[k] = v
	}
	updated[portID.String()] = cfg
	in.PortBindings = updated
	in.UpdatedAt = time.Now()
	s.instances[instanceID] = in
	return nil
}

func (m *memInstances) UnbindPort(_ context.Context, instanceID, portID uuid.UUID) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	key := bindingKey{instanceID, portID}
	if _, ok := s.bindings[key]; !ok {
		return apperr.NotFound("Port %s is not bound to this instance", portID)
	}
	delete(s.bindings, key)

	if in, ok := s.instances[instanceID]; ok {
		updated := models.PortBindingMap{}
		for k, v := range in.PortBindings {
			if k != portID.String() {
				updated[k] = v
			}
		}
		in.PortBindings = updated
		in.UpdatedAt = time.Now()
		s.instances[instanceID] = in
	}
	return nil
}

func (s *MemoryStore) instanceRelations(in models.Instance) models.InstanceWithRelations {
	rel := models.InstanceWithRelations{
		Instance: in,
		Hosting:  s.hostings[in.HostingID],
		Sites:    []models.Site{},
		Domains:  []models.Domain{},
		Ports:    s.boundPorts(in.ID),
	}
	for _, site := range s.sites {
		if site.InstanceID == in.ID {
			rel.Sites = append(rel.Sites, site)
		}
	}
	sort.Slice(rel.Sites, func(i, j int) bool { return s.order[rel.Sites[i].ID] > s.order[rel.Sites[j].ID] })
	for _, d := range s.domains {
		if d.InstanceID == in.ID {
			rel.Domains = append(rel.Domains, d)
		}
	}
	sort.Slice(rel.Domains, func(i, j int) bool { return rel.Domains[i].Name < rel.Domains[j].Name })
	return rel
}

func (s *MemoryStore) boundPorts(instanceID uuid.UUID) []models.PortWithCategory {
	out := []models.PortWithCategory{}
	for key := range s.bindings {
		if key.instanceID != instanceID {
			continue
		}
		if p, ok := s.ports[key.portID]; ok {
			out = append(out, models.PortWithCategory{Port: p, Category: s.portCategories[p.CategoryID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// ---- domains ----

type memDomains MemoryStore

func (m *memDomains) List(_ context.Context, f DomainFilter) ([]models.DomainWithRelations, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	domains := []models.Domain{}
	for _, d := range s.domains {
		if f.Provider != "" && !strings.Contains(strings.ToLower(d.Provider), strings.ToLower(f.Provider)) {
			continue
		}
		if f.ExpiringInDays > 0 {
			if d.PaidUntil == nil {
				continue
			}
			limit := now.AddDate(0, 0, f.ExpiringInDays)
			if d.PaidUntil.Before(now) || d.PaidUntil.After(limit) {
				continue
			}
		}
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool {
		a, b := domains[i].PaidUntil, domains[j].PaidUntil
		switch {
		case a == nil && b == nil:
			return s.order[domains[i].ID] < s.order[domains[j].ID]
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	out := make([]models.DomainWithRelations, len(domains))
	for i, d := range domains {
		out[i] = s.domainRelations(d)
	}
	return out, nil
}

func (m *memDomains) Get(_ context.Context, id uuid.UUID) (*models.DomainWithRelations, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.domains[id]
	if !ok {
		return nil, nil
	}
	rel := s.domainRelations(d)
	return &rel, nil
}

func (m *memDomains) GetRow(_ context.Context, id uuid.UUID) (*models.Domain, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.domains[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memDomains) GetByName(_ context.Context, name string) (*models.Domain, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.domains {
		if d.Name == name {
			out := d
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memDomains) Create(_ context.Context, d *models.Domain) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.domains {
		if existing.Name == d.Name {
			return apperr.BadRequest("record conflicts with an existing one (domains_name_key)")
		}
	}
	if _, ok := s.instances[d.InstanceID]; !ok {
		return apperr.BadRequest("record references a missing row or is still referenced (domains_instance_id_fkey)")
	}
	d.ID = uuid.New()
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	s.domains[d.ID] = *d
	s.nextSeq(d.ID)
	return nil
}

func (m *memDomains) Update(_ context.Context, d *models.Domain) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.domains {
		if existing.Name == d.Name && existing.ID != d.ID {
			return apperr.BadRequest("record conflicts with an existing one (domains_name_key)")
		}
	}
	stored, ok := s.domains[d.ID]
	if !ok {
		return apperr.NotFound("Domain with ID %s not found", d.ID)
	}
	d.CreatedAt = stored.CreatedAt
	d.UpdatedAt = time.Now()
	s.domains[d.ID] = *d
	return nil
}

func (m *memDomains) Delete(_ context.Context, id uuid.UUID) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.domains, id)
	return nil
}

func (m *memDomains) CountByInstance(_ context.Context, instanceID uuid.UUID) (int, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, d := range s.domains {
		if d.InstanceID == instanceID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) domainRelations(d models.Domain) models.DomainWithRelations {
	rel := models.DomainWithRelations{
		Domain:          d,
		Instance:        s.instances[d.InstanceID],
		PrimaryForSites: []models.Site{},
	}
	for _, site := range s.sites {
		if site.PrimaryDomainID != nil && *site.PrimaryDomainID == d.ID {
			rel.PrimaryForSites = append(rel.PrimaryForSites, site)
		}
	}
	sort.Slice(rel.PrimaryForSites, func(i, j int) bool {
		return s.order[rel.PrimaryForSites[i].ID] > s.order[rel.PrimaryForSites[j].ID]
	})
	return rel
}

// ---- sites ----

type memSites MemoryStore

func (m *memSites) List(_ context.Context, f SiteFilter) ([]models.SiteWithRelations, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	sites := []models.Site{}
	for _, site := range s.sites {
		if f.Status != "" && site.Status != f.Status {
			continue
		}
		if f.InstanceID != nil && site.InstanceID != *f.InstanceID {
			continue
		}
		if f.Domain != "" && !s.instanceHasDomainLike(site.InstanceID, f.Domain) {
			continue
		}
		sites = append(sites, site)
	}
	sort.Slice(sites, func(i, j int) bool { return s.order[sites[i].ID] > s.order[sites[j].ID] })

	out := make([]models.SiteWithRelations, len(sites))
	for i, site := range sites {
		out[i] = s.siteRelations(site, false)
	}
	return out, nil
}

func (m *memSites) Get(_ context.Context, id uuid.UUID) (*models.SiteWithRelations, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	site, ok := s.sites[id]
	if !ok {
		return nil, nil
	}
	rel := s.siteRelations(site, true)
	return &rel, nil
}

func (m *memSites) GetRow(_ context.Context, id uuid.UUID) (*models.Site, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	site, ok := s.sites[id]
	if !ok {
		return nil, nil
	}
	return &site, nil
}

func (m *memSites) Create(_ context.Context, site *models.Site) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instances[site.InstanceID]; !ok {
		return apperr.BadRequest("record references a missing row or is still referenced (sites_instance_id_fkey)")
	}
	site.ID = uuid.New()
	now := time.Now()
	site.CreatedAt = now
	site.UpdatedAt = now
	s.sites[site.ID] = *site
	s.nextSeq(site.ID)
	return nil
}

func (m *memSites) Update(_ context.Context, site *models.Site) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sites[site.ID]
	if !ok {
		return apperr.NotFound("Site with ID %s not found", site.ID)
	}
	site.CreatedAt = stored.CreatedAt
	site.UpdatedAt = time.Now()
	s.sites[site.ID] = *site
	return nil
}

func (m *memSites) Delete(_ context.Context, id uuid.UUID) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sites, id)
	delete(s.siteInfos, id)
	return nil
}

func (m *memSites) GetExpanded(_ context.Context, id uuid.UUID) (*models.ExpandedSite, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	site, ok := s.sites[id]
	if !ok {
		return nil, nil
	}
	instance := s.instances[site.InstanceID]
	out := &models.ExpandedSite{
		Site:     site,
		Instance: instance,
		Domains:  []models.Domain{},
		Ports:    s.boundPorts(instance.ID),
		Hosting:  s.hostings[instance.HostingID],
	}
	for _, d := range s.domains {
		if d.InstanceID == instance.ID {
			out.Domains = append(out.Domains, d)
		}
	}
	sort.Slice(out.Domains, func(i, j int) bool { return out.Domains[i].Name < out.Domains[j].Name })
	return out, nil
}

func (m *memSites) UpsertSiteInfo(_ context.Context, info *models.SiteInfo) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.siteInfos[info.SiteID]; ok {
		info.CreatedAt = existing.CreatedAt
	} else {
		info.CreatedAt = now
	}
	info.UpdatedAt = now
	s.siteInfos[info.SiteID] = *info
	return nil
}

func (m *memSites) CountByInstance(_ context.Context, instanceID uuid.UUID) (int, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, site := range s.sites {
		if site.InstanceID == instanceID {
			count++
		}
	}
	return count, nil
}

func (m *memSites) CountByPrimaryDomain(_ context.Context, domainID uuid.UUID) (int, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, site := range s.sites {
		if site.PrimaryDomainID != nil && *site.PrimaryDomainID == domainID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) instanceHasDomainLike(instanceID uuid.UUID, fragment string) bool {
	needle := strings.ToLower(fragment)
	for _, d := range s.domains {
		if d.InstanceID == instanceID && strings.Contains(strings.ToLower(d.Name), needle) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) siteRelations(site models.Site, includeInfo bool) models.SiteWithRelations {
	rel := models.SiteWithRelations{
		Site:     site,
		Instance: s.instances[site.InstanceID],
		Domains:  []models.Domain{},
	}
	for _, d := range s.domains {
		if d.InstanceID == site.InstanceID {
			rel.Domains = append(rel.Domains, d)
		}
	}
	sort.Slice(rel.Domains, func(i, j int) bool { return rel.Domains[i].Name < rel.Domains[j].Name })
	if site.PrimaryDomainID != nil {
		if d, ok := s.domains[*site.PrimaryDomainID]; ok {
			rel.PrimaryDomain = &d
		}
	}
	if includeInfo {
		if info, ok := s.siteInfos[site.ID]; ok {
			rel.SiteInfo = &info
		}
	}
	return rel
}

// ---- enquiries ----

type memEnquiries MemoryStore

func (m *memEnquiries) List(_ context.Context) ([]models.Enquiry, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Enquiry, 0, len(s.enquiries))
	for _, e := range s.enquiries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] > s.order[out[j].ID] })
	return out, nil
}

func (m *memEnquiries) Get(_ context.Context, id uuid.UUID) (*models.Enquiry, error) {
	s := (*MemoryStore)(m)
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.enquiries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memEnquiries) Create(_ context.Context, e *models.Enquiry) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.New()
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.enquiries[e.ID] = *e
	s.nextSeq(e.ID)
	return nil
}

func (m *memEnquiries) Delete(_ context.Context, id uuid.UUID) error {
	s := (*MemoryStore)(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.enquiries, id)
	return nil
}
