package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	SiteStatusActive    = "active"
	SiteStatusInactive  = "inactive"
	SiteStatusSuspended = "suspended"
)

// AnalyticsConfig is the optional JSONB analytics block on a site.
type AnalyticsConfig struct {
	Provider string          `json:"provider"`
	Cfg      json.RawMessage `json:"cfg"`
	Enabled  bool            `json:"enabled"`
}

func (a AnalyticsConfig) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *AnalyticsConfig) Scan(src any) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("analytics: cannot scan %T", src)
	}
	return json.Unmarshal(b, a)
}

// Site is a logical web property served from an instance. primaryDomainId is
// a weak reference: it records association without ownership.
type Site struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	Name            string           `db:"name" json:"name"`
	Purpose         string           `db:"purpose" json:"purpose"`
	InstanceID      uuid.UUID        `db:"instance_id" json:"instanceId"`
	PrimaryDomainID *uuid.UUID       `db:"primary_domain_id" json:"primaryDomainId"`
	Analytics       *AnalyticsConfig `db:"analytics" json:"analytics"`
	Status          string           `db:"status" json:"status"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updatedAt"`
}

// SiteWithRelations is the site response: instance, the instance's domains,
// and the primary domain row when set. SiteInfo is populated on single reads.
type SiteWithRelations struct {
	Site
	Instance      Instance `json:"instance"`
	Domains       []Domain `json:"domains"`
	PrimaryDomain *Domain  `json:"primaryDomain"`
	SiteInfo      *SiteInfo `json:"siteInfo,omitempty"`
}

// ExpandedSite is the multi-hop aggregate: site, instance, every domain on
// the site's instance, every port bound to it (with category), and the
// instance's hosting account.
type ExpandedSite struct {
	Site     Site               `json:"site"`
	Instance Instance           `json:"instance"`
	Domains  []Domain           `json:"domains"`
	Ports    []PortWithCategory `json:"ports"`
	Hosting  Hosting            `json:"hosting"`
}

// ContactInfo is the contacts JSONB block of a site-info record.
type ContactInfo struct {
	Phones []string `json:"phones"`
	Emails []string `json:"emails"`
}

func (c ContactInfo) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *ContactInfo) Scan(src any) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("contacts: cannot scan %T", src)
	}
	return json.Unmarshal(b, c)
}

// FetchMeta records who fetched a site-info snapshot and when.
type FetchMeta struct {
	FetchedBy string `json:"fetched_by"`
	FetchedAt string `json:"fetched_at"`
}

func (m FetchMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *FetchMeta) Scan(src any) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("fetch meta: cannot scan %T", src)
	}
	return json.Unmarshal(b, m)
}

// SiteInfo is the one-to-one fetched-metadata record for a site, replaced on
// every fetch.
type SiteInfo struct {
	SiteID    uuid.UUID       `db:"site_id" json:"siteId"`
	Contacts  ContactInfo     `db:"contacts" json:"contacts"`
	Meta      FetchMeta       `db:"meta" json:"meta"`
	SourceURL string          `db:"source_url" json:"sourceUrl"`
	RawJSON   json.RawMessage `db:"raw_json" json:"rawJson"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}
