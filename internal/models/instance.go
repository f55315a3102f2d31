package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PortBindingConfig is the per-binding record denormalized onto an instance:
// the protocol, the host port the service is exposed on, and when the binding
// was made.
type PortBindingConfig struct {
	Protocol string    `json:"protocol"`
	HostPort int       `json:"hostPort"`
	BoundAt  time.Time `json:"boundAt"`
}

// PortBindingMap is the JSONB port_bindings column, keyed by port ID. It must
// always agree with the instance_ports join rows for the instance.
type PortBindingMap map[string]PortBindingConfig

func (m PortBindingMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(PortBindingMap{})
	}
	return json.Marshal(m)
}

func (m *PortBindingMap) Scan(src any) error {
	if src == nil {
		*m = PortBindingMap{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("port bindings: cannot scan %T", src)
	}
	return json.Unmarshal(b, m)
}

// Instance is a machine or VM running under a hosting account.
type Instance struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	HostingID    uuid.UUID      `db:"hosting_id" json:"hostingId"`
	IPAddress    string         `db:"ip_address" json:"ipAddress"`
	PortBindings PortBindingMap `db:"port_bindings" json:"portBindings"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// InstanceSummary is the trimmed instance row embedded in hosting and port
// responses.
type InstanceSummary struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IPAddress string    `db:"ip_address" json:"ipAddress"`
}

// InstanceWithRelations is the full instance response: hosting account, owned
// sites and domains, and the ports bound to it.
type InstanceWithRelations struct {
	Instance
	Hosting Hosting            `json:"hosting"`
	Sites   []Site             `json:"sites"`
	Domains []Domain           `json:"domains"`
	Ports   []PortWithCategory `json:"ports"`
}

// PortBindingResult is returned by the bind action.
type PortBindingResult struct {
	InstanceID uuid.UUID         `json:"instanceId"`
	PortID     uuid.UUID         `json:"portId"`
	Config     PortBindingConfig `json:"config"`
	BoundAt    time.Time         `json:"boundAt"`
}

// PortUnbindResult is returned by the unbind action.
type PortUnbindResult struct {
	InstanceID uuid.UUID `json:"instanceId"`
	PortID     uuid.UUID `json:"portId"`
	UnboundAt  time.Time `json:"unboundAt"`
}
