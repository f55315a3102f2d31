package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
)

func TestInstanceCreateRequiresHosting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.instances.Create(ctx, CreateInstanceInput{
		Name:      "web-1",
		HostingID: uuid.New(),
		IPAddress: "10.0.0.1",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
}

func TestInstanceCreateInitializesBindings(t *testing.T) {
	f := newFixture(t)

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)

	require.NotNil(t, instance.PortBindings)
	assert.Empty(t, instance.PortBindings)
	assert.Equal(t, hosting.ID, instance.Hosting.ID)
}

func TestInstanceBindPortDefaultsHostPort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.seedCategory(t, "Web")
	port := f.seedPort(t, 8080, category.ID)
	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)

	result, err := f.instances.BindPort(ctx, instance.ID, BindPortInput{PortID: port.ID, Protocol: "tcp"})
	require.NoError(t, err)
	assert.Equal(t, 8080, result.Config.HostPort)
	assert.Equal(t, "tcp", result.Config.Protocol)
	assert.False(t, result.BoundAt.IsZero())

	got, err := f.instances.FindOne(ctx, instance.ID)
	require.NoError(t, err)
	require.Contains(t, got.PortBindings, port.ID.String())
	assert.Equal(t, 8080, got.PortBindings[port.ID.String()].HostPort)
	require.Len(t, got.Ports, 1)
	assert.Equal(t, "Web", got.Ports[0].Category.Name)
}

func TestInstanceBindPortExplicitHostPort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.seedCategory(t, "Web")
	port := f.seedPort(t, 80, category.ID)
	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)

	hostPort := 8081
	result, err := f.instances.BindPort(ctx, instance.ID, BindPortInput{
		PortID:   port.ID,
		Protocol: "udp",
		HostPort: &hostPort,
	})
	require.NoError(t, err)
	assert.Equal(t, 8081, result.Config.HostPort)
	assert.Equal(t, "udp", result.Config.Protocol)
}

func TestInstanceBindPortRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.seedCategory(t, "Web")
	port := f.seedPort(t, 80, category.ID)
	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)

	_, err := f.instances.BindPort(ctx, instance.ID, BindPortInput{PortID: port.ID, Protocol: "tcp"})
	require.NoError(t, err)

	_, err = f.instances.BindPort(ctx, instance.ID, BindPortInput{PortID: port.ID, Protocol: "tcp"})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "already bound")
}

func TestInstanceBindPortUnknownPort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)

	_, err := f.instances.BindPort(ctx, instance.ID, BindPortInput{PortID: uuid.New(), Protocol: "tcp"})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))

	_, err = f.instances.BindPort(ctx, uuid.New(), BindPortInput{PortID: uuid.New(), Protocol: "tcp"})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestInstanceUnbindPort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category := f.seedCategory(t, "Web")
	port := f.seedPort(t, 80, category.ID)
	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)

	_, err := f.instances.BindPort(ctx, instance.ID, BindPortInput{PortID: port.ID, Protocol: "tcp"})
	require.NoError(t, err)

	result, err := f.instances.UnbindPort(ctx, instance.ID, port.ID)
	require.NoError(t, err)
	assert.Equal(t, port.ID, result.PortID)
	assert.False(t, result.UnboundAt.IsZero())

	got, err := f.instances.FindOne(ctx, instance.ID)
	require.NoError(t, err)
	assert.NotContains(t, got.PortBindings, port.ID.String())
	assert.Empty(t, got.Ports)

	// Unbinding again reports the binding as missing.
	_, err = f.instances.UnbindPort(ctx, instance.ID, port.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Contains(t, err.Error(), "not bound to this instance")
}

func TestInstanceRemoveGuardedBySitesAndDomains(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	instance := f.seedInstance(t, "web-1", hosting)
	site := f.seedSite(t, "example.com", instance)
	f.seedDomain(t, "example.com", instance)

	err := f.instances.Remove(ctx, instance.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "associated sites")

	require.NoError(t, f.sites.Remove(ctx, site.ID))

	err = f.instances.Remove(ctx, instance.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "associated domains")
}

func TestInstanceUpdateMovesHosting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.seedHosting(t, "hetzner", "ops@example.com")
	second := f.seedHosting(t, "ovh", "ops@example.com")
	instance := f.seedInstance(t, "web-1", first)

	updated, err := f.instances.Update(ctx, instance.ID, UpdateInstanceInput{HostingID: &second.ID})
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.HostingID)

	missing := uuid.New()
	_, err = f.instances.Update(ctx, instance.ID, UpdateInstanceInput{HostingID: &missing})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
}

func TestInstanceListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hosting := f.seedHosting(t, "hetzner", "ops@example.com")
	f.seedInstance(t, "web-1", hosting)
	f.seedInstance(t, "web-2", hosting)

	all, err := f.instances.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "web-2", all[0].Name)
	assert.Equal(t, "web-1", all[1].Name)
}
