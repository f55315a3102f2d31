package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
	"github.com/romanmmmelnyk/ms-backend/internal/database"
	"github.com/romanmmmelnyk/ms-backend/internal/models"
)

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return &database.DB{DB: sqlx.NewDb(mockDB, "sqlmock")}, mock
}

func TestMapConstraint(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "ports_number_key"}
	err := mapConstraint(unique)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "conflicts with an existing one (ports_number_key)")

	fk := &pq.Error{Code: "23503", Constraint: "domains_instance_id_fkey"}
	err = mapConstraint(fk)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "references a missing row")

	check := &pq.Error{Code: "23514", Constraint: "sites_status_check"}
	err = mapConstraint(check)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "violates a data constraint")

	// Non-constraint errors pass through untouched.
	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapConstraint(plain))
	assert.NoError(t, mapConstraint(nil))
}

func TestInstancesGetRowAbsentIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresInstances(db)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM instances WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	instance, err := repo.GetRow(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, instance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBindPortTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresInstances(db)
	instanceID := uuid.New()
	portID := uuid.New()
	cfg := models.PortBindingConfig{Protocol: "tcp", HostPort: 8080}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO instance_ports (instance_id, port_id)")).
		WithArgs(instanceID, portID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE instances").
		WithArgs(instanceID, portID.String(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.BindPort(context.Background(), instanceID, portID, cfg))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBindPortDuplicateRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresInstances(db)
	instanceID := uuid.New()
	portID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO instance_ports (instance_id, port_id)")).
		WithArgs(instanceID, portID).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "instance_ports_instance_id_port_id_key"})
	mock.ExpectRollback()

	err := repo.BindPort(context.Background(), instanceID, portID, models.PortBindingConfig{Protocol: "tcp", HostPort: 80})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnbindPortTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresInstances(db)
	instanceID := uuid.New()
	portID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM instance_ports").
		WithArgs(instanceID, portID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE instances").
		WithArgs(instanceID, portID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UnbindPort(context.Background(), instanceID, portID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnbindPortAbsentBinding(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresInstances(db)
	instanceID := uuid.New()
	portID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM instance_ports").
		WithArgs(instanceID, portID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UnbindPort(context.Background(), instanceID, portID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Contains(t, err.Error(), "not bound to this instance")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasBinding(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresInstances(db)
	instanceID := uuid.New()
	portID := uuid.New()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(instanceID, portID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	bound, err := repo.HasBinding(context.Background(), instanceID, portID)
	require.NoError(t, err)
	assert.True(t, bound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
