package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/userservice/internal/dbx"
	"github.com/dmitrijs2005/userservice/internal/logging"
	"github.com/dmitrijs2005/userservice/internal/server/config"
	"github.com/dmitrijs2005/userservice/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepoManager struct {
	migrateErr error
	migrated   bool
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	m.migrated = true
	return m.migrateErr
}
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return nil }

type fakeRunner struct {
	err error
	ran bool
}

func (r *fakeRunner) Run(ctx context.Context) error {
	r.ran = true
	return r.err
}

func newTestApp(t *testing.T, rm *fakeRepoManager, srv *fakeRunner) (*App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	var cfg config.Config
	cfg.LoadProfile(config.ProfileTesting)

	return &App{
		config:      &cfg,
		logger:      logging.Nop(),
		db:          db,
		repomanager: rm,
		server:      srv,
	}, mock
}

func TestNewApp_Wires(t *testing.T) {
	var cfg config.Config
	cfg.LoadProfile(config.ProfileTesting)

	app, err := NewApp(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	assert.NotNil(t, app.server)
	assert.NotNil(t, app.repomanager)
}

func TestRun_Success(t *testing.T) {
	rm := &fakeRepoManager{}
	srv := &fakeRunner{}
	app, mock := newTestApp(t, rm, srv)
	mock.ExpectPing()
	mock.ExpectClose()

	require.NoError(t, app.Run(context.Background()))

	assert.True(t, rm.migrated)
	assert.True(t, srv.ran)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_PingError(t *testing.T) {
	rm := &fakeRepoManager{}
	srv := &fakeRunner{}
	app, mock := newTestApp(t, rm, srv)
	mock.ExpectPing().WillReturnError(errors.New("unreachable"))
	mock.ExpectClose()

	err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db ping error")
	assert.False(t, rm.migrated)
	assert.False(t, srv.ran)
}

func TestRun_MigrationError(t *testing.T) {
	rm := &fakeRepoManager{migrateErr: errors.New("bad sql")}
	srv := &fakeRunner{}
	app, mock := newTestApp(t, rm, srv)
	mock.ExpectPing()
	mock.ExpectClose()

	err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration error")
	assert.False(t, srv.ran)
}

func TestRun_ServerError(t *testing.T) {
	srv := &fakeRunner{err: errors.New("address in use")}
	app, mock := newTestApp(t, &fakeRepoManager{}, srv)
	mock.ExpectPing()
	mock.ExpectClose()

	err := app.Run(context.Background())
	require.EqualError(t, err, "address in use")
	require.NoError(t, mock.ExpectationsWereMet())
}
