package database

import (
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-compare/config"
)

func TestNewDatabaseConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var cfg config.Config
	cfg.Repositories.Postgres.Host = "db"
	cfg.Repositories.Postgres.Port = "5432"
	cfg.Repositories.Postgres.Username = "app"
	cfg.Repositories.Postgres.Password = "p@ss"
	cfg.Repositories.Postgres.DB = "itinerary"
	cfg.Repositories.Postgres.MAXCONWAITINGTIME = 10

	dbCfg, err := NewDatabaseConfig(&cfg, logger)
	require.NoError(t, err)

	u, err := url.Parse(dbCfg.ConnectionURL)
	require.NoError(t, err)
	assert.Equal(t, "postgresql", u.Scheme)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/itinerary", u.Path)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss", pw)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "10", u.Query().Get("connect_timeout"))
}

func TestNewDatabaseConfigRequiresHost(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewDatabaseConfig(&config.Config{}, logger)
	assert.Error(t, err)
	_, err = NewDatabaseConfig(nil, logger)
	assert.Error(t, err)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestRunMigrationsRejectsScheme(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Error(t, RunMigrations("mysql://localhost/db", logger))
}
