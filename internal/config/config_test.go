package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultReturnsValidConfiguration(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.Relational.Host)
	assert.Equal(t, 5432, cfg.Relational.Port)
	assert.Equal(t, "ingestd", cfg.Relational.Name)
	assert.Equal(t, "../storage", cfg.ObjectStore.Root)
	assert.Equal(t, "default", cfg.DefaultTenantID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, Validate(cfg))
}

func TestLoadUsesDefaultsWithNoEnvironmentSet(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Relational.Host, cfg.Relational.Host)
	assert.Equal(t, Default().ObjectStore.Root, cfg.ObjectStore.Root)
}

func TestLoadHonorsEnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "warehouse")
	t.Setenv("MONGO_DB", "catalog")
	t.Setenv("CHROMA_PERSIST_PATH", "/data/chroma")
	t.Setenv("CHROMA_NOSQL_COLLECTION", "docs")
	t.Setenv("LOCAL_ROOT_REPO", "/data/objects")
	t.Setenv("DEFAULT_TENANT_ID", "tenant-42")
	t.Setenv("ENABLE_LOCAL_PATH_GENERATOR", "true")
	t.Setenv("LOCAL_PATH_GENERATOR_MOVE_FILES", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Relational.Host)
	assert.Equal(t, 6543, cfg.Relational.Port)
	assert.Equal(t, "warehouse", cfg.Relational.Name)
	assert.Equal(t, "catalog", cfg.Document.DB)
	assert.True(t, cfg.Document.Enabled())
	assert.Equal(t, "/data/chroma", cfg.Vector.PersistPath)
	assert.True(t, cfg.Vector.Persistent())
	assert.Equal(t, "docs", cfg.Vector.Collection)
	assert.Equal(t, "/data/objects", cfg.ObjectStore.Root)
	assert.Equal(t, "tenant-42", cfg.DefaultTenantID)
	assert.True(t, cfg.PathPlanner.Enabled)
	assert.True(t, cfg.PathPlanner.MoveFiles)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestDocumentConfigDisabledWithoutURIOrDB(t *testing.T) {
	cfg := DocumentConfig{}
	assert.False(t, cfg.Enabled())
}

func TestDocumentConfigRootDerivesFromFileURI(t *testing.T) {
	cfg := DocumentConfig{URI: "file:///var/data/docs"}
	assert.Equal(t, "/var/data/docs", cfg.Root("/ignored"))
}

func TestDocumentConfigRootFallsBackToDataRootAndDBName(t *testing.T) {
	cfg := DocumentConfig{DB: "catalog"}
	assert.Equal(t, "/data/docstore/catalog", cfg.Root("/data"))
}

func TestRelationalConfigDSNIncludesAllFields(t *testing.T) {
	cfg := RelationalConfig{Host: "h", Port: 5432, Name: "n", User: "u", Password: "p"}
	assert.Equal(t, "host=h port=5432 dbname=n user=u password=p sslmode=disable", cfg.DSN())
}

func TestValidateRejectsInvalidPort(t *testing.T) {
	cfg := Default()
	cfg.Relational.Port = 0
	assert.ErrorIs(t, Validate(cfg), ErrInvalidPort)
}

func TestValidateRejectsEmptyDatabaseName(t *testing.T) {
	cfg := Default()
	cfg.Relational.Name = "  "
	assert.ErrorIs(t, Validate(cfg), ErrEmptyDatabaseName)
}

func TestValidateRejectsEmptyObjectStoreRoot(t *testing.T) {
	cfg := Default()
	cfg.ObjectStore.Root = ""
	assert.ErrorIs(t, Validate(cfg), ErrEmptyObjectStoreRoot)
}

func TestValidateRejectsEmptyTenantID(t *testing.T) {
	cfg := Default()
	cfg.DefaultTenantID = ""
	assert.ErrorIs(t, Validate(cfg), ErrEmptyTenantID)
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	assert.ErrorIs(t, Validate(cfg), ErrInvalidLogLevel)
}

func TestValidateReturnsMultipleErrorsForMultipleInvalidFields(t *testing.T) {
	cfg := Default()
	cfg.Relational.Port = -1
	cfg.DefaultTenantID = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), ErrInvalidPort.Error())
	assert.Contains(t, err.Error(), ErrEmptyTenantID.Error())
}
