// Package config loads ingestd's runtime configuration from environment
// variables, with viper-backed defaults and validation.
package config

import "fmt"

// Config is ingestd's complete runtime configuration.
type Config struct {
	Relational  RelationalConfig  `mapstructure:"relational"`
	Document    DocumentConfig    `mapstructure:"document"`
	Vector      VectorConfig      `mapstructure:"vector"`
	ObjectStore ObjectStoreConfig `mapstructure:"object_store"`
	PathPlanner PathPlannerConfig `mapstructure:"path_planner"`

	DefaultTenantID string `mapstructure:"default_tenant_id"`
	LogLevel        string `mapstructure:"log_level"`
}

// RelationalConfig configures the Postgres-backed RelationalStore
// (DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD).
type RelationalConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DSN renders a libpq connection string for pgxpool.
func (c RelationalConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		c.Host, c.Port, c.Name, c.User, c.Password)
}

// DocumentConfig configures the document store (MONGO_URI, MONGO_DB).
// internal/docstore persists collections as on-disk bleve indexes under a
// directory this config derives from URI/DB, so ops still point at it with
// the same variable names a Mongo-backed deployment would use.
type DocumentConfig struct {
	URI string `mapstructure:"uri"`
	DB  string `mapstructure:"db"`
}

// Enabled reports whether document persistence is configured at all: its
// absence disables document persistence, but ingestion still returns
// "completed" with placeholder ids.
func (c DocumentConfig) Enabled() bool {
	return c.URI != "" || c.DB != ""
}

// Root derives the on-disk root docstore should persist collections under.
// A "file://" URI names the root directly; otherwise the database name is
// used as a directory under the default data root.
func (c DocumentConfig) Root(dataRoot string) string {
	const filePrefix = "file://"
	if len(c.URI) > len(filePrefix) && c.URI[:len(filePrefix)] == filePrefix {
		return c.URI[len(filePrefix):]
	}
	db := c.DB
	if db == "" {
		db = "ingestd"
	}
	return dataRoot + "/docstore/" + db
}

// VectorConfig configures the vector index (CHROMA_PERSIST_PATH,
// CHROMA_NOSQL_COLLECTION).
type VectorConfig struct {
	PersistPath string `mapstructure:"persist_path"`
	Collection  string `mapstructure:"collection"`
}

// Persistent reports whether the vector index should survive restarts.
func (c VectorConfig) Persistent() bool {
	return c.PersistPath != ""
}

// ObjectStoreConfig configures the local object store (LOCAL_ROOT_REPO).
type ObjectStoreConfig struct {
	Root string `mapstructure:"root"`
}

// PathPlannerConfig toggles the PathPlanner capability (ENABLE_LOCAL_PATH_GENERATOR,
// LOCAL_PATH_GENERATOR_MOVE_FILES).
type PathPlannerConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	MoveFiles bool `mapstructure:"move_files"`
}

// Default returns ingestd's built-in defaults, overridden by Load's
// environment-variable bindings.
func Default() *Config {
	return &Config{
		Relational: RelationalConfig{
			Host: "localhost",
			Port: 5432,
			Name: "ingestd",
			User: "postgres",
		},
		Document: DocumentConfig{
			DB: "ingestd",
		},
		Vector: VectorConfig{
			Collection: "ingestd",
		},
		ObjectStore: ObjectStoreConfig{
			Root: "../storage",
		},
		PathPlanner: PathPlannerConfig{
			Enabled:   false,
			MoveFiles: false,
		},
		DefaultTenantID: "default",
		LogLevel:        "info",
	}
}
