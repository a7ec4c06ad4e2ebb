package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Loader loads a Config from the environment.
type Loader interface {
	Load() (*Config, error)
}

type loader struct{}

// NewLoader returns a Loader that reads the documented environment
// variables, falling back to Default()'s values and validating the result.
func NewLoader() Loader {
	return &loader{}
}

func (loader) Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	bindEnv(v, "relational.host", "DB_HOST")
	bindEnv(v, "relational.port", "DB_PORT")
	bindEnv(v, "relational.name", "DB_NAME")
	bindEnv(v, "relational.user", "DB_USER")
	bindEnv(v, "relational.password", "DB_PASSWORD")

	bindEnv(v, "document.uri", "MONGO_URI")
	bindEnv(v, "document.db", "MONGO_DB")

	bindEnv(v, "vector.persist_path", "CHROMA_PERSIST_PATH")
	bindEnv(v, "vector.collection", "CHROMA_NOSQL_COLLECTION")

	bindEnv(v, "object_store.root", "LOCAL_ROOT_REPO")

	bindEnv(v, "path_planner.enabled", "ENABLE_LOCAL_PATH_GENERATOR")
	bindEnv(v, "path_planner.move_files", "LOCAL_PATH_GENERATOR_MOVE_FILES")

	bindEnv(v, "default_tenant_id", "DEFAULT_TENANT_ID")
	bindEnv(v, "log_level", "LOG_LEVEL")

	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling configuration: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func bindEnv(v *viper.Viper, key, envVar string) {
	// BindEnv never errors for a single (key, envVar) pair.
	_ = v.BindEnv(key, envVar)
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("relational.host", d.Relational.Host)
	v.SetDefault("relational.port", d.Relational.Port)
	v.SetDefault("relational.name", d.Relational.Name)
	v.SetDefault("relational.user", d.Relational.User)
	v.SetDefault("relational.password", d.Relational.Password)

	v.SetDefault("document.uri", d.Document.URI)
	v.SetDefault("document.db", d.Document.DB)

	v.SetDefault("vector.persist_path", d.Vector.PersistPath)
	v.SetDefault("vector.collection", d.Vector.Collection)

	v.SetDefault("object_store.root", d.ObjectStore.Root)

	v.SetDefault("path_planner.enabled", d.PathPlanner.Enabled)
	v.SetDefault("path_planner.move_files", d.PathPlanner.MoveFiles)

	v.SetDefault("default_tenant_id", d.DefaultTenantID)
	v.SetDefault("log_level", d.LogLevel)
}

// Load is a convenience function equivalent to NewLoader().Load().
func Load() (*Config, error) {
	return NewLoader().Load()
}
