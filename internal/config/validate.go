package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPort indicates a relational port outside the valid TCP range.
	ErrInvalidPort = errors.New("invalid relational port")

	// ErrEmptyDatabaseName indicates a missing relational database name.
	ErrEmptyDatabaseName = errors.New("empty relational database name")

	// ErrEmptyObjectStoreRoot indicates a missing object store root.
	ErrEmptyObjectStoreRoot = errors.New("empty object store root")

	// ErrEmptyTenantID indicates a missing default tenant id.
	ErrEmptyTenantID = errors.New("empty default tenant id")

	// ErrInvalidLogLevel indicates an unparseable log level.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
}

// Validate checks that a loaded Config is complete and internally
// consistent.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Relational.Port <= 0 || cfg.Relational.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidPort, cfg.Relational.Port))
	}
	if strings.TrimSpace(cfg.Relational.Name) == "" {
		errs = append(errs, ErrEmptyDatabaseName)
	}

	if strings.TrimSpace(cfg.ObjectStore.Root) == "" {
		errs = append(errs, ErrEmptyObjectStoreRoot)
	}

	if strings.TrimSpace(cfg.DefaultTenantID) == "" {
		errs = append(errs, ErrEmptyTenantID)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidLogLevel, cfg.LogLevel))
	}

	return joinErrors(errs)
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
