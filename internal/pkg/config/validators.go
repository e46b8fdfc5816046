// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

const defaultJWTSecret = "development-secret-change-in-production"

// check validates one concern of the configuration
type check func(*Config) error

// checks run in order; every failure is reported.
var checks = []check{
	checkBackend,
	checkDatabase,
	checkServer,
	checkAuth,
	checkNotification,
	checkReports,
}

func validate(c *Config) error {
	var errs []error
	for _, fn := range checks {
		if err := fn(c); err != nil {
			errs = append(errs, err)
		}
	}
	if c.IsProduction() {
		errs = append(errs, checkProduction(c))
	}
	return errors.Join(errs...)
}

func checkBackend(c *Config) error {
	switch c.Backend.Kind {
	case BackendRelational:
		return nil
	case BackendDocument:
		var errs []error
		if c.Mongo.URI == "" {
			errs = append(errs, missing("MONGODB_URI"))
		}
		if c.Mongo.Database == "" {
			errs = append(errs, missing("MONGODB_DATABASE"))
		}
		return errors.Join(errs...)
	case BackendEdge:
		if c.Edge.BaseURL == "" {
			return missing("EDGE_BASE_URL")
		}
		return nil
	default:
		return fmt.Errorf("unknown data backend %q", c.Backend.Kind)
	}
}

// Profiles and withdrawals always live in the relational store, so the
// database section is checked whatever the backend.
func checkDatabase(c *Config) error {
	errs := requiredFields(reflect.ValueOf(c.Database), "Database")
	if c.Database.Host == "" {
		errs = append(errs, missing("DB_HOST"))
	}
	if c.Database.MaxConnections < c.Database.MinConnections {
		errs = append(errs, errors.New("database max connections must be >= min connections"))
	}
	return errors.Join(errs...)
}

func checkServer(c *Config) error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, missing("SERVER_PORT"))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("SERVER_MAX_UPLOAD_MB must be positive"))
	}
	if c.Security.RateLimitRequests <= 0 {
		errs = append(errs, errors.New("rate limit requests must be positive"))
	}
	return errors.Join(errs...)
}

func checkAuth(c *Config) error {
	if c.Auth.JWTSecret == "" {
		return missing("JWT_SECRET")
	}
	return nil
}

func checkNotification(c *Config) error {
	if !c.Notification.Enabled {
		return nil
	}
	var errs []error
	if c.Notification.Recipient == "" {
		errs = append(errs, missing("NOTIFY_RECIPIENT"))
	}
	if c.Notification.SMTPHost == "" {
		errs = append(errs, missing("SMTP_HOST"))
	}
	return errors.Join(errs...)
}

func checkReports(c *Config) error {
	if c.Reports.Retention < 0 {
		return errors.New("REPORTS_RETENTION cannot be negative")
	}
	return nil
}

// checkProduction rejects development conveniences
func checkProduction(c *Config) error {
	var errs []error
	if c.Database.SSLMode == "disable" {
		errs = append(errs, errors.New("database SSL must be enabled in production"))
	}
	switch {
	case c.Auth.JWTSecret == defaultJWTSecret:
		errs = append(errs, errors.New("default JWT secret cannot be used in production"))
	case len(c.Auth.JWTSecret) < 32:
		errs = append(errs, errors.New("JWT secret must be at least 32 characters"))
	}
	if !c.Security.SecureHeaders {
		errs = append(errs, errors.New("secure headers must be enabled in production"))
	}
	if len(c.Security.AllowedOrigins) == 1 && c.Security.AllowedOrigins[0] == "*" {
		errs = append(errs, errors.New("wildcard CORS origin cannot be used by the API in production"))
	}
	return errors.Join(errs...)
}

func missing(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, name)
}

// requiredFields reports every field tagged `required:"true"` that is empty
// or still holds a MISSING_ placeholder.
func requiredFields(v reflect.Value, prefix string) []error {
	var errs []error
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		name := prefix + "." + t.Field(i).Name
		field := v.Field(i)

		if field.Kind() == reflect.Struct {
			errs = append(errs, requiredFields(field, name)...)
			continue
		}
		if t.Field(i).Tag.Get("required") == "true" && unset(field) {
			errs = append(errs, missing(name))
		}
	}
	return errs
}

func unset(v reflect.Value) bool {
	if v.Kind() == reflect.String {
		return v.String() == "" || strings.HasPrefix(v.String(), "MISSING_")
	}
	return v.IsZero()
}
