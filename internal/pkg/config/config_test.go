package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(NewViper())

	assert.Equal(t, BackendRelational, cfg.Backend.Kind)
	assert.Equal(t, "scout_inventory", cfg.Database.Name)
	assert.Equal(t, "inventory_items", cfg.Mongo.InventoryCollection)
	assert.Equal(t, "item_requests", cfg.Mongo.RequestCollection)
	assert.Equal(t, "reports/", cfg.Reports.Prefix)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, map[string]int{"critical": 6, "default": 3, "low": 1}, cfg.Asynq.Queues)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.NoError(t, cfg.Validate())
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("DATA_BACKEND", "Document")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("EDGE_BASE_URL", "http://edge.local/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ROLE_CACHE_TTL", "90s")

	cfg := FromViper(NewViper())

	assert.Equal(t, BackendDocument, cfg.Backend.Kind)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "http://edge.local", cfg.Edge.BaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.Access.RoleCacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "relational_defaults", mutate: func(*Config) {}},
		{
			name:    "unknown_backend",
			mutate:  func(c *Config) { c.Backend.Kind = "sqlite" },
			wantErr: `unknown data backend "sqlite"`,
		},
		{
			name:    "document_without_uri",
			mutate:  func(c *Config) { c.Backend.Kind = BackendDocument },
			wantErr: "MONGODB_URI",
		},
		{
			name:    "edge_without_base_url",
			mutate:  func(c *Config) { c.Backend.Kind = BackendEdge },
			wantErr: "EDGE_BASE_URL",
		},
		{
			name:    "missing_database_password",
			mutate:  func(c *Config) { c.Database.Password = "" },
			wantErr: "Password",
		},
		{
			name:    "connection_bounds",
			mutate:  func(c *Config) { c.Database.MinConnections = 50 },
			wantErr: "max connections",
		},
		{
			name:    "notifications_need_recipient",
			mutate:  func(c *Config) { c.Notification.Enabled = true },
			wantErr: "NOTIFY_RECIPIENT",
		},
		{
			name:    "production_rejects_default_secret",
			mutate:  func(c *Config) { c.App.Environment = "production"; c.Database.SSLMode = "require" },
			wantErr: "default JWT secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromViper(NewViper())
			cfg.Notification.Enabled = false
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type staticSecrets map[string]string

func (s staticSecrets) GetSecrets(_ context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, k := range keys {
		if v, ok := s[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func TestApplySecrets(t *testing.T) {
	cfg := FromViper(NewViper())
	err := ApplySecrets(context.Background(), cfg, staticSecrets{
		SecretDatabasePassword: "from-vault",
		SecretJWT:              "a-very-long-jwt-secret-from-secrets-manager",
	})
	require.NoError(t, err)

	assert.Equal(t, "from-vault", cfg.Database.Password)
	assert.Equal(t, "a-very-long-jwt-secret-from-secrets-manager", cfg.Auth.JWTSecret)
	assert.Equal(t, "", cfg.Notification.SMTPPassword)
}

type fakeSecretValue struct {
	calls  int
	secret string
	err    error
}

func (f *fakeSecretValue) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput,
	_ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{Name: in.SecretId, SecretString: aws.String(f.secret)}, nil
}

func TestAWSSecretsManager_GetSecrets(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("caches_fetched_values", func(t *testing.T) {
		client := &fakeSecretValue{secret: `{"DB_PASSWORD":"pw","JWT_SECRET":"jwt"}`}
		sm := newAWSSecretsManager(client, "scout-inventory", logger)

		got, err := sm.GetSecrets(context.Background(), []string{"DB_PASSWORD"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"DB_PASSWORD": "pw"}, got)

		got, err = sm.GetSecrets(context.Background(), []string{"JWT_SECRET"})
		require.NoError(t, err)
		assert.Equal(t, "jwt", got["JWT_SECRET"])
		assert.Equal(t, 1, client.calls)
	})

	t.Run("invalid_json", func(t *testing.T) {
		sm := newAWSSecretsManager(&fakeSecretValue{secret: "not json"}, "x", logger)
		_, err := sm.GetSecrets(context.Background(), []string{"DB_PASSWORD"})
		assert.ErrorContains(t, err, "failed to parse secret JSON")
	})

	t.Run("client_error", func(t *testing.T) {
		sm := newAWSSecretsManager(&fakeSecretValue{err: errors.New("denied")}, "x", logger)
		_, err := sm.GetSecrets(context.Background(), []string{"DB_PASSWORD"})
		assert.ErrorContains(t, err, "denied")
	})
}
