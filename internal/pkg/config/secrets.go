// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Keys read from the JSON secret bundle.
const (
	SecretDatabasePassword = "DB_PASSWORD"
	SecretJWT              = "JWT_SECRET"
	SecretSMTPPassword     = "SMTP_PASSWORD"
)

const secretBundleTTL = 5 * time.Minute

// SecretsProvider reads named secrets. Missing keys are absent from the map.
type SecretsProvider interface {
	GetSecrets(ctx context.Context, keys []string) (map[string]string, error)
}

type secretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManager reads one JSON secret holding every credential and keeps
// it for five minutes.
type AWSSecretsManager struct {
	api        secretValueAPI
	secretName string
	logger     *slog.Logger

	mu        sync.Mutex
	bundle    map[string]string
	fetchedAt time.Time
}

func NewAWSSecretsManager(ctx context.Context, region, secretName string, logger *slog.Logger) (*AWSSecretsManager, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newAWSSecretsManager(secretsmanager.NewFromConfig(awsCfg), secretName, logger), nil
}

func newAWSSecretsManager(api secretValueAPI, secretName string, logger *slog.Logger) *AWSSecretsManager {
	return &AWSSecretsManager{
		api:        api,
		secretName: secretName,
		logger:     logger.With(slog.String("secret", secretName)),
	}
}

// GetSecrets returns the requested keys from the bundle, refetching it once
// it is older than five minutes.
func (sm *AWSSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	bundle, err := sm.current(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, ok := bundle[k]
		if !ok {
			sm.logger.Warn("secret bundle has no such key", slog.String("key", k))
			continue
		}
		out[k] = v
	}
	return out, nil
}

func (sm *AWSSecretsManager) current(ctx context.Context) (map[string]string, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.bundle != nil && time.Since(sm.fetchedAt) < secretBundleTTL {
		return sm.bundle, nil
	}

	res, err := sm.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret %s: %w", sm.secretName, err)
	}
	if res.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", sm.secretName)
	}

	var bundle map[string]string
	if err := json.Unmarshal([]byte(*res.SecretString), &bundle); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}
	sm.bundle, sm.fetchedAt = bundle, time.Now()
	sm.logger.Info("secret bundle loaded", slog.Int("keys", len(bundle)))
	return bundle, nil
}

// ApplySecrets overlays credentials from provider. Keys the provider lacks
// keep their configured value.
func ApplySecrets(ctx context.Context, cfg *Config, provider SecretsProvider) error {
	targets := map[string]*string{
		SecretDatabasePassword: &cfg.Database.Password,
		SecretJWT:              &cfg.Auth.JWTSecret,
		SecretSMTPPassword:     &cfg.Notification.SMTPPassword,
	}
	keys := make([]string, 0, len(targets))
	for k := range targets {
		keys = append(keys, k)
	}

	secrets, err := provider.GetSecrets(ctx, keys)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	for k, dst := range targets {
		if v := secrets[k]; v != "" {
			*dst = v
		}
	}
	return nil
}
