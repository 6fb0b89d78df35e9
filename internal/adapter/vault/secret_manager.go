package vault

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/pkg/config"
)

// SecretReader is the slice of the Vault client the manager uses.
type SecretReader interface {
	ReadWithContext(ctx context.Context, path string) (*api.Secret, error)
}

type SecretManager struct {
	reader SecretReader
	path   string
	log    *zap.Logger
}

func NewSecretManager(cfg config.VaultConfig, log *zap.Logger) (*SecretManager, error) {
	vc := api.DefaultConfig()
	vc.Address = cfg.Address

	client, err := api.NewClient(vc)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	client.SetToken(cfg.Token)

	return &SecretManager{reader: client.Logical(), path: cfg.Path, log: log}, nil
}

// NewSecretManagerWithReader is used by tests to stub Vault.
func NewSecretManagerWithReader(reader SecretReader, path string, log *zap.Logger) *SecretManager {
	return &SecretManager{reader: reader, path: path, log: log}
}

// Apply overlays the secrets stored at the KV v2 path onto cfg. Keys that
// are absent leave the existing value untouched.
func (sm *SecretManager) Apply(ctx context.Context, cfg *config.Config) error {
	secret, err := sm.reader.ReadWithContext(ctx, sm.path)
	if err != nil {
		return fmt.Errorf("vault read %s: %w", sm.path, err)
	}
	if secret == nil || secret.Data == nil {
		return fmt.Errorf("vault read %s: no data", sm.path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("vault read %s: not a kv v2 secret", sm.path)
	}

	applied := 0
	set := func(key string, dst *string) {
		if v, ok := data[key].(string); ok && v != "" {
			*dst = v
			applied++
		}
	}
	set("jwt_secret", &cfg.JWT.Secret)
	set("database_url", &cfg.Database.URL)
	set("mongodb_uri", &cfg.Mongo.URI)
	set("email_password", &cfg.Email.Password)
	set("sendgrid_api_key", &cfg.Email.APIKey)
	set("minio_secret_key", &cfg.MinIO.SecretKey)

	sm.log.Info("Secrets loaded from Vault", zap.String("path", sm.path), zap.Int("keys", applied))
	return nil
}
