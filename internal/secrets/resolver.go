package secrets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tnc-ca-geo/swarmfw/internal/hive"
	pkgsecrets "github.com/tnc-ca-geo/swarmfw/pkg/secrets"
)

// Resolver overlays Hive credentials stored in a secrets manager on top of
// the ones read from the environment.
//
// Secret JSON format: {"username": "...", "password": "..."}
type Resolver struct {
	logger   *zap.Logger
	provider pkgsecrets.Provider
	secretID string
}

// NewResolver constructs a credentials resolver for one secret.
func NewResolver(logger *zap.Logger, provider pkgsecrets.Provider, secretID string) *Resolver {
	return &Resolver{
		logger:   logger,
		provider: provider,
		secretID: secretID,
	}
}

// Resolve fetches the secret and returns base with any username/password
// found in it applied.
func (r *Resolver) Resolve(ctx context.Context, base hive.Credentials) (hive.Credentials, error) {
	m, err := r.provider.GetSecret(ctx, r.secretID)
	if err != nil {
		r.logger.Warn("aws.secret_fetch_failed",
			zap.String("key", r.secretID),
			zap.Error(err))
		return hive.Credentials{}, fmt.Errorf("resolve hive credentials: %w", err)
	}

	creds := mergeCredentials(base, m)
	r.logger.Info("aws.credentials_resolved",
		zap.String("key", r.secretID),
		zap.String("user", creds.Username))
	return creds, nil
}

// mergeCredentials applies the non-empty username/password of m to base.
func mergeCredentials(base hive.Credentials, m map[string]string) hive.Credentials {
	if u := m["username"]; u != "" {
		base.Username = u
	}
	if p := m["password"]; p != "" {
		base.Password = p
	}
	return base
}
