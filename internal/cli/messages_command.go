package cli

import (
	"context"
	"fmt"

	"github.com/choria-io/fisk"
	"go.uber.org/zap"

	"github.com/tnc-ca-geo/swarmfw/internal/hive"
	"github.com/tnc-ca-geo/swarmfw/internal/metrics"
	"github.com/tnc-ca-geo/swarmfw/internal/secrets"
)

type MessagesConfig struct {
	AsCurl bool
}

// AddMessagesCommand registers the default download command.
func AddMessagesCommand(ctx context.Context, app *fisk.Application, deps Deps) {
	m := &MessagesConfig{}

	cmd := app.Command("messages", "Log in, fetch messages and print their decoded data").
		Alias("msg").
		Default().
		Action(func(_ *fisk.ParseContext) error {
			return messagesRun(ctx, deps, m)
		})
	cmd.Flag("as-curl", "Log in, then print the messages request as a curl command instead of sending it").BoolVar(&m.AsCurl)
}

func messagesRun(ctx context.Context, deps Deps, m *MessagesConfig) error {
	cfg := deps.Config

	creds, err := resolveCredentials(ctx, deps)
	if err != nil {
		return err
	}

	rec := metrics.New()
	if cfg.MetricsFile != "" {
		defer func() {
			if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
				deps.Logger.Warn("metrics.write_failed",
					zap.String("path", cfg.MetricsFile),
					zap.Error(err))
			}
		}()
	}

	svc := hive.NewService(deps.Logger, cfg.BaseURL, deps.HTTPClient, rec, deps.Stdout)

	if m.AsCurl {
		curl, err := svc.CurlMessages(ctx, creds)
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, curl)
		return nil
	}

	return svc.Run(ctx, creds)
}

// resolveCredentials starts from the environment and, when a secret ID is
// configured, overlays the credentials stored in AWS Secrets Manager.
func resolveCredentials(ctx context.Context, deps Deps) (hive.Credentials, error) {
	cfg := deps.Config
	creds := hive.Credentials{Username: cfg.Username, Password: cfg.Password}
	if cfg.SecretID == "" {
		return creds, nil
	}

	provider, err := deps.Secrets(ctx, cfg.AWSRegion)
	if err != nil {
		return hive.Credentials{}, fmt.Errorf("secrets provider: %w", err)
	}
	return secrets.NewResolver(deps.Logger, provider, cfg.SecretID).Resolve(ctx, creds)
}
