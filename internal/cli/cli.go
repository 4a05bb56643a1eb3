package cli

import (
	"context"
	"io"
	"net/http"

	"github.com/choria-io/fisk"
	"go.uber.org/zap"

	"github.com/tnc-ca-geo/swarmfw/pkg/config"
	pkgsecrets "github.com/tnc-ca-geo/swarmfw/pkg/secrets"
)

// Deps are the process-level collaborators shared by all commands.
type Deps struct {
	Config     *config.Config
	Logger     *zap.Logger
	Stdout     io.Writer
	Stdin      io.Reader
	HTTPClient *http.Client
	// Secrets builds the provider used when Config.SecretID is set.
	Secrets func(ctx context.Context, region string) (pkgsecrets.Provider, error)
}

// New builds the hive command line application.
func New(ctx context.Context, version string, deps Deps) *fisk.Application {
	help := `SWARM Hive tool

Downloads messages from the SWARM Hive API and prints their decoded data.
Credentials come from SWARM_USER_NAME and SWARM_PW (or an .env file).`

	app := fisk.New("hive", help)
	app.Author("The Nature Conservancy")
	app.UsageWriter(deps.Stdout)
	app.Version(version)
	app.HelpFlag.Short('h')

	AddMessagesCommand(ctx, app, deps)
	AddDecodeCommand(app, deps)

	return app
}
