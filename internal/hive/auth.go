package hive

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/tnc-ca-geo/swarmfw/internal/httpclient"
	"github.com/tnc-ca-geo/swarmfw/pkg/utils"
)

// Authenticator exchanges credentials for a Hive bearer token.
type Authenticator struct {
	logger  *zap.Logger
	baseURL string
	exec    *httpclient.Executor
}

// NewAuthenticator creates an Authenticator for the given API root.
func NewAuthenticator(logger *zap.Logger, baseURL string, exec *httpclient.Executor) *Authenticator {
	return &Authenticator{
		logger:  logger,
		baseURL: baseURL,
		exec:    exec,
	}
}

// BuildLoginRequest builds the form-encoded POST /login request.
// An empty password is sent as is.
func (a *Authenticator) BuildLoginRequest(ctx context.Context, creds Credentials) (*http.Request, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

// Login posts the credentials and returns the token field of the response.
//
// The login status code is not checked: a missing token yields "" with no
// error, and the rejection surfaces on the next authorized request. Transport
// failures and non-JSON bodies are errors.
func (a *Authenticator) Login(ctx context.Context, creds Credentials) (string, error) {
	req, err := a.BuildLoginRequest(ctx, creds)
	if err != nil {
		return "", fmt.Errorf("hive login: %w", err)
	}

	resp, err := a.exec.Do(req, endpointLogin)
	if err != nil {
		return "", err
	}

	var lr LoginResponse
	if err := a.exec.DecodeJSON(resp, endpointLogin, &lr); err != nil {
		return "", err
	}

	if lr.Token == "" {
		a.logger.Warn("hive.login_no_token",
			zap.String("user", creds.Username),
			zap.Int("status", resp.StatusCode))
		return "", nil
	}

	a.logger.Info("hive.login_success",
		zap.String("user", creds.Username),
		zap.String("token", utils.MaskSecret(lr.Token)))
	return lr.Token, nil
}
