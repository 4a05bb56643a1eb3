package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tnc-ca-geo/swarmfw/internal/hive"
	"github.com/tnc-ca-geo/swarmfw/pkg/config"
	pkgsecrets "github.com/tnc-ca-geo/swarmfw/pkg/secrets"
)

const wellTestPayload = `{"data":"MDAwNTI5LDE2NjMwMjM2MDcsMy44NSxTQyw1MCwrMTMuMzA0NSsxNi4yNzE5",` +
	`"deviceId":7328,"hiveRxTime":"2022-09-13T00:16:09","organizationId":2151,"userApplicationId":0}`

type staticProvider map[string]string

func (p staticProvider) GetSecret(context.Context, string) (map[string]string, error) {
	return p, nil
}

// newMockHive serves /hive/login and /hive/api/v1/messages; the login form
// username/password are recorded into got.
func newMockHive(t *testing.T, messages string, got *hive.Credentials) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hive/login":
			_ = r.ParseForm()
			if got != nil {
				got.Username = r.PostForm.Get("username")
				got.Password = r.PostForm.Get("password")
			}
			_, _ = w.Write([]byte(`{"token":"abc123"}`))
		case "/hive/api/v1/messages":
			if r.Header.Get("Authorization") != "Bearer abc123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(messages))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testDeps(baseURL string, stdout *bytes.Buffer) Deps {
	return Deps{
		Config: &config.Config{
			BaseURL:     baseURL,
			Username:    "TheNatureConservancy",
			Password:    "env-pw",
			HTTPTimeout: 5 * time.Second,
		},
		Logger:     zap.NewNop(),
		Stdout:     stdout,
		Stdin:      strings.NewReader(""),
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		Secrets: func(context.Context, string) (pkgsecrets.Provider, error) {
			return nil, errors.New("secrets not configured in test")
		},
	}
}

func parse(t *testing.T, deps Deps, args ...string) error {
	t.Helper()
	_, err := New(context.Background(), "test", deps).Parse(args)
	return err
}

// ─── messages ────────────────────────────────────────────────────────────────

func TestMessages_PrintsDecodedData(t *testing.T) {
	body := fmt.Sprintf(`[{"data":%q},{"packetId":2}]`, base64.StdEncoding.EncodeToString([]byte("hello")))
	var creds hive.Credentials
	srv := newMockHive(t, body, &creds)

	var out bytes.Buffer
	require.NoError(t, parse(t, testDeps(srv.URL+"/hive", &out), "messages"))

	assert.Equal(t, body+"\nhello\n\n", out.String())
	assert.Equal(t, hive.Credentials{Username: "TheNatureConservancy", Password: "env-pw"}, creds)
}

func TestMessages_IsTheDefaultCommand(t *testing.T) {
	srv := newMockHive(t, `[]`, nil)

	var out bytes.Buffer
	require.NoError(t, parse(t, testDeps(srv.URL+"/hive", &out)))
	assert.Equal(t, "[]\n", out.String())
}

func TestMessages_AsCurl(t *testing.T) {
	srv := newMockHive(t, `[]`, nil)

	var out bytes.Buffer
	require.NoError(t, parse(t, testDeps(srv.URL+"/hive", &out), "messages", "--as-curl"))
	assert.Contains(t, out.String(), "Authorization: Bearer abc123")
	assert.Contains(t, out.String(), srv.URL+"/hive/api/v1/messages")
}

func TestMessages_DecodeFailureReturnsError(t *testing.T) {
	srv := newMockHive(t, `[{"data":"***"}]`, nil)

	var out bytes.Buffer
	err := parse(t, testDeps(srv.URL+"/hive", &out), "messages")
	require.Error(t, err)

	var decErr *hive.DecodeError
	assert.True(t, errors.As(err, &decErr))
}

func TestMessages_CredentialsFromSecret(t *testing.T) {
	var creds hive.Credentials
	srv := newMockHive(t, `[]`, &creds)

	var out bytes.Buffer
	deps := testDeps(srv.URL+"/hive", &out)
	deps.Config.SecretID = "prod/swarm/hive"
	deps.Secrets = func(_ context.Context, region string) (pkgsecrets.Provider, error) {
		return staticProvider{"password": "sm-pw"}, nil
	}

	require.NoError(t, parse(t, deps, "messages"))
	assert.Equal(t, "TheNatureConservancy", creds.Username)
	assert.Equal(t, "sm-pw", creds.Password)
}

func TestMessages_SecretsProviderError(t *testing.T) {
	srv := newMockHive(t, `[]`, nil)

	var out bytes.Buffer
	deps := testDeps(srv.URL+"/hive", &out)
	deps.Config.SecretID = "prod/swarm/hive"

	err := parse(t, deps, "messages")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secrets provider")
	assert.Empty(t, out.String(), "nothing is fetched without credentials")
}

func TestMessages_WritesMetricsFile(t *testing.T) {
	srv := newMockHive(t, `[{"packetId":1}]`, nil)

	var out bytes.Buffer
	deps := testDeps(srv.URL+"/hive", &out)
	deps.Config.MetricsFile = filepath.Join(t.TempDir(), "hive.prom")

	require.NoError(t, parse(t, deps, "messages"))

	b, err := os.ReadFile(deps.Config.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hive_records_total 1")
	assert.Contains(t, string(b), `hive_requests_total{endpoint="login",status="200"} 1`)
}

// ─── decode ──────────────────────────────────────────────────────────────────

func TestDecode_ArgumentToJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, parse(t, testDeps("", &out), "decode", wellTestPayload))

	assert.JSONEq(t, `{
		"swarm": {"application": 0, "device": 7328, "organization": 2151, "rxTime": "2022-09-13T00:16:09Z"},
		"user": {
			"messagesSinceRestart": 529,
			"payloadTime": "2022-09-12T23:00:07Z",
			"batteryVoltage": 3.85,
			"messageType": "SC",
			"sensors": {"50": {"pressure": 13.3045, "waterTmp": 16.2719}}
		}
	}`, out.String())
}

func TestDecode_ArrayFromStdin(t *testing.T) {
	var out bytes.Buffer
	deps := testDeps("", &out)
	deps.Stdin = strings.NewReader("\n[" + wellTestPayload + `,{"userApplicationId":7,"deviceId":1}]` + "\n")

	require.NoError(t, parse(t, deps, "decode"))
	assert.True(t, strings.HasPrefix(out.String(), "["), "arrays decode to arrays")
	assert.Contains(t, out.String(), `"pressure": 13.3045`)
	assert.Contains(t, out.String(), `"application": 7`)
}

func TestDecode_Table(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, parse(t, testDeps("", &out), "decode", "--table", wellTestPayload))

	s := out.String()
	assert.Contains(t, s, "1 decoded message(s)")
	assert.Contains(t, s, "pressure")
	assert.Contains(t, s, "13.3045")
	assert.Contains(t, s, "waterTmp")
	assert.Contains(t, s, "2022-09-12T23:00:07Z")
}

func TestDecode_InvalidJSON(t *testing.T) {
	var out bytes.Buffer
	err := parse(t, testDeps("", &out), "decode", "quatsch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON parser error")
}

func TestDecode_EmptyStdin(t *testing.T) {
	var out bytes.Buffer
	err := parse(t, testDeps("", &out), "decode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no payload")
}
