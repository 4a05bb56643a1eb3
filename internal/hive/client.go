package hive

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/tnc-ca-geo/swarmfw/internal/httpclient"
)

// NewExecutor builds the executor shared by Authenticator and Client.
// Failure statuses become *APIError.
func NewExecutor(logger *zap.Logger, httpClient *http.Client, observer httpclient.Observer) *httpclient.Executor {
	return httpclient.New(logger, httpClient, "hive", observer, func(endpoint string, status int, body []byte) error {
		logger.Warn("hive.non_2xx",
			zap.String("endpoint", endpoint),
			zap.Int("status", status),
			zap.String("body", string(body)))
		return &APIError{Endpoint: endpoint, StatusCode: status, Body: string(body)}
	})
}

// Client fetches messages from the Hive API with a bearer token.
type Client struct {
	logger  *zap.Logger
	baseURL string
	exec    *httpclient.Executor
}

// NewClient constructs a Hive messages client.
func NewClient(logger *zap.Logger, baseURL string, exec *httpclient.Executor) *Client {
	return &Client{
		logger:  logger,
		baseURL: baseURL,
		exec:    exec,
	}
}

// BuildMessagesRequest builds the authorized GET /api/v1/messages request.
func (c *Client) BuildMessagesRequest(ctx context.Context, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+messagesPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// FetchMessages performs the GET, copies the raw body plus a newline to raw
// before any parsing, then returns the parsed records.
func (c *Client) FetchMessages(ctx context.Context, token string, raw io.Writer) ([]Record, error) {
	req, err := c.BuildMessagesRequest(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("hive messages: %w", err)
	}

	resp, err := c.exec.Do(req, endpointMessages)
	if err != nil {
		return nil, err
	}

	if _, err := fmt.Fprintln(raw, string(resp.Body)); err != nil {
		return nil, fmt.Errorf("write raw body: %w", err)
	}

	if err := c.exec.Check(resp, endpointMessages); err != nil {
		return nil, err
	}

	var records []Record
	if err := c.exec.DecodeJSON(resp, endpointMessages, &records); err != nil {
		return nil, err
	}

	c.logger.Debug("hive.messages_fetched", zap.Int("count", len(records)))
	return records, nil
}
