package hive

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
	"moul.io/http2curl"

	"github.com/tnc-ca-geo/swarmfw/internal/httpclient"
)

// Recorder receives the metrics of a run.
type Recorder interface {
	httpclient.Observer
	AddRecords(n int)
	IncDecoded()
	IncDecodeFailure()
}

// Service runs the download: login, fetch, decode and print.
type Service struct {
	logger  *zap.Logger
	auth    *Authenticator
	client  *Client
	metrics Recorder
	out     io.Writer
}

// NewService wires an Authenticator and Client around one executor.
// Everything the run prints goes to out.
func NewService(logger *zap.Logger, baseURL string, httpClient *http.Client, rec Recorder, out io.Writer) *Service {
	exec := NewExecutor(logger, httpClient, rec)
	return &Service{
		logger:  logger,
		auth:    NewAuthenticator(logger, baseURL, exec),
		client:  NewClient(logger, baseURL, exec),
		metrics: rec,
		out:     out,
	}
}

// Run logs in, fetches the messages and prints one line per record.
func (s *Service) Run(ctx context.Context, creds Credentials) error {
	token, err := s.auth.Login(ctx, creds)
	if err != nil {
		return err
	}

	records, err := s.client.FetchMessages(ctx, token, s.out)
	if err != nil {
		return err
	}
	s.metrics.AddRecords(len(records))

	return s.writeRecords(records)
}

// writeRecords prints the decoded data of each record on its own line; a
// record without data prints an empty line. The first record that fails to
// decode stops the loop.
func (s *Service) writeRecords(records []Record) error {
	for i, rec := range records {
		text, ok, err := rec.Decoded()
		if err != nil {
			s.metrics.IncDecodeFailure()
			s.logger.Error("hive.decode_failed", zap.Int("index", i), zap.Error(err))
			return &DecodeError{Index: i, Err: err}
		}
		if ok {
			s.metrics.IncDecoded()
		}
		if _, err := fmt.Fprintln(s.out, text); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	s.logger.Info("hive.messages_written", zap.Int("count", len(records)))
	return nil
}

// CurlMessages logs in and returns the messages request as a curl command
// instead of sending it.
func (s *Service) CurlMessages(ctx context.Context, creds Credentials) (string, error) {
	token, err := s.auth.Login(ctx, creds)
	if err != nil {
		return "", err
	}

	req, err := s.client.BuildMessagesRequest(ctx, token)
	if err != nil {
		return "", err
	}

	curl, err := http2curl.GetCurlCommand(req)
	if err != nil {
		return "", fmt.Errorf("error generating curl command: %w", err)
	}
	return curl.String(), nil
}
