package hive

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	endpointLogin    = "login"
	endpointMessages = "messages"

	loginPath    = "/login"
	messagesPath = "/api/v1/messages"

	// DataField is the record key holding the base64 payload.
	DataField = "data"
)

// Credentials are the username/password exchanged for a bearer token.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /login.
type LoginResponse struct {
	Token string `json:"token"`
}

// Record is one message object from GET /api/v1/messages. Values stay raw;
// only the data field is ever interpreted.
type Record map[string]json.RawMessage

// Data returns the raw base64 string of the data field. ok is false when the
// record has no data field.
func (r Record) Data() (value string, ok bool, err error) {
	raw, ok := r[DataField]
	if !ok {
		return "", false, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", true, errors.New("data field is null")
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", true, fmt.Errorf("data field is not a string: %w", err)
	}
	return value, true, nil
}

// Decoded returns the data field decoded to text.
func (r Record) Decoded() (text string, ok bool, err error) {
	value, ok, err := r.Data()
	if !ok || err != nil {
		return "", ok, err
	}
	text, err = DecodeData(value)
	return text, true, err
}

// DecodeData decodes a padded standard base64 string and requires the result
// to be valid UTF-8.
func DecodeData(value string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("invalid base64: %w", err)
	}
	if !utf8.Valid(b) {
		return "", errors.New("decoded data is not valid UTF-8")
	}
	return string(b), nil
}
