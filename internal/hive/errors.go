package hive

import "fmt"

// APIError is returned when the Hive API answers with a 4xx or 5xx status.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("hive %s returned %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("hive %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// DecodeError reports the record whose data field could not be decoded.
// Processing stops at that record.
type DecodeError struct {
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
