// Package payload decodes SWARM Hive messages produced by the TNC field
// firmware.
//
// The base64 data field carries a CSV line:
//
//	index,epoch,batteryVoltage,type[,channel,sdi12values]...
//
// Only messages of user application 0 follow this layout, and only type SC
// carries sensor channels.
package payload

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MessageTypeSensors marks a payload with channel/SDI-12 pairs.
const MessageTypeSensors = "SC"

// ErrInvalidJSON is returned when a message is not valid JSON.
var ErrInvalidJSON = errors.New("JSON parser error")

var rxTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
}

// Swarm is the metadata the Hive attaches to every message.
type Swarm struct {
	Application  *int64     `json:"application"`
	Device       int64      `json:"device"`
	Organization int64      `json:"organization"`
	RxTime       *time.Time `json:"rxTime,omitempty"`
}

// User is the decoded firmware payload.
type User struct {
	MessagesSinceRestart int               `json:"messagesSinceRestart"`
	PayloadTime          time.Time         `json:"payloadTime"`
	BatteryVoltage       Number            `json:"batteryVoltage"`
	MessageType          string            `json:"messageType"`
	Sensors              map[string]Sensor `json:"sensors,omitempty"`
}

// Decoded is a fully decoded message. User is nil for applications other than 0.
type Decoded struct {
	Swarm Swarm `json:"swarm"`
	User  *User `json:"user,omitempty"`
}

type message struct {
	UserApplicationID *int64 `json:"userApplicationId"`
	DeviceID          int64  `json:"deviceId"`
	OrganizationID    int64  `json:"organizationId"`
	HiveRxTime        string `json:"hiveRxTime"`
	Data              string `json:"data"`
}

// Decode parses one Hive message (a messages API record or webhook body).
func Decode(raw []byte) (*Decoded, error) {
	var msg message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	rxTime, err := ParseRxTime(msg.HiveRxTime)
	if err != nil {
		return nil, err
	}

	d := &Decoded{Swarm: Swarm{
		Application:  msg.UserApplicationID,
		Device:       msg.DeviceID,
		Organization: msg.OrganizationID,
		RxTime:       rxTime,
	}}

	// other applications may use entirely different payload formats
	if msg.UserApplicationID == nil || *msg.UserApplicationID != 0 {
		return d, nil
	}

	if msg.Data == "" {
		return nil, errors.New("message has no data")
	}
	b, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}

	fields := strings.Split(string(b), ",")
	user, err := parseUser(fields)
	if err != nil {
		return nil, err
	}
	d.User = user

	if user.MessageType != MessageTypeSensors {
		return d, nil
	}

	if user.Sensors, err = ParseSensors(fields); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseRxTime reads the hiveRxTime of a message. The Hive sends it without a
// zone; it is UTC. An empty string yields nil.
func ParseRxTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range rxTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid hiveRxTime %q", s)
}

func parseUser(fields []string) (*User, error) {
	if len(fields) < 4 {
		return nil, fmt.Errorf("payload has %d fields, want at least 4", len(fields))
	}

	index, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("invalid message index %q: %w", fields[0], err)
	}
	epoch, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid payload time %q: %w", fields[1], err)
	}
	battery, err := parseNumber(fields[2])
	if err != nil {
		return nil, fmt.Errorf("battery voltage: %w", err)
	}

	return &User{
		MessagesSinceRestart: index,
		PayloadTime:          time.Unix(epoch, 0).UTC(),
		BatteryVoltage:       battery,
		MessageType:          fields[3],
	}, nil
}
