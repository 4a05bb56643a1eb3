package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a decimal reading that marshals as a bare JSON number and keeps
// the precision it was transmitted with.
type Number struct {
	decimal.Decimal
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

func parseNumber(s string) (Number, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return Number{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Number{d}, nil
}

// Reading is one named sensor value.
type Reading struct {
	Name  string
	Value Number
}

// Sensor holds the readings of one channel in transmission order.
type Sensor []Reading

// Get returns the reading with the given name.
func (s Sensor) Get(name string) (Number, bool) {
	for _, r := range s {
		if r.Name == name {
			return r.Value, true
		}
	}
	return Number{}, false
}

// MarshalJSON writes the readings as an object, keeping their order.
func (s Sensor) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(r.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.WriteString(r.Value.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SDI12Parse splits an SDI-12 value string before every sign character and
// parses each signed value, e.g. "+12-12+12.1-3" -> [12 -12 12.1 -3].
func SDI12Parse(line string) ([]Number, error) {
	var values []Number
	start := 0
	for i := 1; i <= len(line); i++ {
		if i < len(line) && line[i] != '+' && line[i] != '-' {
			continue
		}
		v, err := parseNumber(line[start:i])
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		start = i
	}
	return values, nil
}

// GenericSensor parses an SDI-12 line and names value i after lookup[i], or
// field_<i> when lookup is too short.
func GenericSensor(line string, lookup []string) (Sensor, error) {
	values, err := SDI12Parse(line)
	if err != nil {
		return nil, err
	}
	sensor := make(Sensor, 0, len(values))
	for i, v := range values {
		name := fmt.Sprintf("field_%d", i)
		if i < len(lookup) && lookup[i] != "" {
			name = lookup[i]
		}
		sensor = append(sensor, Reading{Name: name, Value: v})
	}
	return sensor, nil
}

// ParseSensors reads the channel/value pairs of an SC message, starting at
// field 4, and names the values through TNCLookup.
func ParseSensors(fields []string) (map[string]Sensor, error) {
	sensors := make(map[string]Sensor)
	for i := 4; i < len(fields); i += 2 {
		channel := fields[i]
		if i+1 >= len(fields) {
			return nil, fmt.Errorf("channel %s has no readings", channel)
		}
		sensor, err := GenericSensor(fields[i+1], TNCLookup[channel])
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", channel, err)
		}
		sensors[channel] = sensor
	}
	return sensors, nil
}
