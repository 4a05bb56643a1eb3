package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/choria-io/fisk"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tnc-ca-geo/swarmfw/internal/payload"
)

type DecodeConfig struct {
	Payload string
	Table   bool
}

// AddDecodeCommand registers the payload decoder.
func AddDecodeCommand(app *fisk.Application, deps Deps) {
	d := &DecodeConfig{}

	cmd := app.Command("decode", "Decode Hive message JSON into firmware fields and sensor readings").
		Action(func(_ *fisk.ParseContext) error {
			return decodeRun(deps, d)
		})
	cmd.Arg("payload", "A message object or an array of them; read from stdin when omitted").StringVar(&d.Payload)
	cmd.Flag("table", "Display readings in a table").BoolVar(&d.Table)
}

func decodeRun(deps Deps, d *DecodeConfig) error {
	raw := []byte(d.Payload)
	if d.Payload == "" {
		var err error
		raw, err = io.ReadAll(deps.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	raw = bytes.TrimSpace(raw)
	messages, err := splitMessages(raw)
	if err != nil {
		return err
	}

	decoded := make([]*payload.Decoded, 0, len(messages))
	for i, m := range messages {
		dec, err := payload.Decode(m)
		if err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
		decoded = append(decoded, dec)
	}

	if d.Table {
		renderDecodedTable(deps.Stdout, decoded)
		return nil
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	if len(decoded) == 1 && raw[0] != '[' {
		return enc.Encode(decoded[0])
	}
	return enc.Encode(decoded)
}

// splitMessages accepts a single message object or an array of them.
func splitMessages(raw []byte) ([]json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no payload given")
	}
	if raw[0] != '[' {
		return []json.RawMessage{raw}, nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", payload.ErrInvalidJSON, err)
	}
	return list, nil
}

func newTableWriter(title string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Title.Align = text.AlignCenter
	tw.Style().Format.Header = text.FormatDefault
	if title != "" {
		tw.SetTitle(title)
	}
	return tw
}

// renderDecodedTable prints one row per reading; messages without readings
// still get a row with their metadata.
func renderDecodedTable(w io.Writer, decoded []*payload.Decoded) {
	tw := newTableWriter(fmt.Sprintf("%d decoded message(s)", len(decoded)))
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Device", "Rx Time", "Payload Time", "Battery", "Type", "Channel", "Reading", "Value"})

	for _, d := range decoded {
		rx := ""
		if d.Swarm.RxTime != nil {
			rx = d.Swarm.RxTime.Format(time.RFC3339)
		}
		if d.User == nil {
			tw.AppendRow(table.Row{d.Swarm.Device, rx, "", "", "", "", "", ""})
			continue
		}

		u := d.User
		base := table.Row{d.Swarm.Device, rx, u.PayloadTime.Format(time.RFC3339), u.BatteryVoltage.String(), u.MessageType}
		if len(u.Sensors) == 0 {
			tw.AppendRow(append(base, "", "", ""))
			continue
		}
		for _, channel := range slices.Sorted(maps.Keys(u.Sensors)) {
			for _, r := range u.Sensors[channel] {
				tw.AppendRow(append(slices.Clone(base), channel, r.Name, r.Value.String()))
			}
		}
	}

	tw.Render()
}
