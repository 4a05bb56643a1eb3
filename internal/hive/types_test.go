package hive

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, s string) Record {
	t.Helper()
	var r Record
	require.NoError(t, json.Unmarshal([]byte(s), &r))
	return r
}

func TestDecodeData_RoundTrip(t *testing.T) {
	want := "000529,1663023607,3.85,SC,50,+13.3045+16.2719"
	got, err := DecodeData(base64.StdEncoding.EncodeToString([]byte(want)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeData_UTF8(t *testing.T) {
	got, err := DecodeData(base64.StdEncoding.EncodeToString([]byte("Grüße, 温度")))
	require.NoError(t, err)
	assert.Equal(t, "Grüße, 温度", got)
}

func TestDecodeData_InvalidBase64(t *testing.T) {
	_, err := DecodeData("not base64!!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base64")
}

func TestDecodeData_InvalidUTF8(t *testing.T) {
	_, err := DecodeData(base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestRecord_DecodedLooksUpDataByName(t *testing.T) {
	r := record(t, `{"packetId":1,"decoded":"ignored","data":"aGVsbG8=","deviceId":7}`)

	text, ok, err := r.Decoded()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", text)
}

func TestRecord_WithoutData(t *testing.T) {
	r := record(t, `{"packetId":1}`)

	text, ok, err := r.Decoded()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestRecord_DataNotAString(t *testing.T) {
	_, ok, err := record(t, `{"data":42}`).Decoded()
	require.Error(t, err)
	assert.True(t, ok)

	_, _, err = record(t, `{"data":null}`).Decoded()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null")
}
