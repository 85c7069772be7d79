package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesJSONWithLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Service: "storefront", Env: "test", Level: "warn", Output: &buf})

	Info("hidden %d", 1)
	Warn("cart cache miss for %s", "cart")
	Error("Store.Refresh: request failed", errors.New("boom"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var warn map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &warn))
	assert.Equal(t, "WARN", warn["level"])
	assert.Equal(t, "cart cache miss for cart", warn["msg"])
	assert.Equal(t, "storefront", warn["service"])

	var errLine map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[1], &errLine))
	assert.Equal(t, "ERROR", errLine["level"])
	assert.Equal(t, "boom", errLine["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel(" Debug ").String())
	assert.Equal(t, "INFO", parseLevel("").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
}
