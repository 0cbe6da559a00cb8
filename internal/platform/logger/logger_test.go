package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Error, ParseLevel(" error "))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Info, ParseLevel("verbose"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("Json"))
	assert.Equal(t, FormatText, ParseFormat("logfmt"))
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: Info, Format: FormatJSON, App: "laikavet", Output: &buf})

	log.With(map[string]any{"module": "cart"}).Info("item added", map[string]any{
		"product_id": "1",
		"err":        errors.New("boom"),
		"":           "ignored",
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "item added", line["msg"])
	assert.Equal(t, "laikavet", line["app"])
	assert.Equal(t, "cart", line["module"])
	assert.Equal(t, "1", line["product_id"])
	assert.Equal(t, "boom", line["err"])
	assert.NotContains(t, line, "")
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: Warn, Format: FormatText, Output: &buf})

	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	assert.Empty(t, buf.String())

	log.Warn("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}
