package helpers

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/config"
)

func TestPromptForStringDefaults(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("\n  typed  \n"))

	assert.Equal(t, "fallback", PromptForString(&out, reader, "Name", "fallback"))
	assert.Equal(t, "typed", PromptForString(&out, reader, "Name", "fallback"))
	assert.Equal(t, "Name (default: fallback): Name (default: fallback): ", out.String())
}

func TestPromptForYesNo(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("yes\n\nn\n"))

	assert.True(t, PromptForYesNo(&out, reader, "Continue?", false))
	assert.True(t, PromptForYesNo(&out, reader, "Continue?", true))
	assert.False(t, PromptForConfirmation(&out, reader, "Continue?"))
}

func TestCalculateTopCounts(t *testing.T) {
	stats := CalculateTopCounts(map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}, 3)
	require.Len(t, stats, 3)
	assert.Equal(t, []CountStatistic{{"c", 5}, {"a", 2}, {"b", 2}}, stats)
	assert.Len(t, CalculateTopCounts(map[string]int{"a": 1, "b": 1}, 0), 2)
}

func TestCalculateSuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, CalculateSuccessRate(0, 0))
	assert.InDelta(t, 75.0, CalculateSuccessRate(3, 4), 0.001)
}

func TestNestedMapHelpers(t *testing.T) {
	root := map[string]interface{}{"fetch": "scalar"}
	require.True(t, SetNestedMapValue(root, []string{"fetch", "concurrency"}, 8))
	require.True(t, SetNestedMapValue(root, []string{"cache", "backend"}, "bolt"))
	assert.False(t, SetNestedMapValue(root, nil, 1))

	value, ok := TraverseNestedMap(root, []string{"fetch", "concurrency"})
	require.True(t, ok)
	assert.Equal(t, 8, value)

	_, ok = TraverseNestedMap(root, []string{"fetch", "missing"})
	assert.False(t, ok)
}

func TestParseYAMLValue(t *testing.T) {
	v, err := ParseYAMLValue("42")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = ParseYAMLValue("true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = ParseYAMLValue("[unclosed")
	require.NoError(t, err)
	assert.Equal(t, "[unclosed", v)
}

func TestConfigMapRoundTrip(t *testing.T) {
	cfg := config.Defaults()
	raw, err := ConfigToMap(cfg)
	require.NoError(t, err)

	require.True(t, SetNestedMapValue(raw, []string{"fetch", "concurrency"}, 9))
	updated, err := MapToConfig(raw)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Fetch.Concurrency)
	assert.Equal(t, cfg.Preferences.DefaultModel, updated.Preferences.DefaultModel)
}
