package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscremap/pkg/logger"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *logger.Logger {
	return logger.New("config", logger.LevelDebug)
}

const consoleConfig = `
remotes:
  - name: "Console"
    ip: "10.0.0.5"
    port: 9000
    mappings:
      /lx/tempo/beat: ["/remote/beat"]
      /lx/tempo/*: ["/remote/tempo/*"]
  - name: "Mirror"
    mappings:
      /lx/mixer/*: ["/lx/mixer/*"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remapper_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, consoleConfig)

	model, err := LoadFromFile(path, setupTestLogger())
	assert.NoError(t, err)
	require.NotNil(t, model)
	require.Equal(t, 2, model.Len())
	assert.False(t, model.IsFallback())

	console := model.Tables()[0]
	assert.Equal(t, "Console", console.Name())
	assert.Equal(t, "10.0.0.5", console.Host())
	assert.Equal(t, 9000, console.Port())
	assert.Equal(t, []string{"/remote/beat"}, console.Remap("/lx/tempo/beat"))
	assert.Equal(t, []string{"/remote/tempo/bar"}, console.Remap("/lx/tempo/bar"))
	assert.Equal(t, "/remote/", console.FilterPrefix())
	assert.False(t, console.IsPassthrough())

	mirror, ok := model.Find("Mirror")
	require.True(t, ok)
	assert.Equal(t, DefaultHost, mirror.Host())
	assert.Equal(t, DefaultPort, mirror.Port())
	assert.True(t, mirror.IsPassthrough())

	_, ok = model.Find("Nobody")
	assert.False(t, ok)
}

func TestLoadFromFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
		errText string
	}{
		{name: "missing file", missing: true, errText: "config file not found"},
		{name: "invalid yaml", content: "remotes: [unclosed", errText: "failed to parse YAML"},
		{name: "empty file", content: "", errText: ErrEmptyDocument.Error()},
		{name: "root is a sequence", content: "- a\n- b\n", errText: "config root must be a mapping"},
		{name: "remotes missing", content: "outputs: []\n", errText: "remotes"},
		{name: "remotes not a sequence", content: "remotes: nope\n", errText: "remotes"},
		{name: "remotes empty", content: "remotes: []\n", errText: ErrNoRemotes.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.yaml")
			if !tt.missing {
				path = writeConfig(t, tt.content)
			}

			model, err := LoadFromFile(path, setupTestLogger())
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
			require.NotNil(t, model)
			assertFallback(t, model)
		})
	}
}

func TestLoadIsRepeatable(t *testing.T) {
	data := []byte(consoleConfig)
	first, err := Load(data, setupTestLogger())
	require.NoError(t, err)
	second, err := Load(data, setupTestLogger())
	require.NoError(t, err)

	probes := []string{"/lx/tempo/beat", "/lx/tempo/x/y", "/lx/mixer/level", "/lx/color/red", "/"}
	require.Equal(t, first.Len(), second.Len())
	for i, a := range first.Tables() {
		b := second.Tables()[i]
		assert.Equal(t, a.Name(), b.Name())
		assert.Equal(t, a.FilterPrefix(), b.FilterPrefix())
		assert.Equal(t, a.IsPassthrough(), b.IsPassthrough())
		for _, addr := range probes {
			assert.Equal(t, a.ShouldHandle(addr), b.ShouldHandle(addr), addr)
			assert.Equal(t, a.Remap(addr), b.Remap(addr), addr)
		}
	}
}

func TestDefaultModel(t *testing.T) {
	assertFallback(t, DefaultModel())
}

func TestModelTablesIsACopy(t *testing.T) {
	model := DefaultModel()
	tables := model.Tables()
	tables[0] = nil
	assert.NotNil(t, model.Tables()[0])
}

func assertFallback(t *testing.T, model *Model) {
	t.Helper()
	require.Equal(t, 1, model.Len())
	assert.True(t, model.IsFallback())

	table := model.Tables()[0]
	assert.Equal(t, FallbackName, table.Name())
	assert.Equal(t, DefaultHost, table.Host())
	assert.Equal(t, DefaultPort, table.Port())
	assert.True(t, table.ShouldHandle(FallbackSource))
	assert.Equal(t, []string{FallbackDestination}, table.Remap(FallbackSource))
	assert.True(t, strings.HasPrefix(FallbackDestination, table.FilterPrefix()))
}
