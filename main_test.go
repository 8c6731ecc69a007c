package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscremap/pkg/config"
	"github.com/oscremap/pkg/engine"
	"github.com/oscremap/pkg/logger"
)

const testConfig = `
remotes:
  - name: "Console"
    ip: "10.0.0.5"
    port: 9000
    mappings:
      /lx/tempo/beat: ["/remote/beat"]
      /lx/tempo/*: ["/remote/tempo/*"]
  - name: "Visuals"
    port: "9001"
    mappings:
      /lx/tempo/beat: ["/vis/beat", "/vis/flash"]
`

func testSettings(t *testing.T, content string) config.Settings {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remapper_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return config.Settings{
		ConfigPath:    path,
		LogLevel:      "error",
		WatchDebounce: 10 * time.Millisecond,
	}
}

func execute(t *testing.T, settings config.Settings, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(settings)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeLines(t *testing.T, out string) []engine.Outbound {
	t.Helper()
	var events []engine.Outbound
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var ev engine.Outbound
		require.NoError(t, json.Unmarshal([]byte(line), &ev), line)
		events = append(events, ev)
	}
	return events
}

func TestCheckCommand(t *testing.T) {
	out, err := execute(t, testSettings(t, testConfig), "", "check")
	require.NoError(t, err)

	assert.Contains(t, out, "remote: Console (10.0.0.5:9000)")
	assert.Contains(t, out, "  mappings -> /lx/tempo/* : /remote/tempo/*")
	assert.Contains(t, out, "  longest_prefix_filter -> /remote/")
	assert.Contains(t, out, "remote: Visuals (127.0.0.1:9001)")
	assert.Contains(t, out, "  mappings -> /lx/tempo/beat : [/vis/beat, /vis/flash]")
	assert.Contains(t, out, "  longest_prefix_filter -> /vis/")
}

func TestCheckCommandFallback(t *testing.T) {
	out, err := execute(t, testSettings(t, "remotes: 1\n"), "", "check")
	assert.Error(t, err)
	assert.Contains(t, out, "remote: "+config.FallbackName)
}

func TestRemapCommand(t *testing.T) {
	out, err := execute(t, testSettings(t, testConfig), "", "remap", "--address", "/lx/tempo/beat", "--value", "0.5")
	require.NoError(t, err)

	assert.Equal(t, []engine.Outbound{
		{Remote: "Console", Host: "10.0.0.5", Port: 9000, Address: "/remote/beat", Value: 0.5},
		{Remote: "Visuals", Host: "127.0.0.1", Port: 9001, Address: "/vis/beat", Value: 0.5},
		{Remote: "Visuals", Host: "127.0.0.1", Port: 9001, Address: "/vis/flash", Value: 0.5},
	}, decodeLines(t, out))
}

func TestRemapCommandRequiresAddress(t *testing.T) {
	_, err := execute(t, testSettings(t, testConfig), "", "remap")
	assert.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	stdin := strings.Join([]string{
		"# tempo",
		"/lx/tempo/bar 2",
		"",
		"not an event",
		"/lx/color/red 1",
		"/lx/tempo/beat 1",
	}, "\n")

	out, err := execute(t, testSettings(t, testConfig), stdin, "run")
	require.NoError(t, err)

	events := decodeLines(t, out)
	require.Len(t, events, 4)
	assert.Equal(t, "/remote/tempo/bar", events[0].Address)
	assert.Equal(t, float32(2), events[0].Value)
	assert.Equal(t, "/remote/beat", events[1].Address)
	assert.Equal(t, "/vis/beat", events[2].Address)
	assert.Equal(t, "/vis/flash", events[3].Address)
}

func TestLogLevelFromSettings(t *testing.T) {
	opts := &options{settings: config.Settings{LogLevel: "debug"}}
	log, err := opts.logger("main")
	require.NoError(t, err)
	assert.Equal(t, logger.LevelDebug, log.Level())

	opts.logLevel = "warn"
	log, err = opts.logger("main")
	require.NoError(t, err)
	assert.Equal(t, logger.LevelWarn, log.Level())
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, testSettings(t, testConfig), "", "check", "--log-level", "chatty")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}
