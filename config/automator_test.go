package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAutomatorSettings(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
username: me@example.com
password: hunter2
message: "Hi {name}, let's connect!"
max_requests_per_day: 10
delay_seconds: 5
headless: false
selectors:
  connect_button: "button.connect"
`)

	s, err := LoadAutomatorSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "me@example.com", s.Username)
	assert.Equal(t, "Hi {name}, let's connect!", s.Message)
	assert.Equal(t, 10, s.MaxRequestsPerDay)
	assert.Equal(t, 5*time.Second, s.Delay())
	assert.False(t, s.IsHeadless())
	assert.Equal(t, "button.connect", s.Selectors.ConnectButton)
	assert.Equal(t, DefaultSelectors().LoginUsername, s.Selectors.LoginUsername)
}

func TestLoadAutomatorSettingsDefaults(t *testing.T) {
	path := writeFile(t, "settings.yaml", "username: me\npassword: pw\n")

	s, err := LoadAutomatorSettings(path)
	require.NoError(t, err)

	assert.Equal(t, 20, s.MaxRequestsPerDay)
	assert.Equal(t, 30*time.Second, s.Delay())
	assert.True(t, s.IsHeadless())
	assert.Equal(t, DefaultSelectors(), s.Selectors)
}

func TestLoadAutomatorSettingsRequiresLogin(t *testing.T) {
	path := writeFile(t, "settings.yaml", "message: hello\n")

	_, err := LoadAutomatorSettings(path)
	assert.ErrorContains(t, err, "username, password")
}

func TestLoadTargets(t *testing.T) {
	path := writeFile(t, "targets.txt", `# people from the meetup
https://www.linkedin.com/in/alice/

https://www.linkedin.com/in/bob/
  https://www.linkedin.com/in/alice/
https://www.linkedin.com/in/carol/
`)

	targets, err := LoadTargets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.linkedin.com/in/alice/",
		"https://www.linkedin.com/in/bob/",
		"https://www.linkedin.com/in/carol/",
	}, targets)
}
