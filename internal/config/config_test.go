package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	Server  string        `default:"http://localhost:8001"`
	Timeout time.Duration `default:"30s"`
	NoColor bool
	Retries int `default:"3"`

	Requests struct {
		City string
	} `cmd:""`
}

func parse(t *testing.T, yamlDoc string, args ...string) *testCLI {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	var cli testCLI
	p, err := kong.New(&cli, kong.Configuration(YAML, path))
	require.NoError(t, err)

	_, err = p.Parse(args)
	require.NoError(t, err)

	return &cli
}

func TestYAML_SetsDefaults(t *testing.T) {
	cli := parse(t, `
server: https://portal.example.org
timeout: 5s
no_color: true
retries: 7
`, "requests")

	assert.Equal(t, "https://portal.example.org", cli.Server)
	assert.Equal(t, 5*time.Second, cli.Timeout)
	assert.True(t, cli.NoColor)
	assert.Equal(t, 7, cli.Retries)
}

func TestYAML_DashedKeys(t *testing.T) {
	cli := parse(t, "no-color: true\n", "requests")
	assert.True(t, cli.NoColor)
}

func TestYAML_FlagsWin(t *testing.T) {
	cli := parse(t, "server: https://portal.example.org\n", "--server", "http://127.0.0.1:9000", "requests")
	assert.Equal(t, "http://127.0.0.1:9000", cli.Server)
}

func TestYAML_NestedCommandFlags(t *testing.T) {
	cli := parse(t, "requests:\n  city: Pune\n", "requests")
	assert.Equal(t, "Pune", cli.Requests.City)
	assert.Equal(t, "http://localhost:8001", cli.Server)
}

func TestYAML_Empty(t *testing.T) {
	r, err := YAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestYAML_Invalid(t *testing.T) {
	_, err := YAML(strings.NewReader("server: [unterminated"))
	require.Error(t, err)
}
