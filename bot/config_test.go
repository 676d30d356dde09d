package bot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("NOTESBOT_TEST_TOKEN", "secret")

	assert.Equal(t, "secret", expandEnv("${NOTESBOT_TEST_TOKEN}"))
	assert.Equal(t, "secret", expandEnv("${NOTESBOT_TEST_TOKEN:-other}"))
	assert.Equal(t, "fallback", expandEnv("${NOTESBOT_TEST_UNSET:-fallback}"))
	assert.Equal(t, "", expandEnv("${NOTESBOT_TEST_UNSET}"))
	assert.Equal(t, "a-secret-b", expandEnv("a-${NOTESBOT_TEST_TOKEN}-b"))
	assert.Equal(t, "no vars", expandEnv("no vars"))
}

func TestReadConfig_JSON(t *testing.T) {
	t.Setenv("NOTESBOT_TEST_TOKEN", "123:abc")
	p := writeConfig(t, "botfarm.json", `{
	"logger": {"level": "debug"},
	"NotesBot": {
		"tg_token": "${NOTESBOT_TEST_TOKEN}",
		"storage": {"driver": "${NOTESBOT_TEST_DRIVER:-sqlite}", "timeout": "5s"},
		"save_every": 5
	}
}`)

	v, err := ReadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "debug", v.GetString(CfgLoggerLevel))

	cfg, ok := BotConfig(v, "NotesBot")
	require.True(t, ok)
	assert.Equal(t, "123:abc", cfg.GetString(CfgTgToken))
	assert.Equal(t, "sqlite", cfg.GetString("storage.driver"))
	assert.Equal(t, 5*time.Second, cfg.GetDuration("storage.timeout"))
	assert.Equal(t, 5, cfg.GetInt("save_every"))

	_, ok = BotConfig(v, "FindingMemoBot")
	assert.False(t, ok)
}

func TestReadConfig_YAML(t *testing.T) {
	p := writeConfig(t, "botfarm.yaml", `
NotesBot:
  tg_token: ${NOTESBOT_TEST_UNSET:-from-default}
  time_zone: Europe/Berlin
`)

	v, err := ReadConfig(p)
	require.NoError(t, err)

	cfg, ok := BotConfig(v, "NotesBot")
	require.True(t, ok)
	assert.Equal(t, "from-default", cfg.GetString(CfgTgToken))
	assert.Equal(t, "Europe/Berlin", cfg.GetString("time_zone"))
}

func TestReadConfig_Errors(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = ReadConfig(writeConfig(t, "broken.json", `{"NotesBot": `))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	v, err := ReadConfig(writeConfig(t, "botfarm.json", `{"NotesBot": {"tg_token": "", "time_zone": "UTC"}}`))
	require.NoError(t, err)
	cfg, ok := BotConfig(v, "NotesBot")
	require.True(t, ok)

	rec := Record{Name: "NotesBot", RequiredConfigFields: []string{CfgTgToken, "storage.driver", "time_zone"}}
	err = ValidateConfig(rec, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tg_token, storage.driver")
	assert.NotContains(t, err.Error(), "time_zone")

	rec.RequiredConfigFields = []string{"time_zone"}
	assert.NoError(t, ValidateConfig(rec, cfg))
}
