package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"notesbot/bot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBots_NothingConfigured(t *testing.T) {
	p := filepath.Join(t.TempDir(), "botfarm.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"logger": {"level": "error"}, "OtherBot": {}}`), 0o600))

	v, err := bot.ReadConfig(p)
	require.NoError(t, err)

	err = runBots(context.Background(), v)
	assert.EqualError(t, err, "no bot is running")
}

func TestRunBots_MissingToken(t *testing.T) {
	p := filepath.Join(t.TempDir(), "botfarm.yaml")
	require.NoError(t, os.WriteFile(p, []byte("NotesBot:\n  tg_token: ${NOTESBOT_TEST_UNSET}\n"), 0o600))

	v, err := bot.ReadConfig(p)
	require.NoError(t, err)

	assert.Error(t, runBots(context.Background(), v))
}

func TestReadConfig_NoFile(t *testing.T) {
	_, err := readConfig("")
	assert.Error(t, err)
}

func TestDumpCmd(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "botfarm.json")
	notesPath := filepath.Join(dir, "missing.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"NotesBot": {"storage": {"path": "`+notesPath+`"}}}`), 0o600))

	cmd := dumpCmd(&p)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "0 notes, next id 0\n", out.String())
}
