package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-adventure/internal/core"
)

func TestParseActions(t *testing.T) {
	actions, err := parseActions(" Right,attack ,, respawn")
	require.NoError(t, err)
	assert.Equal(t, []core.Action{core.ActionRight, core.ActionAttack, core.ActionRespawn}, actions)

	actions, err = parseActions("")
	require.NoError(t, err)
	assert.Empty(t, actions)

	_, err = parseActions("up,jump")
	assert.EqualError(t, err, `unknown action "jump"`)

	_, err = parseActions("quit")
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "saves"), expandHome("~/saves"))
	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, "/tmp/x", expandHome("/tmp/x"))
	assert.Equal(t, "~other/x", expandHome("~other/x"))
}
