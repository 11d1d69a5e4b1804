package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")

	migrate, _, err := cmd.Find([]string{"migrate", "version"})
	require.NoError(t, err)
	assert.Equal(t, "version", migrate.Name())
}

func TestNewApp_ValidatesDependencyGraph(t *testing.T) {
	t.Chdir(t.TempDir())

	// Without a config file the graph still resolves but config.New fails.
	app := newApp()
	require.Error(t, app.Err())
	assert.Contains(t, app.Err().Error(), "config file config.yaml not found")
}
