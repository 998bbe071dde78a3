package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSeed(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedCommands(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", filepath.Join(t.TempDir(), "seed.db"))
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")

	out, err := runSeed(t, "roles")
	require.NoError(t, err)
	assert.Contains(t, out, "roles ok")

	_, err = runSeed(t, "roles")
	require.NoError(t, err)

	out, err = runSeed(t, "admin", "--email", "root@x.com", "--password", "password1")
	require.NoError(t, err)
	assert.Contains(t, out, "admin root@x.com")

	out, err = runSeed(t, "admin", "--email", "root@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "admin root@x.com")

	_, err = runSeed(t, "admin")
	assert.ErrorContains(t, err, "--email is required")

	_, err = runSeed(t, "admin", "--email", "new@x.com", "--password", "short")
	assert.Error(t, err)
}
