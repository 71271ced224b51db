package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	path := writePolicy(t, "default: deny\nrules:\n  - table: orders\n    action: select\n    effect: allow\n")

	out, err := runCommand(t, "check", "--policy", path, "orders", "select")
	require.NoError(t, err)
	assert.Contains(t, out, "ALLOW")

	out, err = runCommand(t, "check", "--policy", path, "orders", "insert")
	require.NoError(t, err)
	assert.Contains(t, out, "DENY")
}

func TestCheckCommandColumnFlag(t *testing.T) {
	path := writePolicy(t, "rules:\n  - table: users\n    action: select\n    column: ssn\n    effect: ignore\n")

	out, err := runCommand(t, "check", "--column", "ssn", "--policy", path, "users", "select")
	require.NoError(t, err)
	assert.Contains(t, out, "IGNORE")
}

func TestQueryCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	_, err := runCommand(t, "query", "--db", db, "CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)")
	require.NoError(t, err)
	_, err = runCommand(t, "query", "--db", db, "--param", "hello", "INSERT INTO t (v) VALUES (?)")
	require.NoError(t, err)

	out, err := runCommand(t, "query", "--db", db, "SELECT v FROM t")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")

	out, err = runCommand(t, "query", "--db", db, "--deferred", "SELECT v FROM t")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}

func TestQueryCommandDeniedByPolicy(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	_, err := runCommand(t, "query", "--db", db, "CREATE TABLE secret (id INTEGER)")
	require.NoError(t, err)

	policyPath := writePolicy(t, "rules:\n  - table: secret\n    effect: deny\n")
	_, err = runCommand(t, "query", "--db", db, "--policy", policyPath, "SELECT * FROM secret")
	assert.Error(t, err)
}
