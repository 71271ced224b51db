package policy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePolicy = `
default: deny
rules:
  - table: orders
    action: select
    effect: allow
  - table: users
    action: select
    column: ssn
    effect: ignore
  - table: "*"
    action: pragma
    effect: deny
`

func TestLoad(t *testing.T) {
	p, err := Load(strings.NewReader(samplePolicy))
	require.NoError(t, err)

	assert.Equal(t, Deny, p.Default())
	assert.Equal(t, Allow, p.Evaluate("orders", ActionSelect, ""))
	assert.Equal(t, Ignore, p.Evaluate("users", ActionSelect, "ssn"))
	assert.Equal(t, Deny, p.Evaluate("schema_version", ActionPragma, ""))
	assert.Equal(t, Deny, p.Evaluate("orders", ActionInsert, ""))
}

func TestLoadDefaultsToAllow(t *testing.T) {
	p, err := Load(strings.NewReader("rules:\n  - table: x\n    effect: deny\n"))
	require.NoError(t, err)

	assert.Equal(t, Allow, p.Default())
	// An action-less rule matches every action.
	assert.Equal(t, Deny, p.Evaluate("x", ActionDelete, ""))
}

func TestLoadRejectsUnknownAction(t *testing.T) {
	_, err := Load(strings.NewReader("rules:\n  - table: x\n    action: truncate\n    effect: deny\n"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownEffect(t *testing.T) {
	_, err := Load(strings.NewReader("rules:\n  - table: x\n    effect: maybe\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePolicy), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Allow, p.Evaluate("orders", ActionSelect, ""))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseActionRoundTrip(t *testing.T) {
	for name, want := range actionNames {
		got, err := ParseAction(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, "action %q", name)
	}
	_, err := ParseAction("vacuum-into")
	assert.Error(t, err)
}
