package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const opportunityYAML = `name: opportunity
navigation_rule: "closed=!{new}"
values:
  - label: New
    value: new
  - label: Active
    value: active
    valid_for: [0]
  - label: Closed
    value: closed
    valid_for: [1]
`

func writeDefinition(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "opportunity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(opportunityYAML), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "stagepath version "))
}

func TestCompileCommand(t *testing.T) {
	file := writeDefinition(t)

	out, err := execute(t, "compile", "--store", "memory", "--log-level", "error", "--file", file, "--current", "active")
	require.NoError(t, err)
	assert.Contains(t, out, "# opportunity")
	assert.Contains(t, out, "| → | 1 | Active |")
	assert.Contains(t, out, "Rule: `closed=!{new}`")
}

func TestCheckCommand(t *testing.T) {
	file := writeDefinition(t)

	out, err := execute(t, "check", "--store", "memory", "--log-level", "error", "--file", file, "new", "active")
	require.NoError(t, err)
	assert.Contains(t, out, "Active Completed")

	out, err = execute(t, "check", "--store", "memory", "--log-level", "error", "--file", file, "--hide-blocked", "new", "closed")
	assert.ErrorIs(t, err, errBlocked)
	assert.Contains(t, out, "The action is hidden")
}

func TestGraphCommand(t *testing.T) {
	file := writeDefinition(t)

	out, err := execute(t, "graph", "--store", "memory", "--log-level", "error", "--file", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph LR\n"))
}

func TestSaveListValidate_SQLite(t *testing.T) {
	file := writeDefinition(t)
	db := filepath.Join(t.TempDir(), "defs.db")
	common := []string{"--store", "sqlite", "--sqlite-path", db, "--log-level", "error"}

	out, err := execute(t, append([]string{"save", file}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, ">>> Saved 'opportunity'.")

	out, err = execute(t, append([]string{"list"}, common...)...)
	require.NoError(t, err)
	assert.Equal(t, "opportunity\n", out)

	out, err = execute(t, append([]string{"validate", "opportunity"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "opportunity: ok (3 stages reachable from 'new')")

	_, err = execute(t, append([]string{"delete", "opportunity"}, common...)...)
	require.NoError(t, err)

	out, err = execute(t, append([]string{"list"}, common...)...)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSave_ReadOnlyStore(t *testing.T) {
	file := writeDefinition(t)

	_, err := execute(t, "save", file, "--store", "hcl", "--dir", t.TempDir(), "--log-level", "error")
	assert.ErrorContains(t, err, "read-only")
}
