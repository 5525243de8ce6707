package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	doc := "expense-labels: [Rent, Food]\nexpense-data: [900, 300]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary.yaml"), []byte(doc), 0o644))
	t.Setenv("PAYLOAD_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"render", "summary", "--focus", "Food"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), `id="expenseChart"`)
	assert.Contains(t, out.String(), `class="legend-card active"`)
}

func TestRenderCommand_UnknownPage(t *testing.T) {
	t.Setenv("PAYLOAD_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"render", "nope"})
	assert.Error(t, cmd.Execute())
}

func TestRenderCommand_WritesFile(t *testing.T) {
	t.Setenv("PAYLOAD_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	out := filepath.Join(t.TempDir(), "home.html")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"render", "home", "--out", out})
	require.NoError(t, cmd.Execute())

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<title>Overview")
}
