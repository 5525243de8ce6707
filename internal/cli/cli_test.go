package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finorbit/internal/config"
	"finorbit/internal/log"
)

func TestLoadAndValidateConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PAYLOAD_DIR", dir)
	t.Setenv("PORT", "9090")

	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())

	t.Setenv("PORT", "abc")
	_, err = LoadAndValidateConfig()
	assert.ErrorContains(t, err, "invalid port")
}

func TestLoadPayloadsAndRender(t *testing.T) {
	dir := t.TempDir()
	doc := `{"net-worth": {"current": 1234.5}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.json"), []byte(doc), 0o644))

	cfg := config.Load()
	cfg.PayloadDir = dir
	logger := log.Discard()

	store, err := LoadPayloads(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, store.Pages())

	srv, err := NewServer(cfg, store, logger)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, srv.RenderPage(context.Background(), &buf, "home", ""))
	assert.Contains(t, buf.String(), "1.234,50 €")
}

func TestNewServer_BadLocale(t *testing.T) {
	cfg := config.Load()
	cfg.Locale = "not a locale!"
	_, err := NewServer(cfg, nil, log.Discard())
	assert.Error(t, err)
}
