package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.HTTPAddr)
	assert.Equal(t, "/mcp", cfg.Endpoint)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, PresetStyleGuide, cfg.Tree.Preset)
	assert.Equal(t, "Style Guide", cfg.Tree.Name)
	assert.Equal(t, "/", cfg.Tree.URL)
	assert.Equal(t, "main", cfg.Site.ContentSelector)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("PAGETREE_HTTP_ADDR", ":8080")
	t.Setenv("PAGETREE_LOG_LEVEL", "debug")
	t.Setenv("PAGETREE_SITE_BASE_URL", "https://example.com")
	t.Setenv("PAGETREE_CONTENTSERVER_URL", "http://contentserver:8080")
	t.Setenv("PAGETREE_CONTENTSERVER_NODE_ID", "main")
	t.Setenv("PAGETREE_CONTENTSERVER_MIME_TYPES", "text/html,application/x-folder")
	t.Setenv("PAGETREE_CONTENTSERVER_EXPOSE_HIDDEN", "true")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://example.com", cfg.Site.BaseURL)
	assert.Equal(t, "http://contentserver:8080", cfg.ContentServer.URL)
	assert.Equal(t, "main", cfg.ContentServer.NodeID)
	assert.Equal(t, []string{"text/html", "application/x-folder"}, cfg.ContentServer.MimeTypes)
	assert.True(t, cfg.ContentServer.ExposeHidden)
	assert.Empty(t, cfg.Tree.Preset)
}

func TestLoadContentServerFlags(t *testing.T) {
	cfg, err := Load([]string{"-contentserver", "http://contentserver:8080", "-contentserver-node", "main", "-contentserver-expose-hidden"})
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.ContentServer.NodeID)
	assert.True(t, cfg.ContentServer.ExposeHidden)

	cfg, err = Load([]string{"-contentserver", "http://contentserver:8080", "-contentserver-node", "main"})
	require.NoError(t, err)
	assert.False(t, cfg.ContentServer.ExposeHidden)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PAGETREE_HTTP_ADDR", ":8080")
	t.Setenv("PAGETREE_TREE_FILE", "env.yaml")

	cfg, err := Load([]string{"-http", ":9090", "-tree", "flag.yaml", "-strict", "-selector", "#content"})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "flag.yaml", cfg.Tree.File)
	assert.True(t, cfg.Tree.Strict)
	assert.Equal(t, "#content", cfg.Site.ContentSelector)
	assert.Empty(t, cfg.Tree.Preset)
}

func TestLoadValidation(t *testing.T) {
	_, err := Load([]string{"-tree", "a.yaml", "-preset", "styleguide"})
	require.ErrorIs(t, err, ErrConflictingSources)

	_, err = Load([]string{"-preset", "blog"})
	require.ErrorIs(t, err, ErrUnknownPreset)

	_, err = Load([]string{"-contentserver", "http://localhost"})
	require.ErrorIs(t, err, ErrMissingNodeID)

	_, err = Load([]string{"-unknown-flag"})
	require.Error(t, err)
}
