package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Chunker.Size)
	assert.Equal(t, 50, cfg.Chunker.Overlap)
	assert.Equal(t, "embeddinggemma", cfg.AI.EmbeddingModel)
	assert.Equal(t, 768, cfg.AI.EmbeddingDimension)
	assert.Equal(t, 10, cfg.Search.Results)
	assert.NotEmpty(t, cfg.Storage.Path)
}

func TestLoad_PartialFileGetsDefaultsApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scholarkb.yaml")
	content := `
chunker:
  size: 250
  overlap: 25
ai:
  embedding_host: http://gpu-box:11434
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Chunker.Size)
	assert.Equal(t, 25, cfg.Chunker.Overlap)
	assert.Equal(t, "http://gpu-box:11434", cfg.AI.EmbeddingHost)
	// Extractor host follows the embedding host when unset
	assert.Equal(t, "http://gpu-box:11434", cfg.AI.ExtractorHost)
	assert.Equal(t, "embeddinggemma", cfg.AI.EmbeddingModel)
	assert.Equal(t, 10, cfg.Search.Results)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultConfig()
	cfg.Storage.Path = "/data/kb"
	cfg.Chunker.Size = 300
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/kb", loaded.Storage.Path)
	assert.Equal(t, 300, loaded.Chunker.Size)
	assert.Equal(t, cfg.AI, loaded.AI)
}
