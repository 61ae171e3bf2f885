package scholarkb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/scholarkb/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKnowledgeBase(t *testing.T) {
	t.Run("create new knowledge base", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_kb")
		kb, err := NewKnowledgeBase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, kb)
		defer kb.Close()

		// Verify components are initialized
		assert.NotNil(t, kb.DocumentRepository())
		assert.NotNil(t, kb.ChunkRepository())
		assert.NotNil(t, kb.EmbeddingCache())
		assert.NotNil(t, kb.Generator())
		assert.NotNil(t, kb.backend)
		assert.NotNil(t, kb.logger)
	})

	t.Run("in-memory storage", func(t *testing.T) {
		kb, err := NewKnowledgeBase("", WithInMemoryStorage())
		require.NoError(t, err)
		require.NotNil(t, kb)
		assert.NoError(t, kb.Close())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a knowledge base at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		kb, err := NewKnowledgeBase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, kb)
	})
}

func TestKnowledgeBase_Close(t *testing.T) {
	kb, err := NewKnowledgeBase(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, kb)

	err = kb.Close()
	assert.NoError(t, err)
}

type closeRecordingCacheStore struct {
	storage.CacheStore
	closed bool
}

func (r *closeRecordingCacheStore) Close() error {
	r.closed = true
	return r.CacheStore.Close()
}

func TestKnowledgeBase_Close_ClosesCacheStore(t *testing.T) {
	kb, err := NewKnowledgeBase("", WithInMemoryStorage())
	require.NoError(t, err)

	recorder := &closeRecordingCacheStore{CacheStore: kb.cacheRepo}
	kb.cacheRepo = recorder

	require.NoError(t, kb.Close())
	assert.True(t, recorder.closed, "cache store participates in the cascading close")
}

func TestKnowledgeBase_FactoryMethods(t *testing.T) {
	kb, err := NewKnowledgeBase(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, kb)
	defer kb.Close()

	t.Run("can create ingester", func(t *testing.T) {
		ingester, err := kb.NewIngester()
		require.NoError(t, err)
		require.NotNil(t, ingester)
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := kb.NewSearcher()
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})

	t.Run("can create detector", func(t *testing.T) {
		assert.NotNil(t, kb.NewDetector())
	})

	t.Run("can create reembedder", func(t *testing.T) {
		reembedder, err := kb.NewReembedder(nil, os.Stderr)
		require.NoError(t, err)
		require.NotNil(t, reembedder)
		reembedder.Release()
	})
}
