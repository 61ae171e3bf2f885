// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package scholarkb

import (
	"io"
	"log/slog"

	"github.com/poiesic/scholarkb/ai"
	"github.com/poiesic/scholarkb/ai/local"
	"github.com/poiesic/scholarkb/ai/openai"
	"github.com/poiesic/scholarkb/embeddings"
	"github.com/poiesic/scholarkb/ingestion"
	"github.com/poiesic/scholarkb/reembed"
	"github.com/poiesic/scholarkb/search"
	"github.com/poiesic/scholarkb/storage"
	"github.com/poiesic/scholarkb/storage/badger"
)

// KnowledgeBase wires the storage backend, the AI provider, and the
// embedding pipeline into one handle that the command line tools and
// library consumers work with.
type KnowledgeBase struct {
	backend   *badger.Backend
	docRepo   storage.DocumentRepository
	chunkRepo storage.ChunkRepository
	cacheRepo storage.CacheStore
	provider  ai.AIProvider
	generator *embeddings.Generator
	cache     *embeddings.Cache
	logger    *slog.Logger
}

// KnowledgeBaseOption configures a KnowledgeBase.
type KnowledgeBaseOption func(*knowledgeBaseOptions)

type knowledgeBaseOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig sets the AI service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithInMemoryStorage keeps all data in memory. Used for tests and
// throwaway sessions; nothing survives Close.
func WithInMemoryStorage() KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.inMemory = true
	}
}

// NewKnowledgeBase opens or creates a knowledge base at filePath.
func NewKnowledgeBase(filePath string, opts ...KnowledgeBaseOption) (*KnowledgeBase, error) {
	options := &knowledgeBaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	cacheRepo, err := badger.NewCacheStore(backend)
	if err != nil {
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		cacheRepo.Close()
		chunkRepo.Close()
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	cache := embeddings.NewCache(cacheRepo)
	generator := embeddings.NewGenerator(cache, provider.Embedder(),
		embeddings.WithFallback(local.NewEmbedder(options.aiConfig.EmbeddingDimension)),
		embeddings.WithDimension(options.aiConfig.EmbeddingDimension))

	return &KnowledgeBase{
		backend:   backend,
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		cacheRepo: cacheRepo,
		provider:  provider,
		generator: generator,
		cache:     cache,
		logger:    slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (kb *KnowledgeBase) Close() error {
	if err := kb.provider.Close(); err != nil {
		kb.logger.Error("error closing AI provider", "err", err)
	}

	if err := kb.cacheRepo.Close(); err != nil {
		kb.logger.Error("error closing cache store", "err", err)
		return err
	}
	if err := kb.chunkRepo.Close(); err != nil {
		kb.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := kb.docRepo.Close(); err != nil {
		kb.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := kb.backend.Close(); err != nil {
		kb.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (kb *KnowledgeBase) DocumentRepository() storage.DocumentRepository {
	return kb.docRepo
}

func (kb *KnowledgeBase) ChunkRepository() storage.ChunkRepository {
	return kb.chunkRepo
}

// EmbeddingCache returns the content-addressed embedding cache.
func (kb *KnowledgeBase) EmbeddingCache() *embeddings.Cache {
	return kb.cache
}

// Generator returns the embedding generator with its degradation chain.
func (kb *KnowledgeBase) Generator() *embeddings.Generator {
	return kb.generator
}

// NewIngester creates an ingester bound to this knowledge base. The
// provider's metadata extractor is wired in for abstract and keyword
// extraction.
func (kb *KnowledgeBase) NewIngester(opts ...ingestion.IngesterOption) (*ingestion.Ingester, error) {
	opts = append([]ingestion.IngesterOption{
		ingestion.WithMetadataExtractor(kb.provider.MetadataExtractor()),
	}, opts...)
	return ingestion.NewIngester(kb.docRepo, kb.chunkRepo, kb.generator, opts...)
}

// NewSearcher creates a hybrid searcher bound to this knowledge base.
func (kb *KnowledgeBase) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(kb.docRepo, kb.chunkRepo, kb.generator, opts...)
}

// NewDetector creates a supersession detector bound to this knowledge base.
func (kb *KnowledgeBase) NewDetector() *ingestion.Detector {
	return ingestion.NewDetector(kb.docRepo)
}

// NewReembedder creates a reembedder writing progress to the given writer.
func (kb *KnowledgeBase) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(kb.docRepo, kb.chunkRepo, kb.provider.Embedder(), config, progress)
}
