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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	scholarkb "github.com/poiesic/scholarkb"
	"github.com/poiesic/scholarkb/ai"
	"github.com/poiesic/scholarkb/config"
	"github.com/poiesic/scholarkb/ingestion"
	"github.com/poiesic/scholarkb/reembed"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "scholarkb",
		Usage: "Searchable knowledge base for research documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to knowledge base directory (overrides config)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest documents from files or directories",
				ArgsUsage: "PATH [PATH...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Re-ingest documents even when unchanged",
					},
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Keep watching the directory and re-ingest on change",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge base",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "results",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
					},
					&cli.BoolFlag{
						Name:  "all-versions",
						Usage: "Include superseded document versions",
					},
				},
			},
			{
				Name:   "supersede-scan",
				Usage:  "Scan existing documents for supersession relationships",
				Action: supersedeScanCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Report what would be superseded without writing",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Re-embed chunks that carry placeholder or fallback vectors",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Re-embed every chunk, not only degraded ones",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of batches processed concurrently (0 = auto)",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show knowledge base statistics",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig resolves the application configuration, honoring the
// --config and --db flags.
func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	var cfg *config.AppConfig
	var err error

	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if db := c.String("db"); db != "" {
		cfg.Storage.Path = db
	}

	return cfg, nil
}

// openKnowledgeBase opens the knowledge base described by the config.
func openKnowledgeBase(cfg *config.AppConfig) (*scholarkb.KnowledgeBase, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithExtractorHost(cfg.AI.ExtractorHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithExtractorModel(cfg.AI.ExtractorModel),
		ai.WithEmbeddingDimension(cfg.AI.EmbeddingDimension),
		ai.WithMaxKeywords(cfg.AI.MaxKeywords),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	kb, err := scholarkb.NewKnowledgeBase(cfg.Storage.Path, scholarkb.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	return kb, nil
}

func newIngester(kb *scholarkb.KnowledgeBase, cfg *config.AppConfig) (*ingestion.Ingester, error) {
	chunker, err := ingestion.NewChunker(cfg.Chunker.Size, cfg.Chunker.Overlap)
	if err != nil {
		return nil, fmt.Errorf("invalid chunker configuration: %w", err)
	}
	return kb.NewIngester(ingestion.WithChunker(chunker))
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file or directory is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	kb, err := openKnowledgeBase(cfg)
	if err != nil {
		return err
	}
	defer kb.Close()

	ingester, err := newIngester(kb, cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	force := c.Bool("force")
	total := &ingestion.Stats{}

	for _, path := range c.Args().Slice() {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot access %s: %w", path, err)
		}

		if info.IsDir() {
			stats, err := ingester.IngestDirectory(ctx, path, force)
			if err != nil {
				return fmt.Errorf("ingesting %s: %w", path, err)
			}
			total.Merge(stats)
		} else {
			if err := ingester.IngestFile(ctx, path, force, total); err != nil {
				return fmt.Errorf("ingesting %s: %w", path, err)
			}
		}
	}

	printIngestStats(total)

	if c.Bool("watch") {
		watcher := ingestion.NewWatcher(ingester)
		for _, path := range c.Args().Slice() {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return watcher.Watch(ctx, path)
			}
		}
		return fmt.Errorf("--watch requires a directory argument")
	}

	return nil
}

func printIngestStats(stats *ingestion.Stats) {
	fmt.Fprintf(os.Stderr, "Processed: %d (updated: %d, skipped: %d, failed: %d)\n",
		stats.Processed, stats.Updated, stats.Skipped, stats.Failed)
	fmt.Fprintf(os.Stderr, "Chunks: %d (embedded: %d)\n", stats.Chunks, stats.Embedded)
	if stats.Superseded > 0 {
		fmt.Fprintf(os.Stderr, "Superseded: %d\n", stats.Superseded)
	}
	for _, e := range stats.Errors {
		fmt.Fprintf(os.Stderr, "  error: %s\n", e)
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	k := c.Int("results")
	if k <= 0 {
		k = cfg.Search.Results
	}

	kb, err := openKnowledgeBase(cfg)
	if err != nil {
		return err
	}
	defer kb.Close()

	searcher, err := kb.NewSearcher()
	if err != nil {
		return err
	}

	ctx := context.Background()
	results, err := searcher.Search(ctx, query, k, !c.Bool("all-versions"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, result := range results {
		doc, err := kb.DocumentRepository().GetDocument(ctx, result.DocumentId)
		title := ""
		if err == nil {
			title = doc.Title
		}

		fmt.Printf("%2d. [%.3f] %s\n", i+1, result.CombinedScore, title)
		fmt.Printf("    semantic=%.3f keyword=%.3f chunk=%d\n",
			result.SemanticScore, result.KeywordScore, result.ChunkId)
		fmt.Printf("    %s\n\n", snippet(result.Content, 240))
	}

	return nil
}

// snippet truncates content to at most n runes on a word boundary.
func snippet(content string, n int) string {
	content = strings.Join(strings.Fields(content), " ")
	if len(content) <= n {
		return content
	}
	cut := content[:n]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

func supersedeScanCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	kb, err := openKnowledgeBase(cfg)
	if err != nil {
		return err
	}
	defer kb.Close()

	ctx := context.Background()
	dryRun := c.Bool("dry-run")

	result, err := kb.NewDetector().RetroactiveScan(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if dryRun {
		fmt.Printf("Dry run: %d documents would be superseded\n", len(result.Superseded))
	} else {
		fmt.Printf("Superseded %d documents\n", len(result.Superseded))
	}
	for _, pair := range result.Superseded {
		fmt.Printf("  %s -> %s (%s)\n", pair.OlderTitle, pair.NewerTitle, pair.Reason)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  error: %s\n", e)
	}

	return nil
}

// buildReembedConfig merges the config file's reembed section with the
// command flags. Explicit flags win.
func buildReembedConfig(c *cli.Context, cfg *config.AppConfig) *reembed.Config {
	reembedConfig := &reembed.Config{
		BatchSize:      cfg.Reembed.BatchSize,
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Workers:        cfg.Reembed.Workers,
	}
	if c.IsSet("batch-size") {
		reembedConfig.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("workers") {
		reembedConfig.Workers = c.Int("workers")
	}
	return reembedConfig
}

func reembedCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	kb, err := openKnowledgeBase(cfg)
	if err != nil {
		return err
	}
	defer kb.Close()

	reembedConfig := buildReembedConfig(c, cfg)
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}
	if reembedConfig.Workers <= 0 {
		reembedConfig.Workers = reembed.DefaultConfig().Workers
	}

	reembedder, err := kb.NewReembedder(reembedConfig, os.Stderr)
	if err != nil {
		return err
	}
	defer reembedder.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Storage.Path)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(context.Background(), c.Bool("force")); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

func statsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	kb, err := openKnowledgeBase(cfg)
	if err != nil {
		return err
	}
	defer kb.Close()

	ctx := context.Background()

	summary, err := kb.DocumentRepository().SupersessionSummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to read document summary: %w", err)
	}

	chunks, err := kb.ChunkRepository().CountChunks(ctx)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}

	cacheStats := kb.EmbeddingCache().Stats(ctx)

	fmt.Printf("Documents: %d (latest: %d, superseded: %d)\n",
		summary.TotalDocuments, summary.LatestVersions, summary.SupersededVersions)
	fmt.Printf("Supersedes links: %d\n", summary.SupersedesLinks)
	fmt.Printf("Chunks: %d\n", chunks)
	fmt.Printf("Cached embeddings: %d\n", cacheStats.Entries)

	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
