package extract

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/scholarkb/core"
	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML header an authored markdown file may carry.
type frontMatter struct {
	Title    string   `yaml:"title"`
	Authors  []string `yaml:"authors"`
	Author   string   `yaml:"author"`
	Keywords []string `yaml:"keywords"`
	Tags     []string `yaml:"tags"`
	Date     string   `yaml:"date"`
}

// MarkdownExtractor extracts text from markdown files. A YAML front
// matter block, when present, supplies the title, authors, and
// keywords; otherwise the first # heading or the file name is used.
type MarkdownExtractor struct {
	logger *slog.Logger
}

var _ Extractor = (*MarkdownExtractor)(nil)

// NewMarkdownExtractor creates a markdown extractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{
		logger: slog.Default().With("component", "markdown-extractor"),
	}
}

// Extract reads a markdown file, splitting off front matter if present.
func (e *MarkdownExtractor) Extract(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	meta, body := splitFrontMatter(string(raw))
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyDocument
	}

	result := &Result{
		Text: body,
		Type: core.DocumentTypeMarkdown,
	}

	if meta != nil {
		result.Title = strings.TrimSpace(meta.Title)
		result.Authors = meta.Authors
		if len(result.Authors) == 0 && meta.Author != "" {
			result.Authors = []string{meta.Author}
		}
		result.Keywords = meta.Keywords
		if len(result.Keywords) == 0 {
			result.Keywords = meta.Tags
		}
		result.PublishedAt = parseFrontMatterDate(meta.Date)
	}

	if result.Title == "" {
		result.Title = firstHeading(body)
	}
	if result.Title == "" {
		result.Title = titleFromPath(path)
	}

	e.logger.Debug("extracted markdown", "path", path, "chars", len(body))
	return result, nil
}

// splitFrontMatter separates a leading YAML front matter block from the
// body. Malformed front matter is ignored and left in the body.
func splitFrontMatter(content string) (*frontMatter, string) {
	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return nil, content
	}

	rest := content[strings.Index(content, "\n")+1:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, content
	}

	block := rest[:end]
	body := rest[end+len("\n---"):]
	// Drop the remainder of the closing delimiter line
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = ""
	}

	var meta frontMatter
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, content
	}
	return &meta, body
}

// parseFrontMatterDate accepts the date formats authors actually write.
// Unparseable dates yield the zero time.
func parseFrontMatterDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// firstHeading returns the text of the first level-1 heading, if any.
func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}
