package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/poiesic/scholarkb/core"
)

// PDFExtractor extracts text from PDF files using docconv, which
// shells out to pdftotext when available.
type PDFExtractor struct {
	logger *slog.Logger
}

var _ Extractor = (*PDFExtractor)(nil)

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{
		logger: slog.Default().With("component", "pdf-extractor"),
	}
}

// Extract converts a PDF file to plain text. The title comes from the
// PDF metadata when present, otherwise from the file name.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := docconv.ConvertPath(path)
	if err != nil {
		e.logger.Error("pdf conversion failed", "path", path, "err", err)
		return nil, err
	}

	text := strings.TrimSpace(res.Body)
	if text == "" {
		return nil, ErrEmptyDocument
	}

	title := strings.TrimSpace(res.Meta["Title"])
	if title == "" {
		title = titleFromPath(path)
	}

	var authors []string
	if author := strings.TrimSpace(res.Meta["Author"]); author != "" {
		authors = append(authors, author)
	}

	e.logger.Debug("extracted pdf", "path", path, "chars", len(text))

	return &Result{
		Title:   title,
		Text:    text,
		Type:    core.DocumentTypePDF,
		Authors: authors,
		Extra:   leftoverMeta(res.Meta),
	}, nil
}

// leftoverMeta serializes PDF metadata fields that have no dedicated
// document field, so they survive storage round trips.
func leftoverMeta(meta map[string]string) string {
	extra := make(map[string]string)
	for key, value := range meta {
		if key == "Title" || key == "Author" {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			extra[key] = value
		}
	}
	if len(extra) == 0 {
		return ""
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return ""
	}
	return string(data)
}
