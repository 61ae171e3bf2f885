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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/scholarkb/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// MetadataExtractor implements ai.MetadataExtractor using OpenAI-compatible chat APIs.
type MetadataExtractor struct {
	client      llms.Model
	maxKeywords int
	logger      *slog.Logger
}

// metadataResponse matches the JSON structure expected from the LLM.
type metadataResponse struct {
	Abstract string   `json:"abstract"`
	Keywords []string `json:"keywords"`
}

// newMetadataExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newMetadataExtractor(config *ai.Config) (*MetadataExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &MetadataExtractor{
		client:      client,
		maxKeywords: config.MaxKeywords,
		logger:      slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewMetadataExtractor creates a new metadata extractor using the provided configuration.
//
// Returns ai.MetadataExtractor interface to enforce abstraction.
func NewMetadataExtractor(config *ai.Config) (ai.MetadataExtractor, error) {
	return newMetadataExtractor(config)
}

// ExtractMetadata derives an abstract and keywords from a document's
// title and leading text using an LLM.
func (e *MetadataExtractor) ExtractMetadata(ctx context.Context, title, text string) (*ai.DocumentMetadata, error) {
	systemPrompt := buildSystemPrompt(e.maxKeywords)
	userPrompt := "Title: " + title + "\n\n" + text

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result metadataResponse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return &ai.DocumentMetadata{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
		return nil, lastErr
	}

	keywords := make([]string, 0, len(result.Keywords))
	for _, kw := range result.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
		if len(keywords) >= e.maxKeywords {
			break
		}
	}

	e.logger.Debug("extracted metadata",
		"abstract_length", len(result.Abstract),
		"keywords", len(keywords))

	return &ai.DocumentMetadata{
		Abstract: strings.TrimSpace(result.Abstract),
		Keywords: keywords,
	}, nil
}
