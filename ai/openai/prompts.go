package openai

import "fmt"

const metadataResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "abstract": {
      "type": "string"
    },
    "keywords": {
      "type": "array",
      "items": {
        "type": "string",
        "pattern": "^[a-z0-9]+( [a-z0-9]+)*$"
      }
    }
  },
  "required": ["abstract", "keywords"],
  "additionalProperties": false
}`

const metadataPromptTemplate = `Summarize the given research document excerpt and return the result as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The abstract is 1-3 sentences describing what the document is about and its main findings or claims.
- Keywords must be lowercase, 1-3 words each, most relevant first, at most %d entries.
- Base the abstract and keywords only on what the excerpt actually says. Do not hallucinate.
- If the excerpt contains no usable content, return an empty abstract and "keywords": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input title: "Attention Is All You Need"
Input text: "The dominant sequence transduction models are based on complex recurrent or convolutional neural networks..."
Output:
{
  "abstract": "Introduces the Transformer, a sequence transduction architecture built entirely on attention mechanisms, removing recurrence and convolution.",
  "keywords": ["transformer", "attention", "sequence transduction", "neural network"]
}`

// buildSystemPrompt creates the system prompt with the keyword cap embedded.
func buildSystemPrompt(maxKeywords int) string {
	return fmt.Sprintf(metadataPromptTemplate, metadataResponseSchema, maxKeywords)
}
