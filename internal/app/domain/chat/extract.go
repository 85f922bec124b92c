package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/japasea/japasea-server/internal/app/models"
)

// cleanJSONResponse strips markdown code fences and any prose around the
// first balanced JSON object. Generative models wrap JSON in ```json blocks
// or prepend a sentence no matter how firmly the prompt forbids it.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}

	// Braces inside string literals don't count, so a message text like
	// "usa :-}" cannot truncate the object early.
	braceCount := 0
	inString := false
	escaped := false
	lastValidBrace := -1
	for i := firstBrace; i < len(response); i++ {
		c := response[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			braceCount++
		case c == '}':
			braceCount--
			if braceCount == 0 {
				lastValidBrace = i
			}
		}
		if lastValidBrace != -1 {
			break
		}
	}
	if lastValidBrace != -1 {
		return response[firstBrace : lastValidBrace+1]
	}
	return response[firstBrace:]
}

// ExtractJSON parses the model's raw text into a ChatResponse. Failure is the
// models.ErrParseFailure sentinel, a value the orchestrator branches on to
// reach the fallback generator; it is never a panic and never surfaces to the
// HTTP caller.
func ExtractJSON(raw string) (*models.ChatResponse, error) {
	cleaned := cleanJSONResponse(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response text", models.ErrParseFailure)
	}

	var resp models.ChatResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrParseFailure, err)
	}
	return &resp, nil
}
