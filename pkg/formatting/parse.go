package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when no JSON object can be extracted from content.
var ErrParseFailed = errors.New("failed to parse response")

var fenceRegex = regexp.MustCompile("(?i)```json|```")

// Extract locates the JSON object embedded in model output and decodes it
// into a generic map. See Parse for the extraction rules.
func Extract(content string) (map[string]any, error) {
	obj, err := Parse[map[string]any](content)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: null object", ErrParseFailed)
	}
	return obj, nil
}

// Parse strips markdown code fence markers from content, takes the span from
// the first '{' to the last '}' inclusive, and unmarshals it into T.
// Surrounding prose is ignored. Malformed JSON inside the span is not
// repaired: any failure returns ErrParseFailed.
func Parse[T any](content string) (T, error) {
	var result T

	cleaned := strings.TrimSpace(fenceRegex.ReplaceAllString(content, ""))

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return result, fmt.Errorf("%w: no JSON object in %q", ErrParseFailed, content)
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	return result, nil
}
