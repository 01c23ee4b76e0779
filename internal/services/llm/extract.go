package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedJSONPattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]+?)\\s*```")

// ExtractJSON pulls the analysis object out of a model response. Models
// are told to return bare JSON, but local models in particular like to
// wrap it in code fences or preamble, so three strategies are tried in
// order: the whole response, the first fenced block, and the outermost
// brace pair.
func ExtractJSON(raw string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty response")
	}

	if result, ok := parseObject(trimmed); ok {
		return result, nil
	}

	if match := fencedJSONPattern.FindStringSubmatch(trimmed); match != nil {
		if result, ok := parseObject(match[1]); ok {
			return result, nil
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		if result, ok := parseObject(trimmed[start : end+1]); ok {
			return result, nil
		}
	}

	return nil, fmt.Errorf("no parseable JSON object in response")
}

func parseObject(candidate string) (map[string]interface{}, bool) {
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return nil, false
	}
	if result == nil {
		return nil, false
	}
	return result, true
}
