package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/venari/internal/models"
)

// ValidateAnalysis checks a parsed analysis against the required field
// set and returns every problem found. match_score is normalised to an
// int and recommendation to lowercase in place, so a clean result can be
// stored as-is.
func ValidateAnalysis(result map[string]interface{}) []string {
	var problems []string

	names := make([]string, 0, len(requiredFields))
	for name := range requiredFields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value, present := result[name]
		if !present || value == nil {
			problems = append(problems, fmt.Sprintf("missing field '%s'", name))
			continue
		}
		switch requiredFields[name] {
		case "string":
			s, ok := value.(string)
			if !ok || strings.TrimSpace(s) == "" {
				problems = append(problems, fmt.Sprintf("field '%s' must be a non-empty string", name))
			}
		case "list":
			if _, ok := value.([]interface{}); !ok {
				problems = append(problems, fmt.Sprintf("field '%s' must be a list", name))
			}
		}
	}

	if value, present := result["match_score"]; present && value != nil {
		score, err := toInt(value)
		if err != nil {
			problems = append(problems, "match_score must be an integer")
		} else if score < 1 || score > 10 {
			problems = append(problems, fmt.Sprintf("match_score must be between 1 and 10, got %d", score))
		} else {
			result["match_score"] = score
		}
	}

	if value, ok := result["recommendation"].(string); ok {
		rec := strings.ToLower(strings.TrimSpace(value))
		if !models.ValidRecommendations[rec] {
			problems = append(problems, fmt.Sprintf("recommendation must be one of apply, maybe, skip; got %q", value))
		} else {
			result["recommendation"] = rec
		}
	}

	return problems
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		return int(n), err
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}
