package sources

import "strings"

// NormalizeKeywords returns the non-empty trimmed keywords. An empty
// result falls back to the defaults, or to ["job"] when no defaults are
// given, so every source searches one term at a time instead of a
// concatenated string.
func NormalizeKeywords(keywords, defaults []string) []string {
	result := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if trimmed := strings.TrimSpace(kw); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) > 0 {
		return result
	}
	if defaults != nil {
		return defaults
	}
	return []string{"job"}
}

// MatchesKeywords reports whether any keyword, or a meaningful part of
// one, appears in the text. A keyword matches when the full phrase is
// present, or when any multi-word prefix of it is (so "machine learning
// engineer" matches a posting that only says "machine learning").
// Case-insensitive; an empty keyword list matches everything.
func MatchesKeywords(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	textLower := strings.ToLower(text)

	for _, kw := range keywords {
		kwLower := strings.ToLower(strings.TrimSpace(kw))
		if kwLower == "" {
			continue
		}
		if strings.Contains(textLower, kwLower) {
			return true
		}
		// Prefixes of at least two words, to avoid single-word noise
		words := strings.Fields(kwLower)
		for n := 2; n <= len(words); n++ {
			if strings.Contains(textLower, strings.Join(words[:n], " ")) {
				return true
			}
		}
	}
	return false
}
