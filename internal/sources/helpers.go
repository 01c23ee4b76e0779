package sources

import "strings"

// salaryExcluded applies the shared salary convention: a job is excluded
// only when its known salary maximum sits below the requested minimum
func salaryExcluded(wanted *float64, salaryMax *float64) bool {
	return wanted != nil && salaryMax != nil && *salaryMax < *wanted
}

// joinList renders a list field as a comma-separated string
func joinList(items []string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

// searchable builds the haystack text for client-side keyword matching
func searchable(parts ...string) string {
	return strings.Join(parts, " ")
}

// containsFold reports whether substr occurs in s, case-insensitively
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// titleCase uppercases the first letter of each word ("full time" to
// "Full Time")
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
