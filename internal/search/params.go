package search

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// savedParams mirrors the search form payload stored with a saved
// search. Numbers may arrive as strings and keywords as a comma string
// or a list.
type savedParams struct {
	Keywords            interface{} `json:"keywords"`
	Location            string      `json:"location"`
	Remote              string      `json:"remote"`
	JobType             string      `json:"job_type"`
	SalaryMin           interface{} `json:"salary_min"`
	ExperienceLevel     string      `json:"experience_level"`
	Sources             []string    `json:"sources"`
	MaxResultsPerSource interface{} `json:"max_results_per_source"`
	PostedInLastDays    interface{} `json:"posted_in_last_days"`
}

// ParseSavedParams decodes a saved search's params blob into a Request.
// Zero or malformed fields fall back to defaults so an old saved search
// still runs.
func ParseSavedParams(params string, defaultKeywords []string) (Request, error) {
	var p savedParams
	if err := json.Unmarshal([]byte(params), &p); err != nil {
		return Request{}, fmt.Errorf("failed to decode saved search params: %w", err)
	}

	keywords := looseKeywords(p.Keywords)
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	remote := p.Remote
	if remote == "" {
		remote = "Any"
	}

	return Request{
		Keywords:            keywords,
		Location:            p.Location,
		Remote:              remote,
		JobType:             p.JobType,
		SalaryMin:           looseFloat(p.SalaryMin),
		ExperienceLevel:     p.ExperienceLevel,
		Sources:             p.Sources,
		MaxResultsPerSource: looseInt(p.MaxResultsPerSource),
		PostedInLastDays:    looseInt(p.PostedInLastDays),
	}, nil
}

func looseKeywords(value interface{}) []string {
	switch v := value.(type) {
	case string:
		var keywords []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				keywords = append(keywords, part)
			}
		}
		return keywords
	case []interface{}:
		var keywords []string
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				keywords = append(keywords, strings.TrimSpace(s))
			}
		}
		return keywords
	}
	return nil
}

func looseFloat(value interface{}) *float64 {
	switch v := value.(type) {
	case float64:
		if v > 0 {
			return &v
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f > 0 {
			return &f
		}
	}
	return nil
}

func looseInt(value interface{}) int {
	switch v := value.(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
