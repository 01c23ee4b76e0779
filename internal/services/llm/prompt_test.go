package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/models"
)

func testJob() map[string]interface{} {
	min := 60000.0
	max := 80000.0
	return map[string]interface{}{
		"job_id":          "abc123",
		"title":           "Data Analyst",
		"company":         "Acme Corp",
		"location":        "London, UK",
		"remote":          "Hybrid",
		"job_type":        "Full-time",
		"salary_min":      min,
		"salary_max":      max,
		"salary_currency": "GBP",
		"description":     "<p>Analyse <strong>data</strong> for the business.</p>",
	}
}

func TestBuildAnalysisMessages(t *testing.T) {
	prompt := &models.Prompt{
		CV:          "10 years of SQL and Python.",
		AboutMe:     "Analyst based in London.",
		Preferences: "Hybrid roles, 60k minimum.",
	}

	messages := buildAnalysisMessages(prompt, testJob())
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, analysisSystemPrompt, messages[0].Content)

	user := messages[1].Content
	assert.Contains(t, user, "CANDIDATE CV:\n10 years of SQL and Python.")
	assert.Contains(t, user, "Title:    Data Analyst")
	assert.Contains(t, user, "Company:  Acme Corp")
	assert.Contains(t, user, "Salary:   GBP 60000 - 80000")

	// Empty profile sections fall back to a placeholder
	assert.Contains(t, user, "ADDITIONAL CONTEXT:\n(not provided)")

	// The stored HTML is rendered as markdown for the model
	assert.Contains(t, user, "Analyse **data** for the business.")
	assert.NotContains(t, user, "<strong>")
}

func TestBuildAnalysisMessagesDefaults(t *testing.T) {
	job := map[string]interface{}{
		"title":   "Engineer",
		"company": "Acme",
	}
	messages := buildAnalysisMessages(&models.Prompt{}, job)

	user := messages[1].Content
	assert.Contains(t, user, "CANDIDATE CV:\n(not provided)")
	assert.Contains(t, user, "Remote:   Not specified")
	assert.Contains(t, user, "Job Type: Not specified")
	assert.Contains(t, user, "Salary:   Not specified")
}

func TestFormatSalary(t *testing.T) {
	min := 50000.0
	max := 70000.0

	tests := []struct {
		name string
		job  map[string]interface{}
		want string
	}{
		{"range", map[string]interface{}{"salary_min": min, "salary_max": max, "salary_currency": "EUR"}, "EUR 50000 - 70000"},
		{"min only", map[string]interface{}{"salary_min": min, "salary_currency": "USD"}, "USD 50000+"},
		{"max only", map[string]interface{}{"salary_max": max, "salary_currency": "USD"}, "USD up to 70000"},
		{"default currency", map[string]interface{}{"salary_min": min}, "USD 50000+"},
		{"unset", map[string]interface{}{}, "Not specified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSalary(tt.job))
		})
	}
}
