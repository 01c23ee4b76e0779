package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAnalysis() map[string]interface{} {
	return map[string]interface{}{
		"keywords":                    []interface{}{"go", "backend"},
		"key_skills":                  []interface{}{"Go", "SQL"},
		"job_description":             "Backend role building services.",
		"key_responsibilities":        []interface{}{"Build APIs"},
		"match_score":                 float64(7),
		"score_reasoning":             "Strong overlap with the CV.",
		"skills_we_have":              []interface{}{"Go"},
		"skills_we_are_missing":       []interface{}{"Kafka"},
		"cover_letter_talking_points": []interface{}{"Mention the Go services"},
		"red_flags":                   []interface{}{},
		"interview_prep_topics":       []interface{}{"Concurrency"},
		"application_tips":            "Lead with the platform work.",
		"company_type":                "Scale-up",
		"company_size_estimate":       "Mid-size company (~500 employees)",
		"company_highlights":          []interface{}{"Series B in 2024"},
		"recommendation":              "apply",
		"recommendation_notes":        "Good fit overall.",
	}
}

func TestValidateAnalysisClean(t *testing.T) {
	analysis := validAnalysis()
	problems := ValidateAnalysis(analysis)
	assert.Empty(t, problems)

	// Score and recommendation are normalised in place
	assert.Equal(t, 7, analysis["match_score"])
	assert.Equal(t, "apply", analysis["recommendation"])
}

func TestValidateAnalysisMissingField(t *testing.T) {
	analysis := validAnalysis()
	delete(analysis, "score_reasoning")

	problems := ValidateAnalysis(analysis)
	require.Len(t, problems, 1)
	assert.Equal(t, "missing field 'score_reasoning'", problems[0])
}

func TestValidateAnalysisWrongTypes(t *testing.T) {
	analysis := validAnalysis()
	analysis["keywords"] = "go, backend"
	analysis["application_tips"] = "   "

	problems := ValidateAnalysis(analysis)
	assert.Len(t, problems, 2)
}

func TestValidateAnalysisScoreNormalisation(t *testing.T) {
	for _, value := range []interface{}{float64(8), "8", int64(8)} {
		analysis := validAnalysis()
		analysis["match_score"] = value

		problems := ValidateAnalysis(analysis)
		assert.Empty(t, problems)
		assert.Equal(t, 8, analysis["match_score"])
	}
}

func TestValidateAnalysisScoreOutOfRange(t *testing.T) {
	for _, value := range []interface{}{float64(0), float64(11)} {
		analysis := validAnalysis()
		analysis["match_score"] = value

		problems := ValidateAnalysis(analysis)
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0], "between 1 and 10")
	}
}

func TestValidateAnalysisScoreNotInteger(t *testing.T) {
	analysis := validAnalysis()
	analysis["match_score"] = 7.5

	problems := ValidateAnalysis(analysis)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "integer")
}

func TestValidateAnalysisRecommendationNormalised(t *testing.T) {
	analysis := validAnalysis()
	analysis["recommendation"] = "  Apply "

	problems := ValidateAnalysis(analysis)
	assert.Empty(t, problems)
	assert.Equal(t, "apply", analysis["recommendation"])
}

func TestValidateAnalysisRecommendationInvalid(t *testing.T) {
	analysis := validAnalysis()
	analysis["recommendation"] = "definitely"

	problems := ValidateAnalysis(analysis)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "definitely")
}
