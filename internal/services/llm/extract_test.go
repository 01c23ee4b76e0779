package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONDirect(t *testing.T) {
	result, err := ExtractJSON(`{"match_score": 7, "recommendation": "apply"}`)
	require.NoError(t, err)
	assert.Equal(t, float64(7), result["match_score"])
}

func TestExtractJSONFenced(t *testing.T) {
	raw := "Here is the analysis:\n```json\n{\"match_score\": 5}\n```\nHope that helps!"
	result, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, float64(5), result["match_score"])
}

func TestExtractJSONFencedWithoutLanguage(t *testing.T) {
	result, err := ExtractJSON("```\n{\"recommendation\": \"skip\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "skip", result["recommendation"])
}

func TestExtractJSONOutermostBraces(t *testing.T) {
	raw := `Sure! Based on the CV the result is {"match_score": 3, "nested": {"ok": true}} as requested.`
	result, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, float64(3), result["match_score"])
	assert.Contains(t, result, "nested")
}

func TestExtractJSONNoObject(t *testing.T) {
	_, err := ExtractJSON("I cannot analyse this job, sorry.")
	assert.Error(t, err)
}

func TestExtractJSONEmpty(t *testing.T) {
	_, err := ExtractJSON("   \n  ")
	assert.Error(t, err)
}

func TestExtractJSONArrayRejected(t *testing.T) {
	_, err := ExtractJSON(`[1, 2, 3]`)
	assert.Error(t, err)
}
