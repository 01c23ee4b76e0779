package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
)

func seedAnalysis(t *testing.T, mgr interfaces.StorageManager, result string) (string, int64) {
	t.Helper()

	j := sampleJob("S", "https://x/analysed", "Engineer")
	_, err := mgr.JobStorage().SaveJobs([]*models.Job{j})
	require.NoError(t, err)

	p, err := mgr.PromptStorage().CreatePrompt(&models.Prompt{Title: "P", Model: "llama3.1"})
	require.NoError(t, err)

	_, err = mgr.AnalysisStorage().SaveAnalysis(j.JobID, p.ID, "llama3.1", result)
	require.NoError(t, err)
	return j.JobID, p.ID
}

func TestSaveAnalysis_UpsertsPerJobAndPrompt(t *testing.T) {
	mgr := newTestManager(t)
	jobID, promptID := seedAnalysis(t, mgr, `{"match_score": 5, "recommendation": "maybe"}`)

	id2, err := mgr.AnalysisStorage().SaveAnalysis(jobID, promptID, "gpt-4o",
		`{"match_score": 8, "recommendation": "apply"}`)
	require.NoError(t, err)

	analyses, err := mgr.AnalysisStorage().GetAnalysesForJob(jobID)
	require.NoError(t, err)
	require.Len(t, analyses, 1)
	assert.Equal(t, id2, analyses[0]["id"])
	assert.Equal(t, "gpt-4o", analyses[0]["model"])
	assert.Contains(t, analyses[0]["result"], `"match_score": 8`)
}

func TestListAnalyses_ScoreAndRecommendationFilters(t *testing.T) {
	mgr := newTestManager(t)
	_, _ = seedAnalysis(t, mgr, `{"match_score": 8, "recommendation": "Apply"}`)

	low := sampleJob("S", "https://x/low", "Junior Engineer")
	_, err := mgr.JobStorage().SaveJobs([]*models.Job{low})
	require.NoError(t, err)
	p, err := mgr.PromptStorage().GetActivePrompt()
	require.NoError(t, err)
	if p == nil {
		all, err := mgr.PromptStorage().ListPrompts()
		require.NoError(t, err)
		require.NotEmpty(t, all)
		p = all[0]
	}
	_, err = mgr.AnalysisStorage().SaveAnalysis(low.JobID, p.ID, "llama3.1",
		`{"match_score": 3, "recommendation": "skip"}`)
	require.NoError(t, err)

	rows, total, err := mgr.AnalysisStorage().ListAnalyses(interfaces.AnalysisListOptions{MinScore: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Engineer", rows[0]["title"])

	// Recommendation match is case-insensitive
	rows, total, err = mgr.AnalysisStorage().ListAnalyses(interfaces.AnalysisListOptions{
		Recommendations: []string{"APPLY"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)

	rows, total, err = mgr.AnalysisStorage().ListAnalyses(interfaces.AnalysisListOptions{Query: "junior"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Junior Engineer", rows[0]["title"])
}
