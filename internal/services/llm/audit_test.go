package llm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/models"
)

func TestAuditWriterAppendsEntries(t *testing.T) {
	dir := t.TempDir()
	requestPath := filepath.Join(dir, "nested", "requests.log")
	responsePath := filepath.Join(dir, "nested", "responses.log")
	audit := NewAuditWriter(requestPath, responsePath, common.GetLogger())

	messages := []Message{
		{Role: "system", Content: "You are an analyst."},
		{Role: "user", Content: "Analyse this job."},
	}
	audit.LogRequest("Data Analyst at Acme (abc123)", 3, "My profile", "gpt-4o-mini", messages)
	audit.LogRequest("Data Analyst at Acme (abc123)", 3, "My profile", "gpt-4o-mini", messages)
	audit.LogResponse("Data Analyst at Acme (abc123)", 3, "My profile", "gpt-4o-mini", `{"match_score": 7}`)

	requests, err := os.ReadFile(requestPath)
	require.NoError(t, err)
	content := string(requests)

	assert.Equal(t, 2, strings.Count(content, strings.Repeat("=", 80)))
	assert.Contains(t, content, "Job       : Data Analyst at Acme (abc123)")
	assert.Contains(t, content, "Prompt    : #3 - My profile")
	assert.Contains(t, content, "Model     : gpt-4o-mini")

	// Header timestamps are UTC
	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(line, "Timestamp : ") {
			continue
		}
		stamp, err := time.Parse(models.TimestampFormat, strings.TrimPrefix(line, "Timestamp : "))
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), stamp, time.Minute)
	}
	assert.Contains(t, content, strings.Repeat("-", 80))
	assert.Contains(t, content, "[SYSTEM]\nYou are an analyst.")
	assert.Contains(t, content, "[USER]\nAnalyse this job.")

	responses, err := os.ReadFile(responsePath)
	require.NoError(t, err)
	assert.Contains(t, string(responses), `{"match_score": 7}`)
}

func TestAuditWriterDisabledPaths(t *testing.T) {
	audit := NewAuditWriter("", "", common.GetLogger())

	// No paths configured means no writes and no panics
	audit.LogRequest("job", 1, "title", "model", nil)
	audit.LogResponse("job", 1, "title", "model", "text")
}
