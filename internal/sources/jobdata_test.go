package sources

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/models"
)

func TestJobDataAnonBudget(t *testing.T) {
	source := NewJobData(nil, &common.JobDataConfig{}, filepath.Join(t.TempDir(), "ratelimit.json"), common.GetLogger())

	for i := 0; i < jobdataAnonPerHour; i++ {
		assert.True(t, source.anonBudget(), "request %d should be within budget", i+1)
	}
	// The ledger persists across calls, so the 11th request is refused
	assert.False(t, source.anonBudget())
}

func TestJobDataSortKey(t *testing.T) {
	dated := &models.Job{DatePosted: "2026-08-10"}
	newer := &models.Job{DatePosted: "2026-08-20"}
	undated := &models.Job{DatePosted: "about a week ago"}

	assert.Greater(t, jobdataSortKey(newer), jobdataSortKey(dated))
	assert.Greater(t, jobdataSortKey(dated), jobdataSortKey(undated))
}
