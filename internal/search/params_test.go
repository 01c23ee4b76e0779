package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSavedParams(t *testing.T) {
	req, err := ParseSavedParams(`{
		"keywords": "golang, backend",
		"location": "London",
		"remote": "Remote",
		"salary_min": "90000",
		"sources": ["RemoteOK", "Remotive"],
		"posted_in_last_days": 7
	}`, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"golang", "backend"}, req.Keywords)
	assert.Equal(t, "London", req.Location)
	assert.Equal(t, "Remote", req.Remote)
	require.NotNil(t, req.SalaryMin)
	assert.Equal(t, 90000.0, *req.SalaryMin)
	assert.Equal(t, []string{"RemoteOK", "Remotive"}, req.Sources)
	assert.Equal(t, 7, req.PostedInLastDays)
}

func TestParseSavedParamsDefaults(t *testing.T) {
	req, err := ParseSavedParams(`{}`, []string{"software engineer"})
	require.NoError(t, err)

	assert.Equal(t, []string{"software engineer"}, req.Keywords)
	assert.Equal(t, "Any", req.Remote)
	assert.Nil(t, req.SalaryMin)
	assert.Zero(t, req.MaxResultsPerSource)
}

func TestParseSavedParamsListKeywords(t *testing.T) {
	req, err := ParseSavedParams(`{"keywords": ["golang", " sre "]}`, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "sre"}, req.Keywords)
}

func TestParseSavedParamsMalformed(t *testing.T) {
	_, err := ParseSavedParams(`not json`, nil)
	assert.Error(t, err)
}
