package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/models"
)

func TestFavourites_AddIsIdempotent(t *testing.T) {
	mgr := newTestManager(t)
	triage := mgr.TriageStorage()

	j := sampleJob("S", "https://x/1", "Engineer")
	_, err := mgr.JobStorage().SaveJobs([]*models.Job{j})
	require.NoError(t, err)

	added, err := triage.AddFavourite(j.JobID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = triage.AddFavourite(j.JobID)
	require.NoError(t, err)
	assert.False(t, added)

	fav, err := triage.IsFavourite(j.JobID)
	require.NoError(t, err)
	assert.True(t, fav)

	removed, err := triage.RemoveFavourite(j.JobID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = triage.RemoveFavourite(j.JobID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestApplications_NotesRoundTrip(t *testing.T) {
	mgr := newTestManager(t)
	triage := mgr.TriageStorage()

	j := sampleJob("S", "https://x/1", "Engineer")
	_, err := mgr.JobStorage().SaveJobs([]*models.Job{j})
	require.NoError(t, err)

	added, err := triage.AddApplication(j.JobID, "first contact")
	require.NoError(t, err)
	assert.True(t, added)

	updated, err := triage.UpdateApplicationNotes(j.JobID, "interview booked")
	require.NoError(t, err)
	assert.True(t, updated)

	apps, err := triage.GetApplications("applied_at", false)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "interview booked", apps[0]["application_notes"])
	assert.NotEmpty(t, apps[0]["applied_at"])

	updated, err = triage.UpdateApplicationNotes("missing", "x")
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestNotInterested_IDSet(t *testing.T) {
	mgr := newTestManager(t)
	triage := mgr.TriageStorage()

	a := sampleJob("S", "https://x/1", "A")
	b := sampleJob("S", "https://x/2", "B")
	_, err := mgr.JobStorage().SaveJobs([]*models.Job{a, b})
	require.NoError(t, err)

	_, err = triage.AddNotInterested(a.JobID)
	require.NoError(t, err)

	ids, err := triage.GetNotInterestedIDs()
	require.NoError(t, err)
	assert.Contains(t, ids, a.JobID)
	assert.NotContains(t, ids, b.JobID)
}
