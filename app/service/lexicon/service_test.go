package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	svc, err := New(nil)
	require.NoError(t, err)

	return svc
}

func TestDefaultsLoaded(t *testing.T) {
	svc := newTestService(t)

	snap := svc.Snapshot()

	assert.Equal(t, uint64(1), snap.Version)
	assert.NotEmpty(t, snap.BlockedTerms)
	assert.NotEmpty(t, snap.DisallowedTopics)
	assert.NotEmpty(t, snap.AllowedTerms)
}

func TestAddTermDeduplicates(t *testing.T) {
	svc := newTestService(t)

	before := svc.Stats()

	require.True(t, svc.AddBlockedTerm("늑대인간"))
	assert.False(t, svc.AddBlockedTerm("늑대인간"))

	after := svc.Stats()
	assert.Equal(t, before.BlockedTerms+1, after.BlockedTerms)
}

func TestAddTermFoldsCase(t *testing.T) {
	svc := newTestService(t)

	require.True(t, svc.AddBlockedTerm("BADWORD"))

	assert.Contains(t, svc.Snapshot().BlockedTerms, "badword")
	assert.False(t, svc.AddBlockedTerm("badword"))
}

func TestRemoveTerm(t *testing.T) {
	svc := newTestService(t)

	require.True(t, svc.AddAllowedTerm("임시키워드"))
	require.True(t, svc.RemoveAllowedTerm("임시키워드"))

	assert.False(t, svc.RemoveAllowedTerm("임시키워드"))
	assert.NotContains(t, svc.Snapshot().AllowedTerms, "임시키워드")
}

func TestSnapshotIsolation(t *testing.T) {
	svc := newTestService(t)

	old := svc.Snapshot()
	oldCount := len(old.DisallowedTopics)

	require.True(t, svc.AddDisallowedTopic("점성술"))

	// the snapshot taken before the mutation never changes
	assert.Len(t, old.DisallowedTopics, oldCount)

	current := svc.Snapshot()
	assert.Len(t, current.DisallowedTopics, oldCount+1)
	assert.Greater(t, current.Version, old.Version)
}

func TestStatsMatchSnapshot(t *testing.T) {
	svc := newTestService(t)

	snap := svc.Snapshot()
	stats := svc.Stats()

	assert.Equal(t, snap.Version, stats.Version)
	assert.Equal(t, len(snap.BlockedTerms), stats.BlockedTerms)
	assert.Equal(t, len(snap.DisallowedTopics), stats.DisallowedTopics)
	assert.Equal(t, len(snap.AllowedTerms), stats.AllowedTerms)
	assert.False(t, stats.LastUpdated.IsZero())
}
