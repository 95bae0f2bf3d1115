package versioning_test

import (
	"testing"
	"time"

	"mythos-backend/domain/versioning"
	pkgerrors "mythos-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistory_SeedsInitialVersion(t *testing.T) {
	now := time.Now()

	h := versioning.NewHistory("first draft", now)

	assert.Equal(t, 1, h.Len())
	current := h.Current()
	assert.Equal(t, "first draft", current.Content)
	assert.Equal(t, versioning.TriggerCreation, current.Trigger)
	assert.Equal(t, current.ID, h.CurrentID())
}

func TestHistory_AppendMovesCurrent(t *testing.T) {
	h := versioning.NewHistory("v1", time.Now())

	v2 := h.Append("v2", versioning.TriggerOpApplied, time.Now())
	v3 := h.Append("v3", versioning.TriggerAIIteration, time.Now())

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, v3.ID, h.CurrentID())
	assert.Equal(t, "v3", h.Current().Content)
	assert.NotEqual(t, v2.ID, v3.ID)

	versions := h.Versions()
	assert.Equal(t, "v1", versions[0].Content)
	assert.Equal(t, "v2", versions[1].Content)
	assert.Equal(t, "v3", versions[2].Content)
}

func TestHistory_RestoreIsNonDestructive(t *testing.T) {
	h := versioning.NewHistory("v1", time.Now())
	first := h.Current()
	h.Append("v2", versioning.TriggerOpApplied, time.Now())
	third := h.Append("v3", versioning.TriggerOpApplied, time.Now())

	restored, err := h.Restore(first.ID)

	require.NoError(t, err)
	assert.Equal(t, "v1", restored.Content)
	assert.Equal(t, first.ID, h.CurrentID())
	// Later versions stay reachable; scrubbing forward works
	assert.Equal(t, 3, h.Len())
	forward, err := h.Restore(third.ID)
	require.NoError(t, err)
	assert.Equal(t, "v3", forward.Content)
}

func TestHistory_RestoreUnknownVersion(t *testing.T) {
	h := versioning.NewHistory("v1", time.Now())

	_, err := h.Restore("no-such-version")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeVersionNotFound))
}

func TestHistory_TracksUncommittedVersions(t *testing.T) {
	h := versioning.NewHistory("v1", time.Now())

	// The seed snapshot has never been persisted
	require.Len(t, h.UncommittedVersions(), 1)

	h.MarkVersionsCommitted()
	assert.Empty(t, h.UncommittedVersions())

	v2 := h.Append("v2", versioning.TriggerOpApplied, time.Now())
	v3 := h.Append("v3", versioning.TriggerOpApplied, time.Now())

	uncommitted := h.UncommittedVersions()
	require.Len(t, uncommitted, 2)
	assert.Equal(t, v2.ID, uncommitted[0].ID)
	assert.Equal(t, v3.ID, uncommitted[1].ID)
	assert.Equal(t, 3, h.Len())

	h.MarkVersionsCommitted()
	assert.Empty(t, h.UncommittedVersions())
	assert.Equal(t, 3, h.Len())
}

func TestReconstructHistory(t *testing.T) {
	now := time.Now()
	versions := []versioning.Version{
		{ID: "a", Content: "v1", Timestamp: now, Trigger: versioning.TriggerCreation},
		{ID: "b", Content: "v2", Timestamp: now, Trigger: versioning.TriggerManual},
	}

	h, err := versioning.ReconstructHistory(versions, "a")

	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "v1", h.Current().Content)
	// Reconstructed snapshots are already persisted
	assert.Empty(t, h.UncommittedVersions())
}

func TestReconstructHistory_Rejections(t *testing.T) {
	now := time.Now()
	versions := []versioning.Version{
		{ID: "a", Content: "v1", Timestamp: now, Trigger: versioning.TriggerCreation},
	}

	_, err := versioning.ReconstructHistory(nil, "a")
	assert.Error(t, err)

	_, err = versioning.ReconstructHistory(versions, "missing")
	assert.Error(t, err)
}
