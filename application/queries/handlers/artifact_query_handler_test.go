package handlers

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"mythos-backend/application/queries"
	"mythos-backend/application/registry"
	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/versioning"
	"mythos-backend/infrastructure/persistence/memory"
	pkgerrors "mythos-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryFixture(t *testing.T) (*ArtifactQueryHandler, *memory.ArtifactRepository, *registry.Registry) {
	t.Helper()
	repo := memory.NewArtifactRepository()
	reg := registry.New(nil)
	return NewArtifactQueryHandler(repo, reg, zap.NewNop()), repo, reg
}

func storeArtifact(t *testing.T, repo *memory.ArtifactRepository, title string) *entities.Artifact {
	t.Helper()
	artifact, err := entities.NewArtifact("project-1", title, entities.TypeProse, entities.FormatMarkdown, "content", "user-123")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), artifact))
	return artifact
}

func TestArtifactQueryHandler_GetArtifact(t *testing.T) {
	handler, repo, _ := newQueryFixture(t)
	artifact := storeArtifact(t, repo, "Chapter One")
	_, err := artifact.AppendMessage(entities.RoleUser, "tighten the pacing", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), artifact))

	result, err := handler.GetArtifact(context.Background(), queries.GetArtifactQuery{
		ProjectID: "project-1",
		Key:       artifact.Key().String(),
	})

	require.NoError(t, err)
	assert.Equal(t, "Chapter One", result.Title)
	assert.Equal(t, "prose", result.Kind)
	assert.Equal(t, artifact.CurrentVersionID(), result.CurrentVersionID)
	assert.Equal(t, 1, result.VersionCount)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "tighten the pacing", result.Messages[0].Content)
}

func TestArtifactQueryHandler_GetArtifact_NotFound(t *testing.T) {
	handler, repo, _ := newQueryFixture(t)
	artifact := storeArtifact(t, repo, "Chapter One")

	_, err := handler.GetArtifact(context.Background(), queries.GetArtifactQuery{
		ProjectID: "other-project",
		Key:       artifact.Key().String(),
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestArtifactQueryHandler_ListArtifacts(t *testing.T) {
	handler, repo, _ := newQueryFixture(t)
	storeArtifact(t, repo, "One")
	storeArtifact(t, repo, "Two")

	result, err := handler.ListArtifacts(context.Background(), queries.ListArtifactsQuery{ProjectID: "project-1"})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	// Listings never inline the transcript
	for _, a := range result.Artifacts {
		assert.Empty(t, a.Messages)
	}
}

func TestArtifactQueryHandler_GetVersions(t *testing.T) {
	handler, repo, _ := newQueryFixture(t)
	artifact := storeArtifact(t, repo, "Chapter One")
	artifact.CommitOperationResult("revised content", "text.block.update", true)
	firstID := artifact.History().Versions()[0].ID
	require.NoError(t, artifact.RestoreVersion(firstID))
	require.NoError(t, repo.Save(context.Background(), artifact))

	result, err := handler.GetVersions(context.Background(), queries.GetVersionsQuery{
		ProjectID: "project-1",
		Key:       artifact.Key().String(),
	})

	require.NoError(t, err)
	require.Len(t, result.Versions, 2)
	assert.True(t, result.Versions[0].Current)
	assert.False(t, result.Versions[1].Current)
	assert.Equal(t, string(versioning.TriggerCreation), result.Versions[0].Trigger)
	assert.Equal(t, string(versioning.TriggerOpApplied), result.Versions[1].Trigger)
	assert.Equal(t, len("revised content"), result.Versions[1].Size)
}

func TestArtifactQueryHandler_GetRecent_FiltersByProject(t *testing.T) {
	handler, repo, reg := newQueryFixture(t)
	mine := storeArtifact(t, repo, "Mine")
	require.NoError(t, reg.Put(mine))

	other, err := entities.NewArtifact("project-2", "Theirs", entities.TypeProse, entities.FormatMarkdown, "x", "user-456")
	require.NoError(t, err)
	require.NoError(t, reg.Put(other))

	result, err := handler.GetRecent(context.Background(), queries.GetRecentQuery{ProjectID: "project-1"})

	require.NoError(t, err)
	require.Len(t, result.Artifacts, 1)
	assert.Equal(t, "Mine", result.Artifacts[0].Title)
}

func TestArtifactQueryHandler_GetSplitView(t *testing.T) {
	handler, repo, reg := newQueryFixture(t)

	// No pairing yet
	result, err := handler.GetSplitView(context.Background(), queries.GetSplitViewQuery{ProjectID: "project-1"})
	require.NoError(t, err)
	assert.False(t, result.Active)

	left := storeArtifact(t, repo, "Left")
	right := storeArtifact(t, repo, "Right")
	require.NoError(t, reg.Put(left))
	require.NoError(t, reg.Put(right))
	require.NoError(t, reg.SetSplitView(left.Key(), right.Key()))

	result, err = handler.GetSplitView(context.Background(), queries.GetSplitViewQuery{ProjectID: "project-1"})

	require.NoError(t, err)
	assert.True(t, result.Active)
	require.NotNil(t, result.Left)
	require.NotNil(t, result.Right)
	assert.Equal(t, "Left", result.Left.Title)
	assert.Equal(t, "Right", result.Right.Title)
}

func TestArtifactQueryHandler_ValidatesQueries(t *testing.T) {
	handler, _, _ := newQueryFixture(t)

	_, err := handler.GetArtifact(context.Background(), queries.GetArtifactQuery{})
	assert.Error(t, err)

	_, err = handler.ListArtifacts(context.Background(), queries.ListArtifactsQuery{})
	assert.Error(t, err)

	_, err = handler.GetVersions(context.Background(), queries.GetVersionsQuery{ProjectID: "p"})
	assert.Error(t, err)
}
