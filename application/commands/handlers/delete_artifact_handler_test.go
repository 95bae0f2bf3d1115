package handlers

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"mythos-backend/application/commands"
	"mythos-backend/application/registry"
	"mythos-backend/domain/core/entities"
	"mythos-backend/infrastructure/persistence/memory"
	pkgerrors "mythos-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteArtifactHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := memory.NewArtifactRepository()
	publisher := &capturingPublisher{}
	reg := registry.New(nil)

	artifact, err := entities.NewArtifact("project-1", "Doomed", entities.TypeProse, entities.FormatMarkdown, "x", "user-123")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, artifact))
	require.NoError(t, reg.Put(artifact))

	handler := NewDeleteArtifactHandler(repo, publisher, reg, zap.NewNop())

	// Act
	err = handler.Handle(ctx, commands.DeleteArtifactCommand{
		ProjectID: "project-1",
		Key:       artifact.Key().String(),
	})

	// Assert
	require.NoError(t, err)
	exists, err := repo.Exists(ctx, "project-1", artifact.Key())
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, []string{"artifact.deleted"}, publisher.eventTypes())
}

func TestDeleteArtifactHandler_Handle_NotFound(t *testing.T) {
	ctx := context.Background()
	handler := NewDeleteArtifactHandler(memory.NewArtifactRepository(), &capturingPublisher{}, registry.New(nil), zap.NewNop())

	artifact, err := entities.NewArtifact("project-1", "Ghost", entities.TypeProse, entities.FormatMarkdown, "x", "user-123")
	require.NoError(t, err)

	err = handler.Handle(ctx, commands.DeleteArtifactCommand{
		ProjectID: "project-1",
		Key:       artifact.Key().String(),
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}
