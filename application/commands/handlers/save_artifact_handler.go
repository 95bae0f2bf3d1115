package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mythos-backend/application/commands"
	appsync "mythos-backend/application/sync"
	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/core/valueobjects"
)

// SaveArtifactHandler marks artifacts as saved
type SaveArtifactHandler struct {
	coordinator *appsync.Coordinator
	logger      *zap.Logger
}

// NewSaveArtifactHandler creates a new handler instance
func NewSaveArtifactHandler(coordinator *appsync.Coordinator, logger *zap.Logger) *SaveArtifactHandler {
	return &SaveArtifactHandler{coordinator: coordinator, logger: logger}
}

// Handle executes the save artifact command
func (h *SaveArtifactHandler) Handle(ctx context.Context, cmd commands.SaveArtifactCommand) (*entities.Artifact, error) {
	key, err := valueobjects.NewArtifactKeyFromString(cmd.Key)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact key: %w", err)
	}
	return h.coordinator.MarkSaved(ctx, cmd.ProjectID, key)
}
