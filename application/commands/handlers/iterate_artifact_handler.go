package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mythos-backend/application/commands"
	appsync "mythos-backend/application/sync"
	"mythos-backend/domain/core/valueobjects"
)

// IterateArtifactHandler runs AI refinement rounds via the sync coordinator
type IterateArtifactHandler struct {
	coordinator *appsync.Coordinator
	logger      *zap.Logger
}

// NewIterateArtifactHandler creates a new handler instance
func NewIterateArtifactHandler(coordinator *appsync.Coordinator, logger *zap.Logger) *IterateArtifactHandler {
	return &IterateArtifactHandler{coordinator: coordinator, logger: logger}
}

// Handle executes the iterate command
func (h *IterateArtifactHandler) Handle(ctx context.Context, cmd commands.IterateArtifactCommand) (appsync.IterateResult, error) {
	key, err := valueobjects.NewArtifactKeyFromString(cmd.Key)
	if err != nil {
		return appsync.IterateResult{}, fmt.Errorf("invalid artifact key: %w", err)
	}

	result, err := h.coordinator.Iterate(ctx, cmd.ProjectID, key, cmd.Prompt, cmd.Context)
	if err != nil {
		return appsync.IterateResult{}, err
	}

	h.logger.Info("artifact iterated",
		zap.String("artifactKey", cmd.Key),
		zap.String("versionID", result.Version.ID))

	return result, nil
}
