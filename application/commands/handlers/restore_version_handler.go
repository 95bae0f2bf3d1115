package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mythos-backend/application/commands"
	"mythos-backend/application/registry"
	appsync "mythos-backend/application/sync"
	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/core/valueobjects"
)

// RestoreVersionHandler re-points artifacts at earlier snapshots
type RestoreVersionHandler struct {
	coordinator *appsync.Coordinator
	registry    *registry.Registry
	logger      *zap.Logger
}

// NewRestoreVersionHandler creates a new handler instance
func NewRestoreVersionHandler(coordinator *appsync.Coordinator, reg *registry.Registry, logger *zap.Logger) *RestoreVersionHandler {
	return &RestoreVersionHandler{coordinator: coordinator, registry: reg, logger: logger}
}

// Handle executes the restore version command
func (h *RestoreVersionHandler) Handle(ctx context.Context, cmd commands.RestoreVersionCommand) (*entities.Artifact, error) {
	key, err := valueobjects.NewArtifactKeyFromString(cmd.Key)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact key: %w", err)
	}

	artifact, err := h.coordinator.RestoreVersion(ctx, cmd.ProjectID, key, cmd.VersionID)
	if err != nil {
		return nil, err
	}

	if err := h.registry.Put(artifact); err != nil {
		h.logger.Warn("failed to refresh registry entry",
			zap.String("artifactKey", cmd.Key), zap.Error(err))
	}

	h.logger.Info("version restored",
		zap.String("artifactKey", cmd.Key),
		zap.String("versionID", cmd.VersionID))

	return artifact, nil
}
