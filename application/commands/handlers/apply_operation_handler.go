package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mythos-backend/application/commands"
	"mythos-backend/application/registry"
	appsync "mythos-backend/application/sync"
	"mythos-backend/domain/core/valueobjects"
)

// ApplyOperationHandler routes structural edits through the sync coordinator
type ApplyOperationHandler struct {
	coordinator *appsync.Coordinator
	registry    *registry.Registry
	logger      *zap.Logger
}

// NewApplyOperationHandler creates a new handler instance
func NewApplyOperationHandler(coordinator *appsync.Coordinator, reg *registry.Registry, logger *zap.Logger) *ApplyOperationHandler {
	return &ApplyOperationHandler{
		coordinator: coordinator,
		registry:    reg,
		logger:      logger,
	}
}

// Handle executes the apply operation command
func (h *ApplyOperationHandler) Handle(ctx context.Context, cmd commands.ApplyOperationCommand) (appsync.ApplyResult, error) {
	key, err := valueobjects.NewArtifactKeyFromString(cmd.Key)
	if err != nil {
		return appsync.ApplyResult{}, fmt.Errorf("invalid artifact key: %w", err)
	}

	op, err := cmd.DecodeOperation()
	if err != nil {
		return appsync.ApplyResult{}, err
	}

	result, err := h.coordinator.ApplyOperation(ctx, cmd.ProjectID, key, op)
	if err != nil {
		return appsync.ApplyResult{}, err
	}

	if result.Changed {
		if err := h.registry.Put(result.Artifact); err != nil {
			h.logger.Warn("failed to refresh registry entry",
				zap.String("artifactKey", cmd.Key), zap.Error(err))
		}
	}

	return result, nil
}
