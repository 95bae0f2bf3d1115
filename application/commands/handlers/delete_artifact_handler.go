package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mythos-backend/application/commands"
	"mythos-backend/application/ports"
	"mythos-backend/application/registry"
	"mythos-backend/domain/core/valueobjects"
	"mythos-backend/domain/events"
)

// DeleteArtifactHandler removes artifacts and cleans up the registry
type DeleteArtifactHandler struct {
	repo      ports.ArtifactRepository
	publisher ports.EventPublisher
	registry  *registry.Registry
	logger    *zap.Logger
}

// NewDeleteArtifactHandler creates a new handler instance
func NewDeleteArtifactHandler(
	repo ports.ArtifactRepository,
	publisher ports.EventPublisher,
	reg *registry.Registry,
	logger *zap.Logger,
) *DeleteArtifactHandler {
	return &DeleteArtifactHandler{
		repo:      repo,
		publisher: publisher,
		registry:  reg,
		logger:    logger,
	}
}

// Handle executes the delete artifact command
func (h *DeleteArtifactHandler) Handle(ctx context.Context, cmd commands.DeleteArtifactCommand) error {
	key, err := valueobjects.NewArtifactKeyFromString(cmd.Key)
	if err != nil {
		return fmt.Errorf("invalid artifact key: %w", err)
	}

	if err := h.repo.Delete(ctx, cmd.ProjectID, key); err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}

	// Dropping the registry entry also clears any split view it was part of
	h.registry.Remove(key)

	event := events.NewArtifactDeleted(key, time.Now())
	if err := h.publisher.Publish(ctx, []events.DomainEvent{event}); err != nil {
		h.logger.Warn("failed to publish deletion event",
			zap.String("artifactKey", cmd.Key), zap.Error(err))
	}

	h.logger.Info("artifact deleted", zap.String("artifactKey", cmd.Key))
	return nil
}
