package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mythos-backend/application/commands"
	"mythos-backend/application/ports"
	"mythos-backend/application/registry"
	"mythos-backend/domain/core/entities"
)

// CreateArtifactHandler handles artifact creation
type CreateArtifactHandler struct {
	repo      ports.ArtifactRepository
	publisher ports.EventPublisher
	registry  *registry.Registry
	logger    *zap.Logger
}

// NewCreateArtifactHandler creates a new handler instance
func NewCreateArtifactHandler(
	repo ports.ArtifactRepository,
	publisher ports.EventPublisher,
	reg *registry.Registry,
	logger *zap.Logger,
) *CreateArtifactHandler {
	return &CreateArtifactHandler{
		repo:      repo,
		publisher: publisher,
		registry:  reg,
		logger:    logger,
	}
}

// Handle executes the create artifact command
func (h *CreateArtifactHandler) Handle(ctx context.Context, cmd commands.CreateArtifactCommand) (*entities.Artifact, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	format := entities.ContentFormat(cmd.Format)
	if format == "" {
		format = entities.FormatJSON
	}

	artifact, err := entities.NewArtifact(
		cmd.ProjectID,
		cmd.Title,
		entities.ArtifactType(cmd.Kind),
		format,
		cmd.Content,
		cmd.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Save(ctx, artifact); err != nil {
		return nil, fmt.Errorf("failed to save artifact: %w", err)
	}

	if err := h.registry.Put(artifact); err != nil {
		h.logger.Warn("failed to register artifact",
			zap.String("artifactKey", artifact.Key().String()), zap.Error(err))
	}

	if err := h.publisher.Publish(ctx, artifact.GetUncommittedEvents()); err != nil {
		// Events can be retried; creation itself succeeded
		h.logger.Warn("failed to publish creation events",
			zap.String("artifactKey", artifact.Key().String()), zap.Error(err))
	}
	artifact.MarkEventsAsCommitted()

	h.logger.Info("artifact created",
		zap.String("artifactKey", artifact.Key().String()),
		zap.String("projectID", cmd.ProjectID),
		zap.String("kind", cmd.Kind))

	return artifact, nil
}
