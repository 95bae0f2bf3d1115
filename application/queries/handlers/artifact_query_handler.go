package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mythos-backend/application/ports"
	"mythos-backend/application/queries"
	"mythos-backend/application/registry"
	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/core/valueobjects"
	"mythos-backend/pkg/utils"
)

// ArtifactQueryHandler serves the read side: single artifacts, project
// listings, version history, the recent list and the split view.
type ArtifactQueryHandler struct {
	repo     ports.ArtifactRepository
	registry *registry.Registry
	logger   *zap.Logger
}

// NewArtifactQueryHandler creates a new query handler
func NewArtifactQueryHandler(repo ports.ArtifactRepository, reg *registry.Registry, logger *zap.Logger) *ArtifactQueryHandler {
	return &ArtifactQueryHandler{repo: repo, registry: reg, logger: logger}
}

// GetArtifact returns a single artifact with its transcript
func (h *ArtifactQueryHandler) GetArtifact(ctx context.Context, q queries.GetArtifactQuery) (*queries.ArtifactResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	key, err := valueobjects.NewArtifactKeyFromString(q.Key)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact key: %w", err)
	}

	artifact, err := h.repo.FindByKey(ctx, q.ProjectID, key)
	if err != nil {
		return nil, err
	}

	result := toArtifactResult(artifact, true)
	return &result, nil
}

// ListArtifacts returns a project's artifacts
func (h *ArtifactQueryHandler) ListArtifacts(ctx context.Context, q queries.ListArtifactsQuery) (*queries.ListArtifactsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	artifacts, err := h.repo.FindByProject(ctx, q.ProjectID, q.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]queries.ArtifactResult, 0, len(artifacts))
	for _, a := range artifacts {
		results = append(results, toArtifactResult(a, false))
	}
	return &queries.ListArtifactsResult{Artifacts: results, Count: len(results)}, nil
}

// GetVersions returns an artifact's full version history
func (h *ArtifactQueryHandler) GetVersions(ctx context.Context, q queries.GetVersionsQuery) (*queries.GetVersionsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	key, err := valueobjects.NewArtifactKeyFromString(q.Key)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact key: %w", err)
	}

	artifact, err := h.repo.FindByKey(ctx, q.ProjectID, key)
	if err != nil {
		return nil, err
	}

	history := artifact.History()
	currentID := history.CurrentID()
	versions := history.Versions()

	results := make([]queries.VersionResult, 0, len(versions))
	for _, v := range versions {
		results = append(results, queries.VersionResult{
			ID:        v.ID,
			Trigger:   string(v.Trigger),
			Timestamp: utils.FormatRFC3339(v.Timestamp),
			Current:   v.ID == currentID,
			Size:      len(v.Content),
		})
	}
	return &queries.GetVersionsResult{Key: q.Key, Versions: results}, nil
}

// GetRecent returns the most-recently-used artifacts, newest first
func (h *ArtifactQueryHandler) GetRecent(ctx context.Context, q queries.GetRecentQuery) (*queries.GetRecentResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	results := []queries.ArtifactResult{}
	for _, key := range h.registry.Recent() {
		artifact, ok := h.registry.Get(key)
		if !ok || artifact.ProjectID() != q.ProjectID {
			continue
		}
		results = append(results, toArtifactResult(artifact, false))
	}
	return &queries.GetRecentResult{Artifacts: results}, nil
}

// GetSplitView returns both sides of the current pairing
func (h *ArtifactQueryHandler) GetSplitView(ctx context.Context, q queries.GetSplitViewQuery) (*queries.GetSplitViewResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	pair, ok := h.registry.SplitView()
	if !ok {
		return &queries.GetSplitViewResult{Active: false}, nil
	}

	left, lok := h.registry.Get(pair.Left)
	right, rok := h.registry.Get(pair.Right)
	if !lok || !rok {
		return &queries.GetSplitViewResult{Active: false}, nil
	}

	lr := toArtifactResult(left, false)
	rr := toArtifactResult(right, false)
	return &queries.GetSplitViewResult{Active: true, Left: &lr, Right: &rr}, nil
}

func toArtifactResult(a *entities.Artifact, withMessages bool) queries.ArtifactResult {
	result := queries.ArtifactResult{
		Key:              a.Key().String(),
		ProjectID:        a.ProjectID(),
		Title:            a.Title(),
		Kind:             string(a.Kind()),
		Format:           string(a.Format()),
		Content:          a.Content(),
		Status:           string(a.Status()),
		Staleness:        string(a.Staleness()),
		CurrentVersionID: a.CurrentVersionID(),
		VersionCount:     a.History().Len(),
		CreatedBy:        a.CreatedBy(),
		CreatedAt:        utils.FormatRFC3339(a.CreatedAt()),
		UpdatedAt:        utils.FormatRFC3339(a.UpdatedAt()),
	}
	if withMessages {
		for _, m := range a.Messages() {
			result.Messages = append(result.Messages, queries.MessageResult{
				ID:        m.ID,
				Role:      string(m.Role),
				Content:   m.Content,
				Timestamp: utils.FormatRFC3339(m.Timestamp),
			})
		}
	}
	return result
}
