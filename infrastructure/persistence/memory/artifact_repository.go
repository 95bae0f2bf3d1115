// Package memory provides in-memory implementations of the persistence
// ports, used in local development and tests
package memory

import (
	"context"
	"sort"
	"sync"

	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/core/valueobjects"
	"mythos-backend/domain/versioning"
	pkgerrors "mythos-backend/pkg/errors"
)

// ArtifactRepository is a mutex-guarded in-memory ports.ArtifactRepository
type ArtifactRepository struct {
	mu        sync.RWMutex
	artifacts map[string]*entities.Artifact
}

// NewArtifactRepository creates an empty in-memory repository
func NewArtifactRepository() *ArtifactRepository {
	return &ArtifactRepository{
		artifacts: make(map[string]*entities.Artifact),
	}
}

func storageKey(projectID string, key valueobjects.ArtifactKey) string {
	return projectID + "/" + key.String()
}

// snapshot reconstructs a detached copy of the aggregate, the same way the
// DynamoDB repository rebuilds one from stored items. The store and every
// caller hold independent aggregates.
func snapshot(a *entities.Artifact) (*entities.Artifact, error) {
	history, err := versioning.ReconstructHistory(a.History().Versions(), a.History().CurrentID())
	if err != nil {
		return nil, err
	}
	return entities.ReconstructArtifact(
		a.Key(),
		a.ProjectID(),
		a.Title(),
		a.Kind(),
		a.Format(),
		a.Content(),
		a.Status(),
		a.Staleness(),
		a.CreatedBy(),
		a.CreatedAt(),
		a.UpdatedAt(),
		history,
		a.Messages(),
	)
}

// Save stores a detached copy of the artifact
func (r *ArtifactRepository) Save(ctx context.Context, artifact *entities.Artifact) error {
	stored, err := snapshot(artifact)
	if err != nil {
		return err
	}
	artifact.History().MarkVersionsCommitted()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts[storageKey(artifact.ProjectID(), artifact.Key())] = stored
	return nil
}

// FindByKey retrieves a detached copy of an artifact
func (r *ArtifactRepository) FindByKey(ctx context.Context, projectID string, key valueobjects.ArtifactKey) (*entities.Artifact, error) {
	r.mu.RLock()
	artifact, ok := r.artifacts[storageKey(projectID, key)]
	r.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.NewNotFoundError("artifact")
	}
	return snapshot(artifact)
}

// FindByProject retrieves detached copies of a project's artifacts, most
// recently updated first
func (r *ArtifactRepository) FindByProject(ctx context.Context, projectID string, limit int) ([]*entities.Artifact, error) {
	r.mu.RLock()
	var stored []*entities.Artifact
	for _, a := range r.artifacts {
		if a.ProjectID() == projectID {
			stored = append(stored, a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(stored, func(i, j int) bool {
		return stored[i].UpdatedAt().After(stored[j].UpdatedAt())
	})
	if limit > 0 && len(stored) > limit {
		stored = stored[:limit]
	}

	out := make([]*entities.Artifact, 0, len(stored))
	for _, a := range stored {
		snap, err := snapshot(a)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// Delete removes an artifact
func (r *ArtifactRepository) Delete(ctx context.Context, projectID string, key valueobjects.ArtifactKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := storageKey(projectID, key)
	if _, ok := r.artifacts[id]; !ok {
		return pkgerrors.NewNotFoundError("artifact")
	}
	delete(r.artifacts, id)
	return nil
}

// Exists reports whether an artifact is stored
func (r *ArtifactRepository) Exists(ctx context.Context, projectID string, key valueobjects.ArtifactKey) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.artifacts[storageKey(projectID, key)]
	return ok, nil
}

// VersionStore is an in-memory ports.VersionStore
type VersionStore struct {
	mu       sync.RWMutex
	versions map[string][]versioning.Version
}

// NewVersionStore creates an empty in-memory version store
func NewVersionStore() *VersionStore {
	return &VersionStore{
		versions: make(map[string][]versioning.Version),
	}
}

// Append stores a snapshot; re-appending an existing id replaces it
func (s *VersionStore) Append(ctx context.Context, projectID string, key valueobjects.ArtifactKey, version versioning.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := storageKey(projectID, key)
	for i, v := range s.versions[id] {
		if v.ID == version.ID {
			s.versions[id][i] = version
			return nil
		}
	}
	s.versions[id] = append(s.versions[id], version)
	return nil
}

// Load returns an artifact's snapshots in insertion order
func (s *VersionStore) Load(ctx context.Context, projectID string, key valueobjects.ArtifactKey) ([]versioning.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.versions[storageKey(projectID, key)]
	out := make([]versioning.Version, len(stored))
	copy(out, stored)
	return out, nil
}
