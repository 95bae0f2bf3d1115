// Package ports defines interfaces for infrastructure dependencies.
// These are implemented by the infrastructure layer, keeping the
// application layer free of storage and transport concerns.
package ports

import (
	"context"

	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/core/valueobjects"
	"mythos-backend/domain/events"
	"mythos-backend/domain/versioning"
)

// ArtifactRepository persists and retrieves artifacts
type ArtifactRepository interface {
	Save(ctx context.Context, artifact *entities.Artifact) error
	FindByKey(ctx context.Context, projectID string, key valueobjects.ArtifactKey) (*entities.Artifact, error)
	FindByProject(ctx context.Context, projectID string, limit int) ([]*entities.Artifact, error)
	Delete(ctx context.Context, projectID string, key valueobjects.ArtifactKey) error
	Exists(ctx context.Context, projectID string, key valueobjects.ArtifactKey) (bool, error)
}

// VersionStore persists version snapshots independently of the artifact
// record, allowing history to be loaded lazily
type VersionStore interface {
	Append(ctx context.Context, projectID string, key valueobjects.ArtifactKey, version versioning.Version) error
	Load(ctx context.Context, projectID string, key valueobjects.ArtifactKey) ([]versioning.Version, error)
}

// EventPublisher publishes domain events to external systems
type EventPublisher interface {
	Publish(ctx context.Context, events []events.DomainEvent) error
}

// Cache provides fast lookups for frequently accessed artifacts
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
