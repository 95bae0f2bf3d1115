package events

import (
	"time"

	"mythos-backend/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Artifact Events

// ArtifactCreated is raised when a new artifact enters the project
type ArtifactCreated struct {
	BaseEvent
	Key       valueobjects.ArtifactKey `json:"key"`
	ProjectID string                   `json:"project_id"`
	Title     string                   `json:"title"`
	Kind      string                   `json:"kind"`
}

// NewArtifactCreated creates an ArtifactCreated event
func NewArtifactCreated(key valueobjects.ArtifactKey, projectID, title, kind string, timestamp time.Time) ArtifactCreated {
	return ArtifactCreated{
		BaseEvent: BaseEvent{
			AggregateID: key.String(),
			EventType:   "artifact.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		Key:       key,
		ProjectID: projectID,
		Title:     title,
		Kind:      kind,
	}
}

// OperationApplied is raised when a structural edit lands on an artifact
type OperationApplied struct {
	BaseEvent
	Key       valueobjects.ArtifactKey `json:"key"`
	OpKind    string                   `json:"op_kind"`
	VersionID string                   `json:"version_id"`
	Confirmed bool                     `json:"confirmed"`
}

// NewOperationApplied creates an OperationApplied event. Confirmed reports
// whether the remote authority acknowledged the edit or the local fallback won.
func NewOperationApplied(key valueobjects.ArtifactKey, opKind, versionID string, confirmed bool, timestamp time.Time) OperationApplied {
	return OperationApplied{
		BaseEvent: BaseEvent{
			AggregateID: key.String(),
			EventType:   "artifact.op_applied",
			Timestamp:   timestamp,
			Version:     1,
		},
		Key:       key,
		OpKind:    opKind,
		VersionID: versionID,
		Confirmed: confirmed,
	}
}

// ContentIterated is raised when an AI iteration replaces artifact content
type ContentIterated struct {
	BaseEvent
	Key       valueobjects.ArtifactKey `json:"key"`
	VersionID string                   `json:"version_id"`
	Succeeded bool                     `json:"succeeded"`
}

// NewContentIterated creates a ContentIterated event
func NewContentIterated(key valueobjects.ArtifactKey, versionID string, succeeded bool, timestamp time.Time) ContentIterated {
	return ContentIterated{
		BaseEvent: BaseEvent{
			AggregateID: key.String(),
			EventType:   "artifact.iterated",
			Timestamp:   timestamp,
			Version:     1,
		},
		Key:       key,
		VersionID: versionID,
		Succeeded: succeeded,
	}
}

// VersionRestored is raised when an artifact is pointed back at an older version
type VersionRestored struct {
	BaseEvent
	Key       valueobjects.ArtifactKey `json:"key"`
	VersionID string                   `json:"version_id"`
}

// NewVersionRestored creates a VersionRestored event
func NewVersionRestored(key valueobjects.ArtifactKey, versionID string, timestamp time.Time) VersionRestored {
	return VersionRestored{
		BaseEvent: BaseEvent{
			AggregateID: key.String(),
			EventType:   "artifact.version_restored",
			Timestamp:   timestamp,
			Version:     1,
		},
		Key:       key,
		VersionID: versionID,
	}
}

// ArtifactSaved is raised when a draft artifact is marked saved
type ArtifactSaved struct {
	BaseEvent
	Key valueobjects.ArtifactKey `json:"key"`
}

// NewArtifactSaved creates an ArtifactSaved event
func NewArtifactSaved(key valueobjects.ArtifactKey, timestamp time.Time) ArtifactSaved {
	return ArtifactSaved{
		BaseEvent: BaseEvent{
			AggregateID: key.String(),
			EventType:   "artifact.saved",
			Timestamp:   timestamp,
			Version:     1,
		},
		Key: key,
	}
}

// ArtifactDeleted is raised when an artifact leaves the registry
type ArtifactDeleted struct {
	BaseEvent
	Key valueobjects.ArtifactKey `json:"key"`
}

// NewArtifactDeleted creates an ArtifactDeleted event
func NewArtifactDeleted(key valueobjects.ArtifactKey, timestamp time.Time) ArtifactDeleted {
	return ArtifactDeleted{
		BaseEvent: BaseEvent{
			AggregateID: key.String(),
			EventType:   "artifact.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		Key: key,
	}
}
