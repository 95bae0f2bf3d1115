package entities

import (
	"time"

	"github.com/google/uuid"

	"mythos-backend/domain/config"
	"mythos-backend/domain/core/valueobjects"
	"mythos-backend/domain/events"
	"mythos-backend/domain/versioning"
	pkgerrors "mythos-backend/pkg/errors"
)

// ArtifactType categorizes the kind of content an artifact holds
type ArtifactType string

const (
	TypeProse    ArtifactType = "prose"
	TypeTable    ArtifactType = "table"
	TypeDiagram  ArtifactType = "diagram"
	TypeTimeline ArtifactType = "timeline"
	TypeEntity   ArtifactType = "entity"
	TypeCode     ArtifactType = "code"
	TypeDialogue ArtifactType = "dialogue"
	TypeLore     ArtifactType = "lore"
	TypeMap      ArtifactType = "map"
)

// IsValid reports whether the artifact type is known
func (t ArtifactType) IsValid() bool {
	switch t {
	case TypeProse, TypeTable, TypeDiagram, TypeTimeline, TypeEntity,
		TypeCode, TypeDialogue, TypeLore, TypeMap:
		return true
	}
	return false
}

// ContentFormat describes how the content string is encoded
type ContentFormat string

const (
	FormatJSON     ContentFormat = "json"
	FormatMarkdown ContentFormat = "markdown"
	FormatPlain    ContentFormat = "plain"
)

// ArtifactStatus is the persistence state of an artifact
type ArtifactStatus string

const (
	StatusDraft ArtifactStatus = "draft"
	StatusSaved ArtifactStatus = "saved"
)

// Staleness flags whether the content may no longer reflect its sources
type Staleness string

const (
	StalenessFresh         Staleness = "fresh"
	StalenessSourceChanged Staleness = "source_changed"
	StalenessOutdated      Staleness = "outdated"
)

// MessageRole identifies the author of an iteration message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// IterationMessage is one entry in an artifact's refinement transcript
type IterationMessage struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Context   string      `json:"context,omitempty"`
}

// Artifact is the main entity representing a unit of AI-produced structured
// content. It is a rich domain model with encapsulated business logic: content
// changes go through methods that keep the version history in step.
type Artifact struct {
	key       valueobjects.ArtifactKey
	projectID string
	title     string
	kind      ArtifactType
	format    ContentFormat
	content   string
	status    ArtifactStatus
	staleness Staleness
	sources   []string
	createdBy string
	createdAt time.Time
	updatedAt time.Time
	history   *versioning.History
	messages  []IterationMessage

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// NewArtifact creates a new artifact with full business rule validation
func NewArtifact(projectID, title string, kind ArtifactType, format ContentFormat, content, createdBy string) (*Artifact, error) {
	return NewArtifactWithConfig(projectID, title, kind, format, content, createdBy, config.DefaultDomainConfig())
}

// NewArtifactWithConfig creates a new artifact with explicit domain constraints
func NewArtifactWithConfig(projectID, title string, kind ArtifactType, format ContentFormat, content, createdBy string, cfg *config.DomainConfig) (*Artifact, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if projectID == "" {
		return nil, pkgerrors.NewValidationError("projectID cannot be empty")
	}
	if len(title) < cfg.MinTitleLength {
		return nil, pkgerrors.NewValidationError("title is too short")
	}
	if len(title) > cfg.MaxTitleLength {
		return nil, pkgerrors.NewValidationError("title is too long")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown artifact type: " + string(kind))
	}
	if !cfg.AllowEmptyContent && content == "" {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}
	if len(content) > cfg.MaxContentLength {
		return nil, pkgerrors.NewValidationError("content exceeds maximum length")
	}

	now := time.Now()
	a := &Artifact{
		key:       valueobjects.NewArtifactKey(),
		projectID: projectID,
		title:     title,
		kind:      kind,
		format:    format,
		content:   content,
		status:    StatusDraft,
		staleness: StalenessFresh,
		sources:   []string{},
		createdBy: createdBy,
		createdAt: now,
		updatedAt: now,
		history:   versioning.NewHistory(content, now),
		messages:  []IterationMessage{},
		events:    []events.DomainEvent{},
	}

	a.addEvent(events.NewArtifactCreated(a.key, projectID, title, string(kind), now))

	return a, nil
}

// ReconstructArtifact rebuilds an artifact from repository data with
// preserved identity, timestamps and history
func ReconstructArtifact(
	key valueobjects.ArtifactKey,
	projectID, title string,
	kind ArtifactType,
	format ContentFormat,
	content string,
	status ArtifactStatus,
	staleness Staleness,
	createdBy string,
	createdAt, updatedAt time.Time,
	history *versioning.History,
	messages []IterationMessage,
) (*Artifact, error) {
	if key.IsZero() {
		return nil, pkgerrors.NewValidationError("artifact key cannot be empty")
	}
	if history == nil {
		return nil, pkgerrors.NewValidationError("artifact history cannot be nil")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.NewValidationError("unknown artifact type: " + string(kind))
	}

	return &Artifact{
		key:       key,
		projectID: projectID,
		title:     title,
		kind:      kind,
		format:    format,
		content:   content,
		status:    status,
		staleness: staleness,
		sources:   []string{},
		createdBy: createdBy,
		createdAt: createdAt,
		updatedAt: updatedAt,
		history:   history,
		messages:  append([]IterationMessage(nil), messages...),
		events:    []events.DomainEvent{},
	}, nil
}

// Key returns the artifact's stable key
func (a *Artifact) Key() valueobjects.ArtifactKey {
	return a.key
}

// ProjectID returns the owning project
func (a *Artifact) ProjectID() string {
	return a.projectID
}

// Title returns the artifact's title
func (a *Artifact) Title() string {
	return a.title
}

// Kind returns the artifact's content type
func (a *Artifact) Kind() ArtifactType {
	return a.kind
}

// Format returns the content encoding
func (a *Artifact) Format() ContentFormat {
	return a.format
}

// Content returns the raw content string
func (a *Artifact) Content() string {
	return a.content
}

// Status returns the persistence state
func (a *Artifact) Status() ArtifactStatus {
	return a.status
}

// Staleness returns the staleness flag
func (a *Artifact) Staleness() Staleness {
	return a.staleness
}

// CreatedBy returns the author identifier
func (a *Artifact) CreatedBy() string {
	return a.createdBy
}

// CreatedAt returns when the artifact was created
func (a *Artifact) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns when the artifact last changed
func (a *Artifact) UpdatedAt() time.Time {
	return a.updatedAt
}

// History returns the artifact's version history
func (a *Artifact) History() *versioning.History {
	return a.history
}

// CurrentVersionID returns the id of the version the content matches
func (a *Artifact) CurrentVersionID() string {
	return a.history.CurrentID()
}

// Messages returns the iteration transcript
func (a *Artifact) Messages() []IterationMessage {
	out := make([]IterationMessage, len(a.messages))
	copy(out, a.messages)
	return out
}

// CommitOperationResult records the content produced by a structural edit.
// Confirmed marks whether the remote authority acknowledged it or the local
// fallback result won.
func (a *Artifact) CommitOperationResult(content, opKind string, confirmed bool) versioning.Version {
	now := time.Now()
	a.content = content
	a.updatedAt = now
	v := a.history.Append(content, versioning.TriggerOpApplied, now)
	a.addEvent(events.NewOperationApplied(a.key, opKind, v.ID, confirmed, now))
	return v
}

// ReplaceContent swaps the full content, used by AI iteration and manual saves
func (a *Artifact) ReplaceContent(content string, format ContentFormat, trigger versioning.Trigger) versioning.Version {
	now := time.Now()
	a.content = content
	if format != "" {
		a.format = format
	}
	a.updatedAt = now
	v := a.history.Append(content, trigger, now)
	if trigger == versioning.TriggerAIIteration {
		a.addEvent(events.NewContentIterated(a.key, v.ID, true, now))
	}
	return v
}

// RestoreVersion points the artifact back at an earlier snapshot. The
// history is never truncated; later versions stay reachable.
func (a *Artifact) RestoreVersion(versionID string) error {
	v, err := a.history.Restore(versionID)
	if err != nil {
		return err
	}
	now := time.Now()
	a.content = v.Content
	a.updatedAt = now
	a.addEvent(events.NewVersionRestored(a.key, versionID, now))
	return nil
}

// AppendMessage adds an entry to the iteration transcript
func (a *Artifact) AppendMessage(role MessageRole, content, context string) (IterationMessage, error) {
	return a.AppendMessageWithConfig(role, content, context, config.DefaultDomainConfig())
}

// AppendMessageWithConfig adds a transcript entry with explicit constraints
func (a *Artifact) AppendMessageWithConfig(role MessageRole, content, context string, cfg *config.DomainConfig) (IterationMessage, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if role != RoleUser && role != RoleAssistant {
		return IterationMessage{}, pkgerrors.NewValidationError("unknown message role: " + string(role))
	}
	if len(a.messages) >= cfg.MaxIterationMessages {
		return IterationMessage{}, pkgerrors.NewValidationError("iteration transcript is full")
	}

	msg := IterationMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Context:   context,
	}
	a.messages = append(a.messages, msg)
	return msg, nil
}

// MarkSaved transitions the artifact from draft to saved
func (a *Artifact) MarkSaved() {
	if a.status == StatusSaved {
		return
	}
	now := time.Now()
	a.status = StatusSaved
	a.updatedAt = now
	a.addEvent(events.NewArtifactSaved(a.key, now))
}

// MarkStale flags that the content may no longer match its sources
func (a *Artifact) MarkStale(kind Staleness) {
	if kind == StalenessFresh {
		return
	}
	a.staleness = kind
	a.updatedAt = time.Now()
}

// MarkFresh clears the staleness flag
func (a *Artifact) MarkFresh() {
	a.staleness = StalenessFresh
	a.updatedAt = time.Now()
}

// Rename updates the artifact title
func (a *Artifact) Rename(title string) error {
	if title == "" {
		return pkgerrors.NewValidationError("title cannot be empty")
	}
	a.title = title
	a.updatedAt = time.Now()
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (a *Artifact) GetUncommittedEvents() []events.DomainEvent {
	return a.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (a *Artifact) MarkEventsAsCommitted() {
	a.events = []events.DomainEvent{}
}

// addEvent adds a domain event to the uncommitted list
func (a *Artifact) addEvent(event events.DomainEvent) {
	a.events = append(a.events, event)
}
