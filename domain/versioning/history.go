package versioning

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "mythos-backend/pkg/errors"
)

// Trigger records why a version snapshot was taken
type Trigger string

const (
	TriggerCreation    Trigger = "creation"
	TriggerManual      Trigger = "manual"
	TriggerAIIteration Trigger = "ai_iteration"
	TriggerOpApplied   Trigger = "op_applied"
	TriggerRestore     Trigger = "restore"
)

// Version is an immutable full-content snapshot of an artifact
type Version struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Trigger   Trigger   `json:"trigger"`
}

// History is the append-only version list of a single artifact. Versions are
// never mutated or deleted; the current pointer moves, the list only grows.
// Versions appended since the last persistence flush are tracked separately
// so repositories write each snapshot once.
type History struct {
	versions    []Version
	currentID   string
	uncommitted []Version
}

// NewHistory creates a history seeded with the artifact's initial content.
// A history is never empty once the artifact exists.
func NewHistory(initialContent string, now time.Time) *History {
	v := Version{
		ID:        uuid.New().String(),
		Content:   initialContent,
		Timestamp: now,
		Trigger:   TriggerCreation,
	}
	return &History{
		versions:    []Version{v},
		currentID:   v.ID,
		uncommitted: []Version{v},
	}
}

// ReconstructHistory rebuilds a history from persisted snapshots
func ReconstructHistory(versions []Version, currentID string) (*History, error) {
	if len(versions) == 0 {
		return nil, pkgerrors.NewValidationError("history cannot be empty")
	}
	found := false
	for _, v := range versions {
		if v.ID == currentID {
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.NewValidationError("current version id not present in history")
	}
	return &History{
		versions:  append([]Version(nil), versions...),
		currentID: currentID,
	}, nil
}

// Append records a new snapshot and makes it current
func (h *History) Append(content string, trigger Trigger, now time.Time) Version {
	v := Version{
		ID:        uuid.New().String(),
		Content:   content,
		Timestamp: now,
		Trigger:   trigger,
	}
	h.versions = append(h.versions, v)
	h.currentID = v.ID
	h.uncommitted = append(h.uncommitted, v)
	return v
}

// UncommittedVersions returns the snapshots appended since the last
// MarkVersionsCommitted. Reconstructed histories start with none.
func (h *History) UncommittedVersions() []Version {
	out := make([]Version, len(h.uncommitted))
	copy(out, h.uncommitted)
	return out
}

// MarkVersionsCommitted clears the uncommitted snapshot list
func (h *History) MarkVersionsCommitted() {
	h.uncommitted = nil
}

// Restore points the history at an earlier snapshot without truncating
// anything that came after it; scrubbing forward again stays possible.
func (h *History) Restore(versionID string) (Version, error) {
	for _, v := range h.versions {
		if v.ID == versionID {
			h.currentID = versionID
			return v, nil
		}
	}
	return Version{}, pkgerrors.NewConflictError("version no longer present").
		WithCode(pkgerrors.CodeVersionNotFound).
		WithDetails(map[string]interface{}{"version_id": versionID})
}

// Current returns the snapshot the history points at
func (h *History) Current() Version {
	for _, v := range h.versions {
		if v.ID == h.currentID {
			return v
		}
	}
	// Unreachable while the construction invariants hold.
	return h.versions[len(h.versions)-1]
}

// CurrentID returns the id of the current snapshot
func (h *History) CurrentID() string {
	return h.currentID
}

// Versions returns the snapshots in append order
func (h *History) Versions() []Version {
	out := make([]Version, len(h.versions))
	copy(out, h.versions)
	return out
}

// Len returns the number of snapshots
func (h *History) Len() int {
	return len(h.versions)
}
