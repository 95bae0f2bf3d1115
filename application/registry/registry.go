// Package registry holds the in-session working set of artifacts: which
// artifacts are open, which one is active, the most-recently-used list and
// the optional side-by-side view pairing.
package registry

import (
	"sync"

	"mythos-backend/domain/config"
	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/core/valueobjects"
	pkgerrors "mythos-backend/pkg/errors"
)

// SplitView pairs two registered artifacts for side-by-side display
type SplitView struct {
	Left  valueobjects.ArtifactKey
	Right valueobjects.ArtifactKey
}

// Registry is an explicit, constructible container for the artifact working
// set. It is safe for concurrent use. A disposed registry rejects all
// mutations.
type Registry struct {
	mu        sync.RWMutex
	artifacts map[string]*entities.Artifact
	active    valueobjects.ArtifactKey
	recent    []valueobjects.ArtifactKey
	split     *SplitView
	maxRecent int
	disposed  bool
}

// New creates an empty registry
func New(cfg *config.DomainConfig) *Registry {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Registry{
		artifacts: make(map[string]*entities.Artifact),
		maxRecent: cfg.MaxRecentArtifacts,
	}
}

// Dispose clears the registry and rejects further mutations
func (r *Registry) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = make(map[string]*entities.Artifact)
	r.active = valueobjects.ArtifactKey{}
	r.recent = nil
	r.split = nil
	r.disposed = true
}

// Put registers or replaces an artifact and makes it the active one
func (r *Registry) Put(artifact *entities.Artifact) error {
	if artifact == nil {
		return pkgerrors.NewValidationError("artifact cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return pkgerrors.NewConflictError("registry has been disposed")
	}
	key := artifact.Key()
	r.artifacts[key.String()] = artifact
	r.active = key
	r.touch(key)
	return nil
}

// Get returns a registered artifact
func (r *Registry) Get(key valueobjects.ArtifactKey) (*entities.Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.artifacts[key.String()]
	return a, ok
}

// Remove unregisters an artifact. Removing a member of the split view
// clears the pairing; removing the active artifact clears the pointer.
func (r *Registry) Remove(key valueobjects.ArtifactKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.artifacts, key.String())
	if r.active.Equals(key) {
		r.active = valueobjects.ArtifactKey{}
	}
	if r.split != nil && (r.split.Left.Equals(key) || r.split.Right.Equals(key)) {
		r.split = nil
	}
	for i, k := range r.recent {
		if k.Equals(key) {
			r.recent = append(r.recent[:i], r.recent[i+1:]...)
			break
		}
	}
}

// SetActive points the registry at a registered artifact
func (r *Registry) SetActive(key valueobjects.ArtifactKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return pkgerrors.NewConflictError("registry has been disposed")
	}
	if _, ok := r.artifacts[key.String()]; !ok {
		return pkgerrors.NewNotFoundError("artifact is not registered")
	}
	r.active = key
	r.touch(key)
	return nil
}

// Active returns the active artifact, if any
func (r *Registry) Active() (*entities.Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active.IsZero() {
		return nil, false
	}
	a, ok := r.artifacts[r.active.String()]
	return a, ok
}

// Recent returns the most-recently-used keys, newest first
func (r *Registry) Recent() []valueobjects.ArtifactKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]valueobjects.ArtifactKey, len(r.recent))
	copy(out, r.recent)
	return out
}

// SetSplitView pairs two registered artifacts for side-by-side display
func (r *Registry) SetSplitView(left, right valueobjects.ArtifactKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return pkgerrors.NewConflictError("registry has been disposed")
	}
	if left.Equals(right) {
		return pkgerrors.NewValidationError("split view requires two distinct artifacts")
	}
	if _, ok := r.artifacts[left.String()]; !ok {
		return pkgerrors.NewNotFoundError("left artifact is not registered")
	}
	if _, ok := r.artifacts[right.String()]; !ok {
		return pkgerrors.NewNotFoundError("right artifact is not registered")
	}
	r.split = &SplitView{Left: left, Right: right}
	return nil
}

// ClearSplitView drops the pairing
func (r *Registry) ClearSplitView() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.split = nil
}

// SplitView returns the current pairing, if any
func (r *Registry) SplitView() (SplitView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.split == nil {
		return SplitView{}, false
	}
	return *r.split, true
}

// Len returns the number of registered artifacts
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.artifacts)
}

// touch moves key to the front of the recent list, bounding its length.
// Caller must hold the write lock.
func (r *Registry) touch(key valueobjects.ArtifactKey) {
	for i, k := range r.recent {
		if k.Equals(key) {
			r.recent = append(r.recent[:i], r.recent[i+1:]...)
			break
		}
	}
	r.recent = append([]valueobjects.ArtifactKey{key}, r.recent...)
	if len(r.recent) > r.maxRecent {
		r.recent = r.recent[:r.maxRecent]
	}
}
