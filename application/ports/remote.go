package ports

import (
	"context"

	"mythos-backend/domain/ops"
)

// RemoteResult is the authoritative content returned by the remote engine
// after it has applied an operation on its own copy of the artifact.
type RemoteResult struct {
	Content   string
	VersionID string
}

// RemoteAuthority is the remote side of the sync protocol. The local engine
// applies operations optimistically and then asks the remote authority to
// confirm; its result, when it arrives and is still current, replaces the
// local one.
type RemoteAuthority interface {
	// ApplyOperation asks the remote engine to apply op to the artifact
	// identified by key. The returned content is authoritative.
	ApplyOperation(ctx context.Context, projectID, key string, op ops.Operation) (RemoteResult, error)

	// SetStatus mirrors a local status transition (e.g. saved) remotely.
	SetStatus(ctx context.Context, projectID, key, status string) error
}

// IterationRequest carries one refinement round to the AI engine
type IterationRequest struct {
	ProjectID  string
	Key        string
	Kind       string
	Content    string
	Prompt     string
	Transcript []TranscriptEntry
}

// TranscriptEntry is a prior message in the refinement conversation
type TranscriptEntry struct {
	Role    string
	Content string
}

// IterationResult is the AI engine's replacement content
type IterationResult struct {
	Content string
	Format  string
	Message string
}

// AIIterator sends iteration prompts to the generation engine
type AIIterator interface {
	Iterate(ctx context.Context, req IterationRequest) (IterationResult, error)
}
