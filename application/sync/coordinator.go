// Package sync implements the optimistic apply-then-confirm protocol that
// keeps local artifact state aligned with the remote authority.
package sync

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mythos-backend/application/ports"
	"mythos-backend/domain/config"
	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/core/valueobjects"
	"mythos-backend/domain/envelope"
	"mythos-backend/domain/ops"
	"mythos-backend/domain/versioning"
	pkgerrors "mythos-backend/pkg/errors"
)

// ApplyResult is the outcome of a structural operation
type ApplyResult struct {
	Artifact *entities.Artifact
	Version  versioning.Version
	Changed  bool
}

// IterateResult is the outcome of an AI refinement round
type IterateResult struct {
	Artifact *entities.Artifact
	Version  versioning.Version
	Message  entities.IterationMessage
}

// artifactState holds the per-artifact synchronization bookkeeping
type artifactState struct {
	mu sync.Mutex

	// generation counts committed content changes. A remote confirmation
	// captured at generation g is discarded if a newer local change has
	// moved the counter past g.
	generation uint64

	iterating bool
}

// Coordinator serializes operations per artifact and reconciles local
// optimistic results with the remote authority. Operations apply locally
// first so the caller never waits on the network; confirmation happens in
// the background and the remote result wins only while it is still current.
type Coordinator struct {
	repo      ports.ArtifactRepository
	publisher ports.EventPublisher
	remote    ports.RemoteAuthority
	iterator  ports.AIIterator
	cfg       *config.DomainConfig
	logger    *zap.Logger

	mu     sync.Mutex
	states map[string]*artifactState

	// pending tracks in-flight confirmation goroutines for Shutdown
	pending sync.WaitGroup
}

// NewCoordinator creates a sync coordinator. remote and iterator may be nil
// when running without a remote authority (local-only mode).
func NewCoordinator(
	repo ports.ArtifactRepository,
	publisher ports.EventPublisher,
	remote ports.RemoteAuthority,
	iterator ports.AIIterator,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *Coordinator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		repo:      repo,
		publisher: publisher,
		remote:    remote,
		iterator:  iterator,
		cfg:       cfg,
		logger:    logger,
		states:    make(map[string]*artifactState),
	}
}

// Shutdown waits for in-flight remote confirmations to finish
func (c *Coordinator) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) state(projectID string, key valueobjects.ArtifactKey) *artifactState {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := projectID + "/" + key.String()
	st, ok := c.states[id]
	if !ok {
		st = &artifactState{}
		c.states[id] = st
	}
	return st
}

// ApplyOperation validates and applies op to the artifact's envelope,
// commits the optimistic result, then confirms against the remote authority
// in the background. Validation failures return before any network traffic.
func (c *Coordinator) ApplyOperation(ctx context.Context, projectID string, key valueobjects.ArtifactKey, op ops.Operation) (ApplyResult, error) {
	if err := op.Validate(); err != nil {
		return ApplyResult{}, err
	}

	st := c.state(projectID, key)
	st.mu.Lock()
	defer st.mu.Unlock()

	artifact, err := c.repo.FindByKey(ctx, projectID, key)
	if err != nil {
		return ApplyResult{}, err
	}

	env := c.parseOrDegrade(key, artifact.Content())

	next, changed, err := ops.Apply(env, op)
	if err != nil {
		return ApplyResult{}, err
	}
	if !changed {
		return ApplyResult{Artifact: artifact, Version: artifact.History().Current(), Changed: false}, nil
	}

	content, err := envelope.Serialize(next)
	if err != nil {
		return ApplyResult{}, pkgerrors.Wrap(err, "failed to serialize applied envelope")
	}

	version := artifact.CommitOperationResult(content, string(op.Kind), false)
	if err := c.commit(ctx, artifact); err != nil {
		return ApplyResult{}, err
	}

	st.generation++
	gen := st.generation

	if c.remote != nil {
		c.pending.Add(1)
		go c.confirmRemote(projectID, key, op, gen)
	}

	return ApplyResult{Artifact: artifact, Version: version, Changed: true}, nil
}

// confirmRemote asks the authority to apply the operation on its copy and
// adopts its result if no newer local change has superseded it
func (c *Coordinator) confirmRemote(projectID string, key valueobjects.ArtifactKey, op ops.Operation, gen uint64) {
	defer c.pending.Done()

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RemoteOpTimeout)
	defer cancel()

	result, err := c.remote.ApplyOperation(ctx, projectID, key.String(), op)
	if err != nil {
		// Local fallback stands; the optimistic result was already committed
		c.logger.Warn("remote confirmation failed, keeping local result",
			zap.String("artifactKey", key.String()),
			zap.String("opKind", string(op.Kind)),
			zap.Error(err))
		return
	}

	st := c.state(projectID, key)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.generation != gen {
		c.logger.Debug("discarding stale remote confirmation",
			zap.String("artifactKey", key.String()),
			zap.Uint64("confirmedGeneration", gen),
			zap.Uint64("currentGeneration", st.generation))
		return
	}

	artifact, err := c.repo.FindByKey(ctx, projectID, key)
	if err != nil {
		c.logger.Error("failed to reload artifact for confirmation",
			zap.String("artifactKey", key.String()), zap.Error(err))
		return
	}

	if result.Content == artifact.Content() {
		return
	}

	artifact.CommitOperationResult(result.Content, string(op.Kind), true)
	st.generation++
	if err := c.commit(ctx, artifact); err != nil {
		c.logger.Error("failed to commit confirmed remote result",
			zap.String("artifactKey", key.String()), zap.Error(err))
	}
}

// Iterate runs one AI refinement round, replacing the artifact's content
// wholesale on success. Only one iteration may be in flight per artifact.
func (c *Coordinator) Iterate(ctx context.Context, projectID string, key valueobjects.ArtifactKey, prompt, promptContext string) (IterateResult, error) {
	if c.iterator == nil {
		return IterateResult{}, pkgerrors.NewInternalError("no iteration engine configured")
	}
	if prompt == "" {
		return IterateResult{}, pkgerrors.NewValidationError("prompt cannot be empty")
	}

	st := c.state(projectID, key)

	st.mu.Lock()
	if st.iterating {
		st.mu.Unlock()
		return IterateResult{}, pkgerrors.NewConflictError("an iteration is already in flight for this artifact").
			WithCode(pkgerrors.CodeIterationInFlight)
	}
	st.iterating = true

	artifact, err := c.repo.FindByKey(ctx, projectID, key)
	if err != nil {
		st.iterating = false
		st.mu.Unlock()
		return IterateResult{}, err
	}

	if _, err := artifact.AppendMessageWithConfig(entities.RoleUser, prompt, promptContext, c.cfg); err != nil {
		st.iterating = false
		st.mu.Unlock()
		return IterateResult{}, err
	}

	// The prompt goes into the stored transcript before the engine call;
	// the aggregate reloaded afterwards must already carry it
	if err := c.commit(ctx, artifact); err != nil {
		st.iterating = false
		st.mu.Unlock()
		return IterateResult{}, err
	}

	req := ports.IterationRequest{
		ProjectID:  projectID,
		Key:        key.String(),
		Kind:       string(artifact.Kind()),
		Content:    artifact.Content(),
		Prompt:     prompt,
		Transcript: transcript(artifact.Messages()),
	}
	st.mu.Unlock()

	// The generation engine call runs outside the artifact lock so
	// structural ops are not blocked behind a slow model
	iterCtx, cancel := context.WithTimeout(ctx, c.cfg.IterationTimeout)
	defer cancel()
	result, iterErr := c.iterator.Iterate(iterCtx, req)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.iterating = false

	artifact, err = c.repo.FindByKey(ctx, projectID, key)
	if err != nil {
		return IterateResult{}, err
	}

	if iterErr != nil {
		// Record the failure in the transcript; no content change and no
		// locally synthesized substitute
		artifact.AppendMessageWithConfig(entities.RoleAssistant, "Iteration failed: "+iterErr.Error(), "", c.cfg)
		if err := c.commit(ctx, artifact); err != nil {
			c.logger.Error("failed to persist failed-iteration transcript",
				zap.String("artifactKey", key.String()), zap.Error(err))
		}
		return IterateResult{}, pkgerrors.Wrap(iterErr, "iteration failed")
	}

	version := artifact.ReplaceContent(result.Content, entities.ContentFormat(result.Format), versioning.TriggerAIIteration)
	msg, _ := artifact.AppendMessageWithConfig(entities.RoleAssistant, result.Message, "", c.cfg)
	st.generation++

	if err := c.commit(ctx, artifact); err != nil {
		return IterateResult{}, err
	}

	return IterateResult{Artifact: artifact, Version: version, Message: msg}, nil
}

// RestoreVersion re-points the artifact at an earlier snapshot
func (c *Coordinator) RestoreVersion(ctx context.Context, projectID string, key valueobjects.ArtifactKey, versionID string) (*entities.Artifact, error) {
	st := c.state(projectID, key)
	st.mu.Lock()
	defer st.mu.Unlock()

	artifact, err := c.repo.FindByKey(ctx, projectID, key)
	if err != nil {
		return nil, err
	}
	if err := artifact.RestoreVersion(versionID); err != nil {
		return nil, err
	}
	st.generation++

	if err := c.commit(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

// MarkSaved transitions the artifact to saved and mirrors the status to the
// remote authority. A remote failure is logged; the local transition stands.
func (c *Coordinator) MarkSaved(ctx context.Context, projectID string, key valueobjects.ArtifactKey) (*entities.Artifact, error) {
	st := c.state(projectID, key)
	st.mu.Lock()
	defer st.mu.Unlock()

	artifact, err := c.repo.FindByKey(ctx, projectID, key)
	if err != nil {
		return nil, err
	}
	artifact.MarkSaved()

	if err := c.commit(ctx, artifact); err != nil {
		return nil, err
	}

	if c.remote != nil {
		statusCtx, cancel := context.WithTimeout(ctx, c.cfg.RemoteOpTimeout)
		defer cancel()
		if err := c.remote.SetStatus(statusCtx, projectID, key.String(), string(entities.StatusSaved)); err != nil {
			c.logger.Warn("failed to mirror saved status remotely",
				zap.String("artifactKey", key.String()), zap.Error(err))
		}
	}

	return artifact, nil
}

// commit persists the artifact and publishes its uncommitted events
func (c *Coordinator) commit(ctx context.Context, artifact *entities.Artifact) error {
	if err := c.repo.Save(ctx, artifact); err != nil {
		return err
	}
	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, artifact.GetUncommittedEvents()); err != nil {
			c.logger.Warn("failed to publish domain events",
				zap.String("artifactKey", artifact.Key().String()), zap.Error(err))
		}
	}
	artifact.MarkEventsAsCommitted()
	return nil
}

// parseOrDegrade parses the artifact content into an envelope. Content that
// does not parse is treated as a single opaque prose block, so structural
// operations against it fail with a type mismatch rather than a crash.
func (c *Coordinator) parseOrDegrade(key valueobjects.ArtifactKey, content string) *envelope.Envelope {
	env, err := envelope.Parse(content)
	if err == nil {
		return env
	}
	c.logger.Warn("artifact content failed to parse, degrading to opaque prose",
		zap.String("artifactKey", key.String()), zap.Error(err))

	degraded := envelope.NewText(envelope.KindProse)
	degraded.Text.BlocksByID["content"] = envelope.TextBlock{ID: "content", Markdown: content}
	degraded.Text.BlockOrder = []string{"content"}
	return degraded
}

func transcript(messages []entities.IterationMessage) []ports.TranscriptEntry {
	out := make([]ports.TranscriptEntry, 0, len(messages))
	for _, m := range messages {
		out = append(out, ports.TranscriptEntry{Role: string(m.Role), Content: m.Content})
	}
	return out
}
