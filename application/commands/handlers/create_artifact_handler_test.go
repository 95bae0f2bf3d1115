package handlers

import (
	"context"
	stdsync "sync"
	"testing"

	"go.uber.org/zap"

	"mythos-backend/application/commands"
	"mythos-backend/application/registry"
	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/events"
	"mythos-backend/infrastructure/persistence/memory"
	pkgerrors "mythos-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	mu     stdsync.Mutex
	events []events.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, evts []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return nil
}

func (p *capturingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

func TestCreateArtifactHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := memory.NewArtifactRepository()
	publisher := &capturingPublisher{}
	reg := registry.New(nil)
	handler := NewCreateArtifactHandler(repo, publisher, reg, zap.NewNop())

	cmd := commands.CreateArtifactCommand{
		ProjectID: "project-1",
		Title:     "Character Roster",
		Kind:      "table",
		Format:    "json",
		Content:   `{"type":"table","columnsById":{},"columnOrder":[],"rowsById":{},"rowOrder":[]}`,
		CreatedBy: "user-123",
	}

	// Act
	artifact, err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entities.TypeTable, artifact.Kind())
	assert.Equal(t, 1, artifact.History().Len())
	assert.Empty(t, artifact.GetUncommittedEvents())

	stored, err := repo.FindByKey(ctx, "project-1", artifact.Key())
	require.NoError(t, err)
	assert.Equal(t, artifact.Key(), stored.Key())

	active, ok := reg.Active()
	require.True(t, ok)
	assert.Equal(t, artifact.Key(), active.Key())

	assert.Equal(t, []string{"artifact.created"}, publisher.eventTypes())
}

func TestCreateArtifactHandler_Handle_DefaultsFormat(t *testing.T) {
	ctx := context.Background()
	handler := NewCreateArtifactHandler(memory.NewArtifactRepository(), &capturingPublisher{}, registry.New(nil), zap.NewNop())

	artifact, err := handler.Handle(ctx, commands.CreateArtifactCommand{
		ProjectID: "project-1",
		Title:     "Notes",
		Kind:      "prose",
		Content:   "draft",
		CreatedBy: "user-123",
	})

	require.NoError(t, err)
	assert.Equal(t, entities.FormatJSON, artifact.Format())
}

func TestCreateArtifactHandler_Handle_InvalidCommand(t *testing.T) {
	ctx := context.Background()
	handler := NewCreateArtifactHandler(memory.NewArtifactRepository(), &capturingPublisher{}, registry.New(nil), zap.NewNop())

	tests := []struct {
		name string
		cmd  commands.CreateArtifactCommand
	}{
		{
			name: "missing project",
			cmd:  commands.CreateArtifactCommand{Title: "T", Kind: "prose", CreatedBy: "u"},
		},
		{
			name: "missing title",
			cmd:  commands.CreateArtifactCommand{ProjectID: "p", Kind: "prose", CreatedBy: "u"},
		},
		{
			name: "bad format",
			cmd:  commands.CreateArtifactCommand{ProjectID: "p", Title: "T", Kind: "prose", Format: "yaml", CreatedBy: "u"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact, err := handler.Handle(ctx, tt.cmd)

			assert.Nil(t, artifact)
			assert.Error(t, err)
		})
	}
}

func TestCreateArtifactHandler_Handle_UnknownKind(t *testing.T) {
	ctx := context.Background()
	handler := NewCreateArtifactHandler(memory.NewArtifactRepository(), &capturingPublisher{}, registry.New(nil), zap.NewNop())

	_, err := handler.Handle(ctx, commands.CreateArtifactCommand{
		ProjectID: "project-1",
		Title:     "Weird",
		Kind:      "spreadsheet",
		CreatedBy: "user-123",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
