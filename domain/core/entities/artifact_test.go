package entities_test

import (
	"strings"
	"testing"

	"mythos-backend/domain/config"
	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/versioning"
	pkgerrors "mythos-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestArtifact(t *testing.T) *entities.Artifact {
	t.Helper()
	artifact, err := entities.NewArtifact(
		"project-1",
		"Character Roster",
		entities.TypeTable,
		entities.FormatJSON,
		`{"type":"table","columnsById":{},"columnOrder":[],"rowsById":{},"rowOrder":[]}`,
		"user-123",
	)
	require.NoError(t, err)
	return artifact
}

func TestArtifact_Creation(t *testing.T) {
	// Act
	artifact := createTestArtifact(t)

	// Assert
	assert.False(t, artifact.Key().IsZero())
	assert.Equal(t, "project-1", artifact.ProjectID())
	assert.Equal(t, "Character Roster", artifact.Title())
	assert.Equal(t, entities.TypeTable, artifact.Kind())
	assert.Equal(t, entities.StatusDraft, artifact.Status())
	assert.Equal(t, entities.StalenessFresh, artifact.Staleness())
	assert.Equal(t, 1, artifact.History().Len())
	assert.Equal(t, artifact.History().CurrentID(), artifact.CurrentVersionID())

	events := artifact.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "artifact.created", events[0].GetEventType())
}

func TestArtifact_CreationValidation(t *testing.T) {
	tests := []struct {
		name      string
		projectID string
		title     string
		kind      entities.ArtifactType
		content   string
	}{
		{name: "empty project", projectID: "", title: "T", kind: entities.TypeProse},
		{name: "empty title", projectID: "p", title: "", kind: entities.TypeProse},
		{name: "title too long", projectID: "p", title: strings.Repeat("x", 201), kind: entities.TypeProse},
		{name: "unknown kind", projectID: "p", title: "T", kind: "spreadsheet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entities.NewArtifact(tt.projectID, tt.title, tt.kind, entities.FormatJSON, tt.content, "user-123")

			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestArtifact_CreationContentLimit(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.MaxContentLength = 10

	_, err := entities.NewArtifactWithConfig("p", "T", entities.TypeProse, entities.FormatMarkdown,
		"this content is longer than ten bytes", "user-123", cfg)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestArtifact_CommitOperationResult(t *testing.T) {
	artifact := createTestArtifact(t)
	artifact.MarkEventsAsCommitted()

	v := artifact.CommitOperationResult(`{"updated":true}`, "table.row.add", false)

	assert.Equal(t, `{"updated":true}`, artifact.Content())
	assert.Equal(t, versioning.TriggerOpApplied, v.Trigger)
	assert.Equal(t, v.ID, artifact.CurrentVersionID())
	assert.Equal(t, 2, artifact.History().Len())

	events := artifact.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "artifact.op_applied", events[0].GetEventType())
}

func TestArtifact_ReplaceContent(t *testing.T) {
	artifact := createTestArtifact(t)
	artifact.MarkEventsAsCommitted()

	v := artifact.ReplaceContent("regenerated", entities.FormatMarkdown, versioning.TriggerAIIteration)

	assert.Equal(t, "regenerated", artifact.Content())
	assert.Equal(t, entities.FormatMarkdown, artifact.Format())
	assert.Equal(t, versioning.TriggerAIIteration, v.Trigger)

	events := artifact.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "artifact.iterated", events[0].GetEventType())
}

func TestArtifact_ReplaceContentKeepsFormatWhenUnset(t *testing.T) {
	artifact := createTestArtifact(t)

	artifact.ReplaceContent("new content", "", versioning.TriggerManual)

	assert.Equal(t, entities.FormatJSON, artifact.Format())
}

func TestArtifact_RestoreVersion(t *testing.T) {
	artifact := createTestArtifact(t)
	original := artifact.Content()
	artifact.CommitOperationResult("changed", "table.row.add", false)
	firstID := artifact.History().Versions()[0].ID
	artifact.MarkEventsAsCommitted()

	err := artifact.RestoreVersion(firstID)

	require.NoError(t, err)
	assert.Equal(t, original, artifact.Content())
	assert.Equal(t, firstID, artifact.CurrentVersionID())
	// History keeps growing, never truncates
	assert.Equal(t, 2, artifact.History().Len())

	events := artifact.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "artifact.version_restored", events[0].GetEventType())
}

func TestArtifact_RestoreUnknownVersion(t *testing.T) {
	artifact := createTestArtifact(t)

	err := artifact.RestoreVersion("no-such-version")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeVersionNotFound))
}

func TestArtifact_AppendMessage(t *testing.T) {
	artifact := createTestArtifact(t)

	msg, err := artifact.AppendMessage(entities.RoleUser, "make it darker", "chapter 3")
	require.NoError(t, err)
	_, err = artifact.AppendMessage(entities.RoleAssistant, "done", "")
	require.NoError(t, err)

	messages := artifact.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, msg.ID, messages[0].ID)
	assert.Equal(t, entities.RoleUser, messages[0].Role)
	assert.Equal(t, "chapter 3", messages[0].Context)
}

func TestArtifact_AppendMessageRejectsUnknownRole(t *testing.T) {
	artifact := createTestArtifact(t)

	_, err := artifact.AppendMessage("narrator", "hello", "")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestArtifact_TranscriptIsBounded(t *testing.T) {
	artifact := createTestArtifact(t)
	cfg := config.DefaultDomainConfig()
	cfg.MaxIterationMessages = 2

	_, err := artifact.AppendMessageWithConfig(entities.RoleUser, "one", "", cfg)
	require.NoError(t, err)
	_, err = artifact.AppendMessageWithConfig(entities.RoleAssistant, "two", "", cfg)
	require.NoError(t, err)

	_, err = artifact.AppendMessageWithConfig(entities.RoleUser, "three", "", cfg)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Len(t, artifact.Messages(), 2)
}

func TestArtifact_MarkSavedIsIdempotent(t *testing.T) {
	artifact := createTestArtifact(t)
	artifact.MarkEventsAsCommitted()

	artifact.MarkSaved()
	artifact.MarkSaved()

	assert.Equal(t, entities.StatusSaved, artifact.Status())
	events := artifact.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "artifact.saved", events[0].GetEventType())
}

func TestArtifact_Rename(t *testing.T) {
	artifact := createTestArtifact(t)

	require.NoError(t, artifact.Rename("Crew Manifest"))
	assert.Equal(t, "Crew Manifest", artifact.Title())

	err := artifact.Rename("")
	assert.Error(t, err)
}
