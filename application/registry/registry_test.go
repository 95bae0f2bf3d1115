package registry_test

import (
	"fmt"
	"testing"

	"mythos-backend/application/registry"
	"mythos-backend/domain/config"
	"mythos-backend/domain/core/entities"
	"mythos-backend/domain/core/valueobjects"
	pkgerrors "mythos-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeArtifact(t *testing.T, title string) *entities.Artifact {
	t.Helper()
	artifact, err := entities.NewArtifact("project-1", title, entities.TypeProse, entities.FormatMarkdown, "content", "user-123")
	require.NoError(t, err)
	return artifact
}

func TestRegistry_PutMakesActive(t *testing.T) {
	r := registry.New(nil)
	a := makeArtifact(t, "First")
	b := makeArtifact(t, "Second")

	require.NoError(t, r.Put(a))
	require.NoError(t, r.Put(b))

	assert.Equal(t, 2, r.Len())
	active, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, b.Key(), active.Key())

	got, ok := r.Get(a.Key())
	require.True(t, ok)
	assert.Equal(t, "First", got.Title())
}

func TestRegistry_SetActiveRequiresRegistration(t *testing.T) {
	r := registry.New(nil)
	a := makeArtifact(t, "First")
	require.NoError(t, r.Put(a))

	err := r.SetActive(valueobjects.NewArtifactKey())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRegistry_RecentIsBoundedMRU(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.MaxRecentArtifacts = 3
	r := registry.New(cfg)

	var artifacts []*entities.Artifact
	for i := 0; i < 5; i++ {
		a := makeArtifact(t, fmt.Sprintf("Artifact %d", i))
		artifacts = append(artifacts, a)
		require.NoError(t, r.Put(a))
	}

	recent := r.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, artifacts[4].Key(), recent[0])
	assert.Equal(t, artifacts[3].Key(), recent[1])
	assert.Equal(t, artifacts[2].Key(), recent[2])
}

func TestRegistry_TouchMovesToFrontWithoutDuplicating(t *testing.T) {
	r := registry.New(nil)
	a := makeArtifact(t, "A")
	b := makeArtifact(t, "B")
	require.NoError(t, r.Put(a))
	require.NoError(t, r.Put(b))

	require.NoError(t, r.SetActive(a.Key()))

	recent := r.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, a.Key(), recent[0])
	assert.Equal(t, b.Key(), recent[1])
}

func TestRegistry_RemoveClearsActiveAndRecent(t *testing.T) {
	r := registry.New(nil)
	a := makeArtifact(t, "A")
	require.NoError(t, r.Put(a))

	r.Remove(a.Key())

	assert.Equal(t, 0, r.Len())
	_, ok := r.Active()
	assert.False(t, ok)
	assert.Empty(t, r.Recent())
}

func TestRegistry_SplitView(t *testing.T) {
	r := registry.New(nil)
	a := makeArtifact(t, "Left")
	b := makeArtifact(t, "Right")
	require.NoError(t, r.Put(a))
	require.NoError(t, r.Put(b))

	require.NoError(t, r.SetSplitView(a.Key(), b.Key()))

	sv, ok := r.SplitView()
	require.True(t, ok)
	assert.Equal(t, a.Key(), sv.Left)
	assert.Equal(t, b.Key(), sv.Right)

	r.ClearSplitView()
	_, ok = r.SplitView()
	assert.False(t, ok)
}

func TestRegistry_SplitViewValidation(t *testing.T) {
	r := registry.New(nil)
	a := makeArtifact(t, "Left")
	require.NoError(t, r.Put(a))

	// Same artifact twice
	err := r.SetSplitView(a.Key(), a.Key())
	assert.True(t, pkgerrors.IsValidation(err))

	// Unregistered member
	err = r.SetSplitView(a.Key(), valueobjects.NewArtifactKey())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestRegistry_RemovingSplitMemberClearsPairing(t *testing.T) {
	r := registry.New(nil)
	a := makeArtifact(t, "Left")
	b := makeArtifact(t, "Right")
	require.NoError(t, r.Put(a))
	require.NoError(t, r.Put(b))
	require.NoError(t, r.SetSplitView(a.Key(), b.Key()))

	r.Remove(b.Key())

	_, ok := r.SplitView()
	assert.False(t, ok)
}

func TestRegistry_DisposedRejectsMutations(t *testing.T) {
	r := registry.New(nil)
	a := makeArtifact(t, "A")
	require.NoError(t, r.Put(a))

	r.Dispose()

	assert.Equal(t, 0, r.Len())
	err := r.Put(makeArtifact(t, "B"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}
