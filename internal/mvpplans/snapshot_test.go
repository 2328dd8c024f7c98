package mvpplans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-studio/mvp-planner-backend/internal/generation"
)

func TestSaveSnapshotSkipsIncompleteRun(t *testing.T) {
	s := NewSaver(nil) // repo must never be touched for incomplete runs

	res := &generation.Result{
		States: map[generation.Artifact]generation.State{
			generation.ArtifactPlan:     generation.StateComplete,
			generation.ArtifactFeatures: generation.StateError,
		},
	}
	req := &generation.Request{ProjectName: "Acme"}

	assert.NoError(t, s.SaveSnapshot(context.Background(), "u1", "p1", req, res))
}

func TestInputValidate(t *testing.T) {
	assert.Error(t, (&Input{}).Validate())
	assert.NoError(t, (&Input{Name: "Acme MVP Plan"}).Validate())
}

func TestBlobDefaultsToEmptyObject(t *testing.T) {
	assert.Equal(t, "{}", blob(nil))
	assert.Equal(t, `{"a":1}`, blob([]byte(`{"a":1}`)))
}
