package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeSnapshot() Snapshot {
	return Snapshot{
		ProjectName:          "Acme Planner",
		Industry:             "SaaS",
		Audience:             "founders",
		ProblemStatement:     "planning is hard",
		FeatureCount:         3,
		MvpFeatureCount:      2,
		ValidationCount:      2,
		SelectedValidation:   1,
		MilestoneCount:       4,
		KpiCount:             3,
		FlowDiagramNodeCount: 5,
	}
}

func TestParseStepRoundTrip(t *testing.T) {
	for _, s := range Steps() {
		got, err := ParseStep(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStep("notAStep")
	assert.Error(t, err)
}

func TestStepOrdering(t *testing.T) {
	steps := Steps()
	require.Len(t, steps, 7)
	for i := 1; i < len(steps); i++ {
		assert.True(t, steps[i-1].Before(steps[i]))
		assert.False(t, steps[i].Before(steps[i-1]))
	}
	assert.True(t, StepProjectInfo.IsFirst())
	assert.True(t, StepReviewExport.IsLast())
}

func TestAdvanceHappyPathWalksAllSteps(t *testing.T) {
	snap := completeSnapshot()
	cur := StepProjectInfo
	for !cur.IsLast() {
		next, err := Advance(cur, snap)
		require.NoError(t, err, "advancing from %s", cur)
		assert.Equal(t, cur.Index()+1, next.Index())
		cur = next
	}

	_, err := Advance(cur, snap)
	assert.ErrorIs(t, err, ErrAtLastStep)
}

func TestAdvanceBlockedLeavesStepUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		step    Step
		mutate  func(*Snapshot)
		wantErr error
	}{
		{
			name:    "project info missing name",
			step:    StepProjectInfo,
			mutate:  func(s *Snapshot) { s.ProjectName = "  " },
			wantErr: ErrMissingProjectInfo,
		},
		{
			name:    "project info missing problem statement",
			step:    StepProjectInfo,
			mutate:  func(s *Snapshot) { s.ProblemStatement = "" },
			wantErr: ErrMissingProjectInfo,
		},
		{
			name:    "no features at all",
			step:    StepIdeaExploration,
			mutate:  func(s *Snapshot) { s.FeatureCount = 0; s.MvpFeatureCount = 0 },
			wantErr: ErrNoFeatures,
		},
		{
			name:    "features exist but none selected for mvp",
			step:    StepIdeaExploration,
			mutate:  func(s *Snapshot) { s.MvpFeatureCount = 0 },
			wantErr: ErrNoMvpFeatures,
		},
		{
			name:    "validation methods exist but none selected",
			step:    StepIdeaExploration,
			mutate:  func(s *Snapshot) { s.SelectedValidation = 0 },
			wantErr: ErrNoValidationSelected,
		},
		{
			name:    "no milestones",
			step:    StepMvpPlan,
			mutate:  func(s *Snapshot) { s.MilestoneCount = 0 },
			wantErr: ErrNoMilestones,
		},
		{
			name:    "no kpis",
			step:    StepMvpPlan,
			mutate:  func(s *Snapshot) { s.KpiCount = 0 },
			wantErr: ErrNoKpis,
		},
		{
			name:    "diagram with one node",
			step:    StepFlowDiagram,
			mutate:  func(s *Snapshot) { s.FlowDiagramNodeCount = 1 },
			wantErr: ErrDiagramTooSmall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := completeSnapshot()
			tt.mutate(&snap)

			got, err := Advance(tt.step, snap)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.step, got, "step must not change on a blocked advance")
		})
	}
}

func TestEmptyValidationListDoesNotBlock(t *testing.T) {
	snap := completeSnapshot()
	snap.ValidationCount = 0
	snap.SelectedValidation = 0

	next, err := Advance(StepIdeaExploration, snap)
	require.NoError(t, err)
	assert.Equal(t, StepMvpPlan, next)
}

func TestPreviousIsUnconditional(t *testing.T) {
	// Even a completely empty snapshot never blocks backward navigation.
	for _, s := range Steps() {
		if s.IsFirst() {
			_, err := Previous(s)
			assert.ErrorIs(t, err, ErrAtFirstStep)
			continue
		}
		prev, err := Previous(s)
		require.NoError(t, err)
		assert.Equal(t, s.Index()-1, prev.Index())
	}
}

func TestFeatureSelectionScenario(t *testing.T) {
	snap := completeSnapshot()
	snap.FeatureCount = 0
	snap.MvpFeatureCount = 0

	_, err := Advance(StepIdeaExploration, snap)
	require.ErrorIs(t, err, ErrNoFeatures)

	// One feature added, but not marked for the MVP: different message.
	snap.FeatureCount = 1
	_, err = Advance(StepIdeaExploration, snap)
	require.ErrorIs(t, err, ErrNoMvpFeatures)
	assert.NotEqual(t, ErrNoFeatures.Error(), ErrNoMvpFeatures.Error())

	// Marked for the MVP: the transition goes through.
	snap.MvpFeatureCount = 1
	next, err := Advance(StepIdeaExploration, snap)
	require.NoError(t, err)
	assert.Equal(t, StepMvpPlan, next)
}
