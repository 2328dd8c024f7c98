package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleYourMvpColumn(t *testing.T) {
	cf := CompetitiveFeature{
		YourMvp: false,
		Flags:   map[string]bool{"c1": true, "c2": false},
	}

	cf.Toggle("")
	assert.True(t, cf.YourMvp)
	assert.Equal(t, map[string]bool{"c1": true, "c2": false}, cf.Flags, "competitor flags must not change")

	cf.Toggle("")
	assert.False(t, cf.YourMvp)
}

func TestToggleCompetitorColumn(t *testing.T) {
	cf := CompetitiveFeature{
		YourMvp: true,
		Flags:   map[string]bool{"c1": true},
	}

	cf.Toggle("c2")
	assert.True(t, cf.Flags["c2"], "unset flag toggles to true")
	assert.True(t, cf.YourMvp, "your-mvp column must not change")
	assert.True(t, cf.Flags["c1"], "other competitors must not change")

	cf.Toggle("c1")
	assert.False(t, cf.Flags["c1"])
}

func TestToggleNilFlags(t *testing.T) {
	var cf CompetitiveFeature
	cf.Toggle("c9")
	require.NotNil(t, cf.Flags)
	assert.True(t, cf.Flags["c9"])
}

func TestNeighborIndex(t *testing.T) {
	tests := []struct {
		name   string
		length int
		i      int
		dir    MoveDirection
		want   int
		ok     bool
	}{
		{"middle up", 5, 2, MoveUp, 1, true},
		{"middle down", 5, 2, MoveDown, 3, true},
		{"first up is no-op", 5, 0, MoveUp, 0, false},
		{"last down is no-op", 5, 4, MoveDown, 0, false},
		{"last up", 5, 4, MoveUp, 3, true},
		{"single item up", 1, 0, MoveUp, 0, false},
		{"single item down", 1, 0, MoveDown, 0, false},
		{"bad direction", 5, 2, MoveDirection("sideways"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := neighborIndex(tt.length, tt.i, tt.dir)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestGraphNormalizeDropsDanglingEdges(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "a", Target: "ghost"},
			{ID: "e3", Source: "ghost", Target: "b"},
		},
	}

	dropped := g.Normalize()
	assert.Equal(t, 2, dropped)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "e1", g.Edges[0].ID)
}

func TestGraphNormalizeEmpty(t *testing.T) {
	var g Graph
	assert.Equal(t, 0, g.Normalize())
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Edges)
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "b", Target: "c"},
			{ID: "e3", Source: "a", Target: "c"},
		},
	}

	require.True(t, g.RemoveNode("b"))
	assert.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "e3", g.Edges[0].ID)

	assert.False(t, g.RemoveNode("b"), "second removal finds nothing")
}

func TestFeatureInputValidate(t *testing.T) {
	valid := FeatureInput{Name: "Login", Priority: "High", Difficulty: "Easy"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		in   FeatureInput
	}{
		{"missing name", FeatureInput{Priority: "High", Difficulty: "Easy"}},
		{"bad priority", FeatureInput{Name: "x", Priority: "Urgent", Difficulty: "Easy"}},
		{"bad difficulty", FeatureInput{Name: "x", Priority: "High", Difficulty: "Trivial"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.in.Validate())
		})
	}
}

func TestMilestoneInputValidate(t *testing.T) {
	assert.NoError(t, (&MilestoneInput{Title: "Beta", DurationWeeks: 2}).Validate())
	assert.Error(t, (&MilestoneInput{DurationWeeks: 2}).Validate())
	assert.Error(t, (&MilestoneInput{Title: "Beta", DurationWeeks: 0}).Validate())
	assert.Error(t, (&MilestoneInput{Title: "Beta", DurationWeeks: -3}).Validate())
}

func TestVocabularies(t *testing.T) {
	for _, p := range Priorities {
		assert.True(t, ValidPriority(p))
	}
	assert.False(t, ValidPriority("low"), "vocabulary is case sensitive")

	for _, d := range Difficulties {
		assert.True(t, ValidDifficulty(d))
	}
	assert.False(t, ValidDifficulty(""))
}
