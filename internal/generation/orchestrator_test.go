package generation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressWeighting(t *testing.T) {
	states := map[Artifact]State{
		ArtifactPlan:       StateIdle,
		ArtifactFeatures:   StateIdle,
		ArtifactMilestones: StateIdle,
		ArtifactKpis:       StateIdle,
		ArtifactDiagrams:   StateIdle,
	}
	assert.Equal(t, 0, Progress(states))

	states[ArtifactPlan] = StateComplete
	states[ArtifactFeatures] = StateComplete
	states[ArtifactMilestones] = StateComplete
	states[ArtifactKpis] = StateLoading
	assert.Equal(t, 70, Progress(states), "3 complete + 1 loading = 3x20 + 10")

	states[ArtifactKpis] = StateComplete
	states[ArtifactDiagrams] = StateComplete
	assert.Equal(t, 100, Progress(states))

	states[ArtifactDiagrams] = StateError
	assert.Equal(t, 80, Progress(states), "errored steps contribute nothing")
}

// callRecorder captures which artifact each LLM call served, in order.
type callRecorder struct {
	mu    sync.Mutex
	order []Artifact
}

func (r *callRecorder) record(a Artifact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, a)
}

func (r *callRecorder) snapshot() []Artifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Artifact(nil), r.order...)
}

// dispatchLLM answers each artifact with canned JSON, keyed off the system
// message each prompt builder uses.
func dispatchLLM(t *testing.T, fail map[Artifact]bool, rec *callRecorder) *httptest.Server {
	t.Helper()

	answers := map[Artifact]string{
		ArtifactPlan:       `{"executiveSummary":"s","problemStatement":"p","valueProposition":"v","keyFeatures":["f1"],"scope":"sc","successCriteria":"ok","challenges":"c","nextSteps":"n"}`,
		ArtifactFeatures:   `{"features":[{"name":"login","description":"d","priority":"High","difficulty":"Easy","includeInMvp":true}]}`,
		ArtifactMilestones: `{"milestones":[{"title":"m1","description":"d","durationWeeks":2}]}`,
		ArtifactKpis:       `{"kpis":[{"name":"signups","description":"d","target":"100","timeframe":"month"}]}`,
		ArtifactDiagrams:   `{"userFlowDiagram":"flowchart LR\n A-->B","dataFlowDiagram":"flowchart LR\n C-->D","systemArchitectureDiagram":"flowchart LR\n E-->F","diagramsExplanation":"x"}`,
	}

	classify := func(system string) Artifact {
		switch {
		case strings.Contains(system, "startup advisor"):
			return ArtifactPlan
		case strings.Contains(system, "product manager"):
			return ArtifactFeatures
		case strings.Contains(system, "delivery lead"):
			return ArtifactMilestones
		case strings.Contains(system, "growth analyst"):
			return ArtifactKpis
		default:
			return ArtifactDiagrams
		}
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		require.NotEmpty(t, req.Messages)

		artifact := classify(req.Messages[0].Content)
		if rec != nil {
			rec.record(artifact)
		}

		if fail[artifact] {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": answers[artifact]}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOrchestratorFullRun(t *testing.T) {
	srv := dispatchLLM(t, nil, nil)
	defer srv.Close()

	orch := NewOrchestrator(newTestService(srv.URL))
	res, err := orch.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, res.Complete())
	assert.Equal(t, 100, res.Progress)
	require.NotNil(t, res.Plan)
	require.NotNil(t, res.Features)
	require.NotNil(t, res.Milestones)
	require.NotNil(t, res.Kpis)
	require.NotNil(t, res.Diagrams)
	assert.Empty(t, res.Errors)
}

func TestOrchestratorStopsWhenPlanFails(t *testing.T) {
	rec := &callRecorder{}
	srv := dispatchLLM(t, map[Artifact]bool{ArtifactPlan: true}, rec)
	defer srv.Close()

	orch := NewOrchestrator(newTestService(srv.URL))
	res, err := orch.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, StateError, res.States[ArtifactPlan])
	assert.Equal(t, StateIdle, res.States[ArtifactFeatures])
	assert.Equal(t, StateIdle, res.States[ArtifactMilestones])
	assert.Equal(t, StateIdle, res.States[ArtifactKpis])
	assert.Equal(t, StateIdle, res.States[ArtifactDiagrams])
	assert.Equal(t, 0, res.Progress)
	assert.Equal(t, []Artifact{ArtifactPlan}, rec.snapshot(), "only the plan call may be attempted")
}

func TestOrchestratorDefersDiagramsUntilKpisSucceed(t *testing.T) {
	rec := &callRecorder{}
	srv := dispatchLLM(t, nil, rec)
	defer srv.Close()

	orch := NewOrchestrator(newTestService(srv.URL))
	res, err := orch.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	require.True(t, res.Complete())

	order := rec.snapshot()
	kpiIdx, diagIdx := -1, -1
	for i, a := range order {
		switch a {
		case ArtifactKpis:
			kpiIdx = i
		case ArtifactDiagrams:
			diagIdx = i
		}
	}
	require.NotEqual(t, -1, kpiIdx)
	require.NotEqual(t, -1, diagIdx)
	assert.Greater(t, diagIdx, kpiIdx, "diagrams must run after KPIs")
	assert.Equal(t, ArtifactPlan, order[0], "plan runs before everything else")
}

func TestOrchestratorSkipsDiagramsWhenKpisFail(t *testing.T) {
	srv := dispatchLLM(t, map[Artifact]bool{ArtifactKpis: true}, nil)
	defer srv.Close()

	orch := NewOrchestrator(newTestService(srv.URL))
	res, err := orch.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, StateError, res.States[ArtifactKpis])
	assert.Equal(t, StateIdle, res.States[ArtifactDiagrams])
	assert.Equal(t, StateComplete, res.States[ArtifactFeatures])
	assert.False(t, res.Complete())
}

func TestOrchestratorValidatesInput(t *testing.T) {
	orch := NewOrchestrator(newTestService("http://127.0.0.1:1"))
	req := validRequest()
	req.Industry = ""

	_, err := orch.Generate(context.Background(), req)
	assert.Error(t, err)
}
