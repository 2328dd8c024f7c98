package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *Request {
	return &Request{
		ProjectName:      "Acme Planner",
		Industry:         "SaaS",
		TargetAudience:   "early-stage founders",
		ProblemStatement: "founders struggle to scope an MVP",
		KeyBenefits:      []string{"faster planning", "clearer scope"},
	}
}

// fakeLLM returns an httptest server that answers every chat completion with
// the given assistant content.
func fakeLLM(t *testing.T, content string, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", got)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestService(serverURL string) *Service {
	return NewService(NewClient(serverURL, "test-key", "test-model", 5*time.Second))
}

func TestGeneratePlan(t *testing.T) {
	reply := "Here is your plan:\n```json\n" + `{
		"executiveSummary": "A planner for founders",
		"problemStatement": "scoping is hard",
		"valueProposition": "guided planning",
		"keyFeatures": ["wizard", "export"],
		"scope": "seven steps",
		"successCriteria": "plans shipped",
		"challenges": "llm variance",
		"nextSteps": "build it",
	}` + "\n```"

	srv := fakeLLM(t, reply, nil)
	defer srv.Close()

	plan, err := newTestService(srv.URL).GeneratePlan(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "A planner for founders", plan.ExecutiveSummary)
	assert.Equal(t, []string{"wizard", "export"}, plan.KeyFeatures)
}

func TestGenerateFailsFastOnMissingFields(t *testing.T) {
	var calls atomic.Int64
	srv := fakeLLM(t, "{}", &calls)
	defer srv.Close()

	svc := newTestService(srv.URL)
	req := validRequest()
	req.ProblemStatement = "  "

	_, err := svc.GeneratePlan(context.Background(), req)
	assert.ErrorContains(t, err, "missing required fields")

	_, err = svc.GenerateFeatures(context.Background(), req)
	assert.Error(t, err)
	_, err = svc.GenerateMilestones(context.Background(), req)
	assert.Error(t, err)
	_, err = svc.GenerateKpis(context.Background(), req)
	assert.Error(t, err)
	_, err = svc.GenerateDiagrams(context.Background(), req)
	assert.Error(t, err, "diagrams validate input like everyone else")

	assert.Equal(t, int64(0), calls.Load(), "no LLM call may be made when fields are missing")
}

func TestGenerateSurfacesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error": {"message": "model overloaded"}}`)
	}))
	defer srv.Close()

	svc := newTestService(srv.URL)

	_, err := svc.GenerateFeatures(context.Background(), validRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestGenerateSurfacesParseFailure(t *testing.T) {
	srv := fakeLLM(t, "I could not produce JSON today, sorry!", nil)
	defer srv.Close()

	_, err := newTestService(srv.URL).GenerateKpis(context.Background(), validRequest())
	assert.Error(t, err)
}

func TestGenerateDiagramsSanitizesOutput(t *testing.T) {
	reply := `{
		"userFlowDiagram": "` + "```mermaid\\nflowchart TB\\n  A-->B\\n```" + `",
		"dataFlowDiagram": "A --> B",
		"systemArchitectureDiagram": "",
		"diagramsExplanation": "three sketches"
	}`
	srv := fakeLLM(t, reply, nil)
	defer srv.Close()

	set, err := newTestService(srv.URL).GenerateDiagrams(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "flowchart TB\n  A-->B", set.UserFlowDiagram)
	assert.Equal(t, "flowchart LR\nA --> B", set.DataFlowDiagram)
	assert.True(t, strings.HasPrefix(set.SystemArchitectureDiagram, "flowchart LR"))
	assert.Equal(t, "three sketches", set.DiagramsExplanation)
}

func TestGenerateDiagramsNeverFailsPastValidation(t *testing.T) {
	t.Run("upstream failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"error": {"message": "capacity exceeded"}}`)
		}))
		defer srv.Close()

		set, err := newTestService(srv.URL).GenerateDiagrams(context.Background(), validRequest())
		require.NoError(t, err)
		assertFallbackSet(t, set, "capacity exceeded")
	})

	t.Run("parse failure", func(t *testing.T) {
		srv := fakeLLM(t, "definitely not json", nil)
		defer srv.Close()

		set, err := newTestService(srv.URL).GenerateDiagrams(context.Background(), validRequest())
		require.NoError(t, err)
		assertFallbackSet(t, set, "not valid JSON")
	})

	t.Run("network failure", func(t *testing.T) {
		svc := newTestService("http://127.0.0.1:1")

		set, err := svc.GenerateDiagrams(context.Background(), validRequest())
		require.NoError(t, err)
		assert.NotEmpty(t, set.DiagramsExplanation)
	})
}

func assertFallbackSet(t *testing.T, set *DiagramSet, wantReason string) {
	t.Helper()
	for _, d := range []string{set.UserFlowDiagram, set.DataFlowDiagram, set.SystemArchitectureDiagram} {
		assert.NotEmpty(t, d)
		assert.True(t, strings.HasPrefix(d, "flowchart"))
	}
	assert.Contains(t, set.DiagramsExplanation, wantReason)
}
