package generation

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Artifact names the five generated content types.
type Artifact string

const (
	ArtifactPlan       Artifact = "plan"
	ArtifactFeatures   Artifact = "features"
	ArtifactMilestones Artifact = "milestones"
	ArtifactKpis       Artifact = "kpis"
	ArtifactDiagrams   Artifact = "diagrams"
)

var artifacts = []Artifact{ArtifactPlan, ArtifactFeatures, ArtifactMilestones, ArtifactKpis, ArtifactDiagrams}

// State is the lifecycle of one artifact generation.
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateComplete State = "complete"
	StateError    State = "error"
)

// Progress reports the weighted completion percentage across the five
// artifact states: a complete step is worth 20 points, a loading step 10.
func Progress(states map[Artifact]State) int {
	total := 0
	for _, a := range artifacts {
		switch states[a] {
		case StateComplete:
			total += 20
		case StateLoading:
			total += 10
		}
	}
	return total
}

// Result aggregates one full generation run.
type Result struct {
	Plan       *Plan              `json:"plan,omitempty"`
	Features   *FeatureList       `json:"features,omitempty"`
	Milestones *MilestoneList     `json:"milestones,omitempty"`
	Kpis       *KpiList           `json:"kpis,omitempty"`
	Diagrams   *DiagramSet        `json:"diagrams,omitempty"`
	States     map[Artifact]State `json:"states"`
	Errors     map[Artifact]string `json:"errors,omitempty"`
	Progress   int                `json:"progress"`
}

// Complete reports whether all five artifacts finished successfully.
func (r *Result) Complete() bool {
	for _, a := range artifacts {
		if r.States[a] != StateComplete {
			return false
		}
	}
	return true
}

type run struct {
	mu     sync.Mutex
	result *Result
}

func newRun() *run {
	states := make(map[Artifact]State, len(artifacts))
	for _, a := range artifacts {
		states[a] = StateIdle
	}
	return &run{result: &Result{
		States: states,
		Errors: make(map[Artifact]string),
	}}
}

func (r *run) setLoading(a Artifact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.States[a] = StateLoading
}

func (r *run) setDone(a Artifact, err error, apply func(*Result)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.result.States[a] = StateError
		r.result.Errors[a] = err.Error()
		return
	}
	r.result.States[a] = StateComplete
	apply(r.result)
}

// Orchestrator sequences a full generation run the way the wizard consumes
// it: plan first; features, milestones and KPIs concurrently once the plan
// succeeded; diagrams strictly after KPIs (their prompt wants the generated
// feature names as context).
type Orchestrator struct {
	svc *Service
}

func NewOrchestrator(svc *Service) *Orchestrator {
	return &Orchestrator{svc: svc}
}

func (o *Orchestrator) Generate(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r := newRun()

	r.setLoading(ArtifactPlan)
	plan, err := o.svc.GeneratePlan(ctx, req)
	r.setDone(ArtifactPlan, err, func(res *Result) { res.Plan = plan })
	if err != nil {
		// Nothing else is attempted when the plan fails.
		r.result.Progress = Progress(r.result.States)
		return r.result, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	r.setLoading(ArtifactFeatures)
	g.Go(func() error {
		list, err := o.svc.GenerateFeatures(gctx, req)
		r.setDone(ArtifactFeatures, err, func(res *Result) { res.Features = list })
		return nil
	})

	r.setLoading(ArtifactMilestones)
	g.Go(func() error {
		list, err := o.svc.GenerateMilestones(gctx, req)
		r.setDone(ArtifactMilestones, err, func(res *Result) { res.Milestones = list })
		return nil
	})

	r.setLoading(ArtifactKpis)
	g.Go(func() error {
		list, err := o.svc.GenerateKpis(gctx, req)
		r.setDone(ArtifactKpis, err, func(res *Result) { res.Kpis = list })
		if err != nil {
			return nil
		}

		// Diagrams are deferred until KPIs succeed.
		diagReq := *req
		r.mu.Lock()
		if r.result.Features != nil {
			diagReq.Features = featureNames(r.result.Features)
		}
		r.mu.Unlock()

		r.setLoading(ArtifactDiagrams)
		set, derr := o.svc.GenerateDiagrams(gctx, &diagReq)
		r.setDone(ArtifactDiagrams, derr, func(res *Result) { res.Diagrams = set })
		return nil
	})

	_ = g.Wait()

	r.result.Progress = Progress(r.result.States)
	if !r.result.Complete() {
		log.Printf("[ai] generation run finished incomplete: states=%v", r.result.States)
	}
	return r.result, nil
}

func featureNames(list *FeatureList) []string {
	names := make([]string, 0, len(list.Features))
	for _, f := range list.Features {
		if f.IncludeInMvp {
			names = append(names, f.Name)
		}
	}
	return names
}
