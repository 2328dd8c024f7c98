package generation

import (
	"context"
	"log"
)

// Plan is the "plan" artifact shape.
type Plan struct {
	ExecutiveSummary string   `json:"executiveSummary"`
	ProblemStatement string   `json:"problemStatement"`
	ValueProposition string   `json:"valueProposition"`
	KeyFeatures      []string `json:"keyFeatures"`
	Scope            string   `json:"scope"`
	SuccessCriteria  string   `json:"successCriteria"`
	Challenges       string   `json:"challenges"`
	NextSteps        string   `json:"nextSteps"`
}

type FeatureSuggestion struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	Difficulty   string `json:"difficulty"`
	IncludeInMvp bool   `json:"includeInMvp"`
}

type FeatureList struct {
	Features []FeatureSuggestion `json:"features"`
}

type MilestoneSuggestion struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DurationWeeks int    `json:"durationWeeks"`
}

type MilestoneList struct {
	Milestones []MilestoneSuggestion `json:"milestones"`
}

type KpiSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Target      string `json:"target"`
	Timeframe   string `json:"timeframe"`
}

type KpiList struct {
	Kpis []KpiSuggestion `json:"kpis"`
}

// Service runs the five artifact generations against the LLM client.
type Service struct {
	llm *Client
}

func NewService(llm *Client) *Service {
	return &Service{llm: llm}
}

func (s *Service) generate(ctx context.Context, artifact, system, prompt string, out any) error {
	reply, err := s.llm.Complete(ctx, system, prompt)
	if err != nil {
		log.Printf("[ai] %s generation failed: %v", artifact, err)
		return err
	}
	if err := ExtractInto(reply, out); err != nil {
		log.Printf("[ai] %s parse failed: %v", artifact, err)
		return err
	}
	return nil
}

func (s *Service) GeneratePlan(ctx context.Context, req *Request) (*Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var plan Plan
	if err := s.generate(ctx, "plan", planSystem(), planPrompt(req), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *Service) GenerateFeatures(ctx context.Context, req *Request) (*FeatureList, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var list FeatureList
	if err := s.generate(ctx, "features", featuresSystem(), featuresPrompt(req), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Service) GenerateMilestones(ctx context.Context, req *Request) (*MilestoneList, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var list MilestoneList
	if err := s.generate(ctx, "milestones", milestonesSystem(), milestonesPrompt(req), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Service) GenerateKpis(ctx context.Context, req *Request) (*KpiList, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var list KpiList
	if err := s.generate(ctx, "kpis", kpisSystem(), kpisPrompt(req), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GenerateDiagrams only errors on invalid input. Any failure past validation
// (network, upstream, parse) is converted into the deterministic fallback
// payload so the diagrams step never blocks the wizard.
func (s *Service) GenerateDiagrams(ctx context.Context, req *Request) (*DiagramSet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var set DiagramSet
	if err := s.generate(ctx, "diagrams", diagramsSystem(), diagramsPrompt(req), &set); err != nil {
		return FallbackDiagrams(req.ProjectName, err), nil
	}
	set.sanitize()
	return &set, nil
}
