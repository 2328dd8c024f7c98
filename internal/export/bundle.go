package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvp-studio/mvp-planner-backend/internal/planning"
	"github.com/mvp-studio/mvp-planner-backend/internal/projects"
)

// Bundle is everything an export renders from: the project plus all of its
// child entities. FlowDiagram is nil when the project has none.
type Bundle struct {
	Project           *projects.Project
	Features          []planning.Feature
	ValidationMethods []planning.ValidationMethod
	Competitors       []planning.Competitor
	CompFeatures      []planning.CompetitiveFeature
	Milestones        []planning.Milestone
	Kpis              []planning.Kpi
	FlowDiagram       *planning.FlowDiagram
}

// MvpFeatures returns only the features marked for the MVP cut.
func (b *Bundle) MvpFeatures() []planning.Feature {
	out := make([]planning.Feature, 0, len(b.Features))
	for _, f := range b.Features {
		if f.IncludeInMvp {
			out = append(out, f)
		}
	}
	return out
}

// TotalWeeks sums milestone durations for the timeline summary.
func (b *Bundle) TotalWeeks() int {
	total := 0
	for _, m := range b.Milestones {
		total += m.DurationWeeks
	}
	return total
}

type Collector struct {
	projects *projects.Repo
	planning *planning.Repo
}

func NewCollector(pr *projects.Repo, pl *planning.Repo) *Collector {
	return &Collector{projects: pr, planning: pl}
}

// Collect loads the full bundle for one project the session user owns.
func (c *Collector) Collect(ctx context.Context, userID, projectID string) (*Bundle, error) {
	p, err := c.projects.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Project: p}
	if b.Features, err = c.planning.ListFeatures(ctx, userID, projectID); err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	if b.ValidationMethods, err = c.planning.ListValidationMethods(ctx, userID, projectID); err != nil {
		return nil, fmt.Errorf("load validation methods: %w", err)
	}
	if b.Competitors, err = c.planning.ListCompetitors(ctx, userID, projectID); err != nil {
		return nil, fmt.Errorf("load competitors: %w", err)
	}
	if b.CompFeatures, err = c.planning.ListCompetitiveFeatures(ctx, userID, projectID); err != nil {
		return nil, fmt.Errorf("load competitive features: %w", err)
	}
	if b.Milestones, err = c.planning.ListMilestones(ctx, userID, projectID); err != nil {
		return nil, fmt.Errorf("load milestones: %w", err)
	}
	if b.Kpis, err = c.planning.ListKpis(ctx, userID, projectID); err != nil {
		return nil, fmt.Errorf("load KPIs: %w", err)
	}

	d, err := c.planning.GetFlowDiagram(ctx, userID, projectID)
	switch {
	case err == nil:
		b.FlowDiagram = d
	case errors.Is(err, planning.ErrNotFound):
		// Exports render a placeholder instead.
	default:
		return nil, fmt.Errorf("load flow diagram: %w", err)
	}

	return b, nil
}
