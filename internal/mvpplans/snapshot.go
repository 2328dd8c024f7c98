package mvpplans

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mvp-studio/mvp-planner-backend/internal/generation"
)

// Saver persists the consolidated snapshot of a successful full generation
// run. It satisfies the generation handler's SnapshotSaver hook.
type Saver struct {
	repo *Repo
}

func NewSaver(repo *Repo) *Saver {
	return &Saver{repo: repo}
}

// SaveSnapshot stores one MvpPlan per completed run. Incomplete runs are
// skipped silently: partial artifacts are not worth snapshotting.
func (s *Saver) SaveSnapshot(ctx context.Context, userID, projectID string, req *generation.Request, res *generation.Result) error {
	if !res.Complete() || res.Plan == nil {
		return nil
	}

	in := Input{
		ProjectID:        projectID,
		Name:             req.ProjectName + " MVP Plan",
		ExecutiveSummary: res.Plan.ExecutiveSummary,
		ProblemStatement: res.Plan.ProblemStatement,
		ValueProposition: res.Plan.ValueProposition,
		Scope:            res.Plan.Scope,
		SuccessCriteria:  res.Plan.SuccessCriteria,
		Challenges:       res.Plan.Challenges,
		NextSteps:        res.Plan.NextSteps,
		KeyFeatures:      res.Plan.KeyFeatures,
	}

	var err error
	if in.FeaturesData, err = json.Marshal(res.Features); err != nil {
		return fmt.Errorf("encode features_data: %w", err)
	}
	if in.MilestonesData, err = json.Marshal(res.Milestones); err != nil {
		return fmt.Errorf("encode milestones_data: %w", err)
	}
	if in.KpiData, err = json.Marshal(res.Kpis); err != nil {
		return fmt.Errorf("encode kpi_data: %w", err)
	}
	if in.DiagramsData, err = json.Marshal(res.Diagrams); err != nil {
		return fmt.Errorf("encode diagrams_data: %w", err)
	}

	if _, err := s.repo.Create(ctx, userID, in); err != nil {
		return fmt.Errorf("save plan snapshot: %w", err)
	}
	return nil
}
