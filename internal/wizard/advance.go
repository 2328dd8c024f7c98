package wizard

import (
	"errors"
	"strings"
)

// Snapshot is everything the wizard needs to decide whether a project may
// leave its current step. Counts come from the project's child tables.
type Snapshot struct {
	ProjectName      string
	Industry         string
	Audience         string
	ProblemStatement string

	FeatureCount         int
	MvpFeatureCount      int
	ValidationCount      int
	SelectedValidation   int
	MilestoneCount       int
	KpiCount             int
	FlowDiagramNodeCount int
}

// Precondition errors carry the user-facing message directly; handlers send
// err.Error() back as-is.
var (
	ErrMissingProjectInfo   = errors.New("fill in the project name, industry, target audience and problem statement before continuing")
	ErrNoFeatures           = errors.New("add at least one feature before continuing")
	ErrNoMvpFeatures        = errors.New("select at least one feature to include in your MVP")
	ErrNoValidationSelected = errors.New("select at least one validation method")
	ErrNoMilestones         = errors.New("add at least one milestone before continuing")
	ErrNoKpis               = errors.New("add at least one KPI before continuing")
	ErrDiagramTooSmall      = errors.New("your flow diagram needs at least two nodes")
	ErrAtLastStep           = errors.New("already at the final step")
	ErrAtFirstStep          = errors.New("already at the first step")
)

// Advance returns the step that follows current, or the precondition error
// that blocks the transition. current is returned unchanged on error.
func Advance(current Step, snap Snapshot) (Step, error) {
	if !current.Valid() {
		return current, errors.New("unknown wizard step")
	}
	if current.IsLast() {
		return current, ErrAtLastStep
	}

	if err := checkPrecondition(current, snap); err != nil {
		return current, err
	}
	return current.next(), nil
}

// Previous is unconditional: any step except the first may go back.
func Previous(current Step) (Step, error) {
	if !current.Valid() {
		return current, errors.New("unknown wizard step")
	}
	if current.IsFirst() {
		return current, ErrAtFirstStep
	}
	return current.prev(), nil
}

func checkPrecondition(current Step, snap Snapshot) error {
	switch current {
	case StepProjectInfo:
		if strings.TrimSpace(snap.ProjectName) == "" ||
			strings.TrimSpace(snap.Industry) == "" ||
			strings.TrimSpace(snap.Audience) == "" ||
			strings.TrimSpace(snap.ProblemStatement) == "" {
			return ErrMissingProjectInfo
		}

	case StepIdeaExploration:
		// "no features yet" and "features but none selected" are distinct
		// states and deliberately get different messages.
		if snap.FeatureCount == 0 {
			return ErrNoFeatures
		}
		if snap.MvpFeatureCount == 0 {
			return ErrNoMvpFeatures
		}
		// An empty validation-method list does not block; the selection
		// check only applies once the list is non-empty.
		if snap.ValidationCount > 0 && snap.SelectedValidation == 0 {
			return ErrNoValidationSelected
		}

	case StepMvpPlan:
		if snap.MilestoneCount == 0 {
			return ErrNoMilestones
		}
		if snap.KpiCount == 0 {
			return ErrNoKpis
		}

	case StepFlowDiagram:
		if snap.FlowDiagramNodeCount < 2 {
			return ErrDiagramTooSmall
		}

	case StepPowerPoint, StepReadme:
		// unconditional
	}

	return nil
}
