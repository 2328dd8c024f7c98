package wizard

import "fmt"

// Step is one of the seven ordered planning steps. The zero value is the
// first step, so a freshly created project starts at StepProjectInfo.
type Step int

const (
	StepProjectInfo Step = iota
	StepIdeaExploration
	StepMvpPlan
	StepFlowDiagram
	StepPowerPoint
	StepReadme
	StepReviewExport
)

var stepNames = [...]string{
	StepProjectInfo:     "projectInfo",
	StepIdeaExploration: "ideaExploration",
	StepMvpPlan:         "mvpPlan",
	StepFlowDiagram:     "flowDiagram",
	StepPowerPoint:      "powerPoint",
	StepReadme:          "readme",
	StepReviewExport:    "reviewExport",
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) Valid() bool {
	return s >= StepProjectInfo && s <= StepReviewExport
}

// Index returns the zero-based position of the step in the wizard order.
func (s Step) Index() int {
	return int(s)
}

// Before reports whether s comes strictly earlier than other.
func (s Step) Before(other Step) bool {
	return s < other
}

func (s Step) IsFirst() bool {
	return s == StepProjectInfo
}

func (s Step) IsLast() bool {
	return s == StepReviewExport
}

func (s Step) next() Step {
	return s + 1
}

func (s Step) prev() Step {
	return s - 1
}

func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return StepProjectInfo, fmt.Errorf("unknown wizard step %q", name)
}

func Steps() []Step {
	out := make([]Step, len(stepNames))
	for i := range stepNames {
		out[i] = Step(i)
	}
	return out
}
