package generation

import (
	"fmt"
	"strings"
)

// Request is the common generation-request shape shared by all five
// artifacts. Features and Competitors only feed the plan and milestones
// prompts.
type Request struct {
	ProjectName      string   `json:"projectName"`
	Industry         string   `json:"industry"`
	TargetAudience   string   `json:"targetAudience"`
	ProblemStatement string   `json:"problemStatement"`
	KeyBenefits      []string `json:"keyBenefits"`
	AdditionalNotes  string   `json:"additionalNotes,omitempty"`
	Features         []string `json:"features,omitempty"`
	Competitors      []string `json:"competitors,omitempty"`
}

// Validate checks the required subset of fields. Every artifact requires the
// four descriptive fields; key benefits may be empty.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.ProjectName) == "" ||
		strings.TrimSpace(r.Industry) == "" ||
		strings.TrimSpace(r.TargetAudience) == "" ||
		strings.TrimSpace(r.ProblemStatement) == "" {
		return fmt.Errorf("missing required fields: projectName, industry, targetAudience and problemStatement are required")
	}
	return nil
}

func (r *Request) contextBlock() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project name: %s\n", r.ProjectName)
	fmt.Fprintf(&b, "Industry: %s\n", r.Industry)
	fmt.Fprintf(&b, "Target audience: %s\n", r.TargetAudience)
	fmt.Fprintf(&b, "Problem statement: %s\n", r.ProblemStatement)
	if len(r.KeyBenefits) > 0 {
		fmt.Fprintf(&b, "Key benefits: %s\n", strings.Join(r.KeyBenefits, "; "))
	}
	if strings.TrimSpace(r.AdditionalNotes) != "" {
		fmt.Fprintf(&b, "Additional notes: %s\n", r.AdditionalNotes)
	}
	return b.String()
}

const jsonOnlyRule = "Respond with a single JSON object and nothing else. No markdown, no commentary."

func planSystem() string {
	return "You are an experienced startup advisor helping plan a Minimum Viable Product. " +
		jsonOnlyRule + " The object must have exactly these string fields: " +
		`"executiveSummary", "problemStatement", "valueProposition", "scope", "successCriteria", "challenges", "nextSteps", ` +
		`plus "keyFeatures" as an array of strings.`
}

func planPrompt(r *Request) string {
	var b strings.Builder
	b.WriteString("Create an MVP plan for the following project.\n\n")
	b.WriteString(r.contextBlock())
	if len(r.Features) > 0 {
		fmt.Fprintf(&b, "Candidate features: %s\n", strings.Join(r.Features, "; "))
	}
	if len(r.Competitors) > 0 {
		fmt.Fprintf(&b, "Known competitors: %s\n", strings.Join(r.Competitors, "; "))
	}
	b.WriteString("\nReturn a JSON object with executiveSummary, problemStatement, valueProposition, keyFeatures (array of strings), scope, successCriteria, challenges and nextSteps.")
	return b.String()
}

func featuresSystem() string {
	return "You are a product manager decomposing an MVP into features. " + jsonOnlyRule +
		` The object must be {"features": [...]} where each feature has "name", "description", ` +
		`"priority" (one of "Low", "Medium", "High"), "difficulty" (one of "Easy", "Medium", "Hard") and "includeInMvp" (boolean).`
}

func featuresPrompt(r *Request) string {
	return "Suggest 6-10 concrete product features for the following project. Mark the minimal viable subset with includeInMvp=true.\n\n" +
		r.contextBlock() +
		"\nReturn a JSON object of the shape {\"features\": [{\"name\", \"description\", \"priority\", \"difficulty\", \"includeInMvp\"}]}."
}

func milestonesSystem() string {
	return "You are a delivery lead breaking an MVP build into milestones. " + jsonOnlyRule +
		` The object must be {"milestones": [...]} where each milestone has "title", "description" and "durationWeeks" (positive integer).`
}

func milestonesPrompt(r *Request) string {
	var b strings.Builder
	b.WriteString("Lay out a realistic build timeline of 4-6 milestones for the following project.\n\n")
	b.WriteString(r.contextBlock())
	if len(r.Features) > 0 {
		fmt.Fprintf(&b, "Planned features: %s\n", strings.Join(r.Features, "; "))
	}
	b.WriteString("\nReturn a JSON object of the shape {\"milestones\": [{\"title\", \"description\", \"durationWeeks\"}]}.")
	return b.String()
}

func kpisSystem() string {
	return "You are a growth analyst defining success metrics for an MVP launch. " + jsonOnlyRule +
		` The object must be {"kpis": [...]} where each KPI has "name", "description", "target" and "timeframe".`
}

func kpisPrompt(r *Request) string {
	return "Define 4-6 measurable KPIs for the following project's MVP launch.\n\n" +
		r.contextBlock() +
		"\nReturn a JSON object of the shape {\"kpis\": [{\"name\", \"description\", \"target\", \"timeframe\"}]}."
}

func diagramsSystem() string {
	return "You are a software architect sketching Mermaid flowcharts for an MVP. " + jsonOnlyRule +
		` The object must have string fields "userFlowDiagram", "dataFlowDiagram", "systemArchitectureDiagram" ` +
		`(each a Mermaid flowchart starting with "flowchart") and "diagramsExplanation".`
}

func diagramsPrompt(r *Request) string {
	var b strings.Builder
	b.WriteString("Create three Mermaid flowcharts (user flow, data flow, system architecture) for the following project.\n\n")
	b.WriteString(r.contextBlock())
	if len(r.Features) > 0 {
		fmt.Fprintf(&b, "Planned features: %s\n", strings.Join(r.Features, "; "))
	}
	b.WriteString("\nReturn a JSON object with userFlowDiagram, dataFlowDiagram, systemArchitectureDiagram and diagramsExplanation. Each diagram must start with \"flowchart\".")
	return b.String()
}
