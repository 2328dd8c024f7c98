package generation

import (
	"fmt"
	"strings"
)

const errorDiagram = "flowchart LR\n    A[Diagram] --> B[Unavailable]"

// SanitizeMermaid normalizes one model-produced Mermaid string: code-fence
// markers are stripped, whitespace trimmed, and a flowchart header prepended
// when missing. The result is always non-empty and always starts with
// "flowchart". Calling it twice gives the same output.
func SanitizeMermaid(s string) string {
	out := s
	out = strings.ReplaceAll(out, "```mermaid", "")
	out = strings.ReplaceAll(out, "```", "")
	out = strings.TrimSpace(out)

	if out == "" {
		return errorDiagram
	}
	if !strings.HasPrefix(out, "flowchart") {
		out = "flowchart LR\n" + out
	}
	return out
}

// DiagramSet is the diagrams artifact payload: three Mermaid flowcharts plus
// an explanation paragraph.
type DiagramSet struct {
	UserFlowDiagram           string `json:"userFlowDiagram"`
	DataFlowDiagram           string `json:"dataFlowDiagram"`
	SystemArchitectureDiagram string `json:"systemArchitectureDiagram"`
	DiagramsExplanation       string `json:"diagramsExplanation"`
}

func (d *DiagramSet) sanitize() {
	d.UserFlowDiagram = SanitizeMermaid(d.UserFlowDiagram)
	d.DataFlowDiagram = SanitizeMermaid(d.DataFlowDiagram)
	d.SystemArchitectureDiagram = SanitizeMermaid(d.SystemArchitectureDiagram)
}

// FallbackDiagrams is the deterministic payload returned when diagram
// generation fails for any reason past input validation. The diagrams step
// never blocks the wizard, so the underlying error rides along in the
// explanation instead of an error response.
func FallbackDiagrams(projectName string, cause error) *DiagramSet {
	name := strings.TrimSpace(projectName)
	if name == "" {
		name = "Your MVP"
	}

	reason := "unknown error"
	if cause != nil {
		reason = cause.Error()
	}

	return &DiagramSet{
		UserFlowDiagram: "flowchart LR\n" +
			"    U[User] --> L[Landing Page]\n" +
			"    L --> S[Sign Up]\n" +
			"    S --> C[Core Flow]\n" +
			"    C --> D[Done]",
		DataFlowDiagram: "flowchart LR\n" +
			"    I[User Input] --> A[API]\n" +
			"    A --> DB[(Database)]\n" +
			"    DB --> A\n" +
			"    A --> O[Response]",
		SystemArchitectureDiagram: "flowchart LR\n" +
			"    FE[Frontend] --> BE[Backend]\n" +
			"    BE --> DB[(Database)]\n" +
			"    BE --> EXT[External Services]",
		DiagramsExplanation: fmt.Sprintf(
			"These are placeholder diagrams for %s. Automatic diagram generation was unavailable (%s). You can regenerate them at any time.",
			name, reason),
	}
}
