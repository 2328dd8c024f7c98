package generation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMermaid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty string becomes fallback diagram",
			in:   "",
			want: "flowchart LR\n    A[Diagram] --> B[Unavailable]",
		},
		{
			name: "whitespace only becomes fallback diagram",
			in:   "  \n\t ",
			want: "flowchart LR\n    A[Diagram] --> B[Unavailable]",
		},
		{
			name: "already a flowchart is returned unchanged",
			in:   "flowchart TB\n  A-->B",
			want: "flowchart TB\n  A-->B",
		},
		{
			name: "fenced mermaid block is unwrapped",
			in:   "```mermaid\nflowchart LR\n  A-->B\n```",
			want: "flowchart LR\n  A-->B",
		},
		{
			name: "missing header is prepended",
			in:   "A --> B",
			want: "flowchart LR\nA --> B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeMermaid(tt.in))
		})
	}
}

func TestSanitizeMermaidIsTotalAndIdempotent(t *testing.T) {
	inputs := []string{
		"", "   ", "flowchart LR\n  A-->B", "```\nstuff\n```",
		"graph TD\n A-->B", "just some prose",
	}
	for _, in := range inputs {
		once := SanitizeMermaid(in)
		assert.NotEmpty(t, once)
		assert.True(t, strings.HasPrefix(once, "flowchart"), "input %q gave %q", in, once)
		assert.Equal(t, once, SanitizeMermaid(once), "sanitizer must be idempotent for %q", in)
	}
}

func TestFallbackDiagrams(t *testing.T) {
	set := FallbackDiagrams("Acme", errors.New("connection refused"))

	for _, d := range []string{set.UserFlowDiagram, set.DataFlowDiagram, set.SystemArchitectureDiagram} {
		assert.NotEmpty(t, d)
		assert.True(t, strings.HasPrefix(d, "flowchart"))
	}
	assert.Contains(t, set.DiagramsExplanation, "Acme")
	assert.Contains(t, set.DiagramsExplanation, "connection refused")
}

func TestFallbackDiagramsWithoutName(t *testing.T) {
	set := FallbackDiagrams("  ", nil)
	assert.Contains(t, set.DiagramsExplanation, "Your MVP")
	assert.Contains(t, set.DiagramsExplanation, "unknown error")
}
