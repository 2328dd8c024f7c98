package planning

import "time"

// FlowDiagram is the stored canvas: a titled graph of nodes and edges kept
// as one jsonb payload.
type FlowDiagram struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Graph       Graph     `json:"graph"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type Node struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
	Draggable   bool    `json:"draggable"`
}

type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Normalize enforces that every edge endpoint resolves to an existing node.
// Edges that don't are dropped. Node deletion cascades through this: remove
// the node, normalize, and its incident edges go away. Returns the number of
// edges dropped.
func (g *Graph) Normalize() int {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}

	kept := g.Edges[:0]
	dropped := 0
	for _, e := range g.Edges {
		if _, ok := ids[e.Source]; !ok {
			dropped++
			continue
		}
		if _, ok := ids[e.Target]; !ok {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	return dropped
}

// RemoveNode deletes a node by id and cascades its incident edges.
func (g *Graph) RemoveNode(nodeID string) bool {
	found := false
	kept := g.Nodes[:0]
	for _, n := range g.Nodes {
		if n.ID == nodeID {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	g.Nodes = kept
	if found {
		g.Normalize()
	}
	return found
}
