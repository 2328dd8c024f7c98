package planning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type FlowDiagramInput struct {
	Title       string
	Description string
	Graph       Graph
}

// SaveFlowDiagram upserts the project's diagram. The graph is normalized
// first: edges referencing missing nodes are dropped before anything is
// written.
func (r *Repo) SaveFlowDiagram(ctx context.Context, userID, projectID string, in FlowDiagramInput) (*FlowDiagram, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	in.Graph.Normalize()
	graph, err := json.Marshal(in.Graph)
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}

	const q = `
insert into flow_diagrams (project_id, title, description, graph)
values ($1::uuid, $2, $3, $4::jsonb)
on conflict (project_id) do update
set title = excluded.title,
    description = excluded.description,
    graph = excluded.graph,
    updated_at = now()
returning id::text, project_id::text, title, description, graph, created_at, updated_at;
`
	return scanFlowDiagram(r.db.QueryRow(ctx, q, projectID, in.Title, in.Description, string(graph)))
}

func (r *Repo) GetFlowDiagram(ctx context.Context, userID, projectID string) (*FlowDiagram, error) {
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
select id::text, project_id::text, title, description, graph, created_at, updated_at
from flow_diagrams
where project_id = $1::uuid;
`
	return scanFlowDiagram(r.db.QueryRow(ctx, q, projectID))
}

func (r *Repo) DeleteFlowDiagram(ctx context.Context, userID, projectID string) (bool, error) {
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return false, err
	}

	const q = `delete from flow_diagrams where project_id = $1::uuid;`
	ct, err := r.db.Exec(ctx, q, projectID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func scanFlowDiagram(row pgx.Row) (*FlowDiagram, error) {
	var d FlowDiagram
	var graph []byte
	err := row.Scan(&d.ID, &d.ProjectID, &d.Title, &d.Description, &graph, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(graph) > 0 {
		if err := json.Unmarshal(graph, &d.Graph); err != nil {
			return nil, fmt.Errorf("decode graph: %w", err)
		}
	}
	if d.Graph.Nodes == nil {
		d.Graph.Nodes = []Node{}
	}
	if d.Graph.Edges == nil {
		d.Graph.Edges = []Edge{}
	}
	return &d, nil
}
