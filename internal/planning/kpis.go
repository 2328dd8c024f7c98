package planning

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type KpiInput struct {
	Name        string
	Description string
	Target      string
	Timeframe   string
}

func (in *KpiInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func (r *Repo) CreateKpi(ctx context.Context, userID, projectID string, in KpiInput) (*Kpi, error) {
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
insert into kpis (project_id, name, description, target, timeframe)
values ($1::uuid, $2, $3, $4, $5)
returning id::text, project_id::text, name, description, target, timeframe, created_at;
`
	var k Kpi
	err := r.db.QueryRow(ctx, q, projectID, in.Name, in.Description, in.Target, in.Timeframe).
		Scan(&k.ID, &k.ProjectID, &k.Name, &k.Description, &k.Target, &k.Timeframe, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *Repo) ListKpis(ctx context.Context, userID, projectID string) ([]Kpi, error) {
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
select id::text, project_id::text, name, description, target, timeframe, created_at
from kpis
where project_id = $1::uuid
order by created_at;
`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Kpi, 0, 8)
	for rows.Next() {
		var k Kpi
		if err := rows.Scan(&k.ID, &k.ProjectID, &k.Name, &k.Description, &k.Target, &k.Timeframe, &k.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

type KpiPatch struct {
	Name        *string
	Description *string
	Target      *string
	Timeframe   *string
}

func (r *Repo) UpdateKpi(ctx context.Context, userID, kpiID string, p KpiPatch) (*Kpi, error) {
	const q = `
update kpis k
set name        = coalesce($3, k.name),
    description = coalesce($4, k.description),
    target      = coalesce($5, k.target),
    timeframe   = coalesce($6, k.timeframe)
from projects p
where k.id = $1::uuid
  and p.id = k.project_id
  and p.user_id = $2::uuid
  and p.deleted_at is null
returning k.id::text, k.project_id::text, k.name, k.description, k.target, k.timeframe, k.created_at;
`
	var k Kpi
	err := r.db.QueryRow(ctx, q, kpiID, userID, p.Name, p.Description, p.Target, p.Timeframe).
		Scan(&k.ID, &k.ProjectID, &k.Name, &k.Description, &k.Target, &k.Timeframe, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &k, nil
}

func (r *Repo) DeleteKpi(ctx context.Context, userID, kpiID string) (bool, error) {
	const q = `
delete from kpis k
using projects p
where k.id = $1::uuid
  and p.id = k.project_id
  and p.user_id = $2::uuid
  and p.deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, kpiID, userID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
