package planning

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type FeatureInput struct {
	Name         string
	Description  string
	Priority     string
	Difficulty   string
	IncludeInMvp bool
}

func (in *FeatureInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !ValidPriority(in.Priority) {
		return fmt.Errorf("priority must be one of Low, Medium, High")
	}
	if !ValidDifficulty(in.Difficulty) {
		return fmt.Errorf("difficulty must be one of Easy, Medium, Hard")
	}
	return nil
}

func (r *Repo) CreateFeature(ctx context.Context, userID, projectID string, in FeatureInput) (*Feature, error) {
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
insert into features (project_id, name, description, priority, difficulty, include_in_mvp, position)
values ($1::uuid, $2, $3, $4, $5, $6,
        (select coalesce(max(position), -1) + 1 from features where project_id = $1::uuid))
returning id::text, project_id::text, name, description, priority, difficulty, include_in_mvp, position, created_at;
`
	var f Feature
	err := r.db.QueryRow(ctx, q, projectID, in.Name, in.Description, in.Priority, in.Difficulty, in.IncludeInMvp).
		Scan(&f.ID, &f.ProjectID, &f.Name, &f.Description, &f.Priority, &f.Difficulty, &f.IncludeInMvp, &f.Position, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repo) ListFeatures(ctx context.Context, userID, projectID string) ([]Feature, error) {
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
select id::text, project_id::text, name, description, priority, difficulty, include_in_mvp, position, created_at
from features
where project_id = $1::uuid
order by position;
`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Feature, 0, 8)
	for rows.Next() {
		var f Feature
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Name, &f.Description, &f.Priority, &f.Difficulty, &f.IncludeInMvp, &f.Position, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type FeaturePatch struct {
	Name         *string
	Description  *string
	Priority     *string
	Difficulty   *string
	IncludeInMvp *bool
}

func (r *Repo) UpdateFeature(ctx context.Context, userID, featureID string, p FeaturePatch) (*Feature, error) {
	const q = `
update features f
set name           = coalesce($3, f.name),
    description    = coalesce($4, f.description),
    priority       = coalesce($5, f.priority),
    difficulty     = coalesce($6, f.difficulty),
    include_in_mvp = coalesce($7, f.include_in_mvp)
from projects p
where f.id = $1::uuid
  and p.id = f.project_id
  and p.user_id = $2::uuid
  and p.deleted_at is null
returning f.id::text, f.project_id::text, f.name, f.description, f.priority, f.difficulty, f.include_in_mvp, f.position, f.created_at;
`
	var f Feature
	err := r.db.QueryRow(ctx, q, featureID, userID, p.Name, p.Description, p.Priority, p.Difficulty, p.IncludeInMvp).
		Scan(&f.ID, &f.ProjectID, &f.Name, &f.Description, &f.Priority, &f.Difficulty, &f.IncludeInMvp, &f.Position, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repo) DeleteFeature(ctx context.Context, userID, featureID string) (bool, error) {
	const q = `
delete from features f
using projects p
where f.id = $1::uuid
  and p.id = f.project_id
  and p.user_id = $2::uuid
  and p.deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, featureID, userID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
