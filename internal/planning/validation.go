package planning

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (r *Repo) CreateValidationMethod(ctx context.Context, userID, projectID, method string, selected bool) (*ValidationMethod, error) {
	if method == "" {
		return nil, fmt.Errorf("method is required")
	}
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
insert into validation_methods (project_id, method, selected)
values ($1::uuid, $2, $3)
returning id::text, project_id::text, method, selected, created_at;
`
	var v ValidationMethod
	err := r.db.QueryRow(ctx, q, projectID, method, selected).
		Scan(&v.ID, &v.ProjectID, &v.Method, &v.Selected, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo) ListValidationMethods(ctx context.Context, userID, projectID string) ([]ValidationMethod, error) {
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
select id::text, project_id::text, method, selected, created_at
from validation_methods
where project_id = $1::uuid
order by created_at;
`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ValidationMethod, 0, 8)
	for rows.Next() {
		var v ValidationMethod
		if err := rows.Scan(&v.ID, &v.ProjectID, &v.Method, &v.Selected, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) SetValidationSelected(ctx context.Context, userID, methodID string, selected bool) (*ValidationMethod, error) {
	const q = `
update validation_methods v
set selected = $3
from projects p
where v.id = $1::uuid
  and p.id = v.project_id
  and p.user_id = $2::uuid
  and p.deleted_at is null
returning v.id::text, v.project_id::text, v.method, v.selected, v.created_at;
`
	var v ValidationMethod
	err := r.db.QueryRow(ctx, q, methodID, userID, selected).
		Scan(&v.ID, &v.ProjectID, &v.Method, &v.Selected, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repo) DeleteValidationMethod(ctx context.Context, userID, methodID string) (bool, error) {
	const q = `
delete from validation_methods v
using projects p
where v.id = $1::uuid
  and p.id = v.project_id
  and p.user_id = $2::uuid
  and p.deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, methodID, userID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
