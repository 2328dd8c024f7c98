package planning

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type MilestoneInput struct {
	Title         string
	Description   string
	DurationWeeks int
}

func (in *MilestoneInput) Validate() error {
	if in.Title == "" {
		return fmt.Errorf("title is required")
	}
	if in.DurationWeeks < 1 {
		return fmt.Errorf("durationWeeks must be a positive integer")
	}
	return nil
}

func (r *Repo) CreateMilestone(ctx context.Context, userID, projectID string, in MilestoneInput) (*Milestone, error) {
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
insert into milestones (project_id, title, description, duration_weeks, position)
values ($1::uuid, $2, $3, $4,
        (select coalesce(max(position), -1) + 1 from milestones where project_id = $1::uuid))
returning id::text, project_id::text, title, description, duration_weeks, position, created_at;
`
	var m Milestone
	err := r.db.QueryRow(ctx, q, projectID, in.Title, in.Description, in.DurationWeeks).
		Scan(&m.ID, &m.ProjectID, &m.Title, &m.Description, &m.DurationWeeks, &m.Position, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) ListMilestones(ctx context.Context, userID, projectID string) ([]Milestone, error) {
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}
	return r.listMilestones(ctx, r.db, projectID)
}

func (r *Repo) listMilestones(ctx context.Context, q pgxQuerier, projectID string) ([]Milestone, error) {
	const sql = `
select id::text, project_id::text, title, description, duration_weeks, position, created_at
from milestones
where project_id = $1::uuid
order by position;
`
	rows, err := q.Query(ctx, sql, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Milestone, 0, 8)
	for rows.Next() {
		var m Milestone
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Title, &m.Description, &m.DurationWeeks, &m.Position, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type MilestonePatch struct {
	Title         *string
	Description   *string
	DurationWeeks *int
}

func (r *Repo) UpdateMilestone(ctx context.Context, userID, milestoneID string, p MilestonePatch) (*Milestone, error) {
	if p.DurationWeeks != nil && *p.DurationWeeks < 1 {
		return nil, fmt.Errorf("durationWeeks must be a positive integer")
	}

	const q = `
update milestones m
set title          = coalesce($3, m.title),
    description    = coalesce($4, m.description),
    duration_weeks = coalesce($5, m.duration_weeks)
from projects p
where m.id = $1::uuid
  and p.id = m.project_id
  and p.user_id = $2::uuid
  and p.deleted_at is null
returning m.id::text, m.project_id::text, m.title, m.description, m.duration_weeks, m.position, m.created_at;
`
	var m Milestone
	err := r.db.QueryRow(ctx, q, milestoneID, userID, p.Title, p.Description, p.DurationWeeks).
		Scan(&m.ID, &m.ProjectID, &m.Title, &m.Description, &m.DurationWeeks, &m.Position, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// MoveMilestone swaps the milestone's position with its up/down neighbor
// inside one transaction, then returns the project's milestones in their new
// order. Moving the first item up or the last item down is a no-op and still
// returns the (unchanged) list.
func (r *Repo) MoveMilestone(ctx context.Context, userID, milestoneID string, dir MoveDirection) ([]Milestone, error) {
	if dir != MoveUp && dir != MoveDown {
		return nil, fmt.Errorf("direction must be up or down")
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const locate = `
select m.project_id::text
from milestones m
join projects p on p.id = m.project_id
where m.id = $1::uuid
  and p.user_id = $2::uuid
  and p.deleted_at is null
for update of m;
`
	var projectID string
	if err := tx.QueryRow(ctx, locate, milestoneID, userID).Scan(&projectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ms, err := r.listMilestones(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, m := range ms {
		if m.ID == milestoneID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	j, ok := neighborIndex(len(ms), idx, dir)
	if !ok {
		// No-op move; nothing to persist.
		return ms, tx.Commit(ctx)
	}

	const setPos = `update milestones set position = $2 where id = $1::uuid;`
	if _, err := tx.Exec(ctx, setPos, ms[idx].ID, ms[j].Position); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, setPos, ms[j].ID, ms[idx].Position); err != nil {
		return nil, err
	}

	out, err := r.listMilestones(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	return out, tx.Commit(ctx)
}

func (r *Repo) DeleteMilestone(ctx context.Context, userID, milestoneID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const del = `
delete from milestones m
using projects p
where m.id = $1::uuid
  and p.id = m.project_id
  and p.user_id = $2::uuid
  and p.deleted_at is null
returning m.project_id::text;
`
	var projectID string
	err = tx.QueryRow(ctx, del, milestoneID, userID).Scan(&projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	// Keep positions contiguous after the removal.
	const renumber = `
with ordered as (
  select id, row_number() over (order by position) - 1 as new_pos
  from milestones
  where project_id = $1::uuid
)
update milestones m
set position = o.new_pos
from ordered o
where m.id = o.id;
`
	if _, err := tx.Exec(ctx, renumber, projectID); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
