package planning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (r *Repo) CreateCompetitor(ctx context.Context, userID, projectID, name string) (*Competitor, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
insert into competitors (project_id, name)
values ($1::uuid, $2)
returning id::text, project_id::text, name, created_at;
`
	var comp Competitor
	err := r.db.QueryRow(ctx, q, projectID, name).
		Scan(&comp.ID, &comp.ProjectID, &comp.Name, &comp.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &comp, nil
}

func (r *Repo) ListCompetitors(ctx context.Context, userID, projectID string) ([]Competitor, error) {
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
select id::text, project_id::text, name, created_at
from competitors
where project_id = $1::uuid
order by created_at;
`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Competitor, 0, 4)
	for rows.Next() {
		var comp Competitor
		if err := rows.Scan(&comp.ID, &comp.ProjectID, &comp.Name, &comp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, comp)
	}
	return out, rows.Err()
}

// DeleteCompetitor removes the competitor and, in the same transaction,
// prunes its flag from every competitive-feature row of the project. Flags
// are keyed by competitor id, so no other column is touched.
func (r *Repo) DeleteCompetitor(ctx context.Context, userID, competitorID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const del = `
delete from competitors comp
using projects p
where comp.id = $1::uuid
  and p.id = comp.project_id
  and p.user_id = $2::uuid
  and p.deleted_at is null
returning comp.project_id::text;
`
	var projectID string
	err = tx.QueryRow(ctx, del, competitorID, userID).Scan(&projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	const prune = `
update competitive_features
set competitor_flags = competitor_flags - $2
where project_id = $1::uuid;
`
	if _, err := tx.Exec(ctx, prune, projectID, competitorID); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

func (r *Repo) CreateCompetitiveFeature(ctx context.Context, userID, projectID, name string, yourMvp bool) (*CompetitiveFeature, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
insert into competitive_features (project_id, name, your_mvp, competitor_flags)
values ($1::uuid, $2, $3, '{}'::jsonb)
returning id::text, project_id::text, name, your_mvp, competitor_flags, created_at;
`
	return scanCompetitiveFeature(r.db.QueryRow(ctx, q, projectID, name, yourMvp))
}

func (r *Repo) ListCompetitiveFeatures(ctx context.Context, userID, projectID string) ([]CompetitiveFeature, error) {
	if err := r.ownsProject(ctx, r.db, userID, projectID); err != nil {
		return nil, err
	}

	const q = `
select id::text, project_id::text, name, your_mvp, competitor_flags, created_at
from competitive_features
where project_id = $1::uuid
order by created_at;
`
	rows, err := r.db.Query(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CompetitiveFeature, 0, 8)
	for rows.Next() {
		cf, err := scanCompetitiveFeature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cf)
	}
	return out, rows.Err()
}

// ToggleCompetitiveFeature flips one column: competitorID == "" targets the
// "your MVP" column, otherwise exactly that competitor's flag.
func (r *Repo) ToggleCompetitiveFeature(ctx context.Context, userID, featureID, competitorID string) (*CompetitiveFeature, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const get = `
select cf.id::text, cf.project_id::text, cf.name, cf.your_mvp, cf.competitor_flags, cf.created_at
from competitive_features cf
join projects p on p.id = cf.project_id
where cf.id = $1::uuid
  and p.user_id = $2::uuid
  and p.deleted_at is null
for update of cf;
`
	cf, err := scanCompetitiveFeature(tx.QueryRow(ctx, get, featureID, userID))
	if err != nil {
		return nil, err
	}

	if competitorID != "" {
		// The flag must reference a live competitor of the same project.
		if err := r.competitorInProject(ctx, tx, cf.ProjectID, competitorID); err != nil {
			return nil, err
		}
	}

	cf.Toggle(competitorID)

	flags, _ := json.Marshal(cf.Flags)
	const upd = `
update competitive_features
set your_mvp = $2, competitor_flags = $3::jsonb
where id = $1::uuid;
`
	if _, err := tx.Exec(ctx, upd, cf.ID, cf.YourMvp, string(flags)); err != nil {
		return nil, err
	}

	return cf, tx.Commit(ctx)
}

func (r *Repo) DeleteCompetitiveFeature(ctx context.Context, userID, featureID string) (bool, error) {
	const q = `
delete from competitive_features cf
using projects p
where cf.id = $1::uuid
  and p.id = cf.project_id
  and p.user_id = $2::uuid
  and p.deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, featureID, userID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *Repo) competitorInProject(ctx context.Context, q querier, projectID, competitorID string) error {
	const sql = `select 1 from competitors where id = $1::uuid and project_id = $2::uuid;`
	var one int
	err := q.QueryRow(ctx, sql, competitorID, projectID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUnknownCompetitor
	}
	return err
}

func scanCompetitiveFeature(row pgx.Row) (*CompetitiveFeature, error) {
	var cf CompetitiveFeature
	var flags []byte
	err := row.Scan(&cf.ID, &cf.ProjectID, &cf.Name, &cf.YourMvp, &flags, &cf.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	cf.Flags = make(map[string]bool)
	if len(flags) > 0 {
		if err := json.Unmarshal(flags, &cf.Flags); err != nil {
			return nil, fmt.Errorf("decode competitor_flags: %w", err)
		}
	}
	return &cf, nil
}
