package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvp-studio/mvp-planner-backend/internal/wizard"
)

var ErrNotFound = errors.New("project not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type Project struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id,omitempty"`
	Name             string    `json:"name"`
	Industry         string    `json:"industry"`
	Audience         string    `json:"audience"`
	ProblemStatement string    `json:"problem_statement"`
	KeyBenefits      []string  `json:"key_benefits"`
	AdditionalNotes  string    `json:"additional_notes"`
	CurrentStep      string    `json:"current_step"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const projectColumns = `
id::text, coalesce(user_id::text, ''), name, industry, audience,
problem_statement, key_benefits, additional_notes, current_step,
created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	var benefits []byte
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Industry, &p.Audience,
		&p.ProblemStatement, &benefits, &p.AdditionalNotes, &p.CurrentStep,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.KeyBenefits = []string{}
	if len(benefits) > 0 {
		if err := json.Unmarshal(benefits, &p.KeyBenefits); err != nil {
			return nil, fmt.Errorf("decode key_benefits: %w", err)
		}
	}
	return &p, nil
}

type CreateInput struct {
	Name             string
	Industry         string
	Audience         string
	ProblemStatement string
	KeyBenefits      []string
	AdditionalNotes  string
}

func (r *Repo) Create(ctx context.Context, userID string, in CreateInput) (*Project, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name required")
	}
	if in.KeyBenefits == nil {
		in.KeyBenefits = []string{}
	}
	benefits, _ := json.Marshal(in.KeyBenefits)

	q := `
insert into projects (user_id, name, industry, audience, problem_statement, key_benefits, additional_notes, current_step)
values (nullif($1,'')::uuid, $2, $3, $4, $5, $6::jsonb, $7, $8)
returning ` + projectColumns + `;`

	return scanProject(r.db.QueryRow(ctx, q,
		userID, in.Name, in.Industry, in.Audience, in.ProblemStatement,
		string(benefits), in.AdditionalNotes, wizard.StepProjectInfo.String()))
}

func (r *Repo) Get(ctx context.Context, userID, id string) (*Project, error) {
	q := `
select ` + projectColumns + `
from projects
where id = $1::uuid and user_id = $2::uuid and deleted_at is null;`
	return scanProject(r.db.QueryRow(ctx, q, id, userID))
}

func (r *Repo) List(ctx context.Context, userID string) ([]Project, error) {
	q := `
select ` + projectColumns + `
from projects
where user_id = $1::uuid and deleted_at is null
order by updated_at desc;`

	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type UpdateInput struct {
	Name             *string
	Industry         *string
	Audience         *string
	ProblemStatement *string
	KeyBenefits      *[]string
	AdditionalNotes  *string
}

func (r *Repo) Update(ctx context.Context, userID, id string, in UpdateInput) (*Project, error) {
	cur, err := r.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		cur.Name = *in.Name
	}
	if in.Industry != nil {
		cur.Industry = *in.Industry
	}
	if in.Audience != nil {
		cur.Audience = *in.Audience
	}
	if in.ProblemStatement != nil {
		cur.ProblemStatement = *in.ProblemStatement
	}
	if in.KeyBenefits != nil {
		cur.KeyBenefits = *in.KeyBenefits
	}
	if in.AdditionalNotes != nil {
		cur.AdditionalNotes = *in.AdditionalNotes
	}

	benefits, _ := json.Marshal(cur.KeyBenefits)

	q := `
update projects
set name = $3, industry = $4, audience = $5, problem_statement = $6,
    key_benefits = $7::jsonb, additional_notes = $8, updated_at = now()
where id = $1::uuid and user_id = $2::uuid and deleted_at is null
returning ` + projectColumns + `;`

	return scanProject(r.db.QueryRow(ctx, q, id, userID,
		cur.Name, cur.Industry, cur.Audience, cur.ProblemStatement,
		string(benefits), cur.AdditionalNotes))
}

// UpdateStep persists a wizard transition. The step value is already
// validated by the wizard package before it gets here.
func (r *Repo) UpdateStep(ctx context.Context, userID, id string, step wizard.Step) (*Project, error) {
	q := `
update projects
set current_step = $3, updated_at = now()
where id = $1::uuid and user_id = $2::uuid and deleted_at is null
returning ` + projectColumns + `;`
	return scanProject(r.db.QueryRow(ctx, q, id, userID, step.String()))
}

func (r *Repo) SoftDelete(ctx context.Context, userID, id string) (bool, error) {
	const q = `
update projects
set deleted_at = now(), updated_at = now()
where id = $1::uuid and user_id = $2::uuid and deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// PurgeDeletedBefore hard-deletes projects soft-deleted before the cutoff.
// Child rows go with them via ON DELETE CASCADE.
func (r *Repo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `delete from projects where deleted_at is not null and deleted_at < $1;`
	ct, err := r.db.Exec(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// Snapshot collects the wizard precondition counts for one project in a
// single round trip.
func (r *Repo) Snapshot(ctx context.Context, userID, id string) (*wizard.Snapshot, error) {
	p, err := r.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	const q = `
select
  (select count(*) from features where project_id = $1::uuid),
  (select count(*) from features where project_id = $1::uuid and include_in_mvp),
  (select count(*) from validation_methods where project_id = $1::uuid),
  (select count(*) from validation_methods where project_id = $1::uuid and selected),
  (select count(*) from milestones where project_id = $1::uuid),
  (select count(*) from kpis where project_id = $1::uuid),
  (select coalesce(sum(jsonb_array_length(graph->'nodes')), 0) from flow_diagrams where project_id = $1::uuid);
`
	snap := wizard.Snapshot{
		ProjectName:      p.Name,
		Industry:         p.Industry,
		Audience:         p.Audience,
		ProblemStatement: p.ProblemStatement,
	}
	err = r.db.QueryRow(ctx, q, id).Scan(
		&snap.FeatureCount, &snap.MvpFeatureCount,
		&snap.ValidationCount, &snap.SelectedValidation,
		&snap.MilestoneCount, &snap.KpiCount,
		&snap.FlowDiagramNodeCount,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
