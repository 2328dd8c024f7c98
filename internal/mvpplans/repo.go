package mvpplans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

// MvpPlan is a consolidated snapshot of a finished planning run. The project
// reference is loose: the plan survives project deletion and is garbage
// collected later by the maintenance job.
type MvpPlan struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	ProjectID        string          `json:"project_id"`
	Name             string          `json:"name"`
	ExecutiveSummary string          `json:"executive_summary"`
	ProblemStatement string          `json:"problem_statement"`
	ValueProposition string          `json:"value_proposition"`
	Scope            string          `json:"scope"`
	SuccessCriteria  string          `json:"success_criteria"`
	Challenges       string          `json:"challenges"`
	NextSteps        string          `json:"next_steps"`
	KeyFeatures      []string        `json:"key_features"`
	FeaturesData     json.RawMessage `json:"features_data"`
	MilestonesData   json.RawMessage `json:"milestones_data"`
	KpiData          json.RawMessage `json:"kpi_data"`
	DiagramsData     json.RawMessage `json:"diagrams_data"`
	CreatedAt        time.Time       `json:"created_at"`
}

type Input struct {
	ProjectID        string
	Name             string
	ExecutiveSummary string
	ProblemStatement string
	ValueProposition string
	Scope            string
	SuccessCriteria  string
	Challenges       string
	NextSteps        string
	KeyFeatures      []string
	FeaturesData     json.RawMessage
	MilestonesData   json.RawMessage
	KpiData          json.RawMessage
	DiagramsData     json.RawMessage
}

func (in *Input) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const planColumns = `id::text, user_id::text, coalesce(project_id::text, ''), name,
executive_summary, problem_statement, value_proposition, scope,
success_criteria, challenges, next_steps, key_features,
features_data, milestones_data, kpi_data, diagrams_data, created_at`

func (r *Repo) Create(ctx context.Context, userID string, in Input) (*MvpPlan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	keyFeatures, err := json.Marshal(nonNil(in.KeyFeatures))
	if err != nil {
		return nil, fmt.Errorf("encode key_features: %w", err)
	}

	var projectID *string
	if in.ProjectID != "" {
		projectID = &in.ProjectID
	}

	q := `
insert into mvp_plans (user_id, project_id, name,
  executive_summary, problem_statement, value_proposition, scope,
  success_criteria, challenges, next_steps, key_features,
  features_data, milestones_data, kpi_data, diagrams_data)
values ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb,
        $12::jsonb, $13::jsonb, $14::jsonb, $15::jsonb)
returning ` + planColumns + `;`

	row := r.db.QueryRow(ctx, q, userID, projectID, in.Name,
		in.ExecutiveSummary, in.ProblemStatement, in.ValueProposition, in.Scope,
		in.SuccessCriteria, in.Challenges, in.NextSteps, string(keyFeatures),
		blob(in.FeaturesData), blob(in.MilestonesData), blob(in.KpiData), blob(in.DiagramsData))
	return scanPlan(row)
}

// Get returns the plan. Admins can read any plan, everyone else only their
// own.
func (r *Repo) Get(ctx context.Context, userID string, admin bool, planID string) (*MvpPlan, error) {
	q := `select ` + planColumns + ` from mvp_plans where id = $1::uuid`
	args := []any{planID}
	if !admin {
		q += ` and user_id = $2::uuid`
		args = append(args, userID)
	}
	return scanPlan(r.db.QueryRow(ctx, q+";", args...))
}

func (r *Repo) List(ctx context.Context, userID string, admin bool) ([]MvpPlan, error) {
	q := `select ` + planColumns + ` from mvp_plans`
	args := []any{}
	if !admin {
		q += ` where user_id = $1::uuid`
		args = append(args, userID)
	}
	q += ` order by created_at desc;`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MvpPlan, 0, 8)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, userID string, admin bool, planID string) (bool, error) {
	q := `delete from mvp_plans where id = $1::uuid`
	args := []any{planID}
	if !admin {
		q += ` and user_id = $2::uuid`
		args = append(args, userID)
	}
	ct, err := r.db.Exec(ctx, q+";", args...)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// PurgeOrphansBefore deletes plans older than cutoff whose project no longer
// exists (or was never set). Used by the nightly maintenance job.
func (r *Repo) PurgeOrphansBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
delete from mvp_plans mp
where mp.created_at < $1
  and (mp.project_id is null
       or not exists (select 1 from projects p
                      where p.id = mp.project_id and p.deleted_at is null));
`
	ct, err := r.db.Exec(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func scanPlan(row pgx.Row) (*MvpPlan, error) {
	var p MvpPlan
	var keyFeatures []byte
	err := row.Scan(&p.ID, &p.UserID, &p.ProjectID, &p.Name,
		&p.ExecutiveSummary, &p.ProblemStatement, &p.ValueProposition, &p.Scope,
		&p.SuccessCriteria, &p.Challenges, &p.NextSteps, &keyFeatures,
		&p.FeaturesData, &p.MilestonesData, &p.KpiData, &p.DiagramsData, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(keyFeatures) > 0 {
		if err := json.Unmarshal(keyFeatures, &p.KeyFeatures); err != nil {
			return nil, fmt.Errorf("decode key_features: %w", err)
		}
	}
	if p.KeyFeatures == nil {
		p.KeyFeatures = []string{}
	}
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// blob coerces an absent jsonb payload to the empty object so the column
// never stores SQL null.
func blob(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}
