package planning

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo covers the project child entities. Every query is scoped to the
// owning user through the projects table, so a handler can pass ids straight
// from the URL.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// ownsProject verifies the project exists, is live, and belongs to userID.
func (r *Repo) ownsProject(ctx context.Context, q querier, userID, projectID string) error {
	const sql = `
select 1 from projects
where id = $1::uuid and user_id = $2::uuid and deleted_at is null;
`
	var one int
	err := q.QueryRow(ctx, sql, projectID, userID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// querier lets ownership checks run on the pool or inside a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
