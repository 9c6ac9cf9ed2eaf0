package approval

import (
	"context"
	"errors"
	"time"

	"github.com/vendorkut/vendorkut/internal/platform/db"
)

// PostgresRecorder persists the decision history in the approvals table.
type PostgresRecorder struct {
	pool db.Querier
}

// NewPostgresRecorder constructs a PostgresRecorder.
func NewPostgresRecorder(pool db.Querier) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

// Record writes the decision row.
func (r *PostgresRecorder) Record(ctx context.Context, decision Decision) error {
	if decision.Module == "" {
		return errors.New("approval: module required")
	}
	if decision.RefID == "" {
		return errors.New("approval: ref id required")
	}
	if decision.At.IsZero() {
		decision.At = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO approvals (module, ref_id, actor_id, action, note, at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		string(decision.Module), decision.RefID, decision.ActorID, string(decision.Action), decision.Note, decision.At)
	return err
}

// List returns decisions for module/ref in chronological order.
func (r *PostgresRecorder) List(ctx context.Context, module Module, refID string) ([]Decision, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, module, ref_id, actor_id, action, note, at
FROM approvals WHERE module = $1 AND ref_id = $2 ORDER BY at ASC`, string(module), refID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var (
			d      Decision
			module string
			action string
		)
		if err := rows.Scan(&d.ID, &module, &d.RefID, &d.ActorID, &action, &d.Note, &d.At); err != nil {
			return nil, err
		}
		d.Module = Module(module)
		d.Action = Action(action)
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
