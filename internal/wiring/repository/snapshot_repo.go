package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/esp32-copilot/go-copilot-backend/internal/wiring"
)

var ErrProjectNotFound = errors.New("project not found")

// Snapshot is one persisted wiring result for a project. Versions count up
// from 1 per project.
type Snapshot struct {
	ID            string        `json:"id"`
	ProjectID     string        `json:"project_id"`
	VersionNumber int           `json:"version_number"`
	Diagram       string        `json:"diagram"`
	Result        wiring.Result `json:"result"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SnapshotRepository persists wiring results. The allocator itself never
// stores anything; this is the caller-side persistence the API offers.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// CreateVersion stores the result as the project's next snapshot version.
func (r *SnapshotRepository) CreateVersion(ctx context.Context, projectID string, res wiring.Result) (*Snapshot, error) {
	if projectID == "" {
		return nil, fmt.Errorf("project id required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var ok string
	err = tx.QueryRowContext(ctx, `
select id
from projects
where id = $1 and deleted_at is null
for update
`, projectID).Scan(&ok)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	var next int
	if err := tx.QueryRowContext(ctx, `
select coalesce(max(version_number), 0) + 1
from wiring_snapshots
where project_id = $1
`, projectID).Scan(&next); err != nil {
		return nil, err
	}

	resultJSON, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	snap := Snapshot{
		ID:            uuid.NewString(),
		ProjectID:     projectID,
		VersionNumber: next,
		Diagram:       res.Diagram,
		Result:        res,
	}

	err = tx.QueryRowContext(ctx, `
insert into wiring_snapshots (id, project_id, version_number, diagram, result, created_at)
values ($1, $2, $3, $4, $5, now())
returning created_at
`, snap.ID, snap.ProjectID, snap.VersionNumber, snap.Diagram, resultJSON).Scan(&snap.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ListByProject returns snapshots newest-first.
func (r *SnapshotRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
select id, project_id, version_number, diagram, result, created_at
from wiring_snapshots
where project_id = $1
order by version_number desc
limit $2
`, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Snapshot, 0, limit)
	for rows.Next() {
		var (
			snap       Snapshot
			resultJSON []byte
		)
		if err := rows.Scan(&snap.ID, &snap.ProjectID, &snap.VersionNumber, &snap.Diagram, &resultJSON, &snap.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(resultJSON, &snap.Result); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// PruneOld deletes every snapshot older than the newest keep versions of its
// project, returning the number removed.
func (r *SnapshotRepository) PruneOld(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}

	res, err := r.db.ExecContext(ctx, `
delete from wiring_snapshots s
using (
  select project_id, max(version_number) as max_version
  from wiring_snapshots
  group by project_id
) m
where s.project_id = m.project_id
  and s.version_number <= m.max_version - $1
`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
