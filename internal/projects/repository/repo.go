package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/esp32-copilot/go-copilot-backend/internal/projects/domain"
)

// ProjectRepository owns persistence of the project aggregate. The stage
// pipeline works on loaded copies and hands mutated aggregates back to Save.
type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
id, name, idea, description, target_hardware, status, current_stage,
stages, selected_components, conversation_history, created_at, updated_at`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p            domain.Project
		stages       []byte
		components   []byte
		conversation []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Idea, &p.Description, &p.TargetHardware,
		&p.Status, &p.CurrentStage, &stages, &components, &conversation,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(stages, &p.Stages); err != nil {
		return nil, fmt.Errorf("decode stages: %w", err)
	}
	if err := json.Unmarshal(components, &p.SelectedComponents); err != nil {
		return nil, fmt.Errorf("decode selected_components: %w", err)
	}
	if err := json.Unmarshal(conversation, &p.ConversationHistory); err != nil {
		return nil, fmt.Errorf("decode conversation_history: %w", err)
	}
	if p.SelectedComponents == nil {
		p.SelectedComponents = []string{}
	}
	if p.ConversationHistory == nil {
		p.ConversationHistory = []domain.Turn{}
	}
	return &p, nil
}

func encodeAggregate(p *domain.Project) (stages, components, conversation []byte, err error) {
	if stages, err = json.Marshal(p.Stages); err != nil {
		return nil, nil, nil, fmt.Errorf("encode stages: %w", err)
	}
	if components, err = json.Marshal(p.SelectedComponents); err != nil {
		return nil, nil, nil, fmt.Errorf("encode selected_components: %w", err)
	}
	if conversation, err = json.Marshal(p.ConversationHistory); err != nil {
		return nil, nil, nil, fmt.Errorf("encode conversation_history: %w", err)
	}
	return stages, components, conversation, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	stages, components, conversation, err := encodeAggregate(p)
	if err != nil {
		return err
	}

	const q = `
insert into projects
  (id, name, idea, description, target_hardware, status, current_stage,
   stages, selected_components, conversation_history, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	_, err = r.db.Exec(ctx, q,
		p.ID, p.Name, p.Idea, p.Description, p.TargetHardware,
		p.Status, p.CurrentStage, stages, components, conversation,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := `select` + projectColumns + `
from projects
where id = $1 and deleted_at is null;
`
	return scanProject(r.db.QueryRow(ctx, q, id))
}

// List returns projects newest-first, optionally filtered by status.
func (r *ProjectRepository) List(ctx context.Context, status domain.Status) ([]domain.Project, error) {
	q := `select` + projectColumns + `
from projects
where deleted_at is null and ($1 = '' or status = $1)
order by updated_at desc
limit 100;
`
	rows, err := r.db.Query(ctx, q, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Save writes the whole aggregate back. The caller sets UpdatedAt.
func (r *ProjectRepository) Save(ctx context.Context, p *domain.Project) error {
	stages, components, conversation, err := encodeAggregate(p)
	if err != nil {
		return err
	}

	const q = `
update projects
set name = $2, idea = $3, description = $4, target_hardware = $5,
    status = $6, current_stage = $7, stages = $8,
    selected_components = $9, conversation_history = $10, updated_at = $11
where id = $1 and deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q,
		p.ID, p.Name, p.Idea, p.Description, p.TargetHardware,
		p.Status, p.CurrentStage, stages, components, conversation,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	const q = `
update projects
set deleted_at = now(), updated_at = now()
where id = $1 and deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
