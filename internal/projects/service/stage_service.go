package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/esp32-copilot/go-copilot-backend/internal/hardware"
	"github.com/esp32-copilot/go-copilot-backend/internal/llm"
	"github.com/esp32-copilot/go-copilot-backend/internal/projects/domain"
)

// Store is the persistence boundary the pipeline depends on. The project
// repository satisfies it.
type Store interface {
	Get(ctx context.Context, id string) (*domain.Project, error)
	Save(ctx context.Context, p *domain.Project) error
}

// Generator produces stage content from a system prompt and project context.
// The LLM client satisfies it.
type Generator interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// StagePipeline drives a project through its fixed stage lifecycle: generate
// content for a stage, then gate advancement on explicit approval.
type StagePipeline struct {
	store Store
	gen   Generator
	locks projectLocks
	now   func() time.Time

	hardwareLibraryJSON string
}

func NewStagePipeline(store Store, gen Generator, catalog *hardware.Catalog) *StagePipeline {
	lib, _ := json.MarshalIndent(catalog.Library(), "", "  ")
	return &StagePipeline{
		store:               store,
		gen:                 gen,
		now:                 func() time.Time { return time.Now().UTC() },
		hardwareLibraryJSON: string(lib),
	}
}

// GenerateInput names the optional knobs of a generation call.
type GenerateInput struct {
	Stage       string
	UserMessage string
	Provider    string
	Model       string
}

// Generate asks the model for the stage's content and stores it unapproved.
// Generation always resets approval, even for a previously approved stage,
// and never moves current_stage. On any generator failure the project is
// left exactly as loaded.
func (s *StagePipeline) Generate(ctx context.Context, projectID string, in GenerateInput) (*domain.Project, string, error) {
	stage, err := domain.ParseStage(in.Stage)
	if err != nil {
		return nil, "", err
	}

	unlock := s.locks.acquire(projectID)
	defer unlock()

	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, "", err
	}

	contextText := llm.BuildContext(p, stage)
	content, err := s.gen.Complete(ctx, llm.Request{
		Provider: in.Provider,
		Model:    in.Model,
		System:   llm.SystemPrompt(stage, s.hardwareLibraryJSON),
		Prompt:   llm.UserPrompt(contextText, stage, in.UserMessage),
	})
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	*p.Stages.Record(stage) = domain.StageRecord{
		Content:     content,
		GeneratedAt: &now,
		Approved:    false,
	}

	if in.UserMessage != "" {
		p.ConversationHistory = append(p.ConversationHistory, domain.Turn{
			Role: "user", Content: in.UserMessage, Stage: string(stage),
		})
	}
	p.ConversationHistory = append(p.ConversationHistory, domain.Turn{
		Role: "assistant", Content: content, Stage: string(stage),
	})

	p.UpdatedAt = now
	if err := s.store.Save(ctx, p); err != nil {
		return nil, "", err
	}
	return p, content, nil
}

// Approve records the user's verdict on a stage. Approving any non-terminal
// stage moves current_stage to that stage's successor, keyed off the approved
// stage's position alone. Approving an earlier stage therefore pulls
// current_stage back next to it even when later stages were already
// generated; that observed behavior is kept as-is.
func (s *StagePipeline) Approve(ctx context.Context, projectID, stageName string, approved bool, notes string) (*domain.Project, domain.Stage, error) {
	stage, err := domain.ParseStage(stageName)
	if err != nil {
		return nil, "", err
	}

	unlock := s.locks.acquire(projectID)
	defer unlock()

	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, "", err
	}

	rec := p.Stages.Record(stage)
	rec.Approved = approved
	if notes != "" {
		rec.Notes = notes
	}

	var next domain.Stage
	if approved {
		if n, ok := stage.Next(); ok {
			next = n
			p.CurrentStage = n
		}
	}

	p.UpdatedAt = s.now()
	if err := s.store.Save(ctx, p); err != nil {
		return nil, "", err
	}
	return p, next, nil
}
