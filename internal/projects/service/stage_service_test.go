package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esp32-copilot/go-copilot-backend/internal/hardware"
	"github.com/esp32-copilot/go-copilot-backend/internal/llm"
	"github.com/esp32-copilot/go-copilot-backend/internal/projects/domain"
)

// fakeStore clones aggregates on the way in and out, like a real store.
type fakeStore struct {
	projects map[string]*domain.Project
	getCalls int
}

func newFakeStore(ps ...*domain.Project) *fakeStore {
	s := &fakeStore{projects: map[string]*domain.Project{}}
	for _, p := range ps {
		s.projects[p.ID] = clone(p)
	}
	return s
}

func clone(p *domain.Project) *domain.Project {
	raw, _ := json.Marshal(p)
	var out domain.Project
	_ = json.Unmarshal(raw, &out)
	return &out
}

func (s *fakeStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	s.getCalls++
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(p), nil
}

func (s *fakeStore) Save(ctx context.Context, p *domain.Project) error {
	s.projects[p.ID] = clone(p)
	return nil
}

type fakeGen struct {
	response string
	err      error
	lastReq  llm.Request
	calls    int
}

func (g *fakeGen) Complete(ctx context.Context, req llm.Request) (string, error) {
	g.calls++
	g.lastReq = req
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestPipeline(store Store, gen Generator) *StagePipeline {
	p := NewStagePipeline(store, gen, hardware.NewCatalog())
	p.now = func() time.Time { return testNow }
	return p
}

func newTestProject() *domain.Project {
	return domain.NewProject("p1", "Weather Station", "measure temperature outside", "", "", testNow)
}

func TestGenerate_StoresUnapprovedContent(t *testing.T) {
	store := newFakeStore(newTestProject())
	gen := &fakeGen{response: "## Functional Requirements\n- read temperature"}
	pipeline := newTestPipeline(store, gen)

	p, content, err := pipeline.Generate(context.Background(), "p1", GenerateInput{Stage: "requirements"})
	require.NoError(t, err)
	assert.Equal(t, gen.response, content)

	rec := p.Stages.Get(domain.StageRequirements)
	assert.Equal(t, gen.response, rec.Content)
	assert.False(t, rec.Approved)
	require.NotNil(t, rec.GeneratedAt)
	assert.Equal(t, testNow, *rec.GeneratedAt)

	assert.Equal(t, domain.StageIdea, p.CurrentStage, "generation never moves current_stage")

	require.Len(t, p.ConversationHistory, 1)
	assert.Equal(t, "assistant", p.ConversationHistory[0].Role)
	assert.Equal(t, "requirements", p.ConversationHistory[0].Stage)
}

func TestGenerate_ResetsApproval(t *testing.T) {
	proj := newTestProject()
	rec := proj.Stages.Record(domain.StageRequirements)
	rec.Content = "old requirements"
	rec.Approved = true
	store := newFakeStore(proj)
	gen := &fakeGen{response: "fresh requirements"}
	pipeline := newTestPipeline(store, gen)

	p, _, err := pipeline.Generate(context.Background(), "p1", GenerateInput{Stage: "requirements"})
	require.NoError(t, err)

	got := p.Stages.Get(domain.StageRequirements)
	assert.Equal(t, "fresh requirements", got.Content)
	assert.False(t, got.Approved, "regeneration must reset a prior approval")
}

func TestGenerate_UserMessageRecorded(t *testing.T) {
	store := newFakeStore(newTestProject())
	gen := &fakeGen{response: "ok"}
	pipeline := newTestPipeline(store, gen)

	p, _, err := pipeline.Generate(context.Background(), "p1", GenerateInput{
		Stage:       "requirements",
		UserMessage: "keep it battery powered",
	})
	require.NoError(t, err)

	require.Len(t, p.ConversationHistory, 2)
	assert.Equal(t, "user", p.ConversationHistory[0].Role)
	assert.Equal(t, "keep it battery powered", p.ConversationHistory[0].Content)
	assert.Equal(t, "assistant", p.ConversationHistory[1].Role)

	assert.Contains(t, gen.lastReq.Prompt, "keep it battery powered")
}

func TestGenerate_ContextCarriesEarlierStages(t *testing.T) {
	proj := newTestProject()
	proj.Stages.Record(domain.StageRequirements).Content = "needs a DHT22"
	store := newFakeStore(proj)
	gen := &fakeGen{response: "recommend DHT22"}
	pipeline := newTestPipeline(store, gen)

	_, _, err := pipeline.Generate(context.Background(), "p1", GenerateInput{Stage: "hardware"})
	require.NoError(t, err)

	assert.Contains(t, gen.lastReq.Prompt, "=== IDEA ===")
	assert.Contains(t, gen.lastReq.Prompt, "=== REQUIREMENTS ===")
	assert.Contains(t, gen.lastReq.Prompt, "needs a DHT22")
	assert.Contains(t, gen.lastReq.System, "hardware library", "hardware stage prompt embeds the catalog")
}

func TestGenerate_ProviderErrorLeavesProjectUntouched(t *testing.T) {
	store := newFakeStore(newTestProject())
	provErr := &llm.ProviderError{Provider: "groq", StatusCode: 401, Message: "invalid key"}
	pipeline := newTestPipeline(store, &fakeGen{err: provErr})

	_, _, err := pipeline.Generate(context.Background(), "p1", GenerateInput{Stage: "requirements", Provider: "groq"})
	require.Error(t, err)
	assert.ErrorAs(t, err, &provErr, "provider failure propagates verbatim")

	stored, _ := store.Get(context.Background(), "p1")
	assert.Empty(t, stored.Stages.Get(domain.StageRequirements).Content)
	assert.Empty(t, stored.ConversationHistory)
	assert.Equal(t, testNow, stored.UpdatedAt)
}

func TestGenerate_UnknownStageRejectedBeforeLoad(t *testing.T) {
	store := newFakeStore(newTestProject())
	pipeline := newTestPipeline(store, &fakeGen{response: "x"})

	_, _, err := pipeline.Generate(context.Background(), "p1", GenerateInput{Stage: "deployment"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownStage)
	assert.Zero(t, store.getCalls, "validation happens before any state access")
}

func TestApprove_AdvancesToSuccessor(t *testing.T) {
	store := newFakeStore(newTestProject())
	pipeline := newTestPipeline(store, &fakeGen{})

	p, next, err := pipeline.Approve(context.Background(), "p1", "requirements", true, "")
	require.NoError(t, err)

	assert.Equal(t, domain.StageHardware, next)
	assert.Equal(t, domain.StageHardware, p.CurrentStage)
	assert.True(t, p.Stages.Get(domain.StageRequirements).Approved)
}

func TestApprove_TerminalStage(t *testing.T) {
	proj := newTestProject()
	proj.CurrentStage = domain.StageIteration
	store := newFakeStore(proj)
	pipeline := newTestPipeline(store, &fakeGen{})

	p, next, err := pipeline.Approve(context.Background(), "p1", "iteration", true, "")
	require.NoError(t, err)

	assert.Empty(t, next)
	assert.Equal(t, domain.StageIteration, p.CurrentStage)
	assert.True(t, p.Stages.Get(domain.StageIteration).Approved)
}

func TestApprove_RejectionKeepsCurrentStage(t *testing.T) {
	proj := newTestProject()
	proj.CurrentStage = domain.StageRequirements
	store := newFakeStore(proj)
	pipeline := newTestPipeline(store, &fakeGen{})

	p, next, err := pipeline.Approve(context.Background(), "p1", "requirements", false, "too vague")
	require.NoError(t, err)

	assert.Empty(t, next)
	assert.Equal(t, domain.StageRequirements, p.CurrentStage)
	assert.False(t, p.Stages.Get(domain.StageRequirements).Approved)
	assert.Equal(t, "too vague", p.Stages.Get(domain.StageRequirements).Notes)
}

// Approving an earlier stage moves current_stage to that stage's successor
// even when the project had already advanced past it. The retreat is the
// observed behavior of the approval rule and is kept on purpose.
func TestApprove_EarlierStageRetreatsCurrentStage(t *testing.T) {
	proj := newTestProject()
	proj.CurrentStage = domain.StageCode
	store := newFakeStore(proj)
	pipeline := newTestPipeline(store, &fakeGen{})

	p, next, err := pipeline.Approve(context.Background(), "p1", "requirements", true, "")
	require.NoError(t, err)

	assert.Equal(t, domain.StageHardware, next)
	assert.Equal(t, domain.StageHardware, p.CurrentStage)
}

func TestApprove_UnknownStage(t *testing.T) {
	store := newFakeStore(newTestProject())
	pipeline := newTestPipeline(store, &fakeGen{})

	_, _, err := pipeline.Approve(context.Background(), "p1", "shipping", true, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownStage)
	assert.Zero(t, store.getCalls)
}

func TestPipeline_ProjectNotFound(t *testing.T) {
	store := newFakeStore()
	pipeline := newTestPipeline(store, &fakeGen{response: "x"})

	_, _, err := pipeline.Generate(context.Background(), "missing", GenerateInput{Stage: "requirements"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = pipeline.Approve(context.Background(), "missing", "requirements", true, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
