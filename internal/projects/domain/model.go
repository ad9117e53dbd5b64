package domain

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusArchived  Status = "archived"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusArchived, StatusCompleted:
		return true
	}
	return false
}

// StageRecord holds the generated content and approval state for one stage.
type StageRecord struct {
	Content     string     `json:"content,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	Approved    bool       `json:"user_approved"`
	Notes       string     `json:"notes,omitempty"`
}

// StageSet stores one record per stage in a fixed-size array indexed by
// lifecycle position, so all seven stages are always present. It serializes
// as a stage-name-keyed object for storage and wire compatibility.
type StageSet [NumStages]StageRecord

// Record returns a pointer to the record for the given stage. The stage must
// be valid; callers validate identifiers at the boundary.
func (ss *StageSet) Record(s Stage) *StageRecord {
	return &ss[s.Index()]
}

func (ss *StageSet) Get(s Stage) StageRecord {
	return ss[s.Index()]
}

func (ss StageSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]StageRecord, NumStages)
	for i, st := range StageOrder {
		m[string(st)] = ss[i]
	}
	return json.Marshal(m)
}

func (ss *StageSet) UnmarshalJSON(b []byte) error {
	var m map[string]StageRecord
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	for i, st := range StageOrder {
		ss[i] = m[string(st)]
	}
	return nil
}

// Turn is one entry of the project's conversation history, tagged with the
// stage it was produced for.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Stage   string `json:"stage"`
}

// Project is the aggregate manipulated by the stage pipeline. It is
// storage-agnostic and used across repository and HTTP layers.
type Project struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Idea                string    `json:"idea"`
	Description         string    `json:"description,omitempty"`
	TargetHardware      string    `json:"target_hardware"`
	Status              Status    `json:"status"`
	CurrentStage        Stage     `json:"current_stage"`
	Stages              StageSet  `json:"stages"`
	SelectedComponents  []string  `json:"selected_components"`
	ConversationHistory []Turn    `json:"conversation_history"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

const DefaultTargetHardware = "ESP32 DevKit V1"

// NewProject builds a fresh project with the idea stage pre-approved and
// seeded with the idea text.
func NewProject(id, name, idea, description, targetHardware string, now time.Time) *Project {
	if targetHardware == "" {
		targetHardware = DefaultTargetHardware
	}
	p := &Project{
		ID:                  id,
		Name:                name,
		Idea:                idea,
		Description:         description,
		TargetHardware:      targetHardware,
		Status:              StatusActive,
		CurrentStage:        StageIdea,
		SelectedComponents:  []string{},
		ConversationHistory: []Turn{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	rec := p.Stages.Record(StageIdea)
	rec.Content = idea
	rec.GeneratedAt = &now
	rec.Approved = true
	return p
}
