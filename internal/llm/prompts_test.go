package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/esp32-copilot/go-copilot-backend/internal/projects/domain"
)

func TestSystemPrompt(t *testing.T) {
	assert.Contains(t, SystemPrompt(domain.StageRequirements, ""), "structured requirements")
	assert.Contains(t, SystemPrompt(domain.StageCode, ""), "Arduino framework")

	hw := SystemPrompt(domain.StageHardware, `[{"id":"dht22"}]`)
	assert.Contains(t, hw, `[{"id":"dht22"}]`, "hardware stage embeds the library")

	assert.Equal(t, fallbackPrompt, SystemPrompt(domain.StageIdea, ""))
}

func TestBuildContext(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := domain.NewProject("p1", "Plant Monitor", "water my plants automatically", "indoor use", "", now)
	p.Stages.Record(domain.StageRequirements).Content = "needs soil sensor"
	p.Stages.Record(domain.StageHardware).Content = "use capacitive probe"
	p.Stages.Record(domain.StageCode).Content = "void setup() {}"

	got := BuildContext(p, domain.StageArchitecture)

	assert.Contains(t, got, "Project: Plant Monitor")
	assert.Contains(t, got, "Idea: water my plants automatically")
	assert.Contains(t, got, "Description: indoor use")
	assert.Contains(t, got, "Target Hardware: "+domain.DefaultTargetHardware)

	assert.Contains(t, got, "=== REQUIREMENTS ===\nneeds soil sensor")
	assert.Contains(t, got, "=== HARDWARE ===\nuse capacitive probe")
	assert.NotContains(t, got, "void setup()", "later stages stay out of the context")

	// Stages appear in pipeline order.
	assert.Less(t,
		strings.Index(got, "=== IDEA ==="),
		strings.Index(got, "=== REQUIREMENTS ==="))
	assert.Less(t,
		strings.Index(got, "=== REQUIREMENTS ==="),
		strings.Index(got, "=== HARDWARE ==="))
}

func TestBuildContext_SkipsEmptyStagesAndDescription(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := domain.NewProject("p1", "Doorbell", "a smart doorbell", "", "", now)

	got := BuildContext(p, domain.StageHardware)

	assert.NotContains(t, got, "Description:")
	assert.NotContains(t, got, "=== REQUIREMENTS ===")
	assert.Contains(t, got, "=== IDEA ===\na smart doorbell")
}

func TestUserPrompt(t *testing.T) {
	withMsg := UserPrompt("ctx", domain.StageCode, "use deep sleep")
	assert.Contains(t, withMsg, "Project Context:\nctx")
	assert.Contains(t, withMsg, "User Request: use deep sleep")

	without := UserPrompt("ctx", domain.StageCode, "")
	assert.Contains(t, without, "Please generate the code for this project.")
}
