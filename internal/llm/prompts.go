package llm

import (
	"fmt"
	"strings"

	"github.com/esp32-copilot/go-copilot-backend/internal/projects/domain"
)

const requirementsPrompt = `You are an ESP32 IoT project expert. Analyze the user's project idea and extract clear, structured requirements.
Output format:
## Functional Requirements
- List each functional requirement

## Hardware Requirements
- List sensors, actuators, displays needed

## Communication Requirements
- WiFi, MQTT, HTTP, Serial, etc.

## Power Requirements
- Battery, USB, mains considerations

## Constraints
- Any limitations or special considerations

Be specific to ESP32 capabilities. Keep it practical and achievable.`

const hardwarePromptFmt = `You are an ESP32 hardware expert. Based on the project requirements, recommend specific hardware components and provide wiring guidance.

Available hardware library:
%s

Output format:
## Recommended Components
List each component with:
- Name and model
- Purpose in this project
- Quantity needed

## Wiring Diagram (Text)
Provide clear pin connections:
Component -> ESP32
- Pin: GPIO

## Wiring Notes
- Pull-up/down resistors needed
- Power considerations
- Common mistakes to avoid

## Shopping List
Simple list of what to buy.`

const architecturePrompt = `You are an ESP32 firmware architect. Design the software architecture for this IoT project.

Output format:
## Architecture Overview
Brief description of the system design

## Module Structure
- Main loop responsibilities
- Sensor reading module
- Communication module
- Display module (if applicable)
- Configuration/Settings

## State Machine
If applicable, describe states and transitions

## Data Flow
How data moves through the system

## Libraries Required
List Arduino libraries needed with install instructions

## Memory Considerations
RAM and Flash usage estimates`

const codePrompt = `You are an ESP32 Arduino developer. Generate complete, compilable firmware code.

Requirements:
- Use Arduino framework for ESP32
- Include all necessary #include statements
- Define all pins at the top
- Add clear comments
- Handle errors gracefully
- Include Serial debug output
- Use non-blocking code where possible

Output complete, ready-to-compile code with:
1. Header with project description
2. Pin definitions
3. Library includes
4. Global variables
5. Setup function
6. Loop function
7. Helper functions

Make the code production-ready and educational.`

const explanationPrompt = `You are an ESP32 educator. Explain the generated code and architecture in a way that helps the user learn.

Output format:
## How It Works
High-level explanation

## Code Walkthrough
Explain each major section:
- Setup phase
- Main loop logic
- Key functions

## Key Concepts
Explain important concepts used:
- Timers, interrupts, protocols, etc.

## Common Modifications
How to customize or extend this code

## Debugging Tips
How to troubleshoot common issues

## Learning Resources
Links and references for deeper learning`

const iterationPrompt = `You are an ESP32 expert helping iterate on an existing project. Based on user feedback, suggest improvements, fix bugs, or add features.

Be specific and provide code snippets where helpful. Consider:
- Performance improvements
- Power optimization
- Code cleanliness
- Feature additions
- Bug fixes`

const fallbackPrompt = "You are an ESP32 IoT expert assistant."

// SystemPrompt returns the fixed system message for a stage. The hardware
// stage embeds the component library so the model recommends real parts.
func SystemPrompt(stage domain.Stage, hardwareLibraryJSON string) string {
	switch stage {
	case domain.StageRequirements:
		return requirementsPrompt
	case domain.StageHardware:
		return fmt.Sprintf(hardwarePromptFmt, hardwareLibraryJSON)
	case domain.StageArchitecture:
		return architecturePrompt
	case domain.StageCode:
		return codePrompt
	case domain.StageExplanation:
		return explanationPrompt
	case domain.StageIteration:
		return iterationPrompt
	}
	return fallbackPrompt
}

// BuildContext assembles the ordered project context handed to the model:
// project metadata followed by every earlier stage that has content.
func BuildContext(p *domain.Project, stage domain.Stage) string {
	parts := []string{
		"Project: " + p.Name,
		"Idea: " + p.Idea,
	}
	if p.Description != "" {
		parts = append(parts, "Description: "+p.Description)
	}
	parts = append(parts, "Target Hardware: "+p.TargetHardware)

	idx := stage.Index()
	if idx < 0 {
		idx = 0
	}
	for _, prev := range domain.StageOrder[:idx] {
		rec := p.Stages.Get(prev)
		if rec.Content != "" {
			parts = append(parts, fmt.Sprintf("\n=== %s ===\n%s", strings.ToUpper(string(prev)), rec.Content))
		}
	}
	return strings.Join(parts, "\n")
}

// UserPrompt wraps the context and the optional user request into the final
// user message.
func UserPrompt(contextText string, stage domain.Stage, userMessage string) string {
	if userMessage != "" {
		return fmt.Sprintf("Project Context:\n%s\n\nUser Request: %s", contextText, userMessage)
	}
	return fmt.Sprintf("Project Context:\n%s\n\nPlease generate the %s for this project.", contextText, stage)
}
