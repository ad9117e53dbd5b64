package domain

import "fmt"

// Stage is one phase of the fixed project lifecycle. The order below is
// invariant and never reconfigured at runtime.
type Stage string

const (
	StageIdea         Stage = "idea"
	StageRequirements Stage = "requirements"
	StageHardware     Stage = "hardware"
	StageArchitecture Stage = "architecture"
	StageCode         Stage = "code"
	StageExplanation  Stage = "explanation"
	StageIteration    Stage = "iteration"
)

// StageOrder lists every stage in lifecycle order.
var StageOrder = [...]Stage{
	StageIdea,
	StageRequirements,
	StageHardware,
	StageArchitecture,
	StageCode,
	StageExplanation,
	StageIteration,
}

const NumStages = len(StageOrder)

// ParseStage validates a stage identifier coming off the wire.
func ParseStage(s string) (Stage, error) {
	for _, st := range StageOrder {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStage, s)
}

// Index returns the stage's position in the lifecycle, or -1 if unknown.
func (s Stage) Index() int {
	for i, st := range StageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Stage) Valid() bool { return s.Index() >= 0 }

// Next returns the successor stage. ok is false for the terminal stage
// (iteration) and for unknown stages.
func (s Stage) Next() (Stage, bool) {
	i := s.Index()
	if i < 0 || i == NumStages-1 {
		return "", false
	}
	return StageOrder[i+1], true
}

func (s Stage) IsLast() bool { return s == StageOrder[NumStages-1] }
