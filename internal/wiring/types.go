package wiring

// ComponentRef identifies one resolved component of an allocation, in
// selection order.
type ComponentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Result is the pure output of one allocation pass. It is never persisted by
// the allocator itself; callers may snapshot it.
type Result struct {
	Diagram        string                       `json:"diagram"`
	Warnings       []string                     `json:"warnings"`
	PinAssignments map[string]map[string]string `json:"pin_assignments"`
	Components     []ComponentRef               `json:"components"`
}
